package pgtypes

import (
	"fmt"
	"math"
	"strings"
)

// SubtypeKey is the compound registry key used by derived type kinds
// (range, multirange, ...) to index themselves by the oid of a related
// type. Kind identifies the derived kind, OID the related type.
type SubtypeKey struct {
	Kind string
	OID  uint32
}

// registryKey is a name (string), an oid (uint32) or a SubtypeKey.
type registryKey = any

// TypesRegistry is an indexed container of TypeInfo values. A single
// TypeInfo is reachable under all its natural keys: name, scalar oid,
// array oid and regtype alias.
//
// A registry derived from a template shares the template's index until
// the first mutation, which forks a private copy (copy-on-write). The
// registry has no internal locking: it is designed for single-owner
// mutation, e.g. one registry per connection.
type TypesRegistry struct {
	types map[registryKey]*TypeInfo

	// ownState is false while types is still shared with a template.
	ownState bool
}

// NewTypesRegistry creates an empty registry owning its own index.
func NewTypesRegistry() *TypesRegistry {
	r := &TypesRegistry{}
	r.Clear()
	return r
}

// DeriveTypesRegistry creates a registry sharing the template's index.
// Both the new registry and the template are marked as shared; the
// first mutation on either side forks a private copy, leaving the
// other side untouched. A nil template yields an empty registry.
func DeriveTypesRegistry(template *TypesRegistry) *TypesRegistry {
	if template == nil {
		return NewTypesRegistry()
	}
	template.ownState = false
	return &TypesRegistry{types: template.types, ownState: false}
}

// Clear resets the registry to an empty, privately owned index.
func (r *TypesRegistry) Clear() {
	r.types = make(map[registryKey]*TypeInfo)
	r.ownState = true
}

// Add indexes info under its scalar oid, array oid and name. The
// regtype is added as an alias only when that key is not already
// bound; existing bindings are never overwritten by the alias.
func (r *TypesRegistry) Add(info *TypeInfo) {
	r.ensureOwnState()

	if info.OID != 0 {
		r.types[info.OID] = info
	}
	if info.ArrayOID != 0 {
		r.types[info.ArrayOID] = info
	}
	r.types[info.Name] = info

	if info.Regtype != "" {
		if _, bound := r.types[info.Regtype]; !bound {
			r.types[info.Regtype] = info
		}
	}

	// Allow info to customise further its relation with the registry
	if info.onAdded != nil {
		info.onAdded(r)
	}
}

// AddSubtype binds info under the compound (kind, oid) key. Derived
// type kinds call this from their added hook.
func (r *TypesRegistry) AddSubtype(kind string, oid uint32, info *TypeInfo) {
	r.ensureOwnState()
	r.types[SubtypeKey{Kind: kind, OID: oid}] = info
}

// Lookup returns the type registered under key, which may be a name
// (string, optionally suffixed with "[]"), an oid (any integer type)
// or a SubtypeKey.
//
// A missing key yields an error wrapping ErrNotFound; a key of an
// unsupported shape yields an error wrapping ErrInvalidKey.
func (r *TypesRegistry) Lookup(key any) (*TypeInfo, error) {
	k, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}

	info, ok := r.types[k]
	if !ok {
		return nil, fmt.Errorf("%w: couldn't find the type %v in the types registry", ErrNotFound, key)
	}
	return info, nil
}

// Get returns the type registered under key, or (nil, false) when the
// key is absent. Unlike a miss, a key of an unsupported shape is a
// programming error and panics; use Lookup to receive it as an error.
func (r *TypesRegistry) Get(key any) (*TypeInfo, bool) {
	info, err := r.Lookup(key)
	if err != nil {
		if IsNotFound(err) {
			return nil, false
		}
		panic(err)
	}
	return info, true
}

// GetOID resolves a type name to its oid. A name suffixed with "[]"
// resolves to the array oid of the base type. An unknown name yields
// an error wrapping ErrNotFound.
func (r *TypesRegistry) GetOID(name string) (uint32, error) {
	info, err := r.Lookup(name)
	if err != nil {
		return 0, err
	}
	if strings.HasSuffix(name, "[]") {
		return info.ArrayOID, nil
	}
	return info.OID, nil
}

// GetBySubtype returns the derived-kind type whose subtype is the
// given element name or oid: the element is resolved first, then its
// scalar oid combined with kind forms the compound key. Returns
// (nil, false) when either the element or the derived entry is absent.
func (r *TypesRegistry) GetBySubtype(kind string, subtype any) (*TypeInfo, bool) {
	info, err := r.Lookup(subtype)
	if err != nil {
		if IsNotFound(err) {
			return nil, false
		}
		panic(err)
	}
	return r.Get(SubtypeKey{Kind: kind, OID: info.OID})
}

// Types returns each distinct registered TypeInfo exactly once, even
// when it is reachable under several keys. Deduplication is by
// pointer identity: two structurally equal types registered separately
// both appear.
func (r *TypesRegistry) Types() []*TypeInfo {
	seen := make(map[*TypeInfo]struct{}, len(r.types))
	out := make([]*TypeInfo, 0, len(r.types))
	for _, info := range r.types {
		if _, ok := seen[info]; ok {
			continue
		}
		seen[info] = struct{}{}
		out = append(out, info)
	}
	return out
}

// Count returns the number of distinct registered types.
func (r *TypesRegistry) Count() int {
	return len(r.Types())
}

// ensureOwnState forks a private copy of the index if it is still
// shared with a template.
func (r *TypesRegistry) ensureOwnState() {
	if r.ownState {
		return
	}
	types := make(map[registryKey]*TypeInfo, len(r.types))
	for k, v := range r.types {
		types[k] = v
	}
	r.types = types
	r.ownState = true
}

// normalizeKey validates the key shape and strips the "[]" suffix from
// name keys so array-name lookups resolve to the base entry.
func normalizeKey(key any) (registryKey, error) {
	switch k := key.(type) {
	case string:
		return strings.TrimSuffix(k, "[]"), nil
	case uint32:
		return k, nil
	case SubtypeKey:
		return k, nil
	case int:
		return oidKey(int64(k))
	case int32:
		return oidKey(int64(k))
	case int64:
		return oidKey(k)
	case uint:
		return oidKey(int64(k))
	case uint64:
		if k > math.MaxUint32 {
			return nil, fmt.Errorf("%w: oid %d out of range", ErrInvalidKey, k)
		}
		return uint32(k), nil
	default:
		return nil, fmt.Errorf("%w: the key must be an oid or a name, got %T", ErrInvalidKey, key)
	}
}

func oidKey(k int64) (registryKey, error) {
	if k < 0 || k > math.MaxUint32 {
		return nil, fmt.Errorf("%w: oid %d out of range", ErrInvalidKey, k)
	}
	return uint32(k), nil
}
