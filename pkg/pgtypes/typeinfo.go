// Package pgtypes provides a client-side cache of PostgreSQL type
// metadata. A TypeInfo describes one database type (name, oid, array
// oid, canonical textual form, array delimiter); a TypesRegistry is a
// multi-key index of TypeInfo values with copy-on-write sharing, so
// per-connection registries can be derived cheaply from a template.
// Unknown types are resolved on demand with Fetch, which queries the
// system catalog through an Executor.
package pgtypes

import (
	"errors"
	"fmt"
)

// TypeInfo holds information about a PostgreSQL base type.
//
// A TypeInfo is immutable after construction. The registry relies on
// pointer identity, not structural equality, to recognise the same
// type reachable under several keys.
type TypeInfo struct {
	// Name is the base (non-array) catalog name, e.g. "int4".
	Name string
	// OID is the scalar type oid; 0 means unknown.
	OID uint32
	// ArrayOID is the oid of the corresponding array type; 0 means the
	// type has no array variant.
	ArrayOID uint32
	// Regtype is the canonical textual form as the catalog prints it,
	// e.g. "integer" for int4.
	Regtype string
	// Delimiter is the single character separating elements in array
	// literals of this type.
	Delimiter string

	onAdded func(*TypesRegistry)
}

// TypeInfoOption customises a TypeInfo at construction time.
type TypeInfoOption func(*TypeInfo)

// WithRegtype sets the canonical textual form of the type. When not
// supplied, Regtype defaults to the type name.
func WithRegtype(regtype string) TypeInfoOption {
	return func(t *TypeInfo) {
		if regtype != "" {
			t.Regtype = regtype
		}
	}
}

// WithDelimiter sets the array literal element delimiter (default ",").
func WithDelimiter(delimiter string) TypeInfoOption {
	return func(t *TypeInfo) {
		if delimiter != "" {
			t.Delimiter = delimiter
		}
	}
}

// WithAddedHook attaches a callback invoked by a registry after the
// TypeInfo has been added to it. Derived type kinds use this to index
// themselves under additional compound keys.
func WithAddedHook(hook func(*TypesRegistry)) TypeInfoOption {
	return func(t *TypeInfo) {
		t.onAdded = hook
	}
}

// NewTypeInfo creates the description of a PostgreSQL type.
func NewTypeInfo(name string, oid, arrayOID uint32, opts ...TypeInfoOption) *TypeInfo {
	info := &TypeInfo{
		Name:      name,
		OID:       oid,
		ArrayOID:  arrayOID,
		Regtype:   name,
		Delimiter: ",",
	}
	for _, opt := range opts {
		opt(info)
	}
	return info
}

// String returns a diagnostic representation of the type.
func (t *TypeInfo) String() string {
	return fmt.Sprintf("<TypeInfo: %s (oid: %d, array oid: %d)>", t.Name, t.OID, t.ArrayOID)
}

// AdaptContext is the scope a type registration applies to. A context
// owns a TypesRegistry and knows how to install array handling support
// for types that have an array variant.
type AdaptContext interface {
	// Types returns the registry associated with this context.
	Types() *TypesRegistry
	// RegisterArray installs array handling support for info in this
	// context. Called by Register when info.ArrayOID is nonzero.
	RegisterArray(info *TypeInfo)
}

// defaultContext is the process-wide registration scope. It is
// installed explicitly via SetDefaultContext; importing pkg/postgres
// installs a context backed by the builtin types registry.
var defaultContext AdaptContext

// SetDefaultContext installs the process-wide default registration
// scope used by Register when no context is given. It is meant to be
// called once during startup.
func SetDefaultContext(ctx AdaptContext) {
	defaultContext = ctx
}

// DefaultContext returns the process-wide default registration scope,
// or nil if none has been installed.
func DefaultContext() AdaptContext {
	return defaultContext
}

// Register adds the type information to the registry associated with
// adapters, or to the process-wide default scope when adapters is nil.
// If the type has an array variant, array handling support is
// registered with the same scope.
//
// Register only writes into the registry; fetching an unknown type is
// a separate, explicit step (see Fetch).
func (t *TypeInfo) Register(adapters AdaptContext) error {
	if adapters == nil {
		adapters = defaultContext
		if adapters == nil {
			return errors.New("no default adapt context installed: import pkg/postgres or pass a context explicitly")
		}
	}

	adapters.Types().Add(t)

	if t.ArrayOID != 0 {
		adapters.RegisterArray(t)
	}
	return nil
}
