// Package postgres exposes the builtin PostgreSQL type metadata and
// the process-wide default registration scope.
//
// Importing this package installs Adapters as the pgtypes default
// context, so TypeInfo.Register(nil) writes into the global Types
// registry.
package postgres

import (
	"github.com/conduit-lang/pgtypes/pkg/pgtypes"
)

// Context is the default pgtypes.AdaptContext implementation: a
// registry plus a pluggable array-registration collaborator.
type Context struct {
	types     *pgtypes.TypesRegistry
	arrayHook func(*pgtypes.TypeInfo)
}

// NewContext creates a registration scope around the given registry.
func NewContext(types *pgtypes.TypesRegistry) *Context {
	return &Context{types: types}
}

// Types implements pgtypes.AdaptContext.
func (c *Context) Types() *pgtypes.TypesRegistry {
	return c.types
}

// RegisterArray implements pgtypes.AdaptContext. It forwards to the
// hook installed with OnRegisterArray; without one it is a no-op.
func (c *Context) RegisterArray(info *pgtypes.TypeInfo) {
	if c.arrayHook != nil {
		c.arrayHook(info)
	}
}

// OnRegisterArray installs the collaborator invoked when a type with
// an array variant is registered in this scope. Adapter layers use it
// to set up array encoding and decoding.
func (c *Context) OnRegisterArray(hook func(*pgtypes.TypeInfo)) {
	c.arrayHook = hook
}

// Types is the process-wide default registry, seeded with the builtin
// PostgreSQL types. It is constructed once, at package init.
var Types = NewRegistry()

// Adapters is the process-wide default registration scope, backed by
// Types.
var Adapters = NewContext(Types)

func init() {
	pgtypes.SetDefaultContext(Adapters)
}

// NewRegistry returns a fresh registry seeded with the builtin
// PostgreSQL types. Connection-scoped registries should usually be
// derived from Types instead, to share its index until first write:
//
//	reg := pgtypes.DeriveTypesRegistry(postgres.Types)
func NewRegistry() *pgtypes.TypesRegistry {
	r := pgtypes.NewTypesRegistry()
	for _, b := range builtinTypes {
		var opts []pgtypes.TypeInfoOption
		if b.regtype != "" {
			opts = append(opts, pgtypes.WithRegtype(b.regtype))
		}
		if b.delimiter != "" {
			opts = append(opts, pgtypes.WithDelimiter(b.delimiter))
		}
		r.Add(pgtypes.NewTypeInfo(b.name, b.oid, b.arrayOID, opts...))
	}
	return r
}
