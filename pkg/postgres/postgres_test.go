package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/pgtypes/pkg/pgtypes"
)

func TestBuiltinTypes(t *testing.T) {
	t.Run("int4", func(t *testing.T) {
		info, ok := Types.Get("int4")
		require.True(t, ok)
		assert.Equal(t, uint32(23), info.OID)
		assert.Equal(t, uint32(1007), info.ArrayOID)
		assert.Equal(t, "integer", info.Regtype)

		// Reachable by regtype alias and by oid too.
		byAlias, ok := Types.Get("integer")
		require.True(t, ok)
		assert.Same(t, info, byAlias)

		byOID, ok := Types.Get(uint32(23))
		require.True(t, ok)
		assert.Same(t, info, byOID)
	})

	t.Run("array suffix", func(t *testing.T) {
		info, ok := Types.Get("text[]")
		require.True(t, ok)
		assert.Equal(t, "text", info.Name)

		oid, err := Types.GetOID("text[]")
		require.NoError(t, err)
		assert.Equal(t, uint32(1009), oid)
	})

	t.Run("box uses semicolon delimiter", func(t *testing.T) {
		info, ok := Types.Get("box")
		require.True(t, ok)
		assert.Equal(t, ";", info.Delimiter)
	})

	t.Run("varchar regtype", func(t *testing.T) {
		info, ok := Types.Get("character varying")
		require.True(t, ok)
		assert.Equal(t, "varchar", info.Name)
		assert.Equal(t, uint32(1043), info.OID)
	})
}

func TestRegisterDefaultScope(t *testing.T) {
	// Importing this package installs Adapters as the default context.
	info := pgtypes.NewTypeInfo("test_register_default", 4200001, 4200002)
	require.NoError(t, info.Register(nil))

	got, ok := Types.Get("test_register_default")
	require.True(t, ok)
	assert.Same(t, info, got)
}

func TestOnRegisterArray(t *testing.T) {
	ctx := NewContext(pgtypes.NewTypesRegistry())

	var gotArray *pgtypes.TypeInfo
	ctx.OnRegisterArray(func(info *pgtypes.TypeInfo) {
		gotArray = info
	})

	info := pgtypes.NewTypeInfo("hstore", 16414, 16419)
	require.NoError(t, info.Register(ctx))
	assert.Same(t, info, gotArray)

	// Without a hook, array registration is a no-op.
	bare := NewContext(pgtypes.NewTypesRegistry())
	require.NoError(t, info.Register(bare))
}

func TestDerivedRegistryIsolation(t *testing.T) {
	derived := pgtypes.DeriveTypesRegistry(Types)

	// Builtins are visible through the shared index.
	_, ok := derived.Get("int4")
	require.True(t, ok)

	derived.Add(pgtypes.NewTypeInfo("test_derived_only", 4300001, 0))
	if _, ok := Types.Get("test_derived_only"); ok {
		t.Error("derived add leaked into the global registry")
	}
}

func TestNewRegistryIndependence(t *testing.T) {
	fresh := NewRegistry()
	fresh.Add(pgtypes.NewTypeInfo("test_fresh_only", 4400001, 0))

	if _, ok := Types.Get("test_fresh_only"); ok {
		t.Error("fresh registry shares state with the global one")
	}
}
