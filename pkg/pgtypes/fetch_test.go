package pgtypes

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor returns canned rows or a canned error and records what
// was asked of it.
type fakeExecutor struct {
	info ServerInfo
	rows []Row
	err  error

	gotQuery string
	gotName  string
}

func (f *fakeExecutor) ServerInfo() ServerInfo { return f.info }

func (f *fakeExecutor) QueryTypeRow(ctx context.Context, query, name string) ([]Row, error) {
	f.gotQuery = query
	f.gotName = name
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func pgServer() ServerInfo {
	return ServerInfo{Vendor: VendorPostgreSQL, Version: 160002}
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("one row builds a descriptor", func(t *testing.T) {
		exec := &fakeExecutor{
			info: pgServer(),
			rows: []Row{{
				"name":      "hstore",
				"oid":       int64(16414),
				"array_oid": int64(16419),
				"regtype":   "public.hstore",
				"delimiter": ",",
			}},
		}

		info, err := Fetch(ctx, exec, "hstore")
		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Equal(t, "hstore", info.Name)
		assert.Equal(t, uint32(16414), info.OID)
		assert.Equal(t, uint32(16419), info.ArrayOID)
		assert.Equal(t, "public.hstore", info.Regtype)
		assert.Equal(t, ",", info.Delimiter)
		assert.Equal(t, "hstore", exec.gotName)
	})

	t.Run("zero rows is absent, not an error", func(t *testing.T) {
		exec := &fakeExecutor{info: pgServer()}

		info, err := Fetch(ctx, exec, "nope")
		require.NoError(t, err)
		assert.Nil(t, info)
	})

	t.Run("multiple rows is an integrity error", func(t *testing.T) {
		row := Row{"name": "dup", "oid": int64(1), "array_oid": int64(2)}
		exec := &fakeExecutor{info: pgServer(), rows: []Row{row, row}}

		info, err := Fetch(ctx, exec, "dup")
		require.Error(t, err)
		assert.True(t, IsAmbiguousType(err))
		assert.Nil(t, info)
		assert.Contains(t, err.Error(), "dup")
	})

	t.Run("undefined object from pgx becomes absent", func(t *testing.T) {
		exec := &fakeExecutor{info: pgServer(), err: &pgconn.PgError{Code: "42704"}}

		info, err := Fetch(ctx, exec, "ghost")
		require.NoError(t, err)
		assert.Nil(t, info)
	})

	t.Run("undefined object from lib/pq becomes absent", func(t *testing.T) {
		exec := &fakeExecutor{info: pgServer(), err: &pq.Error{Code: "42704"}}

		info, err := Fetch(ctx, exec, "ghost")
		require.NoError(t, err)
		assert.Nil(t, info)
	})

	t.Run("other errors propagate unchanged", func(t *testing.T) {
		boom := errors.New("connection lost")
		exec := &fakeExecutor{info: pgServer(), err: boom}

		_, err := Fetch(ctx, exec, "hstore")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("driver value shapes", func(t *testing.T) {
		exec := &fakeExecutor{
			info: pgServer(),
			rows: []Row{{
				"name":      "box",
				"oid":       uint32(603),
				"array_oid": "1020",
				"regtype":   "box",
				"delimiter": byte(';'),
			}},
		}

		info, err := Fetch(ctx, exec, "box")
		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Equal(t, uint32(603), info.OID)
		assert.Equal(t, uint32(1020), info.ArrayOID)
		assert.Equal(t, ";", info.Delimiter)
	})
}

func TestFetchIdentifier(t *testing.T) {
	exec := &fakeExecutor{info: pgServer()}

	_, err := FetchIdentifier(context.Background(), exec, pgx.Identifier{"my schema", "my type"})
	require.NoError(t, err)
	assert.Equal(t, `"my schema"."my type"`, exec.gotName)
}

func TestTypeInfoQuery(t *testing.T) {
	tests := []struct {
		name     string
		info     ServerInfo
		wantSafe bool
	}{
		{"modern PostgreSQL", ServerInfo{VendorPostgreSQL, 160002}, true},
		{"PostgreSQL 9.4 boundary", ServerInfo{VendorPostgreSQL, 90400}, true},
		{"old PostgreSQL", ServerInfo{VendorPostgreSQL, 90300}, false},
		{"modern CockroachDB", ServerInfo{VendorCockroachDB, 230111}, true},
		{"CockroachDB 22.2 boundary", ServerInfo{VendorCockroachDB, 220200}, true},
		{"old CockroachDB", ServerInfo{VendorCockroachDB, 220100}, false},
		{"unknown vendor", ServerInfo{"YugabyteDB", 999999}, false},
		{"unknown version", ServerInfo{VendorPostgreSQL, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := typeInfoQuery(tt.info)
			assert.Contains(t, query, "FROM pg_type")
			assert.Contains(t, query, "ORDER BY t.oid")
			if tt.wantSafe {
				assert.Contains(t, query, "to_regtype($1)")
			} else {
				assert.Contains(t, query, "$1::regtype")
				assert.NotContains(t, query, "to_regtype")
			}
		})
	}
}
