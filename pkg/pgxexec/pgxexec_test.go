package pgxexec

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/conduit-lang/pgtypes/pkg/pgtypes"
)

// Transactions double as connections: Begin on a pgx.Tx opens a
// savepoint-backed nested transaction.
var _ Conn = pgx.Tx(nil)

type stubConn struct {
	beginErr error
}

func (c *stubConn) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, c.beginErr
}

func TestWithServerInfo(t *testing.T) {
	want := pgtypes.ServerInfo{Vendor: pgtypes.VendorCockroachDB, Version: 230111}

	exec := New(&stubConn{}, WithServerInfo(want))
	assert.Equal(t, want, exec.ServerInfo())
}

func TestNewWithoutParameterStatus(t *testing.T) {
	// A connection that exposes no PgConn leaves the identity zero, so
	// query building falls back to the conservative cast form.
	exec := New(&stubConn{})
	assert.Equal(t, pgtypes.ServerInfo{}, exec.ServerInfo())
}

func TestQueryTypeRowBeginError(t *testing.T) {
	boom := assert.AnError
	exec := New(&stubConn{beginErr: boom}, WithServerInfo(pgtypes.ServerInfo{
		Vendor:  pgtypes.VendorPostgreSQL,
		Version: 160002,
	}))

	_, err := exec.QueryTypeRow(context.Background(), "SELECT 1", "int4")
	assert.ErrorIs(t, err, boom)
}
