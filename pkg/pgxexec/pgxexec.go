// Package pgxexec runs pgtypes catalog lookups over pgx/v5.
package pgxexec

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/conduit-lang/pgtypes/pkg/pgtypes"
)

// Conn is the subset of pgx connections the executor needs. It is
// satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx; calling Begin on
// an open transaction scopes the lookup with a pgx savepoint.
type Conn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Executor implements pgtypes.Executor over pgx.
type Executor struct {
	conn Conn
	info pgtypes.ServerInfo
}

// Option customises an Executor.
type Option func(*Executor)

// WithServerInfo overrides the detected server identity, e.g. for
// connections obtained from a pool that proxies several servers.
func WithServerInfo(info pgtypes.ServerInfo) Option {
	return func(e *Executor) {
		e.info = info
	}
}

// New creates an executor on conn. Unless overridden, the server
// identity is read from the connection's parameter status.
func New(conn Conn, opts ...Option) *Executor {
	e := &Executor{conn: conn}
	for _, opt := range opts {
		opt(e)
	}

	if e.info == (pgtypes.ServerInfo{}) {
		if pc, ok := conn.(interface{ PgConn() *pgconn.PgConn }); ok {
			e.info = detectServerInfo(pc.PgConn())
		}
	}
	return e
}

// ServerInfo implements pgtypes.Executor.
func (e *Executor) ServerInfo() pgtypes.ServerInfo {
	return e.info
}

// QueryTypeRow implements pgtypes.Executor. The query runs inside a
// transaction (or savepoint, when conn is already a transaction) that
// is rolled back on every failure path, so the connection is left in
// the transactional state it was found in.
func (e *Executor) QueryTypeRow(ctx context.Context, query, name string) ([]pgtypes.Row, error) {
	tx, err := e.conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	// no-op after a successful commit
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, query, name)
	if err != nil {
		return nil, err
	}

	recs, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	out := make([]pgtypes.Row, len(recs))
	for i, rec := range recs {
		out[i] = pgtypes.Row(rec)
	}
	return out, nil
}

// detectServerInfo reads vendor and version from the connection
// parameters. CockroachDB reports a compatibility PostgreSQL version
// in server_version and its own release in crdb_version.
func detectServerInfo(pc *pgconn.PgConn) pgtypes.ServerInfo {
	if crdb := pc.ParameterStatus("crdb_version"); crdb != "" {
		// crdb_version looks like "CockroachDB CCL v23.1.11 (...)"
		version := 0
		for _, field := range strings.Fields(crdb) {
			if v := pgtypes.ParseServerVersion(pgtypes.VendorCockroachDB, field); v > 0 {
				version = v
				break
			}
		}
		return pgtypes.ServerInfo{Vendor: pgtypes.VendorCockroachDB, Version: version}
	}

	return pgtypes.ServerInfo{
		Vendor:  pgtypes.VendorPostgreSQL,
		Version: pgtypes.ParseServerVersion(pgtypes.VendorPostgreSQL, pc.ParameterStatus("server_version")),
	}
}
