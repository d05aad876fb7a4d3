// Package sqlexec runs pgtypes catalog lookups over database/sql.
//
// The executor wraps either a *sql.DB, in which case each lookup runs
// in its own short transaction, or an already-open *sql.Tx, in which
// case the lookup is scoped with a savepoint so a failed ::regtype
// cast never aborts the caller's transaction.
package sqlexec

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/conduit-lang/pgtypes/pkg/pgtypes"
)

// savepointCounter provides unique savepoint names across executors
var savepointCounter atomic.Uint64

// Executor implements pgtypes.Executor over database/sql.
type Executor struct {
	db   *sql.DB
	tx   *sql.Tx
	info pgtypes.ServerInfo
}

// New creates an executor that runs each lookup in its own
// transaction on db.
func New(db *sql.DB, info pgtypes.ServerInfo) *Executor {
	return &Executor{db: db, info: info}
}

// NewTx creates an executor that scopes each lookup with a savepoint
// inside the given open transaction.
func NewTx(tx *sql.Tx, info pgtypes.ServerInfo) *Executor {
	return &Executor{tx: tx, info: info}
}

// Detect probes the server for vendor and version.
func Detect(ctx context.Context, db *sql.DB) (pgtypes.ServerInfo, error) {
	var banner string
	if err := db.QueryRowContext(ctx, "SELECT version()").Scan(&banner); err != nil {
		return pgtypes.ServerInfo{}, fmt.Errorf("failed to read server version: %w", err)
	}

	vendor := pgtypes.VendorPostgreSQL
	if strings.HasPrefix(banner, "CockroachDB") {
		vendor = pgtypes.VendorCockroachDB
	}

	// Banner looks like "PostgreSQL 16.2 on x86_64-pc-linux-gnu, ..."
	// or "CockroachDB CCL v23.1.11 (...)".
	version := 0
	for _, field := range strings.Fields(banner) {
		if v := pgtypes.ParseServerVersion(vendor, field); v > 0 {
			version = v
			break
		}
	}

	return pgtypes.ServerInfo{Vendor: vendor, Version: version}, nil
}

// ServerInfo implements pgtypes.Executor.
func (e *Executor) ServerInfo() pgtypes.ServerInfo {
	return e.info
}

// QueryTypeRow implements pgtypes.Executor. The query runs inside a
// transaction scope that is released on every exit path, so the
// connection is left in the transactional state it was found in.
func (e *Executor) QueryTypeRow(ctx context.Context, query, name string) ([]pgtypes.Row, error) {
	if e.tx != nil {
		return e.queryInSavepoint(ctx, query, name)
	}
	return e.queryInTransaction(ctx, query, name)
}

func (e *Executor) queryInTransaction(ctx context.Context, query, name string) ([]pgtypes.Row, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	rows, err := collectRows(ctx, tx, query, name)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return nil, fmt.Errorf("query failed: %w, rollback failed: %v", err, rbErr)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return rows, nil
}

func (e *Executor) queryInSavepoint(ctx context.Context, query, name string) ([]pgtypes.Row, error) {
	spName := fmt.Sprintf("pgtypes_sp_%d", savepointCounter.Add(1))

	if _, err := e.tx.ExecContext(ctx, "SAVEPOINT "+spName); err != nil {
		return nil, fmt.Errorf("failed to create savepoint: %w", err)
	}

	rows, err := collectRows(ctx, e.tx, query, name)
	if err != nil {
		// ROLLBACK TO keeps the savepoint alive; release it afterwards
		// so the caller's savepoint stack is unchanged.
		if _, rbErr := e.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+spName); rbErr != nil {
			return nil, fmt.Errorf("query failed: %w, rollback to savepoint failed: %v", err, rbErr)
		}
		if _, rlErr := e.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+spName); rlErr != nil {
			return nil, fmt.Errorf("query failed: %w, release savepoint failed: %v", err, rlErr)
		}
		return nil, err
	}

	if _, err := e.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+spName); err != nil {
		return nil, fmt.Errorf("failed to release savepoint: %w", err)
	}
	return rows, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func collectRows(ctx context.Context, q queryer, query, name string) ([]pgtypes.Row, error) {
	rows, err := q.QueryContext(ctx, query, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []pgtypes.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(pgtypes.Row, len(cols))
		for i, col := range cols {
			v := values[i]
			// lib/pq hands text columns back as []byte
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
