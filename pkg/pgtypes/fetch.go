package pgtypes

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/jackc/pgx/v5"
)

// Row is a single catalog row, keyed by column name.
type Row map[string]any

// Executor runs the catalog lookup query for Fetch. The two provided
// backends (pkg/sqlexec over database/sql and pkg/pgxexec over pgx)
// differ only in their execution and transaction-scoping primitives;
// query building and error classification are shared here.
type Executor interface {
	// ServerInfo identifies the connected server for capability
	// detection.
	ServerInfo() ServerInfo

	// QueryTypeRow executes query with the type name bound to $1,
	// inside a scoped transaction boundary that restores the
	// connection's prior transaction state on every exit path,
	// including when the query itself raises.
	QueryTypeRow(ctx context.Context, query, name string) ([]Row, error)
}

// Fetch queries the system catalog to read information about a type.
//
// A name unknown to the catalog is not an error: Fetch returns
// (nil, nil). More than one catalog row for the name indicates a data
// integrity problem and yields ErrAmbiguousType. Fetch does not
// register the result; that is a separate, explicit step.
//
// Cancelling ctx aborts the pending query; the executor still runs
// its transaction scope release.
func Fetch(ctx context.Context, exec Executor, name string) (*TypeInfo, error) {
	query := typeInfoQuery(exec.ServerInfo())

	rows, err := exec.QueryTypeRow(ctx, query, name)
	if err != nil {
		// The ::regtype fallback raises undefined_object for an unknown
		// name; that is the one condition converted to an absent result.
		if isUndefinedObject(err) {
			return nil, nil
		}
		return nil, err
	}

	return typeInfoFromRows(name, rows)
}

// FetchIdentifier is Fetch for a quoted, possibly schema-qualified
// identifier, rendered with PostgreSQL quoting rules before querying.
func FetchIdentifier(ctx context.Context, exec Executor, ident pgx.Identifier) (*TypeInfo, error) {
	return Fetch(ctx, exec, ident.Sanitize())
}

func typeInfoFromRows(name string, rows []Row) (*TypeInfo, error) {
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return typeInfoFromRow(rows[0])
	default:
		return nil, fmt.Errorf("%w: found %d different types named %s", ErrAmbiguousType, len(rows), name)
	}
}

func typeInfoFromRow(row Row) (*TypeInfo, error) {
	name, ok := row["name"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("catalog row has no type name: %v", row)
	}

	oid, err := oidColumn(row, "oid")
	if err != nil {
		return nil, err
	}
	arrayOID, err := oidColumn(row, "array_oid")
	if err != nil {
		return nil, err
	}

	var opts []TypeInfoOption
	if regtype, ok := row["regtype"].(string); ok {
		opts = append(opts, WithRegtype(regtype))
	}
	if delim := delimiterColumn(row["delimiter"]); delim != "" {
		opts = append(opts, WithDelimiter(delim))
	}

	return NewTypeInfo(name, oid, arrayOID, opts...), nil
}

// oidColumn tolerates the different Go types drivers use for the oid
// catalog type.
func oidColumn(row Row, col string) (uint32, error) {
	switch v := row[col].(type) {
	case nil:
		return 0, nil
	case uint32:
		return v, nil
	case int64:
		if v < 0 || v > math.MaxUint32 {
			return 0, fmt.Errorf("catalog column %s out of oid range: %d", col, v)
		}
		return uint32(v), nil
	case int32:
		if v < 0 {
			return 0, fmt.Errorf("catalog column %s out of oid range: %d", col, v)
		}
		return uint32(v), nil
	case int:
		if v < 0 || int64(v) > math.MaxUint32 {
			return 0, fmt.Errorf("catalog column %s out of oid range: %d", col, v)
		}
		return uint32(v), nil
	case string:
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("catalog column %s is not an oid: %q", col, v)
		}
		return uint32(n), nil
	default:
		return 0, fmt.Errorf("catalog column %s has unexpected type %T", col, row[col])
	}
}

// delimiterColumn tolerates the different Go types drivers use for the
// "char" catalog type.
func delimiterColumn(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case []byte:
		return string(d)
	case byte:
		return string(rune(d))
	case rune:
		return string(d)
	default:
		return ""
	}
}
