package pgtypes

import (
	"fmt"
	"strconv"
	"strings"
)

// Recognised server vendors for capability detection.
const (
	VendorPostgreSQL  = "PostgreSQL"
	VendorCockroachDB = "CockroachDB"
)

// ServerInfo identifies the connected server. Version uses the libpq
// integer convention: 90624 for 9.6.24, 160002 for 16.2.
type ServerInfo struct {
	Vendor  string
	Version int
}

// typeInfoQueryTemplate selects the columns Fetch needs for one type.
// The ORDER BY makes the row order deterministic should search-path
// ambiguity ever produce duplicates; more than one row is still an
// error.
const typeInfoQueryTemplate = `
SELECT typname AS name, oid, typarray AS array_oid,
       oid::regtype::text AS regtype, typdelim AS delimiter
FROM pg_type t
WHERE t.oid = %s
ORDER BY t.oid
`

// typeInfoQuery builds the catalog query for the connected server.
//
// to_regtype() returns NULL for an unknown name, unlike the ::regtype
// cast, which raises undefined_object, forces a rollback and leaves
// traces in the server logs. The function is preferred whenever the
// server has it.
func typeInfoQuery(info ServerInfo) string {
	if hasToRegtype(info) {
		return fmt.Sprintf(typeInfoQueryTemplate, "to_regtype($1)")
	}
	return fmt.Sprintf(typeInfoQueryTemplate, "$1::regtype")
}

// to_regtype() was introduced in PostgreSQL 9.4 and CockroachDB 22.2.
func hasToRegtype(info ServerInfo) bool {
	switch info.Vendor {
	case VendorPostgreSQL:
		return info.Version >= 90400
	case VendorCockroachDB:
		return info.Version >= 220200
	default:
		return false
	}
}

// ParseServerVersion converts a server version string to the libpq
// integer convention. It accepts plain version parameters ("16.2",
// "9.6.24"), values with build decorations ("16.2 (Ubuntu ...)") and
// CockroachDB tags ("v23.1.11"). The vendor decides how the parts are
// weighted: PostgreSQL switched to single-part major versioning in 10,
// CockroachDB always uses major.minor.patch. Returns 0 when the
// string cannot be parsed.
func ParseServerVersion(vendor, s string) int {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(s, "v")
	// strip devel/beta/rc suffixes, e.g. "17beta1"
	parts := strings.Split(s, ".")
	nums := make([]int, 0, 3)
	for _, p := range parts {
		digits := p
		for i, c := range p {
			if c < '0' || c > '9' {
				digits = p[:i]
				break
			}
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			break
		}
		nums = append(nums, n)
	}
	if len(nums) == 0 {
		return 0
	}

	if vendor == VendorPostgreSQL && nums[0] >= 10 {
		// Single-part major versioning since PostgreSQL 10: the second
		// component is the patch level.
		v := nums[0] * 10000
		if len(nums) > 1 {
			v += nums[1]
		}
		return v
	}

	// major.minor.patch (PostgreSQL <= 9.6, CockroachDB)
	v := nums[0] * 10000
	if len(nums) > 1 {
		v += nums[1] * 100
	}
	if len(nums) > 2 {
		v += nums[2]
	}
	return v
}
