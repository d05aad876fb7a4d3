package pgtypes

import "testing"

func TestParseServerVersion(t *testing.T) {
	tests := []struct {
		vendor string
		in     string
		want   int
	}{
		{VendorPostgreSQL, "16.2", 160002},
		{VendorPostgreSQL, "10.1", 100001},
		{VendorPostgreSQL, "9.6.24", 90624},
		{VendorPostgreSQL, "9.4.0", 90400},
		{VendorPostgreSQL, "16.2 (Ubuntu 16.2-1.pgdg22.04+1)", 160002},
		{VendorPostgreSQL, "17beta1", 170000},
		{VendorPostgreSQL, "14", 140000},
		{VendorCockroachDB, "v23.1.11", 230111},
		{VendorCockroachDB, "22.2.0", 220200},
		{VendorCockroachDB, "v19.1", 190100},
		{VendorPostgreSQL, "", 0},
		{VendorPostgreSQL, "garbage", 0},
	}

	for _, tt := range tests {
		t.Run(tt.vendor+" "+tt.in, func(t *testing.T) {
			if got := ParseServerVersion(tt.vendor, tt.in); got != tt.want {
				t.Errorf("ParseServerVersion(%q, %q) = %d, want %d", tt.vendor, tt.in, got, tt.want)
			}
		})
	}
}
