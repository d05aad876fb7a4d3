package postgres

// builtinType mirrors one pg_type row for the types shipped with the
// server, so lookups for them never hit the catalog.
type builtinType struct {
	name      string
	oid       uint32
	arrayOID  uint32
	regtype   string
	delimiter string
}

// Generated from the pg_type catalog of PostgreSQL 16.
var builtinTypes = []builtinType{
	{name: "aclitem", oid: 1033, arrayOID: 1034},
	{name: "bit", oid: 1560, arrayOID: 1561},
	{name: "bool", oid: 16, arrayOID: 1000, regtype: "boolean"},
	{name: "box", oid: 603, arrayOID: 1020, delimiter: ";"},
	{name: "bpchar", oid: 1042, arrayOID: 1014, regtype: "character"},
	{name: "bytea", oid: 17, arrayOID: 1001},
	{name: "char", oid: 18, arrayOID: 1002, regtype: `"char"`},
	{name: "cid", oid: 29, arrayOID: 1012},
	{name: "cidr", oid: 650, arrayOID: 651},
	{name: "circle", oid: 718, arrayOID: 719},
	{name: "date", oid: 1082, arrayOID: 1182},
	{name: "float4", oid: 700, arrayOID: 1021, regtype: "real"},
	{name: "float8", oid: 701, arrayOID: 1022, regtype: "double precision"},
	{name: "inet", oid: 869, arrayOID: 1041},
	{name: "int2", oid: 21, arrayOID: 1005, regtype: "smallint"},
	{name: "int4", oid: 23, arrayOID: 1007, regtype: "integer"},
	{name: "int8", oid: 20, arrayOID: 1016, regtype: "bigint"},
	{name: "interval", oid: 1186, arrayOID: 1187},
	{name: "json", oid: 114, arrayOID: 199},
	{name: "jsonb", oid: 3802, arrayOID: 3807},
	{name: "jsonpath", oid: 4072, arrayOID: 4073},
	{name: "line", oid: 628, arrayOID: 629},
	{name: "lseg", oid: 601, arrayOID: 1018},
	{name: "macaddr", oid: 829, arrayOID: 1040},
	{name: "macaddr8", oid: 774, arrayOID: 775},
	{name: "money", oid: 790, arrayOID: 791},
	{name: "name", oid: 19, arrayOID: 1003},
	{name: "numeric", oid: 1700, arrayOID: 1231},
	{name: "oid", oid: 26, arrayOID: 1028},
	{name: "path", oid: 602, arrayOID: 1019},
	{name: "point", oid: 600, arrayOID: 1017},
	{name: "polygon", oid: 604, arrayOID: 1027},
	{name: "record", oid: 2249, arrayOID: 2287},
	{name: "refcursor", oid: 1790, arrayOID: 2201},
	{name: "regclass", oid: 2205, arrayOID: 2210},
	{name: "regconfig", oid: 3734, arrayOID: 3735},
	{name: "regdictionary", oid: 3769, arrayOID: 3770},
	{name: "regnamespace", oid: 4089, arrayOID: 4090},
	{name: "regoper", oid: 2203, arrayOID: 2208},
	{name: "regoperator", oid: 2204, arrayOID: 2209},
	{name: "regproc", oid: 24, arrayOID: 1008},
	{name: "regprocedure", oid: 2202, arrayOID: 2207},
	{name: "regrole", oid: 4096, arrayOID: 4097},
	{name: "regtype", oid: 2206, arrayOID: 2211},
	{name: "text", oid: 25, arrayOID: 1009},
	{name: "tid", oid: 27, arrayOID: 1010},
	{name: "time", oid: 1083, arrayOID: 1183, regtype: "time without time zone"},
	{name: "timestamp", oid: 1114, arrayOID: 1115, regtype: "timestamp without time zone"},
	{name: "timestamptz", oid: 1184, arrayOID: 1185, regtype: "timestamp with time zone"},
	{name: "timetz", oid: 1266, arrayOID: 1270, regtype: "time with time zone"},
	{name: "tsquery", oid: 3615, arrayOID: 3645},
	{name: "tsvector", oid: 3614, arrayOID: 3643},
	{name: "txid_snapshot", oid: 2970, arrayOID: 2949},
	{name: "uuid", oid: 2950, arrayOID: 2951},
	{name: "varbit", oid: 1562, arrayOID: 1563, regtype: "bit varying"},
	{name: "varchar", oid: 1043, arrayOID: 1015, regtype: "character varying"},
	{name: "xid", oid: 28, arrayOID: 1011},
	{name: "xml", oid: 142, arrayOID: 143},
}
