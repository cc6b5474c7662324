package repositories

import (
	"github.com/jackc/pgtype"
)

// inetParam encodes ip for an inet column. A missing or unparsable address
// (the "unknown" marker included) is stored as NULL.
func inetParam(ip *string) pgtype.Inet {
	var v pgtype.Inet
	if ip == nil || v.Set(*ip) != nil {
		return pgtype.Inet{Status: pgtype.Null}
	}
	return v
}

// jsonbParam encodes serialized JSON for a jsonb argument, NULL when absent.
func jsonbParam(raw *string) pgtype.JSONB {
	if raw == nil {
		return pgtype.JSONB{Status: pgtype.Null}
	}
	return pgtype.JSONB{Bytes: []byte(*raw), Status: pgtype.Present}
}
