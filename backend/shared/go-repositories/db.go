package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// DB is the subset of *pgxpool.Pool the Postgres repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RPCClient is the subset of *supabase.Client the REST repositories use.
type RPCClient interface {
	RPC(ctx context.Context, fn string, params any, out any) error
	Insert(ctx context.Context, table string, row any) error
}

// ErrNotSupported is returned by REST repositories for operations PostgREST does not expose
// to the service role key.
var ErrNotSupported = errors.New("operation not supported by this transport")

// Remote procedures and tables owned by the backend-as-a-service.
const (
	fnValidateAttendanceCode = "validate_attendance_code"
	fnCheckRateLimit         = "check_rate_limit"
	fnLogAttendanceAction    = "log_attendance_action"
	tableCodeAttempts        = "attendance_code_attempts"
)
