package testhelpers

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestHelper holds what the integration suites of the services share: the
// running service URL, the secret sessions are signed with, and an optional
// direct database handle for assertions.
type TestHelper struct {
	T         *testing.T
	Ctx       context.Context
	BaseURL   string
	JWTSecret []byte
	DB        *pgxpool.Pool // nil when DB_URL is not set
	AppName   string
}

// NewTestHelper reads the environment of a deployed service. It's designed to be
// called once from a TestMain function.
func NewTestHelper(t *testing.T, appName string) *TestHelper {
	baseURL := os.Getenv("APP_URL_FROM_ANYWHERE")
	require.NotEmpty(t, baseURL, "APP_URL_FROM_ANYWHERE env var is missing")

	secret := os.Getenv("SUPABASE_JWT_SECRET")
	require.NotEmpty(t, secret, "SUPABASE_JWT_SECRET env var is missing")

	ctx := context.Background()
	h := &TestHelper{
		T:         t,
		Ctx:       ctx,
		BaseURL:   baseURL,
		JWTSecret: []byte(secret),
		AppName:   appName,
	}

	if dbURL := os.Getenv("DB_URL"); dbURL != "" {
		pool, err := pgxpool.Connect(ctx, dbURL)
		require.NoError(t, err, "Failed to connect to DB_URL")
		t.Cleanup(pool.Close)
		h.DB = pool
	}
	return h
}

// URL joins a route onto the service base URL.
func (h *TestHelper) URL(route string) string {
	return h.BaseURL + route
}
