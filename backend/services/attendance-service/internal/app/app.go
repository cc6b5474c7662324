package app

import (
	"context"
	"fmt"
	"time"

	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/config"
	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/constants"
	"github.com/campusforma/mono-repo/backend/shared/go-metrics"
	"github.com/campusforma/mono-repo/backend/shared/go-repositories"
	"github.com/campusforma/mono-repo/backend/shared/go-supabase"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

type App struct {
	Config   *config.Config
	DB       *pgxpool.Pool    // nil on the REST transport
	Supabase *supabase.Client // nil when SUPABASE_URL is not set
	Metrics  *metrics.Collector
}

// Repositories groups the remote-procedure gateways for the selected transport.
type Repositories struct {
	Codes      repositories.AttendanceCodeRepository
	RateLimits repositories.RateLimitRepository
	Attempts   repositories.CodeAttemptRepository
	Actions    repositories.AttendanceActionLogRepository
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{
		Config:  cfg,
		Metrics: metrics.New(constants.MetricsNamespace),
	}

	if cfg.SupabaseURL != "" && cfg.SupabaseServiceKey != "" {
		client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		if err != nil {
			return nil, err
		}
		app.Supabase = client
	}

	if !cfg.UsesPostgres() {
		if app.Supabase == nil {
			return nil, utils.ErrNoRemoteBackend
		}
		utils.Logger.Info("DB_URL not set; attendance-service uses the REST transport.")
		return app, nil
	}

	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		dbPool, err = newDBPool(ctx, cfg.DBUrl)
		cancel()
		if err == nil {
			utils.Logger.Infof("attendance-service connected to DB on attempt %d", i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
		}
		time.Sleep(backoff)
		backoff *= 2
	}

	app.DB = dbPool
	return app, nil
}

// Repositories prefers the direct Postgres connection when there is one.
func (a *App) Repositories() Repositories {
	if a.DB != nil {
		return Repositories{
			Codes:      repositories.NewAttendanceCodeRepository(a.DB),
			RateLimits: repositories.NewRateLimitRepository(a.DB),
			Attempts:   repositories.NewCodeAttemptRepository(a.DB),
			Actions:    repositories.NewAttendanceActionLogRepository(a.DB),
		}
	}
	return Repositories{
		Codes:      repositories.NewRESTAttendanceCodeRepository(a.Supabase),
		RateLimits: repositories.NewRESTRateLimitRepository(a.Supabase),
		Attempts:   repositories.NewRESTCodeAttemptRepository(a.Supabase),
		Actions:    repositories.NewRESTAttendanceActionLogRepository(a.Supabase),
	}
}

// Ping checks the backend the repositories talk to.
func (a *App) Ping(ctx context.Context) error {
	switch {
	case a.DB != nil:
		return a.DB.Ping(ctx)
	case a.Supabase != nil:
		return a.Supabase.Ping(ctx)
	default:
		return utils.ErrNoRemoteBackend
	}
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("attendance-service DB connection closed.")
	}
}

func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return pgxpool.ConnectConfig(ctx, cfg)
}
