package app

import (
	"context"

	"github.com/campusforma/mono-repo/backend/services/vault-service/internal/config"
	"github.com/campusforma/mono-repo/backend/services/vault-service/internal/constants"
	"github.com/campusforma/mono-repo/backend/shared/go-metrics"
	"github.com/campusforma/mono-repo/backend/shared/go-storage"
	"github.com/campusforma/mono-repo/backend/shared/go-supabase"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
)

type App struct {
	Config   *config.Config
	Supabase *supabase.Client // nil on the s3 backend without SUPABASE_URL
	Signer   storage.Signer
	Metrics  *metrics.Collector
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

	switch cfg.StorageBackend {
	case constants.StorageBackendS3:
		signer, err := storage.NewS3Signer(cfg.S3)
		if err != nil {
			return nil, err
		}
		app.Signer = signer
		utils.Logger.Infof("vault-service signs URLs with S3 presigning (region=%s)", cfg.S3.Region)
	default:
		if app.Supabase == nil {
			return nil, utils.ErrNoRemoteBackend
		}
		app.Signer = storage.NewSupabaseSigner(app.Supabase)
		utils.Logger.Info("vault-service signs URLs with the storage API")
	}

	return app, nil
}

// Ping checks the storage API when there is one. S3 presigning is local.
func (a *App) Ping(ctx context.Context) error {
	if a.Supabase == nil {
		return nil
	}
	return a.Supabase.Ping(ctx)
}

func (a *App) Close() {}
