package config

import (
	"os"
	"strings"

	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/constants"
	"github.com/campusforma/mono-repo/backend/shared/go-middleware"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
)

type Config struct {
	OrganizationName     string
	AppName              string
	AppPort              string
	AppUrl               string
	Env                  string
	DBUrl                string
	SupabaseURL          string
	SupabaseServiceKey   string
	SupabaseJWTSecret    []byte
	JWTAudience          string
	AttemptRetentionDays int

	LDFlag_CORSHighSecurity bool
}

const OrganizationName = utils.OrganizationName

var (
	// AppName is set with -ldflags at build time.
	AppName             = "attendance-service"
	LDServerContextKind = "service"
)

func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)

	env := os.Getenv("ENV")
	if env == "" {
		utils.Logger.Fatal("ENV env var is missing")
	}
	if err := utils.LoadDotEnv(".", env); err != nil {
		utils.Logger.WithError(err).Fatal("Failed to load .env file")
	}

	appUrl := os.Getenv("APP_URL_FROM_ANYWHERE")
	if appUrl == "" {
		utils.Logger.Fatal("APP_URL_FROM_ANYWHERE env var is missing")
	}
	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}

	dbURL := os.Getenv("DB_URL")
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_SERVICE_KEY")
	if dbURL == "" && (supabaseURL == "" || supabaseKey == "") {
		utils.Logger.Fatal("Either DB_URL or SUPABASE_URL + SUPABASE_SERVICE_KEY must be set")
	}

	jwtSecret := os.Getenv("SUPABASE_JWT_SECRET")
	if jwtSecret == "" {
		utils.Logger.Fatal("SUPABASE_JWT_SECRET env var is missing")
	}

	retentionDays := utils.GetEnvInt("ATTEMPT_RETENTION_DAYS", constants.DefaultAttemptRetentionDays)
	if retentionDays < 1 {
		utils.Logger.Warnf("ATTEMPT_RETENTION_DAYS must be positive, defaulting to %d", constants.DefaultAttemptRetentionDays)
		retentionDays = constants.DefaultAttemptRetentionDays
	}

	flags, err := utils.NewFlagSnapshot(os.Getenv("LD_SDK_KEY"), LDServerContextKind, AppName)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	defer flags.Close()

	return &Config{
		OrganizationName:     OrganizationName,
		AppName:              AppName,
		AppPort:              appPort,
		AppUrl:               appUrl,
		Env:                  strings.ToLower(env),
		DBUrl:                dbURL,
		SupabaseURL:          supabaseURL,
		SupabaseServiceKey:   supabaseKey,
		SupabaseJWTSecret:    []byte(jwtSecret),
		JWTAudience:          utils.GetEnvDefault("SUPABASE_JWT_AUDIENCE", middleware.DefaultAudience),
		AttemptRetentionDays: retentionDays,

		LDFlag_CORSHighSecurity: flags.Bool("cors_high_security", false),
	}
}

// UsesPostgres reports whether the procedures are reached over a direct pgx connection.
func (c *Config) UsesPostgres() bool {
	return c.DBUrl != ""
}

func (c *Config) Close() {}
