package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/campusforma/mono-repo/backend/services/vault-service/internal/constants"
	"github.com/campusforma/mono-repo/backend/shared/go-middleware"
	"github.com/campusforma/mono-repo/backend/shared/go-storage"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
)

type Config struct {
	OrganizationName   string
	AppName            string
	AppPort            string
	AppUrl             string
	Env                string
	StorageBackend     string
	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseJWTSecret  []byte
	JWTAudience        string
	S3                 storage.S3Config
	AccessPolicy       storage.AccessPolicy

	LDFlag_CORSHighSecurity     bool
	LDFlag_URLResolutionEnabled bool
	LDFlag_SignedURLExpiry      time.Duration
}

const OrganizationName = utils.OrganizationName

var (
	// AppName is set with -ldflags at build time.
	AppName             = "vault-service"
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

	jwtSecret := os.Getenv("SUPABASE_JWT_SECRET")
	if jwtSecret == "" {
		utils.Logger.Fatal("SUPABASE_JWT_SECRET env var is missing")
	}

	backend := strings.ToLower(utils.GetEnvDefault("STORAGE_BACKEND", constants.StorageBackendSupabase))
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_SERVICE_KEY")
	var s3Cfg storage.S3Config

	switch backend {
	case constants.StorageBackendSupabase:
		if supabaseURL == "" || supabaseKey == "" {
			utils.Logger.Fatal("SUPABASE_URL and SUPABASE_SERVICE_KEY are required for the supabase storage backend")
		}
	case constants.StorageBackendS3:
		s3Cfg = storage.S3Config{
			Region:         utils.GetEnvDefault("S3_REGION", "eu-west-3"),
			Endpoint:       os.Getenv("S3_ENDPOINT"),
			AccessKey:      os.Getenv("S3_ACCESS_KEY_ID"),
			SecretKey:      os.Getenv("S3_SECRET_ACCESS_KEY"),
			ForcePathStyle: strings.EqualFold(os.Getenv("S3_FORCE_PATH_STYLE"), "true"),
			KeyPrefix:      os.Getenv("S3_KEY_PREFIX"),
		}
		if s3Cfg.AccessKey == "" || s3Cfg.SecretKey == "" {
			utils.Logger.Fatal("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY are required for the s3 storage backend")
		}
	default:
		utils.Logger.Fatalf("Unknown STORAGE_BACKEND '%s'", backend)
	}

	policy := storage.AccessPolicy{
		AllowedHosts:   utils.GetEnvList("VAULT_ALLOWED_HOSTS", hostOf(supabaseURL)),
		AllowedBuckets: utils.GetEnvList("VAULT_ALLOWED_BUCKETS", []string{constants.DefaultVaultBucket}),
		OwnerPrefix:    !strings.EqualFold(os.Getenv("VAULT_REQUIRE_OWNER_PREFIX"), "false"),
	}
	if len(policy.AllowedHosts) == 0 {
		utils.Logger.Fatal("VAULT_ALLOWED_HOSTS env var is missing and SUPABASE_URL has no host")
	}

	flags, err := utils.NewFlagSnapshot(os.Getenv("LD_SDK_KEY"), LDServerContextKind, AppName)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	defer flags.Close()

	expiry := time.Duration(flags.Int("signed_url_expiry_seconds", int(storage.DefaultExpiry/time.Second))) * time.Second
	if expiry < constants.MinSignedURLExpiry || expiry > constants.MaxSignedURLExpiry {
		utils.Logger.Warnf("signed_url_expiry_seconds out of range (%s), using %s", expiry, storage.DefaultExpiry)
		expiry = storage.DefaultExpiry
	}

	return &Config{
		OrganizationName:   OrganizationName,
		AppName:            AppName,
		AppPort:            appPort,
		AppUrl:             appUrl,
		Env:                strings.ToLower(env),
		StorageBackend:     backend,
		SupabaseURL:        supabaseURL,
		SupabaseServiceKey: supabaseKey,
		SupabaseJWTSecret:  []byte(jwtSecret),
		JWTAudience:        utils.GetEnvDefault("SUPABASE_JWT_AUDIENCE", middleware.DefaultAudience),
		S3:                 s3Cfg,
		AccessPolicy:       policy,

		LDFlag_CORSHighSecurity:     flags.Bool("cors_high_security", false),
		LDFlag_URLResolutionEnabled: flags.Bool("storage_url_resolution_enabled", true),
		LDFlag_SignedURLExpiry:      expiry,
	}
}

func (c *Config) Close() {}

// hostOf returns the host of a storage base URL, or nil when there is none.
func hostOf(raw string) []string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{strings.ToLower(u.Host)}
}
