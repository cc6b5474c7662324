package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/campusforma/mono-repo/backend/services/vault-service/internal/app"
	"github.com/campusforma/mono-repo/backend/services/vault-service/internal/config"
	"github.com/campusforma/mono-repo/backend/services/vault-service/internal/constants"
	"github.com/campusforma/mono-repo/backend/services/vault-service/internal/services"
	"github.com/campusforma/mono-repo/backend/shared/go-storage"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/urfave/cli/v2"
)

var flagBackend *cli.StringFlag = &cli.StringFlag{
	Name:    "backend",
	EnvVars: []string{"STORAGE_BACKEND"},
	Value:   constants.StorageBackendSupabase,
	Usage:   "supabase or s3",
}
var flagSupabaseURL *cli.StringFlag = &cli.StringFlag{
	Name:    "supabase-url",
	EnvVars: []string{"SUPABASE_URL"},
}
var flagSupabaseKey *cli.StringFlag = &cli.StringFlag{
	Name:    "supabase-key",
	EnvVars: []string{"SUPABASE_SERVICE_KEY"},
}
var flagS3Region *cli.StringFlag = &cli.StringFlag{
	Name:    "s3-region",
	EnvVars: []string{"S3_REGION"},
	Value:   "eu-west-3",
}
var flagS3Endpoint *cli.StringFlag = &cli.StringFlag{
	Name:    "s3-endpoint",
	EnvVars: []string{"S3_ENDPOINT"},
}
var flagS3AccessKey *cli.StringFlag = &cli.StringFlag{
	Name:    "s3-access-key",
	EnvVars: []string{"S3_ACCESS_KEY_ID"},
}
var flagS3SecretKey *cli.StringFlag = &cli.StringFlag{
	Name:    "s3-secret-key",
	EnvVars: []string{"S3_SECRET_ACCESS_KEY"},
}
var flagS3PathStyle *cli.BoolFlag = &cli.BoolFlag{
	Name:    "s3-path-style",
	EnvVars: []string{"S3_FORCE_PATH_STYLE"},
}
var flagS3KeyPrefix *cli.StringFlag = &cli.StringFlag{
	Name:    "s3-key-prefix",
	EnvVars: []string{"S3_KEY_PREFIX"},
}
var flagExpires *cli.IntFlag = &cli.IntFlag{
	Name:  "expires",
	Value: int(storage.DefaultExpiry / time.Second),
	Usage: "Signed URL lifetime in seconds",
}
var flagBuckets *cli.StringSliceFlag = &cli.StringSliceFlag{
	Name:    "bucket",
	EnvVars: []string{"VAULT_ALLOWED_BUCKETS"},
	Value:   cli.NewStringSlice(constants.DefaultVaultBucket),
	Usage:   "Buckets that may be signed",
}
var flagOwner *cli.StringFlag = &cli.StringFlag{
	Name:  "owner",
	Usage: "Only sign objects under this user's folder",
}
var flagDisabled *cli.BoolFlag = &cli.BoolFlag{
	Name:  "disabled",
	Usage: "Return references unchanged",
}

func main() {
	utils.InitLogger("vaultctl")

	cliApp := &cli.App{
		Name:  "vaultctl",
		Usage: "Resolve vault document references into openable URLs",
		Flags: []cli.Flag{
			flagBackend,
			flagSupabaseURL,
			flagSupabaseKey,
			flagS3Region,
			flagS3Endpoint,
			flagS3AccessKey,
			flagS3SecretKey,
			flagS3PathStyle,
			flagS3KeyPrefix,
			flagBuckets,
		},
		Commands: []*cli.Command{
			{
				Name:  "resolve",
				Usage: "Resolve one reference",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Required: true, Usage: "Stored document reference"},
					flagExpires,
					flagDisabled,
					flagOwner,
				},
				Action: withDocuments(func(cCtx *cli.Context, documents *services.DocumentURLService) error {
					raw := cCtx.String("url")
					ctx, cancel := context.WithTimeout(cCtx.Context, constants.ResolveTimeout)
					defer cancel()
					return printJSON(documents.Resolve(ctx, inputFrom(cCtx, raw)))
				}),
			},
			{
				Name:  "watch",
				Usage: "Read references from stdin, one per line, and print every state change",
				Flags: []cli.Flag{flagExpires, flagDisabled, flagOwner},
				Action: withDocuments(func(cCtx *cli.Context, documents *services.DocumentURLService) error {
					resolver := storage.NewResolver(documents.Signer(), func(res storage.Result) {
						if err := printJSON(res); err != nil {
							fmt.Fprintln(os.Stderr, err)
						}
					})
					defer resolver.Close()

					scanner := bufio.NewScanner(os.Stdin)
					for scanner.Scan() {
						line := strings.TrimSpace(scanner.Text())
						in := inputFrom(cCtx, line)
						if err := documents.Check(in); err != nil {
							fmt.Fprintf(os.Stderr, "refused %s: %v\n", line, err)
							continue
						}
						resolver.Update(cCtx.Context, line, documents.Options(in))
					}
					resolver.Wait()
					return scanner.Err()
				}),
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		utils.Logger.Fatal(err)
	}
}

func inputFrom(cCtx *cli.Context, raw string) services.ResolveInput {
	enabled := !cCtx.Bool(flagDisabled.Name)
	return services.ResolveInput{
		URL:       raw,
		UserID:    cCtx.String(flagOwner.Name),
		Enabled:   &enabled,
		ExpiresIn: time.Duration(cCtx.Int(flagExpires.Name)) * time.Second,
	}
}

// withDocuments builds the signer the same way the service does, without metrics.
func withDocuments(action func(*cli.Context, *services.DocumentURLService) error) cli.ActionFunc {
	return func(cCtx *cli.Context) error {
		cfg := &config.Config{
			AppName:            "vaultctl",
			StorageBackend:     strings.ToLower(cCtx.String(flagBackend.Name)),
			SupabaseURL:        cCtx.String(flagSupabaseURL.Name),
			SupabaseServiceKey: cCtx.String(flagSupabaseKey.Name),
			S3: storage.S3Config{
				Region:         cCtx.String(flagS3Region.Name),
				Endpoint:       cCtx.String(flagS3Endpoint.Name),
				AccessKey:      cCtx.String(flagS3AccessKey.Name),
				SecretKey:      cCtx.String(flagS3SecretKey.Name),
				ForcePathStyle: cCtx.Bool(flagS3PathStyle.Name),
				KeyPrefix:      cCtx.String(flagS3KeyPrefix.Name),
			},
		}
		application, err := app.NewApp(cfg)
		if err != nil {
			return err
		}
		defer application.Close()

		// Operators act on any folder unless --owner narrows it.
		policy := storage.AccessPolicy{
			AllowedHosts:   hostsOf(cfg.SupabaseURL, cfg.S3.Endpoint),
			AllowedBuckets: cCtx.StringSlice(flagBuckets.Name),
			OwnerPrefix:    cCtx.String(flagOwner.Name) != "",
		}
		return action(cCtx, services.NewDocumentURLService(application.Signer, policy, nil, true, 0))
	}
}

func hostsOf(raws ...string) []string {
	var hosts []string
	for _, raw := range raws {
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			hosts = append(hosts, strings.ToLower(u.Host))
		}
	}
	return hosts
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
