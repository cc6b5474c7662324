package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/app"
	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/config"
	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/constants"
	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/services"
	internal_utils "github.com/campusforma/mono-repo/backend/services/attendance-service/internal/utils"
	"github.com/campusforma/mono-repo/backend/shared/go-models"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/urfave/cli/v2"
)

var flagDBURL *cli.StringFlag = &cli.StringFlag{
	Name:    "db-url",
	EnvVars: []string{"DB_URL"},
	Usage:   "Postgres URL; takes precedence over the REST transport",
}
var flagSupabaseURL *cli.StringFlag = &cli.StringFlag{
	Name:    "supabase-url",
	EnvVars: []string{"SUPABASE_URL"},
	Usage:   "Project URL for the REST transport",
}
var flagSupabaseKey *cli.StringFlag = &cli.StringFlag{
	Name:    "supabase-key",
	EnvVars: []string{"SUPABASE_SERVICE_KEY"},
	Usage:   "Service role key for the REST transport",
}
var flagUser *cli.StringFlag = &cli.StringFlag{
	Name:     "user",
	Required: true,
	Usage:    "Trainee user id",
}
var flagCode *cli.StringFlag = &cli.StringFlag{
	Name:     "code",
	Required: true,
	Usage:    "Six digit attendance code",
}
var flagIP *cli.StringFlag = &cli.StringFlag{
	Name:  "ip",
	Usage: "Client IP address (defaults to unknown)",
}

func main() {
	utils.InitLogger("emargementctl")

	cliApp := &cli.App{
		Name:  "emargementctl",
		Usage: "Run attendance code checks against the backend",
		Flags: []cli.Flag{
			flagDBURL,
			flagSupabaseURL,
			flagSupabaseKey,
		},
		Commands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Validate a code for a user",
				Flags: []cli.Flag{flagUser, flagCode},
				Action: withServices(func(cCtx *cli.Context, s *cliServices) error {
					return printJSON(s.validator.ValidateCode(cCtx.Context, cCtx.String(flagCode.Name), cCtx.String(flagUser.Name)))
				}),
			},
			{
				Name:  "rate-limit",
				Usage: "Show the rate limit status of a user",
				Flags: []cli.Flag{flagUser, flagIP},
				Action: withServices(func(cCtx *cli.Context, s *cliServices) error {
					return printJSON(s.rateLimiter.CheckRateLimit(cCtx.Context, cCtx.String(flagUser.Name), cCtx.String(flagIP.Name)))
				}),
			},
			{
				Name:  "submit",
				Usage: "Run the full sign-off sequence for a code",
				Flags: []cli.Flag{
					flagUser,
					flagCode,
					flagIP,
					&cli.StringFlag{
						Name:  "method",
						Value: string(models.AttendanceActionManualCode),
						Usage: "qr_scan or manual_code",
					},
				},
				Action: withServices(func(cCtx *cli.Context, s *cliServices) error {
					return printJSON(s.emargement.SubmitCode(cCtx.Context, services.SubmitCodeInput{
						UserID:    cCtx.String(flagUser.Name),
						Code:      cCtx.String(flagCode.Name),
						Method:    models.AttendanceAction(cCtx.String("method")),
						IPAddress: cCtx.String(flagIP.Name),
						UserAgent: "emargementctl",
					}))
				}),
			},
			{
				Name:  "cleanup",
				Usage: "Delete code attempts older than the retention window",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "retention-days",
						Value: constants.DefaultAttemptRetentionDays,
					},
				},
				Action: withServices(func(cCtx *cli.Context, s *cliServices) error {
					days := cCtx.Int("retention-days")
					if days < 1 {
						return errors.New("retention-days must be positive")
					}
					return services.NewAttemptCleanupService(s.repos.Attempts, days).CleanupDaily(cCtx.Context)
				}),
			},
			{
				Name:  "week",
				Usage: "Print the attendance week containing a date",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD, defaults to today"},
					&cli.IntFlag{Name: "offset", Usage: "Weeks to shift by"},
				},
				Action: func(cCtx *cli.Context) error {
					loc, err := time.LoadLocation(constants.BusinessTimezone)
					if err != nil {
						return err
					}
					ref := time.Now().In(loc)
					if raw := cCtx.String("date"); raw != "" {
						ref, err = time.ParseInLocation(utils.DateLayout, raw, loc)
						if err != nil {
							return fmt.Errorf("%w: %s", utils.ErrInvalidDate, raw)
						}
					}
					return printJSON(internal_utils.WeekOf(ref, cCtx.Int("offset")))
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		utils.Logger.Fatal(err)
	}
}

type cliServices struct {
	repos       app.Repositories
	validator   services.CodeValidatorService
	rateLimiter services.RateLimitService
	emargement  *services.EmargementService
}

// withServices connects to the backend the same way the service does, without metrics or cron.
func withServices(action func(*cli.Context, *cliServices) error) cli.ActionFunc {
	return func(cCtx *cli.Context) error {
		cfg := &config.Config{
			AppName:            "emargementctl",
			DBUrl:              cCtx.String(flagDBURL.Name),
			SupabaseURL:        cCtx.String(flagSupabaseURL.Name),
			SupabaseServiceKey: cCtx.String(flagSupabaseKey.Name),
		}
		application, err := app.NewApp(cfg)
		if err != nil {
			return err
		}
		defer application.Close()

		repos := application.Repositories()
		validator := services.NewCodeValidatorService(repos.Codes, nil)
		rateLimiter := services.NewRateLimitService(repos.RateLimits, nil)
		audit := services.NewAuditLogService(repos.Attempts, repos.Actions, nil, func(op string, err error) {
			fmt.Fprintf(os.Stderr, "warning: %s dropped: %v\n", op, err)
		})

		ctx, cancel := context.WithTimeout(cCtx.Context, time.Minute)
		defer cancel()
		cCtx.Context = ctx

		return action(cCtx, &cliServices{
			repos:       repos,
			validator:   validator,
			rateLimiter: rateLimiter,
			emargement:  services.NewEmargementService(rateLimiter, validator, audit),
		})
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
