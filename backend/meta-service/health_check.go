package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/gorilla/mux"
)

const (
	appName          = "meta-service"
	defaultPort      = "8081"
	checkTimeout     = 2 * time.Second
	defaultHealthURL = "http://localhost:8082/health,http://localhost:8083/health"
)

func main() {
	utils.InitLogger(appName)

	targets := parseTargets(utils.GetEnvDefault("HEALTH_TARGETS", defaultHealthURL))
	checker := &healthChecker{
		targets: targets,
		client:  &http.Client{Timeout: checkTimeout},
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", checker.handle).Methods(http.MethodGet)

	port := utils.GetEnvDefault("APP_PORT", defaultPort)
	utils.Logger.Infof("Starting %s on port %s, watching %d services", appName, port, len(targets))
	if err := http.ListenAndServe(":"+port, router); err != nil {
		utils.Logger.Fatal("meta-service failed to start:", err)
	}
}

func parseTargets(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

type healthChecker struct {
	targets []string
	client  *http.Client
}

// handle answers 200 only when every target answers 200.
func (c *healthChecker) handle(w http.ResponseWriter, r *http.Request) {
	unhealthy := c.check(r.Context())
	if len(unhealthy) == 0 {
		utils.RespondWithJSON(w, http.StatusOK, map[string]any{"status": "OK"})
		return
	}
	utils.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]any{
		"status":    "Unhealthy",
		"unhealthy": unhealthy,
	})
}

func (c *healthChecker) check(ctx context.Context) []string {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		unhealthy []string
	)
	for _, target := range c.targets {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			if err := c.ping(ctx, u); err != nil {
				utils.Logger.WithError(err).Warnf("Service unhealthy: %s", u)
				mu.Lock()
				unhealthy = append(unhealthy, u)
				mu.Unlock()
			}
		}(target)
	}
	wg.Wait()
	return unhealthy
}

func (c *healthChecker) ping(ctx context.Context, u string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
