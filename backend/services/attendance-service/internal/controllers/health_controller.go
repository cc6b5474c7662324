package controllers

import (
	"context"
	"net/http"
	"time"

	shared_dtos "github.com/campusforma/mono-repo/backend/shared/go-dtos"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
)

// Pinger is satisfied by *app.App.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	backend Pinger
}

func NewHealthController(backend Pinger) *HealthController {
	return &HealthController{backend}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := c.backend.Ping(ctx); err != nil {
		utils.Logger.WithError(err).Error("attendance-service backend unreachable")
		utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeServiceUnhealthy, "Backend unreachable", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, shared_dtos.HealthCheckResponse{Status: "OK"})
}
