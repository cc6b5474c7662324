package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/campusforma/mono-repo/backend/services/vault-service/internal/constants"
	"github.com/campusforma/mono-repo/backend/services/vault-service/internal/dtos"
	"github.com/campusforma/mono-repo/backend/services/vault-service/internal/services"
	shared_dtos "github.com/campusforma/mono-repo/backend/shared/go-dtos"
	"github.com/campusforma/mono-repo/backend/shared/go-middleware"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/go-playground/validator/v10"
)

type VaultController struct {
	documents *services.DocumentURLService
	validate  *validator.Validate
}

func NewVaultController(s *services.DocumentURLService) *VaultController {
	return &VaultController{documents: s, validate: validator.New()}
}

// POST /api/v1/vault/resolve
func (c *VaultController) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "ResolveHandler")

	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing userID in context", nil)
		return
	}
	logger = logger.WithField("userID", userID)

	var req dtos.ResolveURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", shared_dtos.FormatValidationErrors(validationErrs))
		} else {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation error", nil, err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), constants.ResolveTimeout)
	defer cancel()

	res := c.documents.Resolve(ctx, services.ResolveInput{
		URL:       req.URL,
		UserID:    userID,
		Enabled:   req.Enabled,
		ExpiresIn: time.Duration(req.ExpiresInSeconds) * time.Second,
	})
	logger.Debug("Resolve request served")
	utils.RespondWithJSON(w, http.StatusOK, res)
}
