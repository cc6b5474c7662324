package services

import (
	"context"
	"fmt"

	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/constants"
	"github.com/campusforma/mono-repo/backend/shared/go-models"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
)

type SubmitCodeInput struct {
	UserID    string
	Code      string
	Method    models.AttendanceAction // qr_scan or manual_code
	IPAddress string
	UserAgent string
}

type SubmitCodeResult struct {
	RateLimit  models.RateLimitStatus  `json:"rate_limit"`
	Validation models.ValidationResult `json:"validation"`
}

// EmargementService runs the sign-off sequence a trainee triggers by scanning or typing a code.
type EmargementService struct {
	rateLimiter RateLimitService
	validator   CodeValidatorService
	audit       AuditLogService
}

func NewEmargementService(rl RateLimitService, v CodeValidatorService, audit AuditLogService) *EmargementService {
	return &EmargementService{rateLimiter: rl, validator: v, audit: audit}
}

// SubmitCode checks the rate limit, validates the code, records the attempt and,
// on success, logs the attendance action. Malformed codes are neither sent nor recorded.
func (s *EmargementService) SubmitCode(ctx context.Context, in SubmitCodeInput) SubmitCodeResult {
	logger := utils.Logger.WithFields(logrus.Fields{
		"userID": in.UserID,
		"method": in.Method,
	})

	method := in.Method
	if !method.IsCodeEntry() {
		if method != "" {
			logger.Warnf("Unexpected code entry method %q, using %s", method, models.AttendanceActionManualCode)
		}
		method = models.AttendanceActionManualCode
	}

	status := s.rateLimiter.CheckRateLimit(ctx, in.UserID, in.IPAddress)
	if !status.Allowed {
		logger.WithField("retryAfter", status.RetryAfterSeconds).Info("Code submission blocked by rate limit")
		return SubmitCodeResult{
			RateLimit:  status,
			Validation: models.FailedValidation(fmt.Sprintf(constants.MsgTooManyAttempts, status.RetryAfterSeconds)),
		}
	}

	result := s.validator.ValidateCode(ctx, in.Code, in.UserID)
	if !IsWellFormedCode(in.Code) {
		return SubmitCodeResult{RateLimit: status, Validation: result}
	}

	s.audit.RecordValidationAttempt(ctx, in.UserID, in.IPAddress, result.IsValid)

	if result.IsValid && result.SheetID != nil {
		var metadata map[string]any
		if result.FormationTitle != nil {
			metadata = map[string]any{constants.MetadataFormationTitleKey: *result.FormationTitle}
		}
		s.audit.LogAttendanceAction(ctx, ActionLogEntry{
			SheetID:   *result.SheetID,
			UserID:    in.UserID,
			Action:    method,
			Metadata:  metadata,
			IPAddress: in.IPAddress,
			UserAgent: in.UserAgent,
		})
		logger.WithField("sheetID", *result.SheetID).Info("Attendance recorded")
	}

	return SubmitCodeResult{RateLimit: status, Validation: result}
}
