package services

import (
	"context"
	"regexp"
	"time"

	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/constants"
	"github.com/campusforma/mono-repo/backend/shared/go-metrics"
	"github.com/campusforma/mono-repo/backend/shared/go-models"
	"github.com/campusforma/mono-repo/backend/shared/go-repositories"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
)

var codeRegexp = regexp.MustCompile(constants.CodePattern)

// IsWellFormedCode reports whether code is exactly six decimal digits.
func IsWellFormedCode(code string) bool {
	return codeRegexp.MatchString(code)
}

// CodeValidatorService checks an attendance code against the open sheets.
// It never returns an error: every failure is folded into the result.
type CodeValidatorService interface {
	ValidateCode(ctx context.Context, code, userID string) models.ValidationResult
}

type codeValidatorService struct {
	repo    repositories.AttendanceCodeRepository
	metrics *metrics.Collector
}

func NewCodeValidatorService(repo repositories.AttendanceCodeRepository, m *metrics.Collector) CodeValidatorService {
	return &codeValidatorService{repo: repo, metrics: m}
}

func (s *codeValidatorService) ValidateCode(ctx context.Context, code, userID string) models.ValidationResult {
	if !IsWellFormedCode(code) {
		s.metrics.CodeValidation(metrics.OutcomeInvalidFormat)
		return models.FailedValidation(constants.MsgInvalidCodeFormat)
	}

	start := time.Now()
	results, err := s.repo.ValidateCode(ctx, code, userID)
	s.metrics.ObserveCall("validate_code", start)
	if err != nil {
		utils.Logger.WithError(err).WithField("userID", userID).Error("Attendance code validation failed")
		s.metrics.CodeValidation(metrics.OutcomeSystemError)
		return models.FailedValidation(constants.MsgSystemError)
	}
	if len(results) == 0 {
		s.metrics.CodeValidation(metrics.OutcomeEmpty)
		return models.FailedValidation(constants.MsgValidationFailed)
	}

	res := results[0]
	if res.IsValid {
		s.metrics.CodeValidation(metrics.OutcomeValid)
	} else {
		s.metrics.CodeValidation(metrics.OutcomeRejected)
	}
	utils.Logger.WithFields(logrus.Fields{
		"userID":  userID,
		"isValid": res.IsValid,
		"sheetID": utils.Val(res.SheetID),
	}).Debug("Attendance code checked")
	return res
}
