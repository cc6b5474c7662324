package services

import (
	"context"
	"time"

	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/constants"
	"github.com/campusforma/mono-repo/backend/shared/go-metrics"
	"github.com/campusforma/mono-repo/backend/shared/go-models"
	"github.com/campusforma/mono-repo/backend/shared/go-repositories"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
)

// RateLimitService asks the backend whether a user may try another code.
// No rows fails closed; a remote error fails open so an outage cannot lock trainees out.
type RateLimitService interface {
	CheckRateLimit(ctx context.Context, userID, ipAddress string) models.RateLimitStatus
}

type rateLimitService struct {
	repo    repositories.RateLimitRepository
	metrics *metrics.Collector
}

func NewRateLimitService(repo repositories.RateLimitRepository, m *metrics.Collector) RateLimitService {
	return &rateLimitService{repo: repo, metrics: m}
}

func (s *rateLimitService) CheckRateLimit(ctx context.Context, userID, ipAddress string) models.RateLimitStatus {
	ip := utils.IPOrUnknown(ipAddress)

	start := time.Now()
	statuses, err := s.repo.CheckRateLimit(ctx, userID, ip)
	s.metrics.ObserveCall("check_rate_limit", start)
	if err != nil {
		utils.Logger.WithError(err).WithFields(logrus.Fields{
			"userID": userID,
			"ip":     ip,
		}).Warn("Rate limit check failed; allowing attempt")
		s.metrics.RateLimitCheck(metrics.OutcomeFailOpen)
		return models.RateLimitStatus{
			Allowed:           true,
			RemainingAttempts: constants.FailOpenRemainingAttempts,
			RetryAfterSeconds: 0,
		}
	}
	if len(statuses) == 0 {
		s.metrics.RateLimitCheck(metrics.OutcomeEmpty)
		return models.RateLimitStatus{
			Allowed:           false,
			RemainingAttempts: 0,
			RetryAfterSeconds: constants.NoRowsRetryAfterSeconds,
		}
	}

	st := statuses[0]
	if st.Allowed {
		s.metrics.RateLimitCheck(metrics.OutcomeAllowed)
	} else {
		s.metrics.RateLimitCheck(metrics.OutcomeBlocked)
	}
	return st
}
