package services

import (
	"context"
	"errors"
	"time"

	"github.com/campusforma/mono-repo/backend/shared/go-repositories"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
)

// AttemptCleanupService purges old rows of the code attempts log.
type AttemptCleanupService struct {
	repo          repositories.CodeAttemptRepository
	retentionDays int
	now           func() time.Time
}

func NewAttemptCleanupService(repo repositories.CodeAttemptRepository, retentionDays int) *AttemptCleanupService {
	return &AttemptCleanupService{repo: repo, retentionDays: retentionDays, now: time.Now}
}

// CleanupDaily deletes attempts older than the retention window.
// Transports that cannot delete are skipped without error.
func (s *AttemptCleanupService) CleanupDaily(ctx context.Context) error {
	cutoff := s.now().UTC().AddDate(0, 0, -s.retentionDays)

	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if errors.Is(err, repositories.ErrNotSupported) {
		utils.Logger.Info("Attempt cleanup skipped: transport cannot delete rows")
		return nil
	}
	if err != nil {
		return err
	}

	utils.Logger.Infof("Attempt cleanup removed %d rows older than %s", deleted, cutoff.Format(time.RFC3339))
	return nil
}
