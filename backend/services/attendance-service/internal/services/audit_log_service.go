package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campusforma/mono-repo/backend/services/attendance-service/internal/constants"
	"github.com/campusforma/mono-repo/backend/shared/go-metrics"
	"github.com/campusforma/mono-repo/backend/shared/go-models"
	"github.com/campusforma/mono-repo/backend/shared/go-repositories"
	"github.com/campusforma/mono-repo/backend/shared/go-utils"
	"github.com/sirupsen/logrus"
)

// FailureObserver is told about every audit write that was dropped.
// op is one of constants.AuditOpRecordAttempt or constants.AuditOpLogAction.
type FailureObserver func(op string, err error)

// ActionLogEntry is one attendance action as seen by the server.
type ActionLogEntry struct {
	SheetID   string
	UserID    string
	Action    models.AttendanceAction
	Metadata  map[string]any
	IPAddress string
	UserAgent string
}

// AuditLogService records attempts and actions on a best-effort basis.
// Neither method reports failure to the caller.
type AuditLogService interface {
	RecordValidationAttempt(ctx context.Context, userID, ipAddress string, success bool)
	LogAttendanceAction(ctx context.Context, entry ActionLogEntry)
}

type auditLogService struct {
	attempts repositories.CodeAttemptRepository
	actions  repositories.AttendanceActionLogRepository
	metrics  *metrics.Collector
	observer FailureObserver
}

func NewAuditLogService(
	attempts repositories.CodeAttemptRepository,
	actions repositories.AttendanceActionLogRepository,
	m *metrics.Collector,
	observer FailureObserver,
) AuditLogService {
	return &auditLogService{
		attempts: attempts,
		actions:  actions,
		metrics:  m,
		observer: observer,
	}
}

func (s *auditLogService) RecordValidationAttempt(ctx context.Context, userID, ipAddress string, success bool) {
	attempt := &models.CodeValidationAttempt{
		UserID:    userID,
		IPAddress: utils.NilIfEmpty(ipAddress),
		Success:   success,
	}

	start := time.Now()
	err := s.attempts.Create(ctx, attempt)
	s.metrics.ObserveCall(constants.AuditOpRecordAttempt, start)
	if err != nil {
		s.fail(constants.AuditOpRecordAttempt, err, logrus.Fields{"userID": userID})
		return
	}
	s.metrics.AuditWrite(constants.AuditOpRecordAttempt, metrics.OutcomeOK)
}

func (s *auditLogService) LogAttendanceAction(ctx context.Context, entry ActionLogEntry) {
	fields := logrus.Fields{
		"userID":  entry.UserID,
		"sheetID": entry.SheetID,
		"action":  entry.Action,
	}
	if !entry.Action.IsValid() {
		s.fail(constants.AuditOpLogAction, fmt.Errorf("%w: %q", utils.ErrInvalidAction, entry.Action), fields)
		return
	}

	var metadata *string
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			s.fail(constants.AuditOpLogAction, fmt.Errorf("serialize metadata: %w", err), fields)
			return
		}
		metadata = utils.Ptr(string(raw))
	}

	event := &models.AttendanceAuditEvent{
		SheetID:   entry.SheetID,
		UserID:    entry.UserID,
		Action:    entry.Action,
		IPAddress: utils.NilIfEmpty(entry.IPAddress),
		UserAgent: utils.NilIfEmpty(entry.UserAgent),
		Metadata:  metadata,
	}

	start := time.Now()
	err := s.actions.LogAction(ctx, event)
	s.metrics.ObserveCall(constants.AuditOpLogAction, start)
	if err != nil {
		s.fail(constants.AuditOpLogAction, err, fields)
		return
	}
	s.metrics.AuditWrite(constants.AuditOpLogAction, metrics.OutcomeOK)
}

func (s *auditLogService) fail(op string, err error, fields logrus.Fields) {
	utils.Logger.WithError(err).WithFields(fields).Warnf("Audit write %s dropped", op)
	s.metrics.AuditWrite(op, metrics.OutcomeFailed)
	if s.observer != nil {
		s.observer(op, err)
	}
}
