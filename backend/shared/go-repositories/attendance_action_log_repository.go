package repositories

import (
	"context"

	"github.com/campusforma/mono-repo/backend/shared/go-models"
)

// AttendanceActionLogRepository calls the attendance-action-log procedure.
type AttendanceActionLogRepository interface {
	LogAction(ctx context.Context, event *models.AttendanceAuditEvent) error
}

type attendanceActionLogRepo struct {
	db DB
}

func NewAttendanceActionLogRepository(db DB) AttendanceActionLogRepository {
	return &attendanceActionLogRepo{db: db}
}

func (r *attendanceActionLogRepo) LogAction(ctx context.Context, event *models.AttendanceAuditEvent) error {
	q := `SELECT log_attendance_action($1, $2, $3, $4, $5, $6::jsonb)`
	_, err := r.db.Exec(ctx, q,
		event.SheetID,
		event.UserID,
		string(event.Action),
		inetParam(event.IPAddress),
		event.UserAgent,
		jsonbParam(event.Metadata),
	)
	return err
}

type restAttendanceActionLogRepo struct {
	client RPCClient
}

func NewRESTAttendanceActionLogRepository(client RPCClient) AttendanceActionLogRepository {
	return &restAttendanceActionLogRepo{client: client}
}

func (r *restAttendanceActionLogRepo) LogAction(ctx context.Context, event *models.AttendanceAuditEvent) error {
	// p_metadata travels as the serialized JSON string, or null.
	params := map[string]any{
		"p_sheet_id":   event.SheetID,
		"p_user_id":    event.UserID,
		"p_action":     string(event.Action),
		"p_ip_address": event.IPAddress,
		"p_user_agent": event.UserAgent,
		"p_metadata":   event.Metadata,
	}
	return r.client.RPC(ctx, fnLogAttendanceAction, params, nil)
}
