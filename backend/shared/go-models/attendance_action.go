// backend/shared/go-models/attendance_action.go
package models

import "time"

type AttendanceAction string

const (
	AttendanceActionQRScan     AttendanceAction = "qr_scan"
	AttendanceActionManualCode AttendanceAction = "manual_code"
	AttendanceActionSignature  AttendanceAction = "signature"
	AttendanceActionValidation AttendanceAction = "validation"
)

func (a AttendanceAction) IsValid() bool {
	switch a {
	case AttendanceActionQRScan,
		AttendanceActionManualCode,
		AttendanceActionSignature,
		AttendanceActionValidation:
		return true
	}
	return false
}

// IsCodeEntry reports whether the action is one of the two ways a trainee submits a code.
func (a AttendanceAction) IsCodeEntry() bool {
	return a == AttendanceActionQRScan || a == AttendanceActionManualCode
}

// AttendanceAuditEvent is one fire-and-forget entry of the attendance action log.
type AttendanceAuditEvent struct {
	SheetID   string           `json:"sheet_id"`
	UserID    string           `json:"user_id"`
	Action    AttendanceAction `json:"action"`
	IPAddress *string          `json:"ip_address"`
	UserAgent *string          `json:"user_agent"`
	Metadata  *string          `json:"metadata"` // serialized JSON object, or null
}

// CodeValidationAttempt is one row of the attendance_code_attempts log.
type CodeValidationAttempt struct {
	UserID      string    `json:"user_id"`
	IPAddress   *string   `json:"ip_address"`
	Success     bool      `json:"success"`
	AttemptedAt time.Time `json:"attempted_at"`
}
