package constants

import "time"

// User-facing messages. The front-end displays them verbatim.
const (
	MsgInvalidCodeFormat = "Code invalide: doit contenir 6 chiffres"
	MsgValidationFailed  = "Erreur de validation"
	MsgSystemError       = "Erreur système"
	MsgTooManyAttempts   = "Trop de tentatives. Réessayez dans %d secondes"
)

// Attendance codes are exactly six decimal digits; no trimming.
const CodePattern = `^\d{6}$`

// Rate limiter fallbacks. No rows fails closed, a remote error fails open.
const (
	NoRowsRetryAfterSeconds   = 60
	FailOpenRemainingAttempts = 5
)

// Audit operations, as reported to failure observers and metrics.
const (
	AuditOpRecordAttempt = "record_attempt"
	AuditOpLogAction     = "log_action"
)

const MetadataFormationTitleKey = "formation_title"

const MetricsNamespace = "attendance"

// Attempt-log retention
const (
	DefaultAttemptRetentionDays = 30
	AttemptCleanupCronSpec      = "15 3 * * *" // 03:15 UTC daily
	AttemptCleanupJobTimeout    = 5 * time.Minute
)

// Week navigation
const (
	DaysInWeek       = 7
	BusinessTimezone = "Europe/Paris"
	MaxWeekOffset    = 520
)
