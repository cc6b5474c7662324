package routes

const (
	Health                 = "/health"
	Metrics                = "/metrics"
	AttendanceValidateCode = "/api/v1/attendance/validate-code"
	AttendanceRateLimit    = "/api/v1/attendance/rate-limit"
	AttendanceSubmit       = "/api/v1/attendance/submit"
	AttendanceActions      = "/api/v1/attendance/actions"
	AttendanceWeek         = "/api/v1/attendance/week"
)
