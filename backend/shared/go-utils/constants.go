package utils

const (
	OrganizationName                      = "CampusForma"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"

	// UnknownIPAddress is sent to the backend when no client IP could be detected.
	UnknownIPAddress = "unknown"

	// DateLayout is the wire format of calendar dates (YYYY-MM-DD).
	DateLayout = "2006-01-02"
)
