// backend/shared/go-models/attendance_validation.go
package models

// ValidationResult is the verdict of the validate-code procedure.
// The nullable columns are pointers so that SQL NULL / JSON null survive a round trip.
type ValidationResult struct {
	IsValid        bool    `json:"is_valid"`
	SheetID        *string `json:"sheet_id"`
	FormationTitle *string `json:"formation_title"`
	ErrorMessage   *string `json:"error_message"`
}

// FailedValidation builds the placeholder verdict used whenever the procedure
// could not produce one.
func FailedValidation(message string) ValidationResult {
	return ValidationResult{
		IsValid:      false,
		ErrorMessage: &message,
	}
}

// RateLimitStatus is the answer of the rate-limit-check procedure.
type RateLimitStatus struct {
	Allowed           bool `json:"allowed"`
	RemainingAttempts int  `json:"remaining_attempts"`
	RetryAfterSeconds int  `json:"retry_after_seconds"`
}
