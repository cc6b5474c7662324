package dtos

// Code is not validated here: malformed codes get a regular 200 verdict.
type ValidateCodeRequest struct {
	Code string `json:"code"`
}

type SubmitCodeRequest struct {
	Code   string `json:"code"`
	Method string `json:"method,omitempty" validate:"omitempty,oneof=qr_scan manual_code"`
}

type LogActionRequest struct {
	SheetID  string         `json:"sheet_id" validate:"required,uuid"`
	Action   string         `json:"action" validate:"required,oneof=qr_scan manual_code signature validation"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type ActionAcceptedResponse struct {
	Status string `json:"status"`
}
