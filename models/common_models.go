// models/common_models.go
package models

// ErrorResponse is the error body for request and configuration errors.
type ErrorResponse struct {
	Error string `json:"error" example:"No URL provided"` // User-facing error message
}

// DetailedErrorResponse is returned when VirusTotal rejected a call (502) or
// the scan failed unexpectedly (500). details is always present, even empty.
type DetailedErrorResponse struct {
	Error   string `json:"error" example:"Submit failed: 403"` // User-facing error message
	Details string `json:"details"`                            // Raw upstream body or diagnostic message
}

// HealthResponse reports whether a VirusTotal key is configured.
type HealthResponse struct {
	Status string `json:"status" example:"ok" enums:"ok,missing_api_key"`
}
