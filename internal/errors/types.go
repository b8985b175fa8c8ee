package errors

// represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`             // error code (e.g., "bad_request", "generation_failed")
	Message string `json:"message"`           // user-friendly message
	Details string `json:"details,omitempty"` // optional details (sanitized in production)
}

type ErrorInfo struct {
	category  string
	sanitized string
}

// standard error codes
const (
	CodeNotFound         = "not_found"
	CodeValidationError  = "validation_error"
	CodeServerError      = "server_error"
	CodeBadRequest       = "bad_request"
	CodeTooManyRequests  = "too_many_requests"
	CodeGenerationFailed = "generation_failed"
	CodeUpstreamTimeout  = "upstream_timeout"
)

// error categories for classification
const (
	CategoryUpstream   = "upstream"
	CategoryNetwork    = "network"
	CategoryValidation = "validation"
	CategoryTimeout    = "timeout"
	CategoryUnknown    = "unknown"
)
