package response

import "net/http"

// Error codes exposed to API clients. They mirror the domain failure
// taxonomy so the frontend can branch without parsing messages.
const (
	CodeBadRequest          = "bad_request"
	CodeNotFound            = "not_found"
	CodePermissionDenied    = "permission_denied"
	CodeIllegalTransition   = "illegal_transition"
	CodeProtectedReference  = "protected_reference"
	CodeNotReady            = "not_ready"
	CodeComplementForbidden = "complement_not_allowed"
)

// ErrorBody is the machine-readable error payload. Reasons carries the
// aggregated submission-readiness failures when the code is not_ready.
type ErrorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Reasons []string `json:"reasons,omitempty"`
}

// Response represents the standard API envelope
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Meta       *ListMeta   `json:"meta,omitempty"`
	Error      *ErrorBody  `json:"error,omitempty"`
}

// ListMeta describes the page a list response was cut from.
type ListMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Paginated returns a success response for one page of a list.
func Paginated(statusCode int, data interface{}, page, limit int, total int64) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
		Meta:       &ListMeta{Page: page, Limit: limit, Total: total},
	}
}

// Error returns an error response with the code inferred from the HTTP
// status. Handlers reporting a specific domain failure use Failure instead.
func Error(statusCode int, message string) Response {
	code := CodeBadRequest
	if statusCode == http.StatusNotFound {
		code = CodeNotFound
	}
	return Failure(statusCode, code, message)
}

// Failure returns an error response carrying an explicit domain code.
func Failure(statusCode int, code, message string, reasons ...string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      &ErrorBody{Code: code, Message: message, Reasons: reasons},
	}
}
