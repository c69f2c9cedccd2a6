// Package apierror provides the error envelope returned by the HTTP API.
// Handlers build every 4xx/5xx body through it so internal details
// (SQL errors, stack traces) never reach clients by accident.
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries one message per offending field, keyed by JSON path
// (e.g. "articles[0].quantite").
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erreur de validation", Fields: fields}
}
