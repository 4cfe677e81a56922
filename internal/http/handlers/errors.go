// Package handlers defines the HTTP-layer error codes used across the staff
// admin API.
//
// Codes are lowercase snake_case and stable: clients branch on them
// programmatically, the message field is for humans. Handlers pick the most
// specific matching code and pass it to fail() with the HTTP status.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
