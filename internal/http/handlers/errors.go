// Package handlers defines the HTTP-layer error codes used across all API
// endpoints. The codes are lowercase snake_case and stable: clients branch
// on them programmatically, while the accompanying `error` string is for
// humans.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
