package openapi

import "errors"

var (
	// ErrEmptyDocument is returned when a source yields no bytes.
	ErrEmptyDocument = errors.New("openapi: document is empty")
	// ErrOperationNotFound is returned for unknown operation ids.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody is returned when an operation has no object request body.
	ErrNoRequestBody = errors.New("openapi: operation has no object request body")
	// ErrHTTPDisabled is returned when a URL source is loaded without an HTTP client.
	ErrHTTPDisabled = errors.New("openapi: http support disabled")
)
