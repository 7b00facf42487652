package service

import "errors"

// Errors shared across services. Handlers map these onto the HTTP taxonomy.
var (
	ErrForbidden    = errors.New("insufficient permissions")
	ErrInvalidRole  = errors.New("unknown role")
	ErrSelfDeletion = errors.New("admins cannot delete their own account")
)
