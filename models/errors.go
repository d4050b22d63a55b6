package models

import "fmt"

// ErrorValidation is a local input error. It never reaches the backend.
type ErrorValidation struct {
	Field   string
	Message string
}

func (e ErrorValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrorUnauthorized means the caller has no usable identity.
type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string { return e.Message }

// ErrorForbidden means the caller is known but not allowed to do this.
type ErrorForbidden struct {
	Message string
}

func (e ErrorForbidden) Error() string { return e.Message }

// ErrorNotFound is returned when a slug or id resolves to nothing.
type ErrorNotFound struct {
	Resource string
}

func (e ErrorNotFound) Error() string { return e.Resource + " not found" }

// ErrorConflict signals a uniqueness violation.
type ErrorConflict struct {
	Message string
}

func (e ErrorConflict) Error() string { return e.Message }

// ErrorInternalServer wraps any failure of the data or identity backends.
type ErrorInternalServer struct {
	Message string
	Err     error
}

func (e ErrorInternalServer) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e ErrorInternalServer) Unwrap() error { return e.Err }

var (
	ErrNoSession          = ErrorUnauthorized{Message: "no active session"}
	ErrInvalidCredentials = ErrorUnauthorized{Message: "invalid credentials"}
	ErrProfileNotFound    = ErrorNotFound{Resource: "profile"}
	ErrNotCommentOwner    = ErrorForbidden{Message: "only the author can delete this comment"}
	ErrAdminRequired      = ErrorForbidden{Message: "admin role required"}
	ErrNeedsSetup         = ErrorForbidden{Message: "profile setup required"}
)

func NewValidationError(field, message string) error {
	return ErrorValidation{Field: field, Message: message}
}

func NewBackendError(message string, err error) error {
	return ErrorInternalServer{Message: message, Err: err}
}
