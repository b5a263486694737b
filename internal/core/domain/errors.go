package domain

import (
	"errors"
	"net/http"
)

// Error kinds. Match with errors.Is against a *Error.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")
)

// Client-facing messages of the registration workflow.
const (
	MsgFieldsRequired = "All fields are required"
	MsgUserExists     = "User with email or username already exists"
	MsgAvatarRequired = "Avatar file is required"
	MsgAvatarTooLarge = "Avatar file is too large"
	MsgCoverTooLarge  = "Cover image file is too large"
	MsgRegisterFailed = "Something went wrong while registering the user"
)

// Error is a workflow failure carrying a client-facing message and one of
// the kind sentinels above.
type Error struct {
	Kind    error
	Message string
	Details []string // per-field messages, rendered as the envelope's errors
	Err     error    // underlying cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// StatusCode maps the error kind to its HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NewValidationError(msg string, details ...string) *Error {
	return &Error{Kind: ErrValidation, Message: msg, Details: details}
}

func NewConflictError(msg string) *Error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func NewInternalError(msg string, cause error) *Error {
	return &Error{Kind: ErrInternal, Message: msg, Err: cause}
}
