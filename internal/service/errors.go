package service

import "errors"

// Error kinds. Every error returned by UserService wraps exactly one of them.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
)

// Error carries a kind sentinel and the message shown to the caller.
// errors.Is(err, ErrNotFound) and friends match on Kind.
type Error struct {
	Kind    error
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool { return target == e.Kind }

// Unwrap exposes the underlying cause (if any) for logging.
func (e *Error) Unwrap() error { return e.cause }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func internal(cause error) *Error {
	return &Error{Kind: ErrInternal, Message: "Internal server error", cause: cause}
}

// Caller-facing messages.
const (
	msgNotFound         = "User not found"
	msgExists           = "User already exists."
	msgPasswordRequired = "Password is required"
	msgBadPassword      = "Invalid password or Unauthorised user"
)
