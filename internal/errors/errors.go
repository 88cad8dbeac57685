package errors

import "errors"

// Domain error taxonomy. Callers wrap these with fmt.Errorf("%w: ...") and
// transports translate them with Map / HTTPStatus.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrLocked            = errors.New("message is locked")
	ErrUnauthenticated   = errors.New("unauthenticated")
)

// Machine-readable reasons attached to transport errors.
const (
	ReasonNotFound          = "NOT_FOUND"
	ReasonForbidden         = "FORBIDDEN"
	ReasonConflict          = "CONFLICT"
	ReasonInsufficientFunds = "INSUFFICIENT_FUNDS"
	ReasonInvalidArgument   = "INVALID_ARGUMENT"
	ReasonLocked            = "MESSAGE_LOCKED"
	ReasonUnauthenticated   = "UNAUTHENTICATED"
	ReasonTimeout           = "TIMEOUT"
	ReasonCanceled          = "CANCELED"
	ReasonInternal          = "INTERNAL"
)

// Domain is the ErrorInfo domain used in gRPC error details.
const Domain = "findtheone"
