// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

type mapping struct {
	target error
	code   codes.Code
	http   int
	reason string
}

// Order matters: the first match wins.
var mappings = []mapping{
	{ErrNotFound, codes.NotFound, http.StatusNotFound, ReasonNotFound},
	{gorm.ErrRecordNotFound, codes.NotFound, http.StatusNotFound, ReasonNotFound},
	{ErrForbidden, codes.PermissionDenied, http.StatusForbidden, ReasonForbidden},
	{ErrInsufficientFunds, codes.FailedPrecondition, http.StatusPaymentRequired, ReasonInsufficientFunds},
	{ErrLocked, codes.FailedPrecondition, http.StatusLocked, ReasonLocked},
	{ErrInvalidArgument, codes.InvalidArgument, http.StatusBadRequest, ReasonInvalidArgument},
	{ErrConflict, codes.Aborted, http.StatusConflict, ReasonConflict},
	{gorm.ErrDuplicatedKey, codes.Aborted, http.StatusConflict, ReasonConflict},
	{ErrUnauthenticated, codes.Unauthenticated, http.StatusUnauthorized, ReasonUnauthenticated},
	{context.DeadlineExceeded, codes.DeadlineExceeded, http.StatusGatewayTimeout, ReasonTimeout},
	{context.Canceled, codes.Canceled, 499, ReasonCanceled},
}

func lookup(err error) (mapping, bool) {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m, true
		}
	}
	return mapping{}, false
}

// Map converts domain/repo/infra errors into gRPC status errors.
// Known errors carry an ErrorInfo detail with the machine-readable reason.
func Map(err error) error {
	return MapWithMetadata(err, nil)
}

// MapWithMetadata is Map with extra key/values on the ErrorInfo detail.
func MapWithMetadata(err error, metadata map[string]string) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	m, ok := lookup(err)
	if !ok {
		// fallback → bubble up error message for debugging
		return status.Error(codes.Internal, err.Error())
	}

	st := status.New(m.code, err.Error())
	if withDetails, derr := st.WithDetails(&errdetails.ErrorInfo{Reason: m.reason, Domain: Domain, Metadata: metadata}); derr == nil {
		st = withDetails
	}
	return st.Err()
}

// HTTPStatus returns the HTTP status code for an error.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if m, ok := lookup(err); ok {
		return m.http
	}
	return http.StatusInternalServerError
}

// Reason returns the machine-readable reason for an error.
func Reason(err error) string {
	if m, ok := lookup(err); ok {
		return m.reason
	}
	return ReasonInternal
}

// MetadataFromStatus returns the ErrorInfo metadata of a gRPC status error.
func MetadataFromStatus(err error) map[string]string {
	st, ok := status.FromError(err)
	if !ok {
		return nil
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info.GetMetadata()
		}
	}
	return nil
}

// ReasonFromStatus extracts the ErrorInfo reason from a gRPC status error, if any.
func ReasonFromStatus(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info.GetReason()
		}
	}
	return ""
}

// InvalidArgument creates a gRPC InvalidArgument error.
// Use this in service layer for bad input validation.
func InvalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}

// Unauthenticated creates a gRPC Unauthenticated error.
func Unauthenticated(msg string) error {
	return status.Error(codes.Unauthenticated, msg)
}
