package errors_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"gorm.io/gorm"

	svcErr "github.com/oggyb/findtheone/internal/errors"
)

func TestMap_Codes(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{fmt.Errorf("%w: message 7", svcErr.ErrNotFound), codes.NotFound},
		{gorm.ErrRecordNotFound, codes.NotFound},
		{fmt.Errorf("%w: not your message", svcErr.ErrForbidden), codes.PermissionDenied},
		{svcErr.ErrInsufficientFunds, codes.FailedPrecondition},
		{svcErr.ErrInvalidArgument, codes.InvalidArgument},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{context.Canceled, codes.Canceled},
		{errors.New("boom"), codes.Internal},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, status.Code(svcErr.Map(c.err)), c.err.Error())
	}
	assert.NoError(t, svcErr.Map(nil))
}

func TestMap_KeepsStatusErrors(t *testing.T) {
	in := svcErr.InvalidArgument("bad id")
	assert.Equal(t, in, svcErr.Map(in))
}

func TestMap_AttachesReason(t *testing.T) {
	err := svcErr.Map(fmt.Errorf("unlock: %w", svcErr.ErrInsufficientFunds))

	st, ok := status.FromError(err)
	require.True(t, ok)
	require.Len(t, st.Details(), 1)

	want := &errdetails.ErrorInfo{Reason: svcErr.ReasonInsufficientFunds, Domain: svcErr.Domain}
	got, ok := st.Details()[0].(*errdetails.ErrorInfo)
	require.True(t, ok)
	assert.True(t, proto.Equal(want, got))
	assert.Equal(t, svcErr.ReasonInsufficientFunds, svcErr.ReasonFromStatus(err))
}

func TestHTTPStatusAndReason(t *testing.T) {
	assert.Equal(t, http.StatusPaymentRequired, svcErr.HTTPStatus(svcErr.ErrInsufficientFunds))
	assert.Equal(t, http.StatusLocked, svcErr.HTTPStatus(svcErr.ErrLocked))
	assert.Equal(t, http.StatusForbidden, svcErr.HTTPStatus(fmt.Errorf("x: %w", svcErr.ErrForbidden)))
	assert.Equal(t, http.StatusInternalServerError, svcErr.HTTPStatus(errors.New("boom")))
	assert.Equal(t, http.StatusOK, svcErr.HTTPStatus(nil))

	assert.Equal(t, svcErr.ReasonNotFound, svcErr.Reason(gorm.ErrRecordNotFound))
	assert.Equal(t, svcErr.ReasonInternal, svcErr.Reason(errors.New("boom")))
}

func TestMapWithMetadata(t *testing.T) {
	err := svcErr.MapWithMetadata(svcErr.ErrInsufficientFunds, map[string]string{"coins_needed": "1", "current_coins": "0"})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	assert.Equal(t, svcErr.ReasonInsufficientFunds, svcErr.ReasonFromStatus(err))
	assert.Equal(t, "1", svcErr.MetadataFromStatus(err)["coins_needed"])
	assert.Nil(t, svcErr.MetadataFromStatus(errors.New("plain")))
}
