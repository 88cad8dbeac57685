package auth

import (
	"context"
	"fmt"
	"strings"

	svcErr "github.com/oggyb/findtheone/internal/errors"
)

// Identity is the authenticated caller. Transports resolve it once and
// pass the user id explicitly into core operations.
type Identity struct {
	UserID   uint64
	Username string
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok && id.UserID != 0
}

// Caller returns the authenticated user id or ErrUnauthenticated.
func Caller(ctx context.Context) (uint64, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return 0, fmt.Errorf("%w: missing identity", svcErr.ErrUnauthenticated)
	}
	return id.UserID, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
