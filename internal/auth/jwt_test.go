package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/findtheone/internal/config"
	svcErr "github.com/oggyb/findtheone/internal/errors"
)

func testIssuer() *Issuer {
	cfg := config.New()
	cfg.Auth.Secret = "test-secret"
	cfg.Auth.Issuer = "test"
	cfg.Auth.TokenTTL = time.Hour
	return NewIssuer(cfg)
}

func TestIssueAndParse(t *testing.T) {
	iss := testIssuer()

	token, err := iss.Issue(42, "alice")
	require.NoError(t, err)

	id, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: 42, Username: "alice"}, id)
}

func TestParse_Rejects(t *testing.T) {
	iss := testIssuer()
	token, err := iss.Issue(42, "alice")
	require.NoError(t, err)

	other := testIssuer()
	other.secret = []byte("another-secret")
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := testIssuer()
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", tok)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = BearerToken("")
	assert.False(t, ok)
}

func TestIdentityContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: 7})
	id, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint64(7), id.UserID)
}

func TestCaller(t *testing.T) {
	_, err := Caller(context.Background())
	assert.ErrorIs(t, err, svcErr.ErrUnauthenticated)

	uid, err := Caller(WithIdentity(context.Background(), Identity{UserID: 3}))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), uid)
}
