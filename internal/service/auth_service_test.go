package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/blog-dashboard/internal/config"
	apperrors "github.com/spec-kit/blog-dashboard/pkg/util/errorutil"
)

func newAuthFixture(t *testing.T, throttle LoginThrottle) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()

	_, err := newUserService(users).CreateUser(context.Background(), "Ada", "ada@x.com", "secret", true)
	require.NoError(t, err)

	cfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60}
	return NewAuthService(cfg, users, throttle, zap.NewNop()), users
}

func TestAuthService_Login_Success(t *testing.T) {
	t.Parallel()

	throttle := &fakeThrottle{}
	svc, _ := newAuthFixture(t, throttle)

	user, token, exp, err := svc.Login(context.Background(), "ada@x.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "Ada", user.Name)
	require.NotEmpty(t, token)
	require.False(t, exp.IsZero())
	require.Equal(t, 1, throttle.resets)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.True(t, claims.IsAdmin)
	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, user.ID, id)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	t.Parallel()

	throttle := &fakeThrottle{}
	svc, _ := newAuthFixture(t, throttle)

	_, _, _, err := svc.Login(context.Background(), "ada@x.com", "wrong")
	require.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
	require.Equal(t, 1, throttle.failures)
}

func TestAuthService_Login_UnknownEmailLooksIdentical(t *testing.T) {
	t.Parallel()

	throttle := &fakeThrottle{}
	svc, _ := newAuthFixture(t, throttle)

	_, _, _, err := svc.Login(context.Background(), "ghost@x.com", "whatever")
	require.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
	require.Equal(t, 1, throttle.failures)
}

func TestAuthService_Login_Throttled(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthFixture(t, &fakeThrottle{blocked: true})

	_, _, _, err := svc.Login(context.Background(), "ada@x.com", "secret")
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, "TOO_MANY_REQUESTS", domainErr.Code)
	require.Equal(t, 429, domainErr.HTTPStatus)
}

func TestAuthService_NilThrottleDefaultsToNoop(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthFixture(t, nil)

	_, token, _, err := svc.Login(context.Background(), "ada@x.com", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
}
