package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-dashboard/internal/auth"
	"github.com/spec-kit/blog-dashboard/internal/config"
	"github.com/spec-kit/blog-dashboard/internal/domain"
	"github.com/spec-kit/blog-dashboard/internal/persistence"
	"github.com/spec-kit/blog-dashboard/internal/repository"
	apperrors "github.com/spec-kit/blog-dashboard/pkg/util/errorutil"
)

// LoginThrottle counts failed login attempts per account.
type LoginThrottle interface {
	TooMany(ctx context.Context, email string) bool
	RecordFailure(ctx context.Context, email string)
	Reset(ctx context.Context, email string)
}

// AuthService authenticates dashboard users and issues JWTs.
type AuthService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
	throttle LoginThrottle
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, throttle LoginThrottle, logger *zap.Logger) *AuthService {
	if throttle == nil {
		throttle = noopThrottle{}
	}
	return &AuthService{
		users:    users,
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		throttle: throttle,
		logger:   logger,
	}
}

// Login verifies credentials and returns the user plus a signed token.
// Lookup misses and bad passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	if s.throttle.TooMany(ctx, email) {
		return nil, "", time.Time{}, apperrors.NewTooManyRequests("too many failed attempts, try again later")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.throttle.RecordFailure(ctx, email)
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}

	if !user.CheckPassword(password) {
		s.throttle.RecordFailure(ctx, email)
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	s.throttle.Reset(ctx, email)

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.logger.Info("user logged in", zap.Int64("id", user.ID))
	return user, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

type noopThrottle struct{}

func (noopThrottle) TooMany(context.Context, string) bool { return false }
func (noopThrottle) RecordFailure(context.Context, string) {}
func (noopThrottle) Reset(context.Context, string) {}

// redisThrottle keeps a failure counter with a TTL per email. Redis being
// down disables throttling with a warning rather than blocking logins.
type redisThrottle struct {
	redis       *persistence.Redis
	maxAttempts int
	window      time.Duration
	logger      *zap.Logger
}

// NewRedisLoginThrottle builds a redis-backed throttle. A nil or unconfigured
// client yields a no-op throttle.
func NewRedisLoginThrottle(rdb *persistence.Redis, cfg config.AuthConfig, logger *zap.Logger) LoginThrottle {
	if rdb == nil || rdb.Client == nil {
		return noopThrottle{}
	}
	return &redisThrottle{
		redis:       rdb,
		maxAttempts: cfg.LoginMaxAttempts,
		window:      cfg.LoginLockout(),
		logger:      logger,
	}
}

func throttleKey(email string) string {
	return fmt.Sprintf("login:attempts:%s", email)
}

func (t *redisThrottle) TooMany(ctx context.Context, email string) bool {
	count, err := t.redis.Client.Get(ctx, throttleKey(email)).Int()
	if err != nil {
		return false
	}
	return count >= t.maxAttempts
}

func (t *redisThrottle) RecordFailure(ctx context.Context, email string) {
	key := throttleKey(email)
	count, err := t.redis.Client.Incr(ctx, key).Result()
	if err != nil {
		t.logger.Warn("login throttle unavailable", zap.Error(err))
		return
	}
	if count == 1 {
		if err := t.redis.Client.Expire(ctx, key, t.window).Err(); err != nil {
			t.logger.Warn("login throttle expire failed", zap.Error(err))
		}
	}
}

func (t *redisThrottle) Reset(ctx context.Context, email string) {
	if err := t.redis.Client.Del(ctx, throttleKey(email)).Err(); err != nil {
		t.logger.Warn("login throttle reset failed", zap.Error(err))
	}
}
