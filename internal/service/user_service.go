package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-dashboard/internal/domain"
	"github.com/spec-kit/blog-dashboard/internal/repository"
	apperrors "github.com/spec-kit/blog-dashboard/pkg/util/errorutil"
)

// UserService coordinates dashboard user management: the create form, the
// card list and the delete buttons all land here.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, bcryptCost int, logger *zap.Logger) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost, logger: logger}
}

// CreateUser constructs and persists a new user. A duplicate email surfaces
// as a conflict the caller can show verbatim; the insert is already rolled
// back by then.
func (s *UserService) CreateUser(ctx context.Context, name, email, password string, isAdmin bool) (*domain.User, error) {
	user, err := domain.NewUser(name, email, password, isAdmin, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperrors.NewConflict("email already taken", map[string]any{"email": email})
		}
		return nil, err
	}

	s.logger.Info("user created", zap.Int64("id", user.ID), zap.Bool("admin", user.IsAdmin))
	return user, nil
}

// ListUsers returns a snapshot of all users, most recently created first.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// GetUser returns a single user by id.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the user, soft-deleting their posts along the way.
// A missing id is an explicit not-found, never a silent no-op.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return err
	}

	s.logger.Info("user deleted", zap.Int64("id", id))
	return nil
}
