package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/spec-kit/blog-dashboard/internal/domain"
	"github.com/spec-kit/blog-dashboard/internal/persistence"
)

// UserRepository defines persistence access for dashboard users. Every
// mutating call runs in its own transaction: committed on success, rolled
// back on failure.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository returns a SQL-backed implementation.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, verified, is_admin, created_on)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`

	err := persistence.WithTx(ctx, r.db, nil, func(ctx context.Context, tx persistence.DBTX) error {
		return tx.QueryRowContext(ctx, query,
			user.Name,
			user.Email,
			user.PasswordHash,
			user.Verified,
			user.IsAdmin,
			user.CreatedOn,
		).Scan(&user.ID)
	})
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, verified, is_admin, created_on
        FROM users
        ORDER BY created_on DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Verified,
			&user.IsAdmin,
			&user.CreatedOn,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, verified, is_admin, created_on
        FROM users WHERE id=$1`

	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, verified, is_admin, created_on
        FROM users WHERE email=$1`

	return r.fetchSingle(ctx, query, email)
}

// Delete hard-deletes the user and, in the same transaction, soft-deletes
// every post still owned by them. The posts survive as ownerless rows.
// Returns ErrNotFound when no user row matched.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	const softDeletePosts = `
        UPDATE posts SET
            is_published=FALSE, is_unpublished=FALSE, is_draft=FALSE, is_deleted=TRUE,
            visible_to_admins=FALSE, visible_to_users=FALSE, visible_to_visitors=FALSE,
            visible_to_subscribers=FALSE, visible_to_subscribers_tier_2=FALSE,
            visible_to_subscribers_tier_3=FALSE,
            deleted_on=$1
        WHERE user_id=$2 AND is_deleted=FALSE`
	const deleteUser = `DELETE FROM users WHERE id=$1`

	return persistence.WithTx(ctx, r.db, nil, func(ctx context.Context, tx persistence.DBTX) error {
		if _, err := tx.ExecContext(ctx, softDeletePosts, time.Now().UTC(), id); err != nil {
			return err
		}
		cmd, err := tx.ExecContext(ctx, deleteUser, id)
		if err != nil {
			return err
		}
		affected, err := cmd.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Verified,
		&user.IsAdmin,
		&user.CreatedOn,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
