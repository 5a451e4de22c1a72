package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/spec-kit/blog-dashboard/internal/domain"
	"github.com/spec-kit/blog-dashboard/internal/persistence"
)

// PostRepository encapsulates post persistence. Lifecycle transitions are
// applied to the entity in memory and saved with Update, so the full flag
// set is written back each time.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Post, error)
}

type postRepository struct {
	db *sql.DB
}

// NewPostRepository returns a SQL-backed implementation.
func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `
    id, user_id, title, content, markdown, metadata,
    created_on, edited_on, published_on, unpublished_on, deleted_on,
    is_published, is_unpublished, is_deleted, is_draft, is_featured,
    visible_to_admins, visible_to_users, visible_to_visitors,
    visible_to_subscribers, visible_to_subscribers_tier_2, visible_to_subscribers_tier_3`

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	const query = `
        INSERT INTO posts (
            user_id, title, content, markdown, metadata, created_on,
            is_published, is_unpublished, is_deleted, is_draft, is_featured,
            visible_to_admins, visible_to_users, visible_to_visitors,
            visible_to_subscribers, visible_to_subscribers_tier_2, visible_to_subscribers_tier_3)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
        RETURNING id`

	return persistence.WithTx(ctx, r.db, nil, func(ctx context.Context, tx persistence.DBTX) error {
		return tx.QueryRowContext(ctx, query,
			post.UserID,
			post.Title,
			post.Content,
			post.Markdown,
			metadataArg(post),
			post.CreatedOn,
			post.IsPublished,
			post.IsUnpublished,
			post.IsDeleted,
			post.IsDraft,
			post.IsFeatured,
			post.Visibility.Admins,
			post.Visibility.Users,
			post.Visibility.Visitors,
			post.Visibility.Subscribers,
			post.Visibility.Tier2,
			post.Visibility.Tier3,
		).Scan(&post.ID)
	})
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	const query = `
        UPDATE posts SET
            title=$1, content=$2, markdown=$3, metadata=$4,
            edited_on=$5, published_on=$6, unpublished_on=$7, deleted_on=$8,
            is_published=$9, is_unpublished=$10, is_deleted=$11, is_draft=$12, is_featured=$13,
            visible_to_admins=$14, visible_to_users=$15, visible_to_visitors=$16,
            visible_to_subscribers=$17, visible_to_subscribers_tier_2=$18,
            visible_to_subscribers_tier_3=$19
        WHERE id=$20`

	return persistence.WithTx(ctx, r.db, nil, func(ctx context.Context, tx persistence.DBTX) error {
		cmd, err := tx.ExecContext(ctx, query,
			post.Title,
			post.Content,
			post.Markdown,
			metadataArg(post),
			post.EditedOn,
			post.PublishedOn,
			post.UnpublishedOn,
			post.DeletedOn,
			post.IsPublished,
			post.IsUnpublished,
			post.IsDeleted,
			post.IsDraft,
			post.IsFeatured,
			post.Visibility.Admins,
			post.Visibility.Users,
			post.Visibility.Visitors,
			post.Visibility.Subscribers,
			post.Visibility.Tier2,
			post.Visibility.Tier3,
			post.ID,
		)
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

func (r *postRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := `SELECT` + postColumns + ` FROM posts WHERE id=$1`

	row := r.db.QueryRowContext(ctx, query, id)
	post, err := scanPost(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context) ([]domain.Post, error) {
	query := `SELECT` + postColumns + ` FROM posts ORDER BY created_on DESC, id DESC`
	return r.queryPosts(ctx, query)
}

func (r *postRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Post, error) {
	query := `SELECT` + postColumns + ` FROM posts WHERE user_id=$1 ORDER BY created_on DESC, id DESC`
	return r.queryPosts(ctx, query, userID)
}

func (r *postRepository) queryPosts(ctx context.Context, query string, args ...any) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		post, err := scanPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func scanPost(scan func(dest ...any) error) (*domain.Post, error) {
	var post domain.Post
	var metadata []byte
	if err := scan(
		&post.ID,
		&post.UserID,
		&post.Title,
		&post.Content,
		&post.Markdown,
		&metadata,
		&post.CreatedOn,
		&post.EditedOn,
		&post.PublishedOn,
		&post.UnpublishedOn,
		&post.DeletedOn,
		&post.IsPublished,
		&post.IsUnpublished,
		&post.IsDeleted,
		&post.IsDraft,
		&post.IsFeatured,
		&post.Visibility.Admins,
		&post.Visibility.Users,
		&post.Visibility.Visitors,
		&post.Visibility.Subscribers,
		&post.Visibility.Tier2,
		&post.Visibility.Tier3,
	); err != nil {
		return nil, err
	}
	post.Metadata = metadata
	return &post, nil
}

// metadataArg returns NULL for absent payloads so the JSONB column stays null
// instead of holding an empty string.
func metadataArg(post *domain.Post) any {
	if len(post.Metadata) == 0 {
		return nil
	}
	return []byte(post.Metadata)
}
