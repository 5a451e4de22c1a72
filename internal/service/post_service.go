package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-dashboard/internal/domain"
	"github.com/spec-kit/blog-dashboard/internal/repository"
	apperrors "github.com/spec-kit/blog-dashboard/pkg/util/errorutil"
)

// PostService applies post lifecycle transitions: load the entity, mutate it
// in memory, save the full state back.
type PostService struct {
	posts  repository.PostRepository
	users  repository.UserRepository
	logger *zap.Logger
}

// NewPostService builds the service.
func NewPostService(posts repository.PostRepository, users repository.UserRepository, logger *zap.Logger) *PostService {
	return &PostService{posts: posts, users: users, logger: logger}
}

// CreatePostInput carries the fields accepted for a new post.
type CreatePostInput struct {
	Title    string
	UserID   int64
	Content  string
	Markdown string
	Metadata json.RawMessage
	Draft    bool
}

// CreatePost persists a new draft (or non-draft) post for an existing user.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*domain.Post, error) {
	if _, err := s.users.GetByID(ctx, in.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": in.UserID})
		}
		return nil, err
	}

	post := domain.NewPost(in.Title, in.UserID, in.Content, in.Draft)
	post.Markdown = in.Markdown
	post.Metadata = in.Metadata

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post created", zap.Int64("id", post.ID), zap.Int64("user_id", in.UserID))
	return post, nil
}

// EditPost overwrites title, content and the draft flag.
func (s *PostService) EditPost(ctx context.Context, id int64, title, content string, draft bool) (*domain.Post, error) {
	return s.transition(ctx, id, func(p *domain.Post) {
		p.Edit(title, content, draft)
	})
}

// PublishPost moves the post to the published state.
func (s *PostService) PublishPost(ctx context.Context, id int64, featured bool) (*domain.Post, error) {
	return s.transition(ctx, id, func(p *domain.Post) {
		p.Publish(featured)
	})
}

// UnpublishPost returns the post to draft.
func (s *PostService) UnpublishPost(ctx context.Context, id int64) (*domain.Post, error) {
	return s.transition(ctx, id, func(p *domain.Post) {
		p.Unpublish()
	})
}

// DeletePost soft-deletes the post; the row is retained.
func (s *PostService) DeletePost(ctx context.Context, id int64) (*domain.Post, error) {
	return s.transition(ctx, id, func(p *domain.Post) {
		p.SoftDelete()
	})
}

// SetVisibility replaces the audience flags.
func (s *PostService) SetVisibility(ctx context.Context, id int64, v domain.Visibility) (*domain.Post, error) {
	return s.transition(ctx, id, func(p *domain.Post) {
		p.SetVisibility(v)
	})
}

// GetPost returns a post by id, soft-deleted ones included.
func (s *PostService) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("post", map[string]any{"id": id})
		}
		return nil, err
	}
	return post, nil
}

// ListPosts returns all posts, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return s.posts.List(ctx)
}

// ListPostsByUser returns the posts owned by one user.
func (s *PostService) ListPostsByUser(ctx context.Context, userID int64) ([]domain.Post, error) {
	return s.posts.ListByUser(ctx, userID)
}

func (s *PostService) transition(ctx context.Context, id int64, mutate func(*domain.Post)) (*domain.Post, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	mutate(post)

	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("post", map[string]any{"id": id})
		}
		return nil, err
	}
	return post, nil
}
