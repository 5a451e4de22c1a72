package dto

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/blog-dashboard/internal/domain"
)

// PostCreateRequest payload for new posts.
type PostCreateRequest struct {
	Title    string          `json:"title"`
	UserID   int64           `json:"user_id"`
	Content  string          `json:"content"`
	Markdown string          `json:"markdown"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
	Draft    bool            `json:"draft"`
}

// PostEditRequest payload for edits.
type PostEditRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Draft   bool   `json:"draft"`
}

// PostPublishRequest payload for publishing.
type PostPublishRequest struct {
	Featured bool `json:"featured"`
}

// PostVisibilityRequest carries one flag per audience tier.
type PostVisibilityRequest struct {
	Admins      bool `json:"admins"`
	Users       bool `json:"users"`
	Visitors    bool `json:"visitors"`
	Subscribers bool `json:"subscribers"`
	Tier2       bool `json:"subscribers_tier_2"`
	Tier3       bool `json:"subscribers_tier_3"`
}

// Visibility converts the request into the domain value.
func (r PostVisibilityRequest) Visibility() domain.Visibility {
	return domain.Visibility{
		Admins:      r.Admins,
		Users:       r.Users,
		Visitors:    r.Visitors,
		Subscribers: r.Subscribers,
		Tier2:       r.Tier2,
		Tier3:       r.Tier3,
	}
}

// PostResponse is the full post view.
type PostResponse struct {
	ID            int64                 `json:"id"`
	UserID        *int64                `json:"user_id"`
	Title         string                `json:"title"`
	Content       string                `json:"content"`
	Markdown      string                `json:"markdown"`
	Metadata      json.RawMessage       `json:"metadata,omitempty"`
	CreatedOn     time.Time             `json:"created_on"`
	EditedOn      *time.Time            `json:"edited_on,omitempty"`
	PublishedOn   *time.Time            `json:"published_on,omitempty"`
	UnpublishedOn *time.Time            `json:"unpublished_on,omitempty"`
	DeletedOn     *time.Time            `json:"deleted_on,omitempty"`
	IsPublished   bool                  `json:"is_published"`
	IsUnpublished bool                  `json:"is_unpublished"`
	IsDeleted     bool                  `json:"is_deleted"`
	IsDraft       bool                  `json:"is_draft"`
	IsFeatured    bool                  `json:"is_featured"`
	Visibility    PostVisibilityRequest `json:"visibility"`
}

// NewPostResponse maps a domain post into its API form.
func NewPostResponse(p *domain.Post) PostResponse {
	return PostResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		Title:         p.Title,
		Content:       p.Content,
		Markdown:      p.Markdown,
		Metadata:      p.Metadata,
		CreatedOn:     p.CreatedOn,
		EditedOn:      p.EditedOn,
		PublishedOn:   p.PublishedOn,
		UnpublishedOn: p.UnpublishedOn,
		DeletedOn:     p.DeletedOn,
		IsPublished:   p.IsPublished,
		IsUnpublished: p.IsUnpublished,
		IsDeleted:     p.IsDeleted,
		IsDraft:       p.IsDraft,
		IsFeatured:    p.IsFeatured,
		Visibility: PostVisibilityRequest{
			Admins:      p.Visibility.Admins,
			Users:       p.Visibility.Users,
			Visitors:    p.Visibility.Visitors,
			Subscribers: p.Visibility.Subscribers,
			Tier2:       p.Visibility.Tier2,
			Tier3:       p.Visibility.Tier3,
		},
	}
}

// NewUserResponse maps a domain user into its API form.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Verified:  u.Verified,
		IsAdmin:   u.IsAdmin,
		CreatedOn: u.CreatedOn,
	}
}
