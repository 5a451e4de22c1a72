package domain

import (
	"encoding/json"
	"time"
)

// Visibility holds one flag per audience tier. Subscribers is tier 1;
// Tier2 and Tier3 extend it for paid tiers.
type Visibility struct {
	Admins      bool
	Users       bool
	Visitors    bool
	Subscribers bool
	Tier2       bool
	Tier3       bool
}

// Post is a blog entry owned by a user. Deletion is soft: the row is kept
// with IsDeleted set and DeletedOn stamped. Lifecycle flags are only mutated
// through the transition methods, which keep draft/published/unpublished/
// deleted mutually consistent.
type Post struct {
	ID            int64
	UserID        *int64
	Title         string
	Content       string
	Markdown      string
	Metadata      json.RawMessage
	CreatedOn     time.Time
	EditedOn      *time.Time
	PublishedOn   *time.Time
	UnpublishedOn *time.Time
	DeletedOn     *time.Time
	IsPublished   bool
	IsUnpublished bool
	IsDeleted     bool
	IsDraft       bool
	IsFeatured    bool
	Visibility    Visibility
}

// NewPost builds a post for the given owner, stamped with creation time.
func NewPost(title string, userID int64, content string, draft bool) *Post {
	return &Post{
		UserID:    &userID,
		Title:     title,
		Content:   content,
		IsDraft:   draft,
		CreatedOn: time.Now().UTC(),
	}
}

// Edit overwrites title, content and the draft flag and stamps the edit time.
// Publish state and visibility are left untouched.
func (p *Post) Edit(title, content string, draft bool) {
	p.Title = title
	p.Content = content
	p.IsDraft = draft
	now := time.Now().UTC()
	p.EditedOn = &now
}

// Publish moves the post to the published state. A previous unpublish is
// cleared so the flags stay mutually exclusive.
func (p *Post) Publish(featured bool) {
	p.IsPublished = true
	p.IsDraft = false
	p.IsUnpublished = false
	p.IsFeatured = featured
	now := time.Now().UTC()
	p.PublishedOn = &now
}

// Unpublish returns the post to draft and records the unpublish as its own
// state, with its own timestamp.
func (p *Post) Unpublish() {
	p.IsPublished = false
	p.IsDraft = true
	p.IsUnpublished = true
	now := time.Now().UTC()
	p.UnpublishedOn = &now
}

// SoftDelete marks the post deleted, hides it from every audience tier and
// stamps the deletion time. The record is retained.
func (p *Post) SoftDelete() {
	p.IsPublished = false
	p.IsUnpublished = false
	p.IsDraft = false
	p.IsDeleted = true
	p.Visibility = Visibility{}
	now := time.Now().UTC()
	p.DeletedOn = &now
}

// SetVisibility replaces all audience flags at once.
func (p *Post) SetVisibility(v Visibility) {
	p.Visibility = v
}
