package repository

// Behavioral tests against an in-memory SQLite database exercising the real
// queries: constraint handling, ordering, soft-delete cascade, lifecycle
// round-trips.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/spec-kit/blog-dashboard/internal/domain"
)

var storeSeq atomic.Int64

const storeSchema = `
CREATE TABLE users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT      NOT NULL,
    email         TEXT      NOT NULL UNIQUE,
    password_hash TEXT      NOT NULL,
    verified      BOOLEAN   NOT NULL DEFAULT 0,
    is_admin      BOOLEAN   NOT NULL DEFAULT 0,
    created_on    TIMESTAMP NOT NULL
);
CREATE TABLE posts (
    id                            INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id                       INTEGER REFERENCES users (id) ON DELETE SET NULL,
    title                         TEXT      NOT NULL,
    content                       TEXT      NOT NULL DEFAULT '',
    markdown                      TEXT      NOT NULL DEFAULT '',
    metadata                      BLOB,
    created_on                    TIMESTAMP NOT NULL,
    edited_on                     TIMESTAMP,
    published_on                  TIMESTAMP,
    unpublished_on                TIMESTAMP,
    deleted_on                    TIMESTAMP,
    is_published                  BOOLEAN   NOT NULL DEFAULT 0,
    is_unpublished                BOOLEAN   NOT NULL DEFAULT 0,
    is_deleted                    BOOLEAN   NOT NULL DEFAULT 0,
    is_draft                      BOOLEAN   NOT NULL DEFAULT 1,
    is_featured                   BOOLEAN   NOT NULL DEFAULT 0,
    visible_to_admins             BOOLEAN   NOT NULL DEFAULT 0,
    visible_to_users              BOOLEAN   NOT NULL DEFAULT 0,
    visible_to_visitors           BOOLEAN   NOT NULL DEFAULT 0,
    visible_to_subscribers        BOOLEAN   NOT NULL DEFAULT 0,
    visible_to_subscribers_tier_2 BOOLEAN   NOT NULL DEFAULT 0,
    visible_to_subscribers_tier_3 BOOLEAN   NOT NULL DEFAULT 0
);`

func setupStore(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:store_test_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", storeSeq.Add(1))
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(storeSchema)
	require.NoError(t, err)
	return db
}

func mustUser(t *testing.T, name, email, password string, admin bool) *domain.User {
	t.Helper()
	u, err := domain.NewUser(name, email, password, admin, bcrypt.MinCost)
	require.NoError(t, err)
	return u
}

func userCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	return n
}

func TestUserStore_CreateAndList(t *testing.T) {
	db := setupStore(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	ada := mustUser(t, "Ada", "ada@x.com", "secret", false)
	require.NoError(t, repo.Create(ctx, ada))
	require.NotZero(t, ada.ID)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "Ada", users[0].Name)
	require.Equal(t, "ada@x.com", users[0].Email)
	require.NotEmpty(t, users[0].PasswordHash)
	require.NotEqual(t, "secret", users[0].PasswordHash)
}

func TestUserStore_ListNewestFirst(t *testing.T) {
	db := setupStore(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := mustUser(t, "First", "first@x.com", "pw", false)
	require.NoError(t, repo.Create(ctx, first))
	second := mustUser(t, "Second", "second@x.com", "pw", false)
	second.CreatedOn = first.CreatedOn.Add(1)
	require.NoError(t, repo.Create(ctx, second))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "Second", users[0].Name)
	require.Equal(t, "First", users[1].Name)
}

func TestUserStore_DuplicateEmailLeavesCountUnchanged(t *testing.T) {
	db := setupStore(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, mustUser(t, "Ada", "ada@x.com", "one", false)))
	require.Equal(t, 1, userCount(t, db))

	err := repo.Create(ctx, mustUser(t, "Imposter", "ada@x.com", "two", false))
	require.Error(t, err)
	require.Equal(t, 1, userCount(t, db))
}

func TestUserStore_DeleteExisting(t *testing.T) {
	db := setupStore(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	ada := mustUser(t, "Ada", "ada@x.com", "pw", false)
	bob := mustUser(t, "Bob", "bob@x.com", "pw", false)
	require.NoError(t, repo.Create(ctx, ada))
	require.NoError(t, repo.Create(ctx, bob))

	require.NoError(t, repo.Delete(ctx, ada.ID))
	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "Bob", users[0].Name)
}

func TestUserStore_DeleteMissingIsExplicitNotFound(t *testing.T) {
	db := setupStore(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, mustUser(t, "Ada", "ada@x.com", "pw", false)))

	err := repo.Delete(ctx, 12345)
	require.ErrorIs(t, err, ErrNotFound)
	require.Equal(t, 1, userCount(t, db))
}

func TestUserStore_DeleteSoftDeletesOwnedPosts(t *testing.T) {
	db := setupStore(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	ada := mustUser(t, "Ada", "ada@x.com", "pw", false)
	require.NoError(t, users.Create(ctx, ada))

	post := domain.NewPost("Notes", ada.ID, "body", false)
	post.Publish(false)
	post.SetVisibility(domain.Visibility{Users: true, Visitors: true})
	require.NoError(t, posts.Create(ctx, post))

	require.NoError(t, users.Delete(ctx, ada.ID))

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err, "soft-deleted post must remain retrievable")
	require.True(t, got.IsDeleted)
	require.False(t, got.IsPublished)
	require.False(t, got.IsDraft)
	require.NotNil(t, got.DeletedOn)
	require.Equal(t, domain.Visibility{}, got.Visibility)
	require.Nil(t, got.UserID, "ownership is cleared when the owner row goes away")
}

func TestPostStore_PublishRoundTrip(t *testing.T) {
	db := setupStore(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	ada := mustUser(t, "Ada", "ada@x.com", "pw", false)
	require.NoError(t, users.Create(ctx, ada))

	post := domain.NewPost("Launch", ada.ID, "body", true)
	post.Metadata = json.RawMessage(`{"tags":["go"]}`)
	require.NoError(t, posts.Create(ctx, post))

	post.Publish(true)
	require.NoError(t, posts.Update(ctx, post))

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.True(t, got.IsPublished)
	require.False(t, got.IsDraft)
	require.True(t, got.IsFeatured)
	require.NotNil(t, got.PublishedOn)
	require.JSONEq(t, `{"tags":["go"]}`, string(got.Metadata))
}

func TestPostStore_SoftDeleteRoundTrip(t *testing.T) {
	db := setupStore(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	ada := mustUser(t, "Ada", "ada@x.com", "pw", false)
	require.NoError(t, users.Create(ctx, ada))

	post := domain.NewPost("Gone", ada.ID, "body", false)
	post.Publish(false)
	require.NoError(t, posts.Create(ctx, post))

	post.SoftDelete()
	require.NoError(t, posts.Update(ctx, post))

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.False(t, got.IsPublished)
	require.False(t, got.IsDraft)
	require.True(t, got.IsDeleted)
	require.NotNil(t, got.DeletedOn)
}

func TestPostStore_ListByUser(t *testing.T) {
	db := setupStore(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	ada := mustUser(t, "Ada", "ada@x.com", "pw", false)
	bob := mustUser(t, "Bob", "bob@x.com", "pw", false)
	require.NoError(t, users.Create(ctx, ada))
	require.NoError(t, users.Create(ctx, bob))

	require.NoError(t, posts.Create(ctx, domain.NewPost("A1", ada.ID, "", true)))
	require.NoError(t, posts.Create(ctx, domain.NewPost("B1", bob.ID, "", true)))
	require.NoError(t, posts.Create(ctx, domain.NewPost("A2", ada.ID, "", true)))

	adaPosts, err := posts.ListByUser(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, adaPosts, 2)

	all, err := posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestPostStore_UpdateMissing(t *testing.T) {
	db := setupStore(t)
	posts := NewPostRepository(db)

	post := domain.NewPost("Ghost", 1, "", true)
	post.ID = 999
	err := posts.Update(context.Background(), post)
	require.ErrorIs(t, err, ErrNotFound)
}
