package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-dashboard/internal/api/dto"
	"github.com/spec-kit/blog-dashboard/internal/domain"
	"github.com/spec-kit/blog-dashboard/internal/service"
	apperrors "github.com/spec-kit/blog-dashboard/pkg/util/errorutil"
)

// PostsHandler exposes the post lifecycle endpoints.
type PostsHandler struct {
	posts *service.PostService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(postService *service.PostService) *PostsHandler {
	return &PostsHandler{posts: postService}
}

// List handles GET /api/posts, optionally filtered by ?user_id=.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	if raw := c.Query("user_id"); raw != "" {
		userID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			return apperrors.NewValidationError("invalid user_id", map[string]any{"user_id": raw})
		}
		list, listErr := h.posts.ListPostsByUser(c.UserContext(), userID)
		if listErr != nil {
			return listErr
		}
		return c.JSON(fiber.Map{"data": toPostResponses(list)})
	}

	list, listErr := h.posts.ListPosts(c.UserContext())
	if listErr != nil {
		return listErr
	}
	return c.JSON(fiber.Map{"data": toPostResponses(list)})
}

// Create handles POST /api/posts.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	var req dto.PostCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.UserID == 0 {
		return apperrors.NewValidationError("title and user_id required", nil)
	}

	post, err := h.posts.CreatePost(c.UserContext(), service.CreatePostInput{
		Title:    req.Title,
		UserID:   req.UserID,
		Content:  req.Content,
		Markdown: req.Markdown,
		Metadata: req.Metadata,
		Draft:    req.Draft,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewPostResponse(post)})
}

// Get handles GET /api/posts/:id.
func (h *PostsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	post, err := h.posts.GetPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPostResponse(post)})
}

// Edit handles PUT /api/posts/:id.
func (h *PostsHandler) Edit(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.PostEditRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" {
		return apperrors.NewValidationError("title required", nil)
	}

	post, err := h.posts.EditPost(c.UserContext(), id, req.Title, req.Content, req.Draft)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPostResponse(post)})
}

// Publish handles POST /api/posts/:id/publish.
func (h *PostsHandler) Publish(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.PostPublishRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	post, err := h.posts.PublishPost(c.UserContext(), id, req.Featured)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPostResponse(post)})
}

// Unpublish handles POST /api/posts/:id/unpublish.
func (h *PostsHandler) Unpublish(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	post, err := h.posts.UnpublishPost(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPostResponse(post)})
}

// Delete handles DELETE /api/posts/:id. The delete is soft: the response
// carries the retained record.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	post, err := h.posts.DeletePost(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPostResponse(post)})
}

func toPostResponses(posts []domain.Post) []dto.PostResponse {
	out := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, dto.NewPostResponse(&posts[i]))
	}
	return out
}

// SetVisibility handles PUT /api/posts/:id/visibility.
func (h *PostsHandler) SetVisibility(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.PostVisibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	post, err := h.posts.SetVisibility(c.UserContext(), id, req.Visibility())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPostResponse(post)})
}
