package handlers

import (
	"bytes"
	"html/template"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-dashboard/internal/api/dto"
	"github.com/spec-kit/blog-dashboard/internal/service"
	apperrors "github.com/spec-kit/blog-dashboard/pkg/util/errorutil"
)

// DashboardHandler serves the server-rendered user management page: a create
// form, the user cards and a delete button per card. Failures come back as a
// notification banner, the operation is abandoned, and the list re-renders
// from a fresh query.
type DashboardHandler struct {
	users *service.UserService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(userService *service.UserService) *DashboardHandler {
	return &DashboardHandler{users: userService}
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Users</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; }
.card { border: 1px solid #ccc; border-radius: 6px; padding: 1rem; margin: 1rem 0; }
.error { background: #fdd; padding: 0.5rem 1rem; border-radius: 4px; }
form.create { display: flex; gap: 0.5rem; align-items: center; flex-wrap: wrap; }
</style>
</head>
<body>
<h1>Create User</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form class="create" method="post" action="/dashboard/users">
  <input name="name" placeholder="Name" required>
  <input name="email" type="email" placeholder="Email" required>
  <input name="password" type="password" placeholder="Password" required>
  <label><input name="is_admin" type="checkbox" value="true"> Is Admin</label>
  <button type="submit">Create User</button>
</form>
{{range .Users}}
<div class="card">
  <b>Name:</b> {{.Name}}
  <b>Email:</b> {{.Email}}
  <b>Admin:</b> {{.IsAdmin}}
  <form method="post" action="/dashboard/users/{{.ID}}/delete" style="display:inline">
    <button type="submit">Delete</button>
  </form>
</div>
{{end}}
</body>
</html>
`))

type dashboardPage struct {
	Users []dto.UserResponse
	Error string
}

// Page handles GET /. Every render re-queries the store; there is no cached
// list state.
func (h *DashboardHandler) Page(c *fiber.Ctx) error {
	users, err := h.users.ListUsers(c.UserContext())
	if err != nil {
		return err
	}

	page := dashboardPage{Error: c.Query("error")}
	for i := range users {
		page.Users = append(page.Users, dto.NewUserResponse(&users[i]))
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, page); err != nil {
		return apperrors.NewInternalError(err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

// CreateUser handles the dashboard form POST and redirects back to the page,
// carrying the store error message when creation failed.
func (h *DashboardHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return h.redirectWithError(c, "invalid form input")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return h.redirectWithError(c, "name, email and password are required")
	}

	if _, err := h.users.CreateUser(c.UserContext(), req.Name, req.Email, req.Password, req.IsAdmin); err != nil {
		return h.redirectWithError(c, "error creating user: "+apperrors.ToDomainError(err).Message)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// DeleteUser handles the per-card delete button.
func (h *DashboardHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.redirectWithError(c, "invalid user id")
	}

	if err := h.users.DeleteUser(c.UserContext(), id); err != nil {
		return h.redirectWithError(c, "error deleting user: "+apperrors.ToDomainError(err).Message)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *DashboardHandler) redirectWithError(c *fiber.Ctx, msg string) error {
	return c.Redirect("/?error="+url.QueryEscape(msg), fiber.StatusSeeOther)
}
