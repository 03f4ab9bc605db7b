package console

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spec-kit/workforce-console/internal/apiclient"
	"github.com/spec-kit/workforce-console/internal/domain"
)

// UserQuery narrows the users listing.
type UserQuery struct {
	Page    int
	PerPage int
	Search  string
	// Status is all, active or inactive.
	Status string
}

func (q UserQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	return v
}

// NewUser is the form submitted to create a workforce user.
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// UsersManager lists and edits the admin's workforce users.
type UsersManager struct {
	api      Requester
	renderer Renderer
}

func NewUsersManager(api Requester, renderer Renderer) *UsersManager {
	return &UsersManager{api: api, renderer: renderer}
}

// List renders one page of users and returns it, or nil when the request stopped.
func (m *UsersManager) List(ctx context.Context, q UserQuery) []domain.WorkforceUser {
	resp := m.api.Request(ctx, "/admin/users", &apiclient.RequestOptions{Query: q.values()})
	if failed(m.api, resp, "Failed to load users") {
		return nil
	}
	var body struct {
		Users []domain.WorkforceUser `json:"users"`
	}
	if !decode(m.api, resp, &body) {
		return nil
	}
	if body.Users == nil {
		body.Users = []domain.WorkforceUser{}
	}

	table := Table{Title: "Users", Columns: []string{"ID", "NAME", "EMAIL", "PHONE", "STATUS", "LAST SYNC"}}
	for _, u := range body.Users {
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(u.ID, 10), u.Name, u.Email, u.Phone, activeLabel(u.IsActive), syncLabel(u),
		})
	}
	m.renderer.RenderTable(table)
	return body.Users
}

// Create submits a new user. It reports whether the backend accepted it.
func (m *UsersManager) Create(ctx context.Context, u NewUser) bool {
	if u.Name == "" || u.Email == "" || u.Password == "" {
		m.api.Notify("Name, email and password are required", domain.LevelWarning)
		return false
	}
	resp := m.api.Request(ctx, "/admin/create-user", &apiclient.RequestOptions{Method: http.MethodPost, Body: u})
	if failed(m.api, resp, "Failed to create user") {
		return false
	}
	m.api.Notify(fmt.Sprintf("User %s created", u.Email), domain.LevelSuccess)
	return true
}

// Toggle flips a user's active flag.
func (m *UsersManager) Toggle(ctx context.Context, id int64) bool {
	path := fmt.Sprintf("/admin/user/%d/status", id)
	return toggle(ctx, m.api, path, "Failed to update user")
}

// Delete removes a user.
func (m *UsersManager) Delete(ctx context.Context, id int64) bool {
	resp := m.api.Request(ctx, fmt.Sprintf("/admin/delete-user/%d", id), &apiclient.RequestOptions{Method: http.MethodDelete})
	if failed(m.api, resp, "Failed to delete user") {
		return false
	}
	m.api.Notify("User deleted", domain.LevelSuccess)
	return true
}

func toggle(ctx context.Context, api Requester, path, fallback string) bool {
	resp := api.Request(ctx, path, &apiclient.RequestOptions{Method: http.MethodPut})
	if failed(api, resp, fallback) {
		return false
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := resp.Decode(&body); err != nil || body.Message == "" {
		body.Message = "Status updated"
	}
	api.Notify(body.Message, domain.LevelSuccess)
	return true
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func syncLabel(u domain.WorkforceUser) string {
	if u.LastSyncAt == nil {
		return "never"
	}
	return u.LastSyncAt.Local().Format("2006-01-02 15:04")
}
