package console

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spec-kit/workforce-console/internal/domain"
)

// AdminsManager is the super admin's view of admin accounts.
type AdminsManager struct {
	api      Requester
	renderer Renderer
}

func NewAdminsManager(api Requester, renderer Renderer) *AdminsManager {
	return &AdminsManager{api: api, renderer: renderer}
}

// List renders every admin account.
func (m *AdminsManager) List(ctx context.Context) []domain.AdminSummary {
	resp := m.api.Request(ctx, "/superadmin/admins", nil)
	if failed(m.api, resp, "Failed to load admins") {
		return nil
	}
	var body struct {
		Admins []domain.AdminSummary `json:"admins"`
	}
	if !decode(m.api, resp, &body) {
		return nil
	}
	if body.Admins == nil {
		body.Admins = []domain.AdminSummary{}
	}

	table := Table{Title: "Admins", Columns: []string{"ID", "NAME", "EMAIL", "USERS", "STATUS"}}
	for _, a := range body.Admins {
		users := strconv.Itoa(a.UserCount)
		if a.UserLimit != nil {
			users = fmt.Sprintf("%d/%d", a.UserCount, *a.UserLimit)
		}
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(a.ID, 10), a.Name, a.Email, users, activeLabel(a.IsActive),
		})
	}
	m.renderer.RenderTable(table)
	return body.Admins
}

// Toggle blocks or unblocks an admin.
func (m *AdminsManager) Toggle(ctx context.Context, id int64) bool {
	return toggle(ctx, m.api, fmt.Sprintf("/superadmin/admin/%d/status", id), "Failed to update admin")
}
