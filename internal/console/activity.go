package console

import (
	"context"
	"net/http"

	"github.com/spec-kit/workforce-console/internal/apiclient"
	"github.com/spec-kit/workforce-console/internal/domain"
)

// ActivityManager is the super admin's feed of console actions.
type ActivityManager struct {
	api      Requester
	renderer Renderer
}

func NewActivityManager(api Requester, renderer Renderer) *ActivityManager {
	return &ActivityManager{api: api, renderer: renderer}
}

// List renders recent actions, newest first.
func (m *ActivityManager) List(ctx context.Context) []domain.ActivityEntry {
	resp := m.api.Request(ctx, "/superadmin/logs", nil)
	if failed(m.api, resp, "Failed to load activity logs") {
		return nil
	}
	var body struct {
		Logs []domain.ActivityEntry `json:"logs"`
	}
	if !decode(m.api, resp, &body) {
		return nil
	}
	if body.Logs == nil {
		body.Logs = []domain.ActivityEntry{}
	}

	table := Table{Title: "Activity", Columns: []string{"TIME", "ADMIN", "ROLE", "ACTION"}}
	for _, e := range body.Logs {
		table.Rows = append(table.Rows, []string{
			e.Timestamp.Local().Format("2006-01-02 15:04"), e.ActorName, e.Role, e.Action,
		})
	}
	m.renderer.RenderTable(table)
	return body.Logs
}

// Clear deletes every entry in the feed.
func (m *ActivityManager) Clear(ctx context.Context) bool {
	resp := m.api.Request(ctx, "/superadmin/logs", &apiclient.RequestOptions{Method: http.MethodDelete})
	if failed(m.api, resp, "Failed to delete activity logs") {
		return false
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := resp.Decode(&body); err != nil || body.Message == "" {
		body.Message = "Activity logs deleted"
	}
	m.api.Notify(body.Message, domain.LevelSuccess)
	return true
}
