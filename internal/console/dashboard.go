package console

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spec-kit/workforce-console/internal/domain"
)

// DashboardManager shows the admin's headline figures.
type DashboardManager struct {
	api      Requester
	renderer Renderer
}

func NewDashboardManager(api Requester, renderer Renderer) *DashboardManager {
	return &DashboardManager{api: api, renderer: renderer}
}

// Load fetches and renders the stats. It returns nil when nothing could be shown.
func (m *DashboardManager) Load(ctx context.Context) *domain.DashboardStats {
	resp := m.api.Request(ctx, "/admin/dashboard-stats", nil)
	if failed(m.api, resp, "Failed to load dashboard") {
		return nil
	}
	var body struct {
		Stats domain.DashboardStats `json:"stats"`
	}
	if !decode(m.api, resp, &body) {
		return nil
	}

	s := body.Stats
	cards := []Card{
		{Label: "Total users", Value: strconv.Itoa(s.TotalUsers)},
		{Label: "Active users", Value: strconv.Itoa(s.ActiveUsers)},
		{Label: "Users with sync", Value: strconv.Itoa(s.UsersWithSync)},
		{Label: "Sync rate", Value: fmt.Sprintf("%.2f%%", s.SyncRate)},
	}
	if s.RemainingSlots != nil {
		cards = append(cards, Card{Label: "Remaining slots", Value: strconv.Itoa(*s.RemainingSlots)})
	}
	m.renderer.RenderCards(cards)
	return &s
}
