package console

import (
	"context"
	"net/url"
	"strconv"

	"github.com/spec-kit/workforce-console/internal/apiclient"
)

// PerformanceEntry is one user's score on the leaderboard.
type PerformanceEntry struct {
	UserID int64
	Name   string
	Score  float64
}

// PerformanceManager ranks the admin's users.
type PerformanceManager struct {
	api      Requester
	renderer Renderer
}

func NewPerformanceManager(api Requester, renderer Renderer) *PerformanceManager {
	return &PerformanceManager{api: api, renderer: renderer}
}

// Load renders the leaderboard for filter, best first unless ascending is set.
func (m *PerformanceManager) Load(ctx context.Context, filter string, ascending bool) []PerformanceEntry {
	q := url.Values{"sort": {"desc"}}
	if ascending {
		q.Set("sort", "asc")
	}
	setNonEmpty(q, "filter", filter)
	resp := m.api.Request(ctx, "/admin/performance", &apiclient.RequestOptions{Query: q})
	if failed(m.api, resp, "Failed to load performance") {
		return nil
	}
	// The chart payload is three parallel arrays.
	var body struct {
		Labels  []string  `json:"labels"`
		Values  []float64 `json:"values"`
		UserIDs []int64   `json:"user_ids"`
	}
	if !decode(m.api, resp, &body) {
		return nil
	}
	n := min(len(body.Labels), len(body.Values))
	entries := make([]PerformanceEntry, 0, n)
	table := Table{Title: "Performance", Columns: []string{"RANK", "USER", "SCORE"}}
	for i := 0; i < n; i++ {
		e := PerformanceEntry{Name: body.Labels[i], Score: body.Values[i]}
		if i < len(body.UserIDs) {
			e.UserID = body.UserIDs[i]
		}
		entries = append(entries, e)
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(i + 1), e.Name, strconv.FormatFloat(e.Score, 'f', -1, 64),
		})
	}
	m.renderer.RenderTable(table)
	return entries
}
