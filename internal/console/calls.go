package console

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/spec-kit/workforce-console/internal/apiclient"
	"github.com/spec-kit/workforce-console/internal/domain"
)

// CallRecord is one call synced from a workforce device.
type CallRecord struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"user_id"`
	UserName        string `json:"user_name"`
	PhoneNumber     string `json:"phone_number"`
	FormattedNumber string `json:"formatted_number"`
	ContactName     string `json:"contact_name"`
	CallType        string `json:"call_type"`
	// Duration is in seconds.
	Duration  int    `json:"duration"`
	Timestamp string `json:"timestamp"`
}

// CallQuery narrows the call history. Filter is today, week or month.
type CallQuery struct {
	Filter   string
	Date     string
	Search   string
	CallType string
	Page     int
	PerPage  int
}

func (q CallQuery) values() url.Values {
	v := url.Values{}
	setNonEmpty(v, "filter", q.Filter)
	setNonEmpty(v, "date", q.Date)
	setNonEmpty(v, "search", q.Search)
	setNonEmpty(v, "call_type", q.CallType)
	setPositive(v, "page", q.Page)
	setPositive(v, "per_page", q.PerPage)
	return v
}

// CallHistoryManager lists calls across the admin's users.
type CallHistoryManager struct {
	api      Requester
	renderer Renderer
}

func NewCallHistoryManager(api Requester, renderer Renderer) *CallHistoryManager {
	return &CallHistoryManager{api: api, renderer: renderer}
}

// List renders one page of call history.
func (m *CallHistoryManager) List(ctx context.Context, q CallQuery) []CallRecord {
	switch q.Filter {
	case "", "today", "week", "month":
	default:
		m.api.Notify("Filter must be today, week or month", domain.LevelWarning)
		return nil
	}
	resp := m.api.Request(ctx, "/admin/all-call-history", &apiclient.RequestOptions{Query: q.values()})
	if failed(m.api, resp, "Failed to load call history") {
		return nil
	}
	var body struct {
		Calls []CallRecord `json:"call_history"`
	}
	if !decode(m.api, resp, &body) {
		return nil
	}
	if body.Calls == nil {
		body.Calls = []CallRecord{}
	}

	table := Table{Title: "Call history", Columns: []string{"ID", "USER", "CONTACT", "NUMBER", "TYPE", "DURATION", "TIME"}}
	for _, c := range body.Calls {
		number := c.FormattedNumber
		if number == "" {
			number = c.PhoneNumber
		}
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(c.ID, 10), c.UserName, orDash(c.ContactName), number, c.CallType,
			(time.Duration(c.Duration) * time.Second).String(), c.Timestamp,
		})
	}
	m.renderer.RenderTable(table)
	return body.Calls
}
