package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spec-kit/workforce-console/internal/apiclient"
	"github.com/spec-kit/workforce-console/internal/domain"
)

// Followup is a reminder a workforce user scheduled for a contact.
type Followup struct {
	ID          int64  `json:"id"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Message     string `json:"message"`
	UserName    string `json:"user_name"`
	DateTime    string `json:"date_time"`
	CreatedAt   string `json:"created_at"`
	Status      string `json:"status"`
}

// FollowupQuery narrows the follow-up listing. A zero UserID means every user.
type FollowupQuery struct {
	UserID  int64
	Filter  string
	Page    int
	PerPage int
}

func (q FollowupQuery) values() url.Values {
	v := url.Values{}
	if q.UserID > 0 {
		v.Set("user_id", strconv.FormatInt(q.UserID, 10))
	}
	setNonEmpty(v, "filter", q.Filter)
	setPositive(v, "page", q.Page)
	setPositive(v, "per_page", q.PerPage)
	return v
}

// FollowupManager lists and completes follow-up reminders.
type FollowupManager struct {
	api      Requester
	renderer Renderer
}

func NewFollowupManager(api Requester, renderer Renderer) *FollowupManager {
	return &FollowupManager{api: api, renderer: renderer}
}

// List renders follow-ups. The backend answers with either a paged object or a bare list.
func (m *FollowupManager) List(ctx context.Context, q FollowupQuery) []Followup {
	resp := m.api.Request(ctx, "/admin/followups", &apiclient.RequestOptions{Query: q.values()})
	if failed(m.api, resp, "Failed to load follow-ups") {
		return nil
	}
	var items []Followup
	if bytes.HasPrefix(bytes.TrimSpace(resp.Body), []byte("[")) {
		if err := json.Unmarshal(resp.Body, &items); err != nil {
			m.api.Notify("Unexpected response from server", domain.LevelError)
			return nil
		}
	} else {
		var body struct {
			Followups []Followup `json:"followups"`
		}
		if !decode(m.api, resp, &body) {
			return nil
		}
		items = body.Followups
	}
	if items == nil {
		items = []Followup{}
	}

	table := Table{Title: "Follow-ups", Columns: []string{"ID", "USER", "CONTACT", "PHONE", "DUE", "STATUS", "MESSAGE"}}
	for _, f := range items {
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(f.ID, 10), f.UserName, f.ContactName, f.Phone, f.DateTime, orDash(f.Status), f.Message,
		})
	}
	m.renderer.RenderTable(table)
	return items
}

// Complete marks a follow-up done.
func (m *FollowupManager) Complete(ctx context.Context, id int64) bool {
	resp := m.api.Request(ctx, fmt.Sprintf("/admin/followup/%d", id), &apiclient.RequestOptions{Method: http.MethodDelete})
	if failed(m.api, resp, "Failed to complete follow-up") {
		return false
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := resp.Decode(&body); err != nil || body.Message == "" {
		body.Message = "Follow-up completed"
	}
	m.api.Notify(body.Message, domain.LevelSuccess)
	return true
}
