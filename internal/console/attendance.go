package console

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spec-kit/workforce-console/internal/apiclient"
	"github.com/spec-kit/workforce-console/internal/domain"
)

// AttendanceRecord is one check-in reported by a workforce device.
type AttendanceRecord struct {
	ID        int64    `json:"id"`
	UserID    int64    `json:"user_id"`
	UserName  string   `json:"user_name"`
	Status    string   `json:"status"`
	CheckIn   string   `json:"check_in"`
	CheckOut  string   `json:"check_out"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Synced    bool     `json:"synced"`
}

// AttendanceQuery narrows the attendance listing. Date is YYYY-MM-DD.
type AttendanceQuery struct {
	Date    string
	Page    int
	PerPage int
}

func (q AttendanceQuery) values() url.Values {
	v := url.Values{}
	setNonEmpty(v, "date", q.Date)
	setPositive(v, "page", q.Page)
	setPositive(v, "per_page", q.PerPage)
	return v
}

// AttendanceManager shows check-ins for the admin's users.
type AttendanceManager struct {
	api      Requester
	renderer Renderer
}

func NewAttendanceManager(api Requester, renderer Renderer) *AttendanceManager {
	return &AttendanceManager{api: api, renderer: renderer}
}

// List renders one page of attendance records.
func (m *AttendanceManager) List(ctx context.Context, q AttendanceQuery) []AttendanceRecord {
	if q.Date != "" {
		if _, err := time.Parse("2006-01-02", q.Date); err != nil {
			m.api.Notify("Date must be YYYY-MM-DD", domain.LevelWarning)
			return nil
		}
	}
	resp := m.api.Request(ctx, "/admin/attendance", &apiclient.RequestOptions{Query: q.values()})
	if failed(m.api, resp, "Failed to load attendance") {
		return nil
	}
	var body struct {
		Attendance []AttendanceRecord `json:"attendance"`
	}
	if !decode(m.api, resp, &body) {
		return nil
	}
	if body.Attendance == nil {
		body.Attendance = []AttendanceRecord{}
	}

	table := Table{Title: "Attendance", Columns: []string{"ID", "USER", "STATUS", "CHECK IN", "CHECK OUT", "LOCATION", "SYNCED"}}
	for _, a := range body.Attendance {
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(a.ID, 10), a.UserName, a.Status, orDash(a.CheckIn), orDash(a.CheckOut), location(a), yesNo(a.Synced),
		})
	}
	m.renderer.RenderTable(table)
	return body.Attendance
}

func location(a AttendanceRecord) string {
	if a.Address != "" {
		return a.Address
	}
	if a.Latitude != nil && a.Longitude != nil {
		return fmt.Sprintf("%.5f,%.5f", *a.Latitude, *a.Longitude)
	}
	return "-"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
