package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
)

// TextRenderer writes aligned plain-text views.
type TextRenderer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) RenderTable(t Table) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.Title != "" {
		fmt.Fprintf(r.w, "%s (%d)\n", t.Title, len(t.Rows))
	}
	if len(t.Rows) == 0 {
		fmt.Fprintln(r.w, "no rows")
		return
	}
	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

func (r *TextRenderer) RenderCards(cards []Card) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tw := tabwriter.NewWriter(r.w, 0, 4, 2, ' ', 0)
	for _, c := range cards {
		fmt.Fprintf(tw, "%s:\t%s\n", c.Label, c.Value)
	}
	_ = tw.Flush()
}
