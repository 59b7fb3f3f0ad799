package ui

import (
	"context"
	"io"
	"sort"
	"time"

	"inbound-wms-api-server/internal/models"

	"github.com/a-h/templ"
)

// ActivityEntry là một sự kiện đổi trạng thái kèm yêu cầu mà nó thuộc về.
type ActivityEntry struct {
	RequestID string
	PONumber  string
	models.StatusEvent
}

// BuildActivity gộp lịch sử của mọi yêu cầu, mới nhất trước.
func BuildActivity(requests []models.InboundRequest) []ActivityEntry {
	var entries []ActivityEntry
	for _, r := range requests {
		for _, ev := range r.History {
			entries = append(entries, ActivityEntry{RequestID: r.ID, PONumber: r.PONumber, StatusEvent: ev})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ChangedAt.After(entries[j].ChangedAt)
	})
	return entries
}

// ActivityPage hiển thị nhật ký thay đổi trạng thái.
func ActivityPage(p Page, entries []ActivityEntry) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h1>`)
		h.text(p.T("activity.heading"))
		h.raw(`</h1>`)
		if len(entries) == 0 {
			h.raw(`<p class="empty">`)
			h.text(p.T("activity.empty"))
			h.raw(`</p>`)
			return h.err
		}
		h.raw(`<table class="activity"><thead><tr>`)
		for _, key := range []string{"field.changedAt", "field.id", "field.poNumber", "field.status", "field.reason"} {
			h.raw(`<th>`)
			h.text(p.T(key))
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, e := range entries {
			h.rawf(`<tr><td><time datetime="%s">`, e.ChangedAt.UTC().Format(time.RFC3339))
			h.text(e.ChangedAt.Format("2006-01-02 15:04"))
			h.raw(`</time></td><td>`)
			h.text(e.RequestID)
			h.raw(`</td><td>`)
			h.text(e.PONumber)
			h.raw(`</td><td>`)
			h.text(statusLabel(p, e.Status))
			h.raw(`</td><td>`)
			h.text(e.Reason)
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)
		return h.err
	})
	return Layout(p, p.T("activity.heading"), content)
}
