// ABOUTME: TUI view for follow-up tracking
// ABOUTME: Lists activity follow-ups that are overdue or due within the window
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/query"
)

// followupWindow is how far ahead the follow-ups tab looks.
const followupWindow = 7 * 24 * time.Hour

func (m Model) followupListing() listing {
	st := m.svc.State()
	l := listing{columns: []table.Column{
		{Title: "Status", Width: 6},
		{Title: "Due", Width: 11},
		{Title: "Days", Width: 6},
		{Title: "Subject", Width: 30},
		{Title: "Deal", Width: 28},
	}}

	for _, f := range crm.Followups(st, m.svc.Now(), followupWindow) {
		if !strings.Contains(strings.ToLower(f.Activity.Subject), strings.ToLower(m.searchQuery)) {
			continue
		}
		indicator := "🟢"
		if f.Overdue {
			indicator = "🔴"
		} else if f.DaysUntil <= 1 {
			indicator = "🟡"
		}

		deal := ""
		if f.Activity.DealID != "" {
			deal = query.DealName(st, f.Activity.DealID)
		}

		l.rows = append(l.rows, table.Row{
			indicator,
			f.Due.Format("2006-01-02"),
			fmt.Sprintf("%d", f.DaysUntil),
			f.Activity.Subject,
			deal,
		})
		l.ids = append(l.ids, f.Activity.ID)
	}
	return l
}
