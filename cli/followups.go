// ABOUTME: Follow-up tracking CLI commands
// ABOUTME: Lists activity follow-ups that are overdue or coming up
package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/query"
)

// FollowupListCommand lists follow-ups due within --days, overdue first.
func (a *App) FollowupListCommand(_ context.Context, args []string) error {
	fs := a.flagSet("followups")
	days := fs.Int("days", 7, "Look ahead this many days")
	overdueOnly := fs.Bool("overdue-only", false, "Show only overdue follow-ups")
	mine := fs.Bool("mine", false, "Only follow-ups logged by the current user")
	limit := fs.Int("limit", 20, "Maximum number of follow-ups to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st := a.Svc.State()
	me := a.Svc.CurrentUserID()

	var filtered []crm.Followup
	for _, f := range crm.Followups(st, a.Svc.Now(), time.Duration(*days)*24*time.Hour) {
		if *overdueOnly && !f.Overdue {
			continue
		}
		if *mine && f.Activity.UserID != me {
			continue
		}
		filtered = append(filtered, f)
	}
	filtered = limitTo(filtered, *limit)

	if len(filtered) == 0 {
		a.println("No follow-ups due")
		return nil
	}

	w := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DUE\tIN\tSUBJECT\tCONTACT\tDEAL\tNEXT STEPS")
	_, _ = fmt.Fprintln(w, "---\t--\t-------\t-------\t----\t----------")

	for _, f := range filtered {
		indicator := "🟢"
		if f.Overdue {
			indicator = "🔴"
		} else if f.DaysUntil <= 1 {
			indicator = "🟡"
		}

		contact, deal := "-", "-"
		if f.Activity.ContactID != "" {
			contact = query.ContactName(st, f.Activity.ContactID)
		}
		if f.Activity.DealID != "" {
			deal = query.DealName(st, f.Activity.DealID)
		}
		_, _ = fmt.Fprintf(w, "%s %s\t%dd\t%s\t%s\t%s\t%s\n",
			indicator, f.Due.Format(time.DateOnly), f.DaysUntil, f.Activity.Subject,
			contact, deal, dash(f.Activity.NextSteps))
	}

	_ = w.Flush()
	return nil
}
