// ABOUTME: Activity CLI commands
// ABOUTME: Log calls, meetings and site visits against contacts and deals
package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/query"
)

// LogActivityCommand records a new activity for the current user.
func (a *App) LogActivityCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("log-activity")
	typ := fs.String("type", string(models.ActivityPhoneCall), "Type (phone_call, email, meeting, site_visit, proposal_submission, technical_review, contract_discussion)")
	subject := fs.String("subject", "", "Subject (required)")
	description := fs.String("description", "", "Description (required)")
	contact := fs.String("contact", "", "Contact ID")
	deal := fs.String("deal", "", "Deal ID")
	user := fs.String("user", "", "User ID or name (default: current user)")
	date := fs.String("date", "", "When it happened (default: now)")
	duration := fs.Int("duration", 0, "Duration in minutes")
	outcome := fs.String("outcome", string(models.OutcomeNeutral), "Outcome (positive, neutral, negative)")
	nextSteps := fs.String("next-steps", "", "Next steps")
	followUp := fs.String("follow-up", "", "Follow-up date")
	if err := fs.Parse(args); err != nil {
		return err
	}
	set := visited(fs)

	act := models.Activity{
		Type:        models.ActivityType(*typ),
		Subject:     *subject,
		Description: *description,
		ContactID:   *contact,
		DealID:      *deal,
		Outcome:     models.Outcome(*outcome),
		NextSteps:   *nextSteps,
	}
	var err error
	if act.UserID, err = a.resolveOwner(*user); err != nil {
		return err
	}
	if *date != "" {
		if act.Date, err = parseDate(*date); err != nil {
			return err
		}
	}
	if *followUp != "" {
		due, err := parseDate(*followUp)
		if err != nil {
			return err
		}
		act.FollowUpDate = &due
	}
	if set["duration"] {
		act.Duration = duration
	}

	act, err = a.Svc.AddActivity(ctx, act)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	a.printf("✓ Activity logged: %s (ID: %s)\n", act.Subject, act.ID)
	a.printf("  Type: %s, outcome: %s\n", act.Type, act.Outcome)
	if act.FollowUpDate != nil {
		a.printf("  Follow up: %s\n", act.FollowUpDate.Format(time.DateOnly))
	}
	return nil
}

// ListActivitiesCommand lists activities, newest first.
func (a *App) ListActivitiesCommand(_ context.Context, args []string) error {
	fs := a.flagSet("list-activities")
	search := fs.String("query", "", "Search by subject or description")
	typ := fs.String("type", query.All, "Filter by type")
	outcome := fs.String("outcome", query.All, "Filter by outcome")
	where := fs.String("where", "", `Filter expression, e.g. 'dealId == "d1"'`)
	limit := fs.Int("limit", 50, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st := a.Svc.State()
	acts := query.Activities(st.Activities, query.ActivityFilter{Search: *search, Type: *typ, Outcome: *outcome})
	acts, err := selectWhere(*where, acts)
	if err != nil {
		return err
	}
	acts = limitTo(acts, *limit)

	if len(acts) == 0 {
		a.println("No activities found")
		return nil
	}

	w := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DATE\tTYPE\tSUBJECT\tCONTACT\tDEAL\tUSER\tOUTCOME\tID")
	_, _ = fmt.Fprintln(w, "----\t----\t-------\t-------\t----\t----\t-------\t--")
	for _, act := range acts {
		contact, deal := "-", "-"
		if act.ContactID != "" {
			contact = query.ContactName(st, act.ContactID)
		}
		if act.DealID != "" {
			deal = query.DealName(st, act.DealID)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			act.Date.Format("2006-01-02 15:04"), act.Type, act.Subject, contact, deal,
			query.ActivityUserName(st, act.UserID), dash(string(act.Outcome)), act.ID)
	}
	_ = w.Flush()

	a.printf("\nTotal: %d activity(ies)\n", len(acts))
	return nil
}

// UpdateActivityCommand edits an existing activity.
func (a *App) UpdateActivityCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("update-activity")
	typ := fs.String("type", "", "Type")
	subject := fs.String("subject", "", "Subject")
	description := fs.String("description", "", "Description")
	contact := fs.String("contact", "", "Contact ID")
	deal := fs.String("deal", "", "Deal ID")
	date := fs.String("date", "", "When it happened")
	duration := fs.String("duration", "", "Duration in minutes (empty clears)")
	outcome := fs.String("outcome", "", "Outcome")
	nextSteps := fs.String("next-steps", "", "Next steps")
	followUp := fs.String("follow-up", "", "Follow-up date (empty clears)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireID(fs, "activity")
	if err != nil {
		return err
	}
	set := visited(fs)

	var when time.Time
	if set["date"] {
		if when, err = parseDate(*date); err != nil {
			return err
		}
	}
	var minutes *int
	if *duration != "" {
		v, err := strconv.Atoi(*duration)
		if err != nil {
			return fmt.Errorf("invalid duration %q", *duration)
		}
		minutes = &v
	}
	var due *time.Time
	if *followUp != "" {
		t, err := parseDate(*followUp)
		if err != nil {
			return err
		}
		due = &t
	}

	updated, err := a.Svc.UpdateActivity(ctx, id, func(act *models.Activity) {
		setString(set, "type", &act.Type, models.ActivityType(*typ))
		setString(set, "subject", &act.Subject, *subject)
		setString(set, "description", &act.Description, *description)
		setString(set, "contact", &act.ContactID, *contact)
		setString(set, "deal", &act.DealID, *deal)
		setString(set, "outcome", &act.Outcome, models.Outcome(*outcome))
		setString(set, "next-steps", &act.NextSteps, *nextSteps)
		if set["date"] {
			act.Date = when
		}
		if set["duration"] {
			act.Duration = minutes
		}
		if set["follow-up"] {
			act.FollowUpDate = due
		}
	})
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}

	a.printf("✓ Activity updated: %s (ID: %s)\n", updated.Subject, updated.ID)
	return nil
}

// DeleteActivityCommand deletes an activity.
func (a *App) DeleteActivityCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("delete-activity")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireID(fs, "activity")
	if err != nil {
		return err
	}

	if err := a.Svc.DeleteActivity(ctx, id); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	a.printf("✓ Activity deleted: %s\n", id)
	return nil
}
