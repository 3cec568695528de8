// ABOUTME: Activity logging plus update and delete
// ABOUTME: Also lists follow-ups that are due, overdue or upcoming
package crm

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/store"
)

// AddActivity logs an activity. A zero Date becomes now.
func (s *Service) AddActivity(ctx context.Context, a models.Activity) (models.Activity, error) {
	now := s.now()
	a.Type = orDefault(a.Type, models.ActivityPhoneCall)
	a.Outcome = orDefault(a.Outcome, models.OutcomeNeutral)
	if a.Date.IsZero() {
		a.Date = now
	}

	var errs fieldErrors
	errs.require("user", a.UserID)
	if err := validateActivity(a, errs); err != nil {
		return models.Activity{}, err
	}

	a.ID = s.newID()
	a.CreatedDate = now

	if err := s.store.Dispatch(ctx, store.AddActivity{Activity: a}); err != nil {
		return models.Activity{}, err
	}
	return a, nil
}

func (s *Service) UpdateActivity(ctx context.Context, id string, mutate func(*models.Activity)) (models.Activity, error) {
	return update(ctx, s, id, store.State.FindActivity, mutate,
		func(a models.Activity) error { return validateActivity(a, nil) },
		func(a models.Activity) store.Action { return store.UpdateActivity{Activity: a} })
}

func validateActivity(a models.Activity, errs fieldErrors) error {
	errs.require("subject", a.Subject)
	errs.require("description", a.Description)
	errs.check(a.Type.Valid(), "unknown activity type %q", a.Type)
	errs.check(a.Outcome == "" || a.Outcome.Valid(), "unknown outcome %q", a.Outcome)
	errs.check(a.Duration == nil || *a.Duration >= 0, "duration must not be negative")
	return errs.err()
}

func (s *Service) DeleteActivity(ctx context.Context, id string) error {
	return s.store.Dispatch(ctx, store.DeleteActivity{ID: id})
}

// Followup is an activity with a follow-up date, relative to a point in time.
type Followup struct {
	Activity models.Activity `json:"activity"`
	Due      time.Time       `json:"due"`
	// DaysUntil is negative when the follow-up is overdue.
	DaysUntil int  `json:"daysUntil"`
	Overdue   bool `json:"overdue"`
}

// Followups lists activities whose follow-up falls before now+within,
// earliest first. Overdue ones are always included.
func Followups(st store.State, now time.Time, within time.Duration) []Followup {
	out := []Followup{}
	horizon := now.Add(within)
	for _, a := range st.Activities {
		if a.FollowUpDate == nil || a.FollowUpDate.After(horizon) {
			continue
		}
		due := *a.FollowUpDate
		out = append(out, Followup{
			Activity:  a,
			Due:       due,
			DaysUntil: int(due.Sub(now).Hours() / 24),
			Overdue:   due.Before(now),
		})
	}
	slices.SortStableFunc(out, func(a, b Followup) int { return cmp.Compare(a.Due.UnixNano(), b.Due.UnixNano()) })
	return out
}
