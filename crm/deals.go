// ABOUTME: Deal create, update and delete operations
// ABOUTME: Probability is clamped to 0-100 before it reaches the store
package crm

import (
	"context"
	"time"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/store"
)

// DefaultProbability is the form default for a new deal's win probability.
const DefaultProbability = 50

// AddDeal creates a deal. Probability is clamped to 0-100 and a zero
// CloseDate becomes today.
func (s *Service) AddDeal(ctx context.Context, d models.Deal) (models.Deal, error) {
	now := s.now()
	d.ProjectType = orDefault(d.ProjectType, models.ProjectSolarUtility)
	d.Stage = orDefault(d.Stage, models.StageLead)
	d.Location.Country = orDefault(d.Location.Country, DefaultCountry)
	d.Probability = models.ClampProbability(d.Probability)
	if d.CloseDate.IsZero() {
		y, m, day := now.Date()
		d.CloseDate = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	}

	var errs fieldErrors
	errs.require("assigned user", d.AssignedUserID)
	if err := validateDeal(d, errs); err != nil {
		return models.Deal{}, err
	}

	d.ID = s.newID()
	d.CreatedDate = now
	d.LastActivityDate = &now

	if err := s.store.Dispatch(ctx, store.AddDeal{Deal: d}); err != nil {
		return models.Deal{}, err
	}
	return d, nil
}

func (s *Service) UpdateDeal(ctx context.Context, id string, mutate func(*models.Deal)) (models.Deal, error) {
	clamped := func(d *models.Deal) {
		if mutate != nil {
			mutate(d)
		}
		d.Probability = models.ClampProbability(d.Probability)
	}
	return update(ctx, s, id, store.State.FindDeal, clamped,
		func(d models.Deal) error { return validateDeal(d, nil) },
		func(d models.Deal) store.Action { return store.UpdateDeal{Deal: d} })
}

// MoveDeal changes only the stage of a deal.
func (s *Service) MoveDeal(ctx context.Context, id string, stage models.Stage) (models.Deal, error) {
	return s.UpdateDeal(ctx, id, func(d *models.Deal) { d.Stage = stage })
}

func validateDeal(d models.Deal, errs fieldErrors) error {
	errs.require("name", d.Name)
	errs.require("company", d.CompanyID)
	errs.require("contact", d.ContactID)
	errs.check(d.Value > 0, "value must be greater than zero")
	errs.check(d.Stage.Valid(), "unknown stage %q", d.Stage)
	errs.check(d.ProjectType.Valid(), "unknown project type %q", d.ProjectType)
	errs.check(d.Capacity == nil || *d.Capacity >= 0, "capacity must not be negative")
	return errs.err()
}

func (s *Service) DeleteDeal(ctx context.Context, id string) error {
	return s.store.Dispatch(ctx, store.DeleteDeal{ID: id})
}
