// ABOUTME: Company create, update and delete operations
// ABOUTME: Deleting a company leaves its contacts and deals in place
package crm

import (
	"context"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/store"
)

func (s *Service) AddCompany(ctx context.Context, c models.Company) (models.Company, error) {
	c.Type = orDefault(c.Type, models.CompanyUtility)
	c.IndustrySegment = orDefault(c.IndustrySegment, models.SegmentSolar)
	c.Size = orDefault(c.Size, models.SizeMedium)
	c.RelationshipStatus = orDefault(c.RelationshipStatus, models.RelationshipProspect)
	c.Location.Country = orDefault(c.Location.Country, DefaultCountry)
	if err := validateCompany(c); err != nil {
		return models.Company{}, err
	}

	now := s.now()
	c.ID = s.newID()
	c.CreatedDate = now
	c.LastContactDate = &now

	if err := s.store.Dispatch(ctx, store.AddCompany{Company: c}); err != nil {
		return models.Company{}, err
	}
	return c, nil
}

func (s *Service) UpdateCompany(ctx context.Context, id string, mutate func(*models.Company)) (models.Company, error) {
	return update(ctx, s, id, store.State.FindCompany, mutate, validateCompany,
		func(c models.Company) store.Action { return store.UpdateCompany{Company: c} })
}

func validateCompany(c models.Company) error {
	var errs fieldErrors
	errs.require("name", c.Name)
	errs.require("city", c.Location.City)
	errs.require("state", c.Location.State)
	errs.check(c.Type.Valid(), "unknown company type %q", c.Type)
	errs.check(c.IndustrySegment.Valid(), "unknown industry segment %q", c.IndustrySegment)
	errs.check(c.Size.Valid(), "unknown company size %q", c.Size)
	errs.check(c.RelationshipStatus.Valid(), "unknown relationship status %q", c.RelationshipStatus)
	errs.check(c.Revenue == nil || *c.Revenue >= 0, "revenue must not be negative")
	return errs.err()
}

func (s *Service) DeleteCompany(ctx context.Context, id string) error {
	return s.store.Dispatch(ctx, store.DeleteCompany{ID: id})
}
