// ABOUTME: Contact create, update and delete operations
// ABOUTME: Name, email, company and owner are required on create
package crm

import (
	"context"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/store"
)

// AddContact assigns a key and dates, fills defaults and dispatches add_contact.
func (s *Service) AddContact(ctx context.Context, c models.Contact) (models.Contact, error) {
	var errs fieldErrors
	errs.require("name", c.Name)
	errs.require("email", c.Email)
	errs.require("company", c.CompanyID)
	errs.require("assigned user", c.AssignedUserID)
	c.Status = orDefault(c.Status, models.ContactActive)
	errs.check(c.Status.Valid(), "unknown contact status %q", c.Status)
	if err := errs.err(); err != nil {
		return models.Contact{}, err
	}

	now := s.now()
	c.ID = s.newID()
	c.Location.Country = orDefault(c.Location.Country, DefaultCountry)
	c.CreatedDate = now
	c.LastContactDate = &now

	if err := s.store.Dispatch(ctx, store.AddContact{Contact: c}); err != nil {
		return models.Contact{}, err
	}
	return c, nil
}

// UpdateContact applies mutate to the stored contact and dispatches the result.
func (s *Service) UpdateContact(ctx context.Context, id string, mutate func(*models.Contact)) (models.Contact, error) {
	return update(ctx, s, id, store.State.FindContact, mutate, validateContact,
		func(c models.Contact) store.Action { return store.UpdateContact{Contact: c} })
}

func validateContact(c models.Contact) error {
	var errs fieldErrors
	errs.require("name", c.Name)
	errs.require("email", c.Email)
	errs.check(c.Status.Valid(), "unknown contact status %q", c.Status)
	return errs.err()
}

func (s *Service) DeleteContact(ctx context.Context, id string) error {
	return s.store.Dispatch(ctx, store.DeleteContact{ID: id})
}
