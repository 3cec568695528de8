// ABOUTME: User switching and profile edits
// ABOUTME: Resolves users by key or case-insensitive name
package crm

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/store"
)

// FindUser matches a user by key first, then by case-insensitive name.
func FindUser(st store.State, ref string) (models.User, bool) {
	if u, ok := st.FindUser(ref); ok {
		return u, true
	}
	for _, u := range st.Users {
		if strings.EqualFold(u.Name, ref) {
			return u, true
		}
	}
	return models.User{}, false
}

// FindCompany matches a company by key first, then by case-insensitive name.
func FindCompany(st store.State, ref string) (models.Company, bool) {
	if c, ok := st.FindCompany(ref); ok {
		return c, true
	}
	for _, c := range st.Companies {
		if strings.EqualFold(c.Name, ref) {
			return c, true
		}
	}
	return models.Company{}, false
}

// SetCurrentUser switches the acting user. The reference must resolve.
func (s *Service) SetCurrentUser(ctx context.Context, ref string) (models.User, error) {
	u, ok := FindUser(s.store.State(), ref)
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", ref, store.ErrNotFound)
	}
	if err := s.store.Dispatch(ctx, store.SetCurrentUser{User: u}); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// UpdateProfile edits a user and, when it is the current user, refreshes the
// current user record too.
func (s *Service) UpdateProfile(ctx context.Context, id string, mutate func(*models.User)) (models.User, error) {
	u, err := update(ctx, s, id, store.State.FindUser, mutate, validateUser,
		func(u models.User) store.Action { return store.UpdateUser{User: u} })
	if err != nil {
		return models.User{}, err
	}
	if cur := s.store.State().CurrentUser; cur != nil && cur.ID == u.ID {
		if err := s.store.Dispatch(ctx, store.SetCurrentUser{User: u}); err != nil {
			return models.User{}, err
		}
	}
	return u, nil
}

func validateUser(u models.User) error {
	var errs fieldErrors
	errs.require("name", u.Name)
	errs.require("email", u.Email)
	errs.check(u.Role.Valid(), "unknown role %q", u.Role)
	return errs.err()
}

// CurrentUserID returns the acting user's key or "".
func (s *Service) CurrentUserID() string {
	if cur := s.store.State().CurrentUser; cur != nil {
		return cur.ID
	}
	return ""
}
