// ABOUTME: Canonical in-memory CRM snapshot and partial snapshots for hydration
// ABOUTME: Provides record lookups by key over a State value
package store

import (
	"github.com/harperreed/energycrm/models"
)

// State is one immutable snapshot of the CRM. Treat slices as read-only;
// Apply always builds new slices for the collections it changes.
type State struct {
	Users       []models.User
	Companies   []models.Company
	Contacts    []models.Contact
	Deals       []models.Deal
	Activities  []models.Activity
	CurrentUser *models.User
	Loading     bool
	Error       string
}

// Partial carries a subset of top-level State fields for load_data. Nil
// fields are left untouched by the merge.
type Partial struct {
	Users       *[]models.User     `json:"users,omitempty"`
	Companies   *[]models.Company  `json:"companies,omitempty"`
	Contacts    *[]models.Contact  `json:"contacts,omitempty"`
	Deals       *[]models.Deal     `json:"deals,omitempty"`
	Activities  *[]models.Activity `json:"activities,omitempty"`
	CurrentUser *models.User       `json:"currentUser,omitempty"`
	Loading     *bool              `json:"-"`
	Error       *string            `json:"-"`
}

// FullPartial returns a Partial that sets every persisted field of s.
func FullPartial(s State) Partial {
	return Partial{
		Users:       &s.Users,
		Companies:   &s.Companies,
		Contacts:    &s.Contacts,
		Deals:       &s.Deals,
		Activities:  &s.Activities,
		CurrentUser: s.CurrentUser,
	}
}

func (s State) FindUser(id string) (models.User, bool)         { return find(s.Users, id) }
func (s State) FindCompany(id string) (models.Company, bool)   { return find(s.Companies, id) }
func (s State) FindContact(id string) (models.Contact, bool)   { return find(s.Contacts, id) }
func (s State) FindDeal(id string) (models.Deal, bool)         { return find(s.Deals, id) }
func (s State) FindActivity(id string) (models.Activity, bool) { return find(s.Activities, id) }

type record interface {
	RecordID() string
}

func find[T record](items []T, id string) (T, bool) {
	for _, item := range items {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func indexOf[T record](items []T, id string) int {
	for i, item := range items {
		if item.RecordID() == id {
			return i
		}
	}
	return -1
}
