// ABOUTME: Resolves record references to display names
// ABOUTME: Dangling or empty references fall back to fixed placeholder text
package query

import "github.com/harperreed/energycrm/store"

const (
	UnknownCompany = "Unknown Company"
	UnknownContact = "Unknown Contact"
	UnknownDeal    = "Unknown Deal"
	UnknownUser    = "Unknown User"
	Unassigned     = "Unassigned"
)

func CompanyName(s store.State, id string) string {
	if c, ok := s.FindCompany(id); ok && c.Name != "" {
		return c.Name
	}
	return UnknownCompany
}

func ContactName(s store.State, id string) string {
	if c, ok := s.FindContact(id); ok && c.Name != "" {
		return c.Name
	}
	return UnknownContact
}

func DealName(s store.State, id string) string {
	if d, ok := s.FindDeal(id); ok && d.Name != "" {
		return d.Name
	}
	return UnknownDeal
}

// OwnerName resolves the assigned user of a contact or deal.
func OwnerName(s store.State, userID string) string {
	if u, ok := s.FindUser(userID); ok && u.Name != "" {
		return u.Name
	}
	return Unassigned
}

// ActivityUserName resolves the user who logged an activity.
func ActivityUserName(s store.State, userID string) string {
	if u, ok := s.FindUser(userID); ok && u.Name != "" {
		return u.Name
	}
	return UnknownUser
}
