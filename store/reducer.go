// ABOUTME: Pure transition function for the CRM store
// ABOUTME: Computes a new State from the previous one and an Action without mutating either
package store

import (
	"slices"
)

// Apply returns the state that results from applying action to state. It
// performs no I/O and never mutates state: changed collections are new
// slices, untouched ones are shared. Unknown actions return state as is.
func Apply(state State, action Action) State {
	next, _ := apply(state, action)
	return next
}

// apply also reports whether an update or delete matched an existing key.
// Every other action always matches.
func apply(s State, action Action) (State, bool) {
	ok := true

	switch a := action.(type) {
	case SetCurrentUser:
		u := a.User
		s.CurrentUser = &u

	case AddUser:
		s.Users = appendRecord(s.Users, a.User)
	case UpdateUser:
		s.Users, ok = replaceRecord(s.Users, a.User)
	case DeleteUser:
		s.Users, ok = removeRecord(s.Users, a.ID)

	case AddCompany:
		s.Companies = appendRecord(s.Companies, a.Company)
	case UpdateCompany:
		s.Companies, ok = replaceRecord(s.Companies, a.Company)
	case DeleteCompany:
		s.Companies, ok = removeRecord(s.Companies, a.ID)

	case AddContact:
		s.Contacts = appendRecord(s.Contacts, a.Contact)
	case UpdateContact:
		s.Contacts, ok = replaceRecord(s.Contacts, a.Contact)
	case DeleteContact:
		s.Contacts, ok = removeRecord(s.Contacts, a.ID)

	case AddDeal:
		s.Deals = appendRecord(s.Deals, a.Deal)
	case UpdateDeal:
		s.Deals, ok = replaceRecord(s.Deals, a.Deal)
	case DeleteDeal:
		s.Deals, ok = removeRecord(s.Deals, a.ID)

	case AddActivity:
		s.Activities = appendRecord(s.Activities, a.Activity)
	case UpdateActivity:
		s.Activities, ok = replaceRecord(s.Activities, a.Activity)
	case DeleteActivity:
		s.Activities, ok = removeRecord(s.Activities, a.ID)

	case SetLoading:
		s.Loading = a.Loading
	case SetError:
		s.Error = a.Message

	case LoadData:
		s = merge(s, a.Data)
	}

	return s, ok
}

func merge(s State, p Partial) State {
	if p.Users != nil {
		s.Users = *p.Users
	}
	if p.Companies != nil {
		s.Companies = *p.Companies
	}
	if p.Contacts != nil {
		s.Contacts = *p.Contacts
	}
	if p.Deals != nil {
		s.Deals = *p.Deals
	}
	if p.Activities != nil {
		s.Activities = *p.Activities
	}
	if p.CurrentUser != nil {
		u := *p.CurrentUser
		s.CurrentUser = &u
	}
	if p.Loading != nil {
		s.Loading = *p.Loading
	}
	if p.Error != nil {
		s.Error = *p.Error
	}
	return s
}

// appendRecord clips before appending so the previous snapshot's backing
// array is never written to.
func appendRecord[T any](items []T, item T) []T {
	return append(slices.Clip(items), item)
}

func replaceRecord[T record](items []T, item T) ([]T, bool) {
	i := indexOf(items, item.RecordID())
	if i < 0 {
		return items, false
	}
	out := slices.Clone(items)
	out[i] = item
	return out, true
}

// removeRecord drops every element carrying id. Keys are unique per
// collection, so that is at most one in practice.
func removeRecord[T record](items []T, id string) ([]T, bool) {
	if indexOf(items, id) < 0 {
		return items, false
	}
	out := make([]T, 0, len(items)-1)
	for _, item := range items {
		if item.RecordID() != id {
			out = append(out, item)
		}
	}
	return out, true
}
