// ABOUTME: Named state transitions ("actions") accepted by the store
// ABOUTME: One add/update/delete per record kind plus current user, flags and load_data
package store

import (
	"github.com/harperreed/energycrm/models"
)

// Action is a data-carrying instruction describing one state transition.
type Action interface {
	Type() string
}

type SetCurrentUser struct{ User models.User }

type AddUser struct{ User models.User }
type UpdateUser struct{ User models.User }
type DeleteUser struct{ ID string }

type AddCompany struct{ Company models.Company }
type UpdateCompany struct{ Company models.Company }
type DeleteCompany struct{ ID string }

type AddContact struct{ Contact models.Contact }
type UpdateContact struct{ Contact models.Contact }
type DeleteContact struct{ ID string }

type AddDeal struct{ Deal models.Deal }
type UpdateDeal struct{ Deal models.Deal }
type DeleteDeal struct{ ID string }

type AddActivity struct{ Activity models.Activity }
type UpdateActivity struct{ Activity models.Activity }
type DeleteActivity struct{ ID string }

type SetLoading struct{ Loading bool }

// SetError sets the transient error message; an empty message clears it.
type SetError struct{ Message string }

type LoadData struct{ Data Partial }

func (SetCurrentUser) Type() string { return "set_current_user" }
func (AddUser) Type() string        { return "add_user" }
func (UpdateUser) Type() string     { return "update_user" }
func (DeleteUser) Type() string     { return "delete_user" }
func (AddCompany) Type() string     { return "add_company" }
func (UpdateCompany) Type() string  { return "update_company" }
func (DeleteCompany) Type() string  { return "delete_company" }
func (AddContact) Type() string     { return "add_contact" }
func (UpdateContact) Type() string  { return "update_contact" }
func (DeleteContact) Type() string  { return "delete_contact" }
func (AddDeal) Type() string        { return "add_deal" }
func (UpdateDeal) Type() string     { return "update_deal" }
func (DeleteDeal) Type() string     { return "delete_deal" }
func (AddActivity) Type() string    { return "add_activity" }
func (UpdateActivity) Type() string { return "update_activity" }
func (DeleteActivity) Type() string { return "delete_activity" }
func (SetLoading) Type() string     { return "set_loading" }
func (SetError) Type() string       { return "set_error" }
func (LoadData) Type() string       { return "load_data" }
