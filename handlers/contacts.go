// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact, find_contacts, update_contact and delete_contact tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/query"
)

type ContactHandlers struct {
	svc *crm.Service
}

func NewContactHandlers(svc *crm.Service) *ContactHandlers {
	return &ContactHandlers{svc: svc}
}

type AddContactInput struct {
	Name        string `json:"name" jsonschema:"Contact name (required)"`
	Email       string `json:"email" jsonschema:"Contact email address (required)"`
	Title       string `json:"title,omitempty" jsonschema:"Job title"`
	Phone       string `json:"phone,omitempty" jsonschema:"Contact phone number"`
	CompanyName string `json:"company,omitempty" jsonschema:"Company ID or name (required, must exist)"`
	City        string `json:"city,omitempty" jsonschema:"City"`
	State       string `json:"state,omitempty" jsonschema:"State"`
	Territory   string `json:"territory,omitempty" jsonschema:"Sales territory"`
	Owner       string `json:"owner,omitempty" jsonschema:"Assigned user ID or name (default: current user)"`
	Notes       string `json:"notes,omitempty" jsonschema:"Additional notes about the contact"`
}

func (h *ContactHandlers) AddContact(ctx context.Context, _ *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	st := h.svc.State()
	contact := models.Contact{
		Name:      input.Name,
		Email:     input.Email,
		Title:     input.Title,
		Phone:     input.Phone,
		Location:  models.Location{City: input.City, State: input.State},
		Territory: input.Territory,
		Notes:     input.Notes,
	}
	if input.CompanyName != "" {
		company, ok := crm.FindCompany(st, input.CompanyName)
		if !ok {
			return nil, ContactOutput{}, fmt.Errorf("company not found: %s", input.CompanyName)
		}
		contact.CompanyID = company.ID
	}
	owner, err := resolveUser(h.svc, input.Owner)
	if err != nil {
		return nil, ContactOutput{}, err
	}
	contact.AssignedUserID = owner

	contact, err = h.svc.AddContact(ctx, contact)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return nil, contactToOutput(h.svc.State(), contact), nil
}

type FindContactsInput struct {
	Query     string `json:"query,omitempty" jsonschema:"Search query (searches name, email and title)"`
	Status    string `json:"status,omitempty" jsonschema:"Filter by status: active, inactive, do_not_contact"`
	CompanyID string `json:"company_id,omitempty" jsonschema:"Filter by company ID"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *ContactHandlers) FindContacts(_ context.Context, _ *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	st := h.svc.State()
	contacts := query.Contacts(st.Contacts, query.ContactFilter{Search: input.Query, Status: input.Status})
	if input.CompanyID != "" {
		contacts = filter(contacts, func(c models.Contact) bool { return c.CompanyID == input.CompanyID })
	}
	contacts = take(contacts, limitOrDefault(input.Limit))

	return nil, FindContactsOutput{
		Contacts: mapSlice(contacts, func(c models.Contact) ContactOutput { return contactToOutput(st, c) }),
	}, nil
}

type UpdateContactInput struct {
	ID        string `json:"id" jsonschema:"Contact ID (required)"`
	Name      string `json:"name,omitempty" jsonschema:"Updated contact name"`
	Email     string `json:"email,omitempty" jsonschema:"Updated email address"`
	Title     string `json:"title,omitempty" jsonschema:"Updated job title"`
	Phone     string `json:"phone,omitempty" jsonschema:"Updated phone number"`
	Status    string `json:"status,omitempty" jsonschema:"Updated status"`
	Territory string `json:"territory,omitempty" jsonschema:"Updated territory"`
	Notes     string `json:"notes,omitempty" jsonschema:"Updated notes"`
}

func (h *ContactHandlers) UpdateContact(ctx context.Context, _ *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ID == "" {
		return nil, ContactOutput{}, fmt.Errorf("id is required")
	}

	contact, err := h.svc.UpdateContact(ctx, input.ID, func(c *models.Contact) {
		overwrite(&c.Name, input.Name)
		overwrite(&c.Email, input.Email)
		overwrite(&c.Title, input.Title)
		overwrite(&c.Phone, input.Phone)
		overwrite(&c.Status, models.ContactStatus(input.Status))
		overwrite(&c.Territory, input.Territory)
		overwrite(&c.Notes, input.Notes)
	})
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update contact: %w", err)
	}
	return nil, contactToOutput(h.svc.State(), contact), nil
}

type DeleteInput struct {
	ID string `json:"id" jsonschema:"Record ID (required)"`
}

func (h *ContactHandlers) DeleteContact(ctx context.Context, _ *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID == "" {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}
	if err := h.svc.DeleteContact(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil, DeleteOutput{Success: true, Message: fmt.Sprintf("Deleted contact %s", input.ID)}, nil
}

// overwrite sets *dst when v is non-empty; empty tool arguments mean unchanged.
func overwrite[T ~string](dst *T, v T) {
	if v != "" {
		*dst = v
	}
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := []T{}
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// resolveUser maps a user reference to its key, defaulting to the current user.
func resolveUser(svc *crm.Service, ref string) (string, error) {
	if ref == "" {
		return svc.CurrentUserID(), nil
	}
	u, ok := crm.FindUser(svc.State(), ref)
	if !ok {
		return "", fmt.Errorf("user not found: %s", ref)
	}
	return u.ID, nil
}
