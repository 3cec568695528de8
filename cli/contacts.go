// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for managing contacts
package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/query"
)

// AddContactCommand adds a new contact.
func (a *App) AddContactCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("add-contact")
	name := fs.String("name", "", "Contact name (required)")
	email := fs.String("email", "", "Email address (required)")
	title := fs.String("title", "", "Job title")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company ID or name (required)")
	owner := fs.String("owner", "", "Assigned user ID or name (default: current user)")
	city := fs.String("city", "", "City")
	state := fs.String("state", "", "State")
	country := fs.String("country", crm.DefaultCountry, "Country")
	territory := fs.String("territory", "", "Sales territory")
	status := fs.String("status", string(models.ContactActive), "Status (active, inactive, do_not_contact)")
	notes := fs.String("notes", "", "Notes about the contact")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st := a.Svc.State()
	contact := models.Contact{
		Name:      *name,
		Email:     *email,
		Title:     *title,
		Phone:     *phone,
		Location:  models.Location{City: *city, State: *state, Country: *country},
		Territory: *territory,
		Status:    models.ContactStatus(*status),
		Notes:     *notes,
	}
	if *company != "" {
		c, ok := crm.FindCompany(st, *company)
		if !ok {
			return fmt.Errorf("company not found: %s", *company)
		}
		contact.CompanyID = c.ID
	}
	ownerID, err := a.resolveOwner(*owner)
	if err != nil {
		return err
	}
	contact.AssignedUserID = ownerID

	contact, err = a.Svc.AddContact(ctx, contact)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	st = a.Svc.State()
	a.printf("✓ Contact created: %s (ID: %s)\n", contact.Name, contact.ID)
	a.printf("  Email: %s\n", contact.Email)
	a.printf("  Company: %s\n", query.CompanyName(st, contact.CompanyID))
	a.printf("  Owner: %s\n", query.OwnerName(st, contact.AssignedUserID))
	return nil
}

// ListContactsCommand lists contacts.
func (a *App) ListContactsCommand(_ context.Context, args []string) error {
	fs := a.flagSet("list-contacts")
	search := fs.String("query", "", "Search by name, email or title")
	status := fs.String("status", query.All, "Filter by status")
	where := fs.String("where", "", `Filter expression, e.g. 'companyId == "c1"'`)
	limit := fs.Int("limit", 50, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st := a.Svc.State()
	contacts := query.Contacts(st.Contacts, query.ContactFilter{Search: *search, Status: *status})
	contacts, err := selectWhere(*where, contacts)
	if err != nil {
		return err
	}
	contacts = limitTo(contacts, *limit)

	if len(contacts) == 0 {
		a.println("No contacts found")
		return nil
	}

	w := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tTITLE\tEMAIL\tCOMPANY\tOWNER\tSTATUS\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t-----\t-------\t-----\t------\t--")
	for _, c := range contacts {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Name, dash(c.Title), c.Email, query.CompanyName(st, c.CompanyID),
			query.OwnerName(st, c.AssignedUserID), c.Status, c.ID)
	}
	_ = w.Flush()

	a.printf("\nTotal: %d contact(s)\n", len(contacts))
	return nil
}

// UpdateContactCommand updates an existing contact.
func (a *App) UpdateContactCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("update-contact")
	name := fs.String("name", "", "Contact name")
	email := fs.String("email", "", "Email address")
	title := fs.String("title", "", "Job title")
	phone := fs.String("phone", "", "Phone number")
	company := fs.String("company", "", "Company ID or name")
	owner := fs.String("owner", "", "Assigned user ID or name")
	city := fs.String("city", "", "City")
	state := fs.String("state", "", "State")
	country := fs.String("country", "", "Country")
	territory := fs.String("territory", "", "Sales territory")
	status := fs.String("status", "", "Status")
	notes := fs.String("notes", "", "Notes about the contact")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireID(fs, "contact")
	if err != nil {
		return err
	}
	set := visited(fs)

	var companyID, ownerID string
	if set["company"] {
		c, ok := crm.FindCompany(a.Svc.State(), *company)
		if !ok {
			return fmt.Errorf("company not found: %s", *company)
		}
		companyID = c.ID
	}
	if set["owner"] {
		if ownerID, err = a.resolveOwner(*owner); err != nil {
			return err
		}
	}

	updated, err := a.Svc.UpdateContact(ctx, id, func(c *models.Contact) {
		setString(set, "name", &c.Name, *name)
		setString(set, "email", &c.Email, *email)
		setString(set, "title", &c.Title, *title)
		setString(set, "phone", &c.Phone, *phone)
		setString(set, "company", &c.CompanyID, companyID)
		setString(set, "owner", &c.AssignedUserID, ownerID)
		setString(set, "city", &c.Location.City, *city)
		setString(set, "state", &c.Location.State, *state)
		setString(set, "country", &c.Location.Country, *country)
		setString(set, "territory", &c.Territory, *territory)
		setString(set, "status", &c.Status, models.ContactStatus(*status))
		setString(set, "notes", &c.Notes, *notes)
	})
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	a.printf("✓ Contact updated: %s (ID: %s)\n", updated.Name, updated.ID)
	return nil
}

// DeleteContactCommand deletes a contact. Activities that reference it keep
// the dangling reference.
func (a *App) DeleteContactCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("delete-contact")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireID(fs, "contact")
	if err != nil {
		return err
	}

	if err := a.Svc.DeleteContact(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	a.printf("✓ Contact deleted: %s\n", id)
	return nil
}

// resolveOwner maps a user reference to a key, defaulting to the current user.
func (a *App) resolveOwner(ref string) (string, error) {
	if ref == "" {
		return a.Svc.CurrentUserID(), nil
	}
	u, ok := crm.FindUser(a.Svc.State(), ref)
	if !ok {
		return "", fmt.Errorf("user not found: %s", ref)
	}
	return u.ID, nil
}

func setString[T ~string](set map[string]bool, name string, dst *T, v T) {
	if set[name] {
		*dst = v
	}
}

func selectWhere[T any](where string, items []T) ([]T, error) {
	if where == "" {
		return items, nil
	}
	e, err := query.Compile(where)
	if err != nil {
		return nil, err
	}
	return query.Select(e, items)
}

func limitTo[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
