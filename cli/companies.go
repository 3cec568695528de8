// ABOUTME: Company CLI commands
// ABOUTME: Human-friendly commands for managing companies
package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/query"
	"github.com/harperreed/energycrm/viz"
)

// AddCompanyCommand adds a new company.
func (a *App) AddCompanyCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("add-company")
	name := fs.String("name", "", "Company name (required)")
	typ := fs.String("type", string(models.CompanyUtility), "Type (utility, developer, epc, manufacturer, consultant, government)")
	segment := fs.String("segment", string(models.SegmentSolar), "Industry segment (solar, wind, oil_gas, storage, grid, efficiency)")
	city := fs.String("city", "", "City (required)")
	state := fs.String("state", "", "State (required)")
	country := fs.String("country", crm.DefaultCountry, "Country")
	territory := fs.String("territory", "", "Sales territory")
	size := fs.String("size", string(models.SizeMedium), "Size (small, medium, large, enterprise)")
	revenue := fs.String("revenue", "", "Annual revenue in dollars")
	status := fs.String("status", string(models.RelationshipProspect), "Relationship status (prospect, active, inactive, competitor)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rev, err := parseFloatPtr(*revenue)
	if err != nil {
		return err
	}

	company, err := a.Svc.AddCompany(ctx, models.Company{
		Name:               *name,
		Type:               models.CompanyType(*typ),
		IndustrySegment:    models.IndustrySegment(*segment),
		Location:           models.Location{City: *city, State: *state, Country: *country},
		Territory:          *territory,
		Size:               models.CompanySize(*size),
		Revenue:            rev,
		RelationshipStatus: models.RelationshipStatus(*status),
	})
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	a.printf("✓ Company created: %s (ID: %s)\n", company.Name, company.ID)
	a.printf("  Location: %s, %s\n", company.Location.City, company.Location.State)
	a.printf("  Type: %s / %s\n", company.Type, company.IndustrySegment)
	return nil
}

// ListCompaniesCommand lists companies by revenue, highest first.
func (a *App) ListCompaniesCommand(_ context.Context, args []string) error {
	fs := a.flagSet("list-companies")
	search := fs.String("query", "", "Search by name")
	typ := fs.String("type", query.All, "Filter by type")
	segment := fs.String("segment", query.All, "Filter by industry segment")
	status := fs.String("status", query.All, "Filter by relationship status")
	where := fs.String("where", "", "Filter expression, e.g. 'revenue > 1e9'")
	limit := fs.Int("limit", 50, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st := a.Svc.State()
	companies := query.Companies(st.Companies, query.CompanyFilter{Search: *search, Type: *typ, Segment: *segment, Status: *status})
	companies, err := selectWhere(*where, companies)
	if err != nil {
		return err
	}
	stats := query.ComputeCompanyStats(companies)
	companies = limitTo(companies, *limit)

	if len(companies) == 0 {
		a.println("No companies found")
		return nil
	}

	w := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tTYPE\tSEGMENT\tLOCATION\tREVENUE\tDEALS\tSTATUS\tID")
	_, _ = fmt.Fprintln(w, "----\t----\t-------\t--------\t-------\t-----\t------\t--")
	for _, c := range companies {
		revenue := "N/A"
		if c.Revenue != nil {
			revenue = viz.Money(*c.Revenue)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s, %s\t%s\t%s\t%s\t%s\n",
			c.Name, c.Type, c.IndustrySegment, c.Location.City, c.Location.State,
			revenue, viz.Money(query.CompanyDealValue(st, c.ID)), c.RelationshipStatus, c.ID)
	}
	_ = w.Flush()

	a.printf("\nTotal: %d company(ies), %d active, revenue %s (avg %s)\n",
		stats.Count, stats.ActiveCount, viz.Money(stats.TotalRevenue), viz.Money(stats.AverageRevenue))
	return nil
}

// UpdateCompanyCommand updates an existing company.
func (a *App) UpdateCompanyCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("update-company")
	name := fs.String("name", "", "Company name")
	typ := fs.String("type", "", "Type")
	segment := fs.String("segment", "", "Industry segment")
	city := fs.String("city", "", "City")
	state := fs.String("state", "", "State")
	country := fs.String("country", "", "Country")
	territory := fs.String("territory", "", "Sales territory")
	size := fs.String("size", "", "Size")
	revenue := fs.String("revenue", "", "Annual revenue in dollars (empty clears)")
	status := fs.String("status", "", "Relationship status")
	primary := fs.String("primary-contact", "", "Primary contact ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireID(fs, "company")
	if err != nil {
		return err
	}
	set := visited(fs)
	rev, err := parseFloatPtr(*revenue)
	if err != nil {
		return err
	}

	updated, err := a.Svc.UpdateCompany(ctx, id, func(c *models.Company) {
		setString(set, "name", &c.Name, *name)
		setString(set, "type", &c.Type, models.CompanyType(*typ))
		setString(set, "segment", &c.IndustrySegment, models.IndustrySegment(*segment))
		setString(set, "city", &c.Location.City, *city)
		setString(set, "state", &c.Location.State, *state)
		setString(set, "country", &c.Location.Country, *country)
		setString(set, "territory", &c.Territory, *territory)
		setString(set, "size", &c.Size, models.CompanySize(*size))
		setString(set, "status", &c.RelationshipStatus, models.RelationshipStatus(*status))
		setString(set, "primary-contact", &c.PrimaryContactID, *primary)
		if set["revenue"] {
			c.Revenue = rev
		}
	})
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}

	a.printf("✓ Company updated: %s (ID: %s)\n", updated.Name, updated.ID)
	return nil
}

// DeleteCompanyCommand deletes a company. Its contacts and deals remain and
// show "Unknown Company" afterwards.
func (a *App) DeleteCompanyCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("delete-company")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireID(fs, "company")
	if err != nil {
		return err
	}

	st := a.Svc.State()
	contacts, deals := len(query.CompanyContacts(st, id)), len(query.CompanyDeals(st, id))
	if err := a.Svc.DeleteCompany(ctx, id); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}
	a.printf("✓ Company deleted: %s\n", id)
	if contacts+deals > 0 {
		a.printf("  %d contact(s) and %d deal(s) still reference it\n", contacts, deals)
	}
	return nil
}
