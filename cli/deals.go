// ABOUTME: Deal CLI commands
// ABOUTME: Human-friendly commands for managing deals
package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/query"
	"github.com/harperreed/energycrm/viz"
)

// AddDealCommand adds a new deal.
func (a *App) AddDealCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("add-deal")
	name := fs.String("name", "", "Deal name (required)")
	company := fs.String("company", "", "Company ID or name (required)")
	contact := fs.String("contact", "", "Contact ID (required)")
	owner := fs.String("owner", "", "Assigned user ID or name (default: current user)")
	projectType := fs.String("project-type", string(models.ProjectSolarUtility), "Project type")
	capacity := fs.String("capacity", "", "Capacity in MW")
	value := fs.Float64("value", 0, "Deal value in dollars (required)")
	probability := fs.Int("probability", crm.DefaultProbability, "Win probability 0-100")
	stage := fs.String("stage", string(models.StageLead), "Stage")
	closeDate := fs.String("close-date", "", "Expected close date YYYY-MM-DD (default: today)")
	city := fs.String("city", "", "City")
	state := fs.String("state", "", "State")
	country := fs.String("country", crm.DefaultCountry, "Country")
	notes := fs.String("notes", "", "Notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cap, err := parseFloatPtr(*capacity)
	if err != nil {
		return err
	}
	deal := models.Deal{
		Name:        *name,
		ContactID:   *contact,
		ProjectType: models.ProjectType(*projectType),
		Capacity:    cap,
		Location:    models.Location{City: *city, State: *state, Country: *country},
		Value:       *value,
		Probability: *probability,
		Stage:       models.Stage(*stage),
		Notes:       *notes,
	}
	if *company != "" {
		c, ok := crm.FindCompany(a.Svc.State(), *company)
		if !ok {
			return fmt.Errorf("company not found: %s", *company)
		}
		deal.CompanyID = c.ID
	}
	if *closeDate != "" {
		if deal.CloseDate, err = parseDate(*closeDate); err != nil {
			return err
		}
	}
	if deal.AssignedUserID, err = a.resolveOwner(*owner); err != nil {
		return err
	}

	deal, err = a.Svc.AddDeal(ctx, deal)
	if err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}

	st := a.Svc.State()
	a.printf("✓ Deal created: %s (ID: %s)\n", deal.Name, deal.ID)
	a.printf("  Company: %s\n", query.CompanyName(st, deal.CompanyID))
	a.printf("  Value: %s (%d%%)\n", viz.Money(deal.Value), deal.Probability)
	a.printf("  Stage: %s\n", deal.Stage.Label())
	return nil
}

// ListDealsCommand lists deals by value, highest first.
func (a *App) ListDealsCommand(_ context.Context, args []string) error {
	fs := a.flagSet("list-deals")
	search := fs.String("query", "", "Search by name")
	stage := fs.String("stage", query.All, "Filter by stage")
	projectType := fs.String("project-type", query.All, "Filter by project type")
	where := fs.String("where", "", `Filter expression, e.g. 'stage == "lead" && value > 500000'`)
	limit := fs.Int("limit", 50, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st := a.Svc.State()
	deals := query.Deals(st.Deals, query.DealFilter{Search: *search, Stage: *stage, ProjectType: *projectType})
	deals, err := selectWhere(*where, deals)
	if err != nil {
		return err
	}
	stats := query.ComputeDealStats(deals)
	deals = limitTo(deals, *limit)

	if len(deals) == 0 {
		a.println("No deals found")
		return nil
	}

	w := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCOMPANY\tSTAGE\tPROGRESS\tVALUE\tPROB\tCLOSE\tOWNER\tID")
	_, _ = fmt.Fprintln(w, "----\t-------\t-----\t--------\t-----\t----\t-----\t-----\t--")
	for _, d := range deals {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d%%\t%s\t%d%%\t%s\t%s\t%s\n",
			d.Name, query.CompanyName(st, d.CompanyID), d.Stage.Label(), d.Stage.Progress(),
			viz.Money(d.Value), d.Probability, d.CloseDate.Format(time.DateOnly),
			query.OwnerName(st, d.AssignedUserID), d.ID)
	}
	_ = w.Flush()

	a.printf("\nTotal: %d deal(s), pipeline %s, avg %s, %d open, win rate %.0f%%\n",
		stats.Count, viz.Money(stats.PipelineValue), viz.Money(stats.AverageValue), stats.OpenCount, stats.WinRate)
	return nil
}

// UpdateDealCommand updates an existing deal.
func (a *App) UpdateDealCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("update-deal")
	name := fs.String("name", "", "Deal name")
	company := fs.String("company", "", "Company ID or name")
	contact := fs.String("contact", "", "Contact ID")
	owner := fs.String("owner", "", "Assigned user ID or name")
	projectType := fs.String("project-type", "", "Project type")
	capacity := fs.String("capacity", "", "Capacity in MW (empty clears)")
	value := fs.String("value", "", "Deal value in dollars")
	probability := fs.Int("probability", 0, "Win probability 0-100")
	stage := fs.String("stage", "", "Stage")
	closeDate := fs.String("close-date", "", "Expected close date YYYY-MM-DD")
	notes := fs.String("notes", "", "Notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireID(fs, "deal")
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
	cap, err := parseFloatPtr(*capacity)
	if err != nil {
		return err
	}
	var val float64
	if set["value"] {
		if val, err = strconv.ParseFloat(*value, 64); err != nil {
			return fmt.Errorf("invalid value %q", *value)
		}
	}
	var closeAt time.Time
	if set["close-date"] {
		if closeAt, err = parseDate(*closeDate); err != nil {
			return err
		}
	}

	updated, err := a.Svc.UpdateDeal(ctx, id, func(d *models.Deal) {
		setString(set, "name", &d.Name, *name)
		setString(set, "company", &d.CompanyID, companyID)
		setString(set, "contact", &d.ContactID, *contact)
		setString(set, "owner", &d.AssignedUserID, ownerID)
		setString(set, "project-type", &d.ProjectType, models.ProjectType(*projectType))
		setString(set, "stage", &d.Stage, models.Stage(*stage))
		setString(set, "notes", &d.Notes, *notes)
		if set["capacity"] {
			d.Capacity = cap
		}
		if set["value"] {
			d.Value = val
		}
		if set["probability"] {
			d.Probability = *probability
		}
		if set["close-date"] {
			d.CloseDate = closeAt
		}
	})
	if err != nil {
		return fmt.Errorf("failed to update deal: %w", err)
	}

	a.printf("✓ Deal updated: %s (ID: %s)\n", updated.Name, updated.ID)
	a.printf("  Stage: %s (%d%%)\n", updated.Stage.Label(), updated.Stage.Progress())
	return nil
}

// DeleteDealCommand deletes a deal.
func (a *App) DeleteDealCommand(ctx context.Context, args []string) error {
	fs := a.flagSet("delete-deal")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireID(fs, "deal")
	if err != nil {
		return err
	}

	if err := a.Svc.DeleteDeal(ctx, id); err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}
	a.printf("✓ Deal deleted: %s\n", id)
	return nil
}
