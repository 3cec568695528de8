package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/query"
	"github.com/harperreed/energycrm/viz"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("34")).
			Width(20)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	sectionStyle = lipgloss.NewStyle().Bold(true)
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("DETAIL VIEW"))
	s.WriteString("\n\n")

	// Entity details
	switch m.recordKind() {
	case EntityContacts:
		s.WriteString(m.renderContactDetail())
	case EntityCompanies:
		s.WriteString(m.renderCompanyDetail())
	case EntityDeals:
		s.WriteString(m.renderDealDetail())
	case EntityActivities:
		s.WriteString(m.renderActivityDetail())
	}

	s.WriteString("\n")
	if m.message != "" {
		s.WriteString(statusStyle.Render(m.message))
		s.WriteString("\n")
	}

	// Help
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func (m Model) renderContactDetail() string {
	st := m.svc.State()
	contact, ok := st.FindContact(m.selectedID)
	if !ok {
		return "Contact not found"
	}

	var s strings.Builder

	s.WriteString(m.renderField("Name", contact.Name))
	s.WriteString(m.renderField("Title", contact.Title))
	s.WriteString(m.renderField("Email", contact.Email))
	s.WriteString(m.renderField("Phone", contact.Phone))
	s.WriteString(m.renderField("Company", query.CompanyName(st, contact.CompanyID)))
	s.WriteString(m.renderField("Location", contact.Location.City+", "+contact.Location.State))
	s.WriteString(m.renderField("Owner", query.OwnerName(st, contact.AssignedUserID)))
	s.WriteString(m.renderField("Status", string(contact.Status)))
	if contact.LastContactDate != nil {
		s.WriteString(m.renderField("Last Contacted", contact.LastContactDate.Format("2006-01-02")))
	}
	s.WriteString(m.renderField("Notes", contact.Notes))

	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("ACTIVITIES"))
	s.WriteString("\n")
	for _, a := range st.Activities {
		if a.ContactID == contact.ID {
			s.WriteString(fmt.Sprintf("  • [%s] %s (%s)\n", a.Date.Format("2006-01-02"), a.Subject, a.Type))
		}
	}

	return s.String()
}

func (m Model) renderCompanyDetail() string {
	st := m.svc.State()
	company, ok := st.FindCompany(m.selectedID)
	if !ok {
		return "Company not found"
	}

	var s strings.Builder

	s.WriteString(m.renderField("Name", company.Name))
	s.WriteString(m.renderField("Type", string(company.Type)))
	s.WriteString(m.renderField("Segment", string(company.IndustrySegment)))
	s.WriteString(m.renderField("Size", string(company.Size)))
	s.WriteString(m.renderField("Location", company.Location.City+", "+company.Location.State))
	s.WriteString(m.renderField("Territory", company.Territory))
	if company.Revenue != nil {
		s.WriteString(m.renderField("Revenue", viz.Money(*company.Revenue)))
	}
	s.WriteString(m.renderField("Relationship", string(company.RelationshipStatus)))

	// Contacts at company
	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("CONTACTS"))
	s.WriteString("\n")
	for _, contact := range query.CompanyContacts(st, company.ID) {
		s.WriteString(fmt.Sprintf("  • %s (%s)\n", contact.Name, contact.Email))
	}

	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("DEALS"))
	s.WriteString("\n")
	for _, deal := range query.CompanyDeals(st, company.ID) {
		s.WriteString(fmt.Sprintf("  • %s: %s, %s\n", deal.Name, deal.Stage.Label(), viz.Money(deal.Value)))
	}

	return s.String()
}

func (m Model) renderDealDetail() string {
	st := m.svc.State()
	deal, ok := st.FindDeal(m.selectedID)
	if !ok {
		return "Deal not found"
	}

	var s strings.Builder

	s.WriteString(m.renderField("Name", deal.Name))
	s.WriteString(m.renderField("Company", query.CompanyName(st, deal.CompanyID)))
	s.WriteString(m.renderField("Contact", query.ContactName(st, deal.ContactID)))
	s.WriteString(m.renderField("Project Type", string(deal.ProjectType)))
	if deal.Capacity != nil {
		s.WriteString(m.renderField("Capacity", fmt.Sprintf("%g MW", *deal.Capacity)))
	}
	s.WriteString(m.renderField("Stage", fmt.Sprintf("%s (%d%% through pipeline)", deal.Stage.Label(), deal.Stage.Progress())))
	s.WriteString(m.renderField("Value", viz.Money(deal.Value)))
	s.WriteString(m.renderField("Probability", fmt.Sprintf("%d%%", deal.Probability)))
	s.WriteString(m.renderField("Expected Close", deal.CloseDate.Format("2006-01-02")))
	s.WriteString(m.renderField("Owner", query.OwnerName(st, deal.AssignedUserID)))

	// Notes
	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("NOTES"))
	s.WriteString("\n")
	s.WriteString("  " + deal.Notes + "\n")

	s.WriteString("\n")
	s.WriteString(sectionStyle.Render("ACTIVITIES"))
	s.WriteString("\n")
	for _, a := range st.Activities {
		if a.DealID == deal.ID {
			s.WriteString(fmt.Sprintf("  • [%s] %s\n", a.Date.Format("2006-01-02"), a.Subject))
		}
	}

	return s.String()
}

func (m Model) renderActivityDetail() string {
	st := m.svc.State()
	a, ok := st.FindActivity(m.selectedID)
	if !ok {
		return "Activity not found"
	}

	var s strings.Builder

	s.WriteString(m.renderField("Subject", a.Subject))
	s.WriteString(m.renderField("Type", string(a.Type)))
	s.WriteString(m.renderField("Date", a.Date.Format("2006-01-02 15:04")))
	s.WriteString(m.renderField("User", query.ActivityUserName(st, a.UserID)))
	if a.ContactID != "" {
		s.WriteString(m.renderField("Contact", query.ContactName(st, a.ContactID)))
	}
	if a.DealID != "" {
		s.WriteString(m.renderField("Deal", query.DealName(st, a.DealID)))
	}
	if a.Duration != nil {
		s.WriteString(m.renderField("Duration", fmt.Sprintf("%d min", *a.Duration)))
	}
	s.WriteString(m.renderField("Outcome", string(a.Outcome)))
	s.WriteString(m.renderField("Description", a.Description))
	s.WriteString(m.renderField("Next Steps", a.NextSteps))
	if a.FollowUpDate != nil {
		s.WriteString(m.renderField("Follow Up", a.FollowUpDate.Format("2006-01-02")))
	}

	return s.String()
}

func (m Model) renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fmt.Sprintf("%s %s\n",
		fieldLabelStyle.Render(label+":"),
		fieldValueStyle.Render(value))
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"Esc: Back",
		"e: Edit",
		"d: Delete",
		"g: View graph",
	}
	if m.recordKind() == EntityDeals {
		help = append(help, "[/]: Move stage")
	}
	help = append(help, "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
	case "e":
		m.viewMode = ViewEdit
		m.initFormInputs()
	case "d":
		m.viewMode = ViewConfirmDelete
	case "g":
		m.graphFrom = ViewDetail
		if err := m.generateGraph(); err != nil {
			m.message = "Error: " + err.Error()
			return m, nil
		}
		m.viewMode = ViewGraph
	case "[", "]":
		if m.recordKind() == EntityDeals {
			step := 1
			if msg.String() == "[" {
				step = -1
			}
			m.moveDeal(step)
		}
	}

	return m, nil
}

// moveDeal shifts the selected deal one stage along the pipeline.
func (m *Model) moveDeal(step int) {
	deal, ok := m.svc.State().FindDeal(m.selectedID)
	if !ok {
		return
	}
	i := slices.Index(models.Stages, deal.Stage) + step
	if i < 0 || i >= len(models.Stages) {
		return
	}
	moved, err := m.svc.MoveDeal(m.ctx, deal.ID, models.Stages[i])
	if err != nil {
		m.message = "Error: " + err.Error()
		return
	}
	m.message = "Moved to " + moved.Stage.Label()
}
