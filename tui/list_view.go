package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/query"
	"github.com/harperreed/energycrm/viz"
)

func (m Model) renderListView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("ENERGY CRM"))
	s.WriteString("\n\n")

	// Tabs
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.searching {
		s.WriteString("Search: " + m.searchInput.View())
		s.WriteString("\n\n")
	} else if m.searchQuery != "" || m.filter() != "" {
		s.WriteString(statusStyle.Render(m.filterSummary()))
		s.WriteString("\n\n")
	}

	// Table
	s.WriteString(m.renderTable())
	s.WriteString("\n")

	if m.message != "" {
		s.WriteString(statusStyle.Render(m.message))
		s.WriteString("\n")
	}

	// Help
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	var rendered []string

	for i, tab := range tabNames {
		if EntityType(i) == m.entityType {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) filterSummary() string {
	var parts []string
	if m.searchQuery != "" {
		parts = append(parts, fmt.Sprintf("search %q", m.searchQuery))
	}
	if f := m.filter(); f != "" {
		parts = append(parts, "filter "+f)
	}
	return "Showing " + strings.Join(parts, ", ")
}

// filterOptions lists the option filter values for the current tab.
func (m Model) filterOptions() []string {
	switch m.entityType {
	case EntityContacts:
		return enumStrings(models.ContactStatuses)
	case EntityCompanies:
		return enumStrings(models.RelationshipStatuses)
	case EntityDeals:
		return enumStrings(models.Stages)
	case EntityActivities:
		return enumStrings(models.ActivityTypes)
	}
	return nil
}

// filter is the active option filter, empty for all.
func (m Model) filter() string {
	opts := m.filterOptions()
	if m.filterIndex == 0 || m.filterIndex > len(opts) {
		return ""
	}
	return opts[m.filterIndex-1]
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// listing holds the visible table for the current tab and the record ID
// behind each row.
type listing struct {
	columns []table.Column
	rows    []table.Row
	ids     []string
}

func (m Model) currentListing() listing {
	st := m.svc.State()
	var l listing

	switch m.entityType {
	case EntityContacts:
		l.columns = []table.Column{
			{Title: "Name", Width: 22},
			{Title: "Title", Width: 26},
			{Title: "Company", Width: 26},
			{Title: "Status", Width: 14},
		}
		for _, c := range query.Contacts(st.Contacts, query.ContactFilter{Search: m.searchQuery, Status: m.filter()}) {
			l.rows = append(l.rows, table.Row{c.Name, c.Title, query.CompanyName(st, c.CompanyID), string(c.Status)})
			l.ids = append(l.ids, c.ID)
		}

	case EntityCompanies:
		l.columns = []table.Column{
			{Title: "Name", Width: 28},
			{Title: "Type", Width: 20},
			{Title: "Location", Width: 18},
			{Title: "Revenue", Width: 16},
			{Title: "Status", Width: 10},
		}
		for _, c := range query.Companies(st.Companies, query.CompanyFilter{Search: m.searchQuery, Status: m.filter()}) {
			revenue := "-"
			if c.Revenue != nil {
				revenue = viz.Money(*c.Revenue)
			}
			l.rows = append(l.rows, table.Row{c.Name, string(c.Type), c.Location.City + ", " + c.Location.State, revenue, string(c.RelationshipStatus)})
			l.ids = append(l.ids, c.ID)
		}

	case EntityDeals:
		l.columns = []table.Column{
			{Title: "Deal", Width: 30},
			{Title: "Company", Width: 26},
			{Title: "Stage", Width: 16},
			{Title: "Value", Width: 14},
			{Title: "Prob", Width: 5},
		}
		for _, d := range query.Deals(st.Deals, query.DealFilter{Search: m.searchQuery, Stage: m.filter()}) {
			l.rows = append(l.rows, table.Row{d.Name, query.CompanyName(st, d.CompanyID), d.Stage.Label(), viz.Money(d.Value), fmt.Sprintf("%d%%", d.Probability)})
			l.ids = append(l.ids, d.ID)
		}

	case EntityActivities:
		l.columns = []table.Column{
			{Title: "Date", Width: 11},
			{Title: "Type", Width: 20},
			{Title: "Subject", Width: 34},
			{Title: "User", Width: 18},
			{Title: "Outcome", Width: 9},
		}
		for _, a := range query.Activities(st.Activities, query.ActivityFilter{Search: m.searchQuery, Type: m.filter()}) {
			l.rows = append(l.rows, table.Row{a.Date.Format("2006-01-02"), string(a.Type), a.Subject, query.ActivityUserName(st, a.UserID), string(a.Outcome)})
			l.ids = append(l.ids, a.ID)
		}

	case EntityFollowups:
		return m.followupListing()
	}

	return l
}

func (m Model) renderTable() string {
	l := m.currentListing()
	if len(l.rows) == 0 {
		return "No records found\n"
	}

	t := table.New(
		table.WithColumns(l.columns),
		table.WithRows(l.rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 3)),
	)

	// Set selected row
	if m.selectedRow < len(l.rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"Enter: Details",
		"/: Search",
		"f: Filter",
		"g: Graph",
		"d: Delete",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	m.message = ""
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.currentListing().ids)-1 {
			m.selectedRow++
		}
	case "tab":
		m.switchTab((m.entityType + 1) % EntityType(len(tabNames)))
	case "shift+tab":
		m.switchTab((m.entityType + EntityType(len(tabNames)) - 1) % EntityType(len(tabNames)))
	case "/":
		m.searching = true
		m.searchInput.SetValue(m.searchQuery)
		return m, m.searchInput.Focus()
	case "f":
		if opts := m.filterOptions(); len(opts) > 0 {
			m.filterIndex = (m.filterIndex + 1) % (len(opts) + 1)
			m.selectedRow = 0
		}
	case "esc":
		m.searchQuery = ""
		m.filterIndex = 0
		m.selectedRow = 0
	case "enter":
		if id := m.getSelectedID(); id != "" {
			m.selectedID = id
			m.viewMode = ViewDetail
		}
	case "d":
		if id := m.getSelectedID(); id != "" {
			m.selectedID = id
			m.viewMode = ViewConfirmDelete
		}
	case "g":
		m.selectedID = m.getSelectedID()
		m.graphFrom = ViewList
		if err := m.generateGraph(); err != nil {
			m.message = "Error: " + err.Error()
			return m, nil
		}
		m.viewMode = ViewGraph
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchQuery = strings.TrimSpace(m.searchInput.Value())
		m.searching = false
		m.searchInput.Blur()
		m.selectedRow = 0
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) switchTab(tab EntityType) {
	m.entityType = tab
	m.selectedRow = 0
	m.filterIndex = 0
	m.searchQuery = ""
}

func (m Model) getSelectedID() string {
	ids := m.currentListing().ids
	if m.selectedRow < len(ids) {
		return ids[m.selectedRow]
	}
	return ""
}

// entityName resolves the display name of the selected record.
func (m Model) entityName() (string, bool) {
	st := m.svc.State()
	switch m.recordKind() {
	case EntityContacts:
		c, ok := st.FindContact(m.selectedID)
		return c.Name, ok
	case EntityCompanies:
		c, ok := st.FindCompany(m.selectedID)
		return c.Name, ok
	case EntityDeals:
		d, ok := st.FindDeal(m.selectedID)
		return d.Name, ok
	case EntityActivities:
		a, ok := st.FindActivity(m.selectedID)
		return a.Subject, ok
	}
	return "", false
}

// recordKind maps the follow-ups tab onto the activities it lists.
func (m Model) recordKind() EntityType {
	if m.entityType == EntityFollowups {
		return EntityActivities
	}
	return m.entityType
}
