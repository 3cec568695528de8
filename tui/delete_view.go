// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Deletes the selected record only after an explicit yes
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/energycrm/query"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmDeleteView() string {
	name, ok := m.entityName()
	if !ok {
		return "Error: record no longer exists"
	}
	entityType := strings.ToLower(m.entityTypeName())

	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := fmt.Sprintf("Are you sure you want to delete this %s?", entityType)
	entityInfo := fmt.Sprintf("\n%s: %s\n", strings.ToUpper(entityType), name)
	warning := "\nThis action cannot be undone!"
	if m.recordKind() == EntityCompanies {
		contacts := len(query.CompanyContacts(m.svc.State(), m.selectedID))
		deals := len(query.CompanyDeals(m.svc.State(), m.selectedID))
		if contacts+deals > 0 {
			warning += fmt.Sprintf("\n%d contact(s) and %d deal(s) still reference it.", contacts, deals)
		}
	}

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	box := confirmBoxStyle.Render(content)

	// Center the box on screen
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := m.performDelete(); err != nil {
			m.err = err
			m.message = "Error: " + err.Error()
		} else {
			m.message = "Successfully deleted"
			m.selectedID = ""
			if m.selectedRow > 0 && m.selectedRow >= len(m.currentListing().ids) {
				m.selectedRow--
			}
		}
		m.viewMode = ViewList
	case "n", "N", "esc":
		m.viewMode = ViewList
	}

	return m, nil
}

func (m Model) performDelete() error {
	switch m.recordKind() {
	case EntityContacts:
		return m.svc.DeleteContact(m.ctx, m.selectedID)
	case EntityCompanies:
		return m.svc.DeleteCompany(m.ctx, m.selectedID)
	case EntityDeals:
		return m.svc.DeleteDeal(m.ctx, m.selectedID)
	case EntityActivities:
		return m.svc.DeleteActivity(m.ctx, m.selectedID)
	default:
		return fmt.Errorf("unknown entity type")
	}
}
