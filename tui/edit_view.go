package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/energycrm/models"
)

// formField is one editable input and how its text is written back.
type formField struct {
	label string
	value string
	limit int
}

func (m Model) renderEditView() string {
	var s strings.Builder

	// Title
	name, _ := m.entityName()
	s.WriteString(titleStyle.Render("EDIT " + m.entityTypeName() + ": " + name))
	s.WriteString("\n\n")

	// Form fields
	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if m.err != nil {
		s.WriteString(statusStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	}

	// Help
	s.WriteString(m.renderEditHelp())

	return s.String()
}

func (m Model) entityTypeName() string {
	switch m.recordKind() {
	case EntityContacts:
		return "CONTACT"
	case EntityCompanies:
		return "COMPANY"
	case EntityDeals:
		return "DEAL"
	case EntityActivities:
		return "ACTIVITY"
	}
	return ""
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab: Next field",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewDetail
		m.err = nil
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		// Save the entity
		if err := m.saveEntity(); err != nil {
			m.err = err
		} else {
			m.err = nil
			m.message = "✓ Saved"
			m.viewMode = ViewDetail
		}
		return m, nil
	}

	// Update current input
	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *Model) initFormInputs() {
	fields := m.formFields()
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		inputs[i] = textinput.New()
		inputs[i].Prompt = fmt.Sprintf("%-14s ", f.label+":")
		inputs[i].Placeholder = f.label
		inputs[i].CharLimit = f.limit
		inputs[i].SetValue(f.value)
	}

	m.formInputs = inputs
	m.focusIndex = 0
	m.err = nil
	m.updateFormFocus()
}

// formFields lists the editable fields of the selected record with their
// current values.
func (m Model) formFields() []formField {
	st := m.svc.State()
	switch m.recordKind() {
	case EntityContacts:
		c, _ := st.FindContact(m.selectedID)
		return []formField{
			{"Name", c.Name, 100},
			{"Title", c.Title, 100},
			{"Email", c.Email, 100},
			{"Phone", c.Phone, 30},
			{"Notes", c.Notes, 500},
		}
	case EntityCompanies:
		c, _ := st.FindCompany(m.selectedID)
		return []formField{
			{"Name", c.Name, 100},
			{"City", c.Location.City, 60},
			{"State", c.Location.State, 30},
			{"Territory", c.Territory, 60},
		}
	case EntityDeals:
		d, _ := st.FindDeal(m.selectedID)
		return []formField{
			{"Name", d.Name, 100},
			{"Value", strconv.FormatFloat(d.Value, 'f', -1, 64), 20},
			{"Probability", strconv.Itoa(d.Probability), 3},
			{"Notes", d.Notes, 500},
		}
	case EntityActivities:
		a, _ := st.FindActivity(m.selectedID)
		return []formField{
			{"Subject", a.Subject, 100},
			{"Description", a.Description, 500},
			{"Next Steps", a.NextSteps, 300},
		}
	}
	return nil
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m Model) saveEntity() error {
	v := make([]string, len(m.formInputs))
	for i, input := range m.formInputs {
		v[i] = strings.TrimSpace(input.Value())
	}

	var err error
	switch m.recordKind() {
	case EntityContacts:
		_, err = m.svc.UpdateContact(m.ctx, m.selectedID, func(c *models.Contact) {
			c.Name, c.Title, c.Email, c.Phone, c.Notes = v[0], v[1], v[2], v[3], v[4]
		})
	case EntityCompanies:
		_, err = m.svc.UpdateCompany(m.ctx, m.selectedID, func(c *models.Company) {
			c.Name, c.Location.City, c.Location.State, c.Territory = v[0], v[1], v[2], v[3]
		})
	case EntityDeals:
		value, perr := strconv.ParseFloat(v[1], 64)
		if perr != nil {
			return fmt.Errorf("invalid value: %s", v[1])
		}
		probability, perr := strconv.Atoi(v[2])
		if perr != nil {
			return fmt.Errorf("invalid probability: %s", v[2])
		}
		_, err = m.svc.UpdateDeal(m.ctx, m.selectedID, func(d *models.Deal) {
			d.Name, d.Value, d.Probability, d.Notes = v[0], value, probability, v[3]
		})
	case EntityActivities:
		_, err = m.svc.UpdateActivity(m.ctx, m.selectedID, func(a *models.Activity) {
			a.Subject, a.Description, a.NextSteps = v[0], v[1], v[2]
		})
	}
	return err
}
