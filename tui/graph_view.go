package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/energycrm/viz"
)

func (m Model) renderGraphView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("GRAPH VIEW"))
	s.WriteString("\n\n")

	// DOT source, clipped to the window
	lines := strings.Split(m.graphDOT, "\n")
	if limit := max(m.height-6, 5); len(lines) > limit {
		lines = append(lines[:limit], "...")
	}
	s.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Render(strings.Join(lines, "\n")))

	s.WriteString("\n\n")

	// Help
	s.WriteString(m.renderGraphHelp())

	return s.String()
}

func (m Model) renderGraphHelp() string {
	help := []string{
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleGraphKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = m.graphFrom
		m.graphDOT = ""
	}

	return m, nil
}

// generateGraph renders the selected company's graph on the companies tab,
// and the pipeline everywhere else.
func (m *Model) generateGraph() error {
	generator := viz.NewGraphGenerator(m.svc.State())

	var dot string
	var err error

	if m.entityType == EntityCompanies && m.selectedID != "" {
		dot, err = generator.GenerateCompanyGraph(m.selectedID)
	} else {
		dot, err = generator.GeneratePipelineGraph()
	}

	if err != nil {
		return err
	}

	m.graphDOT = dot
	return nil
}
