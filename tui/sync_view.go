// ABOUTME: Sync tab for the TUI
// ABOUTME: Shows the Charm sync remote and runs a sync in the background
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	syncHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	syncIdleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	syncSyncingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	syncErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	syncMessageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// syncDoneMsg reports a finished background sync.
type syncDoneMsg struct {
	err error
	at  time.Time
}

func (m Model) renderSyncView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("ENERGY CRM"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	s.WriteString(syncHeaderStyle.Render("Charm Sync"))
	s.WriteString("\n\n")

	switch {
	case m.sync == nil:
		s.WriteString(syncMessageStyle.Render("  Local only. Set ENERGYCRM_BACKEND=charm to sync between devices."))
	case m.syncing:
		s.WriteString(syncSyncingStyle.Render("  ⟳ Syncing with " + m.syncHost + "..."))
	default:
		s.WriteString(syncIdleStyle.Render("  ✓ Idle"))
		s.WriteString(syncMessageStyle.Render(" • " + m.syncHost))
	}
	s.WriteString("\n\n")

	// Recent messages
	if len(m.syncMessages) > 0 {
		s.WriteString(syncHeaderStyle.Render("Recent Activity"))
		s.WriteString("\n\n")
		// Show last 5 messages
		start := max(len(m.syncMessages)-5, 0)
		for _, msg := range m.syncMessages[start:] {
			s.WriteString(syncMessageStyle.Render("  " + msg))
			s.WriteString("\n")
		}
		s.WriteString("\n")
	}

	// Help
	s.WriteString(m.renderSyncHelp())

	return s.String()
}

func (m Model) renderSyncHelp() string {
	help := []string{
		"s: Sync now",
		"Tab: Switch tabs",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleSyncKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.switchTab((m.entityType + 1) % EntityType(len(tabNames)))
	case "shift+tab":
		m.switchTab(m.entityType - 1)
	case "s", "enter":
		if m.sync == nil || m.syncing {
			return m, nil
		}
		m.syncing = true
		return m, runSync(m.ctx, m.sync, m.svc.Now)
	}
	return m, nil
}

func runSync(ctx context.Context, fn SyncFunc, now func() time.Time) tea.Cmd {
	return func() tea.Msg {
		err := fn(ctx)
		return syncDoneMsg{err: err, at: now()}
	}
}

func (m Model) handleSyncDone(msg syncDoneMsg) Model {
	m.syncing = false
	stamp := msg.at.Format("15:04:05")
	if msg.err != nil {
		m.syncMessages = append(m.syncMessages, syncErrorStyle.Render(fmt.Sprintf("%s ✗ %v", stamp, msg.err)))
	} else {
		m.syncMessages = append(m.syncMessages, fmt.Sprintf("%s ✓ Synced", stamp))
	}
	return m
}
