// ABOUTME: Tests for the TUI model
// ABOUTME: Drives key presses through Update against a seeded store
package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/seed"
	"github.com/harperreed/energycrm/store"
)

var tuiNow = time.Date(2025, 1, 12, 10, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, opts ...Option) Model {
	t.Helper()
	s := store.New()
	require.NoError(t, s.Dispatch(context.Background(), store.LoadData{Data: seed.Partial()}))
	svc := crm.New(s, crm.WithClock(func() time.Time { return tuiNow }))
	return NewModel(svc, opts...)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestTabsAndListing(t *testing.T) {
	m := newTestModel(t)

	assert.Contains(t, m.View(), "Rosa Delgado")
	assert.Len(t, m.currentListing().ids, 5)

	m = press(t, m, "tab")
	assert.Equal(t, EntityCompanies, m.entityType)
	assert.Contains(t, m.View(), "Gulf Coast Power & Light")

	m = press(t, m, "tab")
	ids := m.currentListing().ids
	require.Len(t, ids, 6)
	assert.Equal(t, "d3", ids[0])
}

func TestSearchAndFilter(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "tab", "/", "gulf", "enter")

	assert.False(t, m.searching)
	assert.Equal(t, "gulf", m.searchQuery)
	assert.Equal(t, []string{"c2"}, m.currentListing().ids)
	assert.Contains(t, m.View(), `search "gulf"`)

	m = press(t, m, "esc", "tab", "f")
	assert.Equal(t, string(models.StageLead), m.filter())
	assert.Equal(t, []string{"d6"}, m.currentListing().ids)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "tab", "tab", "j", "d")
	require.Equal(t, ViewConfirmDelete, m.viewMode)
	assert.Contains(t, m.View(), "Mesa Verde 200MW Solar")

	m = press(t, m, "n")
	assert.Equal(t, ViewList, m.viewMode)
	assert.Len(t, m.svc.State().Deals, 6)

	m = press(t, m, "d", "y")
	assert.Equal(t, "Successfully deleted", m.message)
	_, ok := m.svc.State().FindDeal("d1")
	assert.False(t, ok)
}

func TestDeleteCompanyWarnsAboutReferences(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "tab", "/", "sonoran", "enter", "d")
	assert.Contains(t, m.View(), "1 contact(s) and 2 deal(s) still reference it")
}

func TestDetailMovesDealStage(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "tab", "tab", "j", "enter")
	require.Equal(t, ViewDetail, m.viewMode)
	assert.Contains(t, m.View(), "proposal")

	m = press(t, m, "]")
	d, _ := m.svc.State().FindDeal("d1")
	assert.Equal(t, models.StageNegotiation, d.Stage)
	assert.Equal(t, "Moved to negotiation", m.message)
}

func TestEditContact(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "enter", "e")
	require.Equal(t, ViewEdit, m.viewMode)
	require.Len(t, m.formInputs, 5)

	m.formInputs[1].SetValue("SVP Development")
	m = press(t, m, "enter")
	assert.Equal(t, ViewDetail, m.viewMode)

	c, _ := m.svc.State().FindContact("p1")
	assert.Equal(t, "SVP Development", c.Title)
	assert.Equal(t, "rdelgado@sonoransun.com", c.Email)
}

func TestEditDealRejectsBadNumbers(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "tab", "tab", "enter", "e")
	m.formInputs[1].SetValue("lots")
	m = press(t, m, "enter")
	assert.Equal(t, ViewEdit, m.viewMode)
	assert.ErrorContains(t, m.err, "invalid value")
}

func TestFollowupsTab(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "tab", "tab", "tab", "tab")
	require.Equal(t, EntityFollowups, m.entityType)

	ids := m.currentListing().ids
	require.NotEmpty(t, ids)
	m = press(t, m, "enter")
	assert.Contains(t, m.View(), "Follow Up:")
}

func TestGraphView(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "tab", "g")
	require.Equal(t, ViewGraph, m.viewMode)
	assert.Contains(t, m.graphDOT, "digraph")

	m = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
}

func TestSyncTab(t *testing.T) {
	m := newTestModel(t)
	m.switchTab(EntitySync)
	assert.Contains(t, m.View(), "Local only")

	calls := 0
	m = newTestModel(t, WithSync(func(context.Context) error {
		calls++
		if calls > 1 {
			return errors.New("connection refused")
		}
		return nil
	}, "charm.example.com"))
	m.switchTab(EntitySync)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.syncing)
	assert.Contains(t, m.View(), "Syncing with charm.example.com")

	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.False(t, m.syncing)
	assert.Contains(t, m.View(), "✓ Synced")

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m = next.(Model)
	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.Contains(t, m.View(), "connection refused")
	assert.Equal(t, 2, calls)
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	// q is text while searching
	m = press(t, m, "/", "q")
	assert.True(t, m.searching)
	assert.Equal(t, "q", m.searchInput.Value())
}
