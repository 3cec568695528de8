// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Full-screen tabs for every CRM collection with search, detail, edit and delete
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/energycrm/crm"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewEdit
	ViewGraph
	ViewConfirmDelete
)

// EntityType is the active tab.
type EntityType int

const (
	EntityContacts EntityType = iota
	EntityCompanies
	EntityDeals
	EntityActivities
	EntityFollowups
	EntitySync
)

var tabNames = []string{"Contacts", "Companies", "Deals", "Activities", "Follow-ups", "Sync"}

// SyncFunc pushes and pulls remote changes and reloads the store.
type SyncFunc func(ctx context.Context) error

// Model is the main bubbletea model
type Model struct {
	svc        *crm.Service
	ctx        context.Context
	viewMode   ViewMode
	entityType EntityType

	// List view state
	selectedRow int
	searchQuery string
	searching   bool
	searchInput textinput.Model
	// filterIndex picks the option filter of the current tab; 0 is all.
	filterIndex int

	// Detail, edit and delete all act on this record
	selectedID string

	// Edit view state
	formInputs []textinput.Model
	focusIndex int

	graphDOT  string
	graphFrom ViewMode

	// Sync tab state
	sync         SyncFunc
	syncHost     string
	syncing      bool
	syncMessages []string

	// message is the status line shown under the list
	message string

	width  int
	height int
	err    error
}

type Option func(*Model)

// WithSync enables the sync tab's sync action.
func WithSync(fn SyncFunc, host string) Option {
	return func(m *Model) {
		m.sync = fn
		m.syncHost = host
	}
}

// WithContext sets the context used for store writes.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// NewModel creates a new TUI model
func NewModel(svc *crm.Service, opts ...Option) Model {
	search := textinput.New()
	search.Placeholder = "search"
	search.CharLimit = 100

	m := Model{
		svc:         svc,
		ctx:         context.Background(),
		viewMode:    ViewList,
		entityType:  EntityContacts,
		searchInput: search,
		width:       100,
		height:      30,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Run starts the program on the terminal and blocks until it quits.
func Run(ctx context.Context, svc *crm.Service, opts ...Option) error {
	opts = append(opts, WithContext(ctx))
	_, err := tea.NewProgram(NewModel(svc, opts...), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case syncDoneMsg:
		return m.handleSyncDone(msg), nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		if m.entityType == EntitySync {
			return m.renderSyncView()
		}
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewEdit:
		return m.renderEditView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text entry owns every key except ctrl+c
	typing := m.searching || m.viewMode == ViewEdit
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if !typing {
			return m, tea.Quit
		}
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewList:
		if m.entityType == EntitySync {
			return m.handleSyncKeys(msg)
		}
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewEdit:
		return m.handleEditKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("34")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("34")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)
