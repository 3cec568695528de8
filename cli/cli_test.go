// ABOUTME: Tests for CLI commands
// ABOUTME: Drives commands against a seeded store with an in-memory Badger bridge
package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/persist"
	"github.com/harperreed/energycrm/seed"
	"github.com/harperreed/energycrm/store"
)

var cliNow = time.Date(2025, 1, 12, 10, 0, 0, 0, time.UTC)

type fakeSyncer struct {
	calls int
	// pull stands in for remote changes arriving during a sync
	pull func() error
}

func (f *fakeSyncer) Sync() error {
	f.calls++
	if f.pull != nil {
		return f.pull()
	}
	return nil
}

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	backend, err := persist.OpenBadgerInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	return newTestAppOn(t, backend)
}

func newTestAppOn(t *testing.T, backend persist.Backend) (*App, *bytes.Buffer) {
	t.Helper()
	s := store.New()
	bridge := persist.NewBridge(backend, seed.Partial,
		persist.WithBridgeLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	_, err := bridge.Attach(context.Background(), s)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	app := &App{
		Svc:     crm.New(s, crm.WithClock(func() time.Time { return cliNow })),
		Bridge:  bridge,
		Out:     out,
		In:      strings.NewReader(""),
		Confirm: func(string) (bool, error) { return false, nil },
	}
	return app, out
}

func TestAddAndListContacts(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()

	err := app.AddContactCommand(ctx, []string{"--name", "Nia Okafor", "--email", "nia@gcpl.com", "--company", "Gulf Coast Power & Light", "--owner", "u2"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "✓ Contact created: Nia Okafor")
	assert.Contains(t, out.String(), "Owner: Priya Natarajan")

	out.Reset()
	require.NoError(t, app.ListContactsCommand(ctx, []string{"--where", `companyId == "c2"`}))
	assert.Contains(t, out.String(), "Nia Okafor")
	assert.Contains(t, out.String(), "Wesley Grant")
	assert.Contains(t, out.String(), "Total: 3 contact(s)")
	assert.NotContains(t, out.String(), "Rosa Delgado")
}

func TestAddContactValidation(t *testing.T) {
	app, _ := newTestApp(t)

	err := app.AddContactCommand(context.Background(), []string{"--name", "No Email", "--company", "c1"})
	assert.ErrorIs(t, err, crm.ErrInvalid)

	err = app.AddContactCommand(context.Background(), []string{"--name", "X", "--email", "x@y.z", "--company", "nope"})
	assert.ErrorContains(t, err, "company not found")
}

func TestUpdateContactOnlyTouchesGivenFlags(t *testing.T) {
	app, _ := newTestApp(t)

	require.NoError(t, app.UpdateContactCommand(context.Background(), []string{"--title", "SVP", "p1"}))
	c, ok := app.Svc.State().FindContact("p1")
	require.True(t, ok)
	assert.Equal(t, "SVP", c.Title)
	assert.Equal(t, "rdelgado@sonoransun.com", c.Email)
	assert.Equal(t, "Phoenix", c.Location.City)

	err := app.UpdateContactCommand(context.Background(), []string{"--title", "SVP"})
	assert.ErrorContains(t, err, "contact ID is required")
}

func TestListCompaniesSortedByRevenue(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, app.ListCompaniesCommand(context.Background(), []string{"--segment", "all"}))
	text := out.String()
	assert.Less(t, strings.Index(text, "Gulf Coast Power & Light"), strings.Index(text, "Permian Midstream Partners"))
	assert.Less(t, strings.Index(text, "Sonoran Sun Developers"), strings.Index(text, "Prairie Storage Systems"))
	assert.Contains(t, text, "Total: 5 company(ies), 2 active")
}

func TestDeleteCompanyReportsDanglingReferences(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, app.DeleteCompanyCommand(context.Background(), []string{"c1"}))
	assert.Contains(t, out.String(), "1 contact(s) and 2 deal(s) still reference it")

	out.Reset()
	require.NoError(t, app.ListDealsCommand(context.Background(), []string{"--query", "rooftop"}))
	assert.Contains(t, out.String(), "Unknown Company")
}

func TestAddDealAndMoveThroughStages(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, app.AddDealCommand(ctx, []string{"--name", "Coastal Microgrid", "--company", "c2", "--contact", "p2", "--value", "1250000"}))
	assert.Contains(t, out.String(), "Value: $1,250,000 (50%)")

	var id string
	for _, d := range app.Svc.State().Deals {
		if d.Name == "Coastal Microgrid" {
			id = d.ID
		}
	}
	require.NotEmpty(t, id)

	out.Reset()
	require.NoError(t, app.UpdateDealCommand(ctx, []string{"--stage", "closed_won", "--probability", "100", id}))
	assert.Contains(t, out.String(), "Stage: closed won (100%)")

	err := app.UpdateDealCommand(ctx, []string{"--stage", "done", id})
	assert.ErrorIs(t, err, crm.ErrInvalid)
}

func TestListDealsWhereAndLimit(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, app.ListDealsCommand(context.Background(), []string{"--where", "probability >= 60", "--limit", "1"}))
	text := out.String()
	assert.Contains(t, text, "Mesa Verde 200MW Solar")
	assert.NotContains(t, text, "Substation Modernization")

	err := app.ListDealsCommand(context.Background(), []string{"--where", "probability >="})
	assert.Error(t, err)
}

func TestLogActivityAndFollowups(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, app.LogActivityCommand(ctx, []string{
		"--subject", "Pricing call", "--description", "Went over module pricing",
		"--deal", "d1", "--contact", "p1", "--duration", "25", "--follow-up", "2025-01-10",
	}))
	assert.Contains(t, out.String(), "Follow up: 2025-01-10")

	out.Reset()
	require.NoError(t, app.FollowupListCommand(ctx, []string{"--overdue-only"}))
	assert.Contains(t, out.String(), "Pricing call")
	assert.NotContains(t, out.String(), "Proposal walkthrough")

	out.Reset()
	require.NoError(t, app.ListActivitiesCommand(ctx, []string{"--query", "pricing"}))
	assert.Contains(t, out.String(), "Mesa Verde 200MW Solar")
}

func TestSetUserAndUpdateProfile(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, app.SetUserCommand(ctx, []string{"Priya Natarajan"}))
	assert.Contains(t, out.String(), "Acting as Priya Natarajan")

	require.NoError(t, app.UpdateProfileCommand(ctx, []string{"--territory", "Gulf Coast"}))
	assert.Equal(t, "Gulf Coast", app.Svc.State().CurrentUser.Territory)

	out.Reset()
	require.NoError(t, app.ListUsersCommand(ctx, nil))
	assert.Contains(t, out.String(), "*  Priya Natarajan")

	assert.Error(t, app.SetUserCommand(ctx, []string{"Nobody"}))
}

func TestVizCommands(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, app.VizDashboardCommand(ctx, nil))
	assert.Contains(t, out.String(), "ENERGY CRM DASHBOARD")

	path := filepath.Join(t.TempDir(), "pipeline.dot")
	out.Reset()
	require.NoError(t, app.VizGraphCommand(ctx, []string{"pipeline", "--output", path}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")

	assert.ErrorContains(t, app.VizGraphCommand(ctx, []string{"company", "nope"}), "company not found")
	assert.ErrorContains(t, app.VizGraphCommand(ctx, []string{"org"}), "unknown graph type")
}

func TestExportImportRoundTrip(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "backup.yaml")

	require.NoError(t, app.ExportCommand(ctx, []string{"--format", "yaml", "--output", path}))
	assert.Contains(t, out.String(), "Exported 5 contacts, 5 companies, 6 deals, 5 activities")

	require.NoError(t, app.DeleteDealCommand(ctx, []string{"d1"}))
	require.Len(t, app.Svc.State().Deals, 5)

	out.Reset()
	require.NoError(t, app.ImportCommand(ctx, []string{path}))
	assert.Len(t, app.Svc.State().Deals, 6)
	assert.Contains(t, out.String(), "now 5 contacts")
}

func TestExportToStdout(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, app.ExportCommand(context.Background(), []string{"--output", "-"}))
	assert.True(t, strings.HasPrefix(out.String(), "{\n  \"contacts\": ["))
}

func TestClearDataNeedsConfirmation(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, app.DeleteDealCommand(ctx, []string{"d1"}))

	require.NoError(t, app.ClearDataCommand(ctx, nil))
	assert.Contains(t, out.String(), "Aborted")
	assert.Len(t, app.Svc.State().Deals, 5)

	app.Confirm = func(string) (bool, error) { return false, errors.New("no terminal") }
	assert.Error(t, app.ClearDataCommand(ctx, nil))

	out.Reset()
	require.NoError(t, app.ClearDataCommand(ctx, []string{"--confirm"}))
	assert.Contains(t, out.String(), "sample data restored")
	assert.Len(t, app.Svc.State().Deals, 6)

	saved, err := app.Bridge.Saved()
	require.NoError(t, err)
	assert.Len(t, *saved.Deals, 6)
}

func TestStorageInfo(t *testing.T) {
	app, out := newTestApp(t)

	require.NoError(t, app.StorageInfoCommand(context.Background(), nil))
	assert.Contains(t, out.String(), "Total records  21")
	assert.Contains(t, out.String(), "KB")
}

func TestSyncCommands(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()

	assert.ErrorIs(t, app.SyncNowCommand(ctx, nil), errNoSync)
	require.NoError(t, app.SyncStatusCommand(ctx, nil))
	assert.Contains(t, out.String(), "local only")

	syncer := &fakeSyncer{}
	app.Syncer = syncer
	out.Reset()
	require.NoError(t, app.SyncNowCommand(ctx, nil))
	assert.Equal(t, 1, syncer.calls)
	assert.Contains(t, out.String(), "✓ Synced")
}

func TestSyncReloadsPulledSnapshot(t *testing.T) {
	backend, err := persist.OpenBadgerInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	app, _ := newTestAppOn(t, backend)
	require.Len(t, app.Svc.State().Deals, 6)

	// Another device removed every deal but the first.
	remote := app.Svc.State()
	remote.Deals = remote.Deals[:1]
	data, err := persist.EncodeSnapshot(remote)
	require.NoError(t, err)
	app.Syncer = &fakeSyncer{pull: func() error { return backend.Set([]byte(persist.DefaultKey), data) }}

	require.NoError(t, app.Sync(context.Background()))
	require.Len(t, app.Svc.State().Deals, 1)
	assert.Equal(t, remote.Deals[0].ID, app.Svc.State().Deals[0].ID)
}

func TestTerminalConfirmRefusesWithoutTerminal(t *testing.T) {
	app, _ := newTestApp(t)
	_, err := app.terminalConfirm("sure?")
	assert.ErrorContains(t, err, "--confirm")
}
