// ABOUTME: Tests for snapshot encoding and the persistence bridge
// ABOUTME: Covers round-trips, startup policies, corrupt data and write-after-commit
package persist

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/store"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSeed() store.Partial {
	users := []models.User{{ID: "seed-u1", Name: "Seed User", Role: models.RoleSalesRep, Active: true}}
	companies := []models.Company{{ID: "seed-c1", Name: "Seed Solar", CreatedDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}}
	empty := []models.Contact{}
	deals := []models.Deal{}
	activities := []models.Activity{}
	current := users[0]
	return store.Partial{Users: &users, Companies: &companies, Contacts: &empty, Deals: &deals, Activities: &activities, CurrentUser: &current}
}

func savedState() store.State {
	lastLogin := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	revenue := 2.5e8
	user := models.User{ID: "u7", Name: "Saved User", Role: models.RoleBusinessDev, Active: true, LastLogin: &lastLogin}
	return store.State{
		Users:       []models.User{user},
		Companies:   []models.Company{{ID: "c7", Name: "Saved Wind", Revenue: &revenue, CreatedDate: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)}},
		Contacts:    []models.Contact{{ID: "p7", Name: "Saved Contact", CompanyID: "c7"}},
		Deals:       []models.Deal{{ID: "d7", Name: "Saved Deal", Stage: models.StageProposal, Value: 123456.5, CloseDate: time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)}},
		Activities:  []models.Activity{{ID: "a7", Subject: "Saved call", Date: time.Date(2025, 1, 3, 15, 30, 0, 0, time.UTC)}},
		CurrentUser: &user,
		Loading:     true,
		Error:       "transient",
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	orig := savedState()

	data, err := EncodeSnapshot(orig)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "transient")
	assert.NotContains(t, string(data), "loading")

	p, err := DecodeSnapshot(data)
	require.NoError(t, err)

	got := store.Apply(store.State{}, store.LoadData{Data: p})
	assert.Equal(t, orig.Users, got.Users)
	assert.Equal(t, orig.Companies, got.Companies)
	assert.Equal(t, orig.Contacts, got.Contacts)
	assert.Equal(t, orig.Deals, got.Deals)
	assert.Equal(t, orig.Activities, got.Activities)
	require.NotNil(t, got.CurrentUser)
	assert.True(t, got.CurrentUser.LastLogin.Equal(*orig.CurrentUser.LastLogin))
	assert.False(t, got.Loading)
	assert.Empty(t, got.Error)
}

func TestDecodeSnapshotAcceptsBrowserDates(t *testing.T) {
	raw := []byte(`{"users":[{"id":"1","name":"A","lastLogin":"2024-01-15T10:30:00.000Z"}],"companies":[],"contacts":[],"deals":[],"activities":[],"currentUser":null}`)

	p, err := DecodeSnapshot(raw)
	require.NoError(t, err)
	require.Len(t, *p.Users, 1)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), (*p.Users)[0].LastLogin.UTC())
	assert.Nil(t, p.CurrentUser)
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"{not json", "null", `{"companies":[]}`, `[1,2,3]`} {
		_, err := DecodeSnapshot([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidSnapshot, raw)
	}
}

func TestBridgeFirstRunSeedsAndSaves(t *testing.T) {
	ctx := context.Background()
	backend := newBadger(t)
	s := store.New()

	bridge := NewBridge(backend, testSeed, WithBridgeLogger(quietLogger()))
	_, err := bridge.Attach(ctx, s)
	require.NoError(t, err)

	st := s.State()
	require.Len(t, st.Users, 1)
	assert.Equal(t, "seed-u1", st.Users[0].ID)
	require.NotNil(t, st.CurrentUser)
	assert.Equal(t, "seed-u1", st.CurrentUser.ID)

	saved, err := bridge.Saved()
	require.NoError(t, err)
	assert.Equal(t, "seed-u1", (*saved.Users)[0].ID)
}

func TestBridgeCorruptDataFallsBackToSeed(t *testing.T) {
	ctx := context.Background()
	backend := newSQLite(t)
	require.NoError(t, backend.Set([]byte(DefaultKey), []byte("{corrupt")))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	s := store.New()
	_, err := NewBridge(backend, testSeed, WithBridgeLogger(logger)).Attach(ctx, s)
	require.NoError(t, err)

	assert.Equal(t, "seed-u1", s.State().Users[0].ID)
	assert.Contains(t, logs.String(), "failed to load saved data")
}

func TestBridgeReseedPolicyDiscardsValidSnapshot(t *testing.T) {
	ctx := context.Background()
	backend := newBadger(t)
	data, err := EncodeSnapshot(savedState())
	require.NoError(t, err)
	require.NoError(t, backend.Set([]byte(DefaultKey), data))

	s := store.New()
	_, err = NewBridge(backend, testSeed, WithStartupPolicy(PolicyReseed), WithBridgeLogger(quietLogger())).Attach(ctx, s)
	require.NoError(t, err)

	assert.Equal(t, "seed-u1", s.State().Users[0].ID)
	_, ok := s.State().FindDeal("d7")
	assert.False(t, ok)
}

func TestBridgeLoadPolicyKeepsValidSnapshot(t *testing.T) {
	ctx := context.Background()
	backend := newBadger(t)
	data, err := EncodeSnapshot(savedState())
	require.NoError(t, err)
	require.NoError(t, backend.Set([]byte(DefaultKey), data))

	s := store.New()
	_, err = NewBridge(backend, testSeed, WithStartupPolicy(PolicyLoad), WithBridgeLogger(quietLogger())).Attach(ctx, s)
	require.NoError(t, err)

	st := s.State()
	assert.Equal(t, "u7", st.Users[0].ID)
	deal, ok := st.FindDeal("d7")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), deal.CloseDate)
}

func TestBridgeWritesAfterEveryCommit(t *testing.T) {
	ctx := context.Background()
	backend := newBadger(t)
	s := store.New()
	bridge := NewBridge(backend, testSeed, WithKey("custom-key"), WithBridgeLogger(quietLogger()))
	_, err := bridge.Attach(ctx, s)
	require.NoError(t, err)

	require.NoError(t, s.Dispatch(ctx, store.AddDeal{Deal: models.Deal{ID: "d1", Name: "New Deal", Stage: models.StageLead}}))

	saved, err := bridge.Saved()
	require.NoError(t, err)
	require.Len(t, *saved.Deals, 1)
	assert.Equal(t, "New Deal", (*saved.Deals)[0].Name)

	_, err = backend.Get([]byte(DefaultKey))
	assert.ErrorIs(t, err, ErrNotFound, "custom key replaces the default slot")
}

func TestBridgeNoWritesBeforeHydration(t *testing.T) {
	ctx := context.Background()
	backend := newBadger(t)
	s := store.New()
	bridge := NewBridge(backend, testSeed, WithBridgeLogger(quietLogger()))
	s.Subscribe(bridge.observe)

	require.NoError(t, s.Dispatch(ctx, store.SetLoading{Loading: true}))

	_, err := backend.Get([]byte(DefaultKey))
	assert.ErrorIs(t, err, ErrNotFound)
}

type failingBackend struct {
	Backend
	failSet bool
}

func (f *failingBackend) Set(key, value []byte) error {
	if f.failSet {
		return errors.New("quota exceeded")
	}
	return f.Backend.Set(key, value)
}

type recorder struct {
	ok, failed int
}

func (r *recorder) ObserveWrite(_ int, err error) {
	if err != nil {
		r.failed++
		return
	}
	r.ok++
}

func TestBridgeWriteFailureIsNotSurfaced(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{Backend: newBadger(t)}
	rec := &recorder{}
	s := store.New()
	_, err := NewBridge(backend, testSeed, WithWriteRecorder(rec), WithBridgeLogger(quietLogger())).Attach(ctx, s)
	require.NoError(t, err)

	backend.failSet = true
	err = s.Dispatch(ctx, store.AddContact{Contact: models.Contact{ID: "p1"}})
	assert.NoError(t, err)
	assert.Len(t, s.State().Contacts, 1)
	assert.Equal(t, 1, rec.ok)
	assert.Equal(t, 1, rec.failed)
}

func TestBridgeClear(t *testing.T) {
	ctx := context.Background()
	backend := newBadger(t)
	s := store.New()
	bridge := NewBridge(backend, testSeed, WithBridgeLogger(quietLogger()))
	_, err := bridge.Attach(ctx, s)
	require.NoError(t, err)

	require.NoError(t, bridge.Clear())
	_, err = bridge.Saved()
	assert.ErrorIs(t, err, ErrNotFound)

	// clearing twice is fine
	require.NoError(t, bridge.Clear())
}

type brokenBackend struct{ Backend }

func (brokenBackend) Get([]byte) ([]byte, error) { return nil, errors.New("disk on fire") }

func TestBridgeReadErrorFailsAttach(t *testing.T) {
	s := store.New()
	_, err := NewBridge(brokenBackend{}, testSeed, WithBridgeLogger(quietLogger())).Attach(context.Background(), s)
	assert.Error(t, err)
	assert.Empty(t, s.State().Users)
}
