// ABOUTME: Tests for the Charm KV backend without a charm server
// ABOUTME: Stands in an in-memory BadgerDB for charm's kv and records sync calls
package persist

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testKV mirrors charm's kv.KV over a local BadgerDB, which reports missing
// keys with badger.ErrKeyNotFound just like charm does.
type testKV struct {
	db      *badger.DB
	syncErr error
	syncs   int
}

func (t *testKV) Get(key []byte) ([]byte, error) {
	var result []byte
	err := t.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		result, err = item.ValueCopy(nil)
		return err
	})
	return result, err
}

func (t *testKV) Set(key, value []byte) error {
	return t.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (t *testKV) Delete(key []byte) error {
	return t.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (t *testKV) Sync() error {
	t.syncs++
	return t.syncErr
}

func newTestKV(t *testing.T) *testKV {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &testKV{db: db}
}

func newCharm(t *testing.T) Backend {
	t.Helper()
	return newCharmBackend(newTestKV(t), CharmConfig{Host: "localhost"})
}

func TestCharmMissingKeyIsNotFound(t *testing.T) {
	b := newCharm(t)

	_, err := b.Get([]byte("nothing-here"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCharmAutoSyncAfterWrites(t *testing.T) {
	tkv := newTestKV(t)
	b := newCharmBackend(tkv, CharmConfig{Host: "localhost", AutoSync: true})

	require.NoError(t, b.Set([]byte(DefaultKey), []byte(`{}`)))
	require.NoError(t, b.Delete([]byte(DefaultKey)))
	assert.Equal(t, 2, tkv.syncs)

	require.NoError(t, b.Sync())
	assert.Equal(t, 3, tkv.syncs)
}

func TestCharmAutoSyncOffDoesNotSync(t *testing.T) {
	tkv := newTestKV(t)
	b := newCharmBackend(tkv, CharmConfig{Host: "localhost"})

	require.NoError(t, b.Set([]byte(DefaultKey), []byte(`{}`)))
	assert.Zero(t, tkv.syncs)
}

func TestCharmAutoSyncFailureIsLogged(t *testing.T) {
	var logs bytes.Buffer
	tkv := newTestKV(t)
	tkv.syncErr = errors.New("connection refused")
	b := newCharmBackend(tkv, CharmConfig{
		Host:     "charm.example.com",
		AutoSync: true,
		Logger:   slog.New(slog.NewTextHandler(&logs, nil)),
	})

	require.NoError(t, b.Set([]byte(DefaultKey), []byte(`{"users":[]}`)), "local write still succeeds")
	got, err := b.Get([]byte(DefaultKey))
	require.NoError(t, err)
	assert.Equal(t, `{"users":[]}`, string(got))

	assert.Contains(t, logs.String(), "charm auto-sync failed")
	assert.Contains(t, logs.String(), "op=set")
	assert.Contains(t, logs.String(), "connection refused")

	assert.ErrorContains(t, b.Sync(), "connection refused")
}
