package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreGetAbsent(t *testing.T) {
	store := newTestStore(t)
	value, err := store.Get("missing")
	require.NoError(t, err)
	require.Empty(t, value)
}

func TestStoreSetGet(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(KeySessionID, "token-1"))

	value, err := store.Get(KeySessionID)
	require.NoError(t, err)
	require.Equal(t, "token-1", value)

	// Set overwrites.
	require.NoError(t, store.Set(KeySessionID, "token-2"))
	value, err = store.Get(KeySessionID)
	require.NoError(t, err)
	require.Equal(t, "token-2", value)
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(KeySessionID, "token"))
	require.NoError(t, store.Delete(KeySessionID))

	value, err := store.Get(KeySessionID)
	require.NoError(t, err)
	require.Empty(t, value)

	// Deleting an absent key is fine.
	require.NoError(t, store.Delete(KeySessionID))
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(KeySessionID, "token"))
	require.NoError(t, store.Set(KeyUserID, "u1"))
	require.NoError(t, store.Set(KeyGuestRequests, `{"count":3}`))

	require.NoError(t, store.Clear())

	keys, err := store.Keys()
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestStoreKeys(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set(KeyUserID, "u1"))
	require.NoError(t, store.Set(KeySessionID, "token"))

	keys, err := store.Keys()
	require.NoError(t, err)
	require.Equal(t, []string{KeySessionID, KeyUserID}, keys)
}

func TestStorePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := New(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyUserName, "Иван"))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(KeyUserName)
	require.NoError(t, err)
	require.Equal(t, "Иван", value)
}
