package session_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	session "github.com/ussdautopay/go-session"
)

func runStoreContract(t *testing.T, store session.TokenStore) {
	t.Helper()

	// Empty store reads as absent.
	_, _, ok := store.Load()
	assert.False(t, ok)

	user := testUser(session.UserTypeSubscribed)
	require.NoError(t, store.Save("tok-abc", user))

	credential, got, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "tok-abc", credential)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)

	// Save replaces, never merges.
	other := testUser(session.UserTypeAdmin)
	other.Email = "admin@example.com"
	require.NoError(t, store.Save("tok-def", other))

	credential, got, ok = store.Load()
	require.True(t, ok)
	assert.Equal(t, "tok-def", credential)
	assert.Equal(t, "admin@example.com", got.Email)

	require.NoError(t, store.Clear())
	_, _, ok = store.Load()
	assert.False(t, ok)

	// Clear on an empty store is a no-op, not an error.
	require.NoError(t, store.Clear())
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, session.NewMemoryStore())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := session.NewMemoryStore()

	user := testUser(session.UserTypeUser)
	require.NoError(t, store.Save("tok", user))

	user.Email = "mutated@example.com"

	_, got, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "fan@example.com", got.Email, "the store keeps its own copy")

	got.Email = "mutated-again@example.com"
	_, again, _ := store.Load()
	assert.Equal(t, "fan@example.com", again.Email)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	runStoreContract(t, session.NewFileStore(path))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	first := session.NewFileStore(path)
	require.NoError(t, first.Save("tok-persisted", testUser(session.UserTypeUser)))

	second := session.NewFileStore(path)
	credential, user, ok := second.Load()
	require.True(t, ok)
	assert.Equal(t, "tok-persisted", credential)
	assert.Equal(t, int64(42), user.ID)
}

func TestFileStoreCorruptFileReadsAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := session.NewFileStore(path)

	require.NoError(t, store.Save("tok", testUser(session.UserTypeUser)))
	writeGarbage(t, path)

	_, _, ok := store.Load()
	assert.False(t, ok)
}

func TestBunStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := session.OpenSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	runStoreContract(t, store)
}

func TestBunStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	first, err := session.OpenSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Save("tok-db", testUser(session.UserTypeAdmin)))
	require.NoError(t, first.Close())

	second, err := session.OpenSQLiteStore(path)
	require.NoError(t, err)
	defer second.Close()

	credential, user, ok := second.Load()
	require.True(t, ok)
	assert.Equal(t, "tok-db", credential)
	assert.Equal(t, session.UserTypeAdmin, user.Type())
}
