package trust

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"github.com/ShaneCastle/vmdisk/internal/util/keygen"
)

func testPublicKey(t *testing.T) ssh.PublicKey {
	t.Helper()
	keyPair, err := keygen.GenerateRSAKeyPair(2048)
	require.NoError(t, err)
	pub, _, _, _, err := ssh.ParseAuthorizedKey(keyPair.PublicKey)
	require.NoError(t, err)
	return pub
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "config", "known_hosts"))
	require.NoError(t, err)
	return store
}

func TestNewStore_CreatesFile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNewStore_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := NewStore("")
	assert.Error(t, err)
}

func TestAdd_Idempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	key := testPublicKey(t)

	added, err := store.Add("203.0.113.10:22", key)
	require.NoError(t, err)
	assert.True(t, added)

	// Installing the same key again must not duplicate the entry.
	added, err = store.Add("203.0.113.10:22", key)
	require.NoError(t, err)
	assert.False(t, added)

	content, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(content), "\n"))
}

func TestAdd_KeyMismatch(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.Add("203.0.113.10:22", testPublicKey(t))
	require.NoError(t, err)

	_, err = store.Add("203.0.113.10:22", testPublicKey(t))
	assert.ErrorContains(t, err, "does not match")
}

func TestContains(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	key := testPublicKey(t)

	known, err := store.Contains("203.0.113.10:22", key)
	require.NoError(t, err)
	assert.False(t, known)

	_, err = store.Add("203.0.113.10:22", key)
	require.NoError(t, err)

	known, err = store.Contains("203.0.113.10:22", key)
	require.NoError(t, err)
	assert.True(t, known)

	// A different host is not covered by the entry.
	known, err = store.Contains("203.0.113.11:22", key)
	require.NoError(t, err)
	assert.False(t, known)
}

func TestHostKeyCallback(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	key := testPublicKey(t)

	_, err := store.Add("203.0.113.10:22", key)
	require.NoError(t, err)

	callback, err := store.HostKeyCallback()
	require.NoError(t, err)

	assert.NoError(t, callback("203.0.113.10:22", dummyRemote("203.0.113.10:22"), key))
	assert.Error(t, callback("203.0.113.10:22", dummyRemote("203.0.113.10:22"), testPublicKey(t)))
}
