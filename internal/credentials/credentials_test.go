package credentials

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShaneCastle/vmdisk/internal/util/keygen"
)

func writeTestKey(t *testing.T) string {
	t.Helper()
	keyPair, err := keygen.GenerateRSAKeyPair(2048)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id_rsa")
	require.NoError(t, os.WriteFile(path, keyPair.PrivateKey, 0o600))
	return path
}

func TestStatic_Credentials(t *testing.T) {
	t.Parallel()

	supplier := &Static{User: "deploy", KeyFile: writeTestKey(t)}

	creds, err := supplier.Credentials(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "deploy", creds.User)
	assert.NotEmpty(t, creds.PrivateKey)
	assert.True(t, strings.HasPrefix(creds.PublicKey, "ssh-rsa "))
}

func TestStatic_Invalid(t *testing.T) {
	t.Parallel()

	keyFile := writeTestKey(t)

	garbage := filepath.Join(t.TempDir(), "garbage")
	require.NoError(t, os.WriteFile(garbage, []byte("not a key"), 0o600))

	tests := []struct {
		name    string
		user    string
		keyFile string
		wantErr string
	}{
		{"missing user", "", keyFile, "username is required"},
		{"missing key file", "deploy", "", "key file is required"},
		{"unparseable key", "deploy", garbage, "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			supplier := &Static{User: tt.user, KeyFile: tt.keyFile}
			_, err := supplier.Credentials(context.Background())
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestStatic_GeneratesMissingKeyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keys", "id_rsa")
	supplier := &Static{User: "deploy", KeyFile: path}

	creds, err := supplier.Credentials(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(creds.PublicKey, "ssh-rsa "))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	pub, err := os.ReadFile(path + ".pub")
	require.NoError(t, err)
	assert.Equal(t, creds.PublicKey, string(pub))

	// A second run reuses the generated identity.
	again, err := supplier.Credentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, creds.PrivateKey, again.PrivateKey)
}

func TestFromEnvironment(t *testing.T) {
	t.Setenv(envSSHUser, "override-user")
	t.Setenv(envSSHKeyFile, "")

	user, keyFile := FromEnvironment("config-user", "config-key")
	assert.Equal(t, "override-user", user)
	assert.Equal(t, "config-key", keyFile)
}
