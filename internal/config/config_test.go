package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()

	assert.Equal(t, DefaultImageFilter, cfg.ImageFilter)
	assert.True(t, cfg.OfficialImagesOnly)
	assert.Equal(t, DefaultServerType, cfg.ServerType)
	assert.Equal(t, DefaultFilesystem, cfg.Filesystem)
	assert.Equal(t, DefaultSSHUser, cfg.SSHUser)
	assert.NotEmpty(t, cfg.KnownHostsFile)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EmptyPathYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vmdisk.yaml")
	content := `
image_filter: debian-12*
server_type: cx32
filesystem: xfs
ssh_user: ops
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debian-12*", cfg.ImageFilter)
	assert.Equal(t, "cx32", cfg.ServerType)
	assert.Equal(t, "xfs", cfg.Filesystem)
	assert.Equal(t, "ops", cfg.SSHUser)
	// Omitted fields fall back to defaults.
	assert.Equal(t, DefaultNetworkIPRange, cfg.NetworkIPRange)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("image_filter: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadTimeouts_Defaults(t *testing.T) {
	timeouts := LoadTimeouts()

	assert.Equal(t, 10*time.Minute, timeouts.ServerCreate)
	assert.Equal(t, 5*time.Minute, timeouts.VolumeAttach)
	assert.Equal(t, 5, timeouts.RetryMaxAttempts)
}

func TestLoadTimeouts_FromEnv(t *testing.T) {
	t.Setenv("VMDISK_TIMEOUT_SERVER_CREATE", "3m")
	t.Setenv("VMDISK_RETRY_MAX_ATTEMPTS", "9")
	t.Setenv("VMDISK_RETRY_INITIAL_DELAY", "garbage")

	timeouts := LoadTimeouts()

	assert.Equal(t, 3*time.Minute, timeouts.ServerCreate)
	assert.Equal(t, 9, timeouts.RetryMaxAttempts)
	// Invalid values fall back to the default.
	assert.Equal(t, time.Second, timeouts.RetryInitialDelay)
}
