package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	ServerCreate      time.Duration // Timeout for server creation operations
	VolumeAttach      time.Duration // Timeout for volume create/attach operations
	Delete            time.Duration // Timeout for all delete operations
	RemoteFormat      time.Duration // Timeout for the remote disk-format session
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - VMDISK_TIMEOUT_SERVER_CREATE (default: 10m)
//   - VMDISK_TIMEOUT_VOLUME_ATTACH (default: 5m)
//   - VMDISK_TIMEOUT_DELETE (default: 5m)
//   - VMDISK_TIMEOUT_REMOTE_FORMAT (default: 10m)
//   - VMDISK_RETRY_MAX_ATTEMPTS (default: 5)
//   - VMDISK_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		ServerCreate:      parseDuration("VMDISK_TIMEOUT_SERVER_CREATE", 10*time.Minute),
		VolumeAttach:      parseDuration("VMDISK_TIMEOUT_VOLUME_ATTACH", 5*time.Minute),
		Delete:            parseDuration("VMDISK_TIMEOUT_DELETE", 5*time.Minute),
		RemoteFormat:      parseDuration("VMDISK_TIMEOUT_REMOTE_FORMAT", 10*time.Minute),
		RetryMaxAttempts:  parseInt("VMDISK_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("VMDISK_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
