package ssh

import (
	"testing"
	"time"

	cryptossh "golang.org/x/crypto/ssh"

	"github.com/ShaneCastle/vmdisk/internal/util/keygen"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	keyPair, err := keygen.GenerateRSAKeyPair(2048)
	if err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	return keyPair.PrivateKey
}

func TestNewClient_Success(t *testing.T) {
	t.Parallel()

	client, err := NewClient(&Config{
		Host:            "10.0.1.5",
		User:            "root",
		PrivateKey:      testKey(t),
		HostKeyCallback: cryptossh.InsecureIgnoreHostKey(),
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if client.config.Port != defaultPort {
		t.Errorf("expected default port %d, got %d", defaultPort, client.config.Port)
	}
	if client.config.DialTimeout != defaultDialTimeout {
		t.Errorf("expected default dial timeout %v, got %v", defaultDialTimeout, client.config.DialTimeout)
	}
	if client.config.MaxRetries != defaultMaxRetries {
		t.Errorf("expected default max retries %d, got %d", defaultMaxRetries, client.config.MaxRetries)
	}
	if client.signer == nil {
		t.Error("expected parsed signer")
	}
}

func TestNewClient_DoesNotMutateCaller(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		Host:            "10.0.1.5",
		User:            "root",
		PrivateKey:      testKey(t),
		HostKeyCallback: cryptossh.InsecureIgnoreHostKey(),
	}
	if _, err := NewClient(cfg); err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if cfg.Port != 0 || cfg.DialTimeout != 0 {
		t.Error("NewClient mutated the caller's config")
	}
}

func TestNewClient_ExplicitValuesKept(t *testing.T) {
	t.Parallel()

	client, err := NewClient(&Config{
		Host:            "10.0.1.5",
		Port:            2222,
		User:            "admin",
		PrivateKey:      testKey(t),
		DialTimeout:     3 * time.Second,
		MaxRetries:      2,
		RetryDelay:      time.Second,
		HostKeyCallback: cryptossh.InsecureIgnoreHostKey(),
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.config.Port != 2222 {
		t.Errorf("expected port 2222, got %d", client.config.Port)
	}
	if client.config.MaxRetries != 2 {
		t.Errorf("expected 2 retries, got %d", client.config.MaxRetries)
	}
}

func TestNewClient_Invalid(t *testing.T) {
	t.Parallel()

	key := testKey(t)
	callback := cryptossh.InsecureIgnoreHostKey()

	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"empty host", &Config{User: "root", PrivateKey: key, HostKeyCallback: callback}},
		{"empty user", &Config{Host: "10.0.1.5", PrivateKey: key, HostKeyCallback: callback}},
		{"empty key", &Config{Host: "10.0.1.5", User: "root", HostKeyCallback: callback}},
		{"nil host key callback", &Config{Host: "10.0.1.5", User: "root", PrivateKey: key}},
		{"garbage key", &Config{Host: "10.0.1.5", User: "root", PrivateKey: []byte("not a key"), HostKeyCallback: callback}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewClient(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}
