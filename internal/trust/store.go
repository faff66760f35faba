// Package trust manages the local SSH host key trust store.
//
// The store is a standard OpenSSH known_hosts file kept under the user's
// vmdisk config directory. Provisioning installs a freshly created VM's host
// key exactly once; later connections verify against the stored key and fail
// if the host presents a different one.
package trust

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const scanUser = "hostkey-scan"

// Store is a known_hosts file with idempotent appends.
type Store struct {
	path string
}

// NewStore opens the known_hosts file at path, creating it and its parent
// directory if missing.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("trust store path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create trust store directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open trust store %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("failed to close trust store %s: %w", path, err)
	}

	return &Store{path: path}, nil
}

// Path returns the known_hosts file location.
func (s *Store) Path() string {
	return s.path
}

// Contains reports whether addr is already trusted with the given key.
// A stored entry with a different key is an error, not a miss.
func (s *Store) Contains(addr string, key ssh.PublicKey) (bool, error) {
	callback, err := s.HostKeyCallback()
	if err != nil {
		return false, err
	}

	err = callback(addr, dummyRemote(addr), key)
	if err == nil {
		return true, nil
	}

	var keyErr *knownhosts.KeyError
	if errors.As(err, &keyErr) {
		if len(keyErr.Want) == 0 {
			return false, nil
		}
		return false, fmt.Errorf("host key for %s does not match the trusted key: %w", addr, err)
	}
	return false, err
}

// Add installs the host key for addr. The call is idempotent: a key that is
// already trusted is not appended again. It reports whether a new entry was
// written.
func (s *Store) Add(addr string, key ssh.PublicKey) (bool, error) {
	known, err := s.Contains(addr, key)
	if err != nil {
		return false, err
	}
	if known {
		return false, nil
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return false, fmt.Errorf("failed to open trust store for writing: %w", err)
	}
	defer func() { _ = file.Close() }()

	line := knownhosts.Line([]string{addr}, key)
	if _, err := fmt.Fprintln(file, line); err != nil {
		return false, fmt.Errorf("failed to append trust store entry: %w", err)
	}

	return true, nil
}

// HostKeyCallback returns a verification callback backed by the store.
func (s *Store) HostKeyCallback() (ssh.HostKeyCallback, error) {
	callback, err := knownhosts.New(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load trust store %s: %w", s.path, err)
	}
	return callback, nil
}

// ScanHostKey connects to addr and captures the host key the server presents.
// The handshake is aborted after the key exchange, so no authentication takes
// place.
func ScanHostKey(ctx context.Context, addr string, timeout time.Duration) (ssh.PublicKey, error) {
	var captured ssh.PublicKey

	config := &ssh.ClientConfig{
		User: scanUser,
		HostKeyCallback: func(hostname string, remote net.Addr, key ssh.PublicKey) error {
			captured = key
			return nil
		},
		Timeout: timeout,
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s for host key scan: %w", addr, err)
	}

	sshConn, chans, reqs, handshakeErr := ssh.NewClientConn(conn, addr, config)
	if handshakeErr == nil {
		_ = ssh.NewClient(sshConn, chans, reqs).Close()
	} else {
		_ = conn.Close()
	}

	// Authentication is expected to fail; the key is captured during the
	// key exchange that precedes it.
	if captured == nil {
		return nil, fmt.Errorf("failed to scan host key from %s: %w", addr, handshakeErr)
	}
	return captured, nil
}

// dummyRemote builds a placeholder net.Addr so the knownhosts callback can be
// used for lookups outside a live connection.
func dummyRemote(addr string) net.Addr {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	ip := net.ParseIP(host)
	if ip == nil {
		ip = net.IPv4zero
	}
	return &net.TCPAddr{IP: ip, Port: 22}
}
