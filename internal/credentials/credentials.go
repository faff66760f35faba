// Package credentials resolves the SSH identity used to log into provisioned
// VMs.
//
// The username and private key file come from the config file, may be
// overridden with VMDISK_SSH_USER and VMDISK_SSH_KEY_FILE, and are prompted
// for interactively when the process runs on a terminal and a value is
// missing. A key file that does not exist yet is populated with a freshly
// generated key pair.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"golang.org/x/crypto/ssh"

	"github.com/ShaneCastle/vmdisk/internal/util/keygen"
)

const (
	envSSHUser    = "VMDISK_SSH_USER"
	envSSHKeyFile = "VMDISK_SSH_KEY_FILE"
)

// Credentials is a ready-to-use SSH identity.
type Credentials struct {
	User string
	// PrivateKey is the PEM-encoded private key.
	PrivateKey []byte
	// PublicKey is the matching public key in authorized_keys format,
	// suitable for uploading to the cloud provider.
	PublicKey string
}

// Supplier produces the SSH identity for a provisioning run.
type Supplier interface {
	Credentials(ctx context.Context) (*Credentials, error)
}

// NewSupplier picks the right supplier for the environment: interactive when
// stdin is a terminal, static otherwise. Environment overrides are applied
// before the choice.
func NewSupplier(user, keyFile string) Supplier {
	user, keyFile = FromEnvironment(user, keyFile)
	if isTerminal() {
		return &Interactive{User: user, KeyFile: keyFile}
	}
	return &Static{User: user, KeyFile: keyFile}
}

// FromEnvironment overlays VMDISK_SSH_USER and VMDISK_SSH_KEY_FILE over the
// given values.
func FromEnvironment(user, keyFile string) (string, string) {
	if v := os.Getenv(envSSHUser); v != "" {
		user = v
	}
	if v := os.Getenv(envSSHKeyFile); v != "" {
		keyFile = v
	}
	return user, keyFile
}

// Static loads the identity from a fixed username and key file.
type Static struct {
	User    string
	KeyFile string
}

// Credentials reads and validates the key file.
func (s *Static) Credentials(_ context.Context) (*Credentials, error) {
	return load(s.User, s.KeyFile)
}

// Interactive prompts for the username and key file, pre-filled with the
// configured values.
type Interactive struct {
	User    string
	KeyFile string
}

// Credentials runs the prompt and loads the resulting key file.
func (i *Interactive) Credentials(ctx context.Context) (*Credentials, error) {
	user := i.User
	keyFile := i.KeyFile

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("SSH Username").
				Description("Login user on the provisioned VM").
				Placeholder("root").
				Value(&user),
			huh.NewInput().
				Title("SSH Private Key File").
				Description("Path to the PEM-encoded private key").
				Placeholder("~/.ssh/id_ed25519").
				Value(&keyFile),
		).Title("SSH Credentials"),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("credential prompt aborted: %w", err)
	}

	return load(user, keyFile)
}

// load reads the private key file, generating a new identity when the file
// does not exist yet, and derives the public half.
func load(user, keyFile string) (*Credentials, error) {
	if user == "" {
		return nil, fmt.Errorf("SSH username is required (set %s or configure ssh_user)", envSSHUser)
	}
	if keyFile == "" {
		return nil, fmt.Errorf("SSH key file is required (set %s or configure ssh_key_file)", envSSHKeyFile)
	}

	privateKey, err := os.ReadFile(keyFile)
	if errors.Is(err, os.ErrNotExist) {
		privateKey, err = generateKeyFile(keyFile)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read SSH key file: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SSH private key %s: %w", keyFile, err)
	}

	return &Credentials{
		User:       user,
		PrivateKey: privateKey,
		PublicKey:  string(ssh.MarshalAuthorizedKey(signer.PublicKey())),
	}, nil
}

// generateKeyFile creates a fresh RSA identity at path, writing the private
// key and its authorized_keys half next to it.
func generateKeyFile(path string) ([]byte, error) {
	keyPair, err := keygen.GenerateRSAKeyPair(4096)
	if err != nil {
		return nil, fmt.Errorf("failed to generate SSH key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create SSH key directory: %w", err)
	}
	if err := os.WriteFile(path, keyPair.PrivateKey, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write SSH key file: %w", err)
	}
	if err := os.WriteFile(path+".pub", keyPair.PublicKey, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write SSH public key file: %w", err)
	}

	return keyPair.PrivateKey, nil
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}
