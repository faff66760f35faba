// Package handlers implements the command logic behind the CLI surface.
//
// Handlers wire configuration, the provider client and the provisioner
// together. Construction goes through package-level factory variables so
// tests can substitute mocks.
package handlers

import (
	"fmt"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/ShaneCastle/vmdisk/internal/config"
	"github.com/ShaneCastle/vmdisk/internal/credentials"
	"github.com/ShaneCastle/vmdisk/internal/platform/hcloud"
	"github.com/ShaneCastle/vmdisk/internal/provision"
	"github.com/ShaneCastle/vmdisk/internal/trust"
)

// Factory function variables - can be replaced in tests.
var (
	// newInfraClient creates the real Hetzner Cloud client.
	newInfraClient = func(token string) hcloud.InfrastructureManager {
		return hcloud.NewRealClient(token, hcloud.WithTimeouts(config.LoadTimeouts()))
	}

	// newTrustStore opens the host key trust store.
	newTrustStore = func(path string) (provision.TrustStore, error) {
		return trust.NewStore(path)
	}

	// newCredentialSupplier picks the credential source for the run.
	newCredentialSupplier = func(user, keyFile string) credentials.Supplier {
		return credentials.NewSupplier(user, keyFile)
	}

	// newProvisioner builds the provisioning driver.
	newProvisioner = func(deps provision.Deps) *provision.Provisioner {
		return provision.New(deps)
	}
)

// requireToken reads the provider token from the environment.
func requireToken() (string, error) {
	token := os.Getenv("HCLOUD_TOKEN")
	if token == "" {
		return "", fmt.Errorf("HCLOUD_TOKEN environment variable is required")
	}
	return token, nil
}

// newLogger returns the logger threaded through the provisioner.
func newLogger() logr.Logger {
	return stdr.New(log.New(os.Stderr, "", log.LstdFlags))
}
