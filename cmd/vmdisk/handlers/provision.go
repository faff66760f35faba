package handlers

import (
	"context"
	"fmt"

	"github.com/ShaneCastle/vmdisk/internal/config"
	"github.com/ShaneCastle/vmdisk/internal/provision"
)

// ProvisionOptions carries the provision command's flag values.
type ProvisionOptions struct {
	Service    string
	VM         string
	Location   string
	DiskSizeGB int
	DiskCount  int
	ConfigPath string
}

// Provision handles the provision command.
//
// It loads the configuration, builds the provider client and the trust
// store, runs the provisioning state machine and prints a summary of what
// was created.
func Provision(ctx context.Context, opts ProvisionOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	token, err := requireToken()
	if err != nil {
		return err
	}

	store, err := newTrustStore(cfg.KnownHostsFile)
	if err != nil {
		return err
	}

	provisioner := newProvisioner(provision.Deps{
		Infra:       newInfraClient(token),
		Credentials: newCredentialSupplier(cfg.SSHUser, cfg.SSHKeyFile),
		Trust:       store,
		Config:      cfg,
		Timeouts:    config.LoadTimeouts(),
		Logger:      newLogger(),
	})

	result, err := provisioner.Run(ctx, provision.Request{
		Service:    opts.Service,
		VM:         opts.VM,
		Location:   opts.Location,
		DiskSizeGB: opts.DiskSizeGB,
		DiskCount:  opts.DiskCount,
	})
	if err != nil {
		return fmt.Errorf("provisioning failed: %w", err)
	}

	fmt.Print(renderSummary(result))
	return nil
}
