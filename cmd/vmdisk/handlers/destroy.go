package handlers

import (
	"context"
	"fmt"
	"log"
)

// DestroyOptions carries the destroy command's flag values.
type DestroyOptions struct {
	Service       string
	VM            string
	DeleteNetwork bool
}

// Destroy handles the destroy command.
//
// It deletes the VM's data disks, the server and the uploaded SSH key, in
// that order. The service network is only removed when requested.
func Destroy(ctx context.Context, opts DestroyOptions) error {
	token, err := requireToken()
	if err != nil {
		return err
	}
	infra := newInfraClient(token)

	log.Printf("Destroying VM %s (service %s)", opts.VM, opts.Service)

	volumes, err := infra.ListServerVolumes(ctx, opts.VM)
	if err != nil {
		return fmt.Errorf("failed to list data disks of %s: %w", opts.VM, err)
	}
	for _, volume := range volumes {
		log.Printf("Deleting data disk %s", volume.Name)
		if err := infra.DeleteVolume(ctx, volume.Name); err != nil {
			return fmt.Errorf("failed to delete data disk %s: %w", volume.Name, err)
		}
	}

	if err := infra.DeleteServer(ctx, opts.VM); err != nil {
		return fmt.Errorf("failed to delete server %s: %w", opts.VM, err)
	}

	if err := infra.DeleteSSHKey(ctx, opts.VM+"-admin"); err != nil {
		return fmt.Errorf("failed to delete SSH key of %s: %w", opts.VM, err)
	}

	if opts.DeleteNetwork {
		log.Printf("Deleting service network %s", opts.Service)
		if err := infra.DeleteNetwork(ctx, opts.Service); err != nil {
			return fmt.Errorf("failed to delete network %s: %w", opts.Service, err)
		}
	}

	log.Printf("VM %s destroyed", opts.VM)
	return nil
}
