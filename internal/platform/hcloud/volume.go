package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/ShaneCastle/vmdisk/internal/util/retry"
)

// Labels recording which service/VM a data disk belongs to and at which slot
// it is attached. Slot numbers live in labels because the provider has no
// native attachment-point numbering.
const (
	LabelService = "vmdisk-service"
	LabelVM      = "vmdisk-vm"
	LabelSlot    = "vmdisk-slot"
)

// VolumeName returns the canonical name for the data disk of a VM at a slot.
func VolumeName(vmName string, slot int) string {
	return fmt.Sprintf("%s-disk-%d", vmName, slot)
}

// VolumeLabels returns the labels applied to a newly created data disk.
func VolumeLabels(serviceName, vmName string, slot int) map[string]string {
	return map[string]string{
		LabelService: serviceName,
		LabelVM:      vmName,
		LabelSlot:    strconv.Itoa(slot),
	}
}

// VolumeSlot extracts the slot number from a volume's labels. The second
// return is false for volumes not managed by vmdisk.
func VolumeSlot(volume *hcloud.Volume) (int, bool) {
	raw, ok := volume.Labels[LabelSlot]
	if !ok {
		return 0, false
	}
	slot, err := strconv.Atoi(raw)
	if err != nil || slot < 0 {
		return 0, false
	}
	return slot, true
}

// ListServerVolumes returns the data disks labeled as belonging to the named
// VM, attached or not.
func (c *RealClient) ListServerVolumes(ctx context.Context, serverName string) ([]*hcloud.Volume, error) {
	volumes, err := c.client.Volume.AllWithOpts(ctx, hcloud.VolumeListOpts{
		ListOpts: hcloud.ListOpts{
			LabelSelector: buildLabelSelector(map[string]string{LabelVM: serverName}),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list volumes: %w", err)
	}
	return volumes, nil
}

// CreateVolume creates a new data disk in the given location and waits for it
// to become available.
func (c *RealClient) CreateVolume(ctx context.Context, opts VolumeCreateOpts) (*hcloud.Volume, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.VolumeAttach)
	defer cancel()

	location, _, err := c.client.Location.Get(ctx, opts.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	if location == nil {
		return nil, fmt.Errorf("location not found: %s", opts.Location)
	}

	result, _, err := c.client.Volume.Create(ctx, hcloud.VolumeCreateOpts{
		Name:     opts.Name,
		Size:     opts.SizeGB,
		Location: location,
		Labels:   opts.Labels,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create volume: %w", err)
	}

	actions := result.NextActions
	if result.Action != nil {
		actions = append([]*hcloud.Action{result.Action}, actions...)
	}
	if len(actions) > 0 {
		if err := c.client.Action.WaitFor(ctx, actions...); err != nil {
			return nil, fmt.Errorf("failed to wait for volume creation: %w", err)
		}
	}

	return result.Volume, nil
}

// AttachVolume attaches the volume to the server without guest automount;
// the remote format routine takes over inside the guest.
func (c *RealClient) AttachVolume(ctx context.Context, volume *hcloud.Volume, server *hcloud.Server) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.VolumeAttach)
	defer cancel()

	return retry.Do(ctx, func() error {
		action, _, err := c.client.Volume.AttachWithOpts(ctx, volume, hcloud.VolumeAttachOpts{
			Server:    server,
			Automount: hcloud.Ptr(false),
		})
		if err != nil {
			if isResourceLocked(err) {
				return err // Retryable
			}
			return retry.Fatal(err)
		}
		if err := c.client.Action.WaitFor(ctx, action); err != nil {
			return retry.Fatal(err)
		}
		return nil
	},
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay))
}

// DetachVolume detaches the volume from its server. Detaching an unattached
// volume is a no-op.
func (c *RealClient) DetachVolume(ctx context.Context, volume *hcloud.Volume) error {
	if volume.Server == nil {
		return nil
	}

	action, _, err := c.client.Volume.Detach(ctx, volume)
	if err != nil {
		return fmt.Errorf("failed to detach volume: %w", err)
	}
	if err := c.client.Action.WaitFor(ctx, action); err != nil {
		return fmt.Errorf("failed to wait for volume detach: %w", err)
	}
	return nil
}

// DeleteVolume detaches (if needed) and deletes the volume with the given
// name.
func (c *RealClient) DeleteVolume(ctx context.Context, name string) error {
	return (&DeleteOperation[*hcloud.Volume]{
		Name:         name,
		ResourceType: "volume",
		Get:          c.client.Volume.Get,
		Delete: func(ctx context.Context, volume *hcloud.Volume) (*hcloud.Response, error) {
			if err := c.DetachVolume(ctx, volume); err != nil {
				return nil, err
			}
			return c.client.Volume.Delete(ctx, volume)
		},
	}).Execute(ctx, c)
}
