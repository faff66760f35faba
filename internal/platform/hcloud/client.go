package hcloud

import (
	"context"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/ShaneCastle/vmdisk/internal/image"
)

// ServerCreateOpts holds all parameters for creating a VM.
type ServerCreateOpts struct {
	Name       string
	ImageID    string
	ServerType string
	Location   string
	NetworkID  int64
	SSHKeyID   int64
	Labels     map[string]string
}

// VolumeCreateOpts holds all parameters for creating a data disk.
type VolumeCreateOpts struct {
	Name     string
	SizeGB   int
	Location string
	Labels   map[string]string
}

// ImageCatalog lists the selectable OS images.
type ImageCatalog interface {
	// ListImages returns the full catalog, official system images and user
	// snapshots alike, mapped to the provider-agnostic image type.
	ListImages(ctx context.Context) ([]image.Image, error)
}

// LocationResolver looks up geographic locations.
type LocationResolver interface {
	// GetLocation returns the location with the given name, or nil if the
	// provider does not know it.
	GetLocation(ctx context.Context, name string) (*hcloud.Location, error)
}

// NetworkManager manages the hosting container network for a service.
type NetworkManager interface {
	// GetNetwork returns the network with the given name, or nil if absent.
	GetNetwork(ctx context.Context, name string) (*hcloud.Network, error)
	EnsureNetwork(ctx context.Context, name, ipRange string, labels map[string]string) (*hcloud.Network, error)
	EnsureSubnet(ctx context.Context, network *hcloud.Network, ipRange, networkZone string) error
	DeleteNetwork(ctx context.Context, name string) error
}

// ServerManager provisions and inspects VMs.
type ServerManager interface {
	// GetServerByName returns the full server object by name, or nil if not found.
	GetServerByName(ctx context.Context, name string) (*hcloud.Server, error)
	// CreateServer creates a new server and blocks until the provider
	// reports it running.
	CreateServer(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error)
	DeleteServer(ctx context.Context, name string) error
	// GetServerIP returns the public IPv4 of the server.
	GetServerIP(ctx context.Context, name string) (string, error)
}

// VolumeManager manages data disks and their attachment to VMs.
type VolumeManager interface {
	// ListServerVolumes returns the data disks labeled as belonging to the
	// named VM, attached or not.
	ListServerVolumes(ctx context.Context, serverName string) ([]*hcloud.Volume, error)
	CreateVolume(ctx context.Context, opts VolumeCreateOpts) (*hcloud.Volume, error)
	AttachVolume(ctx context.Context, volume *hcloud.Volume, server *hcloud.Server) error
	DetachVolume(ctx context.Context, volume *hcloud.Volume) error
	DeleteVolume(ctx context.Context, name string) error
}

// SSHKeyManager manages uploaded administrator public keys.
type SSHKeyManager interface {
	EnsureSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (*hcloud.SSHKey, error)
	DeleteSSHKey(ctx context.Context, name string) error
}

// InfrastructureManager combines all provider interfaces.
type InfrastructureManager interface {
	ImageCatalog
	LocationResolver
	NetworkManager
	ServerManager
	VolumeManager
	SSHKeyManager
}
