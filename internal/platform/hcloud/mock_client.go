package hcloud

import (
	"context"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/ShaneCastle/vmdisk/internal/image"
)

// MockClient is a mock implementation of InfrastructureManager. Every method
// delegates to the corresponding function field when set and returns a benign
// default otherwise.
type MockClient struct {
	ListImagesFunc  func(ctx context.Context) ([]image.Image, error)
	GetLocationFunc func(ctx context.Context, name string) (*hcloud.Location, error)

	GetNetworkFunc    func(ctx context.Context, name string) (*hcloud.Network, error)
	EnsureNetworkFunc func(ctx context.Context, name, ipRange string, labels map[string]string) (*hcloud.Network, error)
	EnsureSubnetFunc  func(ctx context.Context, network *hcloud.Network, ipRange, networkZone string) error
	DeleteNetworkFunc func(ctx context.Context, name string) error

	GetServerByNameFunc func(ctx context.Context, name string) (*hcloud.Server, error)
	CreateServerFunc    func(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error)
	DeleteServerFunc    func(ctx context.Context, name string) error
	GetServerIPFunc     func(ctx context.Context, name string) (string, error)

	ListServerVolumesFunc func(ctx context.Context, serverName string) ([]*hcloud.Volume, error)
	CreateVolumeFunc      func(ctx context.Context, opts VolumeCreateOpts) (*hcloud.Volume, error)
	AttachVolumeFunc      func(ctx context.Context, volume *hcloud.Volume, server *hcloud.Server) error
	DetachVolumeFunc      func(ctx context.Context, volume *hcloud.Volume) error
	DeleteVolumeFunc      func(ctx context.Context, name string) error

	EnsureSSHKeyFunc func(ctx context.Context, name, publicKey string, labels map[string]string) (*hcloud.SSHKey, error)
	DeleteSSHKeyFunc func(ctx context.Context, name string) error
}

var _ InfrastructureManager = (*MockClient)(nil)

// ListImages mocks listing the image catalog.
func (m *MockClient) ListImages(ctx context.Context) ([]image.Image, error) {
	if m.ListImagesFunc != nil {
		return m.ListImagesFunc(ctx)
	}
	return nil, nil
}

// GetLocation mocks looking up a location.
func (m *MockClient) GetLocation(ctx context.Context, name string) (*hcloud.Location, error) {
	if m.GetLocationFunc != nil {
		return m.GetLocationFunc(ctx, name)
	}
	return &hcloud.Location{Name: name, NetworkZone: hcloud.NetworkZoneEUCentral}, nil
}

// GetNetwork mocks getting a network.
func (m *MockClient) GetNetwork(ctx context.Context, name string) (*hcloud.Network, error) {
	if m.GetNetworkFunc != nil {
		return m.GetNetworkFunc(ctx, name)
	}
	return nil, nil
}

// EnsureNetwork mocks get-or-create of a network.
func (m *MockClient) EnsureNetwork(ctx context.Context, name, ipRange string, labels map[string]string) (*hcloud.Network, error) {
	if m.EnsureNetworkFunc != nil {
		return m.EnsureNetworkFunc(ctx, name, ipRange, labels)
	}
	return &hcloud.Network{ID: 1, Name: name}, nil
}

// EnsureSubnet mocks subnet creation.
func (m *MockClient) EnsureSubnet(ctx context.Context, network *hcloud.Network, ipRange, networkZone string) error {
	if m.EnsureSubnetFunc != nil {
		return m.EnsureSubnetFunc(ctx, network, ipRange, networkZone)
	}
	return nil
}

// DeleteNetwork mocks network deletion.
func (m *MockClient) DeleteNetwork(ctx context.Context, name string) error {
	if m.DeleteNetworkFunc != nil {
		return m.DeleteNetworkFunc(ctx, name)
	}
	return nil
}

// GetServerByName mocks getting a server.
func (m *MockClient) GetServerByName(ctx context.Context, name string) (*hcloud.Server, error) {
	if m.GetServerByNameFunc != nil {
		return m.GetServerByNameFunc(ctx, name)
	}
	return nil, nil
}

// CreateServer mocks server creation.
func (m *MockClient) CreateServer(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error) {
	if m.CreateServerFunc != nil {
		return m.CreateServerFunc(ctx, opts)
	}
	return &hcloud.Server{ID: 1, Name: opts.Name, Status: hcloud.ServerStatusRunning}, nil
}

// DeleteServer mocks server deletion.
func (m *MockClient) DeleteServer(ctx context.Context, name string) error {
	if m.DeleteServerFunc != nil {
		return m.DeleteServerFunc(ctx, name)
	}
	return nil
}

// GetServerIP mocks getting the server public IP.
func (m *MockClient) GetServerIP(ctx context.Context, name string) (string, error) {
	if m.GetServerIPFunc != nil {
		return m.GetServerIPFunc(ctx, name)
	}
	return "127.0.0.1", nil
}

// ListServerVolumes mocks listing a VM's data disks.
func (m *MockClient) ListServerVolumes(ctx context.Context, serverName string) ([]*hcloud.Volume, error) {
	if m.ListServerVolumesFunc != nil {
		return m.ListServerVolumesFunc(ctx, serverName)
	}
	return nil, nil
}

// CreateVolume mocks data-disk creation.
func (m *MockClient) CreateVolume(ctx context.Context, opts VolumeCreateOpts) (*hcloud.Volume, error) {
	if m.CreateVolumeFunc != nil {
		return m.CreateVolumeFunc(ctx, opts)
	}
	return &hcloud.Volume{ID: 1, Name: opts.Name, Size: opts.SizeGB, Labels: opts.Labels}, nil
}

// AttachVolume mocks attaching a data disk.
func (m *MockClient) AttachVolume(ctx context.Context, volume *hcloud.Volume, server *hcloud.Server) error {
	if m.AttachVolumeFunc != nil {
		return m.AttachVolumeFunc(ctx, volume, server)
	}
	return nil
}

// DetachVolume mocks detaching a data disk.
func (m *MockClient) DetachVolume(ctx context.Context, volume *hcloud.Volume) error {
	if m.DetachVolumeFunc != nil {
		return m.DetachVolumeFunc(ctx, volume)
	}
	return nil
}

// DeleteVolume mocks data-disk deletion.
func (m *MockClient) DeleteVolume(ctx context.Context, name string) error {
	if m.DeleteVolumeFunc != nil {
		return m.DeleteVolumeFunc(ctx, name)
	}
	return nil
}

// EnsureSSHKey mocks get-or-create of an uploaded key.
func (m *MockClient) EnsureSSHKey(ctx context.Context, name, publicKey string, labels map[string]string) (*hcloud.SSHKey, error) {
	if m.EnsureSSHKeyFunc != nil {
		return m.EnsureSSHKeyFunc(ctx, name, publicKey, labels)
	}
	return &hcloud.SSHKey{ID: 1, Name: name}, nil
}

// DeleteSSHKey mocks deletion of an uploaded key.
func (m *MockClient) DeleteSSHKey(ctx context.Context, name string) error {
	if m.DeleteSSHKeyFunc != nil {
		return m.DeleteSSHKeyFunc(ctx, name)
	}
	return nil
}
