package handlers

import (
	"context"
	"testing"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/stretchr/testify/assert"

	hcloudp "github.com/ShaneCastle/vmdisk/internal/platform/hcloud"
)

func swapInfraClient(t *testing.T, mock *hcloudp.MockClient) {
	t.Helper()
	orig := newInfraClient
	t.Cleanup(func() { newInfraClient = orig })
	newInfraClient = func(string) hcloudp.InfrastructureManager { return mock }
}

func TestDestroy(t *testing.T) {
	t.Setenv("HCLOUD_TOKEN", "test-token")

	var deletedVolumes, deletedServers, deletedKeys, deletedNetworks []string
	mock := &hcloudp.MockClient{
		ListServerVolumesFunc: func(context.Context, string) ([]*hcloud.Volume, error) {
			return []*hcloud.Volume{{Name: "web-1-disk-0"}, {Name: "web-1-disk-1"}}, nil
		},
		DeleteVolumeFunc: func(_ context.Context, name string) error {
			deletedVolumes = append(deletedVolumes, name)
			return nil
		},
		DeleteServerFunc: func(_ context.Context, name string) error {
			deletedServers = append(deletedServers, name)
			return nil
		},
		DeleteSSHKeyFunc: func(_ context.Context, name string) error {
			deletedKeys = append(deletedKeys, name)
			return nil
		},
		DeleteNetworkFunc: func(_ context.Context, name string) error {
			deletedNetworks = append(deletedNetworks, name)
			return nil
		},
	}
	swapInfraClient(t, mock)

	err := Destroy(context.Background(), DestroyOptions{Service: "prod", VM: "web-1"})
	assert.NoError(t, err)

	assert.Equal(t, []string{"web-1-disk-0", "web-1-disk-1"}, deletedVolumes)
	assert.Equal(t, []string{"web-1"}, deletedServers)
	assert.Equal(t, []string{"web-1-admin"}, deletedKeys)
	assert.Empty(t, deletedNetworks, "network must survive unless requested")
}

func TestDestroy_WithNetwork(t *testing.T) {
	t.Setenv("HCLOUD_TOKEN", "test-token")

	var deletedNetworks []string
	mock := &hcloudp.MockClient{
		DeleteNetworkFunc: func(_ context.Context, name string) error {
			deletedNetworks = append(deletedNetworks, name)
			return nil
		},
	}
	swapInfraClient(t, mock)

	err := Destroy(context.Background(), DestroyOptions{Service: "prod", VM: "web-1", DeleteNetwork: true})
	assert.NoError(t, err)
	assert.Equal(t, []string{"prod"}, deletedNetworks)
}

func TestDestroy_MissingToken(t *testing.T) {
	t.Setenv("HCLOUD_TOKEN", "")

	err := Destroy(context.Background(), DestroyOptions{Service: "prod", VM: "web-1"})
	assert.ErrorContains(t, err, "HCLOUD_TOKEN")
}
