package hcloud

import (
	"context"
	"fmt"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/ShaneCastle/vmdisk/internal/util/retry"
)

// CreateServer creates a new server and blocks until the provider reports it
// running.
func (c *RealClient) CreateServer(ctx context.Context, opts ServerCreateOpts) (*hcloud.Server, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.ServerCreate)
	defer cancel()

	createOpts, err := c.buildServerCreateOpts(ctx, opts)
	if err != nil {
		return nil, err
	}

	result, err := c.createServerWithRetry(ctx, createOpts)
	if err != nil {
		return nil, err
	}

	if err := c.waitForServerRunning(ctx, result.Server.ID); err != nil {
		return nil, err
	}

	server, _, err := c.client.Server.GetByID(ctx, result.Server.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get created server: %w", err)
	}
	return server, nil
}

// buildServerCreateOpts resolves all referenced resources and builds server
// creation options.
func (c *RealClient) buildServerCreateOpts(ctx context.Context, opts ServerCreateOpts) (hcloud.ServerCreateOpts, error) {
	serverType, _, err := c.client.ServerType.Get(ctx, opts.ServerType)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get server type: %w", err)
	}
	if serverType == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("server type not found: %s", opts.ServerType)
	}

	img, _, err := c.client.Image.Get(ctx, opts.ImageID)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get image: %w", err)
	}
	if img == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("image not found: %s", opts.ImageID)
	}

	location, _, err := c.client.Location.Get(ctx, opts.Location)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get location: %w", err)
	}
	if location == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("location not found: %s", opts.Location)
	}

	createOpts := hcloud.ServerCreateOpts{
		Name:       opts.Name,
		ServerType: serverType,
		Image:      img,
		Location:   location,
		Labels:     opts.Labels,
	}
	if opts.NetworkID != 0 {
		createOpts.Networks = []*hcloud.Network{{ID: opts.NetworkID}}
	}
	if opts.SSHKeyID != 0 {
		createOpts.SSHKeys = []*hcloud.SSHKey{{ID: opts.SSHKeyID}}
	}
	return createOpts, nil
}

// createServerWithRetry creates a server with exponential backoff retry logic.
func (c *RealClient) createServerWithRetry(ctx context.Context, opts hcloud.ServerCreateOpts) (hcloud.ServerCreateResult, error) {
	var result hcloud.ServerCreateResult

	err := retry.Do(ctx, func() error {
		res, _, err := c.client.Server.Create(ctx, opts)
		if err != nil {
			if isInvalidParameter(err) {
				return retry.Fatal(err)
			}
			return err
		}
		result = res
		return nil
	}, retry.WithMaxRetries(c.timeouts.RetryMaxAttempts), retry.WithInitialDelay(c.timeouts.RetryInitialDelay))

	if err != nil {
		return result, fmt.Errorf("failed to create server: %w", err)
	}

	actions := result.NextActions
	if result.Action != nil {
		actions = append([]*hcloud.Action{result.Action}, actions...)
	}
	if err := c.client.Action.WaitFor(ctx, actions...); err != nil {
		return result, fmt.Errorf("failed to wait for server creation: %w", err)
	}

	return result, nil
}

// waitForServerRunning polls until the server leaves its boot sequence.
func (c *RealClient) waitForServerRunning(ctx context.Context, id int64) error {
	err := retry.Do(ctx, func() error {
		server, _, err := c.client.Server.GetByID(ctx, id)
		if err != nil {
			return retry.Fatal(err)
		}
		if server == nil {
			return retry.Fatal(fmt.Errorf("server %d disappeared while booting", id))
		}
		if server.Status != hcloud.ServerStatusRunning {
			return fmt.Errorf("server %d not running yet (status %s)", id, server.Status)
		}
		return nil
	},
		retry.WithMaxRetries(60),
		retry.WithInitialDelay(2*time.Second),
		retry.WithMaxDelay(10*time.Second),
		retry.WithMultiplier(1.5))

	if err != nil {
		return fmt.Errorf("failed to wait for server to boot: %w", err)
	}
	return nil
}

// GetServerByName returns the full server object by name, or nil if not found.
func (c *RealClient) GetServerByName(ctx context.Context, name string) (*hcloud.Server, error) {
	server, _, err := c.client.Server.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get server: %w", err)
	}
	return server, nil
}

// DeleteServer deletes the server with the given name.
func (c *RealClient) DeleteServer(ctx context.Context, name string) error {
	return (&DeleteOperation[*hcloud.Server]{
		Name:         name,
		ResourceType: "server",
		Get:          c.client.Server.Get,
		Delete: func(ctx context.Context, server *hcloud.Server) (*hcloud.Response, error) {
			_, resp, err := c.client.Server.DeleteWithResult(ctx, server)
			return resp, err
		},
	}).Execute(ctx, c)
}

// GetServerIP returns the public IPv4 of the server.
func (c *RealClient) GetServerIP(ctx context.Context, name string) (string, error) {
	server, _, err := c.client.Server.Get(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to get server: %w", err)
	}
	if server == nil {
		return "", fmt.Errorf("server not found: %s", name)
	}
	if server.PublicNet.IPv4.IP == nil {
		return "", fmt.Errorf("server %s has no public IPv4", name)
	}
	return server.PublicNet.IPv4.IP.String(), nil
}
