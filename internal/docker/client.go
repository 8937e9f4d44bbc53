// Package docker wraps the Docker SDK for the peripheral disk-usage
// gauge. The deployment pipeline itself drives compose through the
// command runner; nothing here sequences deployments.
package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
)

// Client wraps the Docker SDK client.
type Client struct {
	inner *client.Client
}

// New creates a Docker client using environment defaults, optionally
// overriding the daemon host.
func New(host string) (*Client, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}
	inner, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return &Client{inner: inner}, nil
}

// Ping validates connectivity to the Docker daemon.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.inner == nil {
		return fmt.Errorf("docker client not initialized")
	}
	ping, err := c.inner.Ping(ctx)
	if err != nil {
		return fmt.Errorf("docker ping: %w", err)
	}
	if ping.APIVersion == "" {
		return fmt.Errorf("docker ping returned empty API version")
	}
	return nil
}

// ImageDiskUsage returns the total bytes consumed by image layers, the
// same figure `docker system df` reports for images.
func (c *Client) ImageDiskUsage(ctx context.Context) (int64, error) {
	usage, err := c.inner.DiskUsage(ctx, types.DiskUsageOptions{
		Types: []types.DiskUsageObject{types.ImageObject},
	})
	if err != nil {
		return 0, fmt.Errorf("docker disk usage: %w", err)
	}
	return usage.LayersSize, nil
}

// Close releases resources held by the Docker client.
func (c *Client) Close() error {
	if c.inner == nil {
		return nil
	}
	return c.inner.Close()
}
