package hcloud

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/ShaneCastle/vmdisk/internal/image"
)

// Publisher names assigned while mapping the hcloud catalog. System images
// are published by the vendor; snapshots may carry their own publisher label.
const (
	officialPublisher = "Hetzner"
	defaultPublisher  = "user"
)

// Snapshot labels recognized when mapping user images into the catalog.
const (
	labelImageFamily    = "family"
	labelImagePublisher = "publisher"
)

// ListImages returns the full image catalog: official system images plus
// available user snapshots, mapped to the provider-agnostic image type.
func (c *RealClient) ListImages(ctx context.Context) ([]image.Image, error) {
	images, err := c.client.Image.AllWithOpts(ctx, hcloud.ImageListOpts{
		Type:   []hcloud.ImageType{hcloud.ImageTypeSystem, hcloud.ImageTypeSnapshot},
		Status: []hcloud.ImageStatus{hcloud.ImageStatusAvailable},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	catalog := make([]image.Image, 0, len(images))
	for _, img := range images {
		catalog = append(catalog, mapImage(img))
	}
	return catalog, nil
}

// mapImage converts one hcloud image into a catalog entry. System images use
// their name as the family ("ubuntu-24.04" and its successors form distinct
// families); snapshots declare a family via label or fall back to their
// description.
func mapImage(img *hcloud.Image) image.Image {
	entry := image.Image{
		ID:        strconv.FormatInt(img.ID, 10),
		Published: img.Created,
	}

	if img.Type == hcloud.ImageTypeSystem {
		entry.Family = img.Name
		entry.Publisher = officialPublisher
		return entry
	}

	entry.Family = img.Labels[labelImageFamily]
	if entry.Family == "" {
		entry.Family = img.Description
	}
	entry.Publisher = img.Labels[labelImagePublisher]
	if entry.Publisher == "" {
		entry.Publisher = defaultPublisher
	}
	return entry
}

// GetLocation returns the location with the given name, or nil if the
// provider does not know it.
func (c *RealClient) GetLocation(ctx context.Context, name string) (*hcloud.Location, error) {
	location, _, err := c.client.Location.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return location, nil
}
