package handlers

import (
	"context"
	"fmt"

	"github.com/ShaneCastle/vmdisk/internal/config"
	"github.com/ShaneCastle/vmdisk/internal/image"
)

// ResolveImageOptions carries the image resolve command's flag values.
type ResolveImageOptions struct {
	Filter   string
	Official bool
	// OfficialSet reports whether --official was given on the command line.
	// When false, the configured default applies instead of Official.
	OfficialSet bool
	ConfigPath  string
}

// ResolveImage handles the image resolve command.
//
// It lists the provider's image catalog and applies the same selection a
// provisioning run would, printing the winning image. Flags left unset fall
// back to the configured filter and official-vendor policy.
func ResolveImage(ctx context.Context, opts ResolveImageOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	filter := opts.Filter
	if filter == "" {
		filter = cfg.ImageFilter
	}
	official := opts.Official
	if !opts.OfficialSet {
		official = cfg.OfficialImagesOnly
	}

	token, err := requireToken()
	if err != nil {
		return err
	}

	catalog, err := newInfraClient(token).ListImages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list image catalog: %w", err)
	}

	img, err := image.ResolveLatest(catalog, filter, official)
	if err != nil {
		return fmt.Errorf("no image matches %q: %w", filter, err)
	}

	fmt.Printf("image:     %s\n", img.ID)
	fmt.Printf("family:    %s\n", img.Family)
	fmt.Printf("publisher: %s\n", img.Publisher)
	fmt.Printf("published: %s\n", img.Published.Format("2006-01-02"))
	return nil
}
