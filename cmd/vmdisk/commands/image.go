package commands

import (
	"github.com/spf13/cobra"

	"github.com/ShaneCastle/vmdisk/cmd/vmdisk/handlers"
)

// Image returns the parent command for image catalog operations.
func Image() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Inspect the OS image catalog",
	}

	cmd.AddCommand(Resolve())

	return cmd
}

// Resolve returns the command that previews image resolution.
//
// It applies the same selection a provisioning run would: match the filter
// against image families, keep the newest entry per family, pick the latest.
func Resolve() *cobra.Command {
	var (
		filter       string
		officialOnly bool
		configPath   string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show which image a provisioning run would pick",
		Long: `Resolve previews image selection without provisioning anything.

The filter is a case-insensitive glob matched against image family names.
Without --filter, the configured default filter is used.

Example:
  vmdisk image resolve --filter "debian-12*"

Environment variables:
  HCLOUD_TOKEN  Hetzner Cloud API token (required)`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ResolveImage(cmd.Context(), handlers.ResolveImageOptions{
				Filter:      filter,
				Official:    officialOnly,
				OfficialSet: cmd.Flags().Changed("official"),
				ConfigPath:  configPath,
			})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Glob matched against image family names")
	cmd.Flags().BoolVar(&officialOnly, "official", false, "Only consider images from the official vendor")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to vmdisk configuration file")

	return cmd
}
