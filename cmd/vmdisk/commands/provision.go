package commands

import (
	"github.com/spf13/cobra"

	"github.com/ShaneCastle/vmdisk/cmd/vmdisk/handlers"
)

// Provision returns the provision command.
//
// The provision command creates the named VM if it does not exist, attaches
// the requested number of data disks at the next free slot numbers, and runs
// the remote formatting routine over SSH. Running it again against the same
// VM adds further disks.
func Provision() *cobra.Command {
	var (
		service    string
		vm         string
		location   string
		diskSizeGB int
		diskCount  int
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision a VM with attached, formatted data disks",
		Long: `Provision creates a VM with attached data disks and formats them remotely.

The VM is placed in the service's private network, which is created on first
use. Disk slot numbers continue where the VM's existing disks left off, so
repeated runs extend the VM instead of recreating it.

The location is only required when the service network or the VM does not
exist yet. Extending an existing VM infers the location from the VM itself.

Example:
  vmdisk provision --service prod --vm web-1 --location fsn1 --disk-size 50 --disks 2

Environment variables:
  HCLOUD_TOKEN         Hetzner Cloud API token (required)
  VMDISK_SSH_USER      SSH login user, overrides the config file
  VMDISK_SSH_KEY_FILE  SSH private key path, overrides the config file`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), handlers.ProvisionOptions{
				Service:    service,
				VM:         vm,
				Location:   location,
				DiskSizeGB: diskSizeGB,
				DiskCount:  diskCount,
				ConfigPath: configPath,
			})
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Service name, used as the hosting network (required)")
	cmd.Flags().StringVar(&vm, "vm", "", "VM name (required)")
	cmd.Flags().StringVarP(&location, "location", "l", "", "Hetzner location, required when creating the network or VM")
	cmd.Flags().IntVar(&diskSizeGB, "disk-size", 0, "Size in GB for every disk created in this run (required)")
	cmd.Flags().IntVar(&diskCount, "disks", 0, "Number of disks to add in this run (required)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to vmdisk configuration file")
	_ = cmd.MarkFlagRequired("service")
	_ = cmd.MarkFlagRequired("vm")
	_ = cmd.MarkFlagRequired("disk-size")
	_ = cmd.MarkFlagRequired("disks")

	return cmd
}
