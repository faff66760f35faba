package commands

import (
	"github.com/spf13/cobra"

	"github.com/ShaneCastle/vmdisk/cmd/vmdisk/handlers"
)

// Destroy returns the destroy command.
//
// The destroy command removes a VM and its data disks. Disks are detached
// and deleted before the server, and the uploaded SSH key is removed last.
// The service network is only deleted when explicitly requested, since other
// VMs may share it.
func Destroy() *cobra.Command {
	var (
		service       string
		vm            string
		deleteNetwork bool
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy a VM and its data disks",
		Long: `Destroy removes a VM and every data disk vmdisk created for it.

Deletion order: data disks (detached first), the server, the uploaded SSH
key. The service network is kept unless --delete-network is given.

Example:
  vmdisk destroy --service prod --vm web-1

WARNING: This operation is irreversible. All data on the disks is lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), handlers.DestroyOptions{
				Service:       service,
				VM:            vm,
				DeleteNetwork: deleteNetwork,
			})
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Service name the VM belongs to (required)")
	cmd.Flags().StringVar(&vm, "vm", "", "VM name (required)")
	cmd.Flags().BoolVar(&deleteNetwork, "delete-network", false, "Also delete the service network")
	_ = cmd.MarkFlagRequired("service")
	_ = cmd.MarkFlagRequired("vm")

	return cmd
}
