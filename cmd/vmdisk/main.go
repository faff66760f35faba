// Package main is the entry point for the vmdisk CLI.
//
// vmdisk provisions a Hetzner Cloud virtual machine with attached data
// disks and formats the new disks remotely over SSH. Running it against
// an existing VM adds further disks at the next free slot numbers.
//
// Commands: provision, image, destroy, version, completion.
//
// For detailed usage information, run:
//
//	vmdisk --help
package main

import (
	"fmt"
	"os"

	"github.com/ShaneCastle/vmdisk/cmd/vmdisk/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
