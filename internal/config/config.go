// Package config holds the vmdisk configuration surface: the optional YAML
// config file and the environment-driven operation timeouts.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied when the config file omits a field or no file is given.
const (
	DefaultImageFilter    = "ubuntu-24.04*"
	DefaultServerType     = "cx22"
	DefaultFilesystem     = "ext4"
	DefaultNetworkIPRange = "10.0.0.0/16"
	DefaultSubnetIPRange  = "10.0.1.0/24"
	DefaultSSHUser        = "root"
)

// Config holds the vmdisk settings that are not per-invocation flags.
type Config struct {
	// ImageFilter is the glob matched against image families when resolving
	// the OS image for new VMs.
	ImageFilter string `yaml:"image_filter"`

	// OfficialImagesOnly restricts image resolution to the official vendor.
	OfficialImagesOnly bool `yaml:"official_images_only"`

	// ServerType is the fixed size used for newly created VMs.
	ServerType string `yaml:"server_type"`

	// Filesystem is applied to every disk formatted by the remote routine.
	Filesystem string `yaml:"filesystem"`

	// NetworkIPRange and SubnetIPRange shape the hosting container network
	// created on demand.
	NetworkIPRange string `yaml:"network_ip_range"`
	SubnetIPRange  string `yaml:"subnet_ip_range"`

	// SSHUser and SSHKeyFile identify the administrator for the remote
	// formatting session. Both can be overridden interactively.
	SSHUser    string `yaml:"ssh_user"`
	SSHKeyFile string `yaml:"ssh_key_file"`

	// KnownHostsFile is the local trust store for VM host keys.
	KnownHostsFile string `yaml:"known_hosts_file"`
}

// Default returns a Config with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.ImageFilter == "" {
		c.ImageFilter = DefaultImageFilter
		c.OfficialImagesOnly = true
	}
	if c.ServerType == "" {
		c.ServerType = DefaultServerType
	}
	if c.Filesystem == "" {
		c.Filesystem = DefaultFilesystem
	}
	if c.NetworkIPRange == "" {
		c.NetworkIPRange = DefaultNetworkIPRange
	}
	if c.SubnetIPRange == "" {
		c.SubnetIPRange = DefaultSubnetIPRange
	}
	if c.SSHUser == "" {
		c.SSHUser = DefaultSSHUser
	}
	if c.SSHKeyFile == "" {
		c.SSHKeyFile = expandHome("~/.ssh/id_ed25519")
	}
	if c.KnownHostsFile == "" {
		c.KnownHostsFile = expandHome("~/.config/vmdisk/known_hosts")
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.ImageFilter == "" {
		return fmt.Errorf("image_filter must not be empty")
	}
	if c.ServerType == "" {
		return fmt.Errorf("server_type must not be empty")
	}
	if c.Filesystem == "" {
		return fmt.Errorf("filesystem must not be empty")
	}
	return nil
}

// expandHome resolves a leading ~/ against the current user's home directory.
// Paths are returned unchanged when the home directory cannot be determined.
func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
