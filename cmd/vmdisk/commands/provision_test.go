package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvision(t *testing.T) {
	cmd := Provision()

	require.NotNil(t, cmd)
	assert.Equal(t, "provision", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.Contains(t, cmd.Long, "next free slot numbers")
}

func TestProvision_Flags(t *testing.T) {
	cmd := Provision()

	for _, name := range []string{"service", "vm", "location", "disk-size", "disks", "config"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s should exist", name)
	}

	location := cmd.Flags().Lookup("location")
	require.NotNil(t, location)
	assert.Equal(t, "l", location.Shorthand)
}

func TestProvision_RequiredFlags(t *testing.T) {
	cmd := Provision()

	for _, name := range []string{"service", "vm", "disk-size", "disks"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag)
		_, required := flag.Annotations["cobra_annotation_bash_completion_one_required_flag"]
		assert.True(t, required, "flag %s should be required", name)
	}

	// Location stays optional: it is only needed when resources are created.
	location := cmd.Flags().Lookup("location")
	_, required := location.Annotations["cobra_annotation_bash_completion_one_required_flag"]
	assert.False(t, required)
}
