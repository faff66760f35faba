package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestroy(t *testing.T) {
	cmd := Destroy()

	require.NotNil(t, cmd)
	assert.Equal(t, "destroy", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.Contains(t, cmd.Long, "WARNING")
}

func TestDestroy_Flags(t *testing.T) {
	cmd := Destroy()

	for _, name := range []string{"service", "vm", "delete-network"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s should exist", name)
	}

	network := cmd.Flags().Lookup("delete-network")
	require.NotNil(t, network)
	assert.Equal(t, "false", network.DefValue)
}
