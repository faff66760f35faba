package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ShaneCastle/vmdisk/internal/disk"
	"github.com/ShaneCastle/vmdisk/internal/image"
	"github.com/ShaneCastle/vmdisk/internal/provision"
)

func TestRenderSummary_Created(t *testing.T) {
	t.Parallel()

	out := renderSummary(&provision.Result{
		ServerName: "web-1",
		ServerIP:   "203.0.113.10",
		Location:   "fsn1",
		Image:      image.Image{ID: "101", Family: "ubuntu-24.04"},
		Created:    true,
		Slots:      []int{0, 1},
		Volumes:    []string{"web-1-disk-0", "web-1-disk-1"},
		Format: disk.Report{Initialized: []string{
			"initialized /dev/disk/by-id/scsi-0HC_Volume_1",
			"initialized /dev/disk/by-id/scsi-0HC_Volume_2",
		}},
	})

	assert.Contains(t, out, "web-1")
	assert.Contains(t, out, "203.0.113.10")
	assert.Contains(t, out, "ubuntu-24.04")
	assert.Contains(t, out, "slot 0")
	assert.Contains(t, out, "web-1-disk-1")
	assert.Contains(t, out, "formatted 2 raw disk(s)")
}

func TestRenderSummary_Extended(t *testing.T) {
	t.Parallel()

	out := renderSummary(&provision.Result{
		ServerName: "web-1",
		ServerIP:   "203.0.113.10",
		Slots:      []int{4},
		Volumes:    []string{"web-1-disk-4"},
	})

	assert.Contains(t, out, "extended")
	assert.Contains(t, out, "no raw disks needed formatting")
	assert.NotContains(t, out, "image:")
}
