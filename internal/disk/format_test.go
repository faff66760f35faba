package disk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCommand(t *testing.T) {
	t.Parallel()

	script, err := FormatCommand("ext4")
	require.NoError(t, err)

	assert.Contains(t, script, "mkfs -t \"$fs\"")
	assert.Contains(t, script, "fs=ext4")
	assert.Contains(t, script, volumeDevicePattern)
	assert.Contains(t, script, "/etc/fstab")
}

func TestFormatCommand_RejectsUnsafeFilesystem(t *testing.T) {
	t.Parallel()

	for _, fs := range []string{"", "ext4; rm -rf /", "ext 4", "EXT4"} {
		_, err := FormatCommand(fs)
		assert.Error(t, err, "filesystem %q should be rejected", fs)
	}
}

func TestParseReport(t *testing.T) {
	t.Parallel()

	output := `initialized /dev/disk/by-id/scsi-0HC_Volume_101 at /mnt/data0
initialized /dev/disk/by-id/scsi-0HC_Volume_102 at /mnt/data1
mkfs output noise
`
	report := ParseReport(output)

	require.Len(t, report.Initialized, 2)
	assert.Equal(t, "/dev/disk/by-id/scsi-0HC_Volume_101 at /mnt/data0", report.Initialized[0])
	assert.Equal(t, output, report.Raw)
}

func TestParseReport_Empty(t *testing.T) {
	t.Parallel()

	report := ParseReport("")
	assert.Empty(t, report.Initialized)
}
