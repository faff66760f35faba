package disk

import (
	"fmt"
	"regexp"
	"strings"
)

// volumeDevicePattern is where attached Hetzner Cloud volumes surface inside
// the guest.
const volumeDevicePattern = "/dev/disk/by-id/scsi-0HC_Volume_*"

// initializedMarker prefixes each per-disk success line in the routine's
// output, so the report can list what was actually touched.
const initializedMarker = "initialized "

var filesystemName = regexp.MustCompile(`^[a-z0-9]+$`)

// FormatCommand returns the fixed guest-side routine that initializes every
// raw data disk: each attached volume device without a filesystem signature
// is formatted with the given filesystem, given a mount point under /mnt and
// registered in fstab. Disks that already carry a filesystem are left alone,
// so the routine is safe to re-run.
func FormatCommand(filesystem string) (string, error) {
	if !filesystemName.MatchString(filesystem) {
		return "", fmt.Errorf("invalid filesystem name %q", filesystem)
	}

	script := `set -eu
fs=` + filesystem + `
n=0
for dev in ` + volumeDevicePattern + `; do
    [ -b "$dev" ] || continue
    if blkid "$dev" >/dev/null 2>&1; then
        continue
    fi
    while grep -q " /mnt/data${n} " /proc/mounts || grep -q " /mnt/data${n} " /etc/fstab; do
        n=$((n+1))
    done
    mkfs -t "$fs" -q "$dev"
    mkdir -p "/mnt/data${n}"
    mount "$dev" "/mnt/data${n}"
    echo "$dev /mnt/data${n} $fs discard,nofail,defaults 0 0" >> /etc/fstab
    echo "` + initializedMarker + `$dev at /mnt/data${n}"
    n=$((n+1))
done
`
	return script, nil
}

// Report summarizes one run of the format routine.
type Report struct {
	// Initialized lists the per-disk success lines emitted by the routine.
	Initialized []string
	// Raw is the full combined output, kept for diagnostics.
	Raw string
}

// ParseReport extracts the per-disk results from the routine's combined
// output. Output is otherwise opaque: the caller decides success or failure
// from the remote execution error, not from the report.
func ParseReport(output string) Report {
	report := Report{Raw: output}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, initializedMarker) {
			report.Initialized = append(report.Initialized, strings.TrimPrefix(line, initializedMarker))
		}
	}
	return report
}
