// Package disk computes data-disk slot assignments and builds the guest-side
// initialization routine that formats newly attached disks.
package disk

// AllocateSlots returns the slot numbers for count new data disks given the
// slots already occupied on the VM. With no existing slots the sequence
// starts at 0; otherwise it starts directly above the highest occupied slot.
// Gaps in the existing set are tolerated and never back-filled.
//
// The result is not validated against any provider attachment limit; callers
// needing an upper bound must enforce it themselves.
func AllocateSlots(existing []int, count int) []int {
	start := 0
	for _, slot := range existing {
		if slot >= start {
			start = slot + 1
		}
	}

	slots := make([]int, count)
	for i := range slots {
		slots[i] = start + i
	}
	return slots
}
