// Package image selects OS images from a provider catalog.
//
// The catalog is a read-only snapshot supplied by the caller; resolution is a
// pure filter/sort over it. Images group into families (successive releases
// of the same OS lineage), and "latest" means the most recently published
// representative across the matching families.
package image

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

// officialVendorPattern matches publishers considered official. System images
// on Hetzner Cloud are published under the vendor name.
const officialVendorPattern = "hetzner*"

// ErrNotFound is returned when no catalog entry matches the filter.
// Callers treat this as a reportable condition, not a crash.
var ErrNotFound = errors.New("no matching image found")

// Image is one selectable OS image offering.
type Image struct {
	// ID is the provider's unique identifier for the image.
	ID string
	// Family names the OS lineage, e.g. "ubuntu-24.04".
	Family string
	// Publisher names who published the image.
	Publisher string
	// Published is when the image became available.
	Published time.Time
}

// ResolveLatest returns the most recently published image whose family
// matches the case-insensitive glob filter. When officialOnly is set, images
// from non-official publishers are excluded even if published later.
//
// Matches are deduplicated by family before sorting, keeping one
// representative per distinct family: the latest-published entry, with
// catalog order breaking exact ties deterministically.
func ResolveLatest(catalog []Image, filter string, officialOnly bool) (Image, error) {
	familyGlob, err := glob.Compile(strings.ToLower(filter))
	if err != nil {
		return Image{}, fmt.Errorf("invalid image filter %q: %w", filter, err)
	}
	vendorGlob := glob.MustCompile(officialVendorPattern)

	latest := make(map[string]Image)
	var order []string

	for _, img := range catalog {
		family := strings.ToLower(img.Family)
		if !familyGlob.Match(family) {
			continue
		}
		if officialOnly && !vendorGlob.Match(strings.ToLower(img.Publisher)) {
			continue
		}

		current, seen := latest[family]
		if !seen {
			latest[family] = img
			order = append(order, family)
			continue
		}
		if img.Published.After(current.Published) {
			latest[family] = img
		}
	}

	if len(order) == 0 {
		return Image{}, fmt.Errorf("%w: filter %q", ErrNotFound, filter)
	}

	candidates := make([]Image, 0, len(order))
	for _, family := range order {
		candidates = append(candidates, latest[family])
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Published.After(candidates[j].Published)
	})

	return candidates[0], nil
}
