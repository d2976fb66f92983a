package model

import "fmt"

// RackingType identifies the mounting hardware an array is built on. The
// racking tier selects which parameter profile seeds an estimate, which mount
// geometry the irradiance stage models, and the thermal coefficients of the
// cell temperature fit.
type RackingType string

const (
	RackingTracker     RackingType = "tracker"
	RackingGroundMount RackingType = "ground-mount"
	RackingCanopy      RackingType = "canopy"
	RackingRooftop     RackingType = "rooftop"
)

// RackingTypes lists the supported tiers in display order.
func RackingTypes() []RackingType {
	return []RackingType{RackingTracker, RackingGroundMount, RackingCanopy, RackingRooftop}
}

// ParseRacking converts a wire value into a RackingType. Unknown values are
// rejected so a misspelled request cannot silently run on the wrong profile.
func ParseRacking(s string) (RackingType, error) {
	switch r := RackingType(s); r {
	case RackingTracker, RackingGroundMount, RackingCanopy, RackingRooftop:
		return r, nil
	default:
		return "", fmt.Errorf("unknown racking type %q (want tracker, ground-mount, canopy, or rooftop)", s)
	}
}

func (r RackingType) String() string { return string(r) }
