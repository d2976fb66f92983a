package model

import "fmt"

// DefaultProfile builds the stock parameter set for a racking tier. Every
// call returns a fresh map, so callers may merge overrides into the result
// without contaminating later estimates.
//
// The loss and electrical entries are shared across tiers; geometry, soiling,
// albedo, and thermal coefficients vary by tier. Canopy and rooftop arrays
// sit over pavement or membrane whose reflectance is known, so their profiles
// pin albedo instead of trusting the satellite-derived column.
func DefaultProfile(r RackingType) Params {
	p := baseProfile()
	p["racking"] = string(r)

	switch r {
	case RackingTracker:
		p["axis_tilt"] = 0.0
		p["axis_azimuth"] = 180.0
		p["max_angle"] = 60.0
		p["backtrack"] = true
		p["gcr"] = 0.33
		p["collector_width"] = 4.0
		p["soiling_loss"] = 0.02
		p["snow_loss"] = 0.0
		p["albedo"] = 0.2
		p["temperature_model"] = map[string]float64{"a": -3.56, "b": -0.075}
	case RackingGroundMount:
		p["surface_tilt"] = 30.0
		p["surface_azimuth"] = 180.0
		p["axis_azimuth"] = 180.0
		p["gcr"] = 0.40
		p["collector_width"] = 4.0
		p["soiling_loss"] = 0.02
		p["snow_loss"] = 0.01
		p["albedo"] = 0.2
		p["temperature_model"] = map[string]float64{"a": -3.56, "b": -0.075}
	case RackingCanopy:
		p["surface_tilt"] = 7.0
		p["surface_azimuth"] = 180.0
		p["axis_azimuth"] = 180.0
		p["gcr"] = 0.95
		p["collector_width"] = 12.0
		p["soiling_loss"] = 0.02
		p["snow_loss"] = 0.0
		p["albedo"] = 0.12
		p["albedo_override"] = true
		p["temperature_model"] = map[string]float64{"a": -3.47, "b": -0.0594}
	case RackingRooftop:
		p["surface_tilt"] = 10.0
		p["surface_azimuth"] = 180.0
		p["axis_azimuth"] = 180.0
		p["gcr"] = 0.60
		p["collector_width"] = 2.0
		p["soiling_loss"] = 0.03
		p["snow_loss"] = 0.0
		p["albedo"] = 0.12
		p["albedo_override"] = true
		p["temperature_model"] = map[string]float64{"a": -2.98, "b": -0.0471}
	default:
		panic(fmt.Sprintf("model: no default profile for racking %q", r))
	}
	return p
}

// baseProfile holds the entries common to every racking tier: the DC and AC
// loss ladder, module electrical characteristics, and degradation schedule.
// Loss values are fractions; gamma_pdc is 1/degC.
func baseProfile() Params {
	return Params{
		"module_quality_loss": 0.01,
		"lid_loss":            0.005,
		"mismatch_loss":       0.01,
		"dc_cabling_loss":     0.02,

		"rear_shading_loss":  0.05,
		"rear_mismatch_loss": 0.03,
		"bifaciality":        0.7,

		"module_efficiency": 0.20,
		"gamma_pdc":         -0.0035,

		"inverter_efficiency": 0.985,
		"ac_collection_loss":  0.01,

		"pmt_peak_loss_factor":     0.010,
		"pmt_constant_loss_factor": 0.001,
		"mpt_peak_loss_factor":     0.008,
		"mpt_constant_loss_factor": 0.0005,
		"transmission_loss":        0.02,

		"availability_loss": 0.02,

		"degradation_firstyear": 0.02,
		"degradation_annual":    0.0045,
	}
}
