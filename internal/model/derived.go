package model

import (
	"fmt"
	"math"
)

// TemperatureModel holds the Sandia cell temperature coefficients for a
// mounting configuration.
type TemperatureModel struct {
	A float64 `json:"a"` // exponential fit intercept
	B float64 `json:"b"` // wind speed coefficient, s/m
}

// ModuleParams holds the electrical characteristics of the installed module
// fleet, scaled to the whole plant.
type ModuleParams struct {
	PDC0        float64 `json:"pdc0"`        // W, plant DC nameplate at reference conditions
	GammaPDC    float64 `json:"gamma_pdc"`   // 1/degC power temperature coefficient
	Efficiency  float64 `json:"efficiency"`  // module nameplate efficiency
	Bifaciality float64 `json:"bifaciality"` // rear-side fraction of front efficiency
}

// Mount describes how modules are held: a single-axis tracker or a fixed
// tilt. The concrete type tells the irradiance stage which geometry to run.
type Mount interface {
	isMount()
}

// TrackerMount is a horizontal single-axis tracker.
type TrackerMount struct {
	AxisTilt    float64 `json:"axis_tilt"`    // deg
	AxisAzimuth float64 `json:"axis_azimuth"` // deg, 180 = north-south axis
	MaxAngle    float64 `json:"max_angle"`    // deg rotation limit
	Backtrack   bool    `json:"backtrack"`
}

// FixedMount is a fixed-tilt rack.
type FixedMount struct {
	SurfaceTilt    float64 `json:"surface_tilt"`    // deg from horizontal
	SurfaceAzimuth float64 `json:"surface_azimuth"` // deg, 180 = south
}

func (TrackerMount) isMount() {}
func (FixedMount) isMount()   {}

// Inputs is the fully derived description of a plant: the merged profile
// plus every quantity the physics stages consume directly. Loss values are
// fractions, capacities and transformer losses are watts, geometry is meters
// and degrees.
type Inputs struct {
	Racking         RackingType
	Voltage         Voltage
	DegradationYear int

	DCCapacity  float64
	ACCapacity  float64
	POICapacity float64

	Mount          Mount
	AxisHeight     float64
	AxisAzimuth    float64
	CollectorWidth float64
	GCR            float64
	Albedo         float64
	AlbedoOverride bool

	Temperature TemperatureModel
	Module      ModuleParams

	SoilingLoss     float64 // soiling and snow combined
	DegradationLoss float64
	DCLosses        float64
	BifacialLosses  float64

	InverterEfficiency float64
	ACCollectionLoss   float64

	PMTPeakLoss      float64 // W at rated throughput
	PMTConstantLoss  float64 // W
	PMTRating        float64 // W
	MPTPeakLoss      float64
	MPTConstantLoss  float64
	MPTRating        float64
	TransmissionLoss float64

	PlantLosses float64

	// Params is the source profile with every derived entry layered on
	// top, kept for reporting and round-tripping.
	Params Params
}

// Derive expands a merged parameter profile into the Inputs a simulation
// consumes. dcCapacity and acCapacity are watts. degradationYear is the
// 1-based operating year whose wear the estimate should carry.
//
// Derive computes, it does not sanity-check: out-of-range loss fractions
// propagate into the results just as they were given. Only values that would
// make the derivation itself meaningless are rejected.
func Derive(profile Params, dcCapacity, acCapacity float64, voltage Voltage, degradationYear int) (*Inputs, error) {
	racking, err := ParseRacking(profile.String("racking"))
	if err != nil {
		return nil, fmt.Errorf("derive inputs: %w", err)
	}
	if degradationYear < 1 {
		return nil, fmt.Errorf("derive inputs: degradation year %d is before first operation", degradationYear)
	}
	voltage, err = ParseVoltage(string(voltage))
	if err != nil {
		return nil, fmt.Errorf("derive inputs: %w", err)
	}

	soiling := CombineSoiling(profile.Float("soiling_loss"), profile.Float("snow_loss"))
	degradation := DegradationAtYear(
		profile.Float("degradation_firstyear"),
		profile.Float("degradation_annual"),
		profile.Float("lid_loss"),
		degradationYear,
	)
	dcLosses := StackLosses(
		profile.Float("module_quality_loss"),
		degradation,
		profile.Float("mismatch_loss"),
		profile.Float("dc_cabling_loss"),
	)
	bifacialLosses := StackLosses(
		profile.Float("rear_shading_loss"),
		profile.Float("rear_mismatch_loss"),
	)
	plantLosses := StackLosses(profile.Float("availability_loss"))

	collectorWidth := profile.Float("collector_width")
	var axisHeight float64
	switch racking {
	case RackingTracker:
		axisHeight = collectorWidth/2*math.Cos(radians(profile.Float("max_angle"))) + 0.5
	case RackingGroundMount:
		axisHeight = collectorWidth/2*math.Cos(radians(profile.Float("surface_tilt"))) + 0.5
	case RackingCanopy:
		axisHeight = 4
	case RackingRooftop:
		axisHeight = collectorWidth/2*math.Cos(radians(profile.Float("surface_tilt"))) + 0.05
	}

	poi := acCapacity
	if profile.Has("poi_capacity") {
		poi = profile.Float("poi_capacity")
	}

	pmtPeak := profile.Float("pmt_peak_loss_factor") * poi
	pmtConstant := profile.Float("pmt_constant_loss_factor") * poi
	mptPeak := profile.Float("mpt_peak_loss_factor") * poi
	mptConstant := profile.Float("mpt_constant_loss_factor") * poi
	transmission := profile.Float("transmission_loss")

	// Plants interconnected below transmission voltage never flow through
	// the substation transformers or transmission lines they are charged
	// for at high voltage.
	switch voltage {
	case VoltageLow:
		pmtPeak, pmtConstant = 0, 0
		mptPeak, mptConstant = 0, 0
		transmission = 0
	case VoltageMedium:
		mptPeak, mptConstant = 0, 0
		transmission = 0
	}

	bifaciality := profile.Float("bifaciality")
	if racking == RackingRooftop {
		// Rooftop arrays sit flush against the deck; the rear face sees
		// nothing worth modeling.
		bifaciality = 0
	}

	var mount Mount
	if racking == RackingTracker {
		mount = TrackerMount{
			AxisTilt:    profile.Float("axis_tilt"),
			AxisAzimuth: profile.Float("axis_azimuth"),
			MaxAngle:    profile.Float("max_angle"),
			Backtrack:   profile.Bool("backtrack"),
		}
	} else {
		mount = FixedMount{
			SurfaceTilt:    profile.Float("surface_tilt"),
			SurfaceAzimuth: profile.Float("surface_azimuth"),
		}
	}

	module := ModuleParams{
		PDC0:        dcCapacity,
		GammaPDC:    profile.Float("gamma_pdc"),
		Efficiency:  profile.Float("module_efficiency"),
		Bifaciality: bifaciality,
	}
	tempRec := profile.Record("temperature_model")

	in := &Inputs{
		Racking:         racking,
		Voltage:         voltage,
		DegradationYear: degradationYear,

		DCCapacity:  dcCapacity,
		ACCapacity:  acCapacity,
		POICapacity: poi,

		Mount:          mount,
		AxisHeight:     axisHeight,
		AxisAzimuth:    profile.Float("axis_azimuth"),
		CollectorWidth: collectorWidth,
		GCR:            profile.Float("gcr"),
		Albedo:         profile.Float("albedo"),
		AlbedoOverride: profile.Bool("albedo_override"),

		Temperature: TemperatureModel{A: tempRec["a"], B: tempRec["b"]},
		Module:      module,

		SoilingLoss:     soiling,
		DegradationLoss: degradation,
		DCLosses:        dcLosses,
		BifacialLosses:  bifacialLosses,

		InverterEfficiency: profile.Float("inverter_efficiency"),
		ACCollectionLoss:   profile.Float("ac_collection_loss"),

		PMTPeakLoss:      pmtPeak,
		PMTConstantLoss:  pmtConstant,
		PMTRating:        poi,
		MPTPeakLoss:      mptPeak,
		MPTConstantLoss:  mptConstant,
		MPTRating:        poi,
		TransmissionLoss: transmission,

		PlantLosses: plantLosses,
	}

	in.Params = profile.Merge(Params{
		"racking":                 string(racking),
		"interconnection_voltage": string(voltage),
		"degradation_year":        degradationYear,
		"dc_capacity":             dcCapacity,
		"ac_capacity":             acCapacity,
		"poi_capacity":            poi,
		"axis_height":             axisHeight,
		"soiling_loss":            soiling,
		"degradation_loss":        degradation,
		"dc_losses":               dcLosses,
		"bifacial_losses":         bifacialLosses,
		"plant_losses":            plantLosses,
		"bifaciality":             bifaciality,
		"pmt_peak_loss":           pmtPeak,
		"pmt_constant_loss":       pmtConstant,
		"pmt_rating":              poi,
		"mpt_peak_loss":           mptPeak,
		"mpt_constant_loss":       mptConstant,
		"mpt_rating":              poi,
		"transmission_loss":       transmission,
		"module_parameters": map[string]float64{
			"pdc0":        module.PDC0,
			"gamma_pdc":   module.GammaPDC,
			"efficiency":  module.Efficiency,
			"bifaciality": module.Bifaciality,
		},
	})
	return in, nil
}

// CombineSoiling folds independent soiling and snow fractions into the
// single blocking fraction the irradiance stage applies.
func CombineSoiling(soiling, snow float64) float64 {
	return 1 - (1-soiling)*(1-snow)
}

// DegradationAtYear returns the module degradation in effect during the
// given 1-based operating year. Light-induced degradation arrives in full
// during year one along with half a year of first-year wear; every later
// year carries the full first-year wear plus annual wear counted to
// mid-year.
func DegradationAtYear(firstYear, annual, lid float64, year int) float64 {
	if year <= 1 {
		return (firstYear-lid)/2 + lid
	}
	return firstYear + float64(year-2)*annual + annual/2
}

// StackLosses folds independent loss fractions into the equivalent single
// fraction of the series stack.
func StackLosses(losses ...float64) float64 {
	kept := 1.0
	for _, l := range losses {
		kept *= 1 - l
	}
	return 1 - kept
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
