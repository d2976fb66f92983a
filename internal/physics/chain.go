package physics

import (
	"fmt"
	"time"

	"pv-estimate/internal/model"
)

// Site places a plant on the globe.
type Site struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`  // m above sea level
	UTCOffset float64 `json:"utc_offset"` // hours east of UTC
}

// ConversionSeries holds one power conversion stage, one value per interval.
// Power enters the stage, Output leaves it, Losses is the difference, and
// Clipping reports headroom lost against the stage's rating.
type ConversionSeries struct {
	Power    []float64 `json:"power"`
	Losses   []float64 `json:"losses"`
	Output   []float64 `json:"output"`
	Clipping []float64 `json:"clipping"`
}

// PlantSeries is delivered power after interconnection clipping, with the
// operational losses charged against it.
type PlantSeries struct {
	Output []float64 `json:"output"`
	Losses []float64 `json:"losses"`
}

// Results are the plant performance metrics for one modeled year.
type Results struct {
	AEP              float64 `json:"aep"`               // Wh delivered
	NCF              float64 `json:"ncf"`               // net capacity factor against POI
	EnergyYield      float64 `json:"energy_yield"`      // Wh per W of DC nameplate
	PerformanceRatio float64 `json:"performance_ratio"` // against front-side insolation
}

// ModelChain runs a plant through the five simulation stages and keeps every
// intermediate series: irradiance transposition, DC conversion, AC
// conversion, the transformer ladder, and plant delivery. A chain is built
// once per plant and filled in stage order.
type ModelChain struct {
	Site   Site
	Inputs *model.Inputs

	StepMinutes float64

	Times               []time.Time
	SolarZenith         []float64
	SolarAzimuth        []float64
	SurfaceTilt         []float64
	SurfaceAzimuth      []float64
	GHI                 []float64 // W/m2 horizontal, as fed to the chain
	FrontIrradiance     []float64 // W/m2 on the module front face
	RearIrradiance      []float64 // W/m2 on the back face
	EffectiveIrradiance []float64 // bifacial-combined, soiled
	CellTemperature     []float64 // degC

	DC    ConversionSeries
	AC    ConversionSeries
	Plant PlantSeries

	Results Results
}

// NewModelChain builds an idle chain for the given site and derived inputs.
func NewModelChain(site Site, in *model.Inputs) *ModelChain {
	return &ModelChain{Site: site, Inputs: in}
}

// Run executes every stage against the weather table.
func (mc *ModelChain) Run(w *model.WeatherTable) error {
	if err := mc.PrepareIrradiance(w); err != nil {
		return err
	}
	mc.RunPower()
	return nil
}

// RunPower executes the power stages against already prepared irradiance.
func (mc *ModelChain) RunPower() {
	mc.RunDC()
	mc.RunAC()
	mc.RunPlant()
	mc.Summarize()
}

// PrepareIrradiance resolves the sun position and mount orientation for every
// interval and transposes the weather onto the module planes. Missing albedo
// and soiling columns are filled from the derived inputs; profiles that pin
// albedo replace the measured column outright.
func (mc *ModelChain) PrepareIrradiance(w *model.WeatherTable) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("prepare irradiance: %w", err)
	}
	w = w.WithDefaults(mc.Inputs.Albedo, mc.Inputs.SoilingLoss, mc.Inputs.AlbedoOverride)

	n := w.Len()
	mc.StepMinutes = w.StepMinutes()
	mc.Times = w.Times
	mc.GHI = w.GHI
	mc.SolarZenith = make([]float64, n)
	mc.SolarAzimuth = make([]float64, n)
	mc.SurfaceTilt = make([]float64, n)
	mc.SurfaceAzimuth = make([]float64, n)
	mc.FrontIrradiance = make([]float64, n)
	mc.RearIrradiance = make([]float64, n)
	mc.EffectiveIrradiance = make([]float64, n)
	mc.CellTemperature = make([]float64, n)

	// Rear gain is fixed for the year; soiling hits both faces alike.
	bifacialGain := mc.Inputs.Module.Bifaciality * (1 - mc.Inputs.BifacialLosses)

	for i, t := range w.Times {
		sun := solarPosition(t, mc.Site.Latitude, mc.Site.Longitude)

		var o orientation
		switch m := mc.Inputs.Mount.(type) {
		case model.TrackerMount:
			o = singleAxisOrientation(sun, m.AxisTilt, m.AxisAzimuth, m.MaxAngle, mc.Inputs.GCR, m.Backtrack)
		case model.FixedMount:
			o = orientation{SurfaceTilt: m.SurfaceTilt, SurfaceAzimuth: m.SurfaceAzimuth}
		default:
			return fmt.Errorf("prepare irradiance: unsupported mount %T", mc.Inputs.Mount)
		}

		front := planeOfArray(w.GHI[i], w.DNI[i], w.DHI[i], sun,
			o.SurfaceTilt, o.SurfaceAzimuth, w.SurfaceAlbedo[i], extraterrestrialDNI(t))
		rear := rearIrradiance(w.GHI[i], w.DHI[i], w.SurfaceAlbedo[i],
			o.SurfaceTilt, mc.Inputs.GCR, mc.Inputs.AxisHeight, mc.Inputs.CollectorWidth)

		mc.SolarZenith[i] = sun.Zenith
		mc.SolarAzimuth[i] = sun.Azimuth
		mc.SurfaceTilt[i] = o.SurfaceTilt
		mc.SurfaceAzimuth[i] = o.SurfaceAzimuth
		mc.FrontIrradiance[i] = front
		mc.RearIrradiance[i] = rear
		mc.EffectiveIrradiance[i] = (front + rear*bifacialGain) * (1 - w.Soiling[i])
		mc.CellTemperature[i] = cellTemperature(front, w.TempAir[i], w.WindSpeed[i],
			mc.Inputs.Temperature.A, mc.Inputs.Temperature.B)
	}
	return nil
}

// RunDC converts effective irradiance to DC power and charges the DC loss
// stack. Clipping reports output beyond what the inverters can absorb; the
// power itself is capped later by the inverter curve.
func (mc *ModelChain) RunDC() {
	in := mc.Inputs
	n := len(mc.EffectiveIrradiance)
	mc.DC = newConversionSeries(n)

	inverterDCLimit := in.ACCapacity / in.InverterEfficiency
	for i := 0; i < n; i++ {
		pdc := pvwattsDC(mc.EffectiveIrradiance[i], in.Module.PDC0, in.Module.GammaPDC, mc.CellTemperature[i])
		losses := pdc * in.DCLosses
		output := pdc - losses

		mc.DC.Power[i] = pdc
		mc.DC.Losses[i] = losses
		mc.DC.Output[i] = output
		if clip := output - inverterDCLimit; clip > 0 {
			mc.DC.Clipping[i] = clip
		}
	}
}

// RunAC converts DC output through the inverter curve, then walks it down
// the AC ladder: padmount transformer, AC collection, main power
// transformer, transmission. Clipping reports output beyond the POI limit.
func (mc *ModelChain) RunAC() {
	in := mc.Inputs
	n := len(mc.DC.Output)
	mc.AC = newConversionSeries(n)

	for i := 0; i < n; i++ {
		pac := pvwattsAC(mc.DC.Output[i], in.ACCapacity, in.InverterEfficiency)
		pmtOut := transformerOutput(pac, in.PMTPeakLoss, in.PMTRating, in.PMTConstantLoss)
		mptIn := pmtOut * (1 - in.ACCollectionLoss)
		mptOut := transformerOutput(mptIn, in.MPTPeakLoss, in.MPTRating, in.MPTConstantLoss)
		output := mptOut * (1 - in.TransmissionLoss)

		mc.AC.Power[i] = pac
		mc.AC.Losses[i] = pac - output
		mc.AC.Output[i] = output
		if clip := output - in.POICapacity; clip > 0 {
			mc.AC.Clipping[i] = clip
		}
	}
}

// RunPlant settles delivery: clip at the interconnection, then charge the
// plant-level operating losses against what was delivered.
func (mc *ModelChain) RunPlant() {
	in := mc.Inputs
	n := len(mc.AC.Output)
	mc.Plant = PlantSeries{Output: make([]float64, n), Losses: make([]float64, n)}

	for i := 0; i < n; i++ {
		out := mc.AC.Output[i] - mc.AC.Clipping[i]
		mc.Plant.Output[i] = out
		mc.Plant.Losses[i] = out * in.PlantLosses
	}
}

// Summarize computes the year metrics from the plant series. The performance
// ratio divides the specific yield by the front-side reference yield, the
// insolation scaled to 1000 W/m2, mirroring how the plant would be
// benchmarked against reference cells.
func (mc *ModelChain) Summarize() {
	in := mc.Inputs

	var sumOutput, sumLosses, sumFront float64
	for i := range mc.Plant.Output {
		sumOutput += mc.Plant.Output[i]
		sumLosses += mc.Plant.Losses[i]
	}
	for _, f := range mc.FrontIrradiance {
		sumFront += f
	}

	hours := mc.StepMinutes / 60
	aep := (sumOutput - sumLosses) * hours

	var ncf, energyYield, pr float64
	if in.POICapacity != 0 {
		ncf = aep / in.POICapacity / 8760
	}
	if in.DCCapacity != 0 {
		energyYield = aep / in.DCCapacity
	}
	if refYield := sumFront * hours / 1000; refYield != 0 && in.DCCapacity != 0 {
		pr = aep / in.DCCapacity / refYield
	}

	mc.Results = Results{AEP: aep, NCF: ncf, EnergyYield: energyYield, PerformanceRatio: pr}
}

// WithLosses returns a chain that shares this chain's site, weather-derived
// series, and step but carries a different degradation and DC loss stack.
// Running power stages on the clone leaves the receiver untouched, so one
// irradiance pass can serve many loss scenarios.
func (mc *ModelChain) WithLosses(degradation, dcLosses float64) *ModelChain {
	in := *mc.Inputs
	in.DegradationLoss = degradation
	in.DCLosses = dcLosses
	in.Params = mc.Inputs.Params.Merge(model.Params{
		"degradation_loss": degradation,
		"dc_losses":        dcLosses,
	})

	clone := *mc
	clone.Inputs = &in
	clone.DC = ConversionSeries{}
	clone.AC = ConversionSeries{}
	clone.Plant = PlantSeries{}
	clone.Results = Results{}
	return &clone
}

func newConversionSeries(n int) ConversionSeries {
	return ConversionSeries{
		Power:    make([]float64, n),
		Losses:   make([]float64, n),
		Output:   make([]float64, n),
		Clipping: make([]float64, n),
	}
}
