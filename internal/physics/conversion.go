package physics

// referenceEfficiency is the inverter efficiency the PVWatts part-load curve
// was fitted at.
const referenceEfficiency = 0.9637

// transformerLoadRatio is the assumed power factor when relating throughput
// to a transformer's nameplate rating.
const transformerLoadRatio = 0.98

// pvwattsDC converts effective irradiance to DC power at the given cell
// temperature: linear in irradiance with a temperature coefficient around
// the 25 degC reference.
func pvwattsDC(effectiveIrradiance, pdc0, gammaPDC, cellTemp float64) float64 {
	return effectiveIrradiance / 1000 * pdc0 * (1 + gammaPDC*(cellTemp-25))
}

// pvwattsAC runs the PVWatts inverter part-load efficiency curve and caps the
// result at the AC nameplate. pdc at or below zero converts to zero rather
// than following the curve through its singularity.
func pvwattsAC(pdc, acCapacity, etaNominal float64) float64 {
	if pdc <= 0 {
		return 0
	}
	pdc0 := acCapacity / etaNominal
	zeta := pdc / pdc0
	eta := etaNominal / referenceEfficiency * (-0.0162*zeta - 0.0059/zeta + 0.9858)
	pac := eta * pdc
	if pac > acCapacity {
		pac = acCapacity
	}
	if pac < 0 {
		pac = 0
	}
	return pac
}

// transformerOutput applies a transformer's quadratic load loss and constant
// core loss to a throughput power. A transformer zeroed out by the
// interconnection voltage passes power through unchanged.
func transformerOutput(p, peakLoss, rating, constantLoss float64) float64 {
	out := p - constantLoss
	if peakLoss != 0 {
		ratio := p / transformerLoadRatio / rating
		out -= peakLoss * ratio * ratio
	}
	if out < 0 {
		return 0
	}
	return out
}
