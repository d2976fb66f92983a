package physics

import "math"

// angleOfIncidence returns the angle in degrees between the sun and the
// module plane normal.
func angleOfIncidence(sun SolarPosition, surfaceTilt, surfaceAzimuth float64) float64 {
	cosAOI := cosd(sun.Zenith)*cosd(surfaceTilt) +
		sind(sun.Zenith)*sind(surfaceTilt)*cosd(sun.Azimuth-surfaceAzimuth)
	return radToDeg(math.Acos(clamp1(cosAOI)))
}

// planeOfArray transposes horizontal irradiance components onto the module
// plane with the Hay-Davies sky model: circumsolar diffuse follows the beam
// while the remainder stays isotropic. Ground reflection uses the view factor
// of the tilted plane and the per-interval albedo.
func planeOfArray(ghi, dni, dhi float64, sun SolarPosition, surfaceTilt, surfaceAzimuth, albedo, dniExtra float64) float64 {
	aoi := angleOfIncidence(sun, surfaceTilt, surfaceAzimuth)

	beam := dni * math.Max(cosd(aoi), 0)

	// Projection of beam onto the plane relative to horizontal. The floor
	// on cos(zenith) keeps the ratio bounded through sunrise and sunset.
	rb := math.Max(cosd(aoi), 0) / math.Max(cosd(sun.Zenith), cosd(87))

	anisotropy := 0.0
	if dniExtra > 0 {
		anisotropy = dni / dniExtra
	}
	isotropicView := (1 + cosd(surfaceTilt)) / 2
	skyDiffuse := dhi * (anisotropy*rb + (1-anisotropy)*isotropicView)

	groundReflected := ghi * albedo * (1 - cosd(surfaceTilt)) / 2

	poa := beam + skyDiffuse + groundReflected
	if poa < 0 || math.IsNaN(poa) {
		return 0
	}
	return poa
}

// rearIrradiance estimates the ground-reflected and diffuse light reaching
// the back face of a row. The back face is the front plane flipped, so its
// ground view factor is (1-cos(180-tilt))/2. Rows shade the ground they
// reflect off of: the open-row fraction passes in full, the covered fraction
// in proportion to how high the axis sits relative to the collector.
func rearIrradiance(ghi, dhi, albedo, surfaceTilt, gcr, axisHeight, collectorWidth float64) float64 {
	backTilt := 180 - surfaceTilt
	groundView := (1 - cosd(backTilt)) / 2
	skyView := (1 + cosd(backTilt)) / 2

	clearance := 0.0
	if axisHeight+collectorWidth > 0 {
		clearance = axisHeight / (axisHeight + collectorWidth)
	}
	visibleGround := (1 - gcr) + gcr*clearance

	rear := ghi*albedo*groundView*visibleGround + dhi*skyView
	if rear < 0 {
		return 0
	}
	return rear
}

// cellTemperature is the Sandia module temperature fit: the cell runs above
// ambient in proportion to plane-of-array irradiance, with wind carrying
// heat away exponentially.
func cellTemperature(poa, tempAir, windSpeed, a, b float64) float64 {
	return poa*math.Exp(a+b*windSpeed) + tempAir
}
