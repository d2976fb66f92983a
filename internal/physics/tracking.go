package physics

import "math"

// orientation is the instantaneous pointing of the module plane.
type orientation struct {
	SurfaceTilt    float64 // deg from horizontal
	SurfaceAzimuth float64 // deg east of north
	Rotation       float64 // deg about the tracker axis, signed; 0 for fixed racks
}

// singleAxisOrientation computes the rotation of a single-axis tracker for
// one solar position, then converts it to a surface tilt and azimuth.
//
// The ideal rotation keeps the module normal in the plane containing the sun
// and the axis. With backtracking enabled the tracker rolls back from the
// ideal angle as the sun drops, trading collection for row-to-row shade, with
// the row spacing given by gcr. The rotation never exceeds maxAngle either
// way. At night the tracker parks flat.
func singleAxisOrientation(sun SolarPosition, axisTilt, axisAzimuth, maxAngle, gcr float64, backtrack bool) orientation {
	if sun.Zenith >= 90 {
		return orientation{SurfaceTilt: axisTilt, SurfaceAzimuth: axisAzimuth, Rotation: 0}
	}

	// Sun unit vector in east, north, up coordinates.
	sinZen := sind(sun.Zenith)
	x := sinZen * sind(sun.Azimuth)
	y := sinZen * cosd(sun.Azimuth)
	z := cosd(sun.Zenith)

	// Rotate into the tracker frame: x' along the rotation direction,
	// z' along the axis normal.
	cosAz, sinAz := cosd(axisAzimuth), sind(axisAzimuth)
	cosTilt, sinTilt := cosd(axisTilt), sind(axisTilt)
	xp := x*cosAz - y*sinAz
	zp := x*sinAz*sinTilt + y*cosAz*sinTilt + z*cosTilt

	rotation := radToDeg(math.Atan2(xp, zp))

	if backtrack && gcr > 0 {
		axesDistance := 1 / gcr
		projection := axesDistance * cosd(rotation)
		if projection < 1 {
			// Roll back just enough that rows stop shading each other.
			correction := -sign(rotation) * radToDeg(math.Acos(projection))
			rotation += correction
		}
	}

	if rotation > maxAngle {
		rotation = maxAngle
	} else if rotation < -maxAngle {
		rotation = -maxAngle
	}

	return surfaceOrientation(rotation, axisTilt, axisAzimuth)
}

// surfaceOrientation converts a signed tracker rotation into the tilt and
// azimuth of the module plane.
func surfaceOrientation(rotation, axisTilt, axisAzimuth float64) orientation {
	surfaceTilt := radToDeg(math.Acos(clamp1(cosd(rotation) * cosd(axisTilt))))

	var azimuthDelta float64
	if sind(surfaceTilt) != 0 {
		azimuthDelta = radToDeg(math.Asin(clamp1(sind(rotation) / sind(surfaceTilt))))
		if math.Abs(rotation) >= 90 {
			azimuthDelta = -azimuthDelta + sign(rotation)*180
		}
	} else {
		// Flat module: the azimuth is degenerate, pick the convention
		// that matches a just-started rotation.
		azimuthDelta = 90
	}

	return orientation{
		SurfaceTilt:    surfaceTilt,
		SurfaceAzimuth: fixAngle(axisAzimuth + azimuthDelta),
		Rotation:       rotation,
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func clamp1(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
