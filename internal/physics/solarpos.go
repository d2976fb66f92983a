package physics

import (
	"math"
	"time"
)

func degToRad(deg float64) float64 { return deg * (math.Pi / 180.0) }
func radToDeg(rad float64) float64 { return rad * (180.0 / math.Pi) }
func sind(deg float64) float64     { return math.Sin(degToRad(deg)) }
func cosd(deg float64) float64     { return math.Cos(degToRad(deg)) }

// fixAngle normalizes an angle to the range [0, 360) degrees.
func fixAngle(angle float64) float64 {
	return math.Mod(math.Mod(angle, 360)+360, 360)
}

// jdFromTime converts a time to Julian Day, a continuous count of days since
// Jan 1, 4713 BCE. The time's own zone is respected; only the instant matters.
func jdFromTime(t time.Time) float64 {
	return 2440587.5 + float64(t.Unix())/86400.0
}

// equationOfTime returns the difference between apparent and mean solar time
// in minutes, from the low-order solar coordinate series.
func equationOfTime(t time.Time) float64 {
	jd := jdFromTime(t)
	T := (jd - 2451545.0) / 36525.0 // Julian centuries since J2000.0

	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))            // mean longitude of the Sun
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))             // mean anomaly
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)                  // orbital eccentricity
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60 // mean obliquity

	y := math.Tan(degToRad(eps0) / 2)
	y *= y
	eqTime := y*math.Sin(degToRad(2*L0)) -
		2*e*math.Sin(degToRad(M)) +
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0)) -
		0.5*y*y*math.Sin(degToRad(4*L0)) -
		1.25*e*e*math.Sin(degToRad(2*M))
	return radToDeg(eqTime) * 4 // 4 minutes per degree
}

// declination returns the solar declination in degrees for the given day,
// the sinusoidal approximation peaking at the solstices.
func declination(t time.Time) float64 {
	n := t.YearDay()
	return 23.45 * sind(360.0/365.0*float64(n-81))
}

// SolarPosition is the sun's location in the sky: zenith is degrees from
// vertical, azimuth degrees east of north (180 = due south).
type SolarPosition struct {
	Zenith  float64
	Azimuth float64
}

// solarPosition computes the sun's zenith and azimuth for one instant at the
// given coordinates. True solar time comes from the longitude offset plus the
// equation of time; no refraction correction is applied.
func solarPosition(t time.Time, latitude, longitude float64) SolarPosition {
	utc := t.UTC()
	utcMin := float64(utc.Hour()*60+utc.Minute()) + float64(utc.Second())/60.0
	tst := utcMin + 4*longitude + equationOfTime(utc) // true solar time, minutes
	hourAngle := tst/4 - 180                          // degrees, 0 at solar noon

	delta := declination(utc)
	latRad := degToRad(latitude)
	deltaRad := degToRad(delta)
	hRad := degToRad(hourAngle)

	cosZenith := math.Sin(latRad)*math.Sin(deltaRad) +
		math.Cos(latRad)*math.Cos(deltaRad)*math.Cos(hRad)
	cosZenith = math.Max(-1, math.Min(1, cosZenith))
	zenith := radToDeg(math.Acos(cosZenith))

	// Azimuth measured clockwise from north. atan2 puts solar noon at 0,
	// so shift by 180 to read 180 = south.
	azimuth := fixAngle(180 + radToDeg(math.Atan2(
		math.Sin(hRad),
		math.Cos(hRad)*math.Sin(latRad)-math.Tan(deltaRad)*math.Cos(latRad),
	)))

	return SolarPosition{Zenith: zenith, Azimuth: azimuth}
}

// extraterrestrialDNI returns top-of-atmosphere normal irradiance in W/m2,
// adjusted for the Earth-Sun distance over the year.
func extraterrestrialDNI(t time.Time) float64 {
	n := t.YearDay()
	return solarConstant * (1 + 0.033*cosd(360.0*(float64(n)-3)/365.0))
}

// solarConstant is the average solar energy at the top of the atmosphere.
const solarConstant = 1361.0 // W/m2
