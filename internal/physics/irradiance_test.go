package physics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAngleOfIncidence(t *testing.T) {
	// surface normal pointed straight at the sun
	sun := SolarPosition{Zenith: 30, Azimuth: 180}
	assert.InDelta(t, 0, angleOfIncidence(sun, 30, 180), 1e-9)

	// horizontal surface: AOI equals the zenith
	assert.InDelta(t, 30, angleOfIncidence(sun, 0, 123), 1e-9)

	// surface facing away
	assert.InDelta(t, 150, angleOfIncidence(sun, 90, 0), 1e-6)
}

func TestPlaneOfArray_HorizontalRecomposesGHI(t *testing.T) {
	// On a horizontal plane the transposition must collapse back to
	// beam projection plus diffuse, with no ground reflection.
	sun := SolarPosition{Zenith: 40, Azimuth: 200}
	poa := planeOfArray(900, 800, 120, sun, 0, 180, 0.2, 1400)

	want := 800*cosd(40) + 120
	assert.InDelta(t, want, poa, 1e-9)
}

func TestPlaneOfArray_TiltedAnchor(t *testing.T) {
	// Fixed 30 deg south rack at solstice noon in Denver.
	sun := SolarPosition{Zenith: 16.2932481643, Azimuth: 178.7846417392}
	dniExtra := extraterrestrialDNI(time.Date(1900, time.June, 21, 12, 0, 0, 0, denverZone))

	poa := planeOfArray(900, 800, 120, sun, 30, 180, 0.2, dniExtra)
	assert.InDelta(t, 906.9774000533, poa, 1e-5)
}

func TestPlaneOfArray_DarkSkyIsZero(t *testing.T) {
	sun := SolarPosition{Zenith: 110, Azimuth: 10}
	assert.Zero(t, planeOfArray(0, 0, 0, sun, 30, 180, 0.2, 1400))
}

func TestRearIrradiance(t *testing.T) {
	// ground-mount geometry anchor
	got := rearIrradiance(900, 120, 0.2, 30, 0.4, 2.2320508075688776, 4)
	assert.InDelta(t, 132.8637102085, got, 1e-6)

	// zero albedo leaves only the sliver of sky the back face sees
	skyOnly := rearIrradiance(900, 120, 0, 30, 0.4, 2.232, 4)
	assert.InDelta(t, 120*(1+cosd(150))/2, skyOnly, 1e-9)

	// taller racking opens the ground view
	low := rearIrradiance(900, 120, 0.2, 30, 0.4, 1, 4)
	high := rearIrradiance(900, 120, 0.2, 30, 0.4, 4, 4)
	assert.Greater(t, high, low)

	// denser rows shade their own reflected light
	sparse := rearIrradiance(900, 120, 0.2, 30, 0.2, 2, 4)
	dense := rearIrradiance(900, 120, 0.2, 30, 0.9, 2, 4)
	assert.Greater(t, sparse, dense)
}

func TestCellTemperature(t *testing.T) {
	got := cellTemperature(800, 20, 3, -3.56, -0.075)
	assert.InDelta(t, 38.1670902214, got, 1e-9)

	assert.Equal(t, 20.0, cellTemperature(0, 20, 3, -3.56, -0.075), "no sun, cell at ambient")

	calm := cellTemperature(800, 20, 0, -3.56, -0.075)
	windy := cellTemperature(800, 20, 10, -3.56, -0.075)
	assert.Greater(t, calm, windy, "wind cools the cell")
}
