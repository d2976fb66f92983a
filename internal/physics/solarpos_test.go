package physics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var denverZone = time.FixedZone("UTC-7", -7*3600)

func TestSolarPosition_SolsticeNoon(t *testing.T) {
	// June solstice, Denver standard time. The sun should sit nearly
	// overhead for the latitude (lat - declination) and nearly due south.
	noon := time.Date(1900, time.June, 21, 12, 0, 0, 0, denverZone)
	sun := solarPosition(noon, 39.74, -105.0)

	assert.InDelta(t, 16.2932481643, sun.Zenith, 1e-6)
	assert.InDelta(t, 178.7846417392, sun.Azimuth, 1e-6)
}

func TestSolarPosition_MorningSunInEast(t *testing.T) {
	morning := time.Date(1900, time.June, 21, 8, 0, 0, 0, denverZone)
	sun := solarPosition(morning, 39.74, -105.0)

	assert.InDelta(t, 52.8964721051, sun.Zenith, 1e-6)
	assert.InDelta(t, 88.8526560677, sun.Azimuth, 1e-6)
}

func TestSolarPosition_NightBelowHorizon(t *testing.T) {
	midnight := time.Date(1900, time.June, 21, 0, 0, 0, 0, denverZone)
	sun := solarPosition(midnight, 39.74, -105.0)

	assert.Greater(t, sun.Zenith, 90.0)
}

func TestSolarPosition_InstantNotWallClock(t *testing.T) {
	// The same instant expressed in two zones must give the same position.
	local := time.Date(1900, time.June, 21, 12, 0, 0, 0, denverZone)
	utc := local.UTC()

	a := solarPosition(local, 39.74, -105.0)
	b := solarPosition(utc, 39.74, -105.0)
	assert.Equal(t, a, b)
}

func TestExtraterrestrialDNI_SeasonalSwing(t *testing.T) {
	january := extraterrestrialDNI(time.Date(1900, time.January, 3, 0, 0, 0, 0, time.UTC))
	july := extraterrestrialDNI(time.Date(1900, time.July, 3, 0, 0, 0, 0, time.UTC))

	assert.InDelta(t, solarConstant*1.033, january, 1e-6, "perihelion in early January")
	assert.Less(t, july, solarConstant, "aphelion in July")
}
