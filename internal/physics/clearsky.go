package physics

import (
	"fmt"
	"math"
	"time"

	"pv-estimate/internal/model"
)

// Ineichen clear-sky coefficients.
const (
	linkeTurbidity        = 2.0   // typical clear atmosphere, range 2-6
	dniNormalization      = 0.7   // beam normalization constant
	extinctionCoefficient = 0.027 // atmospheric extinction per unit air mass
)

// ClearSky synthesizes clear-sky weather for n intervals starting at start.
// Irradiance follows the Ineichen model with a fixed Linke turbidity;
// temperature carries a seasonal and a diurnal swing and wind is calm. The
// output has no albedo or soiling columns, so profile defaults apply.
//
// Synthetic weather stands in when no measured resource is available, and
// gives tests and demos a deterministic year.
func ClearSky(site Site, start time.Time, n int, stepMinutes int) *model.WeatherTable {
	w := &model.WeatherTable{
		Times:     make([]time.Time, n),
		GHI:       make([]float64, n),
		DNI:       make([]float64, n),
		DHI:       make([]float64, n),
		TempAir:   make([]float64, n),
		WindSpeed: make([]float64, n),
	}
	step := time.Duration(stepMinutes) * time.Minute

	for i := 0; i < n; i++ {
		t := start.Add(time.Duration(i) * step)
		w.Times[i] = t

		sun := solarPosition(t, site.Latitude, site.Longitude)
		if sun.Zenith < 90 {
			g0 := extraterrestrialDNI(t)
			am := airMass(sun.Zenith)
			dni := g0 * dniNormalization *
				math.Exp(-extinctionCoefficient*am*linkeTurbidity*math.Exp(-site.Elevation/8000))
			diffuseFraction := 0.1 + 0.05*math.Sin(math.Pi*float64(t.YearDay()-100)/365)
			dhi := diffuseFraction * g0 * cosd(sun.Zenith)

			w.DNI[i] = dni
			w.DHI[i] = dhi
			w.GHI[i] = dni*cosd(sun.Zenith) + dhi
		}

		day := float64(t.YearDay())
		hour := float64(t.Hour()) + float64(t.Minute())/60
		w.TempAir[i] = 15 +
			10*math.Cos(2*math.Pi*(day-200)/365) +
			5*math.Cos(2*math.Pi*(hour-15)/24)
		w.WindSpeed[i] = 3
	}
	return w
}

// ClearSkyYear synthesizes a full calendar year of clear-sky weather in the
// site's standard time.
func ClearSkyYear(site Site, year int, stepMinutes int) *model.WeatherTable {
	zone := time.FixedZone(fmt.Sprintf("UTC%+g", site.UTCOffset), int(site.UTCOffset*3600))
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, zone)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, zone)
	n := int(end.Sub(start).Minutes()) / stepMinutes
	return ClearSky(site, start, n, stepMinutes)
}

// airMass is the Kasten-Young relative atmospheric path length for a given
// solar zenith in degrees.
func airMass(zenith float64) float64 {
	return 1 / (cosd(zenith) + 0.50572*math.Pow(96.07995-zenith, -1.6364))
}
