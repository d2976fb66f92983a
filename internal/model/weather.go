package model

import (
	"fmt"
	"time"
)

// WeatherTable holds one column per measured quantity, one row per interval.
// Irradiance is W/m2, temperature degC, wind speed m/s. SurfaceAlbedo and
// Soiling are optional; estimates fill them from the profile when the source
// did not provide them.
type WeatherTable struct {
	Times     []time.Time `json:"times"`
	GHI       []float64   `json:"ghi"`
	DNI       []float64   `json:"dni"`
	DHI       []float64   `json:"dhi"`
	TempAir   []float64   `json:"temp_air"`
	WindSpeed []float64   `json:"wind_speed"`

	SurfaceAlbedo []float64 `json:"surface_albedo,omitempty"`
	Soiling       []float64 `json:"soiling,omitempty"`
}

func (w *WeatherTable) Len() int { return len(w.Times) }

// StepMinutes reports the interval length inferred from the first two rows.
// Single-row tables read as hourly.
func (w *WeatherTable) StepMinutes() float64 {
	if len(w.Times) < 2 {
		return 60
	}
	return w.Times[1].Sub(w.Times[0]).Minutes()
}

// Validate checks that every populated column covers the same rows and that
// the table is usable at all. Physical plausibility of the values is the
// source's problem, not ours.
func (w *WeatherTable) Validate() error {
	n := len(w.Times)
	if n == 0 {
		return fmt.Errorf("weather table is empty")
	}
	cols := map[string][]float64{
		"ghi":            w.GHI,
		"dni":            w.DNI,
		"dhi":            w.DHI,
		"temp_air":       w.TempAir,
		"wind_speed":     w.WindSpeed,
		"surface_albedo": w.SurfaceAlbedo,
		"soiling":        w.Soiling,
	}
	for name, col := range cols {
		switch {
		case col == nil && (name == "surface_albedo" || name == "soiling"):
			// optional
		case len(col) != n:
			return fmt.Errorf("weather column %s has %d rows, want %d", name, len(col), n)
		}
	}
	return nil
}

// WithDefaults returns a table guaranteed to carry albedo and soiling
// columns. Missing columns are filled with the given constants. When
// overrideAlbedo is set the albedo column is replaced outright: a profile
// that pins albedo knows the surface under the array better than the
// satellite retrieval does.
//
// The receiver is never modified; shared columns are reused.
func (w *WeatherTable) WithDefaults(albedo, soiling float64, overrideAlbedo bool) *WeatherTable {
	out := *w
	if out.SurfaceAlbedo == nil || overrideAlbedo {
		out.SurfaceAlbedo = constColumn(w.Len(), albedo)
	}
	if out.Soiling == nil {
		out.Soiling = constColumn(w.Len(), soiling)
	}
	return &out
}

func constColumn(n int, v float64) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = v
	}
	return col
}

// Resource is a weather table plus the site metadata a simulation needs to
// place it: the offset the timestamps are expressed in and the site
// elevation used by the clear-sky and transposition models.
type Resource struct {
	Weather   *WeatherTable `json:"weather"`
	UTCOffset float64       `json:"utc_offset"` // hours east of UTC
	Elevation float64       `json:"elevation"`  // m above sea level
}

// ResourceRequest names the weather a provider should fetch. SoilingLoss
// seeds the soiling column when the source has none, and CorrectionFactor
// scales the irradiance columns (1 = use the source values as-is).
type ResourceRequest struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Dataset          string  `json:"dataset"`  // "tmy" or a calendar year such as "2019"
	Interval         int     `json:"interval"` // minutes between rows
	SoilingLoss      float64 `json:"soiling_loss"`
	CorrectionFactor float64 `json:"correction_factor"`
}
