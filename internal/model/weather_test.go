package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlyTable(n int) *WeatherTable {
	w := &WeatherTable{
		Times:     make([]time.Time, n),
		GHI:       make([]float64, n),
		DNI:       make([]float64, n),
		DHI:       make([]float64, n),
		TempAir:   make([]float64, n),
		WindSpeed: make([]float64, n),
	}
	start := time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range w.Times {
		w.Times[i] = start.Add(time.Duration(i) * time.Hour)
		w.GHI[i] = float64(i * 10)
		w.TempAir[i] = 20
		w.WindSpeed[i] = 3
	}
	return w
}

func TestWeatherTable_Validate(t *testing.T) {
	w := hourlyTable(24)
	require.NoError(t, w.Validate())

	w.DNI = w.DNI[:10]
	err := w.Validate()
	assert.ErrorContains(t, err, "dni")

	empty := &WeatherTable{}
	assert.ErrorContains(t, empty.Validate(), "empty")
}

func TestWeatherTable_StepMinutes(t *testing.T) {
	assert.Equal(t, 60.0, hourlyTable(24).StepMinutes())

	w := hourlyTable(2)
	w.Times[1] = w.Times[0].Add(30 * time.Minute)
	assert.Equal(t, 30.0, w.StepMinutes())

	assert.Equal(t, 60.0, hourlyTable(1).StepMinutes(), "single row reads as hourly")
}

func TestWeatherTable_WithDefaults_FillsMissingColumns(t *testing.T) {
	w := hourlyTable(4)
	out := w.WithDefaults(0.2, 0.03, false)

	require.Len(t, out.SurfaceAlbedo, 4)
	require.Len(t, out.Soiling, 4)
	for i := 0; i < 4; i++ {
		assert.Equal(t, 0.2, out.SurfaceAlbedo[i])
		assert.Equal(t, 0.03, out.Soiling[i])
	}
	assert.Nil(t, w.SurfaceAlbedo, "receiver stays untouched")
	assert.Nil(t, w.Soiling)
}

func TestWeatherTable_WithDefaults_KeepsMeasuredAlbedo(t *testing.T) {
	w := hourlyTable(3)
	w.SurfaceAlbedo = []float64{0.4, 0.5, 0.6}

	out := w.WithDefaults(0.2, 0.03, false)
	assert.Equal(t, []float64{0.4, 0.5, 0.6}, out.SurfaceAlbedo)
}

func TestWeatherTable_WithDefaults_OverrideReplacesAlbedo(t *testing.T) {
	w := hourlyTable(3)
	w.SurfaceAlbedo = []float64{0.4, 0.5, 0.6}

	out := w.WithDefaults(0.12, 0.03, true)
	assert.Equal(t, []float64{0.12, 0.12, 0.12}, out.SurfaceAlbedo)
	assert.Equal(t, []float64{0.4, 0.5, 0.6}, w.SurfaceAlbedo, "receiver keeps the measured column")
}
