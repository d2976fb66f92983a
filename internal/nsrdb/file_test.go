package nsrdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"pv-estimate/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weatherFixture = `datetime,ghi,dni,dhi,temp_air,wind_speed,surface_albedo
2019-06-21 10:00,650,820,120,24,3.1,0.2
2019-06-21 11:00,720,860,130,26,3.4,0.2
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadWeatherCSV(t *testing.T) {
	w, err := LoadWeatherCSV(writeFixture(t, "weather.csv", weatherFixture))
	require.NoError(t, err)

	require.Equal(t, 2, w.Len())
	assert.Equal(t, time.Date(2019, time.June, 21, 10, 0, 0, 0, time.UTC), w.Times[0])
	assert.Equal(t, 650.0, w.GHI[0])
	assert.Equal(t, 860.0, w.DNI[1])
	assert.Equal(t, []float64{0.2, 0.2}, w.SurfaceAlbedo)
	assert.Nil(t, w.Soiling, "absent optional column stays absent")
}

func TestLoadWeatherCSVErrors(t *testing.T) {
	_, err := LoadWeatherCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorContains(t, err, "failed to open")

	noGHI := `datetime,dni,dhi,temp_air,wind_speed
2019-06-21 10:00,820,120,24,3.1
`
	_, err = LoadWeatherCSV(writeFixture(t, "noghi.csv", noGHI))
	assert.ErrorContains(t, err, `"ghi"`)

	badTime := `datetime,ghi,dni,dhi,temp_air,wind_speed
yesterday,650,820,120,24,3.1
`
	_, err = LoadWeatherCSV(writeFixture(t, "badtime.csv", badTime))
	assert.ErrorContains(t, err, "timestamp")
}

func TestResourceJSONRoundTrip(t *testing.T) {
	res := &model.Resource{
		Weather: &model.WeatherTable{
			Times:     []time.Time{time.Date(2019, time.June, 21, 10, 0, 0, 0, time.UTC)},
			GHI:       []float64{650},
			DNI:       []float64{820},
			DHI:       []float64{120},
			TempAir:   []float64{24},
			WindSpeed: []float64{3.1},
		},
		UTCOffset: -7,
		Elevation: 1820,
	}

	path := filepath.Join(t.TempDir(), "resource.json")
	require.NoError(t, SaveResourceJSON(path, res))

	loaded, err := LoadResourceJSON(path)
	require.NoError(t, err)
	assert.Equal(t, res.UTCOffset, loaded.UTCOffset)
	assert.Equal(t, res.Elevation, loaded.Elevation)
	require.Equal(t, 1, loaded.Weather.Len())
	assert.True(t, loaded.Weather.Times[0].Equal(res.Weather.Times[0]))
	assert.Equal(t, res.Weather.GHI, loaded.Weather.GHI)
}

func TestLoadResourceJSONRejectsEmpty(t *testing.T) {
	path := writeFixture(t, "empty.json", `{"utc_offset": -7, "elevation": 1820}`)
	_, err := LoadResourceJSON(path)
	assert.ErrorContains(t, err, "no weather table")
}
