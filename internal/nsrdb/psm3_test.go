package nsrdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pv-estimate/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const psm3Fixture = `Source,Location ID,City,State,Country,Latitude,Longitude,Time Zone,Elevation,Local Time Zone
NSRDB,149190,-,-,-,39.74,-105.18,-7,1820,-7
Year,Month,Day,Hour,Minute,GHI,DHI,DNI,Wind Speed,Temperature,Surface Albedo
1998,6,21,10,30,650,120,820,3.1,24,0.2
1998,6,21,11,30,720,130,860,3.4,26,0.21
`

func TestParsePSM3(t *testing.T) {
	res, err := ParsePSM3(strings.NewReader(psm3Fixture), 0.02, 0.95)
	require.NoError(t, err)

	assert.Equal(t, -7.0, res.UTCOffset)
	assert.Equal(t, 1820.0, res.Elevation)

	w := res.Weather
	require.Equal(t, 2, w.Len())

	// naive local standard time, stamped UTC
	assert.Equal(t, time.Date(1998, time.June, 21, 10, 30, 0, 0, time.UTC), w.Times[0])

	// the correction factor scales irradiance only
	assert.InDelta(t, 650*0.95, w.GHI[0], 1e-9)
	assert.InDelta(t, 130*0.95, w.DHI[1], 1e-9)
	assert.InDelta(t, 860*0.95, w.DNI[1], 1e-9)
	assert.Equal(t, 24.0, w.TempAir[0])
	assert.Equal(t, 3.4, w.WindSpeed[1])

	assert.Equal(t, []float64{0.2, 0.21}, w.SurfaceAlbedo)
	assert.Equal(t, []float64{0.02, 0.02}, w.Soiling)
}

func TestParsePSM3Errors(t *testing.T) {
	noZone := strings.Replace(psm3Fixture, "Time Zone", "Zone Of Time", 1)
	_, err := ParsePSM3(strings.NewReader(noZone), 0.02, 1)
	assert.ErrorContains(t, err, "Time Zone")

	noGHI := strings.Replace(psm3Fixture, ",GHI,", ",Irradiance,", 1)
	_, err = ParsePSM3(strings.NewReader(noGHI), 0.02, 1)
	assert.ErrorContains(t, err, `"GHI"`)

	badValue := strings.Replace(psm3Fixture, "650", "lots", 1)
	_, err = ParsePSM3(strings.NewReader(badValue), 0.02, 1)
	assert.ErrorContains(t, err, "row 1")
}

func TestClient_Resource(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k, v := range r.URL.Query() {
			gotQuery[k] = v[0]
		}
		w.Write([]byte(psm3Fixture))
	}))
	defer server.Close()

	client := NewClient("dev@example.com", "demo-key-1234567890", server.URL)
	res, err := client.Resource(context.Background(), model.ResourceRequest{
		Latitude:         39.74,
		Longitude:        -105.18,
		Dataset:          "tmy",
		SoilingLoss:      0.02,
		CorrectionFactor: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, pathTMY, gotPath)
	assert.Equal(t, "demo-key-1234567890", gotQuery["api_key"])
	assert.Equal(t, "dev@example.com", gotQuery["email"])
	assert.Equal(t, "tmy", gotQuery["names"])
	assert.Equal(t, "60", gotQuery["interval"], "interval defaults to hourly")
	assert.Equal(t, "POINT(-105.18 39.74)", gotQuery["wkt"])
	assert.Equal(t, "false", gotQuery["utc"])
	assert.Equal(t, "false", gotQuery["leap_day"])

	assert.Equal(t, -7.0, res.UTCOffset)
	assert.Equal(t, 1820.0, res.Elevation)
	assert.Equal(t, 2, res.Weather.Len())
}

func TestClient_ResourceStatusErrors(t *testing.T) {
	cases := []struct {
		status     int
		retryAfter string
		code       string
	}{
		{http.StatusForbidden, "", "INVALID_API_KEY"},
		{http.StatusTooManyRequests, "120", "RATE_LIMIT_EXCEEDED"},
		{http.StatusUnauthorized, "", "UNAUTHORIZED"},
		{http.StatusServiceUnavailable, "", "API_ERROR"},
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tc.retryAfter != "" {
				w.Header().Set("Retry-After", tc.retryAfter)
			}
			w.WriteHeader(tc.status)
		}))

		client := NewClient("dev@example.com", "demo-key-1234567890", server.URL)
		_, err := client.Resource(context.Background(), model.ResourceRequest{Latitude: 39.74, Longitude: -105.18})

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr, "status %d", tc.status)
		assert.Equal(t, tc.status, apiErr.StatusCode)
		assert.Equal(t, tc.code, apiErr.Code)
		assert.Equal(t, tc.retryAfter, apiErr.RetryAfter)

		server.Close()
	}
}

func TestClient_ValidatesCredentials(t *testing.T) {
	// no server: validation must fail before any request is attempted
	client := NewClient("", "", "http://127.0.0.1:0")
	_, err := client.Resource(context.Background(), model.ResourceRequest{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "MISSING_CREDENTIALS", apiErr.Code)

	client = NewClient("dev@example.com", "short", "http://127.0.0.1:0")
	_, err = client.Resource(context.Background(), model.ResourceRequest{})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_API_KEY_FORMAT", apiErr.Code)
}

func TestClient_ValidatesCoordinates(t *testing.T) {
	client := NewClient("dev@example.com", "demo-key-1234567890", "http://127.0.0.1:0")

	_, err := client.Resource(context.Background(), model.ResourceRequest{Latitude: 91})
	assert.ErrorContains(t, err, "latitude")

	_, err = client.Resource(context.Background(), model.ResourceRequest{Longitude: -200})
	assert.ErrorContains(t, err, "longitude")
}

func TestEndpointPath(t *testing.T) {
	assert.Equal(t, pathTMY, endpointPath(model.ResourceRequest{Dataset: "tmy", Interval: 60}))
	assert.Equal(t, pathYear, endpointPath(model.ResourceRequest{Dataset: "2019", Interval: 60}))
	assert.Equal(t, pathYear, endpointPath(model.ResourceRequest{Dataset: "2019", Interval: 30}))
	assert.Equal(t, pathFiveMin, endpointPath(model.ResourceRequest{Dataset: "2019", Interval: 5}))
	assert.Equal(t, pathFiveMin, endpointPath(model.ResourceRequest{Dataset: "2019", Interval: 15}))
}

func TestCacheKey(t *testing.T) {
	req := model.ResourceRequest{Latitude: 39.74, Longitude: -105.18, Dataset: "tmy", Interval: 60}

	assert.Equal(t, cacheKey(req), cacheKey(req))

	other := req
	other.Dataset = "2019"
	assert.NotEqual(t, cacheKey(req), cacheKey(other))
}

func TestWeatherCacheDisabled(t *testing.T) {
	t.Setenv("ENABLE_NSRDB_CACHE", "")
	assert.Nil(t, activeCache())

	// nil receivers are inert, not panics
	var c *weatherCache
	_, found := c.lookup("key")
	assert.False(t, found)
	c.put("key", &model.Resource{})
	c.purge()
}
