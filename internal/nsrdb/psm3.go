// Package nsrdb fetches solar resource data from the NREL National Solar
// Radiation Database PSM3 endpoints and loads the same shape from local
// files.
package nsrdb

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"pv-estimate/internal/log"
	"pv-estimate/internal/model"
)

const defaultBaseURL = "https://developer.nrel.gov"

// NSRDB splits PSM3 across endpoints: TMY has its own, and sub-half-hourly
// single years another.
const (
	pathTMY     = "/api/nsrdb/v2/solar/psm3-tmy-download.csv"
	pathYear    = "/api/nsrdb/v2/solar/psm3-download.csv"
	pathFiveMin = "/api/nsrdb/v2/solar/psm3-5min-download.csv"
)

// attributes is the column set requested from PSM3, limited to what the
// simulation consumes.
const attributes = "air_temperature,dhi,dni,ghi,surface_albedo,wind_speed"

// Client fetches PSM3 weather. NSRDB authenticates every request with an API
// key plus the email it was registered under.
type Client struct {
	Email   string
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewClient creates an NSRDB PSM3 client.
// If baseURL is empty, defaults to "https://developer.nrel.gov".
func NewClient(email, apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		Email:   email,
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError represents an error from the NSRDB API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *APIError) Error() string {
	return e.Message
}

// Resource fetches the weather table, UTC offset, and elevation for a
// location. Timestamps in the returned table are naive local standard time,
// stamped UTC; callers place them into the site zone.
//
// If caching is enabled (ENABLE_NSRDB_CACHE=true), responses are reused for
// repeated lookups of the same location and dataset.
func (c *Client) Resource(ctx context.Context, req model.ResourceRequest) (*model.Resource, error) {
	// Validate credentials before making the request
	if err := c.validateCredentials(); err != nil {
		return nil, err
	}
	req = withRequestDefaults(req)

	if req.Latitude < -90 || req.Latitude > 90 {
		return nil, fmt.Errorf("latitude %g is out of range", req.Latitude)
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return nil, fmt.Errorf("longitude %g is out of range", req.Longitude)
	}

	if cached, found := activeCache().lookup(cacheKey(req)); found {
		log.Infow("nsrdb cache hit",
			"latitude", req.Latitude, "longitude", req.Longitude,
			"dataset", req.Dataset, "rows", cached.Weather.Len())
		return cached, nil
	}

	u, err := url.Parse(c.BaseURL + endpointPath(req))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	// utc=false keeps timestamps in local standard time; leap day is dropped
	// so every year spans the same row count.
	q := u.Query()
	q.Set("api_key", c.APIKey)
	q.Set("email", c.Email)
	q.Set("names", req.Dataset)
	q.Set("interval", strconv.Itoa(req.Interval))
	q.Set("wkt", fmt.Sprintf("POINT(%g %g)", req.Longitude, req.Latitude))
	q.Set("utc", "false")
	q.Set("leap_day", "false")
	q.Set("attributes", attributes)
	u.RawQuery = q.Encode()

	log.Infow("nsrdb request",
		"path", u.Path, "latitude", req.Latitude, "longitude", req.Longitude,
		"dataset", req.Dataset, "interval", req.Interval)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "text/csv")

	start := time.Now()
	resp, err := c.Client.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		log.Errorw("nsrdb request failed", "error", err, "duration", duration)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Infow("nsrdb response",
		"status", resp.StatusCode, "duration", duration,
		"latitude", req.Latitude, "longitude", req.Longitude, "dataset", req.Dataset)

	switch resp.StatusCode {
	case http.StatusOK:
		// Success, continue
	case http.StatusForbidden:
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "INVALID_API_KEY",
			Message:    "Invalid API key or insufficient permissions",
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	case http.StatusUnauthorized:
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "Unauthorized: Invalid API key",
		}
	default:
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("NSRDB returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	resource, err := ParsePSM3(resp.Body, req.SoilingLoss, req.CorrectionFactor)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PSM3 response: %w", err)
	}

	log.Infow("nsrdb success",
		"rows", resource.Weather.Len(), "utc_offset", resource.UTCOffset,
		"elevation", resource.Elevation)

	activeCache().put(cacheKey(req), resource)

	return resource, nil
}

func withRequestDefaults(req model.ResourceRequest) model.ResourceRequest {
	if req.Dataset == "" {
		req.Dataset = "tmy"
	}
	if req.Interval == 0 {
		req.Interval = 60
	}
	if req.CorrectionFactor == 0 {
		req.CorrectionFactor = 1
	}
	return req
}

func endpointPath(req model.ResourceRequest) string {
	switch {
	case req.Dataset == "tmy":
		return pathTMY
	case req.Interval == 5 || req.Interval == 15:
		return pathFiveMin
	default:
		return pathYear
	}
}

// validateCredentials checks that credentials are present and not obviously
// invalid before spending a request on them.
func (c *Client) validateCredentials() error {
	if c.APIKey == "" || c.Email == "" {
		return &APIError{
			StatusCode: 0,
			Code:       "MISSING_CREDENTIALS",
			Message:    "NSRDB API key and account email are required",
		}
	}
	if len(c.APIKey) < 10 {
		return &APIError{
			StatusCode: 0,
			Code:       "INVALID_API_KEY_FORMAT",
			Message:    "API key appears to be invalid (too short)",
		}
	}
	return nil
}

// ParsePSM3 reads the PSM3 CSV layout: one row of metadata names, one of
// metadata values, a data header, then data rows. soilingLoss becomes a
// constant soiling column and correctionFactor scales the three irradiance
// columns.
func ParsePSM3(r io.Reader, soilingLoss, correctionFactor float64) (*model.Resource, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	metaNames, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("psm3: read metadata header: %w", err)
	}
	metaValues, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("psm3: read metadata values: %w", err)
	}
	meta := make(map[string]string, len(metaNames))
	for i, name := range metaNames {
		if i < len(metaValues) {
			meta[name] = metaValues[i]
		}
	}

	utcOffset, err := metaFloat(meta, "Time Zone")
	if err != nil {
		return nil, err
	}
	elevation, err := metaFloat(meta, "Elevation")
	if err != nil {
		return nil, err
	}

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("psm3: read data header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range []string{"Year", "Month", "Day", "Hour", "GHI", "DHI", "DNI", "Temperature", "Wind Speed"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("psm3: data header is missing column %q", name)
		}
	}
	_, hasMinute := col["Minute"]
	_, hasAlbedo := col["Surface Albedo"]

	w := &model.WeatherTable{}
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("psm3: read data row %d: %w", row, err)
		}

		get := func(name string) (float64, error) {
			i := col[name]
			if i >= len(record) {
				return 0, fmt.Errorf("psm3: row %d is missing column %q", row, name)
			}
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				return 0, fmt.Errorf("psm3: row %d column %q: %w", row, name, err)
			}
			return v, nil
		}

		year, err := get("Year")
		if err != nil {
			return nil, err
		}
		month, err := get("Month")
		if err != nil {
			return nil, err
		}
		day, err := get("Day")
		if err != nil {
			return nil, err
		}
		hour, err := get("Hour")
		if err != nil {
			return nil, err
		}
		var minute float64
		if hasMinute {
			if minute, err = get("Minute"); err != nil {
				return nil, err
			}
		}
		ghi, err := get("GHI")
		if err != nil {
			return nil, err
		}
		dhi, err := get("DHI")
		if err != nil {
			return nil, err
		}
		dni, err := get("DNI")
		if err != nil {
			return nil, err
		}
		temp, err := get("Temperature")
		if err != nil {
			return nil, err
		}
		wind, err := get("Wind Speed")
		if err != nil {
			return nil, err
		}

		w.Times = append(w.Times, time.Date(int(year), time.Month(month), int(day),
			int(hour), int(minute), 0, 0, time.UTC))
		w.GHI = append(w.GHI, ghi*correctionFactor)
		w.DHI = append(w.DHI, dhi*correctionFactor)
		w.DNI = append(w.DNI, dni*correctionFactor)
		w.TempAir = append(w.TempAir, temp)
		w.WindSpeed = append(w.WindSpeed, wind)

		if hasAlbedo {
			albedo, err := get("Surface Albedo")
			if err != nil {
				return nil, err
			}
			w.SurfaceAlbedo = append(w.SurfaceAlbedo, albedo)
		}
		w.Soiling = append(w.Soiling, soilingLoss)
	}

	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("psm3: %w", err)
	}

	return &model.Resource{Weather: w, UTCOffset: utcOffset, Elevation: elevation}, nil
}

func metaFloat(meta map[string]string, key string) (float64, error) {
	raw, ok := meta[key]
	if !ok {
		return 0, fmt.Errorf("psm3: metadata is missing %q", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("psm3: metadata %q: %w", key, err)
	}
	return v, nil
}
