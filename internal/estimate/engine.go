// Package estimate turns a site description into modeled PV production. It
// resolves the racking profile, merges caller overrides, fetches whatever
// weather the caller did not supply, derives the plant parameters, and runs
// the physics chain for one or many operating years.
package estimate

import (
	"context"
	"fmt"
	"time"

	"pv-estimate/internal/model"
	"pv-estimate/internal/physics"
)

// ResourceProvider fetches the weather resource for a location. The NSRDB
// client implements it; tests substitute fixtures.
type ResourceProvider interface {
	Resource(ctx context.Context, req model.ResourceRequest) (*model.Resource, error)
}

// Engine runs production estimates. A nil Provider is valid as long as every
// request carries its own weather, offset, and elevation.
type Engine struct {
	Provider ResourceProvider
}

func NewEngine(provider ResourceProvider) *Engine {
	return &Engine{Provider: provider}
}

// Request describes one plant to estimate. Capacities are watts. Weather,
// UTCOffset, and Elevation each short-circuit the provider when present;
// whichever of the three is missing gets fetched.
type Request struct {
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Racking         string  `json:"racking"`
	DCCapacity      float64 `json:"dc_capacity"`
	ACCapacity      float64 `json:"ac_capacity"`
	Voltage         string  `json:"voltage,omitempty"`
	DegradationYear int     `json:"degradation_year,omitempty"`

	CustomInputs model.Params `json:"custom_inputs,omitempty"`

	Weather   *model.WeatherTable `json:"weather,omitempty"`
	UTCOffset *float64            `json:"utc_offset,omitempty"`
	Elevation *float64            `json:"elevation,omitempty"`

	Dataset          string  `json:"dataset,omitempty"`  // "tmy" or a calendar year
	Interval         int     `json:"interval,omitempty"` // minutes between rows
	CorrectionFactor float64 `json:"correction_factor,omitempty"`
}

func (r Request) withDefaults() Request {
	if r.DegradationYear == 0 {
		r.DegradationYear = 1
	}
	if r.Dataset == "" {
		r.Dataset = "tmy"
	}
	if r.Interval == 0 {
		r.Interval = 60
	}
	if r.CorrectionFactor == 0 {
		r.CorrectionFactor = 1
	}
	return r
}

// Result is one finished single-year estimate. Chain keeps the full
// intermediate series for callers that dig deeper than the output rows; it is
// not serialized.
type Result struct {
	Site    physics.Site    `json:"site"`
	Inputs  *model.Inputs   `json:"-"`
	Params  model.Params    `json:"params"`
	Output  []OutputRow     `json:"output"`
	Metrics physics.Results `json:"metrics"`

	Chain *physics.ModelChain `json:"-"`
}

// Energy models one operating year of production for the requested plant.
func (e *Engine) Energy(ctx context.Context, req Request) (*Result, error) {
	req = req.withDefaults()

	racking, err := model.ParseRacking(req.Racking)
	if err != nil {
		return nil, err
	}
	voltage, err := model.ParseVoltage(req.Voltage)
	if err != nil {
		return nil, err
	}
	if req.DCCapacity <= 0 || req.ACCapacity <= 0 {
		return nil, fmt.Errorf("dc_capacity and ac_capacity must be positive, got %g and %g",
			req.DCCapacity, req.ACCapacity)
	}

	profile := model.DefaultProfile(racking).Merge(req.CustomInputs)

	resource, err := e.resolveResource(ctx, req, profile)
	if err != nil {
		return nil, err
	}

	inputs, err := model.Derive(profile, req.DCCapacity, req.ACCapacity, voltage, req.DegradationYear)
	if err != nil {
		return nil, err
	}

	site := physics.Site{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Elevation: resource.Elevation,
		UTCOffset: resource.UTCOffset,
	}

	weather := localizeWeather(resource.Weather, resource.UTCOffset)

	chain := physics.NewModelChain(site, inputs)
	if err := chain.Run(weather); err != nil {
		return nil, err
	}

	return &Result{
		Site:    site,
		Inputs:  inputs,
		Params:  inputs.Params,
		Output:  Rows(chain, 0),
		Metrics: chain.Results,
		Chain:   chain,
	}, nil
}

// resolveResource assembles weather, UTC offset, and elevation for the run.
// Pieces supplied on the request are used as-is; anything missing is fetched,
// and fetched values never overwrite supplied ones.
func (e *Engine) resolveResource(ctx context.Context, req Request, profile model.Params) (*model.Resource, error) {
	res := &model.Resource{Weather: req.Weather}
	if req.UTCOffset != nil {
		res.UTCOffset = *req.UTCOffset
	}
	if req.Elevation != nil {
		res.Elevation = *req.Elevation
	}
	if req.Weather != nil && req.UTCOffset != nil && req.Elevation != nil {
		return res, nil
	}

	if e.Provider == nil {
		return nil, fmt.Errorf("request omits weather, utc_offset, or elevation and no weather provider is configured")
	}
	fetched, err := e.Provider.Resource(ctx, model.ResourceRequest{
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Dataset:          req.Dataset,
		Interval:         req.Interval,
		SoilingLoss:      profile.Float("soiling_loss"),
		CorrectionFactor: req.CorrectionFactor,
	})
	if err != nil {
		return nil, err
	}
	if req.Weather == nil {
		res.Weather = fetched.Weather
	}
	if req.UTCOffset == nil {
		res.UTCOffset = fetched.UTCOffset
	}
	if req.Elevation == nil {
		res.Elevation = fetched.Elevation
	}
	return res, nil
}

// siteZone builds the fixed-offset location the site's timestamps live in.
func siteZone(offsetHours float64) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+g", offsetHours), int(offsetHours*3600))
}

// localizeWeather returns a table whose timestamps sit in the site's zone.
// UTC-stamped tables are treated as naive local standard time and restamped
// wall-clock into the site zone; tables already carrying a real offset are
// converted instant-by-instant. The input table is never modified.
func localizeWeather(w *model.WeatherTable, offsetHours float64) *model.WeatherTable {
	zone := siteZone(offsetHours)
	times := make([]time.Time, len(w.Times))
	for i, t := range w.Times {
		if t.Location() == time.UTC {
			times[i] = time.Date(t.Year(), t.Month(), t.Day(),
				t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), zone)
		} else {
			times[i] = t.In(zone)
		}
	}
	out := *w
	out.Times = times
	return &out
}
