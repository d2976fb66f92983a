package models

// EstimateRequest represents the request body for running a single-year
// production estimate
type EstimateRequest struct {
	Credentials  Credentials            `json:"credentials"` // NSRDB account
	Plant        PlantParams            `json:"plant" binding:"required"`
	Weather      WeatherParams          `json:"weather,omitempty"`
	CustomInputs map[string]interface{} `json:"custom_inputs,omitempty"`
	Options      EstimateOptions        `json:"options,omitempty"`
}

// Credentials carries the caller's NSRDB account. The server holds no key of
// its own; every request brings its own credentials.
type Credentials struct {
	Email  string `json:"email"`
	APIKey string `json:"api_key"`
}

// PlantParams defines the plant to estimate
type PlantParams struct {
	Name         string  `json:"name,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Racking      string  `json:"racking,omitempty"` // tracker, ground-mount, canopy, rooftop
	DCCapacityMW float64 `json:"dc_capacity_mw"`
	ACCapacityMW float64 `json:"ac_capacity_mw"`
	Voltage      string  `json:"voltage,omitempty"` // default: "high"
}

// WeatherParams selects the NSRDB dataset to pull
type WeatherParams struct {
	Dataset          string   `json:"dataset,omitempty"`  // "tmy" (default) or a year, e.g. "2019"
	Interval         int      `json:"interval,omitempty"` // minutes; default: 60
	UTCOffset        *float64 `json:"utc_offset,omitempty"`
	Elevation        *float64 `json:"elevation,omitempty"`
	CorrectionFactor float64  `json:"correction_factor,omitempty"` // scales GHI/DNI/DHI; default: 1
}

// EstimateOptions contains optional estimate parameters
type EstimateOptions struct {
	DegradationYear int  `json:"degradation_year,omitempty"` // default: 1
	IncludeOutput   bool `json:"include_output,omitempty"`   // default: false
}

// MultiyearRequest represents a request to sweep a plant across operating years
type MultiyearRequest struct {
	Credentials  Credentials            `json:"credentials"`
	Plant        PlantParams            `json:"plant" binding:"required"`
	Weather      WeatherParams          `json:"weather,omitempty"`
	CustomInputs map[string]interface{} `json:"custom_inputs,omitempty"`
	Years        YearsParams            `json:"years,omitempty"`
	Degradation  DegradationParams      `json:"degradation,omitempty"`
	Options      EstimateOptions        `json:"options,omitempty"`
}

// YearsParams bounds the operating years to simulate
type YearsParams struct {
	First int `json:"first,omitempty"` // default: 1
	Last  int `json:"last,omitempty"`  // default: first
}

// DegradationParams overrides the default degradation schedule
type DegradationParams struct {
	FirstYear *float64 `json:"firstyear,omitempty"` // default: 0.02
	Annual    *float64 `json:"annual,omitempty"`    // default: 0.0045
}

// CompareRequest represents a request to rank racking types for one site.
// Plant.Racking is ignored; Rackings selects the tiers to rank (empty = all).
type CompareRequest struct {
	Credentials  Credentials            `json:"credentials"`
	Plant        PlantParams            `json:"plant" binding:"required"`
	Weather      WeatherParams          `json:"weather,omitempty"`
	CustomInputs map[string]interface{} `json:"custom_inputs,omitempty"`
	Rackings     []string               `json:"rackings,omitempty"`
}
