package models

import (
	"pv-estimate/internal/analysis"
	"pv-estimate/internal/estimate"
	"pv-estimate/internal/physics"
)

// EstimateResponse represents the response from a single-year estimate
type EstimateResponse struct {
	Status  string                     `json:"status"`
	Site    physics.Site               `json:"site"`
	Params  map[string]interface{}     `json:"params"`
	Metrics physics.Results            `json:"metrics"`
	Summary analysis.ProductionSummary `json:"summary"`
	Output  []estimate.OutputRow       `json:"output,omitempty"`
}

// MultiyearResponse represents the response from a multi-year sweep. Metrics
// belong to the base operating year; Years carries the per-year breakdown.
type MultiyearResponse struct {
	Status   string                     `json:"status"`
	Site     physics.Site               `json:"site"`
	Params   map[string]interface{}     `json:"params"`
	Years    []estimate.YearResult      `json:"years"`
	Metrics  physics.Results            `json:"metrics"`
	TotalAEP float64                    `json:"total_aep"`
	Summary  analysis.ProductionSummary `json:"summary"`
	Output   []estimate.OutputRow       `json:"output,omitempty"`
}

// CompareResponse represents the response from a racking comparison
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one racking tier
type ComparisonResult struct {
	Rank    int                        `json:"rank"`
	Racking string                     `json:"racking"`
	Metrics physics.Results            `json:"metrics"`
	Summary analysis.ProductionSummary `json:"summary"`
}

// ProfileInfo represents one built-in racking profile
type ProfileInfo struct {
	Racking     string                 `json:"racking"`
	Description string                 `json:"description"`
	Params      map[string]interface{} `json:"params"`
}

// SiteInfo represents one entry from the site registry
type SiteInfo struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Racking      string  `json:"racking"`
	DCCapacityMW float64 `json:"dc_capacity_mw"`
	ACCapacityMW float64 `json:"ac_capacity_mw"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
