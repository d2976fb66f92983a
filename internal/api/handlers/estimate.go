package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"pv-estimate/internal/analysis"
	"pv-estimate/internal/api/models"
	"pv-estimate/internal/estimate"
	"pv-estimate/internal/model"
	"pv-estimate/internal/nsrdb"

	"github.com/gin-gonic/gin"
)

// EstimateHandler handles production estimate requests
type EstimateHandler struct {
	baseURL string // NSRDB endpoint override, for tests; "" means the real API
}

// NewEstimateHandler creates a new estimate handler. NSRDB credentials come
// from each request, so the server itself holds no account.
func NewEstimateHandler(baseURL string) *EstimateHandler {
	return &EstimateHandler{baseURL: baseURL}
}

// RunEstimate handles POST /api/v1/estimate
func (h *EstimateHandler) RunEstimate(c *gin.Context) {
	var req models.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := validateCredentials(req.Credentials); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_CREDENTIALS", err.Error())
		return
	}

	engine := h.newEngine(req.Credentials)
	er := buildEstimateRequest(req.Plant, req.Weather, req.CustomInputs)
	er.DegradationYear = req.Options.DegradationYear

	result, err := engine.Energy(c.Request.Context(), er)
	if err != nil {
		writeEstimateError(c, err)
		return
	}

	response := models.EstimateResponse{
		Status:  "completed",
		Site:    result.Site,
		Params:  result.Params,
		Metrics: result.Metrics,
		Summary: analysis.Summarize(result.Output),
	}
	if req.Options.IncludeOutput {
		response.Output = result.Output
	}

	c.JSON(http.StatusOK, response)
}

// RunMultiyear handles POST /api/v1/estimate/multiyear
func (h *EstimateHandler) RunMultiyear(c *gin.Context) {
	var req models.MultiyearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := validateCredentials(req.Credentials); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_CREDENTIALS", err.Error())
		return
	}

	engine := h.newEngine(req.Credentials)
	mr := estimate.MultiyearRequest{
		Request:              buildEstimateRequest(req.Plant, req.Weather, req.CustomInputs),
		FirstYear:            req.Years.First,
		LastYear:             req.Years.Last,
		FirstYearDegradation: req.Degradation.FirstYear,
		AnnualDegradation:    req.Degradation.Annual,
	}

	result, err := engine.MultiyearEnergy(c.Request.Context(), mr)
	if err != nil {
		writeEstimateError(c, err)
		return
	}

	response := models.MultiyearResponse{
		Status:   "completed",
		Site:     result.Site,
		Params:   result.Params,
		Years:    result.Years,
		Metrics:  result.Metrics,
		TotalAEP: result.TotalAEP,
		Summary:  analysis.Summarize(result.Output),
	}
	if req.Options.IncludeOutput {
		response.Output = result.Output
	}

	c.JSON(http.StatusOK, response)
}

// CompareRackings handles POST /api/v1/estimate/compare
func (h *EstimateHandler) CompareRackings(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if err := validateCredentials(req.Credentials); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_CREDENTIALS", err.Error())
		return
	}

	engine := h.newEngine(req.Credentials)
	base := buildEstimateRequest(req.Plant, req.Weather, req.CustomInputs)

	ranked, err := analysis.CompareRackings(c.Request.Context(), engine, base, req.Rackings)
	if err != nil {
		writeEstimateError(c, err)
		return
	}

	comparison := make([]models.ComparisonResult, len(ranked))
	for i, r := range ranked {
		comparison[i] = models.ComparisonResult{
			Rank:    i + 1,
			Racking: r.Racking,
			Metrics: r.Metrics,
			Summary: r.Summary,
		}
	}

	c.JSON(http.StatusOK, models.CompareResponse{Comparison: comparison})
}

// Helper methods

func (h *EstimateHandler) newEngine(creds models.Credentials) *estimate.Engine {
	return estimate.NewEngine(nsrdb.NewClient(creds.Email, creds.APIKey, h.baseURL))
}

func buildEstimateRequest(plant models.PlantParams, weather models.WeatherParams, custom map[string]interface{}) estimate.Request {
	return estimate.Request{
		Name:             plant.Name,
		Latitude:         plant.Latitude,
		Longitude:        plant.Longitude,
		Racking:          plant.Racking,
		DCCapacity:       plant.DCCapacityMW * 1e6,
		ACCapacity:       plant.ACCapacityMW * 1e6,
		Voltage:          plant.Voltage,
		CustomInputs:     model.Params(custom),
		Dataset:          weather.Dataset,
		Interval:         weather.Interval,
		UTCOffset:        weather.UTCOffset,
		Elevation:        weather.Elevation,
		CorrectionFactor: weather.CorrectionFactor,
	}
}

// validateCredentials performs basic validation before any fetch is attempted
func validateCredentials(creds models.Credentials) error {
	if creds.APIKey == "" {
		return fmt.Errorf("NSRDB API key is required")
	}
	if len(strings.TrimSpace(creds.APIKey)) < 10 {
		return fmt.Errorf("NSRDB API key appears to be invalid (too short)")
	}
	if creds.Email == "" {
		return fmt.Errorf("NSRDB account email is required")
	}
	return nil
}

// writeEstimateError maps engine failures onto HTTP statuses. Provider errors
// keep their upstream code and status detail; everything else is a request
// problem (bad racking, capacities, weather table) reported as 400.
func writeEstimateError(c *gin.Context, err error) {
	var apiErr *nsrdb.APIError
	if errors.As(err, &apiErr) {
		statusCode := http.StatusBadRequest
		if apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusUnauthorized {
			statusCode = http.StatusUnauthorized
		} else if apiErr.StatusCode == http.StatusTooManyRequests {
			statusCode = http.StatusTooManyRequests
		}
		c.JSON(statusCode, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: map[string]interface{}{
					"status_code": apiErr.StatusCode,
					"retry_after": apiErr.RetryAfter,
				},
			},
		})
		return
	}

	writeError(c, http.StatusBadRequest, "ESTIMATE_ERROR", err.Error())
}

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
