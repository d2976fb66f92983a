package estimate

import (
	"context"
	"fmt"

	"pv-estimate/internal/model"
	"pv-estimate/internal/physics"
)

// Defaults for the degradation schedule when neither the request fields nor
// custom_inputs supply one.
const (
	DefaultFirstYearDegradation = 0.02
	DefaultAnnualDegradation    = 0.0045
)

// MultiyearRequest extends a single-year request with an operating-year span
// and the degradation schedule. FirstYear and LastYear are 1-based operating
// years, not calendar years. The two degradation fields act as defaults: a
// same-named entry already in CustomInputs wins over them.
type MultiyearRequest struct {
	Request

	FirstYear int `json:"first_year,omitempty"` // default 1
	LastYear  int `json:"last_year,omitempty"`  // default FirstYear

	FirstYearDegradation *float64 `json:"degradation_firstyear,omitempty"`
	AnnualDegradation    *float64 `json:"degradation_annual,omitempty"`
}

func (r MultiyearRequest) withDefaults() MultiyearRequest {
	if r.FirstYear == 0 {
		r.FirstYear = 1
	}
	if r.LastYear == 0 {
		r.LastYear = r.FirstYear
	}
	return r
}

// YearResult carries the losses and metrics of one simulated operating year.
type YearResult struct {
	Year            int             `json:"year"`
	DegradationLoss float64         `json:"degradation_loss"`
	DCLosses        float64         `json:"dc_losses"`
	Metrics         physics.Results `json:"metrics"`
}

// MultiyearResult is a finished degradation sweep. Params and Metrics belong
// to the base year; Output concatenates every year's rows in operating-year
// order on the synthetic calendar. Chain is the base year's chain.
type MultiyearResult struct {
	Site     physics.Site    `json:"site"`
	Params   model.Params    `json:"params"`
	Years    []YearResult    `json:"years"`
	Output   []OutputRow     `json:"output"`
	Metrics  physics.Results `json:"metrics"`
	TotalAEP float64         `json:"total_aep"`

	Inputs *model.Inputs       `json:"-"`
	Chain  *physics.ModelChain `json:"-"`
}

// MultiyearEnergy sweeps the plant across operating years FirstYear through
// LastYear. The weather is transposed once, on the base year's run; every
// later year reuses that irradiance and re-runs only the power stages with
// its own degradation folded into the DC loss stack.
func (e *Engine) MultiyearEnergy(ctx context.Context, req MultiyearRequest) (*MultiyearResult, error) {
	req = req.withDefaults()
	if req.FirstYear < 1 {
		return nil, fmt.Errorf("first_year must be a positive operating year, got %d", req.FirstYear)
	}
	if req.LastYear < req.FirstYear {
		return nil, fmt.Errorf("last_year %d is before first_year %d", req.LastYear, req.FirstYear)
	}

	base := req.Request
	custom := base.CustomInputs.Clone()
	if !custom.Has("degradation_firstyear") {
		custom["degradation_firstyear"] = valueOr(req.FirstYearDegradation, DefaultFirstYearDegradation)
	}
	if !custom.Has("degradation_annual") {
		custom["degradation_annual"] = valueOr(req.AnnualDegradation, DefaultAnnualDegradation)
	}
	base.CustomInputs = custom
	base.DegradationYear = req.FirstYear

	baseResult, err := e.Energy(ctx, base)
	if err != nil {
		return nil, err
	}

	// The non-degradation portion of the DC stack is fixed plant hardware;
	// per-year losses reapply it around that year's degradation.
	annual := custom.Float("degradation_annual")
	baseDegradation := baseResult.Inputs.DegradationLoss
	baseDCLosses := baseResult.Inputs.DCLosses
	baseFactor := (1 - baseDCLosses) / (1 - baseDegradation)

	span := req.LastYear - req.FirstYear + 1
	out := make([]OutputRow, 0, span*len(baseResult.Output))
	years := make([]YearResult, 0, span)

	out = append(out, Rows(baseResult.Chain, req.FirstYear)...)
	years = append(years, YearResult{
		Year:            req.FirstYear,
		DegradationLoss: baseDegradation,
		DCLosses:        baseDCLosses,
		Metrics:         baseResult.Chain.Results,
	})
	totalAEP := baseResult.Chain.Results.AEP

	for i := 1; i <= req.LastYear-req.FirstYear; i++ {
		degradation := baseDegradation + float64(i)*annual
		dcLosses := 1 - baseFactor*(1-degradation)

		yearChain := baseResult.Chain.WithLosses(degradation, dcLosses)
		yearChain.RunPower()

		out = append(out, Rows(yearChain, req.FirstYear+i)...)
		years = append(years, YearResult{
			Year:            req.FirstYear + i,
			DegradationLoss: degradation,
			DCLosses:        dcLosses,
			Metrics:         yearChain.Results,
		})
		totalAEP += yearChain.Results.AEP
	}

	return &MultiyearResult{
		Site:     baseResult.Site,
		Params:   baseResult.Params,
		Years:    years,
		Output:   out,
		Metrics:  baseResult.Metrics,
		TotalAEP: totalAEP,
		Inputs:   baseResult.Inputs,
		Chain:    baseResult.Chain,
	}, nil
}

func valueOr(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}
