package analysis

import (
	"context"
	"fmt"
	"sort"

	"pv-estimate/internal/estimate"
	"pv-estimate/internal/model"
	"pv-estimate/internal/physics"
)

// RackingComparison is one racking tier's showing on a fixed site.
type RackingComparison struct {
	Racking string            `json:"racking"`
	Metrics physics.Results   `json:"metrics"`
	Summary ProductionSummary `json:"summary"`
}

// CompareRackings estimates the same site and capacities under each racking
// tier and ranks the results by net capacity factor, best first. An empty
// rackings list compares all supported tiers.
//
// Each tier runs its own estimate, so a request without supplied weather
// costs one provider fetch per tier (profiles disagree about soiling, so the
// fetches are not interchangeable).
func CompareRackings(ctx context.Context, engine *estimate.Engine, base estimate.Request, rackings []string) ([]RackingComparison, error) {
	if len(rackings) == 0 {
		for _, r := range model.RackingTypes() {
			rackings = append(rackings, string(r))
		}
	}

	out := make([]RackingComparison, 0, len(rackings))
	for _, racking := range rackings {
		req := base
		req.Racking = racking
		res, err := engine.Energy(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("estimate %s: %w", racking, err)
		}
		out = append(out, RackingComparison{
			Racking: racking,
			Metrics: res.Metrics,
			Summary: Summarize(res.Output),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Metrics.NCF > out[j].Metrics.NCF
	})
	return out, nil
}
