// Package analysis rolls finished production series up into the numbers a
// report or a ranking needs.
package analysis

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"pv-estimate/internal/estimate"
)

// ProductionSummary is a block-level rollup of output rows. It intentionally
// does not depend on plant capacities; it reports what the series itself
// shows: delivered energy, the shape of the AC profile, and exceedance
// levels across the producing hours.
type ProductionSummary struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Count int       `json:"count"`

	Energy float64 `json:"energy"`  // Wh of AC output over the block
	PeakAC float64 `json:"peak_ac"` // W
	MeanAC float64 `json:"mean_ac"` // W, averaged over every row including night

	// Exceedance levels over producing hours: P90AC is the AC power the
	// plant beats 90% of the time it produces at all.
	P50AC float64 `json:"p50_ac"`
	P90AC float64 `json:"p90_ac"`
	P99AC float64 `json:"p99_ac"`

	Insolation float64 `json:"insolation"` // Wh/m2 front-side plane-of-array
}

// Summarize rolls one contiguous block of rows into a summary. The interval
// length is inferred from the first two rows; single-row blocks read as
// hourly.
func Summarize(rows []estimate.OutputRow) ProductionSummary {
	s := ProductionSummary{}
	if len(rows) == 0 {
		return s
	}
	s.Start = rows[0].Time
	s.End = rows[len(rows)-1].Time
	s.Count = len(rows)

	hours := stepHours(rows)

	var sumAC, sumFront, peak float64
	producing := make([]float64, 0, len(rows))
	for _, r := range rows {
		sumAC += r.AC
		sumFront += r.FrontPOA
		if r.AC > peak {
			peak = r.AC
		}
		if r.AC > 0 {
			producing = append(producing, r.AC)
		}
	}

	s.Energy = sumAC * hours
	s.MeanAC = sumAC / float64(len(rows))
	s.PeakAC = peak
	s.Insolation = sumFront * hours

	if len(producing) > 0 {
		sort.Float64s(producing)
		s.P50AC = stat.Quantile(0.50, stat.Empirical, producing, nil)
		s.P90AC = stat.Quantile(0.10, stat.Empirical, producing, nil)
		s.P99AC = stat.Quantile(0.01, stat.Empirical, producing, nil)
	}
	return s
}

// YearSummary is one calendar year's rollup.
type YearSummary struct {
	Year int `json:"year"`
	ProductionSummary
}

// ByYear splits rows on calendar-year boundaries and summarizes each block.
// Rows are expected in time order, as the estimators emit them.
func ByYear(rows []estimate.OutputRow) []YearSummary {
	var out []YearSummary
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i == len(rows) || rows[i].Year != rows[start].Year {
			out = append(out, YearSummary{
				Year:              rows[start].Year,
				ProductionSummary: Summarize(rows[start:i]),
			})
			start = i
		}
	}
	return out
}

// MonthSummary is one calendar month's rollup.
type MonthSummary struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	ProductionSummary
}

// ByMonth splits rows on month boundaries and summarizes each block.
func ByMonth(rows []estimate.OutputRow) []MonthSummary {
	var out []MonthSummary
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i == len(rows) || rows[i].Year != rows[start].Year || rows[i].Month != rows[start].Month {
			out = append(out, MonthSummary{
				Year:              rows[start].Year,
				Month:             rows[start].Month,
				ProductionSummary: Summarize(rows[start:i]),
			})
			start = i
		}
	}
	return out
}

func stepHours(rows []estimate.OutputRow) float64 {
	if len(rows) < 2 {
		return 1
	}
	return rows[1].Time.Sub(rows[0].Time).Hours()
}
