package estimate

import (
	"time"

	"pv-estimate/internal/physics"
)

// OutputRow is one simulated interval in reporting shape: the timestamp
// decomposed into calendar fields, the irradiance walk from horizontal to
// both module faces, and the DC and AC power leaving their conversion
// stages. Irradiance is W/m2, power is W.
type OutputRow struct {
	Time  time.Time `json:"datetime"`
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Day   int       `json:"day"`
	Hour  int       `json:"hour"`

	GHI      float64 `json:"ghi"`
	FrontPOA float64 `json:"fpoa"`
	RearPOA  float64 `json:"bpoa"`
	TotalPOA float64 `json:"tpoa"`
	DC       float64 `json:"dc"`
	AC       float64 `json:"ac"`
}

// Rows flattens a finished chain into output rows, one per interval. An
// operatingYear of zero keeps the weather timestamps as they are; a positive
// operating year restamps them into the synthetic calendar year 1900+year so
// blocks from successive operating years concatenate in order even though
// they share one weather year.
func Rows(chain *physics.ModelChain, operatingYear int) []OutputRow {
	rows := make([]OutputRow, len(chain.Times))
	for i, t := range chain.Times {
		if operatingYear > 0 {
			t = time.Date(1900+operatingYear, t.Month(), t.Day(),
				t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
		}
		rows[i] = OutputRow{
			Time:     t,
			Year:     t.Year(),
			Month:    int(t.Month()),
			Day:      t.Day(),
			Hour:     t.Hour(),
			GHI:      chain.GHI[i],
			FrontPOA: chain.FrontIrradiance[i],
			RearPOA:  chain.RearIrradiance[i],
			TotalPOA: chain.EffectiveIrradiance[i],
			DC:       chain.DC.Output[i],
			AC:       chain.AC.Output[i],
		}
	}
	return rows
}
