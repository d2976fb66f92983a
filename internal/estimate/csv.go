package estimate

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

var outputHeader = []string{
	"datetime", "year", "month", "day", "hour",
	"ghi", "fpoa", "bpoa", "tpoa", "dc", "ac",
}

// WriteOutputCSV writes the production series to path, one row per interval.
func WriteOutputCSV(path string, rows []OutputRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(outputHeader); err != nil {
		return err
	}
	for i := range rows {
		if err := w.Write(rows[i].record()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// record renders fixed six-decimal floats so diffs between two runs line up
// column for column.
func (r OutputRow) record() []string {
	stamp := ""
	if !r.Time.IsZero() {
		stamp = r.Time.Format(time.RFC3339)
	}

	rec := make([]string, 0, len(outputHeader))
	rec = append(rec, stamp,
		strconv.Itoa(r.Year), strconv.Itoa(r.Month), strconv.Itoa(r.Day), strconv.Itoa(r.Hour))
	for _, v := range []float64{r.GHI, r.FrontPOA, r.RearPOA, r.TotalPOA, r.DC, r.AC} {
		rec = append(rec, strconv.FormatFloat(v, 'f', 6, 64))
	}
	return rec
}
