package nsrdb

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"pv-estimate/internal/model"
)

// Timestamp layouts accepted in weather CSV files. Naive stamps are read as
// local standard time.
var csvTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// LoadWeatherCSV reads a weather table from a CSV file. The header row names
// the columns: datetime, ghi, dni, dhi, temp_air, wind_speed are required,
// surface_albedo and soiling optional.
func LoadWeatherCSV(path string) (*model.WeatherTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open weather file: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range []string{"datetime", "ghi", "dni", "dhi", "temp_air", "wind_speed"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%s: header is missing column %q", path, name)
		}
	}
	_, hasAlbedo := col["surface_albedo"]
	_, hasSoiling := col["soiling"]

	w := &model.WeatherTable{}
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, row, err)
		}

		get := func(name string) (float64, error) {
			v, err := strconv.ParseFloat(record[col[name]], 64)
			if err != nil {
				return 0, fmt.Errorf("%s: row %d column %q: %w", path, row, name, err)
			}
			return v, nil
		}

		t, err := parseCSVTime(record[col["datetime"]])
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, row, err)
		}
		ghi, err := get("ghi")
		if err != nil {
			return nil, err
		}
		dni, err := get("dni")
		if err != nil {
			return nil, err
		}
		dhi, err := get("dhi")
		if err != nil {
			return nil, err
		}
		temp, err := get("temp_air")
		if err != nil {
			return nil, err
		}
		wind, err := get("wind_speed")
		if err != nil {
			return nil, err
		}

		w.Times = append(w.Times, t)
		w.GHI = append(w.GHI, ghi)
		w.DNI = append(w.DNI, dni)
		w.DHI = append(w.DHI, dhi)
		w.TempAir = append(w.TempAir, temp)
		w.WindSpeed = append(w.WindSpeed, wind)

		if hasAlbedo {
			albedo, err := get("surface_albedo")
			if err != nil {
				return nil, err
			}
			w.SurfaceAlbedo = append(w.SurfaceAlbedo, albedo)
		}
		if hasSoiling {
			soiling, err := get("soiling")
			if err != nil {
				return nil, err
			}
			w.Soiling = append(w.Soiling, soiling)
		}
	}

	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

func parseCSVTime(raw string) (time.Time, error) {
	for _, layout := range csvTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// LoadResourceJSON reads a serialized resource, typically one saved from an
// earlier fetch.
func LoadResourceJSON(path string) (*model.Resource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var res model.Resource
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	if res.Weather == nil {
		return nil, fmt.Errorf("%s: resource has no weather table", path)
	}
	if err := res.Weather.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &res, nil
}

// SaveResourceJSON writes a resource to disk so later runs can skip the API.
func SaveResourceJSON(path string, res *model.Resource) error {
	raw, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal resource: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write resource file: %w", err)
	}
	return nil
}
