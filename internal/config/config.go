// Package config loads scenario files: a plant, its weather source, and the
// simulation span, in YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pv-estimate/internal/estimate"
	"pv-estimate/internal/model"
	"pv-estimate/internal/nsrdb"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk scenario shape (YAML).
type Config struct {
	// Optional: load plant parameters from a separate YAML (e.g. examples/plants/*.yaml).
	// If both PlantFile and Plant are provided, Plant overrides PlantFile.
	PlantFile string      `yaml:"plant_file"`
	Plant     PlantConfig `yaml:"plant"`

	Weather     WeatherConfig     `yaml:"weather"`
	Years       YearsConfig       `yaml:"years"`
	Degradation DegradationConfig `yaml:"degradation"`

	// CustomInputs override profile parameters by key replacement.
	CustomInputs map[string]any `yaml:"custom_inputs"`

	Output OutputConfig `yaml:"output"`
}

type PlantConfig struct {
	Name         string  `yaml:"name"`
	Latitude     float64 `yaml:"latitude"`
	Longitude    float64 `yaml:"longitude"`
	Racking      string  `yaml:"racking"`
	DCCapacityMW float64 `yaml:"dc_capacity_mw"`
	ACCapacityMW float64 `yaml:"ac_capacity_mw"`
	Voltage      string  `yaml:"voltage"`
}

type WeatherConfig struct {
	// Source is "nsrdb" (default), "csv" for a weather table file, or
	// "resource" for a saved resource JSON.
	Source string `yaml:"source"`
	File   string `yaml:"file"`

	Dataset          string   `yaml:"dataset"`
	Interval         int      `yaml:"interval"`
	UTCOffset        *float64 `yaml:"utc_offset"`
	Elevation        *float64 `yaml:"elevation"`
	CorrectionFactor float64  `yaml:"correction_factor"`
}

type YearsConfig struct {
	First int `yaml:"first"`
	Last  int `yaml:"last"`
}

type DegradationConfig struct {
	FirstYear *float64 `yaml:"firstyear"`
	Annual    *float64 `yaml:"annual"`
}

type OutputConfig struct {
	CSV string `yaml:"csv"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if c.Weather.Source == "" {
		c.Weather.Source = "nsrdb"
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If plant_file is set, load it and merge in any explicit overrides from c.Plant.
	if c.PlantFile != "" {
		loaded, err := loadPlantFile(resolvePath(path, c.PlantFile))
		if err != nil {
			return nil, err
		}
		c.Plant = MergePlant(loaded, c.Plant)
	}
	if c.Weather.File != "" {
		c.Weather.File = resolvePath(path, c.Weather.File)
	}
	return &c, nil
}

// resolvePath prefers interpreting relative paths as relative to the config
// file directory, but falls back to the provided path (relative to cwd) if
// that doesn't exist.
func resolvePath(configPath, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(filepath.Dir(configPath), p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Plant.Racking == "" {
		return errors.New("plant.racking is required")
	}
	if c.Plant.DCCapacityMW <= 0 || c.Plant.ACCapacityMW <= 0 {
		return errors.New("plant.dc_capacity_mw and plant.ac_capacity_mw must be positive")
	}

	racking, err := model.ParseRacking(c.Plant.Racking)
	if err != nil {
		return fmt.Errorf("plant config invalid: %w", err)
	}
	voltage, err := model.ParseVoltage(c.Plant.Voltage)
	if err != nil {
		return fmt.Errorf("plant config invalid: %w", err)
	}

	// Validate the merged parameters by running the derivation once.
	profile := model.DefaultProfile(racking).Merge(model.Params(c.CustomInputs))
	_, err = model.Derive(profile, c.Plant.DCCapacityMW*1e6, c.Plant.ACCapacityMW*1e6, voltage, c.firstYear())
	if err != nil {
		return fmt.Errorf("plant config invalid: %w", err)
	}

	switch c.Weather.Source {
	case "", "nsrdb":
	case "csv", "resource":
		if c.Weather.File == "" {
			return fmt.Errorf("weather.file is required when weather.source is %q", c.Weather.Source)
		}
	default:
		return fmt.Errorf("weather.source %q is not supported (want nsrdb, csv, or resource)", c.Weather.Source)
	}

	if c.Years.First < 0 {
		return errors.New("years.first must be a positive operating year")
	}
	if c.Years.Last != 0 && c.Years.Last < c.firstYear() {
		return fmt.Errorf("years.last %d is before years.first %d", c.Years.Last, c.firstYear())
	}
	return nil
}

func (c *Config) firstYear() int {
	if c.Years.First == 0 {
		return 1
	}
	return c.Years.First
}

// ToRequest builds the single-year estimate request the scenario describes,
// loading file-based weather when the source names a file.
func (c *Config) ToRequest() (estimate.Request, error) {
	m, err := c.ToMultiyearRequest()
	if err != nil {
		return estimate.Request{}, err
	}
	req := m.Request
	req.DegradationYear = c.Years.First
	return req, nil
}

// ToMultiyearRequest builds the multi-year request the scenario describes.
func (c *Config) ToMultiyearRequest() (estimate.MultiyearRequest, error) {
	req := estimate.MultiyearRequest{
		Request: estimate.Request{
			Name:             c.Plant.Name,
			Latitude:         c.Plant.Latitude,
			Longitude:        c.Plant.Longitude,
			Racking:          c.Plant.Racking,
			DCCapacity:       c.Plant.DCCapacityMW * 1e6,
			ACCapacity:       c.Plant.ACCapacityMW * 1e6,
			Voltage:          c.Plant.Voltage,
			CustomInputs:     model.Params(c.CustomInputs),
			UTCOffset:        c.Weather.UTCOffset,
			Elevation:        c.Weather.Elevation,
			Dataset:          c.Weather.Dataset,
			Interval:         c.Weather.Interval,
			CorrectionFactor: c.Weather.CorrectionFactor,
		},
		FirstYear:            c.Years.First,
		LastYear:             c.Years.Last,
		FirstYearDegradation: c.Degradation.FirstYear,
		AnnualDegradation:    c.Degradation.Annual,
	}

	switch c.Weather.Source {
	case "csv":
		w, err := nsrdb.LoadWeatherCSV(c.Weather.File)
		if err != nil {
			return req, err
		}
		req.Weather = w
	case "resource":
		res, err := nsrdb.LoadResourceJSON(c.Weather.File)
		if err != nil {
			return req, err
		}
		req.Weather = res.Weather
		if req.UTCOffset == nil {
			offset := res.UTCOffset
			req.UTCOffset = &offset
		}
		if req.Elevation == nil {
			elevation := res.Elevation
			req.Elevation = &elevation
		}
	}
	return req, nil
}

type plantFileWrapper struct {
	Plant PlantConfig `yaml:"plant"`
}

func loadPlantFile(path string) (PlantConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return PlantConfig{}, err
	}
	var w plantFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return PlantConfig{}, err
	}
	return w.Plant, nil
}

// MergePlant overlays non-zero fields from override onto base.
// This is used when loading a plant file and then applying overrides from the scenario.
func MergePlant(base, override PlantConfig) PlantConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Latitude != 0 {
		out.Latitude = override.Latitude
	}
	if override.Longitude != 0 {
		out.Longitude = override.Longitude
	}
	if override.Racking != "" {
		out.Racking = override.Racking
	}
	if override.DCCapacityMW != 0 {
		out.DCCapacityMW = override.DCCapacityMW
	}
	if override.ACCapacityMW != 0 {
		out.ACCapacityMW = override.ACCapacityMW
	}
	if override.Voltage != "" {
		out.Voltage = override.Voltage
	}
	return out
}
