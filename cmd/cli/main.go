package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pv-estimate/internal/analysis"
	"pv-estimate/internal/config"
	"pv-estimate/internal/estimate"
	"pv-estimate/internal/log"
	"pv-estimate/internal/model"
	"pv-estimate/internal/nsrdb"
	"pv-estimate/internal/physics"

	"github.com/spf13/pflag"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "estimate":
		cmdEstimate(os.Args[2:])
	case "multiyear":
		cmdMultiyear(os.Args[2:])
	case "compare":
		cmdCompare(os.Args[2:])
	case "profiles":
		cmdProfiles(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli estimate --config examples/scenarios/front_range.yaml --out results/output.csv")
	fmt.Println("  cli estimate --site front-range")
	fmt.Println("  cli multiyear --config examples/scenarios/front_range.yaml")
	fmt.Println("  cli multiyear --site front-range --first 1 --last 25")
	fmt.Println("  cli compare --site front-range --rackings tracker,ground-mount")
	fmt.Println("  cli profiles")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - NSRDB fetches read NSRDB_EMAIL and NSRDB_API_KEY from the environment")
	fmt.Println("  - --site looks up the registry at $SITES_FILE (default ./data/sites.json)")
	fmt.Println("  - scenarios with file-based weather run without credentials")
}

func cmdEstimate(args []string) {
	fs := pflag.NewFlagSet("estimate", pflag.ExitOnError)
	cfgPath := fs.StringP("config", "c", "", "Path to scenario YAML")
	siteID := fs.StringP("site", "s", "", "Site ID from the registry (alternative to --config)")
	outPath := fs.StringP("out", "o", "", "Output CSV path (default: the scenario's output.csv)")
	year := fs.Int("year", 0, "Operating year whose wear to model (default: scenario years.first)")
	verbose := fs.BoolP("verbose", "v", false, "Debug logging")
	_ = fs.Parse(args)
	initLogging(*verbose)

	req, cfg := loadRequest(fs, *cfgPath, *siteID)
	if fs.Changed("year") {
		req.DegradationYear = *year
	}

	engine := estimate.NewEngine(providerFromEnv())
	result, err := engine.Energy(context.Background(), req)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%s  (%.4f, %.4f)  elevation %.0f m  UTC%+g\n",
		result.Site.Name, result.Site.Latitude, result.Site.Longitude,
		result.Site.Elevation, result.Site.UTCOffset)
	printMetrics(result.Metrics)

	out := *outPath
	if out == "" && cfg != nil {
		out = cfg.Output.CSV
	}
	if out != "" {
		writeCSV(out, result.Output)
	}
}

func cmdMultiyear(args []string) {
	fs := pflag.NewFlagSet("multiyear", pflag.ExitOnError)
	cfgPath := fs.StringP("config", "c", "", "Path to scenario YAML")
	siteID := fs.StringP("site", "s", "", "Site ID from the registry (alternative to --config)")
	outPath := fs.StringP("out", "o", "", "Output CSV path (default: the scenario's output.csv)")
	first := fs.Int("first", 1, "First operating year")
	last := fs.Int("last", 0, "Last operating year (default: first)")
	verbose := fs.BoolP("verbose", "v", false, "Debug logging")
	_ = fs.Parse(args)
	initLogging(*verbose)

	mreq, cfg := loadMultiyearRequest(fs, *cfgPath, *siteID)
	if fs.Changed("first") {
		mreq.FirstYear = *first
	}
	if fs.Changed("last") {
		mreq.LastYear = *last
	}

	engine := estimate.NewEngine(providerFromEnv())
	result, err := engine.MultiyearEnergy(context.Background(), mreq)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%s  (%.4f, %.4f)  elevation %.0f m  UTC%+g\n",
		result.Site.Name, result.Site.Latitude, result.Site.Longitude,
		result.Site.Elevation, result.Site.UTCOffset)
	fmt.Printf("%-6s %-12s %-11s %-12s %-8s\n", "year", "degradation", "dc_losses", "aep_mwh", "ncf")
	for _, y := range result.Years {
		fmt.Printf("%-6d %-12.4f %-11.4f %-12.1f %-8.4f\n",
			y.Year, y.DegradationLoss, y.DCLosses, y.Metrics.AEP/1e6, y.Metrics.NCF)
	}
	fmt.Printf("Total AEP=%.1f MWh over %d years\n", result.TotalAEP/1e6, len(result.Years))

	out := *outPath
	if out == "" && cfg != nil {
		out = cfg.Output.CSV
	}
	if out != "" {
		writeCSV(out, result.Output)
	}
}

func cmdCompare(args []string) {
	fs := pflag.NewFlagSet("compare", pflag.ExitOnError)
	cfgPath := fs.StringP("config", "c", "", "Path to scenario YAML")
	siteID := fs.StringP("site", "s", "", "Site ID from the registry (alternative to --config)")
	rackings := fs.String("rackings", "", "Comma-separated racking types (default: all)")
	verbose := fs.BoolP("verbose", "v", false, "Debug logging")
	_ = fs.Parse(args)
	initLogging(*verbose)

	req, _ := loadRequest(fs, *cfgPath, *siteID)

	engine := estimate.NewEngine(providerFromEnv())
	ranked, err := analysis.CompareRackings(context.Background(), engine, req, splitList(*rackings))
	if err != nil {
		panic(err)
	}

	fmt.Printf("%-4s %-14s %-8s %-12s %-14s %-8s\n", "rank", "racking", "ncf", "aep_mwh", "yield_kwh/kwp", "pr")
	for i, r := range ranked {
		fmt.Printf("%-4d %-14s %-8.4f %-12.1f %-14.0f %-8.4f\n",
			i+1, r.Racking, r.Metrics.NCF, r.Metrics.AEP/1e6,
			r.Metrics.EnergyYield, r.Metrics.PerformanceRatio)
	}
}

func cmdProfiles(args []string) {
	fs := pflag.NewFlagSet("profiles", pflag.ExitOnError)
	_ = fs.Parse(args)

	fmt.Printf("%-14s %-6s %-9s %-7s %-8s %s\n", "racking", "gcr", "soiling", "snow", "albedo", "geometry")
	for _, r := range model.RackingTypes() {
		p := model.DefaultProfile(r)
		geometry := fmt.Sprintf("fixed tilt %.0f deg", p.Float("surface_tilt"))
		if r == model.RackingTracker {
			geometry = fmt.Sprintf("max angle %.0f deg, backtracking", p.Float("max_angle"))
		}
		fmt.Printf("%-14s %-6.2f %-9.3f %-7.3f %-8.2f %s\n",
			r, p.Float("gcr"), p.Float("soiling_loss"), p.Float("snow_loss"),
			p.Float("albedo"), geometry)
	}
}

// loadRequest resolves the plant definition from either a scenario file or
// the site registry. The returned config is nil for registry sites.
func loadRequest(fs *pflag.FlagSet, cfgPath, siteID string) (estimate.Request, *config.Config) {
	mreq, cfg := loadMultiyearRequest(fs, cfgPath, siteID)
	req := mreq.Request
	if cfg != nil {
		req.DegradationYear = cfg.Years.First
	}
	return req, cfg
}

func loadMultiyearRequest(fs *pflag.FlagSet, cfgPath, siteID string) (estimate.MultiyearRequest, *config.Config) {
	switch {
	case cfgPath != "":
		cfg, err := config.Load(cfgPath)
		if err != nil {
			panic(err)
		}
		mreq, err := cfg.ToMultiyearRequest()
		if err != nil {
			panic(err)
		}
		return mreq, cfg
	case siteID != "":
		return estimate.MultiyearRequest{Request: requestFromSite(siteID)}, nil
	default:
		fmt.Println("--config or --site is required")
		fs.PrintDefaults()
		os.Exit(2)
		return estimate.MultiyearRequest{}, nil
	}
}

func requestFromSite(id string) estimate.Request {
	path := nsrdb.GetDefaultSitesPath()
	list, err := nsrdb.LoadSites(path)
	if err != nil {
		panic(err)
	}
	site, ok := list.Find(id)
	if !ok {
		panic(fmt.Errorf("site %q not found in %s", id, path))
	}
	return estimate.Request{
		Name:       site.Name,
		Latitude:   site.Latitude,
		Longitude:  site.Longitude,
		Racking:    site.Racking,
		DCCapacity: site.DCCapacity,
		ACCapacity: site.ACCapacity,
		Voltage:    site.Voltage,
		UTCOffset:  site.UTCOffset,
		Elevation:  site.Elevation,
	}
}

// providerFromEnv builds the NSRDB client from NSRDB_EMAIL and NSRDB_API_KEY.
// Scenarios with file-based weather never trigger a fetch, so missing
// credentials only surface when the provider is actually needed.
func providerFromEnv() *nsrdb.Client {
	return nsrdb.NewClient(os.Getenv("NSRDB_EMAIL"), os.Getenv("NSRDB_API_KEY"), os.Getenv("NSRDB_BASE_URL"))
}

func initLogging(verbose bool) {
	if err := log.Init(verbose); err != nil {
		panic(err)
	}
}

func printMetrics(m physics.Results) {
	fmt.Printf("AEP=%.1f MWh  NCF=%.4f  Yield=%.0f kWh/kWp  PR=%.4f\n",
		m.AEP/1e6, m.NCF, m.EnergyYield, m.PerformanceRatio)
}

func writeCSV(path string, rows []estimate.OutputRow) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		panic(err)
	}
	if err := estimate.WriteOutputCSV(path, rows); err != nil {
		panic(err)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(rows), path)
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
