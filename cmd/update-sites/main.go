package main

import (
	"context"
	"fmt"
	"os"

	"pv-estimate/internal/log"
	"pv-estimate/internal/model"
	"pv-estimate/internal/nsrdb"

	"github.com/spf13/pflag"
)

// update-sites fills in the NSRDB-derived metadata (UTC offset, elevation)
// for every site in the local registry, so later estimates can run against
// file-based weather without a fetch.
func main() {
	var (
		sitesPath = pflag.String("sites", "", "Sites file path (default: $SITES_FILE or ./data/sites.json)")
		dataset   = pflag.String("dataset", "tmy", "NSRDB dataset to probe for metadata")
		force     = pflag.Bool("force", false, "Refresh metadata even for sites that already have it")
		verbose   = pflag.BoolP("verbose", "v", false, "Debug logging")
	)
	pflag.Parse()

	if err := log.Init(*verbose); err != nil {
		panic(err)
	}

	email := os.Getenv("NSRDB_EMAIL")
	apiKey := os.Getenv("NSRDB_API_KEY")
	if email == "" || apiKey == "" {
		fmt.Println("NSRDB_EMAIL and NSRDB_API_KEY environment variables are required")
		os.Exit(1)
	}

	if *sitesPath == "" {
		*sitesPath = nsrdb.GetDefaultSitesPath()
	}

	list, err := nsrdb.LoadSites(*sitesPath)
	if err != nil {
		fmt.Printf("Failed to load sites: %v\n", err)
		os.Exit(1)
	}

	client := nsrdb.NewClient(email, apiKey, os.Getenv("NSRDB_BASE_URL"))
	ctx := context.Background()

	fmt.Printf("Updating metadata for %d sites in %s\n", len(list.Sites), *sitesPath)

	updated := 0
	for i := range list.Sites {
		site := &list.Sites[i]
		if site.UTCOffset != nil && site.Elevation != nil && !*force {
			fmt.Printf("  - %s already has metadata, skipping\n", site.ID)
			continue
		}

		res, err := client.Resource(ctx, model.ResourceRequest{
			Latitude:  site.Latitude,
			Longitude: site.Longitude,
			Dataset:   *dataset,
			Interval:  60,
		})
		if err != nil {
			fmt.Printf("  ! %s: %v\n", site.ID, err)
			// Keep whatever the registry already had for this site.
			continue
		}

		offset, elevation := res.UTCOffset, res.Elevation
		site.UTCOffset = &offset
		site.Elevation = &elevation
		updated++
		fmt.Printf("  * %s: UTC%+g, %.0f m\n", site.ID, offset, elevation)
	}

	if err := nsrdb.SaveSites(list, *sitesPath); err != nil {
		fmt.Printf("Failed to save sites: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Updated %d/%d sites, saved to %s\n", updated, len(list.Sites), *sitesPath)
}
