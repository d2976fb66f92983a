package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"pv-estimate/internal/api/models"
	"pv-estimate/internal/nsrdb"

	"github.com/gin-gonic/gin"
)

// ListSites handles GET /api/v1/sites
func ListSites(c *gin.Context) {
	list, err := loadSiteRegistry()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SITES_LOAD_ERROR",
				Message: fmt.Sprintf("Failed to load site registry: %v", err),
			},
		})
		return
	}

	sites := make([]models.SiteInfo, len(list.Sites))
	for i, s := range list.Sites {
		sites[i] = models.SiteInfo{
			ID:           s.ID,
			Name:         s.Name,
			Latitude:     s.Latitude,
			Longitude:    s.Longitude,
			Racking:      s.Racking,
			DCCapacityMW: s.DCCapacity / 1e6,
			ACCapacityMW: s.ACCapacity / 1e6,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"sites":      sites,
		"updated_at": list.UpdatedAt,
		"count":      len(sites),
	})
}

// loadSiteRegistry loads the registry, treating a missing file as empty.
func loadSiteRegistry() (*nsrdb.SiteList, error) {
	list, err := nsrdb.LoadSites(nsrdb.GetDefaultSitesPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &nsrdb.SiteList{Sites: []nsrdb.Site{}}, nil
		}
		return nil, err
	}
	return list, nil
}
