package handlers

import (
	"net/http"

	"pv-estimate/internal/api/models"
	"pv-estimate/internal/model"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the built-in racking parameter profiles
type ProfileHandler struct{}

// NewProfileHandler creates a new profile handler
func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

var rackingDescriptions = map[model.RackingType]string{
	model.RackingTracker:     "Horizontal single-axis tracker with backtracking. Bifacial modules.",
	model.RackingGroundMount: "Fixed-tilt ground mount at 30 degrees. Bifacial modules.",
	model.RackingCanopy:      "Elevated carport canopy. Dense low-tilt rows over pavement albedo.",
	model.RackingRooftop:     "Flush rooftop mount. Monofacial, membrane albedo, higher soiling.",
}

// ListProfiles handles GET /api/v1/profiles
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	rackings := model.RackingTypes()
	profiles := make([]models.ProfileInfo, 0, len(rackings))
	for _, r := range rackings {
		profiles = append(profiles, models.ProfileInfo{
			Racking:     string(r),
			Description: rackingDescriptions[r],
			Params:      model.DefaultProfile(r),
		})
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}
