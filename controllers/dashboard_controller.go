package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pulseboard/services"
)

// DashboardController serves one profile's full stats bundle plus its recent
// heart rate stream.
type DashboardController struct {
	profiles *services.ProfileService
	stats    *services.StatsService
	log      zerolog.Logger
}

func NewDashboardController(profiles *services.ProfileService, stats *services.StatsService, logger zerolog.Logger) *DashboardController {
	return &DashboardController{
		profiles: profiles,
		stats:    stats,
		log:      logger.With().Str("component", "dashboard").Logger(),
	}
}

func (dc *DashboardController) Get(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	profile, err := dc.profiles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}
	if !profile.Authenticated() {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Profile needs re-authentication", "profileId": id})
		return
	}

	stats, err := dc.stats.Refresh(ctx, profile)
	if err != nil {
		// A transient vendor failure shouldn't blank a dashboard we already
		// rendered once; fall back to the last good bundle. A 401 still
		// surfaces, the token is dead either way.
		if cached, ok := dc.stats.Cached(id); ok && !services.IsUnauthorized(err) {
			dc.log.Warn().Err(err).Str("profile", id).Msg("refresh failed, serving cached stats")
			stats = cached
		} else {
			dc.fetchError(c, id, err)
			return
		}
	}

	// The heart rate stream is optional on the dashboard; log and continue
	// without it rather than blanking the whole page.
	heartRate, err := dc.stats.HeartRate(ctx, profile)
	if err != nil {
		if services.IsUnauthorized(err) {
			dc.fetchError(c, id, err)
			return
		}
		dc.log.Warn().Err(err).Str("profile", id).Msg("heart rate fetch failed")
		heartRate = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":   profile,
		"stats":     stats,
		"heartRate": heartRate,
	})
}

// fetchError maps a fetch failure onto the response, deauthorizing the
// profile when the vendor said 401. Only that profile is touched.
func (dc *DashboardController) fetchError(c *gin.Context, profileID string, err error) {
	if services.IsUnauthorized(err) {
		if derr := dc.profiles.Deauthorize(c.Request.Context(), profileID); derr != nil {
			dc.log.Error().Err(derr).Str("profile", profileID).Msg("failed to deauthorize profile")
		}
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Token expired, profile deauthorized",
			"profileId": profileID,
			"category":  services.FetchCategory(err),
		})
		return
	}
	dc.log.Error().Err(err).Str("profile", profileID).Msg("stats aggregation failed")
	c.JSON(http.StatusBadGateway, gin.H{
		"error":     "Failed to fetch health data",
		"profileId": profileID,
		"category":  services.FetchCategory(err),
	})
}
