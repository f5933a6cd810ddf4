package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pulseboard/models"
	"pulseboard/services"
)

// VersusController serves the two-profile head-to-head view: metric groups,
// the merged heart rate series and (on a separate endpoint) the AI coach
// briefing. Versus mode always does its own full-bundle fetch; it never
// reuses the leaderboard's lightweight results.
type VersusController struct {
	profiles *services.ProfileService
	stats    *services.StatsService
	briefing *services.BriefingService
	log      zerolog.Logger
}

func NewVersusController(profiles *services.ProfileService, stats *services.StatsService, briefing *services.BriefingService, logger zerolog.Logger) *VersusController {
	return &VersusController{
		profiles: profiles,
		stats:    stats,
		briefing: briefing,
		log:      logger.With().Str("component", "versus").Logger(),
	}
}

func (vc *VersusController) resolvePair(c *gin.Context, idA, idB string) (models.Profile, models.Profile, *services.VersusData, bool) {
	ctx := c.Request.Context()

	profileA, err := vc.profiles.Get(ctx, idA)
	if err != nil {
		vc.profileError(c, idA, err)
		return models.Profile{}, models.Profile{}, nil, false
	}
	profileB, err := vc.profiles.Get(ctx, idB)
	if err != nil {
		vc.profileError(c, idB, err)
		return models.Profile{}, models.Profile{}, nil, false
	}

	data, err := vc.stats.FetchVersus(ctx, profileA, profileB)
	if err != nil {
		if services.IsUnauthorized(err) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    "One of the tokens was rejected by the vendor",
				"category": services.FetchCategory(err),
			})
			return models.Profile{}, models.Profile{}, nil, false
		}
		vc.log.Error().Err(err).Str("profileA", idA).Str("profileB", idB).Msg("versus fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch comparison data", "category": services.FetchCategory(err)})
		return models.Profile{}, models.Profile{}, nil, false
	}
	return profileA, profileB, data, true
}

func (vc *VersusController) Get(c *gin.Context) {
	profileA, profileB, data, ok := vc.resolvePair(c, c.Param("idA"), c.Param("idB"))
	if !ok {
		return
	}

	groups := services.CompareLatest(data.StatsA, data.StatsB)
	heartRate := services.AlignHeartRates(data.HeartRateA, data.HeartRateB)

	averageA := latestAverage(data.StatsA)
	averageB := latestAverage(data.StatsB)

	c.JSON(http.StatusOK, gin.H{
		"nameA":     profileA.Name,
		"nameB":     profileB.Name,
		"averageA":  averageA,
		"averageB":  averageB,
		"groups":    groups,
		"heartRate": heartRate,
	})
}

type briefingRequest struct {
	IDA string `json:"idA" binding:"required"`
	IDB string `json:"idB" binding:"required"`
}

// Briefing is independently triggerable so the versus metrics never block
// on the generator's availability or latency.
func (vc *VersusController) Briefing(c *gin.Context) {
	var req briefingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "idA and idB are required"})
		return
	}

	profileA, profileB, data, ok := vc.resolvePair(c, req.IDA, req.IDB)
	if !ok {
		return
	}

	text := vc.briefing.GenerateBriefing(c.Request.Context(), data.StatsA, data.StatsB, profileA.Name, profileB.Name)
	c.JSON(http.StatusOK, gin.H{"briefing": text})
}

func (vc *VersusController) profileError(c *gin.Context, id string, err error) {
	if errors.Is(err, services.ErrProfileNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found", "profileId": id})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile", "profileId": id})
}

func latestAverage(stats *models.DailyStats) int {
	var sleep, readiness, activity *int
	if len(stats.Sleep) > 0 {
		sleep = stats.Sleep[0].Score
	}
	if len(stats.Readiness) > 0 {
		readiness = stats.Readiness[0].Score
	}
	if len(stats.Activity) > 0 {
		activity = stats.Activity[0].Score
	}
	return services.DailyAverage(sleep, readiness, activity)
}
