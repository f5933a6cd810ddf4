package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pulseboard/services"
)

// LeaderboardController renders the community board. Per-profile failures
// are swallowed inside the service, so a single broken token never blanks
// the whole board.
type LeaderboardController struct {
	profiles    *services.ProfileService
	leaderboard *services.LeaderboardService
}

func NewLeaderboardController(profiles *services.ProfileService, leaderboard *services.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{profiles: profiles, leaderboard: leaderboard}
}

func (lc *LeaderboardController) Get(c *gin.Context) {
	ctx := c.Request.Context()

	profiles, err := lc.profiles.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list profiles"})
		return
	}
	if len(profiles) == 0 {
		c.JSON(http.StatusOK, gin.H{"entries": []any{}})
		return
	}

	entries := lc.leaderboard.BuildLeaderboard(ctx, profiles, lc.profiles.ActiveID())
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
