package routes

import (
	"github.com/gin-gonic/gin"

	"pulseboard/controllers"
	"pulseboard/websocket"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Profiles    *controllers.ProfileController
	Dashboard   *controllers.DashboardController
	Leaderboard *controllers.LeaderboardController
	Versus      *controllers.VersusController
	Hub         *websocket.Hub
}

// Setup registers the API surface.
func Setup(router *gin.Engine, h *Handlers) {
	router.GET("/profiles", h.Profiles.List)
	router.POST("/profiles", h.Profiles.Create)
	router.DELETE("/profiles/:id", h.Profiles.Delete)
	router.PUT("/profiles/:id/activate", h.Profiles.Activate)

	router.GET("/dashboard/:id", h.Dashboard.Get)
	router.GET("/leaderboard", h.Leaderboard.Get)

	router.GET("/versus/:idA/:idB", h.Versus.Get)
	router.POST("/versus/briefing", h.Versus.Briefing)

	router.GET("/ws/leaderboard", h.Hub.Handle)
}
