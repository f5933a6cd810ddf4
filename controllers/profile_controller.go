package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pulseboard/services"
)

// ProfileController manages the set of locally known ring wearers. The
// OAuth implicit flow itself happens in the browser; this surface only ever
// receives the resulting access token.
type ProfileController struct {
	profiles *services.ProfileService
	stats    *services.StatsService
	notify   func()
}

func NewProfileController(profiles *services.ProfileService, stats *services.StatsService, notify func()) *ProfileController {
	if notify == nil {
		notify = func() {}
	}
	return &ProfileController{profiles: profiles, stats: stats, notify: notify}
}

func (pc *ProfileController) List(c *gin.Context) {
	profiles, err := pc.profiles.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list profiles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"profiles": profiles,
		"activeId": pc.profiles.ActiveID(),
	})
}

type createProfileRequest struct {
	Name  string `json:"name"`
	Token string `json:"token" binding:"required"`
}

func (pc *ProfileController) Create(c *gin.Context) {
	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and token are required"})
		return
	}

	profile, err := pc.profiles.Register(c.Request.Context(), req.Name, req.Token)
	if err != nil {
		if services.IsUnauthorized(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "The vendor rejected this token"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to validate token with vendor"})
		return
	}

	pc.notify()
	c.JSON(http.StatusCreated, profile)
}

func (pc *ProfileController) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := pc.profiles.Remove(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove profile"})
		return
	}
	pc.stats.Invalidate(id)
	pc.notify()
	c.Status(http.StatusNoContent)
}

func (pc *ProfileController) Activate(c *gin.Context) {
	id := c.Param("id")
	if _, err := pc.profiles.Get(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}
	pc.profiles.SetActive(id)
	c.JSON(http.StatusOK, gin.H{"activeId": id})
}
