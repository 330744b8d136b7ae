package handlers

import (
	"net/http"

	"github.com/mwiens91/fooskill/services"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService *services.RatingService
}

func NewRatingHandler(ratingService *services.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

// GetLeaderboard retrieves the current leaderboard
// @Summary Leaderboard
// @Description Get the active players of the newest rating period ordered by ranking
// @Tags ratings
// @Produce json
// @Success 200 {array} models.PlayerRatingNode
// @Failure 500 {object} map[string]string
// @Router /leaderboard [get]
func (h *RatingHandler) GetLeaderboard(c *gin.Context) {
	nodes, err := h.ratingService.Leaderboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve leaderboard",
		})
		return
	}

	c.JSON(http.StatusOK, nodes)
}

// GetRatingPeriods retrieves all rating periods
// @Summary List rating periods
// @Description Get all rating periods, newest first
// @Tags ratings
// @Produce json
// @Success 200 {array} models.RatingPeriod
// @Failure 500 {object} map[string]string
// @Router /rating-periods [get]
func (h *RatingHandler) GetRatingPeriods(c *gin.Context) {
	periods, err := h.ratingService.ListRatingPeriods()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve rating periods",
		})
		return
	}

	c.JSON(http.StatusOK, periods)
}
