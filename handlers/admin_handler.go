package handlers

import (
	"net/http"

	"github.com/mwiens91/fooskill/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	ratingService    *services.RatingService
	reprocessService *services.ReprocessService
}

func NewAdminHandler(ratingService *services.RatingService, reprocessService *services.ReprocessService) *AdminHandler {
	return &AdminHandler{
		ratingService:    ratingService,
		reprocessService: reprocessService,
	}
}

// ProcessRatings closes any pending rating periods
// @Summary Process pending rating periods
// @Description Close every rating period whose window has fully elapsed; no-op when none is closeable
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/process-ratings [post]
func (h *AdminHandler) ProcessRatings(c *gin.Context) {
	if err := h.ratingService.ProcessPendingPeriods(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Rating periods processed",
	})
}

// ReprocessStats rebuilds all stats chains from the game log
// @Summary Reprocess all stats
// @Description Destructively wipe and rebuild every stats chain by replaying the full game log
// @Tags admin
// @Produce json
// @Param resetIds query bool false "Restart node ID sequences at 1 (default: false)"
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/reprocess-stats [post]
func (h *AdminHandler) ReprocessStats(c *gin.Context) {
	resetIDs := c.DefaultQuery("resetIds", "false") == "true"

	if err := h.reprocessService.ReprocessStats(resetIDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stats reprocessed",
	})
}

// ReprocessRatings rebuilds the full rating history from the game log
// @Summary Reprocess all ratings
// @Description Destructively wipe every rating period and node and re-run the period scheduler from the earliest game
// @Tags admin
// @Produce json
// @Param resetIds query bool false "Restart ID sequences at 1 (default: false)"
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /admin/reprocess-ratings [post]
func (h *AdminHandler) ReprocessRatings(c *gin.Context) {
	resetIDs := c.DefaultQuery("resetIds", "false") == "true"

	if err := h.reprocessService.ReprocessRatings(resetIDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ratings reprocessed",
	})
}
