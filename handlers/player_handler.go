package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mwiens91/fooskill/models"
	"github.com/mwiens91/fooskill/services"

	"github.com/gin-gonic/gin"
)

type PlayerHandler struct {
	playerService *services.PlayerService
	statsService  *services.StatsService
	ratingService *services.RatingService
}

func NewPlayerHandler(playerService *services.PlayerService, statsService *services.StatsService, ratingService *services.RatingService) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
		statsService:  statsService,
		ratingService: ratingService,
	}
}

// GetPlayers retrieves a page of players
// @Summary List players
// @Description Get paginated players ordered by name
// @Tags players
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 25, max: 100)"
// @Success 200 {object} models.PaginatedPlayersResponse
// @Failure 500 {object} map[string]string
// @Router /players [get]
func (h *PlayerHandler) GetPlayers(c *gin.Context) {
	page, pageSize := paginationParams(c)

	players, err := h.playerService.GetAllPlayers(page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve players",
		})
		return
	}

	c.JSON(http.StatusOK, players)
}

// CreatePlayer creates a new player
// @Summary Create player
// @Description Create a new player, optionally linked to a user
// @Tags players
// @Accept json
// @Produce json
// @Param player body models.CreatePlayerRequest true "Player to create"
// @Success 201 {object} models.Player
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players [post]
func (h *PlayerHandler) CreatePlayer(c *gin.Context) {
	var req models.CreatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	player, err := h.playerService.CreatePlayer(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create player",
		})
		return
	}

	c.JSON(http.StatusCreated, player)
}

// GetPlayer retrieves a player with computed rating and stats
// @Summary Get player by ID
// @Description Get player identity plus the computed rating and stats projections
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {object} models.PlayerDetail
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players/{id} [get]
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	id, ok := playerIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.playerService.GetPlayerDetail(id)
	if err != nil {
		if errors.Is(err, services.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Player not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetStatsHistory retrieves a player's stats chain
// @Summary Get player stats history
// @Description Get the full append-only stats chain for a player, newest first
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {array} models.PlayerStatsNode
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players/{id}/stats-history [get]
func (h *PlayerHandler) GetStatsHistory(c *gin.Context) {
	id, ok := h.existingPlayerID(c, "id")
	if !ok {
		return
	}

	nodes, err := h.statsService.StatsHistory(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve stats history",
		})
		return
	}

	c.JSON(http.StatusOK, nodes)
}

// GetRatingHistory retrieves a player's rating chain
// @Summary Get player rating history
// @Description Get one rating node per processed rating period, newest first
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Success 200 {array} models.PlayerRatingNode
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players/{id}/rating-history [get]
func (h *PlayerHandler) GetRatingHistory(c *gin.Context) {
	id, ok := h.existingPlayerID(c, "id")
	if !ok {
		return
	}

	nodes, err := h.ratingService.RatingHistory(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve rating history",
		})
		return
	}

	c.JSON(http.StatusOK, nodes)
}

// GetMatchupStats retrieves a player's stats against one opponent
// @Summary Get matchup stats
// @Description Get a player's current stats against a specific opponent
// @Tags players
// @Produce json
// @Param id path int true "Player ID"
// @Param opponentId path int true "Opponent player ID"
// @Success 200 {object} models.PlayerStats
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /players/{id}/matchups/{opponentId} [get]
func (h *PlayerHandler) GetMatchupStats(c *gin.Context) {
	id, ok := h.existingPlayerID(c, "id")
	if !ok {
		return
	}
	opponentID, ok := playerIDParam(c, "opponentId")
	if !ok {
		return
	}

	stats, err := h.statsService.CurrentMatchupStats(id, opponentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve matchup stats",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// existingPlayerID parses a player ID path param and verifies the
// player exists.
func (h *PlayerHandler) existingPlayerID(c *gin.Context, param string) (uint, bool) {
	id, ok := playerIDParam(c, param)
	if !ok {
		return 0, false
	}

	if _, err := h.playerService.GetPlayerByID(id); err != nil {
		if errors.Is(err, services.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Player not found",
			})
			return 0, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return 0, false
	}

	return id, true
}

func playerIDParam(c *gin.Context, param string) (uint, bool) {
	idParam := c.Param(param)
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid player ID",
		})
		return 0, false
	}
	return uint(id), true
}

func paginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "25"))
	if err != nil || pageSize < 1 {
		pageSize = 25
	}
	if pageSize > 100 {
		pageSize = 100
	}

	return page, pageSize
}
