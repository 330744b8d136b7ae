package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mwiens91/fooskill/models"
	"github.com/mwiens91/fooskill/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService *services.GameService
}

func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

// CreateGame submits a new game result
// @Summary Submit game
// @Description Record a game result; the winner's score must be strictly greater than the loser's and the players must be distinct. Stats chains for both players update in the same transaction.
// @Tags games
// @Accept json
// @Produce json
// @Param game body models.CreateGameRequest true "Game result"
// @Success 201 {object} models.Game
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /games [post]
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req models.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	game, err := h.gameService.SubmitGame(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSamePlayer),
			errors.Is(err, services.ErrScoreNotWinning),
			errors.Is(err, services.ErrPlayerNotFound),
			errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create game",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, game)
}

// GetGames retrieves a page of games
// @Summary List games
// @Description Get paginated games, most recently played first
// @Tags games
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 25, max: 100)"
// @Success 200 {object} models.PaginatedGamesResponse
// @Failure 500 {object} map[string]string
// @Router /games [get]
func (h *GameHandler) GetGames(c *gin.Context) {
	page, pageSize := paginationParams(c)

	games, err := h.gameService.GetGames(page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve games",
		})
		return
	}

	c.JSON(http.StatusOK, games)
}

// GetRecentGames retrieves the most recent games
// @Summary Recent games
// @Description Get the N most recently played games
// @Tags games
// @Produce json
// @Param limit query int false "Number of games to retrieve (default: 10, max: 100)"
// @Success 200 {array} models.Game
// @Failure 500 {object} map[string]string
// @Router /games/recent [get]
func (h *GameHandler) GetRecentGames(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	games, err := h.gameService.GetRecentGames(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve games",
		})
		return
	}

	c.JSON(http.StatusOK, games)
}
