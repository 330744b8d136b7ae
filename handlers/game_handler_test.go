package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwiens91/fooskill/models"
	"github.com/mwiens91/fooskill/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupGameRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Player{},
		&models.RatingPeriod{},
		&models.Game{},
		&models.PlayerStatsNode{},
		&models.MatchupStatsNode{},
		&models.PlayerRatingNode{},
	))

	handler := NewGameHandler(services.NewGameService(db, services.NewStatsService(db)))

	r := gin.New()
	r.POST("/games", handler.CreateGame)
	r.GET("/games", handler.GetGames)
	r.GET("/games/recent", handler.GetRecentGames)

	return r, db
}

func postGame(t *testing.T, r *gin.Engine, req models.CreateGameRequest) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(req)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/games", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, httpReq)
	return w
}

func TestCreateGameEndpoint(t *testing.T) {
	r, db := setupGameRouter(t)

	user := models.User{Username: "scorer"}
	require.NoError(t, db.Create(&user).Error)
	alice := models.Player{Name: "alice"}
	bob := models.Player{Name: "bob"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	w := postGame(t, r, models.CreateGameRequest{
		WinnerID:      alice.ID,
		LoserID:       bob.ID,
		WinnerScore:   10,
		LoserScore:    5,
		SubmittedByID: user.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var game models.Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &game))
	assert.Equal(t, alice.ID, game.WinnerID)
	assert.Equal(t, "alice", game.Winner.Name)
}

func TestCreateGameEndpointRejectsInvalid(t *testing.T) {
	r, db := setupGameRouter(t)

	user := models.User{Username: "scorer"}
	require.NoError(t, db.Create(&user).Error)
	alice := models.Player{Name: "alice"}
	bob := models.Player{Name: "bob"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	// Winner and loser identical.
	w := postGame(t, r, models.CreateGameRequest{
		WinnerID:      alice.ID,
		LoserID:       alice.ID,
		WinnerScore:   10,
		LoserScore:    5,
		SubmittedByID: user.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Winner score not strictly greater.
	w = postGame(t, r, models.CreateGameRequest{
		WinnerID:      alice.ID,
		LoserID:       bob.ID,
		WinnerScore:   5,
		LoserScore:    5,
		SubmittedByID: user.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing required fields.
	w = postGame(t, r, models.CreateGameRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var games int64
	require.NoError(t, db.Model(&models.Game{}).Count(&games).Error)
	assert.EqualValues(t, 0, games)
}
