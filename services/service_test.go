package services

import (
	"testing"
	"time"

	"github.com/mwiens91/fooskill/config"
	"github.com/mwiens91/fooskill/glicko"
	"github.com/mwiens91/fooskill/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory sqlite database with the full schema.
// The pool is pinned to a single connection so the memory database is
// shared by every query.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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

	return db
}

func testRatingConfig() config.RatingConfig {
	return config.RatingConfig{
		Glicko:              glicko.DefaultConfig(),
		Algorithm:           "glicko2",
		PeriodLength:        7 * 24 * time.Hour,
		InactivityThreshold: 3,
	}
}

func newTestRatingService(t *testing.T, db *gorm.DB, cfg config.RatingConfig, now time.Time) *RatingService {
	t.Helper()

	algorithm, err := glicko.ForName(cfg.Algorithm, cfg.Glicko)
	require.NoError(t, err)

	s := NewRatingService(db, algorithm, cfg)
	s.now = func() time.Time { return now }
	return s
}

func createTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{Username: username}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestPlayers(t *testing.T, db *gorm.DB, names ...string) []models.Player {
	t.Helper()

	players := make([]models.Player, 0, len(names))
	for _, name := range names {
		player := models.Player{Name: name}
		require.NoError(t, db.Create(&player).Error)
		players = append(players, player)
	}
	return players
}

func createTestGame(t *testing.T, db *gorm.DB, winnerID, loserID uint, winnerScore, loserScore int, playedAt time.Time, submittedByID uint) models.Game {
	t.Helper()

	game := models.Game{
		WinnerID:      winnerID,
		LoserID:       loserID,
		WinnerScore:   winnerScore,
		LoserScore:    loserScore,
		PlayedAt:      playedAt,
		SubmittedByID: submittedByID,
	}
	require.NoError(t, db.Create(&game).Error)
	return game
}
