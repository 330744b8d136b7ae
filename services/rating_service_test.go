package services

import (
	"testing"
	"time"

	"github.com/mwiens91/fooskill/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func floatPtr(v float64) *float64 {
	return &v
}

// seedRatingPeriod inserts a closed period with prebuilt rating nodes,
// bypassing the scheduler. Used to put players into a known rating
// state before the period under test.
func seedRatingPeriod(t *testing.T, db *gorm.DB, start, end time.Time, nodes ...models.PlayerRatingNode) models.RatingPeriod {
	t.Helper()

	period := models.RatingPeriod{StartTime: start, EndTime: end}
	require.NoError(t, db.Create(&period).Error)

	for i := range nodes {
		nodes[i].RatingPeriodID = period.ID
		require.NoError(t, db.Create(&nodes[i]).Error)
	}

	return period
}

func TestProcessPendingPeriodsNoGames(t *testing.T) {
	db := setupTestDB(t)
	ratingService := newTestRatingService(t, db, testRatingConfig(), time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, ratingService.ProcessPendingPeriods())

	var periods int64
	require.NoError(t, db.Model(&models.RatingPeriod{}).Count(&periods).Error)
	assert.EqualValues(t, 0, periods)
}

func TestProcessPendingPeriodsOpenWindow(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "scorer")
	players := createTestPlayers(t, db, "alice", "bob")

	start := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	createTestGame(t, db, players[0].ID, players[1].ID, 10, 5, start, user.ID)

	// Three days into a seven day window: nothing to close yet.
	ratingService := newTestRatingService(t, db, testRatingConfig(), start.Add(3*24*time.Hour))
	require.NoError(t, ratingService.ProcessPendingPeriods())

	var periods int64
	require.NoError(t, db.Model(&models.RatingPeriod{}).Count(&periods).Error)
	assert.EqualValues(t, 0, periods)
}

func TestProcessPendingPeriodsBacklog(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "scorer")
	players := createTestPlayers(t, db, "alice", "bob")

	start := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	createTestGame(t, db, players[0].ID, players[1].ID, 10, 5, start, user.ID)
	createTestGame(t, db, players[1].ID, players[0].ID, 10, 8, start.Add(8*24*time.Hour), user.ID)
	createTestGame(t, db, players[0].ID, players[1].ID, 10, 2, start.Add(15*24*time.Hour), user.ID)

	ratingService := newTestRatingService(t, db, testRatingConfig(), start.Add(22*24*time.Hour))
	require.NoError(t, ratingService.ProcessPendingPeriods())

	// Three elapsed windows close in one call, each claiming its game.
	periods, err := ratingService.ListRatingPeriods()
	require.NoError(t, err)
	require.Len(t, periods, 3)

	for _, period := range periods {
		var claimed int64
		require.NoError(t, db.Model(&models.Game{}).
			Where("rating_period_id = ?", period.ID).
			Count(&claimed).Error)
		assert.EqualValues(t, 1, claimed)
	}

	// Windows are contiguous, separated by the store's timestamp
	// resolution.
	oldest, middle := periods[2], periods[1]
	assert.Equal(t, time.Microsecond, middle.StartTime.Sub(oldest.EndTime))

	// A second call finds nothing new to close.
	require.NoError(t, ratingService.ProcessPendingPeriods())
	var count int64
	require.NoError(t, db.Model(&models.RatingPeriod{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestFirstPeriodRatesBothPlayers(t *testing.T) {
	db := setupTestDB(t)
	cfg := testRatingConfig()

	user := createTestUser(t, db, "scorer")
	players := createTestPlayers(t, db, "alice", "bob")

	start := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	createTestGame(t, db, players[0].ID, players[1].ID, 10, 5, start, user.ID)

	ratingService := newTestRatingService(t, db, cfg, start.Add(8*24*time.Hour))
	require.NoError(t, ratingService.ProcessPendingPeriods())

	winner, err := ratingService.CurrentRating(players[0].ID)
	require.NoError(t, err)
	loser, err := ratingService.CurrentRating(players[1].ID)
	require.NoError(t, err)

	assert.Greater(t, winner.Rating, cfg.Glicko.BaseRating)
	assert.Less(t, loser.Rating, cfg.Glicko.BaseRating)
	assert.Less(t, winner.RatingDeviation, cfg.Glicko.BaseDeviation)
	assert.Less(t, loser.RatingDeviation, cfg.Glicko.BaseDeviation)
	require.NotNil(t, winner.RatingVolatility)

	assert.Equal(t, 0, winner.Inactivity)
	assert.True(t, winner.IsActive)
	require.NotNil(t, winner.Ranking)
	require.NotNil(t, loser.Ranking)
	assert.Equal(t, 1, *winner.Ranking)
	assert.Equal(t, 2, *loser.Ranking)

	// First-time rankings get the entered-from-outside delta.
	require.NotNil(t, winner.RankingDelta)
	require.NotNil(t, loser.RankingDelta)
	assert.Equal(t, 2, *winner.RankingDelta)
	assert.Equal(t, 1, *loser.RankingDelta)
}

func TestGamelessPeriodGrowsDeviation(t *testing.T) {
	db := setupTestDB(t)
	cfg := testRatingConfig()

	user := createTestUser(t, db, "scorer")
	players := createTestPlayers(t, db, "alice", "bob")

	start := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	createTestGame(t, db, players[0].ID, players[1].ID, 10, 5, start, user.ID)

	// Two windows elapse; the second has no games.
	ratingService := newTestRatingService(t, db, cfg, start.Add(15*24*time.Hour))
	require.NoError(t, ratingService.ProcessPendingPeriods())

	history, err := ratingService.RatingHistory(players[0].ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	latest, previous := history[0], history[1]
	assert.Equal(t, latest.Rating, previous.Rating)
	assert.Greater(t, latest.RatingDeviation, previous.RatingDeviation)
	assert.Equal(t, 0, previous.InactivityCount)
	assert.Equal(t, 1, latest.InactivityCount)

	// Below the threshold a gameless player stays ranked.
	assert.True(t, latest.IsActive)
	require.NotNil(t, latest.Ranking)
	assert.Equal(t, 1, *latest.Ranking)
	require.NotNil(t, latest.RankingDelta)
	assert.Equal(t, 0, *latest.RankingDelta)
}

func TestInactivePlayersDropFromRankings(t *testing.T) {
	db := setupTestDB(t)
	cfg := testRatingConfig()
	cfg.InactivityThreshold = 1

	user := createTestUser(t, db, "scorer")
	players := createTestPlayers(t, db, "alice", "bob")

	start := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	createTestGame(t, db, players[0].ID, players[1].ID, 10, 5, start, user.ID)

	ratingService := newTestRatingService(t, db, cfg, start.Add(15*24*time.Hour))
	require.NoError(t, ratingService.ProcessPendingPeriods())

	history, err := ratingService.RatingHistory(players[0].ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	latest := history[0]
	assert.Equal(t, 1, latest.InactivityCount)
	assert.False(t, latest.IsActive)
	assert.Nil(t, latest.Ranking)
	assert.Nil(t, latest.RankingDelta)

	leaderboard, err := ratingService.Leaderboard()
	require.NoError(t, err)
	assert.Empty(t, leaderboard)
}

func TestRankingsShareRankOnRoundedTie(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "scorer")
	players := createTestPlayers(t, db, "alice", "bob", "carol", "dave")

	// Two identical games between fresh players produce two pairs of
	// identical ratings.
	start := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	createTestGame(t, db, players[0].ID, players[1].ID, 10, 5, start, user.ID)
	createTestGame(t, db, players[2].ID, players[3].ID, 10, 5, start.Add(time.Hour), user.ID)

	ratingService := newTestRatingService(t, db, testRatingConfig(), start.Add(8*24*time.Hour))
	require.NoError(t, ratingService.ProcessPendingPeriods())

	rank := func(playerID uint) (int, int) {
		rating, err := ratingService.CurrentRating(playerID)
		require.NoError(t, err)
		require.NotNil(t, rating.Ranking)
		require.NotNil(t, rating.RankingDelta)
		return *rating.Ranking, *rating.RankingDelta
	}

	aliceRank, aliceDelta := rank(players[0].ID)
	carolRank, carolDelta := rank(players[2].ID)
	bobRank, bobDelta := rank(players[1].ID)
	daveRank, daveDelta := rank(players[3].ID)

	// Both winners share rank 1, both losers share rank 3; rank 2 is
	// skipped.
	assert.Equal(t, 1, aliceRank)
	assert.Equal(t, 1, carolRank)
	assert.Equal(t, 3, bobRank)
	assert.Equal(t, 3, daveRank)

	assert.Equal(t, 4, aliceDelta)
	assert.Equal(t, 4, carolDelta)
	assert.Equal(t, 2, bobDelta)
	assert.Equal(t, 2, daveDelta)
}

func TestRankingDeltaAgainstPreviousPeriod(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "scorer")
	players := createTestPlayers(t, db, "alice", "bob")

	// Seed a closed period where the rankings disagree with the
	// ratings; the next period reorders purely from the stored
	// ratings and measures the deltas against the stored rankings.
	start := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	game := createTestGame(t, db, players[0].ID, players[1].ID, 10, 5, start.Add(-24*time.Hour), user.ID)
	period := seedRatingPeriod(t, db, start.Add(-7*24*time.Hour), start,
		models.PlayerRatingNode{
			PlayerID:         players[0].ID,
			Rating:           1600,
			RatingDeviation:  150,
			RatingVolatility: floatPtr(0.06),
			IsActive:         true,
			Ranking:          intPtr(2),
		},
		models.PlayerRatingNode{
			PlayerID:         players[1].ID,
			Rating:           1500,
			RatingDeviation:  150,
			RatingVolatility: floatPtr(0.06),
			IsActive:         true,
			Ranking:          intPtr(1),
		},
	)
	require.NoError(t, db.Model(&game).Update("rating_period_id", period.ID).Error)

	ratingService := newTestRatingService(t, db, testRatingConfig(), start.Add(8*24*time.Hour))
	require.NoError(t, ratingService.ProcessPendingPeriods())

	alice, err := ratingService.CurrentRating(players[0].ID)
	require.NoError(t, err)
	bob, err := ratingService.CurrentRating(players[1].ID)
	require.NoError(t, err)

	require.NotNil(t, alice.Ranking)
	require.NotNil(t, bob.Ranking)
	assert.Equal(t, 1, *alice.Ranking)
	assert.Equal(t, 2, *bob.Ranking)

	require.NotNil(t, alice.RankingDelta)
	require.NotNil(t, bob.RankingDelta)
	assert.Equal(t, 1, *alice.RankingDelta)
	assert.Equal(t, -1, *bob.RankingDelta)
}

func TestPeriodUsesStartOfPeriodStates(t *testing.T) {
	db := setupTestDB(t)
	cfg := testRatingConfig()

	user := createTestUser(t, db, "scorer")
	players := createTestPlayers(t, db, "alice", "bob")

	// Alice enters the period at 1500/200, bob at 1400/30. Bob wins.
	start := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	seedGame := createTestGame(t, db, players[0].ID, players[1].ID, 10, 5, start.Add(-24*time.Hour), user.ID)
	period := seedRatingPeriod(t, db, start.Add(-7*24*time.Hour), start,
		models.PlayerRatingNode{
			PlayerID:         players[0].ID,
			Rating:           1500,
			RatingDeviation:  200,
			RatingVolatility: floatPtr(0.06),
			IsActive:         true,
			Ranking:          intPtr(1),
		},
		models.PlayerRatingNode{
			PlayerID:         players[1].ID,
			Rating:           1400,
			RatingDeviation:  30,
			RatingVolatility: floatPtr(0.06),
			IsActive:         true,
			Ranking:          intPtr(2),
		},
	)
	require.NoError(t, db.Model(&seedGame).Update("rating_period_id", period.ID).Error)

	createTestGame(t, db, players[1].ID, players[0].ID, 10, 7, start.Add(24*time.Hour), user.ID)

	ratingService := newTestRatingService(t, db, cfg, start.Add(8*24*time.Hour))
	require.NoError(t, ratingService.ProcessPendingPeriods())

	alice, err := ratingService.CurrentRating(players[0].ID)
	require.NoError(t, err)

	// Alice's update must match a direct solver run against bob's
	// start-of-period values.
	expected, err := ratingService.algorithm.Rate(1500, 200, 0.06, []float64{1400}, []float64{30}, []float64{0})
	require.NoError(t, err)

	assert.InDelta(t, expected.Rating, alice.Rating, 1e-9)
	assert.InDelta(t, expected.Deviation, alice.RatingDeviation, 1e-9)
	assert.Less(t, alice.Rating, 1500.0)
	assert.Less(t, alice.RatingDeviation, 200.0)
	assert.Equal(t, 0, alice.Inactivity)
}

func TestCurrentRatingBaseFallback(t *testing.T) {
	db := setupTestDB(t)
	cfg := testRatingConfig()

	players := createTestPlayers(t, db, "alice")

	ratingService := newTestRatingService(t, db, cfg, time.Now())
	rating, err := ratingService.CurrentRating(players[0].ID)
	require.NoError(t, err)

	assert.Equal(t, cfg.Glicko.BaseRating, rating.Rating)
	assert.Equal(t, cfg.Glicko.BaseDeviation, rating.RatingDeviation)
	require.NotNil(t, rating.RatingVolatility)
	assert.Equal(t, cfg.Glicko.BaseVolatility, *rating.RatingVolatility)
	assert.Nil(t, rating.Ranking)
}

func TestLeaderboardOrder(t *testing.T) {
	db := setupTestDB(t)

	user := createTestUser(t, db, "scorer")
	players := createTestPlayers(t, db, "alice", "bob", "carol")

	start := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	createTestGame(t, db, players[0].ID, players[1].ID, 10, 5, start, user.ID)
	createTestGame(t, db, players[0].ID, players[2].ID, 10, 5, start.Add(time.Hour), user.ID)

	ratingService := newTestRatingService(t, db, testRatingConfig(), start.Add(8*24*time.Hour))
	require.NoError(t, ratingService.ProcessPendingPeriods())

	leaderboard, err := ratingService.Leaderboard()
	require.NoError(t, err)
	require.Len(t, leaderboard, 3)

	assert.Equal(t, "alice", leaderboard[0].Player.Name)
	for i := 1; i < len(leaderboard); i++ {
		require.NotNil(t, leaderboard[i-1].Ranking)
		require.NotNil(t, leaderboard[i].Ranking)
		assert.LessOrEqual(t, *leaderboard[i-1].Ranking, *leaderboard[i].Ranking)
	}
}

func TestClassicAlgorithmOmitsVolatility(t *testing.T) {
	db := setupTestDB(t)
	cfg := testRatingConfig()
	cfg.Algorithm = "glicko"

	user := createTestUser(t, db, "scorer")
	players := createTestPlayers(t, db, "alice", "bob")

	start := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	createTestGame(t, db, players[0].ID, players[1].ID, 10, 5, start, user.ID)

	ratingService := newTestRatingService(t, db, cfg, start.Add(8*24*time.Hour))
	require.NoError(t, ratingService.ProcessPendingPeriods())

	var node models.PlayerRatingNode
	require.NoError(t, db.Where("player_id = ?", players[0].ID).First(&node).Error)
	assert.Nil(t, node.RatingVolatility)
	assert.Greater(t, node.Rating, cfg.Glicko.BaseRating)
}
