package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/mwiens91/fooskill/config"
	"github.com/mwiens91/fooskill/glicko"
	"github.com/mwiens91/fooskill/models"

	"gorm.io/gorm"
)

// periodContiguityGap separates consecutive rating periods. Postgres
// timestamps carry microsecond resolution, so this is the smallest
// increment the store can represent.
const periodContiguityGap = time.Microsecond

// RatingService materializes rating periods: it decides when a new
// period can be closed, gathers the games falling inside it, runs the
// configured rating algorithm once per eligible player and computes
// period-relative rankings. Period closing is mutually exclusive
// process-wide and each period commits atomically.
type RatingService struct {
	db        *gorm.DB
	algorithm glicko.Algorithm
	cfg       config.RatingConfig

	mu sync.Mutex

	// now is swapped out in tests.
	now func() time.Time
}

func NewRatingService(db *gorm.DB, algorithm glicko.Algorithm, cfg config.RatingConfig) *RatingService {
	return &RatingService{
		db:        db,
		algorithm: algorithm,
		cfg:       cfg,
		now:       time.Now,
	}
}

// ratingState is a player's rating triple plus bookkeeping as of the
// start of a period.
type ratingState struct {
	rating     float64
	deviation  float64
	volatility float64
	inactivity int
	ranking    *int
}

// periodResult accumulates one player's outcome for a period before
// the nodes are persisted.
type periodResult struct {
	playerID     uint
	result       glicko.Result
	inactivity   int
	isActive     bool
	prevRanking  *int
	ranking      *int
	rankingDelta *int
}

// ProcessPendingPeriods closes every rating period whose window has
// fully elapsed. It is idempotent and safe to call on a fixed
// interval: when no window is closeable it does nothing. A backlog
// spanning several elapsed windows is worked off in one call, oldest
// window first, since later rankings depend on earlier ones.
func (s *RatingService) ProcessPendingPeriods() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		closed, err := s.closeNextPeriod()
		if err != nil {
			return err
		}
		if !closed {
			return nil
		}
	}
}

// closeNextPeriod closes the single oldest closeable window, reporting
// whether one was closed.
func (s *RatingService) closeNextPeriod() (bool, error) {
	var start time.Time

	var latest models.RatingPeriod
	err := s.db.Order("end_time DESC").First(&latest).Error
	switch {
	case err == nil:
		start = latest.EndTime.Add(periodContiguityGap)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// No periods yet: start from the earliest unrated game, or
		// stay idle if no games exist at all.
		var earliest models.Game
		err := s.db.Order("played_at ASC").First(&earliest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		start = earliest.PlayedAt
	default:
		return false, err
	}

	end := start.Add(s.cfg.PeriodLength)
	if end.After(s.now()) {
		// Window still open.
		return false, nil
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := s.computePeriod(tx, start, end); err != nil {
		tx.Rollback()
		return false, err
	}

	if err := tx.Commit().Error; err != nil {
		return false, err
	}

	log.Printf("Closed rating period [%s, %s]", start.Format(time.RFC3339), end.Format(time.RFC3339))
	return true, nil
}

// computePeriod creates the period, claims its games and writes one
// rating node per eligible player. Any failure aborts the whole
// period; partial states are never persisted.
func (s *RatingService) computePeriod(tx *gorm.DB, start, end time.Time) error {
	period := models.RatingPeriod{StartTime: start, EndTime: end}
	if err := tx.Create(&period).Error; err != nil {
		return err
	}

	// Claim this window's games. A game is stamped by exactly one
	// period, ever.
	if err := tx.Model(&models.Game{}).
		Where("rating_period_id IS NULL AND played_at >= ? AND played_at <= ?", start, end).
		Update("rating_period_id", period.ID).Error; err != nil {
		return err
	}

	var games []models.Game
	if err := tx.Where("rating_period_id = ?", period.ID).
		Order("played_at ASC").
		Find(&games).Error; err != nil {
		return err
	}

	playerIDs, err := s.eligiblePlayerIDs(tx, end)
	if err != nil {
		return err
	}

	// Read every player's pre-period state before writing anything so
	// opponents are rated against start-of-period values.
	states := make(map[uint]ratingState, len(playerIDs))
	for _, id := range playerIDs {
		state, err := s.currentState(tx, id)
		if err != nil {
			return err
		}
		states[id] = state
	}

	results := make([]periodResult, 0, len(playerIDs))
	for _, id := range playerIDs {
		state := states[id]

		var oppRatings, oppDeviations, scores []float64
		for i := range games {
			if games[i].WinnerID != id && games[i].LoserID != id {
				continue
			}

			oppID := games[i].LoserID
			score := 1.0
			if games[i].LoserID == id {
				oppID = games[i].WinnerID
				score = 0.0
			}

			opp := states[oppID]
			oppRatings = append(oppRatings, opp.rating)
			oppDeviations = append(oppDeviations, opp.deviation)
			scores = append(scores, score)
		}

		res, err := s.algorithm.Rate(state.rating, state.deviation, state.volatility, oppRatings, oppDeviations, scores)
		if err != nil {
			return fmt.Errorf("rating player %d: %w", id, err)
		}

		inactivity := 0
		if len(scores) == 0 {
			inactivity = state.inactivity + 1
		}

		results = append(results, periodResult{
			playerID:    id,
			result:      res,
			inactivity:  inactivity,
			isActive:    inactivity < s.cfg.InactivityThreshold,
			prevRanking: state.ranking,
		})
	}

	s.assignRankings(results)

	for i := range results {
		node := models.PlayerRatingNode{
			PlayerID:        results[i].playerID,
			RatingPeriodID:  period.ID,
			Rating:          results[i].result.Rating,
			RatingDeviation: results[i].result.Deviation,
			InactivityCount: results[i].inactivity,
			IsActive:        results[i].isActive,
			Ranking:         results[i].ranking,
			RankingDelta:    results[i].rankingDelta,
		}
		if s.algorithm.UsesVolatility() {
			volatility := results[i].result.Volatility
			node.RatingVolatility = &volatility
		}

		if err := tx.Create(&node).Error; err != nil {
			return err
		}
	}

	return nil
}

// assignRankings ranks active players by descending rating. Players
// whose ratings round to the same integer share a rank. The delta is
// measured against the previous ranking when one exists; a first-time
// ranking gets the synthetic "entered from outside" delta of
// activeCount - ranking + 1.
func (s *RatingService) assignRankings(results []periodResult) {
	active := make([]*periodResult, 0, len(results))
	for i := range results {
		if results[i].isActive {
			active = append(active, &results[i])
		}
	}

	sort.Slice(active, func(i, j int) bool {
		if active[i].result.Rating != active[j].result.Rating {
			return active[i].result.Rating > active[j].result.Rating
		}
		return active[i].playerID < active[j].playerID
	})

	prevRank := 0
	for i, r := range active {
		rank := i + 1
		if i > 0 && math.Round(r.result.Rating) == math.Round(active[i-1].result.Rating) {
			rank = prevRank
		}
		prevRank = rank

		r.ranking = intPtr(rank)
		if r.prevRanking != nil {
			r.rankingDelta = intPtr(*r.prevRanking - rank)
		} else {
			r.rankingDelta = intPtr(len(active) - rank + 1)
		}
	}
}

// eligiblePlayerIDs returns, in ascending order, every player whose
// first game was played at or before the period end.
func (s *RatingService) eligiblePlayerIDs(tx *gorm.DB, end time.Time) ([]uint, error) {
	var winnerIDs, loserIDs []uint

	if err := tx.Model(&models.Game{}).
		Where("played_at <= ?", end).
		Distinct().
		Pluck("winner_id", &winnerIDs).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Game{}).
		Where("played_at <= ?", end).
		Distinct().
		Pluck("loser_id", &loserIDs).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint]bool, len(winnerIDs)+len(loserIDs))
	ids := make([]uint, 0, len(winnerIDs)+len(loserIDs))
	for _, id := range append(winnerIDs, loserIDs...) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// currentState reads a player's newest rating node, falling back to
// the configured base values for never-rated players. The lookup is an
// index query, never a cached pointer.
func (s *RatingService) currentState(tx *gorm.DB, playerID uint) (ratingState, error) {
	var node models.PlayerRatingNode
	err := tx.Where("player_id = ?", playerID).
		Order("id DESC").
		First(&node).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ratingState{
			rating:     s.cfg.Glicko.BaseRating,
			deviation:  s.cfg.Glicko.BaseDeviation,
			volatility: s.cfg.Glicko.BaseVolatility,
		}, nil
	}
	if err != nil {
		return ratingState{}, err
	}

	state := ratingState{
		rating:     node.Rating,
		deviation:  node.RatingDeviation,
		volatility: s.cfg.Glicko.BaseVolatility,
		inactivity: node.InactivityCount,
		ranking:    node.Ranking,
	}
	if node.RatingVolatility != nil {
		state.volatility = *node.RatingVolatility
	}

	return state, nil
}

// CurrentRating returns a player's rating projection from their newest
// rating node, or the base constants for never-rated players.
func (s *RatingService) CurrentRating(playerID uint) (models.PlayerRating, error) {
	var node models.PlayerRatingNode
	err := s.db.Where("player_id = ?", playerID).
		Order("id DESC").
		First(&node).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rating := models.PlayerRating{
			Rating:          s.cfg.Glicko.BaseRating,
			RatingDeviation: s.cfg.Glicko.BaseDeviation,
		}
		if s.algorithm.UsesVolatility() {
			volatility := s.cfg.Glicko.BaseVolatility
			rating.RatingVolatility = &volatility
		}
		return rating, nil
	}
	if err != nil {
		return models.PlayerRating{}, err
	}

	return models.PlayerRating{
		Rating:           node.Rating,
		RatingDeviation:  node.RatingDeviation,
		RatingVolatility: node.RatingVolatility,
		Ranking:          node.Ranking,
		RankingDelta:     node.RankingDelta,
		Inactivity:       node.InactivityCount,
		IsActive:         node.IsActive,
	}, nil
}

// Leaderboard returns the active players of the newest rating period
// ordered by ranking.
func (s *RatingService) Leaderboard() ([]models.PlayerRatingNode, error) {
	var latest models.RatingPeriod
	err := s.db.Order("end_time DESC").First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []models.PlayerRatingNode{}, nil
	}
	if err != nil {
		return nil, err
	}

	var nodes []models.PlayerRatingNode
	result := s.db.Where("rating_period_id = ? AND is_active = ?", latest.ID, true).
		Order("ranking ASC").
		Preload("Player").
		Find(&nodes)

	if result.Error != nil {
		return nil, result.Error
	}

	return nodes, nil
}

// RatingHistory returns a player's full rating chain, newest first.
func (s *RatingService) RatingHistory(playerID uint) ([]models.PlayerRatingNode, error) {
	var nodes []models.PlayerRatingNode

	result := s.db.Where("player_id = ?", playerID).
		Order("id DESC").
		Preload("RatingPeriod").
		Find(&nodes)

	if result.Error != nil {
		return nil, result.Error
	}

	return nodes, nil
}

// ListRatingPeriods returns all rating periods, newest first.
func (s *RatingService) ListRatingPeriods() ([]models.RatingPeriod, error) {
	var periods []models.RatingPeriod

	result := s.db.Order("end_time DESC").Find(&periods)
	if result.Error != nil {
		return nil, result.Error
	}

	return periods, nil
}

func intPtr(v int) *int {
	return &v
}
