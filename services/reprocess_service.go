package services

import (
	"log"

	"github.com/mwiens91/fooskill/models"

	"gorm.io/gorm"
)

// ReprocessService rebuilds either derived artifact family from the
// complete game log. Both operations are destructive and synchronous
// and expect no concurrent writers.
type ReprocessService struct {
	db            *gorm.DB
	statsService  *StatsService
	ratingService *RatingService
}

func NewReprocessService(db *gorm.DB, statsService *StatsService, ratingService *RatingService) *ReprocessService {
	return &ReprocessService{
		db:            db,
		statsService:  statsService,
		ratingService: ratingService,
	}
}

// ReprocessStats wipes every player and matchup stats node and replays
// the full game log, oldest game first, through the chain builder.
// When resetIDs is set, the node ID sequences restart at 1 (postgres
// only).
func (s *ReprocessService) ReprocessStats(resetIDs bool) error {
	log.Println("Reprocessing all stats nodes...")

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("DELETE FROM player_stats_nodes").Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Exec("DELETE FROM matchup_stats_nodes").Error; err != nil {
		tx.Rollback()
		return err
	}

	if resetIDs {
		if err := tx.Exec("ALTER SEQUENCE player_stats_nodes_id_seq RESTART WITH 1").Error; err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Exec("ALTER SEQUENCE matchup_stats_nodes_id_seq RESTART WITH 1").Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	var games []models.Game
	if err := tx.Order("played_at ASC").Find(&games).Error; err != nil {
		tx.Rollback()
		return err
	}

	for i := range games {
		if err := s.statsService.ProcessGame(tx, &games[i]); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	log.Printf("Reprocessed stats for %d games", len(games))
	return nil
}

// ReprocessRatings wipes every rating period and rating node, clears
// the period stamp from every game and re-runs the period scheduler
// from scratch; it self-detects the empty state and starts from the
// earliest game. When resetIDs is set, the ID sequences restart at 1
// (postgres only).
func (s *ReprocessService) ReprocessRatings(resetIDs bool) error {
	log.Println("Reprocessing all rating periods...")

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("DELETE FROM player_rating_nodes").Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Model(&models.Game{}).
		Where("rating_period_id IS NOT NULL").
		Update("rating_period_id", nil).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Exec("DELETE FROM rating_periods").Error; err != nil {
		tx.Rollback()
		return err
	}

	if resetIDs {
		if err := tx.Exec("ALTER SEQUENCE player_rating_nodes_id_seq RESTART WITH 1").Error; err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Exec("ALTER SEQUENCE rating_periods_id_seq RESTART WITH 1").Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	return s.ratingService.ProcessPendingPeriods()
}
