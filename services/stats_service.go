package services

import (
	"errors"
	"fmt"

	"github.com/mwiens91/fooskill/models"

	"gorm.io/gorm"
)

// StatsService maintains the append-only stats snapshot chains. Every
// processed game extends four chains: one per participating player and
// one per direction of the matchup.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{
		db: db,
	}
}

// commonStats are the running totals shared by player and matchup
// nodes.
type commonStats struct {
	Games           int
	Wins            int
	Losses          int
	WinRate         float64
	AvgGoalsFor     float64
	AvgGoalsAgainst float64
}

// newAverage recomputes a running average after one more value.
func newAverage(avg float64, n int, value float64) float64 {
	return (avg*float64(n) + value) / float64(n+1)
}

// advanceStats derives the next chain link from the previous totals
// and one game outcome.
func advanceStats(prev commonStats, won bool, goalsFor, goalsAgainst int) commonStats {
	next := commonStats{
		Games:  prev.Games + 1,
		Wins:   prev.Wins,
		Losses: prev.Losses,
	}

	if won {
		next.Wins++
	} else {
		next.Losses++
	}

	next.WinRate = float64(next.Wins) / float64(next.Games)
	next.AvgGoalsFor = newAverage(prev.AvgGoalsFor, prev.Games, float64(goalsFor))
	next.AvgGoalsAgainst = newAverage(prev.AvgGoalsAgainst, prev.Games, float64(goalsAgainst))

	return next
}

// ProcessGame appends the four stats nodes derived from a game. It is
// idempotent: a perspective that already has a node for this game is
// skipped, so duplicate delivery and reprocessing are safe. Must run
// inside the caller's transaction.
func (s *StatsService) ProcessGame(tx *gorm.DB, game *models.Game) error {
	if err := s.createPlayerNode(tx, game, game.WinnerID); err != nil {
		return fmt.Errorf("winner stats node: %w", err)
	}
	if err := s.createPlayerNode(tx, game, game.LoserID); err != nil {
		return fmt.Errorf("loser stats node: %w", err)
	}
	if err := s.createMatchupNode(tx, game, game.WinnerID, game.LoserID); err != nil {
		return fmt.Errorf("winner matchup node: %w", err)
	}
	if err := s.createMatchupNode(tx, game, game.LoserID, game.WinnerID); err != nil {
		return fmt.Errorf("loser matchup node: %w", err)
	}
	return nil
}

func (s *StatsService) createPlayerNode(tx *gorm.DB, game *models.Game, playerID uint) error {
	var count int64
	if err := tx.Model(&models.PlayerStatsNode{}).
		Where("player_id = ? AND game_id = ?", playerID, game.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		// Already processed for this perspective.
		return nil
	}

	prev := commonStats{}
	var latest models.PlayerStatsNode
	err := tx.Where("player_id = ?", playerID).
		Order("id DESC").
		First(&latest).Error
	if err == nil {
		prev = commonStats{
			Games:           latest.Games,
			Wins:            latest.Wins,
			Losses:          latest.Losses,
			WinRate:         latest.WinRate,
			AvgGoalsFor:     latest.AvgGoalsFor,
			AvgGoalsAgainst: latest.AvgGoalsAgainst,
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	won := game.WinnerID == playerID
	goalsFor, goalsAgainst := game.WinnerScore, game.LoserScore
	if !won {
		goalsFor, goalsAgainst = game.LoserScore, game.WinnerScore
	}

	next := advanceStats(prev, won, goalsFor, goalsAgainst)

	node := models.PlayerStatsNode{
		PlayerID:        playerID,
		GameID:          game.ID,
		Games:           next.Games,
		Wins:            next.Wins,
		Losses:          next.Losses,
		WinRate:         next.WinRate,
		AvgGoalsFor:     next.AvgGoalsFor,
		AvgGoalsAgainst: next.AvgGoalsAgainst,
	}

	return tx.Create(&node).Error
}

func (s *StatsService) createMatchupNode(tx *gorm.DB, game *models.Game, playerID, opponentID uint) error {
	var count int64
	if err := tx.Model(&models.MatchupStatsNode{}).
		Where("player_id = ? AND opponent_id = ? AND game_id = ?", playerID, opponentID, game.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	prev := commonStats{}
	var latest models.MatchupStatsNode
	err := tx.Where("player_id = ? AND opponent_id = ?", playerID, opponentID).
		Order("id DESC").
		First(&latest).Error
	if err == nil {
		prev = commonStats{
			Games:           latest.Games,
			Wins:            latest.Wins,
			Losses:          latest.Losses,
			WinRate:         latest.WinRate,
			AvgGoalsFor:     latest.AvgGoalsFor,
			AvgGoalsAgainst: latest.AvgGoalsAgainst,
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	won := game.WinnerID == playerID
	goalsFor, goalsAgainst := game.WinnerScore, game.LoserScore
	if !won {
		goalsFor, goalsAgainst = game.LoserScore, game.WinnerScore
	}

	next := advanceStats(prev, won, goalsFor, goalsAgainst)

	node := models.MatchupStatsNode{
		PlayerID:        playerID,
		OpponentID:      opponentID,
		GameID:          game.ID,
		Games:           next.Games,
		Wins:            next.Wins,
		Losses:          next.Losses,
		WinRate:         next.WinRate,
		AvgGoalsFor:     next.AvgGoalsFor,
		AvgGoalsAgainst: next.AvgGoalsAgainst,
	}

	return tx.Create(&node).Error
}

// CurrentStats returns a player's stats as of their newest node, or
// the zero state if they have never played.
func (s *StatsService) CurrentStats(playerID uint) (models.PlayerStats, error) {
	var node models.PlayerStatsNode
	err := s.db.Where("player_id = ?", playerID).
		Order("id DESC").
		First(&node).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PlayerStats{}, nil
	}
	if err != nil {
		return models.PlayerStats{}, err
	}

	return models.PlayerStats{
		Games:           node.Games,
		Wins:            node.Wins,
		Losses:          node.Losses,
		WinRate:         node.WinRate,
		AvgGoalsFor:     node.AvgGoalsFor,
		AvgGoalsAgainst: node.AvgGoalsAgainst,
	}, nil
}

// CurrentMatchupStats returns a player's stats against one opponent as
// of their newest matchup node, or the zero state.
func (s *StatsService) CurrentMatchupStats(playerID, opponentID uint) (models.PlayerStats, error) {
	var node models.MatchupStatsNode
	err := s.db.Where("player_id = ? AND opponent_id = ?", playerID, opponentID).
		Order("id DESC").
		First(&node).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PlayerStats{}, nil
	}
	if err != nil {
		return models.PlayerStats{}, err
	}

	return models.PlayerStats{
		Games:           node.Games,
		Wins:            node.Wins,
		Losses:          node.Losses,
		WinRate:         node.WinRate,
		AvgGoalsFor:     node.AvgGoalsFor,
		AvgGoalsAgainst: node.AvgGoalsAgainst,
	}, nil
}

// StatsHistory returns a player's full stats chain, newest first.
func (s *StatsService) StatsHistory(playerID uint) ([]models.PlayerStatsNode, error) {
	var nodes []models.PlayerStatsNode

	result := s.db.Where("player_id = ?", playerID).
		Order("id DESC").
		Preload("Game").
		Find(&nodes)

	if result.Error != nil {
		return nil, result.Error
	}

	return nodes, nil
}

// MatchupHistory returns a matchup's full stats chain from one
// player's perspective, newest first.
func (s *StatsService) MatchupHistory(playerID, opponentID uint) ([]models.MatchupStatsNode, error) {
	var nodes []models.MatchupStatsNode

	result := s.db.Where("player_id = ? AND opponent_id = ?", playerID, opponentID).
		Order("id DESC").
		Preload("Game").
		Find(&nodes)

	if result.Error != nil {
		return nil, result.Error
	}

	return nodes, nil
}
