package services

import (
	"errors"
	"time"

	"github.com/mwiens91/fooskill/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSamePlayer      = errors.New("winner and loser must be distinct")
	ErrScoreNotWinning = errors.New("winner score must be greater than loser score")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrUserNotFound    = errors.New("submitting user not found")
)

// GameService records game results and synchronously extends the
// stats chains for both participants.
type GameService struct {
	db           *gorm.DB
	statsService *StatsService
}

func NewGameService(db *gorm.DB, statsService *StatsService) *GameService {
	return &GameService{
		db:           db,
		statsService: statsService,
	}
}

// SubmitGame validates and stores a game result, then appends the four
// stats nodes in the same transaction. Validation failures leave no
// state behind.
func (s *GameService) SubmitGame(req models.CreateGameRequest) (*models.Game, error) {
	if req.WinnerID == req.LoserID {
		return nil, ErrSamePlayer
	}
	if req.WinnerScore <= req.LoserScore {
		return nil, ErrScoreNotWinning
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Lock both player rows for the duration of the transaction so two
	// concurrent submissions for the same player (or the same matchup)
	// serialize on the latest-node read. Locked in ID order to avoid
	// deadlocks; sqlite has no row locks and serializes on the file.
	firstID, secondID := req.WinnerID, req.LoserID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var first, second models.Player
	if err := q.First(&first, firstID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	if err := q.First(&second, secondID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	var submitter models.User
	if err := tx.First(&submitter, req.SubmittedByID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	playedAt := time.Now()
	if req.PlayedAt != nil {
		playedAt = *req.PlayedAt
	}

	game := models.Game{
		WinnerID:      req.WinnerID,
		LoserID:       req.LoserID,
		WinnerScore:   req.WinnerScore,
		LoserScore:    req.LoserScore,
		PlayedAt:      playedAt,
		SubmittedByID: req.SubmittedByID,
	}

	if err := tx.Create(&game).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.statsService.ProcessGame(tx, &game); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	// Load the created game with relationships
	if err := s.db.Preload("Winner").Preload("Loser").Preload("SubmittedBy").First(&game, game.ID).Error; err != nil {
		return nil, err
	}

	return &game, nil
}

// GetRecentGames returns the most recently played games.
func (s *GameService) GetRecentGames(limit int) ([]models.Game, error) {
	var games []models.Game

	result := s.db.Order("played_at DESC").
		Limit(limit).
		Preload("Winner").
		Preload("Loser").
		Find(&games)

	if result.Error != nil {
		return nil, result.Error
	}

	return games, nil
}

// GetGames returns a page of games, newest first.
func (s *GameService) GetGames(page int, pageSize int) (*models.PaginatedGamesResponse, error) {
	var games []models.Game
	var total int64

	if err := s.db.Model(&models.Game{}).Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize

	if err := s.db.Order("played_at DESC").
		Preload("Winner").
		Preload("Loser").
		Offset(offset).
		Limit(pageSize).
		Find(&games).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &models.PaginatedGamesResponse{
		Data:       games,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
