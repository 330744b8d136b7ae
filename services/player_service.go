package services

import (
	"errors"

	"github.com/mwiens91/fooskill/models"

	"gorm.io/gorm"
)

type PlayerService struct {
	db            *gorm.DB
	statsService  *StatsService
	ratingService *RatingService
}

func NewPlayerService(db *gorm.DB, statsService *StatsService, ratingService *RatingService) *PlayerService {
	return &PlayerService{
		db:            db,
		statsService:  statsService,
		ratingService: ratingService,
	}
}

func (s *PlayerService) GetPlayerByID(id uint) (*models.Player, error) {
	var player models.Player

	result := s.db.Preload("User").First(&player, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, result.Error
	}

	return &player, nil
}

func (s *PlayerService) CreatePlayer(req models.CreatePlayerRequest) (*models.Player, error) {
	player := &models.Player{
		Name:   req.Name,
		UserID: req.UserID,
	}

	result := s.db.Create(player)
	if result.Error != nil {
		return nil, result.Error
	}

	return player, nil
}

// GetPlayerDetail combines a player's identity with their computed
// rating and stats projections.
func (s *PlayerService) GetPlayerDetail(id uint) (*models.PlayerDetail, error) {
	player, err := s.GetPlayerByID(id)
	if err != nil {
		return nil, err
	}

	rating, err := s.ratingService.CurrentRating(id)
	if err != nil {
		return nil, err
	}

	stats, err := s.statsService.CurrentStats(id)
	if err != nil {
		return nil, err
	}

	return &models.PlayerDetail{
		Player:       *player,
		PlayerRating: rating,
		PlayerStats:  stats,
	}, nil
}

func (s *PlayerService) GetAllPlayers(page int, pageSize int) (*models.PaginatedPlayersResponse, error) {
	var players []models.Player
	var total int64

	if err := s.db.Model(&models.Player{}).Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize

	if err := s.db.Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&players).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &models.PaginatedPlayersResponse{
		Data:       players,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
