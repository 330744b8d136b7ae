package models

import (
	"time"
)

// Game is the source fact everything else is derived from. A game is
// immutable once created, except for RatingPeriodID which is stamped
// exactly once when a rating period absorbs the game.
type Game struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	WinnerID       uint      `gorm:"not null;index" json:"winner_id"`
	LoserID        uint      `gorm:"not null;index" json:"loser_id"`
	WinnerScore    int       `gorm:"not null" json:"winner_score"`
	LoserScore     int       `gorm:"not null" json:"loser_score"`
	PlayedAt       time.Time `gorm:"not null;index" json:"played_at"`
	SubmittedByID  uint      `gorm:"not null" json:"submitted_by_id"`
	RatingPeriodID *uint     `gorm:"index" json:"rating_period_id"`
	CreatedAt      time.Time `json:"created_at"`

	// Relationships
	Winner       Player        `gorm:"foreignKey:WinnerID" json:"winner,omitempty"`
	Loser        Player        `gorm:"foreignKey:LoserID" json:"loser,omitempty"`
	SubmittedBy  User          `gorm:"foreignKey:SubmittedByID" json:"submitted_by,omitempty"`
	RatingPeriod *RatingPeriod `gorm:"foreignKey:RatingPeriodID" json:"rating_period,omitempty"`
}

func (Game) TableName() string {
	return "games"
}

type CreateGameRequest struct {
	WinnerID      uint       `json:"winner_id" binding:"required"`
	LoserID       uint       `json:"loser_id" binding:"required"`
	WinnerScore   int        `json:"winner_score" binding:"required"`
	LoserScore    int        `json:"loser_score"`
	PlayedAt      *time.Time `json:"played_at"`
	SubmittedByID uint       `json:"submitted_by_id" binding:"required"`
}

type PaginatedGamesResponse struct {
	Data       []Game `json:"data"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}
