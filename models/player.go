package models

import (
	"time"
)

// Player holds identity only. Ratings and stats are never stored on the
// player row; they are read from the newest rating/stats node, falling
// back to the configured base values when no node exists yet.
type Player struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	UserID    *uint     `gorm:"uniqueIndex" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Player) TableName() string {
	return "players"
}

type CreatePlayerRequest struct {
	Name   string `json:"name" binding:"required"`
	UserID *uint  `json:"user_id"`
}

// PlayerRating is the computed rating projection for a player, taken
// from their newest rating node. RatingVolatility is null when the
// configured algorithm is classic Glicko; Ranking and RankingDelta are
// null for players that have never been ranked.
type PlayerRating struct {
	Rating           float64  `json:"rating"`
	RatingDeviation  float64  `json:"rating_deviation"`
	RatingVolatility *float64 `json:"rating_volatility,omitempty"`
	Ranking          *int     `json:"ranking"`
	RankingDelta     *int     `json:"ranking_delta"`
	Inactivity       int      `json:"inactivity"`
	IsActive         bool     `json:"is_active"`
}

// PlayerStats is the computed stats projection for a player or a
// matchup, taken from the newest stats node.
type PlayerStats struct {
	Games           int     `json:"games"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	WinRate         float64 `json:"win_rate"`
	AvgGoalsFor     float64 `json:"avg_goals_for"`
	AvgGoalsAgainst float64 `json:"avg_goals_against"`
}

// PlayerDetail is the full player payload returned by the API.
type PlayerDetail struct {
	Player
	PlayerRating
	PlayerStats
}

type PaginatedPlayersResponse struct {
	Data       []Player `json:"data"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalPages int      `json:"totalPages"`
}
