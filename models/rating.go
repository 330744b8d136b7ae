package models

import (
	"time"
)

// RatingPeriod is an immutable, non-overlapping time window. Periods
// are contiguous: the next period starts one microsecond (the store's
// timestamp resolution) after the previous one ends.
type RatingPeriod struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null;index" json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

func (RatingPeriod) TableName() string {
	return "rating_periods"
}

// PlayerRatingNode holds one player's rating state for one rating
// period. Immutable once written; corrections go through a full
// reprocess, never an in-place update.
//
// RatingVolatility is null when computed under classic Glicko. Ranking
// and RankingDelta are null for players inactive during the period.
type PlayerRatingNode struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	PlayerID         uint      `gorm:"not null;uniqueIndex:idx_rating_node_player_period" json:"player_id"`
	RatingPeriodID   uint      `gorm:"not null;uniqueIndex:idx_rating_node_player_period;constraint:OnDelete:CASCADE" json:"rating_period_id"`
	Rating           float64   `gorm:"not null" json:"rating"`
	RatingDeviation  float64   `gorm:"not null" json:"rating_deviation"`
	RatingVolatility *float64  `json:"rating_volatility,omitempty"`
	InactivityCount  int       `gorm:"not null" json:"inactivity"`
	IsActive         bool      `gorm:"not null" json:"is_active"`
	Ranking          *int      `json:"ranking"`
	RankingDelta     *int      `json:"ranking_delta"`
	CreatedAt        time.Time `json:"created_at"`

	// Relationships
	Player       Player       `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	RatingPeriod RatingPeriod `gorm:"foreignKey:RatingPeriodID" json:"rating_period,omitempty"`
}

func (PlayerRatingNode) TableName() string {
	return "player_rating_nodes"
}
