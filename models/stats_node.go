package models

import (
	"time"
)

// PlayerStatsNode is one link in a player's append-only stats chain.
// Exactly one node exists per (player, game) pair the player took part
// in, and each node is derived from the previous node plus that game.
// Nodes are never updated after creation.
type PlayerStatsNode struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PlayerID        uint      `gorm:"not null;uniqueIndex:idx_player_stats_player_game" json:"player_id"`
	GameID          uint      `gorm:"not null;uniqueIndex:idx_player_stats_player_game" json:"game_id"`
	Games           int       `gorm:"not null" json:"games"`
	Wins            int       `gorm:"not null" json:"wins"`
	Losses          int       `gorm:"not null" json:"losses"`
	WinRate         float64   `gorm:"not null" json:"win_rate"`
	AvgGoalsFor     float64   `gorm:"not null" json:"avg_goals_for"`
	AvgGoalsAgainst float64   `gorm:"not null" json:"avg_goals_against"`
	CreatedAt       time.Time `json:"created_at"`

	// Relationships
	Player Player `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	Game   Game   `gorm:"foreignKey:GameID" json:"game,omitempty"`
}

func (PlayerStatsNode) TableName() string {
	return "player_stats_nodes"
}

// MatchupStatsNode is the matchup equivalent of PlayerStatsNode, keyed
// by an ordered (player, opponent) pair. Two nodes are created per
// game, one from each player's perspective, each chained independently.
type MatchupStatsNode struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PlayerID        uint      `gorm:"not null;uniqueIndex:idx_matchup_stats_pair_game" json:"player_id"`
	OpponentID      uint      `gorm:"not null;uniqueIndex:idx_matchup_stats_pair_game" json:"opponent_id"`
	GameID          uint      `gorm:"not null;uniqueIndex:idx_matchup_stats_pair_game" json:"game_id"`
	Games           int       `gorm:"not null" json:"games"`
	Wins            int       `gorm:"not null" json:"wins"`
	Losses          int       `gorm:"not null" json:"losses"`
	WinRate         float64   `gorm:"not null" json:"win_rate"`
	AvgGoalsFor     float64   `gorm:"not null" json:"avg_goals_for"`
	AvgGoalsAgainst float64   `gorm:"not null" json:"avg_goals_against"`
	CreatedAt       time.Time `json:"created_at"`

	// Relationships
	Player   Player `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	Opponent Player `gorm:"foreignKey:OpponentID" json:"opponent,omitempty"`
	Game     Game   `gorm:"foreignKey:GameID" json:"game,omitempty"`
}

func (MatchupStatsNode) TableName() string {
	return "matchup_stats_nodes"
}
