package migrations

import "gorm.io/gorm"

func GetMigrations() []MigrationDefinition {
	return []MigrationDefinition{
		{
			Name: "2025_07_12_000000_create_fooskill_tables",
			Up: func(db *gorm.DB) error {
				// Create users and players tables
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS users (
						id BIGSERIAL PRIMARY KEY,
						username VARCHAR(255) NOT NULL UNIQUE,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW()
					);
					CREATE TABLE IF NOT EXISTS players (
						id BIGSERIAL PRIMARY KEY,
						name VARCHAR(255) NOT NULL UNIQUE,
						user_id BIGINT UNIQUE,
						created_at TIMESTAMP DEFAULT NOW(),
						updated_at TIMESTAMP DEFAULT NOW(),
						FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL
					);
				`).Error; err != nil {
					return err
				}

				// Create rating_periods and games tables
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS rating_periods (
						id BIGSERIAL PRIMARY KEY,
						start_time TIMESTAMP NOT NULL,
						end_time TIMESTAMP NOT NULL,
						created_at TIMESTAMP DEFAULT NOW()
					);
					CREATE INDEX IF NOT EXISTS idx_rating_periods_end_time ON rating_periods(end_time);

					CREATE TABLE IF NOT EXISTS games (
						id BIGSERIAL PRIMARY KEY,
						winner_id BIGINT NOT NULL,
						loser_id BIGINT NOT NULL,
						winner_score INT NOT NULL,
						loser_score INT NOT NULL,
						played_at TIMESTAMP NOT NULL,
						submitted_by_id BIGINT NOT NULL,
						rating_period_id BIGINT,
						created_at TIMESTAMP DEFAULT NOW(),
						FOREIGN KEY (winner_id) REFERENCES players(id),
						FOREIGN KEY (loser_id) REFERENCES players(id),
						FOREIGN KEY (submitted_by_id) REFERENCES users(id),
						FOREIGN KEY (rating_period_id) REFERENCES rating_periods(id) ON DELETE SET NULL
					);
					CREATE INDEX IF NOT EXISTS idx_games_winner_id ON games(winner_id);
					CREATE INDEX IF NOT EXISTS idx_games_loser_id ON games(loser_id);
					CREATE INDEX IF NOT EXISTS idx_games_played_at ON games(played_at);
					CREATE INDEX IF NOT EXISTS idx_games_rating_period_id ON games(rating_period_id);
				`).Error; err != nil {
					return err
				}

				// Create stats node tables
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS player_stats_nodes (
						id BIGSERIAL PRIMARY KEY,
						player_id BIGINT NOT NULL,
						game_id BIGINT NOT NULL,
						games INT NOT NULL,
						wins INT NOT NULL,
						losses INT NOT NULL,
						win_rate FLOAT NOT NULL,
						avg_goals_for FLOAT NOT NULL,
						avg_goals_against FLOAT NOT NULL,
						created_at TIMESTAMP DEFAULT NOW(),
						FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE,
						FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE,
						UNIQUE (player_id, game_id)
					);
					CREATE INDEX IF NOT EXISTS idx_player_stats_nodes_player_id ON player_stats_nodes(player_id);

					CREATE TABLE IF NOT EXISTS matchup_stats_nodes (
						id BIGSERIAL PRIMARY KEY,
						player_id BIGINT NOT NULL,
						opponent_id BIGINT NOT NULL,
						game_id BIGINT NOT NULL,
						games INT NOT NULL,
						wins INT NOT NULL,
						losses INT NOT NULL,
						win_rate FLOAT NOT NULL,
						avg_goals_for FLOAT NOT NULL,
						avg_goals_against FLOAT NOT NULL,
						created_at TIMESTAMP DEFAULT NOW(),
						FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE,
						FOREIGN KEY (opponent_id) REFERENCES players(id) ON DELETE CASCADE,
						FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE,
						UNIQUE (player_id, opponent_id, game_id)
					);
					CREATE INDEX IF NOT EXISTS idx_matchup_stats_nodes_pair ON matchup_stats_nodes(player_id, opponent_id);
				`).Error; err != nil {
					return err
				}

				// Create rating node table
				if err := db.Exec(`
					CREATE TABLE IF NOT EXISTS player_rating_nodes (
						id BIGSERIAL PRIMARY KEY,
						player_id BIGINT NOT NULL,
						rating_period_id BIGINT NOT NULL,
						rating FLOAT NOT NULL,
						rating_deviation FLOAT NOT NULL,
						rating_volatility FLOAT,
						inactivity_count INT NOT NULL,
						is_active BOOLEAN NOT NULL,
						ranking INT,
						ranking_delta INT,
						created_at TIMESTAMP DEFAULT NOW(),
						FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE,
						FOREIGN KEY (rating_period_id) REFERENCES rating_periods(id) ON DELETE CASCADE,
						UNIQUE (player_id, rating_period_id)
					);
					CREATE INDEX IF NOT EXISTS idx_player_rating_nodes_player_id ON player_rating_nodes(player_id);
				`).Error; err != nil {
					return err
				}

				return nil
			},
			Down: func(db *gorm.DB) error {
				// Drop tables in reverse order (because of foreign keys)
				for _, table := range []string{
					"player_rating_nodes",
					"matchup_stats_nodes",
					"player_stats_nodes",
					"games",
					"rating_periods",
					"players",
					"users",
				} {
					if err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
