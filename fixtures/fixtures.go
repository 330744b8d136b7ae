package fixtures

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/mwiens91/fooskill/models"
	"github.com/mwiens91/fooskill/services"

	"gorm.io/gorm"
)

type Fixtures struct {
	db            *gorm.DB
	gameService   *services.GameService
	ratingService *services.RatingService
}

func NewFixtures(db *gorm.DB, gameService *services.GameService, ratingService *services.RatingService) *Fixtures {
	return &Fixtures{
		db:            db,
		gameService:   gameService,
		ratingService: ratingService,
	}
}

var playerNames = []string{
	"Alice", "Bob", "Charlie", "Diana", "Edgar", "Fatima",
	"Gustav", "Hannah", "Igor", "Julia", "Karim", "Lena",
}

// GenerateTestData creates players and a month of games, then closes
// every elapsed rating period so the leaderboard is populated.
func (f *Fixtures) GenerateTestData() error {
	log.Println("Starting fixtures generation...")

	submitter := models.User{Username: "fixtures"}
	if err := f.db.Create(&submitter).Error; err != nil {
		return fmt.Errorf("failed to create fixtures user: %w", err)
	}

	players := make([]models.Player, 0, len(playerNames))
	for _, name := range playerNames {
		player := models.Player{Name: name}
		if err := f.db.Create(&player).Error; err != nil {
			return fmt.Errorf("failed to create player %s: %w", name, err)
		}
		players = append(players, player)
	}
	log.Printf("Created %d players", len(players))

	// Games spread over the last 30 days, submitted in play order so
	// the stats chains build up the same way they would live.
	const gameCount = 200
	start := time.Now().AddDate(0, 0, -30)

	for i := 0; i < gameCount; i++ {
		a := rand.Intn(len(players))
		b := rand.Intn(len(players) - 1)
		if b >= a {
			b++
		}

		winnerScore := 10
		loserScore := rand.Intn(10)
		playedAt := start.Add(time.Duration(i) * (30 * 24 * time.Hour / gameCount))

		_, err := f.gameService.SubmitGame(models.CreateGameRequest{
			WinnerID:      players[a].ID,
			LoserID:       players[b].ID,
			WinnerScore:   winnerScore,
			LoserScore:    loserScore,
			PlayedAt:      &playedAt,
			SubmittedByID: submitter.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to submit game %d: %w", i, err)
		}
	}
	log.Printf("Submitted %d games", gameCount)

	if err := f.ratingService.ProcessPendingPeriods(); err != nil {
		return fmt.Errorf("failed to process rating periods: %w", err)
	}
	log.Println("Fixtures generation complete")

	return nil
}

// Clear wipes all fixture data, derived artifacts first.
func (f *Fixtures) Clear() error {
	log.Println("Clearing all data...")

	for _, table := range []string{
		"player_rating_nodes",
		"matchup_stats_nodes",
		"player_stats_nodes",
		"games",
		"rating_periods",
		"players",
		"users",
	} {
		if err := f.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	log.Println("All data cleared")
	return nil
}
