package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mwiens91/fooskill/app"
	"github.com/mwiens91/fooskill/config"

	"github.com/joho/godotenv"
)

// Batch maintenance entry point: close pending rating periods, or
// destructively rebuild the derived stats/rating history from the game
// log. The rebuilds expect no concurrent writers.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	resetIDs := flag.Bool("reset-ids", false, "restart ID sequences at 1 when rebuilding")
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		return
	}

	config.ConnectDatabase()

	module, err := app.NewModule(config.DB, config.LoadRatingConfig())
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	switch flag.Arg(0) {
	case "ratings":
		if err := module.RatingService.ProcessPendingPeriods(); err != nil {
			log.Fatalf("Rating period processing failed: %v", err)
		}
	case "rebuild-stats":
		if err := module.ReprocessService.ReprocessStats(*resetIDs); err != nil {
			log.Fatalf("Stats rebuild failed: %v", err)
		}
	case "rebuild-ratings":
		if err := module.ReprocessService.ReprocessRatings(*resetIDs); err != nil {
			log.Fatalf("Ratings rebuild failed: %v", err)
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: reprocess [-reset-ids] <command>")
	fmt.Println("Commands:")
	fmt.Println("  ratings           Close any pending rating periods")
	fmt.Println("  rebuild-stats     Wipe and rebuild all stats chains from the game log")
	fmt.Println("  rebuild-ratings   Wipe and rebuild the full rating history from the game log")
}
