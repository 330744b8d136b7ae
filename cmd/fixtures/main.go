package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mwiens91/fooskill/app"
	"github.com/mwiens91/fooskill/config"
	"github.com/mwiens91/fooskill/fixtures"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.ConnectDatabase()

	module, err := app.NewModule(config.DB, config.LoadRatingConfig())
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	fixtureManager := fixtures.NewFixtures(config.DB, module.GameService, module.RatingService)

	if len(os.Args) < 2 {
		printUsage()
		return
	}

	switch os.Args[1] {
	case "generate":
		if err := fixtureManager.GenerateTestData(); err != nil {
			log.Fatalf("Fixtures generation failed: %v", err)
		}
	case "clear":
		if err := fixtureManager.Clear(); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage: fixtures <command>")
	fmt.Println("Commands:")
	fmt.Println("  generate   Create test players and a month of games")
	fmt.Println("  clear      Wipe all data")
}
