package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/mwiens91/fooskill/config"
	"github.com/mwiens91/fooskill/migrations"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.ConnectDatabase()
	migrator := migrations.NewMigrator(config.DB)

	for _, migration := range migrations.GetMigrations() {
		migrator.AddMigration(migration)
	}

	if len(os.Args) < 2 {
		printUsage()
		return
	}

	switch os.Args[1] {
	case "up":
		if err := migrator.Migrate(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			parsed, err := strconv.Atoi(os.Args[2])
			if err != nil {
				log.Fatalf("Invalid number of steps: %s", os.Args[2])
			}
			steps = parsed
		}
		if err := migrator.Rollback(steps); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage: migrate <command>")
	fmt.Println("Commands:")
	fmt.Println("  up           Run all pending migrations")
	fmt.Println("  down [n]     Roll back the last n batches (default: 1)")
}
