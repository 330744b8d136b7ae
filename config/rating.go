package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/mwiens91/fooskill/glicko"
)

// RatingConfig collects every tunable of the rating engine. Values are
// read from the environment with the same names the original
// deployment used; anything unset falls back to the standard Glicko-2
// defaults.
type RatingConfig struct {
	Glicko glicko.Config

	// Algorithm selects the solver at configuration time, either
	// "glicko2" or "glicko".
	Algorithm string

	// PeriodLength is the fixed length of one rating period.
	PeriodLength time.Duration

	// InactivityThreshold is the number of consecutive gameless rating
	// periods after which a player stops being ranked.
	InactivityThreshold int
}

// LoadRatingConfig reads the rating engine configuration from the
// environment.
func LoadRatingConfig() RatingConfig {
	periodDays := getEnvFloat("GLICKO2_RATING_PERIOD_DAYS", 1)

	return RatingConfig{
		Glicko: glicko.Config{
			BaseRating:           getEnvFloat("GLICKO2_BASE_RATING", 1500),
			BaseDeviation:        getEnvFloat("GLICKO2_BASE_RD", 350),
			BaseVolatility:       getEnvFloat("GLICKO2_BASE_VOLATILITY", 0.06),
			Tau:                  getEnvFloat("GLICKO2_SYSTEM_CONSTANT", 0.5),
			ConvergenceTolerance: getEnvFloat("GLICKO2_CONVERGENCE_TOLERANCE", 1e-6),
		},
		Algorithm:           getEnv("RATING_ALGORITHM", "glicko2"),
		PeriodLength:        time.Duration(periodDays * float64(24*time.Hour)),
		InactivityThreshold: getEnvInt("INACTIVITY_THRESHOLD", 3),
	}
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Invalid value for %s, using default %v", key, fallback)
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s, using default %v", key, fallback)
		return fallback
	}
	return parsed
}
