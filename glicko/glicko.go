// Package glicko implements the Glicko and Glicko-2 skill rating
// systems. See http://www.glicko.net/glicko/glicko2.pdf for the
// Glicko-2 algorithm details.
package glicko

import (
	"errors"
	"fmt"
)

var (
	// ErrMismatchedInputs is returned when the opponent rating,
	// opponent deviation and score slices have different lengths.
	ErrMismatchedInputs = errors.New("opponent and score slices must have equal length")

	// ErrNoConvergence is returned when the volatility iteration fails
	// to converge within the iteration bound. An approximate value is
	// never returned.
	ErrNoConvergence = errors.New("volatility iteration failed to converge")
)

// Config holds the customizable rating system parameters. Base values
// seed players that have never been rated.
type Config struct {
	BaseRating           float64
	BaseDeviation        float64
	BaseVolatility       float64
	Tau                  float64
	ConvergenceTolerance float64
}

// DefaultConfig returns the standard Glicko-2 parameters.
func DefaultConfig() Config {
	return Config{
		BaseRating:           1500,
		BaseDeviation:        350,
		BaseVolatility:       0.06,
		Tau:                  0.5,
		ConvergenceTolerance: 1e-6,
	}
}

// Result is a player's updated rating triple on the native scale.
type Result struct {
	Rating     float64
	Deviation  float64
	Volatility float64
}

// Algorithm computes a player's new rating from one rating period's
// worth of game outcomes. Index i of the opponent and score slices
// describes game i: the opponent's rating and deviation as of the
// start of the period, and the outcome score (1.0 for a win by the
// player, 0.0 for a loss). Empty slices mean the player had no games
// this period, which only grows the rating deviation.
type Algorithm interface {
	Rate(rating, deviation, volatility float64, opponentRatings, opponentDeviations, scores []float64) (Result, error)

	// UsesVolatility reports whether the algorithm tracks rating
	// volatility. Classic Glicko does not.
	UsesVolatility() bool
}

// ForName returns the algorithm selected by the given configuration
// name, either "glicko2" or "glicko".
func ForName(name string, cfg Config) (Algorithm, error) {
	switch name {
	case "glicko2":
		return NewGlicko2(cfg), nil
	case "glicko":
		return NewClassic(cfg), nil
	default:
		return nil, fmt.Errorf("unknown rating algorithm %q", name)
	}
}
