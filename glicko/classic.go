package glicko

import (
	"math"
)

const q = math.Ln10 / 400

// deviationGrowth is the classic Glicko c constant controlling how
// fast the rating deviation of an idle player drifts back toward the
// base deviation (Glickman's example value).
const deviationGrowth = 63.2

// Classic implements the original Glicko rating system. It carries no
// volatility; the Volatility field of its results echoes the input and
// is ignored by callers.
type Classic struct {
	cfg Config
}

func NewClassic(cfg Config) *Classic {
	return &Classic{cfg: cfg}
}

func (a *Classic) UsesVolatility() bool {
	return false
}

func gClassic(rd float64) float64 {
	return 1 / math.Sqrt(1+3*q*q*rd*rd/(math.Pi*math.Pi))
}

func eClassic(r, rJ, rdJ float64) float64 {
	return 1 / (1 + math.Pow(10, -gClassic(rdJ)*(r-rJ)/400))
}

// Rate runs one rating-period update for a player.
func (a *Classic) Rate(rating, deviation, volatility float64, opponentRatings, opponentDeviations, scores []float64) (Result, error) {
	if len(opponentRatings) != len(opponentDeviations) || len(opponentRatings) != len(scores) {
		return Result{}, ErrMismatchedInputs
	}

	// No games: deviation drifts upward, capped at the base deviation.
	if len(opponentRatings) == 0 {
		rd := math.Sqrt(deviation*deviation + deviationGrowth*deviationGrowth)
		if rd > a.cfg.BaseDeviation {
			rd = a.cfg.BaseDeviation
		}
		return Result{Rating: rating, Deviation: rd, Volatility: volatility}, nil
	}

	var dSqInv, outcomeSum float64
	for j := range opponentRatings {
		gJ := gClassic(opponentDeviations[j])
		eJ := eClassic(rating, opponentRatings[j], opponentDeviations[j])

		dSqInv += q * q * gJ * gJ * eJ * (1 - eJ)
		outcomeSum += gJ * (scores[j] - eJ)
	}

	denom := 1/(deviation*deviation) + dSqInv
	newRating := rating + q/denom*outcomeSum
	newDeviation := math.Sqrt(1 / denom)

	return Result{Rating: newRating, Deviation: newDeviation, Volatility: volatility}, nil
}
