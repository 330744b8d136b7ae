package glicko

import (
	"math"
)

// scaleFactor converts between the native rating scale and the
// internal Glicko-2 (mu, phi) scale.
const scaleFactor = 173.7178

// maxIterations bounds the volatility root search. In practice the
// Illinois iteration converges in well under twenty steps.
const maxIterations = 100

// Glicko2 implements the Glicko-2 rating system.
type Glicko2 struct {
	cfg Config
}

func NewGlicko2(cfg Config) *Glicko2 {
	return &Glicko2{cfg: cfg}
}

func (a *Glicko2) UsesVolatility() bool {
	return true
}

// g weights an opponent's result by their rating deviation.
func g(phi float64) float64 {
	return 1 / math.Sqrt(1+3*phi*phi/(math.Pi*math.Pi))
}

// e is the expected score against an opponent with rating muJ and
// deviation phiJ.
func e(mu, muJ, phiJ float64) float64 {
	return 1 / (1 + math.Exp(-g(phiJ)*(mu-muJ)))
}

// Rate runs one rating-period update for a player.
func (a *Glicko2) Rate(rating, deviation, volatility float64, opponentRatings, opponentDeviations, scores []float64) (Result, error) {
	if len(opponentRatings) != len(opponentDeviations) || len(opponentRatings) != len(scores) {
		return Result{}, ErrMismatchedInputs
	}

	// Convert to the internal scale.
	mu := (rating - a.cfg.BaseRating) / scaleFactor
	phi := deviation / scaleFactor

	// No games this period: the deviation grows with the volatility,
	// rating and volatility stay put.
	if len(opponentRatings) == 0 {
		phiStar := math.Sqrt(phi*phi + volatility*volatility)
		return Result{
			Rating:     rating,
			Deviation:  phiStar * scaleFactor,
			Volatility: volatility,
		}, nil
	}

	// Estimated variance v and rating improvement delta.
	var vInv, outcomeSum float64
	for j := range opponentRatings {
		muJ := (opponentRatings[j] - a.cfg.BaseRating) / scaleFactor
		phiJ := opponentDeviations[j] / scaleFactor
		gJ := g(phiJ)
		eJ := e(mu, muJ, phiJ)

		vInv += gJ * gJ * eJ * (1 - eJ)
		outcomeSum += gJ * (scores[j] - eJ)
	}
	v := 1 / vInv
	delta := v * outcomeSum

	sigmaPrime, err := a.solveVolatility(delta, phi, v, volatility)
	if err != nil {
		return Result{}, err
	}

	phiStar := math.Sqrt(phi*phi + sigmaPrime*sigmaPrime)
	phiPrime := 1 / math.Sqrt(1/(phiStar*phiStar)+1/v)
	muPrime := mu + phiPrime*phiPrime*outcomeSum

	return Result{
		Rating:     muPrime*scaleFactor + a.cfg.BaseRating,
		Deviation:  phiPrime * scaleFactor,
		Volatility: sigmaPrime,
	}, nil
}

// solveVolatility finds the new volatility by locating the root of the
// Glicko-2 f function on the log-variance scale, using the
// secant-with-bisection (Illinois) scheme from the paper.
func (a *Glicko2) solveVolatility(delta, phi, v, sigma float64) (float64, error) {
	tau := a.cfg.Tau
	lnSigmaSq := math.Log(sigma * sigma)

	f := func(x float64) float64 {
		ex := math.Exp(x)
		return ex*(delta*delta-phi*phi-v-ex)/(2*(phi*phi+v+ex)*(phi*phi+v+ex)) -
			(x-lnSigmaSq)/(tau*tau)
	}

	// Bracket the root. The lower end is ln(sigma^2); the upper end is
	// ln(delta^2 - phi^2 - v) when that argument is positive, otherwise
	// found by stepping downward in units of tau until f changes sign.
	lower := lnSigmaSq
	var upper float64
	if delta*delta > phi*phi+v {
		upper = math.Log(delta*delta - phi*phi - v)
	} else {
		k := 1.0
		for f(lnSigmaSq-k*tau) < 0 {
			k++
			if k > maxIterations {
				return 0, ErrNoConvergence
			}
		}
		upper = lnSigmaSq - k*tau
	}

	fLower := f(lower)
	fUpper := f(upper)

	for i := 0; math.Abs(upper-lower) > a.cfg.ConvergenceTolerance; i++ {
		if i >= maxIterations {
			return 0, ErrNoConvergence
		}

		mid := lower + (lower-upper)*fLower/(fUpper-fLower)
		fMid := f(mid)

		if fMid*fUpper <= 0 {
			lower = upper
			fLower = fUpper
		} else {
			// Illinois modification: halve the retained endpoint's
			// function value to guarantee convergence.
			fLower /= 2
		}

		upper = mid
		fUpper = fMid
	}

	return math.Exp(lower / 2), nil
}
