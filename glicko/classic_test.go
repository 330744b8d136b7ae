package glicko

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The worked example from Glickman's original Glicko paper, same
// opponents and outcomes as the Glicko-2 example.
func TestClassicPaperExample(t *testing.T) {
	a := NewClassic(DefaultConfig())

	result, err := a.Rate(
		1500, 200, 0,
		[]float64{1400, 1550, 1700},
		[]float64{30, 100, 300},
		[]float64{1, 0, 0},
	)
	require.NoError(t, err)

	assert.InDelta(t, 1464.1, result.Rating, 0.1)
	assert.InDelta(t, 151.4, result.Deviation, 0.1)
}

func TestClassicNoGamesDeviationCapped(t *testing.T) {
	a := NewClassic(DefaultConfig())

	// Well below the cap: the deviation drifts up by the growth
	// constant.
	result, err := a.Rate(1500, 100, 0, nil, nil, nil)
	require.NoError(t, err)
	assert.Greater(t, result.Deviation, 100.0)
	assert.Less(t, result.Deviation, 350.0)
	assert.Equal(t, 1500.0, result.Rating)

	// Near the cap: the drift never exceeds the base deviation.
	result, err = a.Rate(1500, 345, 0, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 350.0, result.Deviation)
}

func TestClassicMismatchedInputs(t *testing.T) {
	a := NewClassic(DefaultConfig())

	_, err := a.Rate(1500, 200, 0, []float64{1400, 1500}, []float64{30}, []float64{1})
	assert.ErrorIs(t, err, ErrMismatchedInputs)
}
