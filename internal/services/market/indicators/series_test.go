package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMASeries(t *testing.T) {
	out := SMASeries([]float64{1, 2, 3, 4}, 2)
	require.Len(t, out, 4)
	assert.True(t, math.IsNaN(out[0]))
	assert.InDelta(t, 1.5, out[1], 1e-9)
	assert.InDelta(t, 2.5, out[2], 1e-9)
	assert.InDelta(t, 3.5, out[3], 1e-9)
}

func TestSMASeriesPoisonedWindow(t *testing.T) {
	out := SMASeries([]float64{1, math.NaN(), 3, 4}, 2)
	assert.True(t, math.IsNaN(out[1]))
	assert.True(t, math.IsNaN(out[2]))
	assert.InDelta(t, 3.5, out[3], 1e-9)
}

func TestRSISeriesWarmupPrefix(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i%5)
	}

	out := RSISeries(closes, 14)
	for i := 0; i < 14; i++ {
		assert.True(t, math.IsNaN(out[i]), "index %d should be undefined", i)
	}
	for i := 14; i < len(out); i++ {
		assert.False(t, math.IsNaN(out[i]), "index %d should be defined", i)
		assert.GreaterOrEqual(t, out[i], 0.0)
		assert.LessOrEqual(t, out[i], 100.0)
	}
}

func TestRSISeriesClamps(t *testing.T) {
	rising := make([]float64, 20)
	falling := make([]float64, 20)
	for i := range rising {
		rising[i] = 100 + float64(i)
		falling[i] = 100 - float64(i)
	}

	up := RSISeries(rising, 14)
	assert.InDelta(t, 100, up[len(up)-1], 1e-9, "zero-loss window clamps to 100")

	down := RSISeries(falling, 14)
	assert.InDelta(t, 0, down[len(down)-1], 1e-9, "zero-gain window clamps to 0")
}

func TestStochRSISeriesFlatWindow(t *testing.T) {
	// Constant closes keep RSI pinned, so every stochastic window is flat
	// and resolves to the neutral 50.
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 250
	}

	k, d := StochRSISeries(closes, 5, 3, 3)
	last := len(closes) - 1
	assert.InDelta(t, 50, k[last], 1e-9)
	assert.InDelta(t, 50, d[last], 1e-9)
}

func TestStochRSISeriesBounds(t *testing.T) {
	closes := make([]float64, 60)
	price := 100.0
	for i := range closes {
		if i%3 == 0 {
			price *= 1.03
		} else {
			price *= 0.99
		}
		closes[i] = price
	}

	k, d := StochRSISeries(closes, 14, 3, 3)
	for i := range closes {
		if !math.IsNaN(k[i]) {
			assert.GreaterOrEqual(t, k[i], 0.0)
			assert.LessOrEqual(t, k[i], 100.0)
		}
		if !math.IsNaN(d[i]) {
			assert.GreaterOrEqual(t, d[i], 0.0)
			assert.LessOrEqual(t, d[i], 100.0)
		}
	}
	assert.False(t, math.IsNaN(k[len(k)-1]))
	assert.False(t, math.IsNaN(d[len(d)-1]))
}

func TestHLTSeries(t *testing.T) {
	highs := []float64{10, 11, 12, 13}
	lows := []float64{8, 9, 10, 11}
	closes := []float64{9, 10, 11, 13}

	out := HLTSeries(highs, lows, closes, 3)
	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	// window low 8, high 12, close 11 -> (11-8)/4*100
	assert.InDelta(t, 75, out[2], 1e-9)
	// close at the window top
	assert.InDelta(t, 100, out[3], 1e-9)
}

func TestHLTSeriesZeroRange(t *testing.T) {
	highs := []float64{10, 10, 10}
	lows := []float64{10, 10, 10}
	closes := []float64{10, 10, 10}

	out := HLTSeries(highs, lows, closes, 3)
	assert.InDelta(t, 50, out[2], 1e-9)
}

func TestVolumeSpikeSeries(t *testing.T) {
	volumes := []float64{10, 10, 10, 100}
	out := VolumeSpikeSeries(volumes, 3, 2)

	assert.False(t, out[0], "warmup entries never flag")
	assert.False(t, out[1])
	assert.False(t, out[2])
	assert.True(t, out[3], "100 exceeds 2x the window average of 40")
}
