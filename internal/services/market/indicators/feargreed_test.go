package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnDeep/elliott-wave-sentiment/config"
	"github.com/turnDeep/elliott-wave-sentiment/internal/domain"
)

func fgTestConfig() config.AnalysisConfig {
	cfg := config.DefaultAnalysisConfig()
	cfg.MomentumPeriod = 5
	cfg.VolumeWindow = 5
	return cfg
}

func flatSeries(n int) (closes, volumes []float64) {
	closes = make([]float64, n)
	volumes = make([]float64, n)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 10
	}
	return closes, volumes
}

func TestFearGreedSeriesNeutralInputs(t *testing.T) {
	closes, volumes := flatSeries(12)
	cfg := fgTestConfig()

	out := FearGreedSeries(closes, volumes, nil, cfg)
	require.Len(t, out, 12)

	// Momentum needs two full windows of returns.
	firstDefined := 2*cfg.MomentumPeriod - 1
	for i := 0; i < firstDefined; i++ {
		assert.True(t, math.IsNaN(out[i]), "index %d should be undefined", i)
	}
	// Flat price and volume read dead neutral.
	for i := firstDefined; i < len(out); i++ {
		assert.InDelta(t, 50, out[i], 1e-9)
	}
}

func TestFearGreedSeriesVIXTerm(t *testing.T) {
	closes, volumes := flatSeries(12)
	cfg := fgTestConfig()

	calm := make([]float64, 12)
	for i := range calm {
		calm[i] = 10 // floor of the mapping, score 100
	}

	out := FearGreedSeries(closes, volumes, calm, cfg)
	// 50*0.4 + 100*0.35 + 50*0.25
	assert.InDelta(t, 67.5, out[11], 1e-9)

	stressed := make([]float64, 12)
	for i := range stressed {
		stressed[i] = 40 // ceiling of the mapping, score 0
	}
	out = FearGreedSeries(closes, volumes, stressed, cfg)
	// 50*0.4 + 0*0.35 + 50*0.25
	assert.InDelta(t, 32.5, out[11], 1e-9)
}

func TestFearGreedSeriesRedistributesAbsentVIX(t *testing.T) {
	closes, volumes := flatSeries(12)
	cfg := fgTestConfig()

	// NaN entries mark steps without a volatility reading; the weight moves
	// onto momentum and volume proportionally.
	vix := make([]float64, 12)
	for i := range vix {
		vix[i] = math.NaN()
	}

	withNaN := FearGreedSeries(closes, volumes, vix, cfg)
	withNil := FearGreedSeries(closes, volumes, nil, cfg)
	assert.InDelta(t, withNil[11], withNaN[11], 1e-9)
	assert.InDelta(t, 50, withNaN[11], 1e-9)
}

func TestFearGreedSeriesBounds(t *testing.T) {
	n := 40
	closes := make([]float64, n)
	volumes := make([]float64, n)
	price := 100.0
	for i := range closes {
		if i%2 == 0 {
			price *= 1.08
		} else {
			price *= 0.94
		}
		closes[i] = price
		volumes[i] = 10 + float64(i%7)*15
	}

	out := FearGreedSeries(closes, volumes, nil, fgTestConfig())
	for i := range out {
		if math.IsNaN(out[i]) {
			continue
		}
		assert.GreaterOrEqual(t, out[i], 0.0)
		assert.LessOrEqual(t, out[i], 100.0)
	}
}

func TestBuildSnapshots(t *testing.T) {
	cfg := snapTestConfig()
	candles := syntheticCandles(12, 100, 10)

	snapshots, err := BuildSnapshots(candles, nil, cfg)
	require.NoError(t, err)
	require.Len(t, snapshots, len(candles))

	firstDefined := cfg.WarmupLength() - 1
	for i := 0; i < firstDefined; i++ {
		assert.Nil(t, snapshots[i], "index %d should be inside warmup", i)
	}
	for i := firstDefined; i < len(snapshots); i++ {
		snap := snapshots[i]
		require.NotNil(t, snap, "index %d should carry a snapshot", i)
		assert.False(t, math.IsNaN(snap.RSI))
		assert.False(t, math.IsNaN(snap.StochRSIK))
		assert.False(t, math.IsNaN(snap.StochRSID))
		assert.False(t, math.IsNaN(snap.HLT))
		assert.False(t, math.IsNaN(snap.FearGreed))
		_, hasVIX := snap.VIXLevel()
		assert.False(t, hasVIX)
	}
}

func TestBuildSnapshotsVIXAttached(t *testing.T) {
	cfg := snapTestConfig()
	candles := syntheticCandles(12, 100, 10)
	vix := make([]float64, len(candles))
	for i := range vix {
		vix[i] = 18.5
	}

	snapshots, err := BuildSnapshots(candles, vix, cfg)
	require.NoError(t, err)

	last := snapshots[len(snapshots)-1]
	require.NotNil(t, last)
	level, ok := last.VIXLevel()
	require.True(t, ok)
	assert.InDelta(t, 18.5, level, 1e-9)
}

func TestBuildSnapshotsErrors(t *testing.T) {
	cfg := snapTestConfig()

	_, err := BuildSnapshots(nil, nil, cfg)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)

	candles := syntheticCandles(12, 100, 10)
	_, err = BuildSnapshots(candles, []float64{1, 2, 3}, cfg)
	assert.ErrorIs(t, err, domain.ErrMalformedSeries)
}

// snapTestConfig shrinks every lookback so snapshots appear early in short
// test series.
func snapTestConfig() config.AnalysisConfig {
	cfg := config.DefaultAnalysisConfig()
	cfg.RSIPeriod = 3
	cfg.StochPeriod = 3
	cfg.SmoothK = 2
	cfg.SmoothD = 2
	cfg.HLTPeriod = 3
	cfg.VolumeWindow = 3
	cfg.MomentumPeriod = 3
	cfg.ShortRefPeriod = 2
	return cfg
}

func syntheticCandles(n int, startPrice, volume float64) []domain.MarketCandle {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.MarketCandle, n)
	price := startPrice
	for i := range out {
		if i%2 == 0 {
			price *= 1.01
		} else {
			price *= 0.995
		}
		p := decimal.NewFromFloat(price)
		out[i] = domain.MarketCandle{
			OpenTime:  base.Add(time.Duration(i) * 24 * time.Hour),
			Open:      p,
			High:      p.Mul(decimal.NewFromFloat(1.02)),
			Low:       p.Mul(decimal.NewFromFloat(0.98)),
			Close:     p,
			Volume:    decimal.NewFromFloat(volume),
			CloseTime: base.Add(time.Duration(i+1) * 24 * time.Hour),
		}
	}
	return out
}
