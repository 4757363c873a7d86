package analysis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/turnDeep/elliott-wave-sentiment/internal/domain"
)

func trendCandles(n int, step float64) []domain.MarketCandle {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.MarketCandle, n)
	price := 100.0
	for i := range out {
		price += step
		p := decimal.NewFromFloat(price)
		out[i] = domain.MarketCandle{
			OpenTime:  base.Add(time.Duration(i) * 24 * time.Hour),
			Open:      p,
			High:      p.Add(decimal.NewFromInt(1)),
			Low:       p.Sub(decimal.NewFromInt(1)),
			Close:     p,
			Volume:    decimal.NewFromInt(10),
			CloseTime: base.Add(time.Duration(i+1) * 24 * time.Hour),
		}
	}
	return out
}

func TestTrendContext(t *testing.T) {
	analyzer := NewMarketAnalyzer(zap.NewNop())

	t.Run("rising series reads bullish", func(t *testing.T) {
		ctx, err := analyzer.TrendContext(trendCandles(60, 1))
		require.NoError(t, err)

		assert.Equal(t, domain.TrendDirectionBullish, ctx.Direction)
		assert.Greater(t, ctx.ChangeShort, 0.0)
		assert.Greater(t, ctx.ChangeLong, 0.0)
		assert.Greater(t, ctx.SMAShort, ctx.SMALong)
	})

	t.Run("falling series reads bearish", func(t *testing.T) {
		ctx, err := analyzer.TrendContext(trendCandles(60, -1))
		require.NoError(t, err)

		assert.Equal(t, domain.TrendDirectionBearish, ctx.Direction)
		assert.Less(t, ctx.ChangeShort, 0.0)
		assert.Less(t, ctx.SMAShort, ctx.SMALong)
	})

	t.Run("flat series reads neutral", func(t *testing.T) {
		ctx, err := analyzer.TrendContext(trendCandles(60, 0))
		require.NoError(t, err)
		assert.Equal(t, domain.TrendDirectionNeutral, ctx.Direction)
		assert.InDelta(t, 0, ctx.ChangeShort, 1e-9)
	})

	t.Run("short series fails", func(t *testing.T) {
		_, err := analyzer.TrendContext(trendCandles(49, 1))
		assert.ErrorIs(t, err, domain.ErrInsufficientData)
	})
}

func TestAnalyzeVolume(t *testing.T) {
	analyzer := NewMarketAnalyzer(zap.NewNop())
	candles := trendCandles(30, 1)
	candles[29].Volume = decimal.NewFromInt(100)

	va := analyzer.AnalyzeVolume(candles, 20, 2.0)
	assert.True(t, va.HasSpike())
	assert.Contains(t, va.SpikeIndices, 29)
}
