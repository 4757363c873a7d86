package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCandle(openTime time.Time, price, volume float64) MarketCandle {
	p := decimal.NewFromFloat(price)
	return MarketCandle{
		OpenTime:  openTime,
		Open:      p,
		High:      p.Mul(decimal.NewFromFloat(1.01)),
		Low:       p.Mul(decimal.NewFromFloat(0.99)),
		Close:     p,
		Volume:    decimal.NewFromFloat(volume),
		CloseTime: openTime.Add(time.Hour),
	}
}

func TestValidateSeries(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid series passes", func(t *testing.T) {
		candles := []MarketCandle{
			testCandle(base, 100, 10),
			testCandle(base.Add(time.Hour), 101, 12),
			testCandle(base.Add(2*time.Hour), 102, 9),
		}
		require.NoError(t, ValidateSeries(candles))
	})

	t.Run("duplicate timestamp", func(t *testing.T) {
		candles := []MarketCandle{
			testCandle(base, 100, 10),
			testCandle(base, 101, 12),
		}
		err := ValidateSeries(candles)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedSeries)
		assert.Contains(t, err.Error(), "duplicate timestamp")
	})

	t.Run("non-chronological timestamp", func(t *testing.T) {
		candles := []MarketCandle{
			testCandle(base.Add(time.Hour), 100, 10),
			testCandle(base, 101, 12),
		}
		err := ValidateSeries(candles)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedSeries)
		assert.Contains(t, err.Error(), "non-chronological")
	})

	t.Run("non-positive price", func(t *testing.T) {
		c := testCandle(base, 100, 10)
		c.Close = decimal.Zero
		err := ValidateSeries([]MarketCandle{c})
		assert.ErrorIs(t, err, ErrMalformedSeries)
	})

	t.Run("high below low", func(t *testing.T) {
		c := testCandle(base, 100, 10)
		c.High = decimal.NewFromInt(90)
		c.Low = decimal.NewFromInt(95)
		err := ValidateSeries([]MarketCandle{c})
		assert.ErrorIs(t, err, ErrMalformedSeries)
	})

	t.Run("negative volume", func(t *testing.T) {
		c := testCandle(base, 100, 10)
		c.Volume = decimal.NewFromInt(-1)
		err := ValidateSeries([]MarketCandle{c})
		assert.ErrorIs(t, err, ErrMalformedSeries)
	})

	t.Run("empty series passes", func(t *testing.T) {
		require.NoError(t, ValidateSeries(nil))
	})
}

func TestNewVolumeAnalysis(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]MarketCandle, 0, 10)
	for i := 0; i < 10; i++ {
		vol := 10.0
		if i == 9 {
			vol = 30 // 3x the running average
		}
		candles = append(candles, testCandle(base.Add(time.Duration(i)*time.Hour), 100, vol))
	}

	va := NewVolumeAnalysis(candles, 10, decimal.NewFromInt(2))
	assert.True(t, decimal.NewFromInt(30).Equal(va.CurrentVolume))
	assert.True(t, decimal.NewFromInt(12).Equal(va.AverageVolume))
	assert.True(t, va.HasSpike())
	assert.Equal(t, []int{9}, va.SpikeIndices)

	empty := NewVolumeAnalysis(nil, 10, decimal.NewFromInt(2))
	assert.False(t, empty.HasSpike())
	assert.True(t, empty.AverageVolume.IsZero())
}
