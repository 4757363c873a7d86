// Package analysis provides market context surrounding a classification:
// volume studies and moving-average trend direction.
package analysis

import (
	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/turnDeep/elliott-wave-sentiment/internal/domain"
)

const (
	shortChangeHorizon = 5
	longChangeHorizon  = 20
	shortSMAPeriod     = 20
	longSMAPeriod      = 50
)

// MarketAnalyzer analyzes market structure and patterns.
type MarketAnalyzer struct {
	logger *zap.Logger
}

// NewMarketAnalyzer creates a new MarketAnalyzer instance.
func NewMarketAnalyzer(logger *zap.Logger) *MarketAnalyzer {
	return &MarketAnalyzer{logger: logger}
}

// AnalyzeVolume calculates volume metrics and identifies spikes.
func (m *MarketAnalyzer) AnalyzeVolume(candles []domain.MarketCandle, window int, multiplier float64) domain.VolumeAnalysis {
	if len(candles) == 0 {
		m.logger.Warn("no candle data for volume analysis")
	}
	return domain.NewVolumeAnalysis(candles, window, decimal.NewFromFloat(multiplier))
}

// TrendContext derives the rate-of-change and moving-average context of the
// latest candle: 5/20-step percent changes, SMA20 and SMA50, and the
// resulting direction. Fails with ErrInsufficientData when the series is too
// short for the long moving average.
func (m *MarketAnalyzer) TrendContext(candles []domain.MarketCandle) (domain.TrendContext, error) {
	if len(candles) < longSMAPeriod {
		return domain.TrendContext{}, errors.Wrapf(domain.ErrInsufficientData,
			"trend context needs %d candles, got %d", longSMAPeriod, len(candles))
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i], _ = c.Close.Float64()
	}

	smaShort, err := latestSMA(closes, shortSMAPeriod)
	if err != nil {
		return domain.TrendContext{}, err
	}
	smaLong, err := latestSMA(closes, longSMAPeriod)
	if err != nil {
		return domain.TrendContext{}, err
	}

	last := closes[len(closes)-1]
	ctx := domain.TrendContext{
		ChangeShort: percentChange(closes, shortChangeHorizon),
		ChangeLong:  percentChange(closes, longChangeHorizon),
		SMAShort:    smaShort,
		SMALong:     smaLong,
		Direction:   determineTrendDirection(last, smaShort, smaLong),
	}
	return ctx, nil
}

// latestSMA computes the last value of the period simple moving average
// using the indicator library's channel pipeline.
func latestSMA(closes []float64, period int) (float64, error) {
	if len(closes) < period {
		return 0, errors.Wrapf(domain.ErrInsufficientData, "not enough data points: need %d, got %d", period, len(closes))
	}

	sma := trend.NewSmaWithPeriod[float64](period)
	out := helper.ChanToSlice(sma.Compute(helper.SliceToChan(closes)))
	if len(out) == 0 {
		return 0, errors.Wrap(domain.ErrInsufficientData, "sma produced no values")
	}
	return out[len(out)-1], nil
}

func percentChange(closes []float64, horizon int) float64 {
	n := len(closes)
	if n <= horizon || closes[n-1-horizon] == 0 {
		return 0
	}
	return (closes[n-1]/closes[n-1-horizon] - 1) * 100
}

func determineTrendDirection(price, smaShort, smaLong float64) domain.TrendDirection {
	if price > smaShort && smaShort > smaLong {
		return domain.TrendDirectionBullish
	}
	if price < smaShort && smaShort < smaLong {
		return domain.TrendDirectionBearish
	}
	return domain.TrendDirectionNeutral
}
