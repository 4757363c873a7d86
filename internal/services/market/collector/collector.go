// Package collector retrieves and validates the market data consumed by the
// classification engine: OHLCV candle series from an exchange and an
// optional volatility index series aligned to it.
package collector

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/turnDeep/elliott-wave-sentiment/internal/domain"
	"github.com/turnDeep/elliott-wave-sentiment/pkg/retrier"
)

const fetchTimeout = 30 * time.Second

// KlineProvider defines the interface for fetching kline (candlestick) data.
type KlineProvider interface {
	// GetKlines fetches historical kline data for an instrument pair.
	// limit specifies the maximum number of klines to fetch; interval the
	// kline interval (e.g. "1m", "1h", "4h", "1d").
	GetKlines(ctx context.Context, pair domain.Pair, interval string, limit int) ([]domain.MarketCandle, error)
}

// IndexPoint one observation of a volatility index.
type IndexPoint struct {
	Timestamp time.Time
	Value     float64
}

// VolatilityProvider supplies a volatility index series covering a time
// range. Implementations are optional collaborators; the engine tolerates
// their absence.
type VolatilityProvider interface {
	GetIndexSeries(ctx context.Context, start, end time.Time) ([]IndexPoint, error)
}

// MarketDataCollector fetches a candle series, validates it and aligns the
// volatility feed to it before the engine runs.
type MarketDataCollector struct {
	provider   KlineProvider
	volatility VolatilityProvider
	pair       domain.Pair
	retrier    *retrier.Retrier
}

// NewMarketDataCollector creates a collector. volatility may be nil.
func NewMarketDataCollector(provider KlineProvider, volatility VolatilityProvider, pair domain.Pair) *MarketDataCollector {
	return &MarketDataCollector{
		provider:   provider,
		volatility: volatility,
		pair:       pair,
		retrier: retrier.New(
			retrier.WithMaxRetries(3),
			retrier.WithInitialInterval(500*time.Millisecond),
		),
	}
}

// FetchSeries returns at least minCandles validated candles for the
// interval, plus the aligned volatility series (nil when no provider is
// configured or the feed fails). A feed failure is logged by the caller,
// never fatal: classification degrades to the redistributed-weights path.
func (c *MarketDataCollector) FetchSeries(ctx context.Context, interval string, limit, minCandles int) ([]domain.MarketCandle, []float64, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	candles, err := retrier.DoWithData(c.retrier, ctxWithTimeout, func(ctx context.Context) ([]domain.MarketCandle, error) {
		return c.provider.GetKlines(ctx, c.pair, interval, limit)
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to fetch klines for %s", c.pair.String())
	}
	if len(candles) == 0 {
		return nil, nil, errors.Wrapf(domain.ErrInsufficientData, "no kline data returned for %s", c.pair.String())
	}
	if len(candles) < minCandles {
		return nil, nil, errors.Wrapf(domain.ErrInsufficientData,
			"insufficient kline data for %s (need at least %d, got %d; raise 'lookback_periods' in config)",
			c.pair.String(), minCandles, len(candles))
	}
	if err := domain.ValidateSeries(candles); err != nil {
		return nil, nil, err
	}

	vix, err := c.fetchVolatility(ctxWithTimeout, candles)
	if err != nil {
		return nil, nil, err
	}
	return candles, vix, nil
}

func (c *MarketDataCollector) fetchVolatility(ctx context.Context, candles []domain.MarketCandle) ([]float64, error) {
	if c.volatility == nil {
		return nil, nil
	}

	start := candles[0].OpenTime
	end := candles[len(candles)-1].OpenTime
	points, err := c.volatility.GetIndexSeries(ctx, start, end)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch volatility index series")
	}
	return AlignIndexSeries(candles, points), nil
}

// AlignIndexSeries forward-fills index observations onto candle open times:
// each candle takes the most recent observation at or before its open. Steps
// before the first observation stay NaN.
func AlignIndexSeries(candles []domain.MarketCandle, points []IndexPoint) []float64 {
	out := make([]float64, len(candles))
	j := 0
	last := math.NaN()
	for i, c := range candles {
		for j < len(points) && !points[j].Timestamp.After(c.OpenTime) {
			last = points[j].Value
			j++
		}
		out[i] = last
	}
	return out
}
