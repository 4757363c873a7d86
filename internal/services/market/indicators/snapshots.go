package indicators

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/turnDeep/elliott-wave-sentiment/config"
	"github.com/turnDeep/elliott-wave-sentiment/internal/domain"
)

// BuildSnapshots derives one IndicatorSnapshot per candle. Entries before
// the largest configured lookback are nil. vix, when non-nil, must be
// aligned index-for-index with candles; NaN entries mark steps without a
// volatility reading.
func BuildSnapshots(candles []domain.MarketCandle, vix []float64, cfg config.AnalysisConfig) ([]*domain.IndicatorSnapshot, error) {
	if len(candles) == 0 {
		return nil, errors.Wrap(domain.ErrInsufficientData, "empty candle series")
	}
	if vix != nil && len(vix) != len(candles) {
		return nil, errors.Wrapf(domain.ErrMalformedSeries,
			"volatility series length %d does not match candle series length %d", len(vix), len(candles))
	}

	closes, err := decimalsToFloat64(candles, func(c domain.MarketCandle) decimal.Decimal { return c.Close })
	if err != nil {
		return nil, err
	}
	highs, err := decimalsToFloat64(candles, func(c domain.MarketCandle) decimal.Decimal { return c.High })
	if err != nil {
		return nil, err
	}
	lows, err := decimalsToFloat64(candles, func(c domain.MarketCandle) decimal.Decimal { return c.Low })
	if err != nil {
		return nil, err
	}
	volumes, err := decimalsToFloat64(candles, func(c domain.MarketCandle) decimal.Decimal { return c.Volume })
	if err != nil {
		return nil, err
	}

	rsi := RSISeries(closes, cfg.RSIPeriod)
	stochK, stochD := StochRSISeries(closes, cfg.StochPeriod, cfg.SmoothK, cfg.SmoothD)
	hlt := HLTSeries(highs, lows, closes, cfg.HLTPeriod)
	fearGreed := FearGreedSeries(closes, volumes, vix, cfg)
	spikes := VolumeSpikeSeries(volumes, cfg.VolumeWindow, cfg.VolumeMultiplier)

	firstDefined := cfg.WarmupLength() - 1

	out := make([]*domain.IndicatorSnapshot, len(candles))
	for i := range candles {
		if i < firstDefined {
			continue
		}
		snap := &domain.IndicatorSnapshot{
			RSI:         rsi[i],
			StochRSIK:   stochK[i],
			StochRSID:   stochD[i],
			HLT:         hlt[i],
			FearGreed:   fearGreed[i],
			VolumeSpike: spikes[i],
		}
		if vix != nil && isFinite(vix[i]) {
			level := vix[i]
			snap.VIX = &level
		}
		out[i] = snap
	}
	return out, nil
}

// CloseSeries extracts candle closes as float64, verifying finiteness.
func CloseSeries(candles []domain.MarketCandle) ([]float64, error) {
	return decimalsToFloat64(candles, func(c domain.MarketCandle) decimal.Decimal { return c.Close })
}

func decimalsToFloat64(candles []domain.MarketCandle, field func(domain.MarketCandle) decimal.Decimal) ([]float64, error) {
	out := make([]float64, len(candles))
	for i, c := range candles {
		v, _ := field(c).Float64()
		if !isFinite(v) {
			return nil, errors.Wrapf(domain.ErrMalformedSeries, "non-finite value at index %d", i)
		}
		out[i] = v
	}
	return out, nil
}
