package domain

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MarketCandle single OHLCV candlestick.
type MarketCandle struct {
	OpenTime  time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
	CloseTime time.Time
}

// ValidateSeries checks that a candle series is usable for classification:
// strictly chronological open times (which also rules out duplicates),
// positive prices, a high/low range that contains itself, and non-negative
// volume. Any violation is reported as ErrMalformedSeries.
func ValidateSeries(candles []MarketCandle) error {
	for i, c := range candles {
		if i > 0 && !c.OpenTime.After(candles[i-1].OpenTime) {
			if c.OpenTime.Equal(candles[i-1].OpenTime) {
				return errors.Wrapf(ErrMalformedSeries, "duplicate timestamp %s at index %d", c.OpenTime, i)
			}
			return errors.Wrapf(ErrMalformedSeries, "non-chronological timestamp %s at index %d", c.OpenTime, i)
		}
		if c.Open.LessThanOrEqual(decimal.Zero) || c.High.LessThanOrEqual(decimal.Zero) ||
			c.Low.LessThanOrEqual(decimal.Zero) || c.Close.LessThanOrEqual(decimal.Zero) {
			return errors.Wrapf(ErrMalformedSeries, "non-positive price at index %d", i)
		}
		if c.High.LessThan(c.Low) {
			return errors.Wrapf(ErrMalformedSeries, "high below low at index %d", i)
		}
		if c.Volume.IsNegative() {
			return errors.Wrapf(ErrMalformedSeries, "negative volume at index %d", i)
		}
	}
	return nil
}
