package domain

import "github.com/shopspring/decimal"

// VolumeAnalysis contains volume metrics and patterns identified in market
// data. This is a value object representing statistical analysis of trading
// volume.
type VolumeAnalysis struct {
	// CurrentVolume is the volume of the most recent candle.
	CurrentVolume decimal.Decimal
	// AverageVolume is the simple moving average of volume over the window.
	AverageVolume decimal.Decimal
	// RelativeVolume is the ratio of current volume to average.
	RelativeVolume decimal.Decimal
	// SpikeMultiplier is the configured spike threshold.
	SpikeMultiplier decimal.Decimal
	// SpikeIndices contains indices of candles where volume exceeded the
	// multiplier times the average.
	SpikeIndices []int
}

// NewVolumeAnalysis computes volume metrics over the last `window` candles
// (or fewer when the series is shorter) and flags candles whose volume
// exceeded multiplier times the average.
func NewVolumeAnalysis(candles []MarketCandle, window int, multiplier decimal.Decimal) VolumeAnalysis {
	if len(candles) == 0 || window <= 0 {
		return VolumeAnalysis{
			CurrentVolume:   decimal.Zero,
			AverageVolume:   decimal.Zero,
			RelativeVolume:  decimal.Zero,
			SpikeMultiplier: multiplier,
			SpikeIndices:    []int{},
		}
	}

	if len(candles) < window {
		window = len(candles)
	}

	sum := decimal.Zero
	for i := len(candles) - window; i < len(candles); i++ {
		sum = sum.Add(candles[i].Volume)
	}
	avgVolume := sum.Div(decimal.NewFromInt(int64(window)))

	currentVolume := candles[len(candles)-1].Volume

	relativeVolume := decimal.Zero
	if avgVolume.GreaterThan(decimal.Zero) {
		relativeVolume = currentVolume.Div(avgVolume)
	}

	spikeThreshold := avgVolume.Mul(multiplier)
	spikes := []int{}
	if spikeThreshold.GreaterThan(decimal.Zero) {
		for i := range candles {
			if candles[i].Volume.GreaterThan(spikeThreshold) {
				spikes = append(spikes, i)
			}
		}
	}

	return VolumeAnalysis{
		CurrentVolume:   currentVolume,
		AverageVolume:   avgVolume,
		RelativeVolume:  relativeVolume,
		SpikeMultiplier: multiplier,
		SpikeIndices:    spikes,
	}
}

// HasSpike returns true if the latest volume exceeds the spike threshold.
func (v VolumeAnalysis) HasSpike() bool {
	return v.RelativeVolume.GreaterThan(v.SpikeMultiplier)
}

// IsLowVolume returns true if volume is below average.
func (v VolumeAnalysis) IsLowVolume() bool {
	return v.RelativeVolume.LessThan(decimal.NewFromInt(1))
}
