package indicators

import (
	"math"

	"github.com/turnDeep/elliott-wave-sentiment/config"
)

// Mapping ranges for the composite terms. Returns beyond the z-score band,
// VIX outside [10,40] and volume ratios outside [0.5x,1.5x] saturate.
const (
	vixFloor   = 10.0
	vixSpan    = 30.0
	ratioFloor = 0.5
	ratioSpan  = 1.0
)

// FearGreedSeries computes the weighted sentiment composite in [0,100] from
// a momentum term, an inverted volatility-index term and a volume-ratio
// term. vix may be nil or carry NaN entries; a missing volatility reading
// redistributes its weight proportionally onto the remaining terms.
func FearGreedSeries(closes, volumes, vix []float64, cfg config.AnalysisConfig) []float64 {
	momentum := momentumScoreSeries(closes, cfg.MomentumPeriod)
	volume := volumeScoreSeries(volumes, cfg.VolumeWindow)

	out := make([]float64, len(closes))
	w := cfg.FearGreedWeights
	for i := range closes {
		if !isFinite(momentum[i]) || !isFinite(volume[i]) {
			out[i] = math.NaN()
			continue
		}

		vixScore := math.NaN()
		if vix != nil && i < len(vix) && isFinite(vix[i]) {
			vixScore = clamp(100-(vix[i]-vixFloor)/vixSpan*100, 0, 100)
		}

		if isFinite(vixScore) {
			out[i] = clamp(momentum[i]*w.Momentum+vixScore*w.Volatility+volume[i]*w.Volume, 0, 100)
			continue
		}

		remaining := w.Momentum + w.Volume
		if remaining <= 0 {
			// Volatility was the only weighted term and it is absent.
			out[i] = 50
			continue
		}
		out[i] = clamp((momentum[i]*w.Momentum+volume[i]*w.Volume)/remaining, 0, 100)
	}
	return out
}

// momentumScoreSeries z-scores the period-step return against its trailing
// window of returns and maps z in [-2,2] onto [0,100]. A flat window (zero
// deviation) yields the neutral 50.
func momentumScoreSeries(closes []float64, period int) []float64 {
	returns := make([]float64, len(closes))
	for i := range closes {
		if i < period || closes[i-period] == 0 {
			returns[i] = math.NaN()
			continue
		}
		returns[i] = closes[i]/closes[i-period] - 1
	}

	out := make([]float64, len(closes))
	for i := range closes {
		out[i] = math.NaN()
		if i < 2*period-1 {
			continue
		}
		mean, count := 0.0, 0
		for j := i - period + 1; j <= i; j++ {
			if !isFinite(returns[j]) {
				count = 0
				break
			}
			mean += returns[j]
			count++
		}
		if count == 0 {
			continue
		}
		mean /= float64(count)

		variance := 0.0
		for j := i - period + 1; j <= i; j++ {
			diff := returns[j] - mean
			variance += diff * diff
		}
		variance /= float64(count)

		if variance == 0 {
			out[i] = 50
			continue
		}
		z := (returns[i] - mean) / math.Sqrt(variance)
		out[i] = clamp(50+25*z, 0, 100)
	}
	return out
}

// volumeScoreSeries maps the current-to-average volume ratio onto [0,100],
// with 0.5x at the floor and 1.5x at the ceiling.
func volumeScoreSeries(volumes []float64, window int) []float64 {
	avg := SMASeries(volumes, window)
	out := make([]float64, len(volumes))
	for i := range volumes {
		if !isFinite(avg[i]) {
			out[i] = math.NaN()
			continue
		}
		if avg[i] <= 0 {
			out[i] = 50
			continue
		}
		ratio := volumes[i] / avg[i]
		out[i] = clamp((ratio-ratioFloor)/ratioSpan*100, 0, 100)
	}
	return out
}
