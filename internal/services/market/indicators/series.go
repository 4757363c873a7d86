// Package indicators computes the technical indicator series feeding the
// stage classifier: RSI, Stochastic RSI, high-low-target position, the
// Fear & Greed composite and the volume spike flag.
//
// All series functions are pure: they take a finite input series plus a
// lookback window and return a series aligned to input indices, with NaN
// entries while the lookback is not yet satisfied. Numeric edge cases
// (zero-range windows, all-loss RSI windows) resolve to documented defaults
// instead of propagating NaN past the warmup prefix.
package indicators

import "math"

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SMASeries returns the simple moving average of values over period.
// Windows containing an undefined entry stay undefined.
func SMASeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		valid := true
		for j := i - period + 1; j <= i; j++ {
			if !isFinite(values[j]) {
				valid = false
				break
			}
			sum += values[j]
		}
		if !valid {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(period)
	}
	return out
}

// RSISeries computes the Relative Strength Index with Wilder's smoothing.
// The first `period` entries are undefined. A window with zero average loss
// clamps to 100, a window with zero average gain clamps to 0.
func RSISeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(closes) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return clamp(100-100/(1+rs), 0, 100)
}

// StochRSISeries computes the stochastic oscillator of the RSI series and
// returns the smoothed %K and %D lines. A flat RSI window (max == min)
// yields 50.
func StochRSISeries(closes []float64, period, smoothK, smoothD int) (k, d []float64) {
	rsi := RSISeries(closes, period)

	stoch := make([]float64, len(rsi))
	for i := range rsi {
		stoch[i] = math.NaN()
		if i < period-1 {
			continue
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		valid := true
		for j := i - period + 1; j <= i; j++ {
			if !isFinite(rsi[j]) {
				valid = false
				break
			}
			if rsi[j] < lo {
				lo = rsi[j]
			}
			if rsi[j] > hi {
				hi = rsi[j]
			}
		}
		if !valid {
			continue
		}
		if hi == lo {
			stoch[i] = 50
			continue
		}
		stoch[i] = clamp((rsi[i]-lo)/(hi-lo)*100, 0, 100)
	}

	k = SMASeries(stoch, smoothK)
	d = SMASeries(k, smoothD)
	return k, d
}

// HLTSeries computes the position of the close within the trailing
// high/low range, scaled to [0,100]. A zero range yields 50.
func HLTSeries(highs, lows, closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range closes {
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for j := i - period + 1; j <= i; j++ {
			if lows[j] < lo {
				lo = lows[j]
			}
			if highs[j] > hi {
				hi = highs[j]
			}
		}
		if hi == lo {
			out[i] = 50
			continue
		}
		out[i] = clamp((closes[i]-lo)/(hi-lo)*100, 0, 100)
	}
	return out
}

// VolumeSpikeSeries flags timesteps where volume exceeds multiplier times
// the moving-average volume. Entries inside the average's warmup are false.
func VolumeSpikeSeries(volumes []float64, window int, multiplier float64) []bool {
	avg := SMASeries(volumes, window)
	out := make([]bool, len(volumes))
	for i := range volumes {
		if !isFinite(avg[i]) || avg[i] <= 0 {
			continue
		}
		out[i] = volumes[i] > avg[i]*multiplier
	}
	return out
}
