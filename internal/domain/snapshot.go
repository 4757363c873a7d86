package domain

// IndicatorSnapshot derived indicator values for a single timestep. All
// oscillator fields are bounded to [0,100]; VIX carries the raw index value
// and is nil when no volatility feed was supplied.
type IndicatorSnapshot struct {
	RSI         float64  `json:"rsi"`
	StochRSIK   float64  `json:"stoch_rsi_k"`
	StochRSID   float64  `json:"stoch_rsi_d"`
	HLT         float64  `json:"hlt"`
	FearGreed   float64  `json:"fear_greed"`
	VIX         *float64 `json:"vix,omitempty"`
	VolumeSpike bool     `json:"volume_spike"`
}

// VIXLevel returns the volatility index value and whether it is present.
func (s *IndicatorSnapshot) VIXLevel() (float64, bool) {
	if s == nil || s.VIX == nil {
		return 0, false
	}
	return *s.VIX, true
}
