package domain

// TrendDirection qualitative direction of price action.
type TrendDirection string

const (
	TrendDirectionBullish TrendDirection = "bullish"
	TrendDirectionBearish TrendDirection = "bearish"
	TrendDirectionNeutral TrendDirection = "neutral"
)

// Title returns a human-readable representation.
func (t TrendDirection) Title() string {
	switch t {
	case TrendDirectionBullish:
		return "Bullish"
	case TrendDirectionBearish:
		return "Bearish"
	default:
		return "Neutral"
	}
}

// TrendContext moving-average and rate-of-change context surrounding the
// latest candle, rendered in the report's trend section.
type TrendContext struct {
	// ChangeShort percent change of the close over the short horizon.
	ChangeShort float64 `json:"change_short"`
	// ChangeLong percent change of the close over the long horizon.
	ChangeLong float64 `json:"change_long"`
	// SMAShort latest value of the short moving average.
	SMAShort float64 `json:"sma_short"`
	// SMALong latest value of the long moving average.
	SMALong   float64        `json:"sma_long"`
	Direction TrendDirection `json:"direction"`
}
