package domain

// RiskLevel qualitative risk posture attached to a stage.
type RiskLevel string

const (
	RiskLow         RiskLevel = "low"
	RiskMedium      RiskLevel = "medium"
	RiskHigh        RiskLevel = "high"
	RiskVeryHigh    RiskLevel = "very_high"
	RiskOpportunity RiskLevel = "opportunity"
)

// Title returns a human-readable representation.
func (r RiskLevel) Title() string {
	switch r {
	case RiskLow:
		return "Low"
	case RiskMedium:
		return "Medium"
	case RiskHigh:
		return "High"
	case RiskVeryHigh:
		return "Very High"
	case RiskOpportunity:
		return "Opportunity"
	default:
		return "Unknown"
	}
}

// ActionRecommendation risk posture and ordered action set for a stage.
type ActionRecommendation struct {
	Risk    RiskLevel `json:"risk"`
	Actions []string  `json:"actions"`
}
