// Package advisor maps a classified wave stage to a risk posture with an
// ordered action set, and renders the analysis report.
package advisor

import "github.com/turnDeep/elliott-wave-sentiment/internal/domain"

// catalogue is the static stage-to-recommendation table. Action order is
// meaningful and preserved in reports.
var catalogue = map[domain.StageLabel]domain.ActionRecommendation{
	domain.StageA: {
		Risk: domain.RiskLow,
		Actions: []string{
			"Scale into a position gradually",
			"Confirm the stochastic RSI bottoming out",
			"Keep position size conservative",
		},
	},
	domain.StageB: {
		Risk: domain.RiskLow,
		Actions: []string{
			"Follow the trend with active buying",
			"Add on pullbacks",
			"Set a profit-taking line",
		},
	},
	domain.StageC: {
		Risk: domain.RiskMedium,
		Actions: []string{
			"Limit new buying",
			"Consider dip buys while HLT sits between 30 and 50",
			"Hold existing positions",
		},
	},
	domain.StageD: {
		Risk: domain.RiskHigh,
		Actions: []string{
			"Begin taking profits in stages",
			"Watch volume and Fear & Greed closely",
			"Use a trailing stop",
		},
	},
	domain.StageDBC: {
		Risk: domain.RiskVeryHigh,
		Actions: []string{
			"Take profit on most of the position immediately",
			"Confirm upper wicks and the volume surge",
			"A contrarian short can be considered",
		},
	},
	domain.StageE: {
		Risk: domain.RiskHigh,
		Actions: []string{
			"Close long positions",
			"Consider shorting the rebound high",
			"Raise the cash ratio",
		},
	},
	domain.StageF: {
		Risk: domain.RiskMedium,
		Actions: []string{
			"Sell into strength",
			"Confirm the heaviness of the overhead supply",
			"Beware the bull trap",
		},
	},
	domain.StageG: {
		Risk: domain.RiskHigh,
		Actions: []string{
			"Short or stay in cash",
			"Wait for a selling climax signal",
			"Contrarian buying is premature",
		},
	},
	domain.StageGSC: {
		Risk: domain.RiskOpportunity,
		Actions: []string{
			"Begin buying in stages",
			"Confirm the volume surge and the volatility spike",
			"Opportunity for a medium to long-term entry",
		},
	},
}

// caveats per-stage warnings appended to the report.
var caveats = map[domain.StageLabel][]string{
	domain.StageB:   {"Trend in force: historically the most rewarding zone"},
	domain.StageD:   {"High-altitude warning: trend reversal risk"},
	domain.StageDBC: {"High-altitude warning: trend reversal risk"},
	domain.StageGSC: {"Possible selling climax: prepare for a rebound"},
}

// Recommend returns the recommendation for a classified stage. The second
// return is false for StageNone.
func Recommend(stage domain.StageLabel) (domain.ActionRecommendation, bool) {
	rec, ok := catalogue[stage]
	return rec, ok
}

// RiskFor returns the risk level of a stage, or RiskMedium for unknown
// labels so a report never renders an empty posture.
func RiskFor(stage domain.StageLabel) domain.RiskLevel {
	if rec, ok := catalogue[stage]; ok {
		return rec.Risk
	}
	return domain.RiskMedium
}
