package advisor

import (
	"fmt"
	"strings"

	"github.com/turnDeep/elliott-wave-sentiment/internal/domain"
)

const reportRule = "======================================================================"

// GenerateReport renders the latest stage record into the fixed-order text
// report: stage summary, indicator readout, trend context, recommended
// actions, caveats. Formatting depends only on the inputs; the same record
// always produces the same text. trend may be nil when the series was too
// short for the moving-average context.
func GenerateReport(symbol string, record domain.StageRecord, trend *domain.TrendContext) string {
	var b strings.Builder

	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line(reportRule)
	line("Elliott Wave Sentiment Analysis: %s", symbol)
	line(reportRule)
	line("As of: %s", record.Timestamp.UTC().Format("2006-01-02 15:04 UTC"))
	line("")

	line("[Current Stage]")
	line("  Stage: %s - %s", record.Stage, record.Stage.Title())
	line("  Risk level: %s", RiskFor(record.Stage).Title())
	line("  Supporting steps: %d", record.ConsecutiveCount)
	line("")

	if s := record.Snapshot; s != nil {
		line("[Indicators]")
		line("  STOCH RSI (K/D): %.1f / %.1f", s.StochRSIK, s.StochRSID)
		line("  HLT: %.1f", s.HLT)
		line("  RSI: %.1f", s.RSI)
		line("  Fear & Greed: %.0f", s.FearGreed)
		if level, ok := s.VIXLevel(); ok {
			line("  VIX: %.1f", level)
		} else {
			line("  VIX: n/a")
		}
		if s.VolumeSpike {
			line("  Volume spike: detected")
		} else {
			line("  Volume spike: normal")
		}
		line("")
	}

	if trend != nil {
		line("[Trend]")
		line("  5-step change: %+.2f%%", trend.ChangeShort)
		line("  20-step change: %+.2f%%", trend.ChangeLong)
		line("  Moving average trend: %s", trend.Direction.Title())
		line("")
	}

	if rec, ok := Recommend(record.Stage); ok {
		line("[Recommended Actions]")
		for _, action := range rec.Actions {
			line("  - %s", action)
		}
		line("")
	}

	line("[Caveats]")
	for _, c := range caveats[record.Stage] {
		line("  - %s", c)
	}
	line("  - Rules-based read of the trend phase, not a forecast")
	line(reportRule)

	return b.String()
}
