package stage

import (
	"github.com/pkg/errors"

	"github.com/turnDeep/elliott-wave-sentiment/config"
	"github.com/turnDeep/elliott-wave-sentiment/internal/domain"
	"github.com/turnDeep/elliott-wave-sentiment/internal/services/market/indicators"
)

// HistoryBuilder produces the ordered stage classification of a full candle
// series in a single forward pass.
type HistoryBuilder struct {
	cfg        config.AnalysisConfig
	classifier *Classifier
}

// NewHistoryBuilder validates the configuration and creates a builder.
func NewHistoryBuilder(cfg config.AnalysisConfig) (*HistoryBuilder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &HistoryBuilder{cfg: cfg, classifier: NewClassifier(cfg)}, nil
}

// Build validates the series, derives indicator snapshots and folds the
// classifier across them. The result has exactly one record per candle;
// entries inside the warmup window carry StageNone and no snapshot. The
// output depends only on the inputs: repeated invocations yield identical
// histories.
//
// A series shorter than the warmup window yields an all-sentinel history
// rather than an error; only an empty series is rejected. vix may be nil.
func (b *HistoryBuilder) Build(symbol, interval string, candles []domain.MarketCandle, vix []float64) (domain.StageHistory, error) {
	if len(candles) == 0 {
		return domain.StageHistory{}, errors.Wrap(domain.ErrInsufficientData, "empty candle series")
	}
	if err := domain.ValidateSeries(candles); err != nil {
		return domain.StageHistory{}, err
	}

	snapshots, err := indicators.BuildSnapshots(candles, vix, b.cfg)
	if err != nil {
		return domain.StageHistory{}, err
	}

	closes, err := indicators.CloseSeries(candles)
	if err != nil {
		return domain.StageHistory{}, err
	}
	shortRef := indicators.SMASeries(closes, b.cfg.ShortRefPeriod)

	records := make([]domain.StageRecord, len(candles))
	var state State
	seeded := false
	for i, c := range candles {
		if snapshots[i] == nil {
			records[i] = domain.StageRecord{Timestamp: c.OpenTime, Stage: domain.StageNone}
			continue
		}

		in := StepInput{Snapshot: snapshots[i], Close: closes[i], ShortRef: shortRef[i]}
		if !seeded {
			state = b.classifier.Seed(in)
			seeded = true
		} else {
			state = b.classifier.Next(state, in)
		}

		records[i] = domain.StageRecord{
			Timestamp:        c.OpenTime,
			Stage:            state.Stage,
			Snapshot:         snapshots[i],
			ConsecutiveCount: state.Streak,
		}
	}

	return domain.StageHistory{Symbol: symbol, Interval: interval, Records: records}, nil
}

// Classify is the one-call entry point: validate the configuration, then
// build the history for the series.
func Classify(symbol, interval string, candles []domain.MarketCandle, vix []float64, cfg config.AnalysisConfig) (domain.StageHistory, error) {
	builder, err := NewHistoryBuilder(cfg)
	if err != nil {
		return domain.StageHistory{}, err
	}
	return builder.Build(symbol, interval, candles, vix)
}
