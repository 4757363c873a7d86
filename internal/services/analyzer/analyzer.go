// Package analyzer orchestrates one analysis target: it fetches candles,
// classifies the stage history, derives recommendations and journals the
// latest record.
package analyzer

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/turnDeep/elliott-wave-sentiment/config"
	"github.com/turnDeep/elliott-wave-sentiment/internal/domain"
	"github.com/turnDeep/elliott-wave-sentiment/internal/services/advisor"
	"github.com/turnDeep/elliott-wave-sentiment/internal/services/market/analysis"
	"github.com/turnDeep/elliott-wave-sentiment/internal/services/market/collector"
	"github.com/turnDeep/elliott-wave-sentiment/internal/services/stage"
	"github.com/turnDeep/elliott-wave-sentiment/internal/storage/stagerecords"
)

// Result is one completed analysis pass.
type Result struct {
	History        domain.StageHistory         `json:"history"`
	Current        domain.StageRecord          `json:"current"`
	Recommendation domain.ActionRecommendation `json:"recommendation"`
	Trend          *domain.TrendContext        `json:"trend,omitempty"`
	Volume         domain.VolumeAnalysis       `json:"volume"`
	Report         string                      `json:"report"`
}

// StageAnalyzer runs the classification pipeline for a single pair.
type StageAnalyzer struct {
	logger    *zap.Logger
	collector *collector.MarketDataCollector
	market    *analysis.MarketAnalyzer
	journal   *stagerecords.WalStore
	conf      config.Config

	lastJournaled time.Time
}

// NewStageAnalyzer creates an analyzer. The journal store may be nil, in
// which case records are not persisted.
func NewStageAnalyzer(
	logger *zap.Logger,
	marketCollector *collector.MarketDataCollector,
	market *analysis.MarketAnalyzer,
	journal *stagerecords.WalStore,
	conf config.Config,
) *StageAnalyzer {
	return &StageAnalyzer{
		logger:    logger,
		collector: marketCollector,
		market:    market,
		journal:   journal,
		conf:      conf,
	}
}

// Analyze performs one full pass. The fetched series must cover at least
// the indicator warmup, otherwise the pass fails with ErrInsufficientData.
func (a *StageAnalyzer) Analyze(ctx context.Context) (*Result, error) {
	minCandles := a.conf.Analysis.WarmupLength()
	candles, vix, err := a.collector.FetchSeries(ctx, a.conf.Interval, a.conf.LookbackPeriods, minCandles)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch series for %s", a.conf.Pair.String())
	}

	symbol := a.conf.Pair.Symbol()
	history, err := stage.Classify(symbol, a.conf.Interval, candles, vix, a.conf.Analysis)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to classify %s", symbol)
	}

	current, err := history.Current()
	if err != nil {
		return nil, errors.Wrapf(err, "no classified stage for %s", symbol)
	}

	recommendation, _ := advisor.Recommend(current.Stage)

	var trend *domain.TrendContext
	tc, err := a.market.TrendContext(candles)
	switch {
	case err == nil:
		trend = &tc
	case errors.Is(err, domain.ErrInsufficientData):
		a.logger.Debug("series too short for trend context", zap.String("symbol", symbol))
	default:
		return nil, errors.Wrapf(err, "failed to build trend context for %s", symbol)
	}

	volume := a.market.AnalyzeVolume(candles, a.conf.Analysis.VolumeWindow, a.conf.Analysis.VolumeMultiplier)

	a.logger.Info("stage classified",
		zap.String("symbol", symbol),
		zap.String("interval", a.conf.Interval),
		zap.String("stage", current.Stage.String()),
		zap.Int("candles", len(candles)))

	if err := a.journalRecord(symbol, current); err != nil {
		a.logger.Error("failed to journal stage record", zap.Error(err))
	}

	return &Result{
		History:        history,
		Current:        current,
		Recommendation: recommendation,
		Trend:          trend,
		Volume:         volume,
		Report:         advisor.GenerateReport(symbol, current, trend),
	}, nil
}

// Run re-analyzes on the given cadence until the context ends. Transient
// fetch failures are logged and retried on the next tick.
func (a *StageAnalyzer) Run(ctx context.Context, every time.Duration, results chan<- *Result) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		result, err := a.Analyze(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.logger.Error("analysis pass failed", zap.Error(err))
		} else if results != nil {
			select {
			case results <- result:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// journalRecord appends the current record, skipping duplicates of the
// last journaled timestamp so restarts do not flood the log.
func (a *StageAnalyzer) journalRecord(symbol string, record domain.StageRecord) error {
	if a.journal == nil {
		return nil
	}
	if !record.Timestamp.After(a.lastJournaled) {
		return nil
	}
	if err := a.journal.Save(symbol, record); err != nil {
		return err
	}
	a.lastJournaled = record.Timestamp
	return nil
}

// Journal exposes the backing record store, nil when journaling is disabled.
func (a *StageAnalyzer) Journal() *stagerecords.WalStore {
	return a.journal
}

// Config returns the analyzer's configuration.
func (a *StageAnalyzer) Config() config.Config {
	return a.conf
}
