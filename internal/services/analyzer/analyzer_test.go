package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/turnDeep/elliott-wave-sentiment/config"
	"github.com/turnDeep/elliott-wave-sentiment/internal/domain"
	"github.com/turnDeep/elliott-wave-sentiment/internal/services/market/analysis"
	"github.com/turnDeep/elliott-wave-sentiment/internal/services/market/collector"
	"github.com/turnDeep/elliott-wave-sentiment/internal/storage/stagerecords"
)

type fixedKlineProvider struct {
	candles []domain.MarketCandle
}

func (f *fixedKlineProvider) GetKlines(ctx context.Context, pair domain.Pair, interval string, limit int) ([]domain.MarketCandle, error) {
	return f.candles, nil
}

func analyzerTestConfig() config.Config {
	analysisCfg := config.DefaultAnalysisConfig()
	analysisCfg.RSIPeriod = 3
	analysisCfg.StochPeriod = 3
	analysisCfg.SmoothK = 2
	analysisCfg.SmoothD = 2
	analysisCfg.HLTPeriod = 3
	analysisCfg.VolumeWindow = 3
	analysisCfg.MomentumPeriod = 3
	analysisCfg.ShortRefPeriod = 2

	return config.Config{
		Platform:        "binance",
		Pair:            domain.Pair{From: "BTC", To: "USDT"},
		Interval:        "1d",
		LookbackPeriods: 60,
		Analysis:        analysisCfg,
	}
}

func analyzerTestCandles(n int) []domain.MarketCandle {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.MarketCandle, n)
	price := 100.0
	for i := range out {
		if i%2 == 0 {
			price *= 1.01
		} else {
			price *= 0.997
		}
		p := decimal.NewFromFloat(price)
		out[i] = domain.MarketCandle{
			OpenTime:  base.Add(time.Duration(i) * 24 * time.Hour),
			Open:      p,
			High:      p.Mul(decimal.NewFromFloat(1.02)),
			Low:       p.Mul(decimal.NewFromFloat(0.98)),
			Close:     p,
			Volume:    decimal.NewFromInt(10),
			CloseTime: base.Add(time.Duration(i+1) * 24 * time.Hour),
		}
	}
	return out
}

func newTestAnalyzer(t *testing.T, candles []domain.MarketCandle, journal *stagerecords.WalStore) *StageAnalyzer {
	t.Helper()
	conf := analyzerTestConfig()
	c := collector.NewMarketDataCollector(&fixedKlineProvider{candles: candles}, nil, conf.Pair)
	return NewStageAnalyzer(zap.NewNop(), c, analysis.NewMarketAnalyzer(zap.NewNop()), journal, conf)
}

func TestAnalyze(t *testing.T) {
	a := newTestAnalyzer(t, analyzerTestCandles(60), nil)

	result, err := a.Analyze(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.History.Records, 60)
	assert.True(t, result.Current.HasStage())
	assert.NotEmpty(t, result.Recommendation.Actions)
	require.NotNil(t, result.Trend, "60 candles cover the moving-average context")
	assert.Contains(t, result.Report, "BTCUSDT")
	assert.Contains(t, result.Report, "[Current Stage]")
}

func TestAnalyzeFailsBelowWarmup(t *testing.T) {
	a := newTestAnalyzer(t, analyzerTestCandles(5), nil)

	_, err := a.Analyze(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestAnalyzeJournalsLatestRecordOnce(t *testing.T) {
	store, err := stagerecords.NewWalStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	a := newTestAnalyzer(t, analyzerTestCandles(60), store)

	_, err = a.Analyze(context.Background())
	require.NoError(t, err)

	events, err := store.EventsAfter(0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "BTCUSDT", events[0].Symbol)

	// Re-analyzing the same series must not duplicate the journal entry.
	_, err = a.Analyze(context.Background())
	require.NoError(t, err)

	events, err = store.EventsAfter(0)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
