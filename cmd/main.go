// Command stagemon classifies the current market trend phase for one or
// more instruments. It fetches candles from Binance, Bybit or Hyperliquid,
// runs the stage classifier and prints a report; with web_addr set it also
// serves a live visualizer.
//
// Usage:
//
//	stagemon --config config.yaml
//	stagemon --platform binance --pair BTC_USDT --interval 1d
//	stagemon setup   (interactive configuration wizard)
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/turnDeep/elliott-wave-sentiment/config"
	"github.com/turnDeep/elliott-wave-sentiment/internal"
	"github.com/turnDeep/elliott-wave-sentiment/internal/domain"
	"github.com/turnDeep/elliott-wave-sentiment/internal/services/analyzer"
	"github.com/turnDeep/elliott-wave-sentiment/internal/setup"
	"github.com/turnDeep/elliott-wave-sentiment/internal/web"
)

const refreshInterval = 15 * time.Minute

var (
	reportStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1, 2)

	occupancyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#4d4d4d", Dark: "#9c9c9c"}).
			MarginTop(1)
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		os.Args = append(os.Args[:1], "--config", "config.gen.yaml")
	}

	configs, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for _, conf := range configs {
		a, err := internal.NewStageAnalyzer(logger, conf)
		if err != nil {
			logger.Fatal("failed to build analyzer", zap.Error(err))
		}

		result, err := a.Analyze(ctx)
		if err != nil {
			logger.Fatal("analysis failed",
				zap.String("pair", conf.Pair.String()),
				zap.Error(err))
		}
		printResult(result)

		if conf.WebAddr == "" {
			if journal := a.Journal(); journal != nil {
				if err := journal.Close(); err != nil {
					logger.Error("failed to close journal", zap.Error(err))
				}
			}
			continue
		}

		server := web.NewServer(conf.WebAddr, a.Journal())
		server.UpdateResult(result)

		results := make(chan *analyzer.Result, 1)
		g.Go(func() error {
			defer close(results)
			return a.Run(ctx, refreshInterval, results)
		})
		g.Go(func() error {
			for result := range results {
				server.UpdateResult(result)
			}
			return nil
		})
		g.Go(func() error {
			logger.Info("visualizer listening", zap.String("addr", conf.WebAddr))
			return server.Start(ctx)
		})
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Fatal("analyzer stopped", zap.Error(err))
	}
}

func printResult(result *analyzer.Result) {
	fmt.Println(reportStyle.Render(result.Report))
	fmt.Println(occupancyStyle.Render(formatOccupancy(result.History)))
}

// formatOccupancy summarizes how many classified steps the series spent in
// each stage.
func formatOccupancy(history domain.StageHistory) string {
	counts := history.Occupancy()
	if len(counts) == 0 {
		return "no classified records"
	}

	stages := make([]domain.StageLabel, 0, len(counts))
	for stage := range counts {
		stages = append(stages, stage)
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i] < stages[j] })

	out := "Stage occupancy:"
	for _, stage := range stages {
		out += fmt.Sprintf("\n  %-4s %3d", stage.String(), counts[stage])
	}
	return out
}
