package internal

import (
	"fmt"
	"net/http"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/turnDeep/elliott-wave-sentiment/config"
	"github.com/turnDeep/elliott-wave-sentiment/internal/clients"
	"github.com/turnDeep/elliott-wave-sentiment/internal/services/analyzer"
	"github.com/turnDeep/elliott-wave-sentiment/internal/services/market/analysis"
	"github.com/turnDeep/elliott-wave-sentiment/internal/services/market/collector"
	"github.com/turnDeep/elliott-wave-sentiment/internal/storage/stagerecords"
)

// ServiceProvider defines a factory interface for creating platform-specific services.
type ServiceProvider interface {
	KlineProvider() (collector.KlineProvider, error)
}

// NewServiceProvider creates a new service provider based on the client type.
// This is the single point of truth for dispatching to platform-specific implementations.
func NewServiceProvider(client any) (ServiceProvider, error) {
	switch c := client.(type) {
	case *binance.Client:
		return &binanceProvider{client: c}, nil
	case *bybit.Client:
		return &bybitProvider{client: c}, nil
	case *clients.HyperliquidClient:
		return &hyperliquidProvider{client: c}, nil
	default:
		return nil, fmt.Errorf("unsupported client type: %T", client)
	}
}

// NewClient builds the exchange client named by the platform setting.
func NewClient(conf config.Config) (any, error) {
	switch conf.Platform {
	case "binance":
		return clients.NewBinanceClient(conf.APIKey, conf.APISecret), nil
	case "bybit":
		return clients.NewBybitClient(conf.APIKey, conf.APISecret), nil
	case "hyperliquid":
		return clients.NewHyperliquidClient(conf.PrivateKey, conf.HyperliquidBaseURL)
	default:
		return nil, fmt.Errorf("unsupported platform: %s", conf.Platform)
	}
}

type binanceProvider struct {
	client *binance.Client
}

func (p *binanceProvider) KlineProvider() (collector.KlineProvider, error) {
	return collector.NewBinanceKlineProvider(p.client), nil
}

type bybitProvider struct {
	client *bybit.Client
}

func (p *bybitProvider) KlineProvider() (collector.KlineProvider, error) {
	return collector.NewBybitKlineProvider(p.client), nil
}

type hyperliquidProvider struct {
	client *clients.HyperliquidClient
}

func (p *hyperliquidProvider) KlineProvider() (collector.KlineProvider, error) {
	return collector.NewHyperliquidKlineProvider(p.client.Exchange().Info()), nil
}

// NewStageAnalyzer wires the full analysis pipeline for the configured
// platform: exchange client, kline provider, optional volatility feed,
// journal store and the analyzer itself.
func NewStageAnalyzer(logger *zap.Logger, conf config.Config) (*analyzer.StageAnalyzer, error) {
	client, err := NewClient(conf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create exchange client")
	}

	provider, err := NewServiceProvider(client)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create service provider")
	}

	klineProvider, err := provider.KlineProvider()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create kline provider")
	}

	var volatility collector.VolatilityProvider
	if conf.VIXURL != "" {
		volatility = collector.NewIndexClient(conf.VIXURL, &http.Client{})
	}

	marketCollector := collector.NewMarketDataCollector(klineProvider, volatility, conf.Pair)

	var store *stagerecords.WalStore
	if conf.JournalDir != "" {
		store, err = stagerecords.NewWalStore(conf.JournalDir)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open stage record journal")
		}
	}

	return analyzer.NewStageAnalyzer(
		logger,
		marketCollector,
		analysis.NewMarketAnalyzer(logger),
		store,
		conf,
	), nil
}
