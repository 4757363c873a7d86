// Package config loads and validates analyzer configuration from a YAML
// file or command-line flags.
package config

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/turnDeep/elliott-wave-sentiment/internal/domain"
)

const weightSumTolerance = 1e-9

// FearGreedWeights weighting of the Fear & Greed composite terms. The three
// weights must sum to 1.
type FearGreedWeights struct {
	Momentum   float64 `yaml:"momentum"`
	Volatility float64 `yaml:"volatility"`
	Volume     float64 `yaml:"volume"`
}

// AnalysisConfig enumerates every indicator and classifier option with its
// default. Validated once at entry; the engine never re-checks.
type AnalysisConfig struct {
	RSIPeriod        int              `yaml:"rsi_period"`
	StochPeriod      int              `yaml:"stoch_period"`
	SmoothK          int              `yaml:"smooth_k"`
	SmoothD          int              `yaml:"smooth_d"`
	HLTPeriod        int              `yaml:"hlt_period"`
	VolumeWindow     int              `yaml:"volume_window"`
	VolumeMultiplier float64          `yaml:"volume_multiplier"`
	MomentumPeriod   int              `yaml:"momentum_period"`
	ShortRefPeriod   int              `yaml:"short_ref_period"`
	FearGreedWeights FearGreedWeights `yaml:"fear_greed_weights"`
	// MinConsecutiveForTransition steps a supporting condition must hold
	// before an ordinary stage transition commits.
	MinConsecutiveForTransition int `yaml:"min_consecutive_for_transition"`
}

// DefaultAnalysisConfig returns the documented defaults.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		RSIPeriod:        14,
		StochPeriod:      14,
		SmoothK:          3,
		SmoothD:          3,
		HLTPeriod:        20,
		VolumeWindow:     20,
		VolumeMultiplier: 2.0,
		MomentumPeriod:   20,
		ShortRefPeriod:   5,
		FearGreedWeights: FearGreedWeights{
			Momentum:   0.4,
			Volatility: 0.35,
			Volume:     0.25,
		},
		MinConsecutiveForTransition: 2,
	}
}

// Validate rejects non-positive periods, a non-positive volume multiplier
// and Fear & Greed weights that do not sum to 1 within tolerance.
func (c AnalysisConfig) Validate() error {
	periods := map[string]int{
		"rsi_period":       c.RSIPeriod,
		"stoch_period":     c.StochPeriod,
		"smooth_k":         c.SmoothK,
		"smooth_d":         c.SmoothD,
		"hlt_period":       c.HLTPeriod,
		"volume_window":    c.VolumeWindow,
		"momentum_period":  c.MomentumPeriod,
		"short_ref_period": c.ShortRefPeriod,
	}
	for name, v := range periods {
		if v <= 0 {
			return errors.Wrapf(domain.ErrInvalidConfiguration, "%s must be positive, got %d", name, v)
		}
	}

	if c.VolumeMultiplier <= 0 {
		return errors.Wrapf(domain.ErrInvalidConfiguration, "volume_multiplier must be positive, got %g", c.VolumeMultiplier)
	}

	w := c.FearGreedWeights
	if w.Momentum < 0 || w.Volatility < 0 || w.Volume < 0 {
		return errors.Wrap(domain.ErrInvalidConfiguration, "fear_greed_weights must be non-negative")
	}
	sum := w.Momentum + w.Volatility + w.Volume
	if math.Abs(sum-1) > weightSumTolerance {
		return errors.Wrapf(domain.ErrInvalidConfiguration, "fear_greed_weights must sum to 1, got %g", sum)
	}

	if c.MinConsecutiveForTransition < 1 {
		return errors.Wrapf(domain.ErrInvalidConfiguration,
			"min_consecutive_for_transition must be at least 1, got %d", c.MinConsecutiveForTransition)
	}

	return nil
}

// WarmupLength returns the largest required lookback W across all configured
// indicators: the first W-1 timesteps of any series cannot produce a complete
// indicator snapshot.
func (c AnalysisConfig) WarmupLength() int {
	rsiFirst := c.RSIPeriod
	stochDFirst := rsiFirst + c.StochPeriod - 1 + (c.SmoothK - 1) + (c.SmoothD - 1)
	hltFirst := c.HLTPeriod - 1
	volumeFirst := c.VolumeWindow - 1
	// One MomentumPeriod-step return, z-scored against its trailing window.
	momentumFirst := c.MomentumPeriod + c.MomentumPeriod - 1

	first := stochDFirst
	for _, v := range []int{hltFirst, volumeFirst, momentumFirst, c.ShortRefPeriod - 1} {
		if v > first {
			first = v
		}
	}
	return first + 1
}

// Config one analysis target.
type Config struct {
	Platform string
	Pair     domain.Pair
	Interval string
	// APIKey and APISecret are optional; kline endpoints are public on
	// Binance and Bybit.
	APIKey    string
	APISecret string
	// PrivateKey signing key for Hyperliquid sessions.
	PrivateKey         string
	HyperliquidBaseURL string
	// LookbackPeriods candles to request from the market data provider.
	LookbackPeriods int
	// VIXURL volatility index endpoint; empty disables the feed.
	VIXURL string
	// WebAddr listen address of the visualizer endpoint; empty disables it.
	WebAddr string
	// JournalDir directory of the stage record journal; empty disables it.
	JournalDir string
	Analysis   AnalysisConfig
}

// ConfigTmp raw YAML shape before parsing and validation.
type ConfigTmp struct {
	Platform           string          `yaml:"platform"`
	Pair               string          `yaml:"pair"`
	Interval           string          `yaml:"interval"`
	APIKey             string          `yaml:"apikey,omitempty"`
	APISecret          string          `yaml:"apisecret,omitempty"`
	PrivateKey         string          `yaml:"private_key,omitempty"`
	HyperliquidBaseURL string          `yaml:"hyperliquid_base_url,omitempty"`
	LookbackPeriods    int             `yaml:"lookback_periods,omitempty"`
	VIXURL             string          `yaml:"vix_url,omitempty"`
	WebAddr            string          `yaml:"web_addr,omitempty"`
	JournalDir         string          `yaml:"journal_dir,omitempty"`
	Analysis           *AnalysisConfig `yaml:"analysis,omitempty"`
}

// Get loads configuration from the YAML file named by --config, or from
// CLI flags when no file is given.
func Get() ([]Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	platform := flag.String("platform", "binance", "market data platform: binance, bybit or hyperliquid")
	pairFlag := flag.String("pair", "BTC_USDT", "instrument pair, example: BTC_USDT")
	interval := flag.String("interval", "1d", "candle interval, example: 1h, 4h, 1d")
	lookback := flag.Int("lookback", 180, "number of candles to analyze")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	pair, err := getPairFromString(*pairFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid --pair provided, --pair=%s", *pairFlag)
	}

	cfg := Config{
		Platform:        *platform,
		Pair:            pair,
		Interval:        *interval,
		LookbackPeriods: *lookback,
		Analysis:        DefaultAnalysisConfig(),
	}
	if err := cfg.Analysis.Validate(); err != nil {
		return nil, err
	}

	return []Config{cfg}, nil
}

func getYaml(path string) ([]Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var configsTmp []ConfigTmp
	if err := yaml.Unmarshal(f, &configsTmp); err != nil {
		return nil, err
	}

	configs := make([]Config, 0, len(configsTmp))
	for _, c := range configsTmp {
		pair, err := getPairFromString(c.Pair)
		if err != nil {
			return nil, fmt.Errorf("incorrect 'pair' param in yaml config: %s, error: %w", c.Pair, err)
		}

		cfg := Config{
			Platform:           c.Platform,
			Pair:               pair,
			Interval:           c.Interval,
			APIKey:             c.APIKey,
			APISecret:          c.APISecret,
			PrivateKey:         c.PrivateKey,
			HyperliquidBaseURL: c.HyperliquidBaseURL,
			LookbackPeriods:    c.LookbackPeriods,
			VIXURL:             c.VIXURL,
			WebAddr:            c.WebAddr,
			JournalDir:         c.JournalDir,
			Analysis:           DefaultAnalysisConfig(),
		}
		if cfg.Platform == "" {
			cfg.Platform = "binance"
		}
		if cfg.Interval == "" {
			cfg.Interval = "1d"
		}
		if cfg.LookbackPeriods == 0 {
			cfg.LookbackPeriods = 180
		}
		if c.Analysis != nil {
			cfg.Analysis = mergeAnalysis(*c.Analysis)
		}
		if err := cfg.Analysis.Validate(); err != nil {
			return nil, err
		}

		configs = append(configs, cfg)
	}
	return configs, nil
}

// mergeAnalysis fills zero-valued options with their defaults so partial
// YAML blocks stay usable.
func mergeAnalysis(a AnalysisConfig) AnalysisConfig {
	def := DefaultAnalysisConfig()
	if a.RSIPeriod == 0 {
		a.RSIPeriod = def.RSIPeriod
	}
	if a.StochPeriod == 0 {
		a.StochPeriod = def.StochPeriod
	}
	if a.SmoothK == 0 {
		a.SmoothK = def.SmoothK
	}
	if a.SmoothD == 0 {
		a.SmoothD = def.SmoothD
	}
	if a.HLTPeriod == 0 {
		a.HLTPeriod = def.HLTPeriod
	}
	if a.VolumeWindow == 0 {
		a.VolumeWindow = def.VolumeWindow
	}
	if a.VolumeMultiplier == 0 {
		a.VolumeMultiplier = def.VolumeMultiplier
	}
	if a.MomentumPeriod == 0 {
		a.MomentumPeriod = def.MomentumPeriod
	}
	if a.ShortRefPeriod == 0 {
		a.ShortRefPeriod = def.ShortRefPeriod
	}
	if a.FearGreedWeights == (FearGreedWeights{}) {
		a.FearGreedWeights = def.FearGreedWeights
	}
	if a.MinConsecutiveForTransition == 0 {
		a.MinConsecutiveForTransition = def.MinConsecutiveForTransition
	}
	return a
}

func getPairFromString(pairStr string) (domain.Pair, error) {
	pairElements := strings.Split(pairStr, "_")
	if len(pairElements) != 2 {
		return domain.Pair{}, fmt.Errorf("invalid pair param")
	}
	return domain.Pair{From: pairElements[0], To: pairElements[1]}, nil
}
