package setup

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/turnDeep/elliott-wave-sentiment/config"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// RunTUI launches the terminal configuration wizard.
func RunTUI() error {
	var (
		platform    string
		pair        string
		interval    string
		lookbackStr string
		vixURL      string
		webAddr     string
		journalDir  string
		weightsStr  string
		confirm     bool
	)

	// defaults
	interval = "1d"
	lookbackStr = "180"
	weightsStr = "0.4,0.35,0.25"

	// step 1: welcome
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("STAGE ANALYZER CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Let's set up your market stage monitor.\n"))

	// platform
	fmt.Println(stepStyle.Render("STEP 1: PLATFORM"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select Market Data Platform").
				Options(
					huh.NewOption("Binance", "binance"),
					huh.NewOption("Bybit", "bybit"),
					huh.NewOption("Hyperliquid", "hyperliquid"),
				).
				Value(&platform),
		),
	).Run()
	if err != nil {
		return err
	}

	// pair
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("STAGE ANALYZER CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: ASSET"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Instrument Pair").
				Description("Must contain underscore (e.g. BTC_USDT)").
				Value(&pair).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("pair cannot be empty")
					}
					if !containsUnderscore(s) {
						return fmt.Errorf("invalid format: must be BASE_QUOTE (e.g. BTC_USDT)")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// timeframe
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("STAGE ANALYZER CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: TIMEFRAME"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Candle Interval").
				Options(
					huh.NewOption("1 hour", "1h"),
					huh.NewOption("4 hours", "4h"),
					huh.NewOption("1 day", "1d"),
				).
				Value(&interval),
			huh.NewInput().
				Title("Lookback Periods").
				Description("Number of candles to analyze (min 50)").
				Value(&lookbackStr).
				Validate(validateLookback),
		),
	).Run()
	if err != nil {
		return err
	}

	// optional integrations
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("STAGE ANALYZER CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 4: INTEGRATIONS"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Volatility Index URL").
				Description("Optional; VIX-style observations endpoint, empty to disable").
				Value(&vixURL),
			huh.NewInput().
				Title("Web Visualizer Address").
				Description("Optional; e.g. :8080, empty to disable").
				Value(&webAddr),
			huh.NewInput().
				Title("Journal Directory").
				Description("Optional; directory for the stage record journal").
				Value(&journalDir),
			huh.NewInput().
				Title("Fear & Greed Weights").
				Description("momentum,volatility,volume; must sum to 1").
				Value(&weightsStr).
				Validate(validateWeights),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirmation
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("STAGE ANALYZER CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Platform: %s\nPair: %s\nInterval: %s\nLookback: %s\nWeights: %s\n",
		platform, pair, interval, lookbackStr, weightsStr,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save and start").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	lookback, _ := strconv.Atoi(lookbackStr)
	momentum, volatility, volume, _ := parseWeights(weightsStr)

	analysis := config.DefaultAnalysisConfig()
	analysis.FearGreedWeights = config.FearGreedWeights{
		Momentum:   momentum,
		Volatility: volatility,
		Volume:     volume,
	}

	cfgTmp := config.ConfigTmp{
		Platform:        platform,
		Pair:            pair,
		Interval:        interval,
		LookbackPeriods: lookback,
		VIXURL:          vixURL,
		WebAddr:         webAddr,
		JournalDir:      journalDir,
		Analysis:        &analysis,
	}

	data, err := yaml.Marshal([]config.ConfigTmp{cfgTmp})
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s\nStarting analyzer...", filename)))
	time.Sleep(1500 * time.Millisecond) // small pause to read success message
	return nil
}

func validateLookback(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if n < 50 {
		return fmt.Errorf("must be at least 50")
	}
	return nil
}

func validateWeights(s string) error {
	_, _, _, err := parseWeights(s)
	return err
}

func parseWeights(s string) (momentum, volatility, volume float64, err error) {
	var parts [3]float64
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("expected three comma-separated weights")
	}
	sum := 0.0
	for i, f := range fields {
		v, perr := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if perr != nil {
			return 0, 0, 0, fmt.Errorf("weight %q is not a number", f)
		}
		if v < 0 {
			return 0, 0, 0, fmt.Errorf("weights must be non-negative")
		}
		parts[i] = v
		sum += v
	}
	if sum < 0.999 || sum > 1.001 {
		return 0, 0, 0, fmt.Errorf("weights must sum to 1, got %g", sum)
	}
	return parts[0], parts[1], parts[2], nil
}

func containsUnderscore(s string) bool {
	for _, r := range s {
		if r == '_' {
			return true
		}
	}
	return false
}
