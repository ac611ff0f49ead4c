// soywatch — soy market news monitor for B3-linked tickers
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mvbarbosa/soywatch/api"
	"github.com/mvbarbosa/soywatch/internal/analyze"
	"github.com/mvbarbosa/soywatch/internal/config"
	"github.com/mvbarbosa/soywatch/internal/monitor"
	"github.com/mvbarbosa/soywatch/internal/sink"
	"github.com/mvbarbosa/soywatch/internal/source"
	"github.com/mvbarbosa/soywatch/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "soywatch",
	Short: "soywatch — soy market news monitor",
	Long: `soywatch polls news sources for headlines likely to move soy prices,
filters them against a keyword list, deduplicates what it has already
seen, and appends each hit as a readable alert block to a log file.
An optional HTTP API exposes status, alert history, and a WebSocket
stream for dashboards.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotenv(); err != nil {
			return err
		}
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		api.Version = version
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("soywatch %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Watch Command ---

var watchCmd = &cobra.Command{
	Use:   "watch [TICKER...]",
	Short: "Continuously poll news sources for soy-moving headlines",
	Long: `Poll the configured news sources on a fixed interval and append every
new relevant article to the alert log. With no arguments the tickers
come from the config file, falling back to every mapped ticker.

Examples:
  soywatch watch
  soywatch watch ADM BUNGE "FUT SJC"
  soywatch watch --interval 60 --language en --serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyWatchFlags(cmd)

		sources, err := buildSources()
		if err != nil {
			return err
		}
		an, err := buildAnalyzer()
		if err != nil {
			return err
		}

		f, err := os.OpenFile(cfg.Monitor.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open alert log: %w", err)
		}
		defer f.Close()
		sw := sink.New(io.MultiWriter(os.Stdout, f))

		mon := monitor.New(monitorOptions(tickersFromArgs(args)), sources, an, sw, log.Default())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		serve, _ := cmd.Flags().GetBool("serve")
		if serve || cfg.Server.Enabled {
			srv := api.NewServer(cfg, mon)
			mon.OnAlert(srv.PublishAlert)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.ListenAndServe(gctx, cfg.Server.Addr) })
			g.Go(func() error { return mon.Run(gctx) })
			return g.Wait()
		}

		return mon.Run(ctx)
	},
}

func init() {
	watchCmd.Flags().Int("interval", 0, "seconds between polling cycles")
	watchCmd.Flags().String("api-key", "", "NewsAPI key (overrides config and env)")
	watchCmd.Flags().String("language", "", "article language filter (ISO-639-1)")
	watchCmd.Flags().Int("lookback", 0, "search window in days")
	watchCmd.Flags().String("analyzer", "", "article analyzer: stub or lexicon")
	watchCmd.Flags().String("log-file", "", "alert log file path")
	watchCmd.Flags().Bool("serve", false, "also start the HTTP API server")
	watchCmd.Flags().String("addr", "", "HTTP API listen address")
}

// --- Query Command ---

var queryCmd = &cobra.Command{
	Use:   "query [TICKER]",
	Short: "Run a single news sweep for one ticker and print the matches",
	Long: `Run one fetch cycle for a single ticker and print each matched
article as an alert block on stdout. Cycle logs go to stderr so the
blocks stay pipeable.

Examples:
  soywatch query ADM
  soywatch query "FUT SJC" --lookback 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyWatchFlags(cmd)

		ticker := utils.NormalizeTicker(args[0])

		sources, err := buildSources()
		if err != nil {
			return err
		}
		an, err := buildAnalyzer()
		if err != nil {
			return err
		}

		mon := monitor.New(
			monitorOptions([]string{ticker}),
			sources,
			an,
			sink.New(os.Stdout),
			log.New(os.Stderr, "", log.LstdFlags),
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return mon.RunCycle(ctx)
	},
}

func init() {
	queryCmd.Flags().String("api-key", "", "NewsAPI key (overrides config and env)")
	queryCmd.Flags().String("language", "", "article language filter (ISO-639-1)")
	queryCmd.Flags().Int("lookback", 0, "search window in days")
	queryCmd.Flags().String("analyzer", "", "article analyzer: stub or lexicon")
}

// --- Check Command ---

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify configuration and news source reachability",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  soywatch — Configuration Check")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Market Status: %s\n", utils.MarketStatus())
		fmt.Printf("  Time (BRT):    %s\n", utils.FormatDateTimeBRT(utils.NowBRT()))
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    Interval:      %s\n", cfg.Monitor.Interval())
		fmt.Printf("    Language:      %s\n", cfg.NewsAPI.Language)
		fmt.Printf("    Lookback:      %d days\n", cfg.NewsAPI.LookbackDays)
		fmt.Printf("    Keywords:      %d terms\n", len(cfg.Monitor.Keywords))
		fmt.Printf("    Analyzer:      %s\n", cfg.Monitor.Analyzer)
		fmt.Printf("    Alert log:     %s\n", cfg.Monitor.LogFile)
		fmt.Println()

		fmt.Println("  API Keys:")
		for _, k := range config.CheckAPIKeys(cfg) {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-15s %s\n", k.Name+":", status)
		}
		fmt.Println()

		sources, err := buildSources()
		if err != nil {
			fmt.Printf("  Sources:       ❌ %v\n", err)
			fmt.Println("═══════════════════════════════════════")
			return err
		}

		fmt.Println("  Sources:")
		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		pings := make([]error, len(sources))
		g, gctx := errgroup.WithContext(ctx)
		for i, src := range sources {
			g.Go(func() error {
				pings[i] = src.Ping(gctx)
				return nil // non-fatal, reported below
			})
		}
		_ = g.Wait()

		for i, src := range sources {
			if pings[i] != nil {
				fmt.Printf("    %-15s ❌ %v\n", src.Name()+":", pings[i])
			} else {
				fmt.Printf("    %-15s ✅ reachable\n", src.Name()+":")
			}
		}
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the monitor headless with the HTTP API server",
	Long: `Run the monitor with alerts going only to the log file, and serve the
HTTP API. Intended for daemon deployments; dashboards consume
/api/status, /api/alerts, and the /ws/alerts stream.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if an, _ := cmd.Flags().GetString("analyzer"); an != "" {
			cfg.Monitor.Analyzer = an
		}

		sources, err := buildSources()
		if err != nil {
			return err
		}
		an, err := buildAnalyzer()
		if err != nil {
			return err
		}

		sw, err := sink.Open(cfg.Monitor.LogFile)
		if err != nil {
			return err
		}
		defer sw.Close()

		mon := monitor.New(monitorOptions(tickersFromArgs(nil)), sources, an, sw, log.Default())
		srv := api.NewServer(cfg, mon)
		mon.OnAlert(srv.PublishAlert)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Printf("Serving HTTP API on %s", cfg.Server.Addr)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.ListenAndServe(gctx, cfg.Server.Addr) })
		g.Go(func() error { return mon.Run(gctx) })
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "HTTP API listen address")
	serveCmd.Flags().String("analyzer", "", "article analyzer: stub or lexicon")
}

// --- Helpers ---

// applyWatchFlags copies explicitly set flags over the loaded config.
func applyWatchFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("interval") {
		cfg.Monitor.IntervalSeconds, _ = flags.GetInt("interval")
	}
	if flags.Changed("api-key") {
		cfg.NewsAPI.Key, _ = flags.GetString("api-key")
	}
	if flags.Changed("language") {
		cfg.NewsAPI.Language, _ = flags.GetString("language")
	}
	if flags.Changed("lookback") {
		cfg.NewsAPI.LookbackDays, _ = flags.GetInt("lookback")
	}
	if flags.Changed("analyzer") {
		cfg.Monitor.Analyzer, _ = flags.GetString("analyzer")
	}
	if flags.Changed("log-file") {
		cfg.Monitor.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("addr") {
		cfg.Server.Addr, _ = flags.GetString("addr")
	}
}

// tickersFromArgs resolves the ticker list: command line first, then the
// config file, then every mapped ticker.
func tickersFromArgs(args []string) []string {
	if len(args) > 0 {
		tickers := make([]string, len(args))
		for i, a := range args {
			tickers[i] = utils.NormalizeTicker(a)
		}
		return tickers
	}
	if len(cfg.Monitor.Tickers) > 0 {
		tickers := make([]string, len(cfg.Monitor.Tickers))
		for i, a := range cfg.Monitor.Tickers {
			tickers[i] = utils.NormalizeTicker(a)
		}
		return tickers
	}
	return utils.MappedTickers()
}

// monitorOptions maps the loaded config onto monitor options.
func monitorOptions(tickers []string) monitor.Options {
	return monitor.Options{
		Tickers:  tickers,
		Keywords: cfg.Monitor.Keywords,
		Language: cfg.NewsAPI.Language,
		Lookback: cfg.NewsAPI.Lookback(),
		Interval: cfg.Monitor.Interval(),
		PageSize: cfg.NewsAPI.PageSize,
	}
}

// buildAnalyzer selects the configured analyzer implementation.
func buildAnalyzer() (analyze.Analyzer, error) {
	switch cfg.Monitor.Analyzer {
	case "", "stub":
		return analyze.NewStub(), nil
	case "lexicon":
		return analyze.NewLexicon(), nil
	default:
		return nil, fmt.Errorf("unknown analyzer %q (available: stub, lexicon)", cfg.Monitor.Analyzer)
	}
}

// buildSources assembles the news sources the monitor polls. NewsAPI is
// included when a key is configured; feeds when enabled.
func buildSources() ([]source.Source, error) {
	var sources []source.Source
	if cfg.NewsAPI.Key != "" {
		sources = append(sources, source.NewNewsAPIWithBase(cfg.NewsAPI.Key, cfg.NewsAPI.BaseURL))
	}
	if cfg.Feeds.Enabled {
		feeds := cfg.Feeds.URLs
		if len(feeds) == 0 {
			feeds = source.DefaultFeeds
		}
		sources = append(sources, source.NewFeedSource(feeds))
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no news sources configured: set a NewsAPI key or enable feeds")
	}
	return sources, nil
}
