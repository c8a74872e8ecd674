package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/newstrace/newstrace/internal/config"
	"github.com/newstrace/newstrace/internal/pipeline"
)

var (
	cfgFile      string
	verbose      bool
	outputPath   string
	outputType   string
	maxArticles  int
	concurrent   int
	authorTarget int
	noProfiles   bool
	searchKey    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "newstrace",
		Short: "Journalist discovery for news websites",
		Long: `NewsTrace maps the journalists behind a news website.

Given an outlet name or site URL it discovers article URLs (JSON API first,
section crawl as fallback), scrapes each article for its byline and metadata,
validates and aggregates authors into per-journalist profiles, and enriches
them from on-site profile pages and an optional external search API.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(discoverCmd())
	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runCmd creates the "run" subcommand: the full pipeline.
func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [outlet or url]",
		Short: "Trace a news outlet end to end",
		Long:  "Resolve the outlet, discover and scrape its articles, and write the aggregated journalist profiles.",
		Args:  cobra.ExactArgs(1),
		RunE:  runRun,
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "./output", "output directory")
	cmd.Flags().StringVarP(&outputType, "format", "f", "json", "output format: json, csv, mongo")
	cmd.Flags().IntVarP(&maxArticles, "max-articles", "m", 0, "max article URLs to discover (0 = config default)")
	cmd.Flags().IntVarP(&concurrent, "concurrency", "n", 0, "scrape workers (0 = config default)")
	cmd.Flags().IntVar(&authorTarget, "author-target", 0, "stop scraping once this many distinct authors are found (0 = config default)")
	cmd.Flags().BoolVar(&noProfiles, "no-profiles", false, "skip on-site profile page enrichment")
	cmd.Flags().StringVar(&searchKey, "search-key", "", "search API key for external enrichment")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	if cfg.Metrics.Enabled {
		if err := p.Metrics().StartServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Warn("failed to start metrics server", "error", err)
		}
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	stats, err := p.Run(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("\nTrace complete in %s\n", stats.Duration.Round(time.Millisecond))
	fmt.Printf("   Site:      %s\n", stats.Site)
	fmt.Printf("   URLs:      %d discovered\n", stats.URLsDiscovered)
	fmt.Printf("   Articles:  %d scraped\n", stats.ArticlesScraped)
	fmt.Printf("   Authors:   %d found\n", stats.AuthorsFound)
	fmt.Printf("   Output:    %s\n", cfg.Storage.OutputPath)

	if stats.ArticlesScraped == 0 {
		fmt.Println("\nNo articles could be parsed from the discovered URLs.")
		fmt.Println("Try raising timeouts in the config, or run with -v to see per-page errors.")
	}
	return nil
}

// discoverCmd creates the "discover" subcommand: URL discovery only.
func discoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover [outlet or url]",
		Short: "List a site's article URLs without scraping them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(args[0], stageDiscover)
		},
	}
	cmd.Flags().IntVarP(&maxArticles, "max-articles", "m", 0, "max article URLs to discover (0 = config default)")
	return cmd
}

// scrapeCmd creates the "scrape" subcommand: scrape explicit URLs.
func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [url...]",
		Short: "Scrape specific article URLs and print the records",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runScrape,
	}
	cmd.Flags().IntVarP(&concurrent, "concurrency", "n", 0, "scrape workers (0 = config default)")
	return cmd
}

// resolveCmd creates the "resolve" subcommand: outlet name to URL.
func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [outlet]",
		Short: "Resolve an outlet name to its website URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(args[0], stageResolve)
		},
	}
}

type stage int

const (
	stageResolve stage = iota
	stageDiscover
)

// runStage runs the pipeline front half and prints the intermediate result.
func runStage(target string, s stage) error {
	logger := setupLogger()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := signalContext(logger)
	defer cancel()

	switch s {
	case stageResolve:
		site, err := p.ResolveOutlet(ctx, target)
		if err != nil {
			return err
		}
		fmt.Println(site)
	case stageDiscover:
		urls, err := p.DiscoverURLs(ctx, target)
		if err != nil {
			return err
		}
		for _, u := range urls {
			fmt.Println(u)
		}
		logger.Info("discovery complete", "urls", len(urls))
	}
	return nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)
	for _, rawURL := range args {
		if err := config.ValidateURL(rawURL); err != nil {
			return fmt.Errorf("invalid URL %q: %w", rawURL, err)
		}
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	ctx, cancel := signalContext(logger)
	defer cancel()

	records := p.ScrapeURLs(ctx, args)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("NewsTrace %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Discovery:\n")
			fmt.Printf("  Max Articles:       %d\n", cfg.Discovery.MaxArticles)
			fmt.Printf("  Max Sections:       %d\n", cfg.Discovery.MaxSections)
			fmt.Printf("  Crawl Sections:     %d\n", cfg.Discovery.CrawlSections)
			fmt.Printf("  Section Target:     %d\n", cfg.Discovery.SectionTarget)
			fmt.Printf("  Crawl Timeout:      %s\n", cfg.Discovery.CrawlTimeout)
			fmt.Printf("\nScraper:\n")
			fmt.Printf("  Concurrency:        %d\n", cfg.Scraper.Concurrency)
			fmt.Printf("  Batch Size:         %d\n", cfg.Scraper.BatchSize)
			fmt.Printf("  Author Target:      %d\n", cfg.Scraper.AuthorTarget)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Discovery Timeout:  %s\n", cfg.Fetcher.DiscoveryTimeout)
			fmt.Printf("  Section Timeout:    %s\n", cfg.Fetcher.SectionTimeout)
			fmt.Printf("  Article Timeout:    %s\n", cfg.Fetcher.ArticleTimeout)
			fmt.Printf("  Stealth:            %v\n", cfg.Fetcher.Stealth)
			fmt.Printf("  User Agents:        %d configured\n", len(cfg.Fetcher.UserAgents))
			fmt.Printf("\nEnrichment:\n")
			fmt.Printf("  Profile Pages:      %v\n", cfg.Enrichment.ProfilePages)
			fmt.Printf("  Profile Limit:      %d\n", cfg.Enrichment.ProfileLimit)
			fmt.Printf("  Search:             %v\n", cfg.Enrichment.Search)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:               %s\n", cfg.Storage.Type)
			fmt.Printf("  Output Path:        %s\n", cfg.Storage.OutputPath)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:            %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:               %d\n", cfg.Metrics.Port)
			return nil
		},
	}
}

// setupLogger creates a structured logger.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// signalContext cancels on SIGINT/SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down...", "signal", sig)
		cancel()
	}()
	return ctx, cancel
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if outputPath != "" {
		cfg.Storage.OutputPath = outputPath
	}
	if outputType != "" {
		cfg.Storage.Type = strings.ToLower(outputType)
	}
	if maxArticles > 0 {
		cfg.Discovery.MaxArticles = maxArticles
	}
	if concurrent > 0 {
		cfg.Scraper.Concurrency = concurrent
	}
	if authorTarget > 0 {
		cfg.Scraper.AuthorTarget = authorTarget
	}
	if noProfiles {
		cfg.Enrichment.ProfilePages = false
	}
	if searchKey != "" {
		cfg.Enrichment.Search = true
		cfg.Enrichment.SearchAPIKey = searchKey
	}
}
