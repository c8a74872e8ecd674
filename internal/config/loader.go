package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("NEWSTRACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("newstrace")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".newstrace"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("discovery.max_articles", cfg.Discovery.MaxArticles)
	v.SetDefault("discovery.max_sections", cfg.Discovery.MaxSections)
	v.SetDefault("discovery.crawl_sections", cfg.Discovery.CrawlSections)
	v.SetDefault("discovery.max_pages_per_section", cfg.Discovery.MaxPagesPerSection)
	v.SetDefault("discovery.section_target", cfg.Discovery.SectionTarget)
	v.SetDefault("discovery.crawl_timeout", cfg.Discovery.CrawlTimeout)
	v.SetDefault("discovery.api_page_size", cfg.Discovery.APIPageSize)
	v.SetDefault("discovery.api_max_pages", cfg.Discovery.APIMaxPages)
	v.SetDefault("discovery.min_delay", cfg.Discovery.MinDelay)
	v.SetDefault("discovery.max_delay", cfg.Discovery.MaxDelay)

	v.SetDefault("scraper.concurrency", cfg.Scraper.Concurrency)
	v.SetDefault("scraper.batch_size", cfg.Scraper.BatchSize)
	v.SetDefault("scraper.author_target", cfg.Scraper.AuthorTarget)

	v.SetDefault("fetcher.discovery_timeout", cfg.Fetcher.DiscoveryTimeout)
	v.SetDefault("fetcher.section_timeout", cfg.Fetcher.SectionTimeout)
	v.SetDefault("fetcher.article_timeout", cfg.Fetcher.ArticleTimeout)
	v.SetDefault("fetcher.profile_probe_timeout", cfg.Fetcher.ProfileProbeTimeout)
	v.SetDefault("fetcher.profile_page_timeout", cfg.Fetcher.ProfilePageTimeout)
	v.SetDefault("fetcher.stealth", cfg.Fetcher.Stealth)
	v.SetDefault("fetcher.user_agents", cfg.Fetcher.UserAgents)

	v.SetDefault("enrichment.profile_pages", cfg.Enrichment.ProfilePages)
	v.SetDefault("enrichment.profile_limit", cfg.Enrichment.ProfileLimit)
	v.SetDefault("enrichment.profile_workers", cfg.Enrichment.ProfileWorkers)
	v.SetDefault("enrichment.search", cfg.Enrichment.Search)
	v.SetDefault("enrichment.search_endpoint", cfg.Enrichment.SearchEndpoint)
	v.SetDefault("enrichment.search_limit", cfg.Enrichment.SearchLimit)
	v.SetDefault("enrichment.search_delay", cfg.Enrichment.SearchDelay)

	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.output_path", cfg.Storage.OutputPath)
	v.SetDefault("storage.mongo_db", cfg.Storage.MongoDB)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)

	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.port", cfg.Metrics.Port)
	v.SetDefault("metrics.path", cfg.Metrics.Path)
}
