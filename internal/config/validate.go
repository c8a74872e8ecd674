package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Discovery.MaxArticles < 1 {
		return fmt.Errorf("discovery.max_articles must be >= 1, got %d", cfg.Discovery.MaxArticles)
	}
	if cfg.Discovery.CrawlSections < 1 {
		return fmt.Errorf("discovery.crawl_sections must be >= 1, got %d", cfg.Discovery.CrawlSections)
	}
	if cfg.Discovery.MaxPagesPerSection < 1 {
		return fmt.Errorf("discovery.max_pages_per_section must be >= 1, got %d", cfg.Discovery.MaxPagesPerSection)
	}
	if cfg.Discovery.MinDelay < 0 || cfg.Discovery.MaxDelay < cfg.Discovery.MinDelay {
		return fmt.Errorf("discovery delays invalid: min=%s max=%s", cfg.Discovery.MinDelay, cfg.Discovery.MaxDelay)
	}
	if cfg.Discovery.APIMaxPages < 1 {
		return fmt.Errorf("discovery.api_max_pages must be >= 1, got %d", cfg.Discovery.APIMaxPages)
	}

	if cfg.Scraper.Concurrency < 1 || cfg.Scraper.Concurrency > 1000 {
		return fmt.Errorf("scraper.concurrency must be 1-1000, got %d", cfg.Scraper.Concurrency)
	}
	if cfg.Scraper.BatchSize < 1 {
		return fmt.Errorf("scraper.batch_size must be >= 1, got %d", cfg.Scraper.BatchSize)
	}
	if cfg.Scraper.AuthorTarget < 0 {
		return fmt.Errorf("scraper.author_target must be >= 0, got %d", cfg.Scraper.AuthorTarget)
	}

	if cfg.Fetcher.ArticleTimeout <= 0 || cfg.Fetcher.SectionTimeout <= 0 || cfg.Fetcher.DiscoveryTimeout <= 0 {
		return fmt.Errorf("fetcher timeouts must be > 0")
	}

	if cfg.Enrichment.Search && cfg.Enrichment.SearchAPIKey == "" {
		return fmt.Errorf("enrichment.search enabled but enrichment.search_api_key is empty")
	}

	validStorageTypes := map[string]bool{
		"json": true, "csv": true, "mongo": true,
	}
	if !validStorageTypes[cfg.Storage.Type] {
		return fmt.Errorf("storage.type %q is not supported (valid: json, csv, mongo)", cfg.Storage.Type)
	}
	if cfg.Storage.Type == "mongo" && cfg.Storage.MongoURI == "" {
		return fmt.Errorf("storage.type is mongo but storage.mongo_uri is empty")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	return nil
}

// ValidateURL checks if a URL string is usable as a crawl base.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
