package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for NewsTrace. It is constructed once at
// process start and passed by reference into every component that needs it;
// there is no ambient global state.
type Config struct {
	Discovery  DiscoveryConfig  `mapstructure:"discovery"  yaml:"discovery"`
	Scraper    ScraperConfig    `mapstructure:"scraper"    yaml:"scraper"`
	Fetcher    FetcherConfig    `mapstructure:"fetcher"    yaml:"fetcher"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment" yaml:"enrichment"`
	Storage    StorageConfig    `mapstructure:"storage"    yaml:"storage"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"    yaml:"metrics"`
}

// DiscoveryConfig controls article URL discovery.
type DiscoveryConfig struct {
	MaxArticles        int           `mapstructure:"max_articles"          yaml:"max_articles"`
	MaxSections        int           `mapstructure:"max_sections"          yaml:"max_sections"`
	CrawlSections      int           `mapstructure:"crawl_sections"        yaml:"crawl_sections"`
	MaxPagesPerSection int           `mapstructure:"max_pages_per_section" yaml:"max_pages_per_section"`
	SectionTarget      int           `mapstructure:"section_target"        yaml:"section_target"`
	CrawlTimeout       time.Duration `mapstructure:"crawl_timeout"         yaml:"crawl_timeout"`
	APIPageSize        int           `mapstructure:"api_page_size"         yaml:"api_page_size"`
	APIMaxPages        int           `mapstructure:"api_max_pages"         yaml:"api_max_pages"`
	MinDelay           time.Duration `mapstructure:"min_delay"             yaml:"min_delay"`
	MaxDelay           time.Duration `mapstructure:"max_delay"             yaml:"max_delay"`
}

// ScraperConfig controls the article worker pool.
type ScraperConfig struct {
	Concurrency  int `mapstructure:"concurrency"   yaml:"concurrency"`
	BatchSize    int `mapstructure:"batch_size"    yaml:"batch_size"`
	AuthorTarget int `mapstructure:"author_target" yaml:"author_target"`
}

// FetcherConfig controls the headless browser fetcher. Timeout budgets differ
// by caller urgency: short budgets bias toward throughput at high volume.
type FetcherConfig struct {
	DiscoveryTimeout    time.Duration `mapstructure:"discovery_timeout"     yaml:"discovery_timeout"`
	SectionTimeout      time.Duration `mapstructure:"section_timeout"       yaml:"section_timeout"`
	ArticleTimeout      time.Duration `mapstructure:"article_timeout"       yaml:"article_timeout"`
	ProfileProbeTimeout time.Duration `mapstructure:"profile_probe_timeout" yaml:"profile_probe_timeout"`
	ProfilePageTimeout  time.Duration `mapstructure:"profile_page_timeout"  yaml:"profile_page_timeout"`
	Stealth             bool          `mapstructure:"stealth"               yaml:"stealth"`
	UserAgents          []string      `mapstructure:"user_agents"           yaml:"user_agents"`
}

// EnrichmentConfig controls profile-page and external-search enrichment.
type EnrichmentConfig struct {
	ProfilePages   bool          `mapstructure:"profile_pages"   yaml:"profile_pages"`
	ProfileLimit   int           `mapstructure:"profile_limit"   yaml:"profile_limit"`
	ProfileWorkers int           `mapstructure:"profile_workers" yaml:"profile_workers"`
	Search         bool          `mapstructure:"search"          yaml:"search"`
	SearchAPIKey   string        `mapstructure:"search_api_key"  yaml:"search_api_key"`
	SearchEndpoint string        `mapstructure:"search_endpoint" yaml:"search_endpoint"`
	SearchLimit    int           `mapstructure:"search_limit"    yaml:"search_limit"`
	SearchDelay    time.Duration `mapstructure:"search_delay"    yaml:"search_delay"`
}

// StorageConfig controls output and persistence.
type StorageConfig struct {
	Type       string `mapstructure:"type"        yaml:"type"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
	MongoURI   string `mapstructure:"mongo_uri"   yaml:"mongo_uri"`
	MongoDB    string `mapstructure:"mongo_db"    yaml:"mongo_db"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig controls the metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Discovery: DiscoveryConfig{
			MaxArticles:        300,
			MaxSections:        15,
			CrawlSections:      5,
			MaxPagesPerSection: 20,
			SectionTarget:      100,
			CrawlTimeout:       5 * time.Minute,
			APIPageSize:        100,
			APIMaxPages:        20,
			MinDelay:           500 * time.Millisecond,
			MaxDelay:           1 * time.Second,
		},
		Scraper: ScraperConfig{
			Concurrency:  10,
			BatchSize:    100,
			AuthorTarget: 30,
		},
		Fetcher: FetcherConfig{
			DiscoveryTimeout:    10 * time.Second,
			SectionTimeout:      5 * time.Second,
			ArticleTimeout:      3 * time.Second,
			ProfileProbeTimeout: 5 * time.Second,
			ProfilePageTimeout:  8 * time.Second,
			Stealth:             false,
			UserAgents: []string{
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
		},
		Enrichment: EnrichmentConfig{
			ProfilePages:   true,
			ProfileLimit:   50,
			ProfileWorkers: 5,
			Search:         false,
			SearchEndpoint: "https://serpapi.com/search",
			SearchLimit:    30,
			SearchDelay:    1 * time.Second,
		},
		Storage: StorageConfig{
			Type:       "json",
			OutputPath: "./output",
			MongoDB:    "newstrace",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
