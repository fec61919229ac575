package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for newsgraph.
type Config struct {
	Fetcher    FetcherConfig    `mapstructure:"fetcher"    yaml:"fetcher"`
	Browser    BrowserConfig    `mapstructure:"browser"    yaml:"browser"`
	Extract    ExtractConfig    `mapstructure:"extract"    yaml:"extract"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment" yaml:"enrichment"`
	Graph      GraphConfig      `mapstructure:"graph"      yaml:"graph"`
	Store      StoreConfig      `mapstructure:"store"      yaml:"store"`
	Archive    ArchiveConfig    `mapstructure:"archive"    yaml:"archive"`
	API        APIConfig        `mapstructure:"api"        yaml:"api"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
}

// FetcherConfig controls the plain HTTP page fetcher.
type FetcherConfig struct {
	UserAgent       string        `mapstructure:"user_agent"        yaml:"user_agent"`
	MaxAttempts     int           `mapstructure:"max_attempts"      yaml:"max_attempts"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"       yaml:"retry_delay"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   yaml:"request_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
}

// BrowserConfig controls the rendered-page fallback.
type BrowserConfig struct {
	NavigateTimeout time.Duration `mapstructure:"navigate_timeout" yaml:"navigate_timeout"`
	StableWindow    time.Duration `mapstructure:"stable_window"    yaml:"stable_window"`
	Stealth         bool          `mapstructure:"stealth"          yaml:"stealth"`
	// RenderedHosts lists URL substrings that force the rendered path;
	// these hosts inject their structured data client-side.
	RenderedHosts []string `mapstructure:"rendered_hosts" yaml:"rendered_hosts"`
}

// ExtractConfig controls plain-text extraction.
type ExtractConfig struct {
	MinParagraphLen int `mapstructure:"min_paragraph_len" yaml:"min_paragraph_len"`
	MaxKeywords     int `mapstructure:"max_keywords"      yaml:"max_keywords"`
}

// EnrichmentConfig controls the external knowledge-base lookups.
type EnrichmentConfig struct {
	Endpoint string        `mapstructure:"endpoint" yaml:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"  yaml:"timeout"`
	Enabled  bool          `mapstructure:"enabled"  yaml:"enabled"`
}

// GraphConfig controls graph construction.
type GraphConfig struct {
	// EntityNamespace is the fixed prefix under which person and
	// organization nodes are minted. Keeping it stable across deployments
	// is what lets the same entity share one node across articles.
	EntityNamespace string `mapstructure:"entity_namespace" yaml:"entity_namespace"`
}

// StoreConfig controls the triple-store connection.
type StoreConfig struct {
	BaseURL      string        `mapstructure:"base_url"      yaml:"base_url"`
	Dataset      string        `mapstructure:"dataset"       yaml:"dataset"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	QueryTimeout time.Duration `mapstructure:"query_timeout" yaml:"query_timeout"`
}

// ArchiveConfig controls the optional raw-extraction archive.
type ArchiveConfig struct {
	Enabled    bool   `mapstructure:"enabled"    yaml:"enabled"`
	URI        string `mapstructure:"uri"        yaml:"uri"`
	Database   string `mapstructure:"database"   yaml:"database"`
	Collection string `mapstructure:"collection" yaml:"collection"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Port int `mapstructure:"port" yaml:"port"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Fetcher: FetcherConfig{
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			MaxAttempts:     3,
			RetryDelay:      2 * time.Second,
			RequestTimeout:  10 * time.Second,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			FollowRedirects: true,
			MaxRedirects:    10,
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
		},
		Browser: BrowserConfig{
			NavigateTimeout: 30 * time.Second,
			StableWindow:    300 * time.Millisecond,
			Stealth:         false,
			RenderedHosts:   []string{"youtube.com"},
		},
		Extract: ExtractConfig{
			MinParagraphLen: 10,
			MaxKeywords:     10,
		},
		Enrichment: EnrichmentConfig{
			Endpoint: "https://query.wikidata.org/sparql",
			Timeout:  10 * time.Second,
			Enabled:  true,
		},
		Graph: GraphConfig{
			EntityNamespace: "http://newsgraph.io",
		},
		Store: StoreConfig{
			BaseURL:      "http://localhost:3030",
			Dataset:      "NEPR-2024",
			WriteTimeout: 10 * time.Second,
			QueryTimeout: 30 * time.Second,
		},
		Archive: ArchiveConfig{
			Enabled:    false,
			URI:        "mongodb://localhost:27017",
			Database:   "newsgraph",
			Collection: "extractions",
		},
		API: APIConfig{
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
