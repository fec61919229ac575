package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment.
// Priority (highest to lowest): env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("NEWSGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("newsgraph")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".newsgraph"))
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
	v.SetDefault("fetcher.user_agent", cfg.Fetcher.UserAgent)
	v.SetDefault("fetcher.max_attempts", cfg.Fetcher.MaxAttempts)
	v.SetDefault("fetcher.retry_delay", cfg.Fetcher.RetryDelay)
	v.SetDefault("fetcher.request_timeout", cfg.Fetcher.RequestTimeout)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)
	v.SetDefault("fetcher.follow_redirects", cfg.Fetcher.FollowRedirects)
	v.SetDefault("fetcher.max_redirects", cfg.Fetcher.MaxRedirects)
	v.SetDefault("fetcher.idle_conn_timeout", cfg.Fetcher.IdleConnTimeout)
	v.SetDefault("fetcher.max_idle_conns", cfg.Fetcher.MaxIdleConns)

	v.SetDefault("browser.navigate_timeout", cfg.Browser.NavigateTimeout)
	v.SetDefault("browser.stable_window", cfg.Browser.StableWindow)
	v.SetDefault("browser.stealth", cfg.Browser.Stealth)
	v.SetDefault("browser.rendered_hosts", cfg.Browser.RenderedHosts)

	v.SetDefault("extract.min_paragraph_len", cfg.Extract.MinParagraphLen)
	v.SetDefault("extract.max_keywords", cfg.Extract.MaxKeywords)

	v.SetDefault("enrichment.endpoint", cfg.Enrichment.Endpoint)
	v.SetDefault("enrichment.timeout", cfg.Enrichment.Timeout)
	v.SetDefault("enrichment.enabled", cfg.Enrichment.Enabled)

	v.SetDefault("graph.entity_namespace", cfg.Graph.EntityNamespace)

	v.SetDefault("store.base_url", cfg.Store.BaseURL)
	v.SetDefault("store.dataset", cfg.Store.Dataset)
	v.SetDefault("store.write_timeout", cfg.Store.WriteTimeout)
	v.SetDefault("store.query_timeout", cfg.Store.QueryTimeout)

	v.SetDefault("archive.enabled", cfg.Archive.Enabled)
	v.SetDefault("archive.uri", cfg.Archive.URI)
	v.SetDefault("archive.database", cfg.Archive.Database)
	v.SetDefault("archive.collection", cfg.Archive.Collection)

	v.SetDefault("api.port", cfg.API.Port)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
