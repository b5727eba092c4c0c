package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"rfc-mirror/pkg/domain"
	"rfc-mirror/pkg/httpclient"
	"rfc-mirror/pkg/index"
	"rfc-mirror/pkg/store"
	"rfc-mirror/pkg/worker"
)

// Config defines configuration for an RFC mirror run.
// Default returns the fixed reference settings; the file and environment only override them.
type Config struct {
	IndexURL    string        `yaml:"index_url"`
	FeedURL     string        `yaml:"feed_url"`
	CountSource string        `yaml:"count_source"`
	URLPattern  string        `yaml:"url_pattern"`
	DestDir     string        `yaml:"dest_dir"`
	FilePrefix  string        `yaml:"file_prefix"`
	Workers     int           `yaml:"workers"`
	Pipelined   bool          `yaml:"pipeline"`
	Timeout     time.Duration `yaml:"timeout"`
	UserAgents  []string      `yaml:"user_agents"`
	Accept      string        `yaml:"accept"`
}

// Default returns the reference configuration.
// DestDir is resolved against the invoking user's home directory.
func Default() (Config, error) {
	dest, err := store.DefaultDir()
	if err != nil {
		return Config{}, err
	}

	return Config{
		IndexURL:    index.DefaultIndexURL,
		FeedURL:     index.DefaultFeedURL,
		CountSource: index.SourceTable,
		URLPattern:  worker.DefaultURLPattern,
		DestDir:     dest,
		FilePrefix:  domain.DefaultFilePrefix,
		Workers:     worker.DefaultWorkerCount,
		Pipelined:   false,
		Timeout:     httpclient.DefaultTimeout,
		UserAgents:  append([]string(nil), httpclient.DefaultUserAgents...),
		Accept:      httpclient.DefaultAccept,
	}, nil
}

// yamlConfig is used for YAML unmarshaling with a string timeout and optional bool.
type yamlConfig struct {
	IndexURL    string   `yaml:"index_url"`
	FeedURL     string   `yaml:"feed_url"`
	CountSource string   `yaml:"count_source"`
	URLPattern  string   `yaml:"url_pattern"`
	DestDir     string   `yaml:"dest_dir"`
	FilePrefix  string   `yaml:"file_prefix"`
	Workers     int      `yaml:"workers"`
	Pipelined   *bool    `yaml:"pipeline"`
	Timeout     string   `yaml:"timeout"`
	UserAgents  []string `yaml:"user_agents"`
	Accept      string   `yaml:"accept"`
}

// LoadFromFile overlays the YAML file at path onto cfg
func LoadFromFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	if yc.IndexURL != "" {
		cfg.IndexURL = yc.IndexURL
	}
	if yc.FeedURL != "" {
		cfg.FeedURL = yc.FeedURL
	}
	if yc.CountSource != "" {
		cfg.CountSource = yc.CountSource
	}
	if yc.URLPattern != "" {
		cfg.URLPattern = yc.URLPattern
	}
	if yc.DestDir != "" {
		cfg.DestDir = yc.DestDir
	}
	if yc.FilePrefix != "" {
		cfg.FilePrefix = yc.FilePrefix
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	if yc.Pipelined != nil {
		cfg.Pipelined = *yc.Pipelined
	}
	if yc.Timeout != "" {
		d, err := time.ParseDuration(yc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if len(yc.UserAgents) > 0 {
		cfg.UserAgents = yc.UserAgents
	}
	if yc.Accept != "" {
		cfg.Accept = yc.Accept
	}

	return cfg, nil
}

// ApplyEnv overrides cfg from RFC_DEST_DIR, RFC_WORKERS and RFC_PIPELINE
func ApplyEnv(cfg Config) (Config, error) {
	cfg.DestDir = getEnvOrDefault("RFC_DEST_DIR", cfg.DestDir)

	if v := os.Getenv("RFC_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse RFC_WORKERS: %w", err)
		}
		cfg.Workers = n
	}

	if v := os.Getenv("RFC_PIPELINE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse RFC_PIPELINE: %w", err)
		}
		cfg.Pipelined = b
	}

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.DestDir == "" {
		return errors.New("dest_dir is required")
	}
	if c.IndexURL == "" && c.CountSource != index.SourceFeed {
		return errors.New("index_url is required")
	}
	if c.FeedURL == "" && (c.CountSource == index.SourceFeed || c.CountSource == index.SourceMax) {
		return errors.New("feed_url is required for count_source " + c.CountSource)
	}
	switch c.CountSource {
	case index.SourceTable, index.SourceFeed, index.SourceMax:
	default:
		return fmt.Errorf("count_source must be %s, %s or %s", index.SourceTable, index.SourceFeed, index.SourceMax)
	}
	if c.URLPattern == "" {
		return errors.New("url_pattern is required")
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
