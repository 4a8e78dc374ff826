// Package config loads versebot.yaml and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config flag is given.
const DefaultFile = "versebot.yaml"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	Reply     ReplyConfig     `yaml:"reply"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	JanitorInterval time.Duration `yaml:"janitor_interval"`
}

type CorpusConfig struct {
	// Source is a file path or an http(s) URL.
	Source  string        `yaml:"source"`
	Watch   bool          `yaml:"watch"`
	Timeout time.Duration `yaml:"timeout"`
}

type EmbeddingConfig struct {
	Provider  string        `yaml:"provider"` // ollama, genai, hashing, none
	OllamaURL string        `yaml:"ollama_url"`
	Model     string        `yaml:"model"`
	APIKey    string        `yaml:"api_key"`
	TaskType  string        `yaml:"task_type"`
	Dims      int           `yaml:"dims"`
	Timeout   time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	Backend string        `yaml:"backend"` // memory, sqlite, badger, none
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

type ReplyConfig struct {
	HistoryTurns int           `yaml:"history_turns"`
	RecencyLimit int           `yaml:"recency_limit"`
	ThinkMin     time.Duration `yaml:"think_min"`
	ThinkMax     time.Duration `yaml:"think_max"`
	UserPrefix   string        `yaml:"user_prefix"`
	BotPrefix    string        `yaml:"bot_prefix"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			SessionTTL:      30 * time.Minute,
			JanitorInterval: time.Minute,
		},
		Corpus: CorpusConfig{
			Source:  "frasi.txt",
			Timeout: 30 * time.Second,
		},
		Embedding: EmbeddingConfig{
			Provider:  "ollama",
			OllamaURL: "http://localhost:11434",
			Model:     "nomic-embed-text",
			TaskType:  "SEMANTIC_SIMILARITY",
			Dims:      256,
			Timeout:   60 * time.Second,
		},
		Cache: CacheConfig{
			Backend: "badger",
			Dir:     "./data",
			TTL:     7 * 24 * time.Hour,
		},
		Reply: ReplyConfig{
			HistoryTurns: 6,
			RecencyLimit: 3,
			ThinkMin:     380 * time.Millisecond,
			ThinkMax:     1230 * time.Millisecond,
			UserPrefix:   "Utente",
			BotPrefix:    "Bot",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("VERSEBOT_OLLAMA_URL"); v != "" {
		c.Embedding.OllamaURL = v
	}
	if v := os.Getenv("VERSEBOT_EMBED_MODEL"); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.Embedding.APIKey == "" {
		c.Embedding.APIKey = v
	}
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	var errs []error
	switch c.Embedding.Provider {
	case "ollama", "genai", "hashing", "none":
	default:
		errs = append(errs, fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider))
	}
	if c.Embedding.Provider == "genai" && c.Embedding.APIKey == "" {
		errs = append(errs, errors.New("embedding provider genai needs api_key or GEMINI_API_KEY"))
	}
	switch c.Cache.Backend {
	case "memory", "sqlite", "badger", "none":
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}
	if c.Reply.ThinkMin < 0 || c.Reply.ThinkMax < c.Reply.ThinkMin {
		errs = append(errs, fmt.Errorf("think range [%s, %s] is inverted", c.Reply.ThinkMin, c.Reply.ThinkMax))
	}
	if c.Reply.HistoryTurns < 0 {
		errs = append(errs, errors.New("history_turns must not be negative"))
	}
	if c.Corpus.Source == "" {
		errs = append(errs, errors.New("corpus source is empty"))
	}
	return errors.Join(errs...)
}
