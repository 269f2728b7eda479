package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings, loaded from the environment.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"local"`

	// Structured feed API (search-style JSON endpoint)
	StructuredAPIURL   string `env:"STRUCTURED_API_URL" envDefault:"https://newsdata.io/api/1/news"`
	StructuredAPIKey   string `env:"STRUCTURED_API_KEY"`
	StructuredLanguage string `env:"STRUCTURED_LANGUAGE" envDefault:"en"`
	StructuredPageSize int    `env:"STRUCTURED_PAGE_SIZE" envDefault:"10"`

	// RSS
	FeedsConfigPath string   `env:"FEEDS_CONFIG_PATH" envDefault:"configs/feeds.yaml"`
	RelayEndpoints  []string `env:"RELAY_ENDPOINTS" envSeparator:","`

	// LLM backend
	LLMProvider  string        `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	GeminiModel  string        `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	OpenAIAPIKey string        `env:"OPENAI_API_KEY"`
	OpenAIModel  string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	LLMRateRPS   float64       `env:"LLM_RATE_RPS" envDefault:"1"`
	LLMTimeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"30s"`

	// Rewriting
	ChunkBudget     int           `env:"CHUNK_BUDGET" envDefault:"3000"`
	RewriteCacheTTL time.Duration `env:"REWRITE_CACHE_TTL" envDefault:"6h"`

	// Storage collaborator
	PostgresDSN    string `env:"POSTGRES_DSN"`
	SecondaryLimit int    `env:"SECONDARY_LIMIT" envDefault:"10"`

	// Networking
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	RetryAttempts  int           `env:"RETRY_ATTEMPTS" envDefault:"2"`
	RetryDelay     time.Duration `env:"RETRY_DELAY" envDefault:"2s"`

	// Pipeline
	Category string `env:"NEWS_CATEGORY" envDefault:"cybersecurity"`

	// Monitoring
	MonitoringEnabled bool `env:"ENABLE_HTTP_MONITORING"`
	MonitoringPort    int  `env:"MONITORING_PORT" envDefault:"8080"`
}

// defaultRelays are public fetch relays tried, in order, when a direct feed
// fetch is blocked. Direct fetch is always attempted first.
var defaultRelays = []string{
	"https://api.allorigins.win/raw?url=",
	"https://api.codetabs.com/v1/proxy?quest=",
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if len(cfg.RelayEndpoints) == 0 {
		cfg.RelayEndpoints = defaultRelays
	}
	return cfg, nil
}

// FeedsConfig is the YAML feed-list file structure:
//
//	feeds:
//	  - https://...
type FeedsConfig struct {
	Feeds []string `yaml:"feeds"`
}

// LoadFeeds reads the RSS feed URL list from a YAML file.
func LoadFeeds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode feeds config: %w", err)
	}
	return cfg.Feeds, nil
}
