package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Storage struct {
		Type    string `yaml:"type"` // "file" or "redis"
		DataDir string `yaml:"data_dir"`
	} `yaml:"storage"`
	Redis struct {
		Addr      string `yaml:"addr"`
		Password  string `yaml:"password"`
		DB        int    `yaml:"db"`
		KeyPrefix string `yaml:"key_prefix"`
	} `yaml:"redis"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		Linger       time.Duration `yaml:"linger"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		Async        bool          `yaml:"async"`
	} `yaml:"kafka"`
	Quotes struct {
		APIKey   string        `yaml:"api_key"`
		BaseURL  string        `yaml:"base_url"`
		Interval string        `yaml:"interval"` // candle interval, e.g. "5min"
		Timeout  time.Duration `yaml:"timeout"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
		Symbols  []string      `yaml:"symbols"`
	} `yaml:"quotes"`
	Advisor struct {
		APIKey      string        `yaml:"api_key"`
		BaseURL     string        `yaml:"base_url"`
		Model       string        `yaml:"model"`
		Temperature float64       `yaml:"temperature"`
		MaxTokens   int           `yaml:"max_tokens"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"advisor"`
	Monitor struct {
		UpdateInterval  time.Duration `yaml:"update_interval"`
		SymbolDelay     time.Duration `yaml:"symbol_delay"`
		MinConfidence   int           `yaml:"min_confidence"`
		HistoryCapacity int           `yaml:"history_capacity"`
		AutoStart       bool          `yaml:"auto_start"`
	} `yaml:"monitor"`
	Webhook struct {
		Timeout  time.Duration `yaml:"timeout"`
		Username string        `yaml:"username"`
	} `yaml:"webhook"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		c.Quotes.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Advisor.APIKey = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Quotes.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("STORAGE"); v != "" {
		c.Storage.Type = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("MIN_CONFIDENCE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Monitor.MinConfidence = n
		}
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Storage.Type == "" {
		c.Storage.Type = "file"
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "data"
	}
	if c.Quotes.BaseURL == "" {
		c.Quotes.BaseURL = "https://www.alphavantage.co/query"
	}
	if c.Quotes.Interval == "" {
		c.Quotes.Interval = "5min"
	}
	if c.Quotes.Timeout <= 0 {
		c.Quotes.Timeout = 10 * time.Second
	}
	if c.Advisor.BaseURL == "" {
		c.Advisor.BaseURL = "https://api.openai.com/v1"
	}
	if c.Advisor.Model == "" {
		c.Advisor.Model = "gpt-4o-mini"
	}
	if c.Advisor.MaxTokens <= 0 {
		c.Advisor.MaxTokens = 200
	}
	if c.Advisor.Timeout <= 0 {
		c.Advisor.Timeout = 15 * time.Second
	}
	if c.Monitor.UpdateInterval <= 0 {
		c.Monitor.UpdateInterval = time.Minute
	}
	if c.Monitor.SymbolDelay <= 0 {
		c.Monitor.SymbolDelay = 500 * time.Millisecond
	}
	if c.Monitor.MinConfidence <= 0 {
		c.Monitor.MinConfidence = 70
	}
	if c.Monitor.HistoryCapacity <= 0 {
		c.Monitor.HistoryCapacity = 1000
	}
	if c.Webhook.Timeout <= 0 {
		c.Webhook.Timeout = 10 * time.Second
	}
	if c.Webhook.Username == "" {
		c.Webhook.Username = "StockTiming Pro"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Storage.Type != "file" && c.Storage.Type != "redis" {
		return fmt.Errorf("storage.type must be 'file' or 'redis', got '%s'", c.Storage.Type)
	}
	if c.Storage.Type == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required for redis storage")
	}
	if len(c.Quotes.Symbols) == 0 {
		return fmt.Errorf("quotes.symbols cannot be empty")
	}
	if c.Monitor.MinConfidence < 0 || c.Monitor.MinConfidence > 100 {
		return fmt.Errorf("monitor.min_confidence must be within [0,100]")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse is enabled")
	}
	return nil
}
