package model

import "time"

// Config holds the complete pmicheck configuration
type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Eligibility EligibilityConfig `yaml:"eligibility" mapstructure:"eligibility"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Session     SessionConfig     `yaml:"session" mapstructure:"session"`
	Report      ReportConfig      `yaml:"report" mapstructure:"report"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// ServerConfig configures the HTTP front end
type ServerConfig struct {
	Addr         string          `yaml:"addr" mapstructure:"addr"`
	ReadTimeout  time.Duration   `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration   `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration   `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	SecureCookie bool            `yaml:"secure_cookie" mapstructure:"secure_cookie"`
	RateLimit    RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// RateLimitConfig bounds requests per client
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
	MaxClients        int     `yaml:"max_clients" mapstructure:"max_clients"` // tracked client keys before eviction
}

// EligibilityConfig configures the scoring service client
type EligibilityConfig struct {
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"` // 0 waits indefinitely
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RateLimit    float64       `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second to the service, batch mode
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig configures the scoring response cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Backend   string        `yaml:"backend" mapstructure:"backend"` // memory, disk, layered, redis
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	TTL       time.Duration `yaml:"ttl" mapstructure:"ttl"`
	RedisAddr string        `yaml:"redis_addr" mapstructure:"redis_addr"`
}

// SessionConfig configures where survey sessions are kept
type SessionConfig struct {
	Backend   string        `yaml:"backend" mapstructure:"backend"` // memory, redis
	TTL       time.Duration `yaml:"ttl" mapstructure:"ttl"`
	RedisAddr string        `yaml:"redis_addr" mapstructure:"redis_addr"`
}

// ReportConfig configures result rendering
type ReportConfig struct {
	// TrustMessageHTML inserts the service's eligibility message without sanitizing it
	TrustMessageHTML bool `yaml:"trust_message_html" mapstructure:"trust_message_html"`
}

// LLMConfig configures the optional plain-language explanation
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ConcurrencyConfig configures batch runs
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"`
}

// OutputConfig configures console output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 5,
				Burst:             10,
				MaxClients:        10000,
			},
		},
		Eligibility: EligibilityConfig{
			BaseURL:      "https://pmi-cancellation-api.onrender.com",
			UserAgent:    "pmicheck/0.1",
			MaxBodyBytes: 1 << 20,
			RateLimit:    2,
		},
		Cache: CacheConfig{
			Enabled: false,
			Backend: "memory",
			Dir:     ".pmicheck-cache",
			TTL:     24 * time.Hour,
		},
		Session: SessionConfig{
			Backend: "memory",
			TTL:     2 * time.Hour,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 400,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
	}
}
