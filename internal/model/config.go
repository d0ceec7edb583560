package model

import "time"

// Config holds all emailqa settings
type Config struct {
	Input       InputConfig       `yaml:"input" mapstructure:"input"`
	Rules       RulesConfig       `yaml:"rules" mapstructure:"rules"`
	Compare     CompareConfig     `yaml:"compare" mapstructure:"compare"`
	Probe       ProbeConfig       `yaml:"probe" mapstructure:"probe"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// InputConfig bounds how copy documents and emails are read
type InputConfig struct {
	MaxBytes int64         `yaml:"max_bytes" mapstructure:"max_bytes"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"` // for http(s) sources
}

// RulesConfig locates client rule files
type RulesConfig struct {
	Dir      string        `yaml:"dir" mapstructure:"dir"`
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"` // 0 keeps schemas until reload
}

// CompareConfig tunes requirements-versus-email matching
type CompareConfig struct {
	CaseSensitive bool `yaml:"case_sensitive" mapstructure:"case_sensitive"`
	Strict        bool `yaml:"strict" mapstructure:"strict"` // subject must equal an approved line exactly
}

// ProbeConfig controls optional link reachability probing
type ProbeConfig struct {
	Enabled       bool          `yaml:"enabled" mapstructure:"enabled"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Workers       int           `yaml:"workers" mapstructure:"workers"`
	RatePerSecond float64       `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	Burst         int           `yaml:"burst" mapstructure:"burst"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	CacheDir      string        `yaml:"cache_dir" mapstructure:"cache_dir"`
	CacheTTL      time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// ConcurrencyConfig bounds batch processing
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers" mapstructure:"batch_workers"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
	IncludeBody   bool `yaml:"include_body" mapstructure:"include_body"` // markdown rendering of the email body
}

// LLMConfig configures the optional review summary
type LLMConfig struct {
	Provider    string `yaml:"provider" mapstructure:"provider"` // "", openai, ollama
	Model       string `yaml:"model" mapstructure:"model"`
	APIKey      string `yaml:"-" mapstructure:"api_key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Timeout     int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	StrictLinks bool   `yaml:"strict_links" mapstructure:"strict_links"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			MaxBytes: 20 << 20,
			Timeout:  30 * time.Second,
		},
		Rules: RulesConfig{
			Dir: "rules/clients",
		},
		Probe: ProbeConfig{
			Enabled:       false,
			Timeout:       5 * time.Second,
			Workers:       8,
			RatePerSecond: 2,
			Burst:         4,
			UserAgent:     "emailqa/0.1 (+https://github.com/ppiankov/emailqa)",
			RespectRobots: false,
			CacheTTL:      time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Timeout:     30,
			MaxTokens:   600,
			StrictLinks: true,
		},
	}
}
