package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Environment controls which optional surfaces are exposed, e.g. the
// debug signal-dump endpoint only in development.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

type Config struct {
	Version     string      `koanf:"version"`
	Environment Environment `koanf:"environment"`
	LogLevel    string      `koanf:"log_level"`

	Server    ServerConfig    `koanf:"server"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Evaluator EvaluatorConfig `koanf:"evaluator"`
	Cache     CacheConfig     `koanf:"cache"`
	Redis     RedisConfig     `koanf:"redis"`
	OTel      OTelConfig      `koanf:"otel"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// RateLimitConfig mirrors spec §6's recognized rateLimit.* options.
type RateLimitConfig struct {
	Enabled              bool `koanf:"enabled"`
	MaxRequestsPerMinute int  `koanf:"max_requests_per_minute"`
	// Backend selects the admission-control implementation: "memory" (default)
	// or "redis" for the distributed sliding-window variant.
	Backend string `koanf:"backend"`
}

// EvaluatorConfig mirrors spec §6's evaluator.modelVersion option.
type EvaluatorConfig struct {
	ModelVersion string `koanf:"model_version"`
	// MLScorerEnabled toggles the mock ML risk-factor contribution.
	MLScorerEnabled bool `koanf:"ml_scorer_enabled"`
}

// CacheConfig controls the optional Redis read-through cache sitting in
// front of the analysis store. It shares RedisConfig's connection.
type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

// RedisConfig is only consulted when RateLimit.Backend or Cache.Enabled
// is set to use Redis; it is otherwise unused.
type RedisConfig struct {
	URL          string        `koanf:"url"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	PoolSize     int           `koanf:"pool_size"`
	MinIdleConns int           `koanf:"min_idle_conns"`
	MaxRetries   int           `koanf:"max_retries"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type OTelConfig struct {
	Enabled      bool    `koanf:"enabled"`
	OTLPEndpoint string  `koanf:"otlp_endpoint"`
	SamplingRate float64 `koanf:"sampling_rate"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := &Config{
		Version:     "dev",
		Environment: EnvDevelopment,
		LogLevel:    "info",
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:              true,
			MaxRequestsPerMinute: 100,
			Backend:              "memory",
		},
		Evaluator: EvaluatorConfig{
			ModelVersion:    "1.0.0-dev",
			MLScorerEnabled: true,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     15 * time.Minute,
		},
		Redis: RedisConfig{
			URL:          "redis://localhost:6379",
			DB:           0,
			PoolSize:     10,
			MinIdleConns: 2,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		OTel: OTelConfig{
			Enabled:      false,
			OTLPEndpoint: "localhost:4317",
			SamplingRate: 1.0,
		},
	}

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := k.Load(file.Provider("configs/config.yaml"), yaml.Parser()); err != nil {
		// config file is optional
	}

	if err := k.Load(env.Provider("BG_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "BG_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
