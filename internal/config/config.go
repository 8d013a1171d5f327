package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	ServiceName = "autotts"
	Version     = "1.0.0"
)

type Config struct {
	Server   ServerConfig
	TTS      TTSConfig
	Engines  EnginesConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host         string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port         int           `env:"SERVER_PORT" envDefault:"8000"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"120s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
}

type TTSConfig struct {
	DefaultLanguage    string `env:"DEFAULT_LANGUAGE" envDefault:"en"`
	AutoDetectLanguage bool   `env:"AUTO_DETECT_LANGUAGE" envDefault:"true"`
	DefaultVoice       string `env:"DEFAULT_VOICE" envDefault:"alloy"`
	DefaultModel       string `env:"DEFAULT_MODEL" envDefault:"tts-1"`
}

type EnginesConfig struct {
	OpenAI OpenAIEngineConfig
	Piper  PiperEngineConfig
}

// Quality scores are tunable per engine. The only hard requirement is the
// ordering 0 < voice-fallback < full-support, which selection relies on.
type OpenAIEngineConfig struct {
	Enabled              bool    `env:"ENGINE_OPENAI_ENABLED" envDefault:"true"`
	APIKey               string  `env:"OPENAI_API_KEY"`
	BaseURL              string  `env:"ENGINE_OPENAI_BASE_URL"`
	Model                string  `env:"ENGINE_OPENAI_MODEL" envDefault:"tts-1"`
	RequestsPerSecond    float64 `env:"ENGINE_OPENAI_RPS" envDefault:"8"`
	QualityFull          float64 `env:"ENGINE_OPENAI_QUALITY_FULL" envDefault:"0.9"`
	QualityVoiceFallback float64 `env:"ENGINE_OPENAI_QUALITY_VOICE_FALLBACK" envDefault:"0.7"`
}

type PiperEngineConfig struct {
	Enabled              bool    `env:"ENGINE_PIPER_ENABLED" envDefault:"false"`
	BinaryPath           string  `env:"ENGINE_PIPER_BINARY" envDefault:"piper"`
	ModelPath            string  `env:"ENGINE_PIPER_MODEL"`
	SampleRate           int     `env:"ENGINE_PIPER_SAMPLE_RATE" envDefault:"22050"`
	QualityPrimary       float64 `env:"ENGINE_PIPER_QUALITY_PRIMARY" envDefault:"0.85"`
	QualitySecondary     float64 `env:"ENGINE_PIPER_QUALITY_SECONDARY" envDefault:"0.75"`
	QualityVoiceFallback float64 `env:"ENGINE_PIPER_QUALITY_VOICE_FALLBACK" envDefault:"0.6"`
}

type CacheConfig struct {
	Enabled  bool          `env:"ENABLE_CACHE" envDefault:"true"`
	Backend  string        `env:"CACHE_BACKEND" envDefault:"fs"`
	Dir      string        `env:"CACHE_DIR" envDefault:"cache"`
	Compress bool          `env:"CACHE_COMPRESS" envDefault:"false"`
	RedisTTL time.Duration `env:"CACHE_REDIS_TTL" envDefault:"0"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type DatabaseConfig struct {
	URL            string `env:"DATABASE_URL"`
	MaxConns       int    `env:"DB_MAX_CONNS" envDefault:"20"`
	MinConns       int    `env:"DB_MIN_CONNS" envDefault:"5"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
}

// APIKeys is the static bearer-key allowlist. Empty means auth is off,
// which matches the open-by-default posture of the speech endpoint.
type AuthConfig struct {
	APIKeys []string `env:"API_KEYS" envSeparator:","`
}

type WorkerConfig struct {
	Concurrency int `env:"WORKER_CONCURRENCY" envDefault:"10"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var problems []string
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("SERVER_PORT out of range: %d", c.Server.Port))
	}
	if c.Cache.Backend != "fs" && c.Cache.Backend != "redis" {
		problems = append(problems, fmt.Sprintf("CACHE_BACKEND must be fs or redis, got %q", c.Cache.Backend))
	}
	if c.TTS.DefaultLanguage == "" {
		problems = append(problems, "DEFAULT_LANGUAGE must not be empty")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
