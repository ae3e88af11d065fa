// Package config holds the gateway and ragprobe configuration.
package config

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvProduction is the only environment value that disables the development bypass.
const EnvProduction = "production"

// Config is the full configuration tree. It is loaded once at start-up and
// treated as read-only afterwards.
type Config struct {
	Environment string          `mapstructure:"environment" yaml:"environment"`
	Server      ServerConfig    `mapstructure:"server" yaml:"server"`
	Access      AccessConfig    `mapstructure:"access" yaml:"access"`
	Chat        ChatConfig      `mapstructure:"chat" yaml:"chat"`
	CORS        CORSConfig      `mapstructure:"cors" yaml:"cors"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
	Log         LogConfig       `mapstructure:"log" yaml:"log"`
	Tracing     TracingConfig   `mapstructure:"tracing" yaml:"tracing"`
	RAG         RAGConfig       `mapstructure:"rag" yaml:"rag"`
}

// ServerConfig configures the HTTP listeners.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr" yaml:"addr" validate:"required,hostname_port"`
	MetricsAddr       string        `mapstructure:"metrics_addr" yaml:"metrics_addr" validate:"omitempty,hostname_port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gt=0"`
}

// AccessConfig configures the hostname allow-list gate.
type AccessConfig struct {
	AllowedHosts []string `mapstructure:"allowed_hosts" yaml:"allowed_hosts" validate:"required,min=1,dive,required"`
	DevSuffix    string   `mapstructure:"dev_suffix" yaml:"dev_suffix"`
}

// ChatConfig configures the mock chat endpoint.
type ChatConfig struct {
	MinDelay     time.Duration `mapstructure:"min_delay" yaml:"min_delay" validate:"gte=0"`
	MaxDelay     time.Duration `mapstructure:"max_delay" yaml:"max_delay" validate:"gte=0"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes" validate:"gt=0"`
}

// CORSConfig enables CORS when AllowedOrigins is non-empty.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// RateLimitConfig enables per-IP rate limiting when RequestsPerMinute > 0.
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute" yaml:"requests_per_minute" validate:"gte=0"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled" yaml:"enabled"`
	Exporter   string  `mapstructure:"exporter" yaml:"exporter" validate:"omitempty,oneof=http stdout"`
	Endpoint   string  `mapstructure:"endpoint" yaml:"endpoint"`
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate" validate:"gte=0,lte=1"`
}

// RAGConfig configures the ragprobe CLI against the AutoRAG REST API.
type RAGConfig struct {
	APIBaseURL     string        `mapstructure:"api_base_url" yaml:"api_base_url"`
	AccountID      string        `mapstructure:"account_id" yaml:"account_id"`
	APIToken       string        `mapstructure:"api_token" yaml:"api_token"`
	Bucket         string        `mapstructure:"bucket" yaml:"bucket"`
	Name           string        `mapstructure:"name" yaml:"name"`
	Model          string        `mapstructure:"model" yaml:"model"`
	Document       string        `mapstructure:"document" yaml:"document"`
	DocumentKey    string        `mapstructure:"document_key" yaml:"document_key"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxResults     int           `mapstructure:"max_results" yaml:"max_results"`
	AIMaxResults   int           `mapstructure:"ai_max_results" yaml:"ai_max_results"`
	ScoreThreshold float64       `mapstructure:"score_threshold" yaml:"score_threshold"`
}

// IsProduction reports whether the development bypass must be disabled.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// EnvironmentName returns the configured environment, "development" when unset.
func (c *Config) EnvironmentName() string {
	if c.Environment == "" {
		return "development"
	}
	return c.Environment
}

// Dump writes the configuration as YAML with secrets redacted.
func (c *Config) Dump(w io.Writer) error {
	out := *c
	if out.RAG.APIToken != "" {
		out.RAG.APIToken = "REDACTED"
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
