package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. HUB_SERVER_ADDR.
const EnvPrefix = "HUB"

// configName is the base name searched for when no --config is given.
const configName = "gateway"

// NewViper returns a viper instance wired for configFile (may be empty),
// the HUB_ environment prefix and all defaults.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		v.SetConfigFile(found)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	bindEnv(v)
	return v
}

// SetDefaults registers the default for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics_addr", "")
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("access.allowed_hosts", []string{"test.naitive.io"})
	v.SetDefault("access.dev_suffix", ".workers.dev")

	v.SetDefault("chat.min_delay", time.Second)
	v.SetDefault("chat.max_delay", 3*time.Second)
	v.SetDefault("chat.max_body_bytes", int64(1<<20))

	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("rate_limit.requests_per_minute", 0)
	v.SetDefault("log.level", "info")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter", "http")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.sample_rate", 1.0)

	v.SetDefault("rag.api_base_url", "https://api.cloudflare.com/client/v4")
	v.SetDefault("rag.account_id", "")
	v.SetDefault("rag.api_token", "")
	v.SetDefault("rag.bucket", "autorag-test-bucket")
	v.SetDefault("rag.name", "naitive-test-rag")
	v.SetDefault("rag.model", "@cf/meta/llama-3.3-70b-instruct-sd")
	v.SetDefault("rag.document", "test_document.md")
	v.SetDefault("rag.document_key", "documents/test_document.md")
	v.SetDefault("rag.timeout", 30*time.Second)
	v.SetDefault("rag.max_results", 5)
	v.SetDefault("rag.ai_max_results", 10)
	v.SetDefault("rag.score_threshold", 0.3)
}

// bindEnv adds the unprefixed variable names the original deployment used.
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("environment", EnvPrefix+"_ENVIRONMENT", "ENVIRONMENT")
	_ = v.BindEnv("rag.api_token", EnvPrefix+"_RAG_API_TOKEN", "CLOUDFLARE_API_TOKEN")
	_ = v.BindEnv("rag.account_id", EnvPrefix+"_RAG_ACCOUNT_ID", "CLOUDFLARE_ACCOUNT_ID")
}

// findConfigFile looks for gateway.yaml/.yml in the working directory and
// $HOME/.naitive-hub.
func findConfigFile() string {
	home, _ := os.UserHomeDir()
	paths := []string{"."}
	if home != "" {
		paths = append(paths, filepath.Join(home, ".naitive-hub"))
	}
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, configName+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Load reads the config file (if any), applies environment overrides and
// returns the unvalidated configuration.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		// No file found anywhere is fine; an explicit file that is missing
		// or malformed is not.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
