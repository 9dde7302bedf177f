package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment
// variables. Placeholders in the YAML file (${VAR_NAME}) are expanded from
// the environment before parsing, and any key can be overridden with a
// PROPSCOUT_ prefixed variable (dots become underscores). A missing file is
// not an error so the service can run on defaults and env alone.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix("PROPSCOUT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "propscout")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.websocket_port", "8081")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "propscout")
	v.SetDefault("database.user", "propscout")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.enabled", true)

	v.SetDefault("nba.base_url", "https://stats.nba.com/stats")
	v.SetDefault("nba.timeout_seconds", 30)
	v.SetDefault("nba.max_retries", 3)
	v.SetDefault("nba.requests_per_second", 1.5)

	v.SetDefault("odds.enabled", false)

	v.SetDefault("metrics.enabled", true)
}
