package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config carries the runtime settings for the analytics service.
type Config struct {
	ServiceName string
	HTTPPort    int
	CSVPath     string
	LogLevel    string
}

type configFile struct {
	Service struct {
		Name     string `yaml:"name"`
		HTTPPort int    `yaml:"http_port"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"service"`
	Data struct {
		CSVPath string `yaml:"csv_path"`
	} `yaml:"data"`
}

// Load builds the configuration from defaults, an optional YAML file and
// FINANCEGUARD_* environment overrides, in that order of precedence.
func Load(path string) (Config, error) {
	cfg := Config{
		ServiceName: "financeguard",
		HTTPPort:    8080,
		CSVPath:     "transactions.csv",
		LogLevel:    "info",
	}

	if raw, err := os.ReadFile(path); err == nil {
		var file configFile
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		if file.Service.Name != "" {
			cfg.ServiceName = file.Service.Name
		}
		if file.Service.HTTPPort != 0 {
			cfg.HTTPPort = file.Service.HTTPPort
		}
		if file.Service.LogLevel != "" {
			cfg.LogLevel = file.Service.LogLevel
		}
		if file.Data.CSVPath != "" {
			cfg.CSVPath = file.Data.CSVPath
		}
	}

	cfg.ServiceName = envOrDefault("FINANCEGUARD_SERVICE_NAME", cfg.ServiceName)
	cfg.HTTPPort = envInt("FINANCEGUARD_HTTP_PORT", cfg.HTTPPort)
	cfg.CSVPath = envOrDefault("FINANCEGUARD_CSV_PATH", cfg.CSVPath)
	cfg.LogLevel = envOrDefault("FINANCEGUARD_LOG_LEVEL", cfg.LogLevel)

	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}
