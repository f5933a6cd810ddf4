package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const defaultOuraBaseURL = "https://api.ouraring.com/v2/usercollection"

type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		CorsOrigins []string `yaml:"corsOrigins"`
	} `yaml:"server"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	Oura struct {
		BaseURL string `yaml:"baseUrl"`
	} `yaml:"oura"`

	Gemini struct {
		ApiKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`

	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// LoadConfig reads the configuration file and applies env overrides
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	// Secrets may come from the environment instead of the yaml file
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.Database.URI = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.ApiKey = v
	}
	if v := os.Getenv("OURA_BASE_URL"); v != "" {
		cfg.Oura.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Oura.BaseURL == "" {
		cfg.Oura.BaseURL = defaultOuraBaseURL
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-1.5-flash"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return &cfg, nil
}
