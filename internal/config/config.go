package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Root      string `yaml:"root"`
		RawOutDir string `yaml:"raw_out_dir"` // where raw model output is mirrored, empty disables
	} `yaml:"project"`
	AI struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"` // OpenAI-compatible endpoints only
	} `yaml:"ai"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Project.Root = "."
	cfg.AI.Provider = "gemini"
	cfg.AI.Model = "gemini-2.0-flash"
	cfg.Log.Level = "info"
	return cfg
}

// LoadConfig reads the YAML config at path, falling back to defaults when the
// file does not exist. Environment variables always win over file values.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if apiKey := os.Getenv("DOCSTRINGER_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if provider := os.Getenv("DOCSTRINGER_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}
	if model := os.Getenv("DOCSTRINGER_AI_MODEL"); model != "" {
		cfg.AI.Model = model
	}

	return cfg, nil
}
