package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config structure
type Config struct {
	LLMProvider     string `json:"llmProvider"`
	APIKey          string `json:"apiKey"`
	BaseURL         string `json:"baseUrl"`
	ModelName       string `json:"modelName"`
	MaxTokens       int    `json:"maxTokens"`
	TemplatesDir    string `json:"templatesDir"`
	OutputDir       string `json:"outputDir"`
	IntermediateDir string `json:"intermediateDir"`
	ScratchDir      string `json:"scratchDir"`
	DataDir         string `json:"dataDir"`
	LogDir          string `json:"logDir"`
	DefaultTemplate string `json:"defaultTemplate"`
	DetailedLog     bool   `json:"detailedLog"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		LLMProvider:     "OpenAI",
		ModelName:       "gpt-4o",
		MaxTokens:       4096,
		TemplatesDir:    "templates",
		OutputDir:       "output",
		IntermediateDir: "intermediate",
		ScratchDir:      "tmp_pptx",
		DataDir:         "data",
		LogDir:          "logs",
		DefaultTemplate: "1カラムテキスト",
	}
}

// Load reads the config file at path, filling unset fields with defaults.
// A missing file is not an error. The OPENAI_API_KEY environment variable,
// when set, overrides the stored API key.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "OpenAI"
	}
	if cfg.ModelName == "" {
		cfg.ModelName = Default().ModelName
	}
	if cfg.DefaultTemplate == "" {
		cfg.DefaultTemplate = Default().DefaultTemplate
	}

	return cfg, nil
}

// Save writes the config as indented JSON, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
