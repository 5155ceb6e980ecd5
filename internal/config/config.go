package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderNone       = "none"
)

// defaultModels holds the model used per provider when LLM_MODEL is unset.
var defaultModels = map[string]string{
	ProviderGemini:     "gemini-2.5-flash",
	ProviderOpenRouter: "google/gemini-2.5-flash",
}

type Config struct {
	HTTPAddr          string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel          slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	LLMProvider       string        `env:"LLM_PROVIDER" envDefault:"gemini"`
	LLMModel          string        `env:"LLM_MODEL"`
	LLMFallbackModels []string      `env:"LLM_FALLBACK_MODELS" envSeparator:","`
	LLMTemperature    float32       `env:"LLM_TEMPERATURE" envDefault:"1"`
	LLMTimeout        time.Duration `env:"LLM_TIMEOUT" envDefault:"10s"`
	APIKey            string        `env:"API_KEY"`
	OpenRouterBaseURL string        `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	MinDelay          time.Duration `env:"DIVINATION_MIN_DELAY" envDefault:"2500ms"`
}

// Load reads the configuration from the environment. A missing API_KEY is
// not an error: divinations fall back to the local generator.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	c.LLMFallbackModels = cleanModels(c.LLMFallbackModels)
	c.LLMModel = strings.TrimSpace(c.LLMModel)
	if c.LLMModel == "" {
		c.LLMModel = defaultModels[c.LLMProvider]
	}

	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	switch c.LLMProvider {
	case ProviderGemini, ProviderOpenRouter, ProviderNone:
	default:
		return fmt.Errorf("invalid LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return fmt.Errorf("invalid LLM_TEMPERATURE %v: must be between 0 and 2", c.LLMTemperature)
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("invalid LLM_TIMEOUT %v: must be positive", c.LLMTimeout)
	}
	if c.MinDelay < 0 {
		return fmt.Errorf("invalid DIVINATION_MIN_DELAY %v: must not be negative", c.MinDelay)
	}
	return nil
}

func cleanModels(in []string) []string {
	var models []string
	for _, m := range in {
		m = strings.TrimSpace(m)
		if m != "" {
			models = append(models, m)
		}
	}
	return models
}
