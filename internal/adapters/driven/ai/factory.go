// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/Demothedread/lawyerfactory-sub004/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/Demothedread/lawyerfactory-sub004/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/Demothedread/lawyerfactory-sub004/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/Demothedread/lawyerfactory-sub004/internal/adapters/driven/llm/ollama"
	openaillm "github.com/Demothedread/lawyerfactory-sub004/internal/adapters/driven/llm/openai"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/domain"
	"github.com/Demothedread/lawyerfactory-sub004/internal/core/ports/driven"
)

// Supported AI providers.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// EmbeddingSettings selects and configures an embedding provider.
type EmbeddingSettings struct {
	Provider   string
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
}

// IsConfigured reports whether a provider has been selected.
func (s EmbeddingSettings) IsConfigured() bool {
	return s.Provider != ""
}

// LLMSettings selects and configures an LLM provider.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// IsConfigured reports whether a provider has been selected.
func (s LLMSettings) IsConfigured() bool {
	return s.Provider != ""
}

// EmbeddingSettingsFromConfig reads embedding provider settings from the
// [embedding] section of the config file.
func EmbeddingSettingsFromConfig(cfg driven.ConfigStore) EmbeddingSettings {
	return EmbeddingSettings{
		Provider:   cfg.GetString("embedding.provider"),
		Model:      cfg.GetString("embedding.model"),
		APIKey:     cfg.GetString("embedding.api_key"),
		BaseURL:    cfg.GetString("embedding.base_url"),
		Dimensions: cfg.GetInt("embedding.dimensions"),
	}
}

// LLMSettingsFromConfig reads LLM provider settings from the [llm] section
// of the config file.
func LLMSettingsFromConfig(cfg driven.ConfigStore) LLMSettings {
	return LLMSettings{
		Provider: cfg.GetString("llm.provider"),
		Model:    cfg.GetString("llm.model"),
		APIKey:   cfg.GetString("llm.api_key"),
		BaseURL:  cfg.GetString("llm.base_url"),
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and validates
// connectivity. Returns (nil, nil) when no provider is configured.
func CreateAndValidateEmbeddingService(settings EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Set the [embedding] section in the config file to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates
// connectivity. Returns (nil, nil) when no provider is configured.
func CreateAndValidateLLMService(settings LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Set the [llm] section in the config file to fix",
			domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the appropriate embedding service based on
// settings. Returns nil if no provider is configured.
func CreateEmbeddingService(settings EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		}), nil

	case ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	case ProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if no provider is configured.
func CreateLLMService(settings LLMSettings) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case ProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case ProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case ProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
