package factory

import (
	"fmt"

	"notealog/pkg/llm"
	"notealog/pkg/llm/anthropic"
	"notealog/pkg/llm/ollama"
	"notealog/pkg/llm/openai"
)

// ProviderConfig selects and configures one LLM backend.
type ProviderConfig struct {
	Provider      string // "ollama", "openai", "anthropic"
	Model         string
	OllamaBaseURL string
	OpenAIKey     string
	OpenAIBaseURL string
	AnthropicKey  string
}

func NewLLMProvider(cfg ProviderConfig) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama", "":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return openai.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.Model), nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("anthropic provider requires an API key")
		}
		return anthropic.NewAnthropicProvider(cfg.AnthropicKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
