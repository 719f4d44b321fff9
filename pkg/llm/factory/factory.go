package factory

import (
	"fmt"

	"moodflix-be/pkg/llm"
	"moodflix-be/pkg/llm/cli"
	"moodflix-be/pkg/llm/huggingface"
	"moodflix-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "cli":
		// baseURL doubles as the binary path for the subprocess backend
		return cli.NewCLIProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
