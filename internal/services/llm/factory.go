package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/common"
	"github.com/ternarybob/insight/internal/interfaces"
)

// NewLLMService creates the appropriate LLM service implementation based on
// the configured provider.
func NewLLMService(cfg *common.LLMConfig, logger arbor.ILogger) (interfaces.LLMService, error) {
	logger.Info().Str("provider", cfg.Provider).Msg("Initializing LLM service")

	switch cfg.Provider {
	case "claude":
		return NewClaudeService(&cfg.Claude, logger)

	case "gemini":
		return NewGeminiService(&cfg.Gemini, logger)

	default:
		return nil, fmt.Errorf("unsupported LLM provider '%s': must be 'claude' or 'gemini'", cfg.Provider)
	}
}
