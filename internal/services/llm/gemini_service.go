package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/common"
	"github.com/ternarybob/insight/internal/interfaces"
	"google.golang.org/genai"
)

// GeminiService implements the LLMService interface using Google Gemini.
type GeminiService struct {
	config    *common.GeminiConfig
	logger    arbor.ILogger
	client    *genai.Client
	timeout   time.Duration
	maxTokens int
}

// Compile-time assertion
var _ interfaces.LLMService = (*GeminiService)(nil)

// NewGeminiService creates a new Gemini LLM service instance.
//
// Parameters:
//   - geminiConfig: Gemini configuration with API key and model settings
//   - logger: Structured logger for service operations
//
// Returns:
//   - *GeminiService: Initialized service ready for use
//   - error: nil on success, error with details on failure
func NewGeminiService(geminiConfig *common.GeminiConfig, logger arbor.ILogger) (*GeminiService, error) {
	if geminiConfig.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required for Gemini service (set via GEMINI_API_KEY, INSIGHT_GEMINI_API_KEY, or llm.gemini.api_key in config)")
	}

	if geminiConfig.Model == "" {
		geminiConfig.Model = "gemini-2.0-flash"
	}

	timeout := 120 * time.Second
	if geminiConfig.Timeout != "" {
		parsed, err := time.ParseDuration(geminiConfig.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout duration '%s': %w", geminiConfig.Timeout, err)
		}
		timeout = parsed
	}

	maxTokens := geminiConfig.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	service := &GeminiService{
		config:    geminiConfig,
		logger:    logger,
		client:    client,
		timeout:   timeout,
		maxTokens: maxTokens,
	}

	logger.Debug().
		Str("model", geminiConfig.Model).
		Dur("timeout", timeout).
		Float32("temperature", geminiConfig.Temperature).
		Int("max_tokens", maxTokens).
		Msg("Gemini LLM service initialized successfully")

	return service, nil
}

// Complete generates a single text completion for the request
func (s *GeminiService) Complete(ctx context.Context, req interfaces.CompletionRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty for completion")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Debug().
		Int("prompt_length", len(req.Prompt)).
		Int("max_tokens", req.MaxTokens).
		Msg("Starting Gemini completion")

	temperature := req.Temperature
	if temperature <= 0 {
		temperature = s.config.Temperature
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.maxTokens
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: int32(maxTokens),
	}

	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}

	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.config.Model, contents, config)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("prompt_length", len(req.Prompt)).
			Msg("Gemini completion failed")
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}

	// Iterate candidates until non-empty text is found
	var response strings.Builder
	if resp != nil && len(resp.Candidates) > 0 {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if strings.TrimSpace(response.String()) == "" {
		return "", fmt.Errorf("no response generated from Gemini API")
	}

	s.logger.Debug().
		Int("response_length", response.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini completion completed successfully")

	return strings.TrimSpace(response.String()), nil
}

// HealthCheck verifies the Gemini service is operational with a minimal probe
func (s *GeminiService) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("Gemini client is not initialized")
	}

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	response, err := s.Complete(probeCtx, interfaces.CompletionRequest{Prompt: "ping", MaxTokens: 8})
	if err != nil {
		return fmt.Errorf("Gemini health check failed: %w", err)
	}
	if len(strings.TrimSpace(response)) == 0 {
		return fmt.Errorf("Gemini probe returned empty response")
	}

	return nil
}

// Close releases resources and performs cleanup operations
func (s *GeminiService) Close() error {
	s.logger.Debug().Msg("Closing Gemini LLM service")
	// genai.Client doesn't require explicit cleanup
	s.client = nil
	return nil
}
