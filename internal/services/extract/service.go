package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/interfaces"
	"github.com/ternarybob/insight/internal/models"
)

// Maximum website text included in the extraction prompt.
const maxWebsiteChars = 3500

var (
	industryLine = regexp.MustCompile(`(?i)Industry:\s*(.*)`)
	keywordsLine = regexp.MustCompile(`(?i)Keywords:\s*(.*)`)
)

// Service extracts the company's industry and operating keywords from its
// website text through one constrained generation call.
type Service struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

// NewService creates a new keyword/industry extraction service
func NewService(llm interfaces.LLMService, logger arbor.ILogger) *Service {
	return &Service{
		llm:    llm,
		logger: logger,
	}
}

// Extract sends the website text to the generation service and parses the
// constrained two-line "Industry: / Keywords:" response. A failed call
// degrades to an unknown industry with no keywords; the run continues.
func (s *Service) Extract(ctx context.Context, company, websiteText string) models.Extraction {
	prompt := buildPrompt(company, websiteText)

	raw, err := s.llm.Complete(ctx, interfaces.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   300,
		Temperature: 0.2,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("company", company).Msg("Keyword extraction failed, continuing with unknown industry")
		raw = "Industry: Unknown\nKeywords: "
	}

	extraction := Parse(raw)

	s.logger.Info().
		Str("industry", extraction.Industry).
		Strs("keywords", extraction.Keywords).
		Msg("Extracted industry and keywords")

	return extraction
}

func buildPrompt(company, websiteText string) string {
	return fmt.Sprintf(
		"You are an expert industry analyst. Carefully read the following website content for the company '%s'. "+
			"Extract ONLY those keywords that precisely represent what the company actually DOES in 4-5 keywords and give a single line reason why you selected those, what it manufactures or provides - not general industry terms. "+
			"For example, if the company manufactures automotive spare parts, do NOT use 'car manufacturer' as a keyword, but use terms like 'auto component manufacturing', 'OEM parts supplier', etc. "+
			"Also infer and name the primary industry/domain.\n\n"+
			"Output format:\nIndustry: <specific industry>\nKeywords: <comma-separated, highly specific and accurate keywords>\n\n"+
			"Website Content:\n%s",
		company, truncate(websiteText, maxWebsiteChars))
}

// Parse converts the two-line response format into a structured extraction.
// Missing lines fall back to "General" industry and an empty keyword list.
func Parse(raw string) models.Extraction {
	extraction := models.Extraction{
		Industry: "General",
		Raw:      raw,
	}

	if m := industryLine.FindStringSubmatch(raw); m != nil {
		if industry := strings.TrimSpace(m[1]); industry != "" {
			extraction.Industry = industry
		}
	}

	if m := keywordsLine.FindStringSubmatch(raw); m != nil {
		for _, kw := range strings.Split(m[1], ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				extraction.Keywords = append(extraction.Keywords, kw)
			}
		}
	}

	return extraction
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
