package analyst

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/interfaces"
	"github.com/ternarybob/insight/internal/models"
)

const (
	// Website text budget inside analyst prompts.
	maxWebsiteChars = 4000

	// Reference content snippet budget inside the report prompt.
	maxSnippetChars = 500
)

// Service runs the three chained competitor-analysis generation calls.
// Each call is a pure function of its inputs to text; on failure it
// returns an empty string and the pipeline continues with degraded
// content.
type Service struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

// NewService creates a new competitive analysis service
func NewService(llm interfaces.LLMService, logger arbor.ILogger) *Service {
	return &Service{
		llm:    llm,
		logger: logger,
	}
}

// IdentifyCompetitors asks the generation service for a comma-separated
// list of the company's closest competitors. An empty result means
// "unknown" and is not fatal.
func (s *Service) IdentifyCompetitors(ctx context.Context, websiteText, industryKeywords string) string {
	s.logger.Info().Msg("Identifying competitors")

	prompt := fmt.Sprintf(
		"You are a market analyst. Based on the provided company website content and keywords, identify 3 to 5 of the closest and most direct competitors.\n"+
			"Provide only a comma-separated list of company names. Do not add any other text or explanation.\n"+
			"---\n"+
			"Company Website Content:\n%s\n"+
			"Extracted Industry/Keywords:\n%s\n",
		truncate(websiteText, maxWebsiteChars), industryKeywords)

	competitors, err := s.llm.Complete(ctx, interfaces.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   200,
		Temperature: 0.2,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Competitor identification failed, continuing without competitor list")
		return ""
	}

	s.logger.Info().Str("competitors", competitors).Msg("Competitors identified")
	return competitors
}

// GenerateBenchmarkingReport produces the full multi-section benchmarking
// report from the website text, extraction, competitor list, and gathered
// references. Reference content is truncated to a bounded snippet before
// inclusion. Returns an empty string on failure.
func (s *Service) GenerateBenchmarkingReport(ctx context.Context, websiteText, industryKeywords, competitors string, refs []models.Reference) string {
	s.logger.Info().Msg("Generating the core benchmarking report")

	var snippets strings.Builder
	for _, ref := range refs {
		title := ref.Title
		if title == "" {
			title = "Untitled"
		}
		snippets.WriteString(fmt.Sprintf("- %s\n  %s", title, truncate(ref.Content, maxSnippetChars)))
	}

	prompt := fmt.Sprintf(
		"You are a senior business analyst preparing a competitor benchmarking report. Your goal is to uncover what the target company doesn't know.\n"+
			"Core Task: Analyze the company against its competitors, using the provided articles to find novel insights and key metrics.\n"+
			"Company's Identified Competitors: %s\n\n"+
			"Report Structure:\n"+
			"1.  **Industry Overview & Emerging Trends:** Briefly describe the industry. Crucially, based on the 'Relevant Articles', identify 1-2 emerging technologies or novel trends the target company might be overlooking. This should address 'what they don't know'.\n"+
			"2.  **Competitive Landscape & Strategy:** Analyze the strategies, strengths, and weaknesses of competitors (%s). How are the leading companies different in their approach?\n"+
			"3.  **Key Performance Indicators (KPIs) for Growth:** Market share, R&D spend, customer acquisition cost, uptime/downtime, defect rate. Compare the companies based on any metric data found in the articles.\n"+
			"4.  **Strategic Gaps & Opportunities:** Based on the analysis, what is the target company lacking? Highlight what competitors are doing better and where the opportunities lie.\n"+
			"5.  **Actionable Recommendations:** Invest in pilot projects to show ROI within 6 months. Improve data collection & sensors. Partner with specialist vendors to accelerate productization. Provide 3-5 concrete, strategic recommendations to address the identified gaps and capitalize on opportunities.\n"+
			"---\n"+
			"INPUT DATA:\n"+
			"1. Company Website Content: %s\n"+
			"2. Extracted Industry/Keywords: %s\n"+
			"3. Relevant Articles for Context: %s\n",
		competitors, competitors, truncate(websiteText, maxWebsiteChars), industryKeywords, snippets.String())

	report, err := s.llm.Complete(ctx, interfaces.CompletionRequest{
		System:      "You are a senior industry analyst and content strategist.",
		Prompt:      prompt,
		MaxTokens:   3000,
		Temperature: 0.4,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Benchmarking report generation failed")
		return ""
	}

	s.logger.Info().Int("report_length", len(report)).Msg("Core report generated")
	return report
}

// GenerateExecutiveSummary condenses the benchmarking report into a
// 300-400 word executive summary. Returns an empty string on failure.
func (s *Service) GenerateExecutiveSummary(ctx context.Context, fullReport string) string {
	s.logger.Info().Msg("Generating the executive summary")

	prompt := fmt.Sprintf(
		"You are an assistant to a business analyst. Your task is to write a concise, hard-hitting executive summary (300-400 words) based on the detailed report provided below.\n\n"+
			"The summary must:\n"+
			"- Start with the company's current market position and the primary threat from competitors.\n"+
			"- Mention the most critical KPIs (Key Performance Metrics) that determine success in this sector.\n"+
			"- Distill the most important findings, including any emerging trends the company might be overlooking.\n"+
			"- Conclude with the top 2-3 most impactful strategic recommendations from the report.\n"+
			"---\n"+
			"FULL REPORT:\n%s\n",
		fullReport)

	summary, err := s.llm.Complete(ctx, interfaces.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   1000,
		Temperature: 0.3,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Executive summary generation failed")
		return ""
	}

	s.logger.Info().Int("summary_length", len(summary)).Msg("Executive summary generated")
	return summary
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
