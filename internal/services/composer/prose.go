package composer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/insight/internal/interfaces"
	"github.com/ternarybob/insight/internal/models"
)

const (
	// Keywords included in the generation prompt.
	maxPromptKeywords = 12

	// Keywords included in the fallback's SEO meta comment.
	maxSEOKeywords = 8

	// Hard cap on the completion budget regardless of word count.
	maxProseTokens = 4096
)

// GenerateProse produces the long-form blog text with one table
// placeholder and one graph placeholder. The primary path is a single
// generation call; an error or empty reply falls back to a deterministic
// skeleton built from the same inputs.
func (s *Service) GenerateProse(ctx context.Context, input Input) string {
	prompt := buildProsePrompt(input)

	maxTokens := input.WordCount * 2
	if maxTokens > maxProseTokens {
		maxTokens = maxProseTokens
	}

	text, err := s.llm.Complete(ctx, interfaces.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: 0.4,
	})
	if err != nil || strings.TrimSpace(text) == "" {
		s.logger.Warn().Err(err).Msg("Blog prose generation failed, using fallback skeleton")
		return FallbackProse(input)
	}

	return strings.TrimSpace(text)
}

func buildProsePrompt(input Input) string {
	keywords := input.Keywords
	if len(keywords) > maxPromptKeywords {
		keywords = keywords[:maxPromptKeywords]
	}

	refsJSON := "[]"
	if len(input.References) > 0 {
		type promptRef struct {
			Title  string `json:"title"`
			Link   string `json:"link"`
			Source string `json:"source"`
		}
		refs := make([]promptRef, 0, len(input.References))
		for _, r := range input.References {
			refs = append(refs, promptRef{Title: r.Title, Link: r.Link, Source: r.Source})
		}
		if data, err := json.Marshal(refs); err == nil {
			refsJSON = string(data)
		}
	}

	return fmt.Sprintf(
		"You are an industry analyst writing a %d-word SEO blog post for the %s industry.\n"+
			"Your primary source is the following executive summary. Expand on its key points to create an engaging blog post.\n\n"+
			"--- EXECUTIVE SUMMARY ---\n%s\n\n"+
			"Instructions:\n"+
			"1. Structure: Create a catchy headline, a short introduction, and 3-4 main sections with subheadings.\n"+
			"2. Placeholders: Insert the placeholder `%s` once where a statistical KPI table would be appropriate. Insert `%s` once where a visual graph would be appropriate. Do not write lead-in text like 'The following table:'.\n"+
			"3. Style: Write in a professional, data-driven, and engaging style. Include these keywords naturally: %s. Avoid generic fluff.\n"+
			"4. Citations: Add citation numbers like [1] referencing the provided references. Use inline citations for claims.\n"+
			"5. Output: Return only the blog post text (Markdown).\n"+
			"References:\n%s\n",
		input.WordCount, input.Industry, input.CoreContent,
		models.TablePlaceholder, models.GraphPlaceholder,
		strings.Join(keywords, ", "), refsJSON)
}

// FallbackProse deterministically assembles a complete post skeleton: SEO
// meta comment, title, intro, fixed sections with both placeholders
// inserted once each, competitor notes, and a References section when
// references exist.
func FallbackProse(input Input) string {
	industry := input.Industry
	if industry == "" {
		industry = "General"
	}

	audience := input.Audience
	if audience == "" {
		audience = industry
	}

	seoKeywords := input.Keywords
	if len(seoKeywords) > maxSEOKeywords {
		seoKeywords = seoKeywords[:maxSEOKeywords]
	}

	var b strings.Builder
	b.WriteString("<!-- SEO Meta: keywords: " + strings.Join(seoKeywords, ", ") + " | industry: " + industry + " -->\n\n")
	b.WriteString(fmt.Sprintf("# %s Insights: Key Learnings and Opportunities\n\n", industry))
	b.WriteString(fmt.Sprintf("In this article, we unpack recent findings relevant to %s and explain what they mean for %s.\n\n", industry, audience))

	b.WriteString("## Overview\n\n")
	b.WriteString(input.CoreContent + "\n\n")

	b.WriteString("## What this means for businesses\n\n")
	b.WriteString(fmt.Sprintf("This section illustrates implications for %s and highlights practical considerations.\n\n", audience))

	b.WriteString(models.TablePlaceholder + "\n\n")

	b.WriteString("## Recommendations\n\n")
	b.WriteString("1. Prioritize initiatives that reduce downtime and operational costs.\n")
	b.WriteString("2. Invest in data collection and predictive tooling.\n")
	b.WriteString("3. Focus on measurable KPIs for the first 90 days.\n\n")

	b.WriteString(models.GraphPlaceholder + "\n\n")

	b.WriteString("## Competitor Notes\n\n")
	if strings.TrimSpace(input.Competitors) != "" {
		b.WriteString("Competitors mentioned: " + input.Competitors + "\n")
	} else {
		b.WriteString("Competitor data not available.\n")
	}

	if len(input.References) > 0 {
		b.WriteString("\n## References\n\n")
		for _, ref := range input.References {
			title := ref.Title
			if title == "" {
				title = "Untitled"
			}
			b.WriteString(fmt.Sprintf("- %s (%s): %s\n", title, ref.Source, ref.Link))
		}
	}

	return b.String()
}
