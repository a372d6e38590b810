package composer

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/insight/internal/interfaces"
	"github.com/ternarybob/insight/internal/models"
)

const (
	// Free-text table cells are bounded to this many characters.
	maxCellChars = 120

	// Fallback row count bounds.
	minTableRows = 3
	maxTableRows = 6
)

// impactCategory maps a fixed impact area to the keywords that claim a
// sentence for it in the fallback table.
type impactCategory struct {
	area     string
	keywords []string
}

var impactCategories = []impactCategory{
	{"Revenue impact", []string{"revenue", "sales", "growth", "acquisition"}},
	{"Cost impact", []string{"cost", "expense", "opex", "capex"}},
	{"Operational efficiency", []string{"downtime", "throughput", "efficiency", "maintenance"}},
	{"Quality & Risk", []string{"quality", "defect", "risk", "compliance"}},
}

// GenerateTable produces the KPI table artifact as Markdown. The primary
// path asks the generation service for a strict three-column table and
// accepts the reply only when it structurally looks like one; anything
// else falls back to the deterministic sentence-classification table.
func (s *Service) GenerateTable(ctx context.Context, coreContent string) string {
	prompt := fmt.Sprintf(
		"Based on the following executive summary, generate ONLY a Markdown table for a 'Profit & Loss Impact Analysis'.\n"+
			"Columns must be: Impact Area | Description | Recommended Action\n"+
			"Return only the Markdown table (no explanation).\n\n"+
			"--- SUMMARY ---\n%s\n",
		coreContent)

	text, err := s.llm.Complete(ctx, interfaces.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   400,
		Temperature: 0.1,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Table generation failed, using fallback table")
		return FallbackTable(coreContent)
	}

	if table, ok := extractTable(text); ok {
		return table
	}

	s.logger.Warn().Msg("Generated table failed structural validation, using fallback table")
	return FallbackTable(coreContent)
}

// extractTable validates and trims a generated reply down to the table
// itself. The reply is accepted only when it contains a pipe character, a
// separator row or second pipe-bearing line, and a header row with at
// least two pipe-separated columns.
func extractTable(text string) (string, bool) {
	if !strings.Contains(text, "|") {
		return "", false
	}
	if !strings.Contains(text, "---") && !strings.Contains(text, "\n| ") && !strings.Contains(text, "\n---") {
		return "", false
	}

	table := strings.TrimSpace(text[strings.Index(text, "|"):])
	lines := strings.Split(table, "\n")
	if len(lines) == 0 {
		return "", false
	}

	if strings.Count(lines[0], "|") < 2 {
		return "", false
	}

	return table, true
}

// FallbackTable deterministically builds the KPI table from the core
// content: sentences are classified into fixed impact areas by keyword
// match, leftovers become observations, and placeholder rows pad the
// table to its minimum size.
func FallbackTable(coreContent string) string {
	sentences := splitSentences(coreContent)

	var rows []models.KPIRow
	used := make(map[string]bool)

	for _, category := range impactCategories {
		for _, sentence := range sentences {
			if used[sentence] {
				continue
			}
			if matchesAny(sentence, category.keywords) {
				used[sentence] = true
				rows = append(rows, models.KPIRow{
					ImpactArea:        category.area,
					Description:       truncateCell(sentence),
					RecommendedAction: "Investigate and prioritize initiatives that address this area.",
				})
				break
			}
		}
	}

	for _, sentence := range sentences {
		if len(rows) >= maxTableRows {
			break
		}
		if used[sentence] {
			continue
		}
		used[sentence] = true
		rows = append(rows, models.KPIRow{
			ImpactArea:        "Observation",
			Description:       truncateCell(sentence),
			RecommendedAction: "Review and contextualize with internal KPIs.",
		})
	}

	for len(rows) < minTableRows {
		rows = append(rows, models.KPIRow{
			ImpactArea:        "Other",
			Description:       "No clear point found in summary.",
			RecommendedAction: "Manual review required.",
		})
	}

	return RenderTable(rows)
}

// RenderTable renders KPI rows as a three-column Markdown table. Cell
// text is already bounded; any remaining pipe characters are swapped for
// a broken-bar glyph so they cannot split cells.
func RenderTable(rows []models.KPIRow) string {
	var b strings.Builder
	b.WriteString("| Impact Area | Description | Recommended Action |\n|---|---|---|\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
			sanitizeCell(row.ImpactArea),
			sanitizeCell(row.Description),
			sanitizeCell(row.RecommendedAction)))
	}
	return b.String()
}

// splitSentences breaks text into trimmed non-empty sentences on periods
// and newlines.
func splitSentences(text string) []string {
	var sentences []string
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '\n'
	}) {
		if part = strings.TrimSpace(part); part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

func matchesAny(sentence string, keywords []string) bool {
	lower := strings.ToLower(sentence)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func truncateCell(s string) string {
	runes := []rune(s)
	if len(runes) <= maxCellChars {
		return s
	}
	return string(runes[:maxCellChars])
}

func sanitizeCell(s string) string {
	return strings.ReplaceAll(truncateCell(s), "|", "¦")
}
