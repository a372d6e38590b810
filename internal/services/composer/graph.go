package composer

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ternarybob/insight/internal/interfaces"
	"github.com/ternarybob/insight/internal/models"
)

// Number of most-frequent tokens the fallback graph plots.
const maxGraphTokens = 6

var (
	jsonObjectPattern = regexp.MustCompile(`(?s)(\{.*\})`)
	tokenPattern      = regexp.MustCompile(`\b[a-z]{3,}\b`)
)

// graphStopwords are excluded from the fallback token counting.
var graphStopwords = map[string]bool{
	"the": true, "and": true, "for": true, "that": true, "this": true,
	"with": true, "from": true, "are": true, "have": true, "has": true,
	"were": true, "was": true,
}

// GenerateGraph produces the KPI graph specification. The primary path
// asks the generation service for a small JSON object and accepts it only
// when a JSON object can be located and every data value coerces to a
// float; otherwise the fallback counts the most frequent content tokens.
func (s *Service) GenerateGraph(ctx context.Context, coreContent string) models.GraphSpec {
	prompt := fmt.Sprintf(
		"Based on the following summary, generate ONLY a JSON object for a small bar graph with keys:\n"+
			"{\n\"title\": \"<short title>\",\n\"data\": { \"<label>\": <numeric_value>, ... }\n}\n"+
			"Do NOT include explanation or Markdown. Values must be numeric (integers or floats).\n"+
			"--- SUMMARY ---\n%s\n",
		coreContent)

	text, err := s.llm.Complete(ctx, interfaces.CompletionRequest{
		Prompt:      prompt,
		MaxTokens:   300,
		Temperature: 0.1,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Graph generation failed, using token-frequency fallback")
		return FallbackGraph(coreContent)
	}

	if spec, ok := ParseGraphJSON(text); ok {
		return spec
	}

	s.logger.Warn().Msg("Generated graph JSON failed validation, using token-frequency fallback")
	return FallbackGraph(coreContent)
}

// ParseGraphJSON locates a JSON object substring in the reply and coerces
// its data values to floats. The whole object is rejected when any single
// value fails coercion.
func ParseGraphJSON(text string) (models.GraphSpec, bool) {
	jsonText := text
	if m := jsonObjectPattern.FindStringSubmatch(text); m != nil {
		jsonText = m[1]
	}

	var raw struct {
		Title string                 `json:"title"`
		Data  map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		return models.GraphSpec{}, false
	}
	if raw.Data == nil {
		return models.GraphSpec{}, false
	}

	data := make(map[string]float64, len(raw.Data))
	for label, value := range raw.Data {
		coerced, ok := coerceFloat(value)
		if !ok {
			return models.GraphSpec{}, false
		}
		data[label] = coerced
	}

	return models.GraphSpec{Title: raw.Title, Data: data}, true
}

func coerceFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// FallbackGraph counts the most frequent contentful tokens in the core
// content. Counts are integers by construction; an empty result degrades
// to a single placeholder entry so the graph is never empty.
func FallbackGraph(coreContent string) models.GraphSpec {
	counts := make(map[string]int)
	order := make(map[string]int)

	for i, token := range tokenPattern.FindAllString(strings.ToLower(coreContent), -1) {
		if graphStopwords[token] {
			continue
		}
		if _, seen := counts[token]; !seen {
			order[token] = i
		}
		counts[token]++
	}

	if len(counts) == 0 {
		return models.GraphSpec{
			Title: "Top tokens",
			Data:  map[string]float64{"no_data": 1},
		}
	}

	tokens := make([]string, 0, len(counts))
	for token := range counts {
		tokens = append(tokens, token)
	}
	// Highest count first; first occurrence breaks ties deterministically
	sort.Slice(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return order[tokens[i]] < order[tokens[j]]
	})

	if len(tokens) > maxGraphTokens {
		tokens = tokens[:maxGraphTokens]
	}

	data := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		data[token] = float64(counts[token])
	}

	return models.GraphSpec{Title: "Top tokens", Data: data}
}
