package composer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/models"
)

func TestFallbackProseSkeleton(t *testing.T) {
	input := Input{
		Industry:    "Industrial IoT",
		Keywords:    []string{"predictive maintenance", "sensors", "edge computing"},
		CoreContent: "Predictive maintenance reduces downtime.",
		Competitors: "Acme Corp, Widget Inc",
		WordCount:   1200,
		References: []models.Reference{
			{Title: "Sensor trends", Source: "Google News", Link: "https://example.com/a"},
			{Title: "Edge ML survey", Source: "arXiv", Link: "https://example.com/b"},
		},
	}

	prose := FallbackProse(input)

	assert.True(t, strings.HasPrefix(prose, "<!-- SEO Meta:"), "SEO meta comment leads the document")
	assert.Contains(t, prose, "# Industrial IoT Insights: Key Learnings and Opportunities")
	assert.Contains(t, prose, "Predictive maintenance reduces downtime.")
	assert.Contains(t, prose, "Competitors mentioned: Acme Corp, Widget Inc")

	assert.Equal(t, 1, strings.Count(prose, models.TablePlaceholder), "exactly one table placeholder")
	assert.Equal(t, 1, strings.Count(prose, models.GraphPlaceholder), "exactly one graph placeholder")

	// References listed in acceptance order
	first := strings.Index(prose, "Sensor trends")
	second := strings.Index(prose, "Edge ML survey")
	require.Greater(t, first, 0)
	assert.Greater(t, second, first)
}

func TestFallbackProseDefaults(t *testing.T) {
	prose := FallbackProse(Input{CoreContent: "Something happened."})

	assert.Contains(t, prose, "# General Insights", "empty industry defaults to General")
	assert.Contains(t, prose, "Competitor data not available.")
	assert.NotContains(t, prose, "## References", "no references section without references")
}

func TestFallbackProseCapsSEOKeywords(t *testing.T) {
	keywords := []string{"k1", "k2", "k3", "k4", "k5", "k6", "k7", "k8", "k9", "k10"}
	prose := FallbackProse(Input{Industry: "Retail", Keywords: keywords})

	metaEnd := strings.Index(prose, "-->")
	require.Greater(t, metaEnd, 0)
	meta := prose[:metaEnd]

	assert.Contains(t, meta, "k8")
	assert.NotContains(t, meta, "k9", "SEO meta carries at most eight keywords")
}

func TestGenerateProseUsesReply(t *testing.T) {
	llm := &fakeLLM{reply: "# Great Post\n\nBody text.\n"}
	svc := NewService(llm, arbor.NewLogger())

	prose := svc.GenerateProse(context.Background(), Input{Industry: "Retail", WordCount: 800})
	assert.Equal(t, "# Great Post\n\nBody text.", prose)
}

func TestGenerateProseFallsBack(t *testing.T) {
	tests := []struct {
		name string
		llm  *fakeLLM
	}{
		{"call error", &fakeLLM{err: errors.New("backend down")}},
		{"blank reply", &fakeLLM{reply: "   \n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.llm, arbor.NewLogger())
			prose := svc.GenerateProse(context.Background(), Input{Industry: "Retail", CoreContent: "Core.", WordCount: 800})

			assert.Contains(t, prose, "# Retail Insights")
			assert.Contains(t, prose, models.TablePlaceholder)
		})
	}
}

func TestComposeAlwaysReturnsThreeArtifacts(t *testing.T) {
	llm := &fakeLLM{err: errors.New("backend down")}
	svc := NewService(llm, arbor.NewLogger())

	artifacts := svc.Compose(context.Background(), Input{
		Industry:    "Logistics",
		CoreContent: "Freight costs fell.",
		WordCount:   600,
	})

	assert.NotEmpty(t, artifacts.Prose)
	assert.NotEmpty(t, artifacts.TableMarkdown)
	assert.False(t, artifacts.Graph.Empty())
}
