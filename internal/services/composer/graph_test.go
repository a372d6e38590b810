package composer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestParseGraphJSON(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantOK   bool
		wantData map[string]float64
	}{
		{
			name:     "bare object",
			text:     `{"title": "Growth", "data": {"q1": 10, "q2": 12.5}}`,
			wantOK:   true,
			wantData: map[string]float64{"q1": 10, "q2": 12.5},
		},
		{
			name:     "object embedded in prose",
			text:     "Sure, here you go:\n{\"title\": \"KPIs\", \"data\": {\"uptime\": 99}}\nLet me know!",
			wantOK:   true,
			wantData: map[string]float64{"uptime": 99},
		},
		{
			name:     "numeric strings coerce",
			text:     `{"title": "Mixed", "data": {"a": "3.5", "b": 2}}`,
			wantOK:   true,
			wantData: map[string]float64{"a": 3.5, "b": 2},
		},
		{
			name:   "one bad value rejects the whole object",
			text:   `{"title": "Bad", "data": {"a": 1, "b": "lots"}}`,
			wantOK: false,
		},
		{
			name:   "missing data key",
			text:   `{"title": "Empty"}`,
			wantOK: false,
		},
		{
			name:   "not json at all",
			text:   "no graph for you",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, ok := ParseGraphJSON(tt.text)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantData, spec.Data)
			}
		})
	}
}

func TestFallbackGraphCountsTokens(t *testing.T) {
	core := "maintenance maintenance maintenance downtime downtime sensors"
	spec := FallbackGraph(core)

	assert.Equal(t, "Top tokens", spec.Title)
	assert.Equal(t, float64(3), spec.Data["maintenance"])
	assert.Equal(t, float64(2), spec.Data["downtime"])
	assert.Equal(t, float64(1), spec.Data["sensors"])
}

func TestFallbackGraphExcludesStopwords(t *testing.T) {
	spec := FallbackGraph("the the the and and equipment")

	assert.NotContains(t, spec.Data, "the")
	assert.NotContains(t, spec.Data, "and")
	assert.Contains(t, spec.Data, "equipment")
}

func TestFallbackGraphCapsSeries(t *testing.T) {
	core := "alpha bravo charlie delta echo foxtrot golf hotel india juliet"
	spec := FallbackGraph(core)

	assert.Len(t, spec.Data, 6, "series is capped at six tokens")
	for _, v := range spec.Data {
		assert.GreaterOrEqual(t, v, float64(1))
		assert.Equal(t, float64(int(v)), v, "fallback counts are whole numbers")
	}
}

func TestFallbackGraphEmptyContent(t *testing.T) {
	spec := FallbackGraph("")

	assert.Equal(t, "Top tokens", spec.Title)
	assert.Equal(t, map[string]float64{"no_data": 1}, spec.Data)
	assert.False(t, spec.Empty())
}

func TestGenerateGraphFallsBackOnError(t *testing.T) {
	llm := &fakeLLM{err: context.DeadlineExceeded}
	svc := NewService(llm, arbor.NewLogger())

	spec := svc.GenerateGraph(context.Background(), "sensors sensors uptime")
	assert.Equal(t, "Top tokens", spec.Title)
	assert.Equal(t, float64(2), spec.Data["sensors"])
}
