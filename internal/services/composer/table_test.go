package composer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/interfaces"
	"github.com/ternarybob/insight/internal/models"
)

// fakeLLM is a canned-response generation service for composer tests.
type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Complete(ctx context.Context, req interfaces.CompletionRequest) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeLLM) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeLLM) Close() error                          { return nil }

func tableRows(t *testing.T, table string) [][]string {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(table), "\n")
	require.GreaterOrEqual(t, len(lines), 2, "table needs header and separator")

	var rows [][]string
	for _, line := range lines[2:] {
		cells := strings.Split(strings.Trim(line, "|"), "|")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, cells)
	}
	return rows
}

func TestFallbackTableMinimumRows(t *testing.T) {
	table := FallbackTable("")
	rows := tableRows(t, table)

	assert.GreaterOrEqual(t, len(rows), 3, "table is padded to three rows")
	for _, row := range rows {
		assert.Len(t, row, 3, "every row has three columns")
	}
}

func TestFallbackTableClassifiesSentences(t *testing.T) {
	core := "Revenue grew by 12% last quarter. Downtime remains a major drag on output. The sky is blue."
	table := FallbackTable(core)
	rows := tableRows(t, table)

	areas := make([]string, 0, len(rows))
	for _, row := range rows {
		areas = append(areas, row[0])
	}

	assert.Contains(t, areas, "Revenue impact")
	assert.Contains(t, areas, "Operational efficiency")
	assert.Contains(t, areas, "Observation", "unclassified sentence becomes an observation")
}

func TestFallbackTableCapsRows(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "Point number %d stands alone. ", i)
	}

	rows := tableRows(t, FallbackTable(b.String()))
	assert.LessOrEqual(t, len(rows), 6)
}

func TestRenderTableBoundsCells(t *testing.T) {
	long := strings.Repeat("x", 500)
	table := RenderTable([]models.KPIRow{
		{ImpactArea: "Other", Description: long, RecommendedAction: "Act | now"},
	})

	rows := tableRows(t, table)
	require.Len(t, rows, 1)

	assert.Len(t, []rune(rows[0][1]), 120, "cell text is truncated")
	assert.Equal(t, "Act ¦ now", rows[0][2], "pipes cannot split cells")
}

func TestGenerateTableAcceptsStructuredReply(t *testing.T) {
	reply := "| Impact Area | Description | Recommended Action |\n|---|---|---|\n| Revenue impact | Up | Keep going |\n"
	llm := &fakeLLM{reply: reply}
	svc := NewService(llm, arbor.NewLogger())

	table := svc.GenerateTable(context.Background(), "summary")
	assert.Equal(t, strings.TrimSpace(reply), table)
}

func TestGenerateTableRejectsProseReply(t *testing.T) {
	llm := &fakeLLM{reply: "I could not produce a table, sorry."}
	svc := NewService(llm, arbor.NewLogger())

	table := svc.GenerateTable(context.Background(), "Revenue rose sharply.")
	rows := tableRows(t, table)
	assert.GreaterOrEqual(t, len(rows), 3, "prose reply falls back to the deterministic table")
}

func TestGenerateTableTrimsPreamble(t *testing.T) {
	reply := "Here is your table:\n| Impact Area | Description | Recommended Action |\n|---|---|---|\n| Cost impact | Down | Renegotiate |\n"
	llm := &fakeLLM{reply: reply}
	svc := NewService(llm, arbor.NewLogger())

	table := svc.GenerateTable(context.Background(), "summary")
	assert.True(t, strings.HasPrefix(table, "|"), "leading preamble is stripped")
	assert.Contains(t, table, "Cost impact")
}
