package models

// Placeholder tokens the prose generator must emit exactly once each.
// The assembler replaces them with the rendered table and graph.
const (
	TablePlaceholder = "[TABLE_PLACEHOLDER]"
	GraphPlaceholder = "[GRAPH_PLACEHOLDER]"
)

// KPIRow is one row of the profit-and-loss impact table artifact.
// Free-text fields are bounded to 120 characters and contain no raw pipe
// characters so they cannot break Markdown table cells.
type KPIRow struct {
	ImpactArea        string `json:"impact_area"`
	Description       string `json:"description"`
	RecommendedAction string `json:"recommended_action"`
}

// GraphSpec is the structured numeric data behind the KPI bar graph.
// Every value must be a finite float; objects that fail numeric coercion
// are rejected in favor of the fallback generator.
type GraphSpec struct {
	Title string             `json:"title"`
	Data  map[string]float64 `json:"data"`
}

// Empty reports whether the spec carries no plottable data.
func (g GraphSpec) Empty() bool {
	return len(g.Data) == 0
}

// ComposedArtifacts holds the three sub-artifacts produced by the content
// composer. Each field may come from either the generation service or the
// matching deterministic fallback; consumers cannot tell which.
type ComposedArtifacts struct {
	// Prose is the long-form blog text containing exactly one table
	// placeholder and one graph placeholder.
	Prose string

	// TableMarkdown is the KPI table in Markdown form.
	TableMarkdown string

	// Graph is the KPI graph specification.
	Graph GraphSpec
}
