package assembler

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ternarybob/insight/internal/models"
	"github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth  = 800
	chartHeight = 400
)

// RenderChartPNG rasterizes the graph specification as a PNG bar chart.
// Bars are ordered by descending value with labels breaking ties, so the
// same spec always renders to the same bytes.
func RenderChartPNG(spec models.GraphSpec) ([]byte, error) {
	if spec.Empty() {
		return nil, fmt.Errorf("graph spec has no data")
	}

	labels := make([]string, 0, len(spec.Data))
	for label := range spec.Data {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if spec.Data[labels[i]] != spec.Data[labels[j]] {
			return spec.Data[labels[i]] > spec.Data[labels[j]]
		}
		return labels[i] < labels[j]
	})

	bars := make([]chart.Value, 0, len(labels))
	for _, label := range labels {
		bars = append(bars, chart.Value{
			Label: label,
			Value: spec.Data[label],
		})
	}

	graph := chart.BarChart{
		Title:    spec.Title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 60,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render bar chart: %w", err)
	}

	return buf.Bytes(), nil
}
