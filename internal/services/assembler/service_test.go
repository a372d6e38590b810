package assembler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/models"
)

func testArtifacts() models.ComposedArtifacts {
	return models.ComposedArtifacts{
		Prose:         "# Title\n\nIntro.\n\n" + models.TablePlaceholder + "\n\nMiddle.\n\n" + models.GraphPlaceholder + "\n\nEnd.\n",
		TableMarkdown: "| Impact Area | Description | Recommended Action |\n|---|---|---|\n| Revenue impact | Up | Keep going |\n",
		Graph: models.GraphSpec{
			Title: "Top tokens",
			Data:  map[string]float64{"uptime": 3, "sensors": 1},
		},
	}
}

func TestAssembleRemovesAllPlaceholders(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	html, err := svc.Assemble("Acme", testArtifacts())
	require.NoError(t, err)

	assert.NotContains(t, html, models.TablePlaceholder)
	assert.NotContains(t, html, models.GraphPlaceholder)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "data:image/png;base64,")
	assert.Contains(t, html, "<title>Acme | Insight Digest</title>")
}

func TestAssembleIsDeterministic(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	artifacts := testArtifacts()

	first, err := svc.Assemble("Acme", artifacts)
	require.NoError(t, err)
	second, err := svc.Assemble("Acme", artifacts)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs produce byte-identical documents")
}

func TestAssembleDegradesMissingArtifacts(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	artifacts := testArtifacts()
	artifacts.TableMarkdown = "   "
	artifacts.Graph = models.GraphSpec{}

	html, err := svc.Assemble("Acme", artifacts)
	require.NoError(t, err)

	assert.Contains(t, html, "[Table could not be generated.]")
	assert.Contains(t, html, "[Graph could not be generated.]")
	assert.NotContains(t, html, models.TablePlaceholder)
	assert.NotContains(t, html, models.GraphPlaceholder)
}

func TestMergeMarkdownKeepsTableDropsImage(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	merged := svc.MergeMarkdown(testArtifacts())

	assert.Contains(t, merged, "| Revenue impact |")
	assert.NotContains(t, merged, models.TablePlaceholder)
	assert.NotContains(t, merged, models.GraphPlaceholder)
	assert.NotContains(t, merged, "base64", "the chart image only exists in the HTML rendition")
}

func TestWriteHTMLNamesFileFromCompany(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	dir := t.TempDir()

	path, err := svc.WriteHTML("Acme Corp", "<html></html>", dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Acme_Corp_Insight_Digest.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
}

func TestPDFPath(t *testing.T) {
	assert.Equal(t, "/out/Acme_Insight_Digest.pdf", PDFPath("/out/Acme_Insight_Digest.html"))
}

func TestSanitizeCompanyName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Corp", "Acme_Corp"},
		{"a/b\\c", "a_b_c"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeCompanyName(tt.in))
	}
}

func TestRenderChartPNG(t *testing.T) {
	png, err := RenderChartPNG(models.GraphSpec{
		Title: "Top tokens",
		Data:  map[string]float64{"uptime": 3, "sensors": 1},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(png), "\x89PNG"), "output is a PNG image")

	_, err = RenderChartPNG(models.GraphSpec{})
	assert.Error(t, err, "empty spec cannot render")
}
