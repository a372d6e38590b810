package assembler

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Inline notices substituted when a sub-artifact is unavailable.
const (
	tableNotice = "<p><i>[Table could not be generated.]</i></p>"
	graphNotice = "<p><i>[Graph could not be generated.]</i></p>"
)

// Output file name suffix, keyed by the sanitized company name.
const outputSuffix = "_Insight_Digest"

// htmlShell wraps the rendered body in a minimal standalone document with
// embedded styling. The two verbs are the document title and body.
const htmlShell = `<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8"><title>%s | Insight Digest</title>
<style>body{font-family:sans-serif;line-height:1.6;color:#333;max-width:800px;margin:40px auto;padding:20px;}h1,h2,h3{color:#2c3e50;}table{border-collapse:collapse;width:100%%;margin-bottom:1em;}th,td{border:1px solid #ddd;padding:8px;text-align:left;}th{background-color:#f2f2f2;}img{max-width:100%%;height:auto;border:1px solid #ddd;border-radius:4px;margin:1em 0;}</style>
</head><body>%s</body></html>
`

// Service merges the composed sub-artifacts into one styled HTML
// document. It performs no generation calls; assembly is deterministic
// string work plus Markdown rendering, so identical inputs always yield
// identical output.
type Service struct {
	logger arbor.ILogger
	md     goldmark.Markdown
}

// NewService creates a new document assembly service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		logger: logger,
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Assemble substitutes the placeholders in the prose with the rendered
// table and graph, converts the merged Markdown to HTML, and wraps it in
// the document shell. Missing artifacts degrade to inline notices; the
// returned document never contains a placeholder token.
func (s *Service) Assemble(company string, artifacts models.ComposedArtifacts) (string, error) {
	merged := artifacts.Prose

	if strings.TrimSpace(artifacts.TableMarkdown) != "" {
		merged = strings.ReplaceAll(merged, models.TablePlaceholder, artifacts.TableMarkdown)
	} else {
		merged = strings.ReplaceAll(merged, models.TablePlaceholder, tableNotice)
	}

	merged = strings.ReplaceAll(merged, models.GraphPlaceholder, s.graphHTML(artifacts.Graph))

	var body bytes.Buffer
	if err := s.md.Convert([]byte(merged), &body); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	return fmt.Sprintf(htmlShell, company, body.String()), nil
}

// MergeMarkdown returns the prose with the table substituted in place,
// suitable for direct PDF rendering. The graph placeholder becomes a
// pointer to the HTML rendition, which is the only one carrying the
// chart image.
func (s *Service) MergeMarkdown(artifacts models.ComposedArtifacts) string {
	merged := artifacts.Prose

	if strings.TrimSpace(artifacts.TableMarkdown) != "" {
		merged = strings.ReplaceAll(merged, models.TablePlaceholder, artifacts.TableMarkdown)
	} else {
		merged = strings.ReplaceAll(merged, models.TablePlaceholder, "_[Table could not be generated.]_")
	}

	if artifacts.Graph.Empty() {
		merged = strings.ReplaceAll(merged, models.GraphPlaceholder, "_[Graph could not be generated.]_")
	} else {
		merged = strings.ReplaceAll(merged, models.GraphPlaceholder, "_[See the HTML report for the statistical graph.]_")
	}

	return merged
}

// graphHTML rasterizes the graph and returns an embedded image tag, or
// the inline notice when no image can be derived.
func (s *Service) graphHTML(spec models.GraphSpec) string {
	if spec.Empty() {
		return graphNotice
	}

	png, err := RenderChartPNG(spec)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Could not rasterize KPI graph")
		return graphNotice
	}

	encoded := base64.StdEncoding.EncodeToString(png)
	return fmt.Sprintf(`<img src="data:image/png;base64,%s" alt="Statistical Graph" style="max-width: 100%%; height: auto;">`, encoded)
}

// WriteHTML writes the assembled document to the output directory, named
// from the sanitized company name. Returns the written file path.
func (s *Service) WriteHTML(company, html, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outputDir, SanitizeCompanyName(company)+outputSuffix+".html")
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("failed to write HTML report: %w", err)
	}

	s.logger.Info().Str("path", path).Msg("HTML report saved")
	return path, nil
}

// PDFPath returns the PDF output path paired with an HTML report path.
func PDFPath(htmlPath string) string {
	return strings.TrimSuffix(htmlPath, ".html") + ".pdf"
}

// SanitizeCompanyName makes a company name safe for file naming: spaces
// and path separators become underscores.
func SanitizeCompanyName(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	return name
}
