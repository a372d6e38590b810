package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/interfaces"
)

// Service exports the assembled report to PDF. The primary path prints
// the written HTML file through the headless browser; when no browser is
// available the merged Markdown is rendered directly with fpdf. Export
// failure is logged and non-fatal - the HTML artifact remains.
type Service struct {
	printer interfaces.HTMLPrinter
	logger  arbor.ILogger
}

// NewService creates a new PDF export service. printer may be nil, in
// which case only the direct Markdown rendering path is used.
func NewService(printer interfaces.HTMLPrinter, logger arbor.ILogger) *Service {
	return &Service{
		printer: printer,
		logger:  logger,
	}
}

// Export writes a PDF rendition of the report to pdfPath. htmlPath is the
// already-written HTML artifact; markdown is the merged document text used
// by the fallback renderer.
func (s *Service) Export(ctx context.Context, htmlPath, markdown, title, pdfPath string) error {
	data, err := s.render(ctx, htmlPath, markdown, title)
	if err != nil {
		return err
	}

	// Structural sanity check; an invalid PDF is still written so the
	// operator can inspect it, but the defect is surfaced.
	if err := api.Validate(bytes.NewReader(data), nil); err != nil {
		s.logger.Warn().Err(err).Msg("Generated PDF failed structural validation")
	}

	if err := os.WriteFile(pdfPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write PDF report: %w", err)
	}

	s.logger.Info().Str("path", pdfPath).Int("bytes", len(data)).Msg("PDF report saved")
	return nil
}

func (s *Service) render(ctx context.Context, htmlPath, markdown, title string) ([]byte, error) {
	if s.printer != nil {
		data, err := s.printer.PrintToPDF(ctx, htmlPath)
		if err == nil {
			return data, nil
		}
		s.logger.Warn().Err(err).Msg("Browser PDF printing failed, falling back to direct rendering")
	}

	data, err := ConvertMarkdownToPDF(markdown, title)
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return data, nil
}
