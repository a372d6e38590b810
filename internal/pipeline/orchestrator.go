package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/common"
	"github.com/ternarybob/insight/internal/interfaces"
	"github.com/ternarybob/insight/internal/models"
	"github.com/ternarybob/insight/internal/services/analyst"
	"github.com/ternarybob/insight/internal/services/assembler"
	"github.com/ternarybob/insight/internal/services/composer"
	"github.com/ternarybob/insight/internal/services/extract"
	"github.com/ternarybob/insight/internal/services/pdf"
)

// Reference digest limits when the executive summary is unavailable.
const (
	coreContentRefs    = 4
	coreContentSnippet = 200
)

// Orchestrator sequences one company's run through every pipeline stage.
// Only the website fetch is fatal; every later stage degrades and the run
// still produces an HTML report.
type Orchestrator struct {
	config    *common.Config
	logger    arbor.ILogger
	fetcher   interfaces.PageFetcher
	refs      interfaces.ReferenceService
	extractor *extract.Service
	analyst   *analyst.Service
	composer  *composer.Service
	assembler *assembler.Service
	exporter  *pdf.Service
}

// NewOrchestrator wires the pipeline stages around the supplied
// collaborators. printer may be nil when no browser printing is wanted.
func NewOrchestrator(config *common.Config, logger arbor.ILogger, llm interfaces.LLMService, fetcher interfaces.PageFetcher, refs interfaces.ReferenceService, printer interfaces.HTMLPrinter) *Orchestrator {
	return &Orchestrator{
		config:    config,
		logger:    logger,
		fetcher:   fetcher,
		refs:      refs,
		extractor: extract.NewService(llm, logger),
		analyst:   analyst.NewService(llm, logger),
		composer:  composer.NewService(llm, logger),
		assembler: assembler.NewService(logger),
		exporter:  pdf.NewService(printer, logger),
	}
}

// Run executes the full pipeline for one company and returns the final
// run state. An error means nothing was produced; a nil error guarantees
// at least the HTML artifact exists.
func (o *Orchestrator) Run(ctx context.Context, company, websiteURL string) (*models.RunState, error) {
	run := &models.RunState{
		RunID:      uuid.New().String(),
		Company:    company,
		WebsiteURL: websiteURL,
	}

	logger := o.logger.WithCorrelationId(run.RunID)
	logger.Info().
		Str("company", company).
		Str("url", websiteURL).
		Msg("Starting pipeline run")

	text, err := o.fetcher.FetchText(ctx, websiteURL)
	if err != nil {
		return nil, fmt.Errorf("website fetch failed for %s: %w", company, err)
	}
	run.WebsiteText = text

	run.Extraction = o.extractor.Extract(ctx, company, run.WebsiteText)
	run.References = o.refs.Gather(ctx, company, run.Extraction)

	run.Competitors = o.analyst.IdentifyCompetitors(ctx, run.WebsiteText, run.Extraction.Raw)
	run.BenchmarkingReport = o.analyst.GenerateBenchmarkingReport(ctx, run.WebsiteText, run.Extraction.Raw, run.Competitors, run.References)
	if run.BenchmarkingReport != "" {
		run.ExecutiveSummary = o.analyst.GenerateExecutiveSummary(ctx, run.BenchmarkingReport)
	}
	run.CoreContent = o.coreContent(run)

	run.Artifacts = o.composer.Compose(ctx, composer.Input{
		Industry:    run.Extraction.Industry,
		Keywords:    run.Extraction.Keywords,
		CoreContent: run.CoreContent,
		Competitors: run.Competitors,
		Audience:    run.Extraction.Industry,
		WordCount:   o.config.Report.WordCount,
		References:  run.References,
	})

	html, err := o.assembler.Assemble(company, run.Artifacts)
	if err != nil {
		return nil, fmt.Errorf("document assembly failed for %s: %w", company, err)
	}

	run.HTMLPath, err = o.assembler.WriteHTML(company, html, o.config.Report.OutputDir)
	if err != nil {
		return nil, err
	}

	pdfPath := assembler.PDFPath(run.HTMLPath)
	merged := o.assembler.MergeMarkdown(run.Artifacts)
	if err := o.exporter.Export(ctx, run.HTMLPath, merged, company+" Insight Digest", pdfPath); err != nil {
		logger.Warn().Err(err).Msg("PDF export failed, HTML report is still available")
	} else {
		run.PDFPath = pdfPath
	}

	logger.Info().
		Str("html", run.HTMLPath).
		Str("pdf", run.PDFPath).
		Int("references", len(run.References)).
		Msg("Pipeline run complete")

	return run, nil
}

// coreContent picks the anchor text for all downstream generation: the
// executive summary when available, otherwise a digest of the top
// references, otherwise a one-line statement about the company.
func (o *Orchestrator) coreContent(run *models.RunState) string {
	if run.ExecutiveSummary != "" {
		return run.ExecutiveSummary
	}

	if len(run.References) > 0 {
		o.logger.Warn().Msg("No executive summary available, deriving core content from references")
		n := len(run.References)
		if n > coreContentRefs {
			n = coreContentRefs
		}
		lines := make([]string, 0, n)
		for _, ref := range run.References[:n] {
			snippet := ref.Content
			if runes := []rune(snippet); len(runes) > coreContentSnippet {
				snippet = string(runes[:coreContentSnippet])
			}
			lines = append(lines, fmt.Sprintf("%s: %s...", ref.Title, snippet))
		}
		return strings.Join(lines, "\n")
	}

	o.logger.Warn().Msg("No summary or references available, using minimal core content")
	return fmt.Sprintf("%s operates in the %s industry.", run.Company, run.Extraction.Industry)
}
