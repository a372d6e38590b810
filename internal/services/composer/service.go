package composer

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/interfaces"
	"github.com/ternarybob/insight/internal/models"
)

// Input carries everything the composer needs to produce the three
// sub-artifacts for one run.
type Input struct {
	// Industry and Keywords come from the extraction stage.
	Industry string
	Keywords []string

	// CoreContent anchors all three generations: the executive summary or
	// its derived substitute.
	CoreContent string

	// Competitors is the free-text competitor list, possibly empty.
	Competitors string

	// Audience labels who the post addresses (the industry name by
	// default).
	Audience string

	// WordCount is the target prose length.
	WordCount int

	// References are cited in the prose and enumerated in its References
	// section.
	References []models.Reference
}

// Service produces the prose, table, and graph sub-artifacts. Each
// sub-generator tries the generation service once and falls back to a
// deterministic local generator on failure or unusable output, so Compose
// always returns three usable artifacts.
type Service struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

// NewService creates a new content composition service
func NewService(llm interfaces.LLMService, logger arbor.ILogger) *Service {
	return &Service{
		llm:    llm,
		logger: logger,
	}
}

// Compose generates all three sub-artifacts for the input. Callers cannot
// tell (and must not care) whether a given artifact came from the
// generation service or a fallback.
func (s *Service) Compose(ctx context.Context, input Input) models.ComposedArtifacts {
	return models.ComposedArtifacts{
		Prose:         s.GenerateProse(ctx, input),
		TableMarkdown: s.GenerateTable(ctx, input.CoreContent),
		Graph:         s.GenerateGraph(ctx, input.CoreContent),
	}
}
