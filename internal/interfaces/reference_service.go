package interfaces

import (
	"context"

	"github.com/ternarybob/insight/internal/models"
)

// ReferenceService gathers recent news and academic references for a
// company from the extracted industry/keyword pair.
type ReferenceService interface {
	// Gather runs the news strategy first and, only when it yields nothing,
	// falls back to the academic paper strategy. Individual source failures
	// degrade to zero records from that source and never surface as errors.
	Gather(ctx context.Context, company string, extraction models.Extraction) []models.Reference
}
