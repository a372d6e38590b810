package interfaces

import (
	"context"
)

// FetchLogStore is the durable per-company record of reference identifiers
// that have already been surfaced in earlier runs. It backs cross-run
// deduplication in the reference aggregator.
//
// Identifiers are appended one at a time as references are accepted, so a
// crash mid-aggregation never loses more than the in-flight record.
// Concurrent runs against the same company are not synchronized; callers
// must serialize them.
type FetchLogStore interface {
	// Load returns every identifier previously recorded for the company.
	// An unknown company yields an empty slice, not an error.
	Load(ctx context.Context, company string) ([]string, error)

	// Append durably records one newly accepted identifier for the company.
	// Appending an identifier that is already present is a no-op.
	Append(ctx context.Context, company string, id string) error

	// Close releases the underlying storage resources.
	Close() error
}
