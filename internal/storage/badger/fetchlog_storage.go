package badger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/interfaces"
	"github.com/timshannon/badgerhold/v4"
)

// FetchLogEntry is one previously surfaced reference identifier for a
// company. Entries are append-only; the composite badgerhold key makes
// writes idempotent per identifier.
type FetchLogEntry struct {
	Company    string `badgerholdIndex:"Company"`
	RefID      string
	AcceptedAt time.Time
}

// FetchLogStorage implements the FetchLogStore interface for Badger
type FetchLogStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.FetchLogStore = (*FetchLogStorage)(nil)

// NewFetchLogStorage creates a new FetchLogStorage instance
func NewFetchLogStorage(db *BadgerDB, logger arbor.ILogger) *FetchLogStorage {
	return &FetchLogStorage{
		db:     db,
		logger: logger,
	}
}

// normalizeCompany keeps keys case-insensitive and whitespace-stable
func normalizeCompany(company string) string {
	return strings.ToLower(strings.TrimSpace(company))
}

// entryKey builds the composite storage key for a company/identifier pair
func entryKey(company, id string) string {
	return normalizeCompany(company) + "\x00" + id
}

// Load returns every identifier previously recorded for the company
func (s *FetchLogStorage) Load(ctx context.Context, company string) ([]string, error) {
	var entries []FetchLogEntry
	err := s.db.Store().Find(&entries, badgerhold.Where("Company").Eq(normalizeCompany(company)).Index("Company"))
	if err != nil {
		return nil, fmt.Errorf("failed to load fetch log for %s: %w", company, err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.RefID)
	}

	s.logger.Debug().
		Str("company", company).
		Int("ids", len(ids)).
		Msg("Loaded fetch log")

	return ids, nil
}

// Append durably records one newly accepted identifier for the company.
// Upsert on the composite key keeps the operation idempotent.
func (s *FetchLogStorage) Append(ctx context.Context, company string, id string) error {
	entry := FetchLogEntry{
		Company:    normalizeCompany(company),
		RefID:      id,
		AcceptedAt: time.Now(),
	}

	if err := s.db.Store().Upsert(entryKey(company, id), &entry); err != nil {
		return fmt.Errorf("failed to append fetch log entry: %w", err)
	}

	return nil
}

// Close closes the underlying database connection
func (s *FetchLogStorage) Close() error {
	return s.db.Close()
}
