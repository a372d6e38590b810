package references

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/common"
	"github.com/ternarybob/insight/internal/interfaces"
	"github.com/ternarybob/insight/internal/models"
)

// Service aggregates news and academic references for a company. The news
// strategy runs first; the paper strategy only runs when news produced
// nothing. Paper acceptance is deduplicated against the durable per-company
// fetch log.
type Service struct {
	news     *NewsFetcher
	fetchLog interfaces.FetchLogStore
	config   *common.PapersConfig
	logger   arbor.ILogger
	client   *http.Client

	// now is a seam for deterministic recency tests
	now func() time.Time
}

// Compile-time assertion
var _ interfaces.ReferenceService = (*Service)(nil)

// NewService creates a new reference aggregation service
func NewService(news *NewsFetcher, fetchLog interfaces.FetchLogStore, config *common.PapersConfig, logger arbor.ILogger) *Service {
	return &Service{
		news:     news,
		fetchLog: fetchLog,
		config:   config,
		logger:   logger,
		client:   &http.Client{Timeout: 15 * time.Second},
		now:      time.Now,
	}
}

// Gather runs the news strategy and falls back to the paper strategy when
// no news was found. Failures inside either strategy degrade to fewer
// records; Gather itself never fails.
func (s *Service) Gather(ctx context.Context, company string, extraction models.Extraction) []models.Reference {
	refs := s.news.FetchRecent(ctx, extraction.Keywords, company)
	if len(refs) > 0 {
		return refs
	}

	s.logger.Info().Str("company", company).Msg("No recent news found, falling back to academic sources")
	return s.FetchPapers(ctx, company, extraction.Keywords)
}

// FetchPapers fans out across the configured academic sources. Each source
// is capped individually before aggregation; there is no global cap. A
// source that fails to load or parse contributes zero records without
// affecting the others.
func (s *Service) FetchPapers(ctx context.Context, company string, keywords []string) []models.Reference {
	sources, err := LoadSources(s.config.SourcesFile)
	if err != nil {
		s.logger.Warn().Err(err).Str("file", s.config.SourcesFile).Msg("Failed to load academic sources, skipping paper fetch")
		return nil
	}

	seen := s.loadSeen(ctx, company)
	query := strings.Join(keywords, " ")
	now := s.now()

	var all []models.Reference
	for _, source := range sources {
		s.logger.Info().Str("source", source.Name).Msg("Scraping academic source")

		var candidates []models.Reference
		var dateChecked bool

		switch source.Name {
		case "arxiv":
			candidates, err = fetchArxiv(ctx, keywords, s.config.Days, s.config.MaxPerSource, now)
			dateChecked = true
		default:
			desc, ok := descriptorFor(source.Name)
			if !ok {
				s.logger.Warn().Str("source", source.Name).Msg("Unknown academic source, skipping")
				continue
			}
			candidates, err = scrapeSource(ctx, s.client, desc, query, now)
		}

		if err != nil {
			s.logger.Warn().Err(err).Str("source", source.Name).Msg("Academic source scrape failed, contributing zero records")
			continue
		}

		accepted := s.accept(ctx, company, candidates, seen, dateChecked, now)
		all = append(all, accepted...)
	}

	if len(all) == 0 {
		s.logger.Info().Int("days", s.config.Days).Msg("No articles found from academic sources within the recency window")
	}

	return all
}

// accept applies the recency filter and fetch-log dedup to one source's
// candidates, flushing each newly accepted identifier to durable storage
// immediately. Records whose publish date fails to parse are rejected;
// records without a publish date pass (the source offered no date to
// check). dateChecked candidates were already filtered by timestamp.
func (s *Service) accept(ctx context.Context, company string, candidates []models.Reference, seen map[string]struct{}, dateChecked bool, now time.Time) []models.Reference {
	var accepted []models.Reference
	for _, record := range candidates {
		if len(accepted) >= s.config.MaxPerSource {
			break
		}

		if !dateChecked && record.PublicationDate != "" && !isRecentAt(record.PublicationDate, s.config.Days, now) {
			continue
		}

		id := record.ID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if err := s.fetchLog.Append(ctx, company, id); err != nil {
			s.logger.Warn().Err(err).Str("id", id).Msg("Failed to persist fetch log entry")
		}

		accepted = append(accepted, record)
	}
	return accepted
}

// loadSeen reads the company's fetch log into an in-memory set
func (s *Service) loadSeen(ctx context.Context, company string) map[string]struct{} {
	seen := make(map[string]struct{})

	ids, err := s.fetchLog.Load(ctx, company)
	if err != nil {
		s.logger.Warn().Err(err).Str("company", company).Msg("Failed to load fetch log, dedup limited to this run")
		return seen
	}

	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return seen
}
