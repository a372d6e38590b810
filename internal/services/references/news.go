package references

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/common"
	"github.com/ternarybob/insight/internal/models"
	"golang.org/x/time/rate"
)

const (
	newsSourceLabel   = "Google News"
	newsTitleMaxChars = 100
	newsBaseURL       = "https://news.google.com"
)

// NewsFetcher gathers recent news references by issuing one Google News
// search per keyword plus one for the company name.
type NewsFetcher struct {
	config  *common.NewsConfig
	logger  arbor.ILogger
	client  *http.Client
	limiter *rate.Limiter

	// baseURL is a seam for endpoint-level tests
	baseURL string
}

// NewNewsFetcher creates a news fetcher with a bounded request timeout and
// polite pacing between keyword searches.
func NewNewsFetcher(config *common.NewsConfig, logger arbor.ILogger) *NewsFetcher {
	timeout := 10 * time.Second
	if config.RequestTimeout != "" {
		if parsed, err := time.ParseDuration(config.RequestTimeout); err == nil {
			timeout = parsed
		}
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	return &NewsFetcher{
		config:  config,
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
		baseURL: newsBaseURL,
	}
}

// FetchRecent runs one search per keyword (and the company name) and
// returns at most MaxResults records across all searches, in keyword
// iteration order. Failed searches contribute nothing and never abort the
// remaining keywords.
func (f *NewsFetcher) FetchRecent(ctx context.Context, keywords []string, company string) []models.Reference {
	queries := append([]string{}, keywords...)
	if company != "" {
		queries = append(queries, company)
	}

	var results []models.Reference
	for _, query := range queries {
		if len(results) >= f.config.MaxResults {
			break
		}

		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				break
			}
		}

		records, err := f.search(ctx, query)
		if err != nil {
			f.logger.Warn().Err(err).Str("query", query).Msg("News search failed, skipping keyword")
			continue
		}

		for _, record := range records {
			if len(results) >= f.config.MaxResults {
				break
			}
			results = append(results, record)
		}
	}

	f.logger.Info().
		Int("articles", len(results)).
		Int("keywords", len(queries)).
		Msg("Recent news fetch complete")

	return results
}

// search issues one Google News query and parses the result page
func (f *NewsFetcher) search(ctx context.Context, query string) ([]models.Reference, error) {
	searchURL := fmt.Sprintf(
		"%s/search?q=%s%%20when:%dd&hl=en-US&gl=US&ceid=US:en",
		f.baseURL, url.QueryEscape(query), f.config.Days)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("news search returned http %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news results: %w", err)
	}

	return ParseNewsDocument(doc), nil
}

// ParseNewsDocument extracts news records from a Google News search result
// page. Titles are truncated to 100 characters; the content snippet of a
// news record is its title.
func ParseNewsDocument(doc *goquery.Document) []models.Reference {
	var records []models.Reference

	doc.Find("article").Each(func(_ int, article *goquery.Selection) {
		title := truncateRunes(strings.TrimSpace(article.Text()), newsTitleMaxChars)

		link := ""
		article.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			if strings.HasPrefix(href, "./articles") {
				link = "https://news.google.com" + href[1:]
				return false
			}
			return true
		})

		records = append(records, models.Reference{
			Title:   title,
			Link:    link,
			Source:  newsSourceLabel,
			Content: title,
		})
	})

	return records
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
