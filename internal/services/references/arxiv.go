package references

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/ternarybob/insight/internal/models"
)

const arxivSourceLabel = "arXiv"

// fetchArxiv queries the arXiv Atom API for recent submissions matching
// the keywords. Entries carry a strict ISO timestamp, so unlike the
// scraped sources every record is date-checked against the recency window.
func fetchArxiv(ctx context.Context, keywords []string, days, maxResults int, now time.Time) ([]models.Reference, error) {
	terms := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		terms = append(terms, "all:"+kw)
	}
	query := url.QueryEscape(strings.Join(terms, " AND "))

	feedURL := fmt.Sprintf(
		"http://export.arxiv.org/api/query?search_query=%s&sortBy=submittedDate&sortOrder=descending&max_results=25",
		query)

	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("arXiv API query failed: %w", err)
	}

	var results []models.Reference
	for _, entry := range feed.Items {
		if entry.PublishedParsed == nil {
			continue
		}
		if !withinDayWindow(*entry.PublishedParsed, days, now) {
			continue
		}

		results = append(results, models.Reference{
			Title:           entry.Title,
			Link:            entry.Link,
			Source:          arxivSourceLabel,
			Content:         entry.Description,
			PublicationDate: entry.PublishedParsed.Format("2006-01-02"),
		})
		if len(results) >= maxResults {
			break
		}
	}

	return results, nil
}
