package references

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/insight/internal/models"
)

// yearPattern extracts a publication year from free-form byline text.
var yearPattern = regexp.MustCompile(`\b(20\d{2}|19\d{2})\b`)

// SourceDescriptor drives the generic academic scraper for one site.
// Selector fields may list comma-separated alternatives; goquery treats
// the comma as a union, so the first markup variant that matches wins.
type SourceDescriptor struct {
	// Name matches the source entry in the sources file.
	Name string

	// Label is the source label stamped on produced records.
	Label string

	// SearchURL is a format string receiving the escaped query.
	SearchURL string

	// ItemSelector selects one result entry.
	ItemSelector string

	// TitleSelector selects the title element within an entry.
	TitleSelector string

	// LinkSelector selects the anchor carrying the result link, relative
	// to the entry. Empty means the title element itself is the anchor.
	LinkSelector string

	// LinkBase is prepended to relative hrefs.
	LinkBase string

	// SummarySelector selects the abstract/summary element.
	SummarySelector string

	// DateSelector selects the publish-date element.
	DateSelector string

	// DateIsYear extracts a bare year from the date element's text
	// instead of using the text verbatim (byline-style listings).
	DateIsYear bool

	// BrowserUA sends a browser user agent with the request.
	BrowserUA bool

	// CurrentYearParam appends the current year to the search URL
	// (scholar-style "as_ylo" filtering).
	CurrentYearParam bool
}

// builtinDescriptors describes the academic sources the aggregator knows
// how to scrape. The sources file picks which of these run, and in what
// order.
var builtinDescriptors = []SourceDescriptor{
	{
		Name:            "semantic_scholar",
		Label:           "SemanticScholar",
		SearchURL:       "https://www.semanticscholar.org/search?q=%s&sort=recency",
		ItemSelector:    "div.cl-paper-row, div.search-result",
		TitleSelector:   "a.cl-paper-title, a.search-result-title",
		LinkBase:        "https://www.semanticscholar.org",
		SummarySelector: "div.cl-paper-abstract, div.search-result-abstract",
		DateSelector:    "span.cl-paper-pubyear, span.search-result-year",
		BrowserUA:       true,
	},
	{
		Name:            "acm",
		Label:           "ACM",
		SearchURL:       "https://dl.acm.org/action/doSearch?AllField=%s",
		ItemSelector:    ".search__item",
		TitleSelector:   "h5",
		LinkSelector:    "a",
		LinkBase:        "https://dl.acm.org",
		SummarySelector: "div.issue-item__abstract",
		DateSelector:    "span.bookPubDate, span.epub-section__date",
	},
	{
		Name:             "google_scholar",
		Label:            "Google Scholar",
		SearchURL:        "https://scholar.google.com/scholar?q=%s",
		ItemSelector:     ".gs_ri",
		TitleSelector:    "h3.gs_rt",
		SummarySelector:  "div.gs_rs",
		DateSelector:     "div.gs_a",
		DateIsYear:       true,
		BrowserUA:        true,
		CurrentYearParam: true,
	},
}

// descriptorFor returns the builtin descriptor matching the source name
func descriptorFor(name string) (SourceDescriptor, bool) {
	for _, d := range builtinDescriptors {
		if d.Name == name {
			return d, true
		}
	}
	return SourceDescriptor{}, false
}

// scrapeSource fetches and parses one academic source's search results.
// Network or markup failures surface as errors; the caller treats them as
// a zero contribution from this source.
func scrapeSource(ctx context.Context, client *http.Client, desc SourceDescriptor, query string, now time.Time) ([]models.Reference, error) {
	searchURL := fmt.Sprintf(desc.SearchURL, url.QueryEscape(query))
	if desc.CurrentYearParam {
		searchURL += fmt.Sprintf("&as_ylo=%d", now.Year())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	if desc.BrowserUA {
		req.Header.Set("User-Agent", "Mozilla/5.0")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s search returned http %d", desc.Name, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s results: %w", desc.Name, err)
	}

	return ParseSourceDocument(doc, desc), nil
}

// ParseSourceDocument extracts candidate records from a source result page
// per the descriptor's field mappings. Recency and dedup filtering happen
// in the aggregator, not here.
func ParseSourceDocument(doc *goquery.Document, desc SourceDescriptor) []models.Reference {
	var records []models.Reference

	doc.Find(desc.ItemSelector).Each(func(_ int, item *goquery.Selection) {
		titleElem := item.Find(desc.TitleSelector).First()
		title := strings.TrimSpace(titleElem.Text())
		if title == "" {
			title = "No title"
		}

		link := extractLink(item, titleElem, desc)

		summary := ""
		if desc.SummarySelector != "" {
			summary = strings.TrimSpace(item.Find(desc.SummarySelector).First().Text())
		}

		pubDate := ""
		if desc.DateSelector != "" {
			dateText := strings.TrimSpace(item.Find(desc.DateSelector).First().Text())
			if desc.DateIsYear {
				if m := yearPattern.FindString(dateText); m != "" {
					pubDate = m
				}
			} else {
				pubDate = dateText
			}
		}

		records = append(records, models.Reference{
			Title:           title,
			Link:            link,
			Source:          desc.Label,
			Content:         summary,
			PublicationDate: pubDate,
		})
	})

	return records
}

func extractLink(item, titleElem *goquery.Selection, desc SourceDescriptor) string {
	anchor := titleElem
	if desc.LinkSelector != "" {
		anchor = item.Find(desc.LinkSelector).First()
	} else if !titleElem.Is("a") {
		anchor = titleElem.Find("a").First()
	}

	href, ok := anchor.Attr("href")
	if !ok || href == "" {
		return ""
	}

	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return desc.LinkBase + href
}
