package fetch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/insight/internal/common"
	"github.com/ternarybob/insight/internal/interfaces"
)

// boilerplateSelectors are removed from fetched pages before text
// extraction. Matches the regions that carry navigation chrome rather
// than content.
const boilerplateSelectors = "script, style, nav, footer, header, aside"

// Service renders pages in a headless browser and extracts their visible
// text. It also prints rendered HTML files to PDF through the same browser.
type Service struct {
	logger        arbor.ILogger
	config        *common.FetchConfig
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	settleWait    time.Duration
	timeout       time.Duration
}

// Compile-time assertions
var (
	_ interfaces.PageFetcher = (*Service)(nil)
	_ interfaces.HTMLPrinter = (*Service)(nil)
)

// NewService creates a fetch service with a dedicated headless browser.
// The browser is started lazily on first use so construction never blocks
// on Chrome availability.
func NewService(config *common.FetchConfig, logger arbor.ILogger) *Service {
	settleWait := 5 * time.Second
	if config.SettleWait != "" {
		if parsed, err := time.ParseDuration(config.SettleWait); err == nil {
			settleWait = parsed
		}
	}

	timeout := 60 * time.Second
	if config.Timeout != "" {
		if parsed, err := time.ParseDuration(config.Timeout); err == nil {
			timeout = parsed
		}
	}

	return &Service{
		logger:     logger,
		config:     config,
		settleWait: settleWait,
		timeout:    timeout,
	}
}

// ensureBrowser starts the exec allocator and browser context on first use
func (s *Service) ensureBrowser() error {
	if s.browserCtx != nil {
		return nil
	}

	allocatorOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.config.Headless),
		chromedp.Flag("disable-gpu", s.config.DisableGPU),
		chromedp.Flag("no-sandbox", s.config.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(s.config.UserAgent),
	)

	s.allocCtx, s.allocCancel = chromedp.NewExecAllocator(context.Background(), allocatorOpts...)
	s.browserCtx, s.browserCancel = chromedp.NewContext(s.allocCtx)

	// Startup probe so a missing Chrome binary fails here, not mid-run
	probeCtx, cancel := context.WithTimeout(s.browserCtx, 30*time.Second)
	defer cancel()
	if err := chromedp.Run(probeCtx, chromedp.Navigate("about:blank")); err != nil {
		s.Close()
		return fmt.Errorf("failed to start headless browser: %w", err)
	}

	s.logger.Debug().
		Bool("headless", s.config.Headless).
		Str("user_agent", s.config.UserAgent).
		Msg("Headless browser started")

	return nil
}

// FetchText navigates to the URL, waits for scripts to settle, and returns
// the boilerplate-stripped visible text of the rendered page.
func (s *Service) FetchText(ctx context.Context, url string) (string, error) {
	if err := s.ensureBrowser(); err != nil {
		return "", err
	}

	url = NormalizeURL(url)

	s.logger.Info().Str("url", url).Msg("Fetching website content")

	// Fresh tab per fetch keeps page state from leaking between runs
	tabCtx, tabCancel := chromedp.NewContext(s.browserCtx)
	defer tabCancel()

	runCtx, cancel := context.WithTimeout(tabCtx, s.timeout)
	defer cancel()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(s.settleWait),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", url, err)
	}

	text, err := ExtractText(html)
	if err != nil {
		return "", fmt.Errorf("failed to parse rendered page: %w", err)
	}

	if text == "" {
		return "", fmt.Errorf("no meaningful content extracted from %s", url)
	}

	s.logger.Info().
		Str("url", url).
		Int("text_length", len(text)).
		Msg("Fetched and parsed website content")

	return text, nil
}

// PrintToPDF loads the HTML file from disk and prints it to PDF bytes
// using the browser's print pipeline.
func (s *Service) PrintToPDF(ctx context.Context, htmlPath string) ([]byte, error) {
	if err := s.ensureBrowser(); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve HTML path: %w", err)
	}
	fileURL := "file://" + filepath.ToSlash(absPath)

	tabCtx, tabCancel := chromedp.NewContext(s.browserCtx)
	defer tabCancel()

	runCtx, cancel := context.WithTimeout(tabCtx, s.timeout)
	defer cancel()

	var pdfData []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate(fileURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithMarginTop(0.5).
				WithMarginBottom(0.5).
				WithMarginLeft(0.5).
				WithMarginRight(0.5).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print %s to PDF: %w", htmlPath, err)
	}

	return pdfData, nil
}

// Close releases the browser resources
func (s *Service) Close() error {
	if s.browserCancel != nil {
		s.browserCancel()
		s.browserCancel = nil
		s.browserCtx = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
		s.allocCtx = nil
	}
	return nil
}

// NormalizeURL defaults the scheme to https when none is present
func NormalizeURL(url string) string {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "https://" + url
	}
	return url
}

// ExtractText strips boilerplate regions from an HTML document and joins
// the remaining visible text with single spaces.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(boilerplateSelectors).Remove()

	var parts []string
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	for _, field := range strings.Fields(body.Text()) {
		parts = append(parts, field)
	}

	return strings.Join(parts, " "), nil
}
