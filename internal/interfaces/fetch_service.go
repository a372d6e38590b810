package interfaces

import (
	"context"
)

// PageFetcher retrieves the rendered text content of a web page.
// Implementations render the page in a headless browser so that
// script-driven sites produce usable text.
type PageFetcher interface {
	// FetchText navigates to the URL, waits for the page to settle, strips
	// boilerplate regions (script, style, nav, footer, header, aside) and
	// returns the remaining visible text.
	//
	// Returns an error when the page cannot be retrieved or yields no
	// meaningful content. There is nothing to analyze in that case, so
	// callers treat this as fatal for the run.
	FetchText(ctx context.Context, url string) (string, error)

	// Close releases the underlying browser resources.
	Close() error
}

// HTMLPrinter converts a rendered HTML file to PDF bytes via headless
// browser printing.
type HTMLPrinter interface {
	// PrintToPDF loads the HTML file from disk and prints it to PDF.
	PrintToPDF(ctx context.Context, htmlPath string) ([]byte, error)
}
