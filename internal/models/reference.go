package models

// Reference is one retrieved news or academic item used as supporting
// context for the generated report. Records are created by a fetch/scrape
// call and never mutated afterwards.
type Reference struct {
	Title           string `json:"title"`
	Link            string `json:"link"`
	Source          string `json:"source"`
	Content         string `json:"content"`
	PublicationDate string `json:"publication_date,omitempty"`
}

// ID returns the natural deduplication key for the reference within a
// company's fetch log. The link is the identifier; records without links
// fall back to a source/title composite.
func (r Reference) ID() string {
	if r.Link != "" {
		return r.Link
	}
	return r.Source + ":" + r.Title
}

// Extraction is the structured industry/keyword pair parsed from the
// extractor's two-line response format.
type Extraction struct {
	// Industry is the inferred primary industry, "General" when unknown.
	Industry string

	// Keywords are the extracted company-specific keywords in response order.
	Keywords []string

	// Raw is the original "Industry: ...\nKeywords: ..." text. Later
	// generation prompts include it verbatim as context.
	Raw string
}
