package references

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorFor(t *testing.T) {
	for _, name := range []string{"semantic_scholar", "acm", "google_scholar"} {
		desc, ok := descriptorFor(name)
		require.True(t, ok, name)
		assert.Equal(t, name, desc.Name)
	}

	_, ok := descriptorFor("unknown_source")
	assert.False(t, ok)
}

func TestParseSourceDocumentScholar(t *testing.T) {
	html := `<div class="gs_ri">
		<h3 class="gs_rt"><a href="https://example.org/paper">Predictive maintenance with edge ML</a></h3>
		<div class="gs_a">A Author, B Author - Journal of Things, 2025 - example.org</div>
		<div class="gs_rs">We study sensor-driven maintenance scheduling.</div>
	</div>`

	desc, ok := descriptorFor("google_scholar")
	require.True(t, ok)

	records := ParseSourceDocument(newsDoc(t, html), desc)
	require.Len(t, records, 1)

	assert.Equal(t, "Predictive maintenance with edge ML", records[0].Title)
	assert.Equal(t, "https://example.org/paper", records[0].Link)
	assert.Equal(t, "Google Scholar", records[0].Source)
	assert.Equal(t, "We study sensor-driven maintenance scheduling.", records[0].Content)
	assert.Equal(t, "2025", records[0].PublicationDate, "byline year is extracted")
}

func TestParseSourceDocumentACMRelativeLink(t *testing.T) {
	html := `<div class="search__item">
		<h5>Anomaly detection at scale</h5>
		<a href="/doi/10.1145/1234567">link</a>
		<span class="bookPubDate">12 Jun 2025</span>
	</div>`

	desc, ok := descriptorFor("acm")
	require.True(t, ok)

	records := ParseSourceDocument(newsDoc(t, html), desc)
	require.Len(t, records, 1)

	assert.Equal(t, "Anomaly detection at scale", records[0].Title)
	assert.Equal(t, "https://dl.acm.org/doi/10.1145/1234567", records[0].Link)
	assert.Equal(t, "12 Jun 2025", records[0].PublicationDate, "verbatim date text is kept")
}

func TestParseSourceDocumentMissingFields(t *testing.T) {
	html := `<div class="search__item"><p>malformed entry</p></div>`

	desc, ok := descriptorFor("acm")
	require.True(t, ok)

	records := ParseSourceDocument(newsDoc(t, html), desc)
	require.Len(t, records, 1)

	assert.Equal(t, "No title", records[0].Title)
	assert.Empty(t, records[0].Link)
	assert.Empty(t, records[0].PublicationDate)
}
