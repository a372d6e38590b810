package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "https://example.com"},
		{"www.example.com/about", "https://www.example.com/about"},
		{"https://example.com", "https://example.com"},
		{"http://example.com", "http://example.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeURL(tt.in))
	}
}

func TestExtractTextStripsBoilerplate(t *testing.T) {
	html := `<html><head><title>t</title><style>body{color:red}</style></head><body>
		<nav>Main menu</nav>
		<header>Site header</header>
		<p>Acme builds industrial robots.</p>
		<script>console.log("hi")</script>
		<aside>Sidebar junk</aside>
		<p>We serve automotive plants.</p>
		<footer>Copyright</footer>
	</body></html>`

	text, err := ExtractText(html)
	require.NoError(t, err)

	assert.Equal(t, "Acme builds industrial robots. We serve automotive plants.", text)
}

func TestExtractTextCollapsesWhitespace(t *testing.T) {
	text, err := ExtractText("<body><p>one\n\n   two\tthree</p></body>")
	require.NoError(t, err)
	assert.Equal(t, "one two three", text)
}

func TestExtractTextEmptyDocument(t *testing.T) {
	text, err := ExtractText("<body><nav>menu only</nav></body>")
	require.NoError(t, err)
	assert.Empty(t, text)
}
