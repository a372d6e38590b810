package pdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkdown = `# Acme Insights

Intro paragraph with **bold** and _italic_ text.

## Findings

| Impact Area | Description | Recommended Action |
|---|---|---|
| Revenue impact | Sales grew | Keep investing |
| Cost impact | Opex flat | Renegotiate contracts |

## Recommendations

1. First step
2. Second step

- A bullet
- Another bullet
`

func TestConvertMarkdownToPDF(t *testing.T) {
	data, err := ConvertMarkdownToPDF(sampleMarkdown, "Acme Insight Digest")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "output carries the PDF magic")
	assert.NoError(t, api.Validate(bytes.NewReader(data), nil), "output passes structural validation")
}

func TestConvertMarkdownToPDFSkipsInlineHTML(t *testing.T) {
	md := "# Title\n\n<img src=\"data:image/png;base64,AAAA\">\n\nTrailing paragraph.\n"

	data, err := ConvertMarkdownToPDF(md, "t")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestConvertMarkdownToPDFEmptyInput(t *testing.T) {
	data, err := ConvertMarkdownToPDF("", "t")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "an empty document still renders")
}
