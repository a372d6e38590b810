package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// ConvertMarkdownToPDF renders the merged report Markdown directly to PDF
// bytes. Used when the browser printing path is unavailable; inline HTML
// (the embedded chart image) is skipped since fpdf cannot rasterize it.
func ConvertMarkdownToPDF(markdown, title string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(title, true)
	doc.SetMargins(10, 10, 10)
	doc.SetAutoPageBreak(true, 10)
	doc.AddPage()
	doc.SetFont("Arial", "", 9)

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	source := []byte(markdown)
	root := md.Parser().Parse(text.NewReader(source))

	r := &renderer{pdf: doc, source: source, size: 9}
	if err := ast.Walk(root, r.walk); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF output: %w", err)
	}
	return buf.Bytes(), nil
}

type renderer struct {
	pdf       *fpdf.Fpdf
	source    []byte
	size      float64
	bold      bool
	italic    bool
	listLevel int
}

func (r *renderer) updateFont() {
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic {
		style += "I"
	}
	r.pdf.SetFont("Arial", style, r.size)
}

func (r *renderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n.Kind() {
	case ast.KindHeading:
		return r.handleHeading(n.(*ast.Heading), entering)
	case ast.KindParagraph:
		if !entering {
			r.pdf.Ln(7)
		}
	case ast.KindText:
		if entering {
			r.pdf.Write(5, string(n.Text(r.source)))
		}
	case ast.KindEmphasis:
		if n.(*ast.Emphasis).Level == 2 {
			r.bold = entering
		} else {
			r.italic = entering
		}
		r.updateFont()
	case ast.KindList:
		if entering {
			r.listLevel++
		} else {
			r.listLevel--
			if r.listLevel == 0 {
				r.pdf.Ln(2)
			}
		}
	case ast.KindListItem:
		if entering {
			r.pdf.Ln(5)
			r.pdf.SetX(15 + float64(r.listLevel)*5.0)
			r.pdf.Write(5, "- ")
		}
	case ast.KindThematicBreak:
		if entering {
			r.pdf.Ln(2)
			r.pdf.Line(15, r.pdf.GetY(), 195, r.pdf.GetY())
			r.pdf.Ln(2)
		}
	case ast.KindHTMLBlock, ast.KindRawHTML:
		// Chart images and placeholder notices arrive as raw HTML.
		return ast.WalkSkipChildren, nil
	case extast.KindTable:
		return r.handleTable(n.(*extast.Table), entering)
	}
	return ast.WalkContinue, nil
}

func (r *renderer) handleHeading(n *ast.Heading, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.pdf.Ln(6)
		size := 10.0
		switch n.Level {
		case 1:
			size = 14
		case 2:
			size = 12
		case 3:
			size = 11
		}
		r.pdf.SetFont("Arial", "B", size)
	} else {
		r.pdf.Ln(6)
		r.updateFont()
	}
	return ast.WalkContinue, nil
}

func (r *renderer) handleTable(n *extast.Table, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	// TableHeader carries its cells directly, so it reads like a row.
	var rows [][]string
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *extast.TableHeader, *extast.TableRow:
			rows = append(rows, r.extractRow(child))
		}
	}

	r.renderTable(rows)
	return ast.WalkSkipChildren, nil
}

func (r *renderer) extractRow(n ast.Node) []string {
	var row []string
	for cell := n.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if _, ok := cell.(*extast.TableCell); ok {
			row = append(row, string(cell.Text(r.source)))
		}
	}
	return row
}

func (r *renderer) renderTable(rows [][]string) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}

	const (
		pageWidth  = 190.0
		fontSize   = 8.0
		lineHeight = 4.0
	)
	numCols := len(rows[0])
	colWidths := r.columnWidths(rows, numCols, pageWidth, fontSize)

	r.pdf.Ln(2)
	for i, row := range rows {
		if i == 0 {
			r.pdf.SetFont("Arial", "B", fontSize)
			r.pdf.SetFillColor(230, 230, 230)
		} else {
			r.pdf.SetFont("Arial", "", fontSize)
		}

		maxLines := 1
		for j, cell := range row {
			if j >= numCols {
				break
			}
			if lines := r.wrapLines(cell, colWidths[j]-2); lines > maxLines {
				maxLines = lines
			}
		}
		if maxLines > 8 {
			maxLines = 8
		}

		rowHeight := float64(maxLines)*lineHeight + 2
		startX := r.pdf.GetX()
		startY := r.pdf.GetY()
		if startY+rowHeight > 282 {
			r.pdf.AddPage()
			startY = r.pdf.GetY()
		}

		x := startX
		for j, cell := range row {
			if j >= numCols {
				break
			}
			if i == 0 {
				r.pdf.Rect(x, startY, colWidths[j], rowHeight, "FD")
			} else {
				r.pdf.Rect(x, startY, colWidths[j], rowHeight, "D")
			}
			r.pdf.SetXY(x+1, startY+1)
			r.pdf.MultiCell(colWidths[j]-2, lineHeight, cell, "", "L", false)
			x += colWidths[j]
		}
		r.pdf.SetXY(startX, startY+rowHeight)
	}

	r.pdf.Ln(3)
	r.updateFont()
}

// columnWidths sizes each column to its widest cell and scales the set to
// fill the printable width.
func (r *renderer) columnWidths(rows [][]string, numCols int, pageWidth, fontSize float64) []float64 {
	widths := make([]float64, numCols)
	r.pdf.SetFont("Arial", "B", fontSize)
	for _, row := range rows {
		for i, cell := range row {
			if i >= numCols {
				break
			}
			if w := r.pdf.GetStringWidth(cell) + 4; w > widths[i] {
				widths[i] = w
			}
		}
	}

	const minWidth = 12.0
	maxWidth := pageWidth / 2
	total := 0.0
	for i := range widths {
		if widths[i] < minWidth {
			widths[i] = minWidth
		}
		if widths[i] > maxWidth {
			widths[i] = maxWidth
		}
		total += widths[i]
	}

	scale := pageWidth / total
	for i := range widths {
		widths[i] *= scale
	}
	return widths
}

// wrapLines estimates how many lines a cell needs at the given width.
func (r *renderer) wrapLines(cell string, width float64) int {
	if cell == "" || width <= 0 {
		return 1
	}
	words := strings.Fields(cell)
	if len(words) == 0 {
		return 1
	}

	lines := 1
	lineWidth := 0.0
	spaceWidth := r.pdf.GetStringWidth(" ")
	for _, word := range words {
		w := r.pdf.GetStringWidth(word)
		switch {
		case lineWidth == 0:
			lineWidth = w
		case lineWidth+spaceWidth+w <= width:
			lineWidth += spaceWidth + w
		default:
			lines++
			lineWidth = w
		}
	}
	return lines
}
