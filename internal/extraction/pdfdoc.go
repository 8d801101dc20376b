package extraction

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// rowTolerance is the vertical distance (in PDF points) within which text
	// fragments belong to the same row.
	rowTolerance = 2.5
	// cellGap is the horizontal gap (in points) that separates two table
	// cells on the same row.
	cellGap = 10.0
	// minSpaceGap is the smallest gap treated as a word boundary when glyph
	// fragments are joined; scaled by font size where one is known.
	minSpaceGap = 1.0
	// spaceFactor scales font size into an inter-word gap threshold.
	spaceFactor = 0.3
)

// fragment is one positioned run of text from the PDF content stream. The
// pdf library reports glyph-level fragments with origin at the bottom-left,
// Y increasing up the page.
type fragment struct {
	x, y, w float64
	size    float64
	text    string
}

// cell is a horizontally contiguous group of fragments within a row.
type cell struct {
	text string
	x, w float64
}

// textRow is one visual row of a page: its fragments grouped into cells plus
// the row joined as a plain text line.
type textRow struct {
	y     float64
	cells []cell
	line  string
}

// page holds the reconstructed text content of a single PDF page.
type page struct {
	number int
	rows   []textRow
}

// lines returns the page's text rows as plain lines, top to bottom.
func (p *page) lines() []string {
	out := make([]string, 0, len(p.rows))
	for _, r := range p.rows {
		if r.line != "" {
			out = append(out, r.line)
		}
	}
	return out
}

// document is a parsed PDF: per-page positioned rows ready for table
// reconstruction or line scanning.
type document struct {
	pages []page
}

// openDocument parses raw PDF bytes into positioned text rows per page.
// The pdf library panics on some malformed files, so parsing is guarded with
// recover; any failure is reported as an invalid-document error.
func openDocument(data []byte) (doc *document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = newError(ErrInvalidDocument, "PDF parsing panicked", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, newError(ErrInvalidDocument, "open PDF reader", err)
	}

	doc = &document{}
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}
		frags := pageFragments(p)
		doc.pages = append(doc.pages, page{
			number: i,
			rows:   groupRows(frags),
		})
	}
	return doc, nil
}

func pageFragments(p pdf.Page) []fragment {
	content := p.Content()
	frags := make([]fragment, 0, len(content.Text))
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		frags = append(frags, fragment{
			x:    t.X,
			y:    t.Y,
			w:    t.W,
			size: t.FontSize,
			text: t.S,
		})
	}
	return frags
}

// groupRows clusters fragments into visual rows (top of page first), then
// splits each row into cells on horizontal gaps.
func groupRows(frags []fragment) []textRow {
	if len(frags) == 0 {
		return nil
	}

	// Y grows upward, so descending Y is top-to-bottom reading order.
	sort.SliceStable(frags, func(i, j int) bool {
		if frags[i].y != frags[j].y {
			return frags[i].y > frags[j].y
		}
		return frags[i].x < frags[j].x
	})

	var rows []textRow
	group := []fragment{frags[0]}
	anchor := frags[0].y
	for _, f := range frags[1:] {
		if anchor-f.y <= rowTolerance {
			group = append(group, f)
			continue
		}
		rows = append(rows, buildRow(group))
		group = []fragment{f}
		anchor = f.y
	}
	rows = append(rows, buildRow(group))
	return rows
}

func buildRow(frags []fragment) textRow {
	sort.SliceStable(frags, func(i, j int) bool {
		return frags[i].x < frags[j].x
	})

	var cells []cell
	var lineParts []string
	var b strings.Builder
	start := frags[0].x
	end := frags[0].x + frags[0].w
	b.WriteString(frags[0].text)

	flush := func() {
		text := cleanText(b.String())
		if text != "" {
			cells = append(cells, cell{text: text, x: start, w: end - start})
			lineParts = append(lineParts, text)
		}
		b.Reset()
	}

	for _, f := range frags[1:] {
		gap := f.x - end
		if gap > cellGap {
			flush()
			start = f.x
		} else if gap > spaceGap(f.size) {
			b.WriteByte(' ')
		}
		b.WriteString(f.text)
		if f.x+f.w > end {
			end = f.x + f.w
		}
	}
	flush()

	return textRow{
		y:     frags[0].y,
		cells: cells,
		line:  strings.Join(lineParts, " "),
	}
}

func spaceGap(fontSize float64) float64 {
	g := fontSize * spaceFactor
	if g < minSpaceGap {
		g = minSpaceGap
	}
	return g
}
