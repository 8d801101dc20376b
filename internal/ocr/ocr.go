// Package ocr models positioned OCR output and groups recognized words into
// ordered text lines. The grouping is purely geometric: it knows nothing about
// transactions and is shared by the smart detector and the page preview.
package ocr

import (
	"context"
	"sort"
	"strings"
)

// Word is a single recognized token with its bounding box.
// Confidence is the engine's per-word confidence in [0,100].
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Left       int     `json:"left"`
	Top        int     `json:"top"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
}

// Line is an ordered run of words sharing a vertical position.
type Line struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // mean word confidence
	Top        int     `json:"top"`        // vertical anchor of the first word
	Words      []Word  `json:"words"`
}

// Engine produces per-word OCR output for one rendered page of a document.
// Implementations own rendering and recognition; page numbers are 1-based.
type Engine interface {
	RecognizePage(ctx context.Context, document []byte, page int) ([]Word, error)
}

// GroupOptions controls how words are clustered into lines.
type GroupOptions struct {
	MinWordConfidence float64 // words below this are discarded
	LineTolerancePx   int     // max vertical top distance within one line
}

// DefaultGroupOptions are tuned for pages rendered at 300 DPI.
func DefaultGroupOptions() GroupOptions {
	return GroupOptions{
		MinWordConfidence: 20,
		LineTolerancePx:   10,
	}
}

// GroupWords clusters words into ordered lines. Words below the confidence
// floor or empty after trimming are dropped. Remaining words are sorted by
// (top, left); consecutive words whose top coordinates differ by no more than
// the tolerance join the same line, ordered left to right within it.
func GroupWords(words []Word, opts GroupOptions) []Line {
	kept := make([]Word, 0, len(words))
	for _, w := range words {
		if w.Confidence < opts.MinWordConfidence {
			continue
		}
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return nil
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Top != kept[j].Top {
			return kept[i].Top < kept[j].Top
		}
		return kept[i].Left < kept[j].Left
	})

	var lines []Line
	current := []Word{kept[0]}
	anchor := kept[0].Top
	for _, w := range kept[1:] {
		if w.Top-anchor <= opts.LineTolerancePx {
			current = append(current, w)
			continue
		}
		lines = append(lines, buildLine(current))
		current = []Word{w}
		anchor = w.Top
	}
	lines = append(lines, buildLine(current))
	return lines
}

func buildLine(words []Word) Line {
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Left < words[j].Left
	})

	parts := make([]string, 0, len(words))
	sum := 0.0
	for _, w := range words {
		parts = append(parts, strings.TrimSpace(w.Text))
		sum += w.Confidence
	}

	return Line{
		Text:       strings.Join(parts, " "),
		Confidence: sum / float64(len(words)),
		Top:        words[0].Top,
		Words:      words,
	}
}
