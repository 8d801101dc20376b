package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupWords(t *testing.T) {
	words := []Word{
		{Text: "1,800.00", Confidence: 88, Left: 300, Top: 142},
		{Text: "05/10/2024", Confidence: 95, Left: 10, Top: 140},
		{Text: "Withdrawal", Confidence: 91, Left: 180, Top: 145},
		{Text: "ATM", Confidence: 93, Left: 120, Top: 141},
		{Text: "200.00", Confidence: 90, Left: 250, Top: 143},
		{Text: "Balance", Confidence: 92, Left: 10, Top: 200},
	}

	lines := GroupWords(words, DefaultGroupOptions())
	require.Len(t, lines, 2)
	assert.Equal(t, "05/10/2024 ATM Withdrawal 200.00 1,800.00", lines[0].Text)
	assert.Equal(t, "Balance", lines[1].Text)
	assert.Equal(t, 140, lines[0].Top)
}

func TestGroupWordsDropsLowConfidence(t *testing.T) {
	words := []Word{
		{Text: "smudge", Confidence: 5, Left: 0, Top: 10},
		{Text: "clear", Confidence: 80, Left: 50, Top: 10},
	}

	lines := GroupWords(words, DefaultGroupOptions())
	require.Len(t, lines, 1)
	assert.Equal(t, "clear", lines[0].Text)
	require.Len(t, lines[0].Words, 1)
}

func TestGroupWordsDropsEmptyText(t *testing.T) {
	words := []Word{
		{Text: "   ", Confidence: 99, Left: 0, Top: 10},
		{Text: "", Confidence: 99, Left: 20, Top: 10},
	}
	assert.Nil(t, GroupWords(words, DefaultGroupOptions()))
}

func TestGroupWordsEmptyInput(t *testing.T) {
	assert.Nil(t, GroupWords(nil, DefaultGroupOptions()))
}

func TestGroupWordsLineTolerance(t *testing.T) {
	opts := GroupOptions{MinWordConfidence: 0, LineTolerancePx: 5}
	words := []Word{
		{Text: "a", Confidence: 90, Left: 0, Top: 10},
		{Text: "b", Confidence: 90, Left: 50, Top: 14}, // within tolerance
		{Text: "c", Confidence: 90, Left: 0, Top: 30},  // new line
	}

	lines := GroupWords(words, opts)
	require.Len(t, lines, 2)
	assert.Equal(t, "a b", lines[0].Text)
	assert.Equal(t, "c", lines[1].Text)
}

func TestGroupWordsConfidenceIsMean(t *testing.T) {
	words := []Word{
		{Text: "a", Confidence: 80, Left: 0, Top: 10},
		{Text: "b", Confidence: 100, Left: 50, Top: 10},
	}

	lines := GroupWords(words, DefaultGroupOptions())
	require.Len(t, lines, 1)
	assert.InDelta(t, 90.0, lines[0].Confidence, 1e-9)
}

func TestGroupWordsTrimsTokens(t *testing.T) {
	words := []Word{
		{Text: " ATM ", Confidence: 90, Left: 0, Top: 10},
		{Text: "fee", Confidence: 90, Left: 50, Top: 10},
	}

	lines := GroupWords(words, DefaultGroupOptions())
	require.Len(t, lines, 1)
	assert.Equal(t, "ATM fee", lines[0].Text)
}
