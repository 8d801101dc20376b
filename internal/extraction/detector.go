package extraction

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Source identifies where a candidate line came from. Table and OCR
// candidates carry more structure than free text, so they score with
// slightly different weights and rejection floors.
type Source int

const (
	SourceTable Source = iota
	SourceText
	SourceOCR
)

// Scoring weights. Confidence accumulates additively from zero; the policy is
// expressed as named constants so it stays testable and tunable without
// touching detection logic.
const (
	weightDateStructured        = 0.35 // table and OCR candidates
	weightDateText              = 0.30 // plain text candidates
	weightAmountStructured      = 0.40 // scaled by amount count, up to maxAmountEvidence
	weightAmountText            = 0.30
	weightDescriptionStructured = 0.25
	weightDescriptionText       = 0.15
	bonusDateAndAmount          = 0.10
	weightTransactionKeyword    = 0.10
	maxAmountEvidence           = 3

	minDescriptionLenStructured = 3
	minDescriptionLenText       = 6
)

// tableHeaderSearchRows is how many leading table rows are checked for a
// header before row 0 is assumed to be one.
const tableHeaderSearchRows = 3

var (
	transactionKeywordRe = regexp.MustCompile(`(?i)\b(payment|transfer|deposit|withdrawal|atm|pos)\b`)
	debitKeywordRe       = regexp.MustCompile(`(?i)\b(debit|withdrawal|paid out|payment|purchase|fee|atm|pos)\b`)
	bareWordDateRe       = regexp.MustCompile(`(?i)\bdate\b`)
	bareWordAmountRe     = regexp.MustCompile(`(?i)\bamount\b`)
	upperCaseLetterRe    = regexp.MustCompile(`[A-Z]`)
	lowerCaseLetterRe    = regexp.MustCompile(`[a-z]`)
)

var titleCaser = cases.Title(language.English)

type scoringProfile struct {
	dateWeight        float64
	amountWeight      float64
	descriptionWeight float64
	minDescriptionLen int
}

func profileFor(source Source) scoringProfile {
	if source == SourceText {
		return scoringProfile{
			dateWeight:        weightDateText,
			amountWeight:      weightAmountText,
			descriptionWeight: weightDescriptionText,
			minDescriptionLen: minDescriptionLenText,
		}
	}
	return scoringProfile{
		dateWeight:        weightDateStructured,
		amountWeight:      weightAmountStructured,
		descriptionWeight: weightDescriptionStructured,
		minDescriptionLen: minDescriptionLenStructured,
	}
}

// Detector scores candidate lines for how strongly they resemble a
// transaction and extracts raw field values. Scores are capped below 1.0:
// automated detection is never treated as certain.
type Detector struct {
	cfg Config
}

// NewDetector creates a detector with the given configuration.
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// DetectLine scores one candidate line and returns a detection, or nil when
// the line is rejected (header line, or confidence below the source's floor).
// The returned field values are raw substrings of the input, preserved for
// user editing; only the description gets display cleanup.
func (d *Detector) DetectLine(line string, pageNumber, rowNumber int, source Source) *DetectedTransaction {
	raw := cleanText(line)
	if raw == "" || isHeaderLine(raw) {
		return nil
	}

	profile := profileFor(source)
	score := 0.0

	dateMatch := dateRe.FindString(raw)
	if dateMatch != "" {
		score += profile.dateWeight
	}

	remainder := raw
	if dateMatch != "" {
		remainder = strings.Replace(remainder, dateMatch, "", 1)
	}

	amounts := amountRe.FindAllString(remainder, -1)
	if len(amounts) > 0 {
		evidence := len(amounts)
		if evidence > maxAmountEvidence {
			evidence = maxAmountEvidence
		}
		score += profile.amountWeight * float64(evidence) / maxAmountEvidence
	}

	description := remainder
	for _, a := range amounts {
		description = strings.Replace(description, a, "", 1)
	}
	description = cleanText(description)
	if len(description) >= profile.minDescriptionLen {
		score += profile.descriptionWeight
	}

	if dateMatch != "" && len(amounts) > 0 {
		score += bonusDateAndAmount
	}
	if transactionKeywordRe.MatchString(raw) {
		score += weightTransactionKeyword
	}

	if score > d.cfg.MaxConfidence {
		score = d.cfg.MaxConfidence
	}
	if score < d.minScore(source) {
		return nil
	}

	det := &DetectedTransaction{
		RowNumber:   rowNumber,
		PageNumber:  pageNumber,
		Date:        cleanText(dateMatch),
		Description: formatDescription(description),
		Confidence:  score,
		RawText:     raw,
	}
	assignAmounts(det, amounts, raw)
	return det
}

// DetectTableRows runs smart detection over a table grid. The header row is
// identified by keyword match within the first rows; when none matches, row 0
// is assumed to be the header. Data rows are scored as joined lines.
func (d *Detector) DetectTableRows(grid [][]string, pageNumber, startRow int) []DetectedTransaction {
	if len(grid) == 0 {
		return nil
	}

	headerIdx := 0
	limit := tableHeaderSearchRows
	if len(grid) < limit {
		limit = len(grid)
	}
	for i := 0; i < limit; i++ {
		matched := 0
		for _, cell := range grid[i] {
			if isHeaderKeyword(normalizeCell(cell)) {
				matched++
			}
		}
		if matched >= 2 {
			headerIdx = i
			break
		}
	}

	var detections []DetectedTransaction
	row := startRow
	for _, cells := range grid[headerIdx+1:] {
		line := strings.Join(cells, "  ")
		if det := d.DetectLine(line, pageNumber, row, SourceTable); det != nil {
			detections = append(detections, *det)
			row++
		}
	}
	return detections
}

func (d *Detector) minScore(source Source) float64 {
	if source == SourceOCR {
		return d.cfg.MinOCRScore
	}
	return d.cfg.MinConfidence
}

// assignAmounts routes matched amounts to fields positionally:
//
//	one amount    -> debit when negative, parenthesized or next to a
//	                 debit-indicating keyword, otherwise credit
//	two amounts   -> first=debit, second=balance
//	three or more -> first=debit, second=credit, third=balance
//
// The ordering is a positional heuristic with no semantic grounding; columns
// emitted in another order will misclassify debit and credit. It is kept as-is
// for compatibility with downstream consumers.
func assignAmounts(det *DetectedTransaction, amounts []string, line string) {
	switch len(amounts) {
	case 0:
	case 1:
		if looksNegative(amounts[0]) || debitKeywordRe.MatchString(line) {
			det.Debit = strings.TrimSpace(amounts[0])
		} else {
			det.Credit = strings.TrimSpace(amounts[0])
		}
	case 2:
		det.Debit = strings.TrimSpace(amounts[0])
		det.Balance = strings.TrimSpace(amounts[1])
	default:
		det.Debit = strings.TrimSpace(amounts[0])
		det.Credit = strings.TrimSpace(amounts[1])
		det.Balance = strings.TrimSpace(amounts[2])
	}
}

func looksNegative(amount string) bool {
	trimmed := strings.TrimSpace(amount)
	return strings.HasPrefix(trimmed, "-") ||
		(strings.Contains(trimmed, "(") && strings.Contains(trimmed, ")"))
}

// isHeaderLine rejects probable column-header lines: an exact header keyword,
// or a line carrying both "date" and "amount" as bare words.
func isHeaderLine(line string) bool {
	normalized := normalizeCell(line)
	if isHeaderKeyword(normalized) {
		return true
	}
	return bareWordDateRe.MatchString(line) && bareWordAmountRe.MatchString(line)
}

// formatDescription cleans a description for display. Shouty all-caps OCR
// output is title-cased; mixed-case text is left alone.
func formatDescription(s string) string {
	if s == "" {
		return s
	}
	if upperCaseLetterRe.MatchString(s) && !lowerCaseLetterRe.MatchString(s) {
		return titleCaser.String(strings.ToLower(s))
	}
	return s
}
