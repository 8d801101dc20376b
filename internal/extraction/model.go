// Package extraction turns bank-statement PDFs into normalized transactions
// using a prioritized chain of strategies: table structure recognition, text
// pattern fallback, and OCR-assisted smart detection with confidence scoring.
package extraction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Date is a calendar date. It marshals as YYYY-MM-DD, matching the format
// spreadsheet exporters and the review UI expect.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ISO returns the date formatted as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.ISO() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Transaction is a fully parsed statement row. Debit and credit are never both
// populated from a single signed amount column: a non-negative amount routes
// to credit, a negative one to debit (stored as its absolute value).
type Transaction struct {
	ID          string           `json:"id"`
	Date        Date             `json:"date"`
	Description string           `json:"description"`
	Debit       *decimal.Decimal `json:"debit,omitempty"`
	Credit      *decimal.Decimal `json:"credit,omitempty"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
	Warnings    []string         `json:"warnings,omitempty"`
}

// DetectedTransaction is an unconfirmed candidate produced by smart detection.
// Field values stay as raw strings so the review UI can present and edit them
// before normalization.
type DetectedTransaction struct {
	RowNumber   int     `json:"row_number"`
	PageNumber  int     `json:"page_number"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Debit       string  `json:"debit,omitempty"`
	Credit      string  `json:"credit,omitempty"`
	Balance     string  `json:"balance,omitempty"`
	Confidence  float64 `json:"confidence"`
	RawText     string  `json:"raw_text"`
	Confirmed   bool    `json:"confirmed"`
}

// ExtractionResult is the committed-path output: parsed transactions plus
// non-fatal warnings gathered along the way. Currency is the configured
// default, for exporters that need to label symbol-less amounts.
type ExtractionResult struct {
	Transactions []Transaction `json:"transactions"`
	Warnings     []string      `json:"warnings"`
	Currency     string        `json:"currency,omitempty"`
}

// ConfidenceSummary buckets detections by confidence band.
type ConfidenceSummary struct {
	High   int `json:"high"`   // >= 0.7
	Medium int `json:"medium"` // [0.5, 0.7)
	Low    int `json:"low"`    // < 0.5
}

// DetectionResult is the inspection-path output.
type DetectionResult struct {
	DetectedTransactions []DetectedTransaction `json:"detected_transactions"`
	TotalFound           int                   `json:"total_found"`
	ConfidenceSummary    ConfidenceSummary     `json:"confidence_summary"`
}

const (
	highConfidenceMin   = 0.7
	mediumConfidenceMin = 0.5
)

// summarizeConfidence buckets detections into high/medium/low bands.
// The bucket counts always sum to len(detections).
func summarizeConfidence(detections []DetectedTransaction) ConfidenceSummary {
	var s ConfidenceSummary
	for _, d := range detections {
		switch {
		case d.Confidence >= highConfidenceMin:
			s.High++
		case d.Confidence >= mediumConfidenceMin:
			s.Medium++
		default:
			s.Low++
		}
	}
	return s
}

// headerMap maps a logical field name (date, description, debit, credit,
// amount, balance) to a zero-based column index. It is inferred once per table
// and reused for every row in that table.
type headerMap map[string]int
