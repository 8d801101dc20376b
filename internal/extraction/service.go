package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shrasel/bank-statement-converter/internal/ocr"
)

// Config holds the parser configuration passed into the service at
// construction. There is no ambient global state: every threshold travels
// through here.
type Config struct {
	DefaultCurrency string           // currency assumed when amounts carry no symbol
	MinConfidence   float64          // rejection floor for table/text detection
	MinOCRScore     float64          // rejection floor for OCR detection
	MaxConfidence   float64          // cap applied to every detection score
	OCROptions      ocr.GroupOptions // word-to-line grouping settings
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		DefaultCurrency: "USD",
		MinConfidence:   0.4,
		MinOCRScore:     0.3,
		MaxConfidence:   0.95,
		OCROptions:      ocr.DefaultGroupOptions(),
	}
}

// producer is one committed-path extraction strategy. Strategies run in
// priority order; the first one yielding transactions wins. New strategies
// slot into the list without touching existing ones.
type producer interface {
	name() string
	produce(doc *document, warnings *[]string) []Transaction
}

// Service orchestrates the extraction strategies over one document at a time.
// Every run owns its result instances; nothing is shared across invocations.
type Service struct {
	cfg       Config
	log       *slog.Logger
	engine    ocr.Engine
	detector  *Detector
	producers []producer
}

// NewService creates the extraction service. The OCR engine may be nil, in
// which case the inspection path degrades to text-based smart detection.
func NewService(cfg Config, log *slog.Logger, engine ocr.Engine) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		cfg:      cfg,
		log:      log,
		engine:   engine,
		detector: NewDetector(cfg),
		producers: []producer{
			&tableExtractor{log: log},
			&textExtractor{log: log},
		},
	}
}

// Extract runs the committed path: table extraction first, then the text
// fallback when tables yield nothing. The deduplicated transactions plus all
// accumulated warnings form the result. Yielding zero transactions overall is
// a terminal condition for the request, not retried here.
func (s *Service) Extract(ctx context.Context, data []byte) (*ExtractionResult, error) {
	_ = ctx // the pipeline is synchronous; cancellation belongs to the caller

	doc, err := openDocument(data)
	if err != nil {
		return nil, err
	}
	return s.extractDocument(doc)
}

func (s *Service) extractDocument(doc *document) (*ExtractionResult, error) {
	var warnings []string
	var transactions []Transaction
	for i, p := range s.producers {
		if i > 0 {
			warnings = append(warnings,
				fmt.Sprintf("Falling back to %s-based extraction; table structure not detected.", p.name()))
			s.log.Warn("extraction strategy fallback", "strategy", p.name())
		}
		transactions = p.produce(doc, &warnings)
		if len(transactions) > 0 {
			break
		}
	}

	transactions = DedupeTransactions(transactions)
	if len(transactions) == 0 {
		msg := "no transactions extracted"
		if len(warnings) > 0 {
			msg += ": " + strings.Join(warnings, "; ")
		}
		return nil, newError(ErrNoTransactionsFound, msg, nil)
	}

	s.log.Info("extraction complete",
		"transactions", len(transactions),
		"warnings", len(warnings))
	return &ExtractionResult{
		Transactions: transactions,
		Warnings:     warnings,
		Currency:     s.cfg.DefaultCurrency,
	}, nil
}

// Detect runs the inspection path: OCR words grouped into lines, each line
// scored by the smart detector. A single page's OCR failure degrades to a
// skipped page; a missing or fully failed engine falls back to smart
// detection over extracted text. Every emitted detection carries a non-empty
// date and a confidence in [0, MaxConfidence].
func (s *Service) Detect(ctx context.Context, data []byte) (*DetectionResult, error) {
	doc, err := openDocument(data)
	if err != nil {
		return nil, err
	}
	return s.detectDocument(ctx, data, doc), nil
}

func (s *Service) detectDocument(ctx context.Context, data []byte, doc *document) *DetectionResult {
	var detections []DetectedTransaction
	ocrUsable := false

	if s.engine == nil {
		s.log.Warn("smart detection degraded to extracted text",
			"error", newError(ErrOCRUnavailable, "no OCR engine configured", nil))
	} else {
		detections, ocrUsable = s.detectFromOCR(ctx, data, doc)
		if !ocrUsable {
			s.log.Warn("smart detection degraded to extracted text",
				"error", newError(ErrOCRUnavailable, "OCR failed for every page", nil))
		}
	}
	if !ocrUsable {
		detections = s.detectFromText(doc)
	}

	return buildDetectionResult(detections)
}

// detectFromOCR runs the engine page by page. A failing page is skipped with
// a warning; when every page fails, the whole OCR pass is reported unusable
// so the caller can fall back to text-based detection.
func (s *Service) detectFromOCR(ctx context.Context, data []byte, doc *document) ([]DetectedTransaction, bool) {
	var detections []DetectedTransaction
	row := 0
	failed := 0

	for _, pg := range doc.pages {
		words, err := s.engine.RecognizePage(ctx, data, pg.number)
		if err != nil {
			s.log.Warn("OCR failed for page", "page", pg.number, "error", err)
			failed++
			continue
		}
		for _, line := range ocr.GroupWords(words, s.cfg.OCROptions) {
			if det := s.detector.DetectLine(line.Text, pg.number, row, SourceOCR); det != nil {
				detections = append(detections, *det)
				row++
			}
		}
	}

	if failed == len(doc.pages) && len(doc.pages) > 0 {
		return nil, false
	}
	return detections, true
}

// buildDetectionResult applies the hard date post-filter, deduplicates,
// orders by (page, row) and buckets the survivors by confidence band.
func buildDetectionResult(detections []DetectedTransaction) *DetectionResult {
	kept := make([]DetectedTransaction, 0, len(detections))
	for _, det := range detections {
		if strings.TrimSpace(det.Date) != "" {
			kept = append(kept, det)
		}
	}

	deduped := DedupeDetections(kept)
	sort.SliceStable(deduped, func(i, j int) bool {
		if deduped[i].PageNumber != deduped[j].PageNumber {
			return deduped[i].PageNumber < deduped[j].PageNumber
		}
		return deduped[i].RowNumber < deduped[j].RowNumber
	})

	return &DetectionResult{
		DetectedTransactions: deduped,
		TotalFound:           len(deduped),
		ConfidenceSummary:    summarizeConfidence(deduped),
	}
}

// minTableRows is how many multi-cell rows a page needs before its content is
// treated as a grid rather than free lines during text-based detection.
const minTableRows = 2

// detectFromText is the inspection path's fallback candidate source: pages
// that look tabular go through table-row detection, everything else is
// scanned line by line.
func (s *Service) detectFromText(doc *document) []DetectedTransaction {
	var detections []DetectedTransaction
	row := 0
	for _, pg := range doc.pages {
		var grid [][]string
		for _, r := range pg.rows {
			if len(r.cells) >= 2 {
				grid = append(grid, rowCellTexts(r))
			}
		}

		if len(grid) >= minTableRows {
			dets := s.detector.DetectTableRows(grid, pg.number, row)
			detections = append(detections, dets...)
			row += len(dets)
			continue
		}

		for _, line := range pg.lines() {
			if det := s.detector.DetectLine(line, pg.number, row, SourceText); det != nil {
				detections = append(detections, *det)
				row++
			}
		}
	}
	return detections
}

// Confirm converts reviewed detections into final transactions, re-running
// the normalizer on the (possibly user-edited) raw strings. Signed or
// parenthesized debit and credit values are stored as magnitudes. An unparsable
// date defaults to today with a warning rather than dropping the row the user
// explicitly confirmed.
func (s *Service) Confirm(detections []DetectedTransaction) (*ExtractionResult, error) {
	var warnings []string
	var transactions []Transaction

	for _, det := range detections {
		if !det.Confirmed {
			continue
		}

		date, err := ParseDate(det.Date)
		if err != nil {
			date = DateOf(time.Now().UTC())
			warnings = append(warnings,
				fmt.Sprintf("Could not parse date %q for confirmed row %d; defaulted to today.", det.Date, det.RowNumber))
		}

		transactions = append(transactions, Transaction{
			ID:          uuid.New().String(),
			Date:        date,
			Description: cleanText(det.Description),
			Debit:       absAmount(ParseAmount(det.Debit)),
			Credit:      absAmount(ParseAmount(det.Credit)),
			Balance:     ParseAmount(det.Balance),
		})
	}

	if len(transactions) == 0 {
		return nil, newError(ErrNoConfirmedTransactions, "no confirmed transactions to convert", nil)
	}

	return &ExtractionResult{
		Transactions: DedupeTransactions(transactions),
		Warnings:     warnings,
		Currency:     s.cfg.DefaultCurrency,
	}, nil
}

// absAmount reduces a parsed amount to its magnitude. Detected raw strings
// keep their sign for display and review, but committed debit and credit
// columns hold absolute values; direction lives in the column choice. Balances
// stay signed and must not pass through here.
func absAmount(d *decimal.Decimal) *decimal.Decimal {
	if d == nil || d.Sign() >= 0 {
		return d
	}
	abs := d.Abs()
	return &abs
}
