// Command bankstmt converts a bank-statement PDF into normalized transactions.
//
// Usage:
//
//	bankstmt extract statement.pdf   # committed path, final transactions
//	bankstmt detect statement.pdf    # inspection path, scored candidates
//
// Results are written to stdout as JSON; logs go to stderr.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shrasel/bank-statement-converter/internal/config"
	"github.com/shrasel/bank-statement-converter/internal/extraction"
	"github.com/shrasel/bank-statement-converter/internal/logger"
	"github.com/shrasel/bank-statement-converter/internal/ocr"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: bankstmt extract|detect <statement.pdf>")
	}
	command, path := args[0], args[1]

	cfg, err := config.Load("bankstmt")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read statement: %w", err)
	}

	svc := extraction.NewService(extraction.Config{
		DefaultCurrency: cfg.Extraction.DefaultCurrency,
		MinConfidence:   cfg.Extraction.MinConfidence,
		MinOCRScore:     cfg.Extraction.MinOCRScore,
		MaxConfidence:   cfg.Extraction.MaxConfidence,
		OCROptions: ocr.GroupOptions{
			MinWordConfidence: cfg.OCR.MinWordConfidence,
			LineTolerancePx:   cfg.OCR.LineTolerancePx,
		},
	}, log, nil)

	ctx := context.Background()

	var out any
	switch command {
	case "extract":
		result, err := svc.Extract(ctx, data)
		if err != nil {
			return err
		}
		out = struct {
			*extraction.ExtractionResult
			Summary extraction.SummaryTotals `json:"summary"`
		}{result, result.Summary()}
	case "detect":
		result, err := svc.Detect(ctx, data)
		if err != nil {
			return err
		}
		out = result
	default:
		return fmt.Errorf("unknown command %q (want extract or detect)", command)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
