// Package config provides configuration structures and validation for the
// application. All tunable parsing thresholds live here and are handed to
// components at construction time; nothing reads configuration ambiently.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds the complete application configuration.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Extraction  ExtractionConfig
	OCR         OCRConfig
}

// ApplicationConfig contains general application configuration.
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
}

// ExtractionConfig contains thresholds for the extraction pipeline.
type ExtractionConfig struct {
	DefaultCurrency string  // ISO currency assumed when a statement carries no symbol
	MinConfidence   float64 // rejection floor for table/text smart detection
	MinOCRScore     float64 // rejection floor for OCR-sourced smart detection
	MaxConfidence   float64 // cap applied to every detection score
}

// OCRConfig contains settings for OCR word-to-line grouping.
type OCRConfig struct {
	MinWordConfidence float64 // words below this confidence are discarded
	LineTolerancePx   int     // vertical distance treated as the same line
	DPI               int     // resolution pages are rendered at for OCR
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Extraction.DefaultCurrency) == "" {
		problems = append(problems, "extraction default currency must not be empty")
	}
	if c.Extraction.MinConfidence < 0 || c.Extraction.MinConfidence > 1 {
		problems = append(problems, fmt.Sprintf("extraction min confidence %.2f outside [0,1]", c.Extraction.MinConfidence))
	}
	if c.Extraction.MinOCRScore < 0 || c.Extraction.MinOCRScore > 1 {
		problems = append(problems, fmt.Sprintf("extraction min OCR score %.2f outside [0,1]", c.Extraction.MinOCRScore))
	}
	if c.Extraction.MaxConfidence <= 0 || c.Extraction.MaxConfidence > 1 {
		problems = append(problems, fmt.Sprintf("extraction max confidence %.2f outside (0,1]", c.Extraction.MaxConfidence))
	}
	if c.Extraction.MaxConfidence < c.Extraction.MinConfidence {
		problems = append(problems, "extraction max confidence below min confidence")
	}
	if c.OCR.MinWordConfidence < 0 || c.OCR.MinWordConfidence > 100 {
		problems = append(problems, fmt.Sprintf("OCR min word confidence %.1f outside [0,100]", c.OCR.MinWordConfidence))
	}
	if c.OCR.LineTolerancePx <= 0 {
		problems = append(problems, "OCR line tolerance must be positive")
	}
	if c.OCR.DPI <= 0 {
		problems = append(problems, "OCR DPI must be positive")
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
