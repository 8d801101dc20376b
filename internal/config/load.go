package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load loads configuration from an optional config file and environment
// variables, layered over defaults:
//  1. defaults
//  2. config file values (if a file named configName is found)
//  3. environment variables
//
// The final configuration is validated before being returned.
func Load(configName string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configName != "" {
		v.SetConfigName(configName)
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			// No file is fine; env vars and defaults still apply.
		}
	}

	v.AutomaticEnv()

	cfg := &Config{
		Application: ApplicationConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Extraction: ExtractionConfig{
			DefaultCurrency: v.GetString("EXTRACTION_DEFAULT_CURRENCY"),
			MinConfidence:   v.GetFloat64("EXTRACTION_MIN_CONFIDENCE"),
			MinOCRScore:     v.GetFloat64("EXTRACTION_MIN_OCR_SCORE"),
			MaxConfidence:   v.GetFloat64("EXTRACTION_MAX_CONFIDENCE"),
		},
		OCR: OCRConfig{
			MinWordConfidence: v.GetFloat64("OCR_MIN_WORD_CONFIDENCE"),
			LineTolerancePx:   v.GetInt("OCR_LINE_TOLERANCE_PX"),
			DPI:               v.GetInt("OCR_DPI"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "bank-statement-converter")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("EXTRACTION_DEFAULT_CURRENCY", "USD")
	v.SetDefault("EXTRACTION_MIN_CONFIDENCE", 0.4)
	v.SetDefault("EXTRACTION_MIN_OCR_SCORE", 0.3)
	v.SetDefault("EXTRACTION_MAX_CONFIDENCE", 0.95)

	v.SetDefault("OCR_MIN_WORD_CONFIDENCE", 20.0)
	v.SetDefault("OCR_LINE_TOLERANCE_PX", 10)
	v.SetDefault("OCR_DPI", 300)
}
