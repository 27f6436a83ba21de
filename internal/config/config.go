package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// LoadEnv loads the first .env file found in the working directory or its
// parent. Variables already set in the environment win. It returns the file
// loaded, or "" when none was found.
func LoadEnv() (string, error) {
	for _, candidate := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if err := godotenv.Load(candidate); err != nil {
			return candidate, err
		}
		return candidate, nil
	}
	return "", nil
}

// OracleConfigured reports whether extraction calls can be made.
func (c *Config) OracleConfigured() bool {
	return c.AI.Enabled && c.AI.APIKey != ""
}

// AITimeout returns the per-call oracle timeout.
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}

// MaxAgeDays converts validation.max_age_years to days.
func (c *Config) MaxAgeDays() int {
	return c.Validation.MaxAgeYears * 365
}

// MinAmount returns validation.min_amount, assumed validated.
func (c *Config) MinAmount() decimal.Decimal {
	d, _ := decimal.NewFromString(c.Validation.MinAmount)
	return d
}

// SuspiciousAmount returns validation.suspicious_amount, assumed validated.
func (c *Config) SuspiciousAmount() decimal.Decimal {
	d, _ := decimal.NewFromString(c.Validation.SuspiciousAmount)
	return d
}

// MaxDocumentBytes converts upload.max_document_mb to bytes.
func (c *Config) MaxDocumentBytes() int {
	return c.Upload.MaxDocumentMB << 20
}

// CSVDelimiter returns the export delimiter as a rune.
func (c *Config) CSVDelimiter() rune {
	r := []rune(c.Export.CSVDelimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}
