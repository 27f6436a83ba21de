// Package currencyutils provides the amount parsing and formatting used throughout the application.
package currencyutils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"gestorbot/gestor-receipts/internal/logging"
)

var log logging.Logger = logging.NewLogrusAdapter("info", "text")

// SetLogger sets a custom logger for this package
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

var currencyMarkers = regexp.MustCompile(`R\$|US\$|[€$£¥\s\x{00A0}]`)

// StandardizeAmount converts a Brazilian or US formatted amount string into a
// form decimal.NewFromString accepts.
//
//	"R$ 1.234,56" -> "1234.56"
//	"150,50"      -> "150.50"
//	"1234.56"     -> "1234.56"
func StandardizeAmount(amountStr string) string {
	amountStr = currencyMarkers.ReplaceAllString(amountStr, "")

	switch {
	case strings.Contains(amountStr, ".") && strings.Contains(amountStr, ","):
		// Brazilian format: dot groups thousands, comma marks decimals
		amountStr = strings.ReplaceAll(amountStr, ".", "")
		amountStr = strings.ReplaceAll(amountStr, ",", ".")
	case strings.Contains(amountStr, ","):
		amountStr = strings.ReplaceAll(amountStr, ",", ".")
	}

	return amountStr
}

// ParseAmount parses a string representation of an amount into a decimal value.
// Empty strings parse to zero.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, nil
	}

	standardized := StandardizeAmount(amountStr)
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// NormalizeAmount converts a value of unknown representation into a decimal amount.
// Numbers are cast directly, text goes through ParseAmount. nil, empty and
// unparseable values yield zero; the function never fails. Negative results
// are returned as-is so the caller can reject them.
func NormalizeAmount(value any) decimal.Decimal {
	return NormalizeAmountWithLogger(value, log)
}

// NormalizeAmountWithLogger is NormalizeAmount reporting to logger instead of
// the package logger. A nil logger falls back to the package logger.
func NormalizeAmountWithLogger(value any, logger logging.Logger) decimal.Decimal {
	if logger == nil {
		logger = log
	}
	var amount decimal.Decimal

	switch v := value.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		amount = v
	case float64:
		amount = decimal.NewFromFloat(v)
	case float32:
		amount = decimal.NewFromFloat32(v)
	case int:
		amount = decimal.NewFromInt(int64(v))
	case int32:
		amount = decimal.NewFromInt32(v)
	case int64:
		amount = decimal.NewFromInt(v)
	case json.Number:
		parsed, err := decimal.NewFromString(v.String())
		if err != nil {
			logger.WithError(err).Warn("Could not parse numeric amount",
				logging.Field{Key: logging.FieldAmount, Value: v.String()})
			return decimal.Zero
		}
		amount = parsed
	case string:
		parsed, err := ParseAmount(v)
		if err != nil {
			logger.WithError(err).Warn("Could not parse amount, using zero",
				logging.Field{Key: logging.FieldAmount, Value: v})
			return decimal.Zero
		}
		amount = parsed
	default:
		logger.Warn("Unsupported amount type, using zero",
			logging.Field{Key: logging.FieldAmount, Value: fmt.Sprintf("%T", value)})
		return decimal.Zero
	}

	if amount.IsNegative() {
		logger.Warn("Negative amount normalized",
			logging.Field{Key: logging.FieldAmount, Value: amount.String()})
	}
	return amount
}

// FormatBRL formats an amount the Brazilian way, e.g. "R$ 1.234,56".
func FormatBRL(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + grouped.String() + "," + frac
}
