package categorizer

import (
	"strings"

	"gestorbot/gestor-receipts/internal/logging"
	"gestorbot/gestor-receipts/internal/models"
	"gestorbot/gestor-receipts/internal/taxonomy"
	"gestorbot/gestor-receipts/internal/textutils"
)

// PaymentTypeNormalizer maps the oracle's payment label of a revenue
// comprovante to a PaymentType. Normalize is total.
type PaymentTypeNormalizer struct {
	rules  []taxonomy.PaymentRule
	logger logging.Logger
}

// NewPaymentTypeNormalizer creates a normalizer over the given ordered rules.
func NewPaymentTypeNormalizer(rules []taxonomy.PaymentRule, logger logging.Logger) *PaymentTypeNormalizer {
	return &PaymentTypeNormalizer{rules: rules, logger: logger}
}

// Normalize returns the payment type named by label, or the first rule whose
// keyword appears in it, or Outros.
func (n *PaymentTypeNormalizer) Normalize(label string) models.PaymentType {
	if strings.TrimSpace(label) == "" {
		return models.PaymentOther
	}

	folded := textutils.Fold(strings.TrimSpace(label))
	for _, pt := range models.PaymentTypes() {
		if textutils.Fold(string(pt)) == folded {
			return pt
		}
	}

	text := taxonomy.MatchText(label)
	for _, rule := range n.rules {
		if taxonomy.Contains(text, rule.Keyword) {
			return rule.Type
		}
	}

	n.logger.Debug("Payment type not recognised, using catch-all",
		logging.Field{Key: logging.FieldPaymentType, Value: label})
	return models.PaymentOther
}
