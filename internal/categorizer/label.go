package categorizer

import (
	"strings"

	"gestorbot/gestor-receipts/internal/logging"
	"gestorbot/gestor-receipts/internal/models"
	"gestorbot/gestor-receipts/internal/taxonomy"
)

// LabelNormalizer maps the oracle's free-text labels onto the taxonomy.
// Normalize is total: it always returns a valid principal category.
type LabelNormalizer struct {
	tax    *taxonomy.Taxonomy
	rules  []taxonomy.Rule
	logger logging.Logger
}

// NewLabelNormalizer creates a LabelNormalizer using the taxonomy's label rules.
func NewLabelNormalizer(tax *taxonomy.Taxonomy, logger logging.Logger) *LabelNormalizer {
	return &LabelNormalizer{tax: tax, rules: tax.LabelRules(), logger: logger}
}

// Name returns the name of this strategy for logging and debugging.
func (n *LabelNormalizer) Name() string {
	return "Label"
}

// Normalize resolves label to a principal category: exact case-insensitive
// match first, then the first synonym found in label, then Outros.
func (n *LabelNormalizer) Normalize(label string) string {
	if cat, ok := n.tax.CanonicalCategory(label); ok {
		return cat
	}
	if rule, ok := n.matchRule(label, ""); ok {
		return rule.Pair.Category
	}
	if strings.TrimSpace(label) != "" {
		n.logger.Debug("Category label not recognised, using catch-all",
			logging.Field{Key: logging.FieldCategory, Value: label})
	}
	return models.CategoryOther
}

// Subcategory resolves label within category. A canonical subcategory name
// wins, then a synonym that targets category, then the catch-all.
func (n *LabelNormalizer) Subcategory(category, label string) string {
	if strings.TrimSpace(label) == "" {
		return models.SubcategoryOther
	}
	if sub, ok := n.tax.CanonicalSubcategory(category, label); ok {
		return sub
	}
	if rule, ok := n.matchRule(label, category); ok {
		return rule.Pair.Subcategory
	}
	n.logger.Debug("Subcategory not valid for category, using catch-all",
		logging.Field{Key: logging.FieldCategory, Value: category},
		logging.Field{Key: logging.FieldSubcategory, Value: label})
	return models.SubcategoryOther
}

// Categorize implements CategorizationStrategy. It always reaches a decision.
func (n *LabelNormalizer) Categorize(in Input) (models.CategoryPair, bool) {
	cat := n.Normalize(in.CategoryLabel)
	return models.CategoryPair{Category: cat, Subcategory: n.Subcategory(cat, in.SubcategoryLabel)}, true
}

// matchRule returns the first rule whose keyword appears in label. A non-empty
// category restricts the search to rules targeting it.
func (n *LabelNormalizer) matchRule(label, category string) (taxonomy.Rule, bool) {
	if strings.TrimSpace(label) == "" {
		return taxonomy.Rule{}, false
	}
	text := taxonomy.MatchText(label)
	for _, rule := range n.rules {
		if category != "" && rule.Pair.Category != category {
			continue
		}
		if taxonomy.Contains(text, rule.Keyword) {
			return rule, true
		}
	}
	return taxonomy.Rule{}, false
}
