// Package categorizer resolves receipts to taxonomy pairs and revenue
// comprovantes to payment types. Expense classification runs an ordered list
// of strategies:
//  1. Filename keywords, the operator's explicit intent
//  2. The oracle's category/subcategory labels, normalized onto the taxonomy
package categorizer

import (
	"gestorbot/gestor-receipts/internal/logging"
	"gestorbot/gestor-receipts/internal/models"
	"gestorbot/gestor-receipts/internal/taxonomy"
)

// Categorizer runs strategies in order and returns the first decision.
type Categorizer struct {
	strategies []CategorizationStrategy
	logger     logging.Logger
}

// NewCategorizer creates a Categorizer with the given strategies, tried in order.
func NewCategorizer(logger logging.Logger, strategies ...CategorizationStrategy) *Categorizer {
	return &Categorizer{strategies: strategies, logger: logger}
}

// NewDefaultCategorizer wires the filename strategy ahead of the label normalizer.
func NewDefaultCategorizer(tax *taxonomy.Taxonomy, logger logging.Logger) *Categorizer {
	return NewCategorizer(logger,
		NewFilenameStrategy(tax.FilenameRules(), logger),
		NewLabelNormalizer(tax, logger),
	)
}

// Categorize returns the pair chosen by the first strategy that reaches a
// decision and that strategy's name. Without any decision it returns Outros/Outros.
func (c *Categorizer) Categorize(in Input) (models.CategoryPair, string) {
	var results StrategyResults
	for _, s := range c.strategies {
		pair, found := s.Categorize(in)
		results.Results = append(results.Results, StrategyResult{Strategy: s.Name(), Pair: pair, Found: found})
		if found {
			break
		}
	}

	best, ok := results.GetBestResult()
	c.logger.Debug("Categorization finished",
		logging.Field{Key: logging.FieldStrategy, Value: results.Summary()},
		logging.Field{Key: logging.FieldFileName, Value: in.Filename},
		logging.Field{Key: logging.FieldCategory, Value: best.Pair.Category},
		logging.Field{Key: logging.FieldSubcategory, Value: best.Pair.Subcategory})
	if !ok {
		return models.OtherPair(), ""
	}
	return best.Pair, best.Strategy
}
