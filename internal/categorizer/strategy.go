package categorizer

import (
	"gestorbot/gestor-receipts/internal/models"
)

// Input carries the signals available to classify one expense receipt.
type Input struct {
	// Filename is the uploaded file name, without path. May be empty.
	Filename string
	// CategoryLabel and SubcategoryLabel are the oracle's free-text labels.
	CategoryLabel    string
	SubcategoryLabel string
}

// CategorizationStrategy defines a method for classifying a receipt into a taxonomy pair.
// Strategies are pure and safe for concurrent use.
type CategorizationStrategy interface {
	// Categorize returns the pair and true when this strategy reached a
	// decision. false means "no result", which is distinct from a definite
	// Outros/Outros classification.
	Categorize(in Input) (models.CategoryPair, bool)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}
