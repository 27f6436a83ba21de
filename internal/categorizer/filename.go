package categorizer

import (
	"path/filepath"
	"strings"

	"gestorbot/gestor-receipts/internal/logging"
	"gestorbot/gestor-receipts/internal/models"
	"gestorbot/gestor-receipts/internal/taxonomy"
)

// FilenameStrategy classifies a receipt by keywords in the uploaded file name.
// Rules are tried in order and the first keyword found wins, so specific
// cues ("hora extra") must precede generic ones ("extra").
type FilenameStrategy struct {
	rules  []taxonomy.Rule
	logger logging.Logger
}

// NewFilenameStrategy creates a FilenameStrategy over the given ordered rules.
func NewFilenameStrategy(rules []taxonomy.Rule, logger logging.Logger) *FilenameStrategy {
	return &FilenameStrategy{rules: rules, logger: logger}
}

// Name returns the name of this strategy for logging and debugging.
func (s *FilenameStrategy) Name() string {
	return "Filename"
}

// Categorize implements CategorizationStrategy.
func (s *FilenameStrategy) Categorize(in Input) (models.CategoryPair, bool) {
	return s.Classify(in.Filename)
}

// Classify returns the pair for the first rule whose keyword appears in filename.
func (s *FilenameStrategy) Classify(filename string) (models.CategoryPair, bool) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." {
		return models.CategoryPair{}, false
	}

	text := taxonomy.MatchText(name)
	for _, rule := range s.rules {
		if taxonomy.Contains(text, rule.Keyword) {
			s.logger.Debug("Filename matched classification rule",
				logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
				logging.Field{Key: logging.FieldFileName, Value: filename},
				logging.Field{Key: logging.FieldKeyword, Value: strings.TrimSpace(rule.Keyword)},
				logging.Field{Key: logging.FieldCategory, Value: rule.Pair.Category},
				logging.Field{Key: logging.FieldSubcategory, Value: rule.Pair.Subcategory})
			return rule.Pair, true
		}
	}
	return models.CategoryPair{}, false
}
