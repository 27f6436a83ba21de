// Package taxonomy holds the two-level category/subcategory enumeration and the
// ordered keyword tables used to classify receipts. A Taxonomy is immutable once
// loaded and safe for concurrent use.
package taxonomy

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"gestorbot/gestor-receipts/internal/models"
	"gestorbot/gestor-receipts/internal/textutils"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrInvalidTaxonomy is wrapped by every validation failure.
var ErrInvalidTaxonomy = errors.New("invalid taxonomy")

// Category is a principal category with its ordered subcategories.
type Category struct {
	Name          string   `yaml:"name"`
	Subcategories []string `yaml:"subcategories"`
}

// Rule maps a keyword to a taxonomy pair.
type Rule struct {
	Keyword string
	Pair    models.CategoryPair
}

// PaymentRule maps a keyword to a payment type.
type PaymentRule struct {
	Keyword string
	Type    models.PaymentType
}

type pairRuleConfig struct {
	Keywords    []string `yaml:"keywords"`
	Category    string   `yaml:"category"`
	Subcategory string   `yaml:"subcategory"`
}

type paymentRuleConfig struct {
	Keywords []string           `yaml:"keywords"`
	Type     models.PaymentType `yaml:"type"`
}

type fileConfig struct {
	Categories    []Category          `yaml:"categories"`
	FilenameRules []pairRuleConfig    `yaml:"filename_rules"`
	LabelSynonyms []pairRuleConfig    `yaml:"label_synonyms"`
	PaymentRules  []paymentRuleConfig `yaml:"payment_rules"`
}

// Taxonomy is the loaded, validated classification data.
type Taxonomy struct {
	categories    []Category
	byFolded      map[string]int
	filenameRules []Rule
	labelRules    []Rule
	paymentRules  []PaymentRule
}

// DefaultYAML returns the embedded default taxonomy document.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultYAML))
	copy(out, defaultYAML)
	return out
}

// Default parses the embedded default taxonomy.
func Default() (*Taxonomy, error) {
	return Parse(defaultYAML)
}

// Parse decodes and validates a taxonomy YAML document.
func Parse(data []byte) (*Taxonomy, error) {
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTaxonomy, err)
	}
	return build(cfg)
}

func build(cfg fileConfig) (*Taxonomy, error) {
	if len(cfg.Categories) == 0 {
		return nil, fmt.Errorf("%w: no categories defined", ErrInvalidTaxonomy)
	}

	t := &Taxonomy{byFolded: make(map[string]int, len(cfg.Categories))}
	for _, c := range cfg.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: category with empty name", ErrInvalidTaxonomy)
		}
		key := textutils.Fold(name)
		if _, dup := t.byFolded[key]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidTaxonomy, name)
		}

		subs := make([]string, 0, len(c.Subcategories))
		seen := make(map[string]bool, len(c.Subcategories))
		hasOther := false
		for _, s := range c.Subcategories {
			s = strings.TrimSpace(s)
			if s == "" {
				return nil, fmt.Errorf("%w: empty subcategory in %q", ErrInvalidTaxonomy, name)
			}
			if seen[textutils.Fold(s)] {
				return nil, fmt.Errorf("%w: duplicate subcategory %q in %q", ErrInvalidTaxonomy, s, name)
			}
			seen[textutils.Fold(s)] = true
			hasOther = hasOther || s == models.SubcategoryOther
			subs = append(subs, s)
		}
		if !hasOther {
			return nil, fmt.Errorf("%w: category %q lacks the %q subcategory", ErrInvalidTaxonomy, name, models.SubcategoryOther)
		}

		t.byFolded[key] = len(t.categories)
		t.categories = append(t.categories, Category{Name: name, Subcategories: subs})
	}
	if !t.HasPair(models.CategoryOther, models.SubcategoryOther) {
		return nil, fmt.Errorf("%w: catch-all category %q missing", ErrInvalidTaxonomy, models.CategoryOther)
	}

	var err error
	if t.filenameRules, err = t.pairRules("filename_rules", cfg.FilenameRules); err != nil {
		return nil, err
	}
	if t.labelRules, err = t.pairRules("label_synonyms", cfg.LabelSynonyms); err != nil {
		return nil, err
	}
	t.labelRules = append(t.labelRules, t.subcategoryNameRules()...)

	for i, pr := range cfg.PaymentRules {
		if !pr.Type.IsValid() {
			return nil, fmt.Errorf("%w: payment_rules[%d]: unknown payment type %q", ErrInvalidTaxonomy, i, pr.Type)
		}
		if len(pr.Keywords) == 0 {
			return nil, fmt.Errorf("%w: payment_rules[%d]: no keywords", ErrInvalidTaxonomy, i)
		}
		for _, kw := range pr.Keywords {
			if strings.TrimSpace(kw) == "" {
				return nil, fmt.Errorf("%w: payment_rules[%d]: empty keyword", ErrInvalidTaxonomy, i)
			}
			t.paymentRules = append(t.paymentRules, PaymentRule{Keyword: MatchKeyword(kw), Type: pr.Type})
		}
	}

	return t, nil
}

func (t *Taxonomy) pairRules(section string, in []pairRuleConfig) ([]Rule, error) {
	var rules []Rule
	for i, rc := range in {
		cat, okCat := t.CanonicalCategory(rc.Category)
		sub, okSub := t.CanonicalSubcategory(cat, rc.Subcategory)
		if !okCat || !okSub {
			return nil, fmt.Errorf("%w: %s[%d]: unknown pair %s/%s", ErrInvalidTaxonomy, section, i, rc.Category, rc.Subcategory)
		}
		if len(rc.Keywords) == 0 {
			return nil, fmt.Errorf("%w: %s[%d]: no keywords", ErrInvalidTaxonomy, section, i)
		}
		for _, kw := range rc.Keywords {
			if strings.TrimSpace(kw) == "" {
				return nil, fmt.Errorf("%w: %s[%d]: empty keyword", ErrInvalidTaxonomy, section, i)
			}
			rules = append(rules, Rule{
				Keyword: MatchKeyword(kw),
				Pair:    models.CategoryPair{Category: cat, Subcategory: sub},
			})
		}
	}
	return rules, nil
}

// subcategoryNameRules lets a bare subcategory label ("Hortifruti") resolve to
// its first owning category. They run after the explicit synonyms and match
// whole words only, so "Gás" does not fire on "gastos".
func (t *Taxonomy) subcategoryNameRules() []Rule {
	var rules []Rule
	for _, c := range t.categories {
		for _, s := range c.Subcategories {
			if s == models.SubcategoryOther {
				continue
			}
			rules = append(rules, Rule{
				Keyword: " " + strings.TrimSpace(MatchKeyword(s)) + " ",
				Pair:    models.CategoryPair{Category: c.Name, Subcategory: s},
			})
		}
	}
	return rules
}

// Categories returns the principal category names in order.
func (t *Taxonomy) Categories() []string {
	out := make([]string, len(t.categories))
	for i, c := range t.categories {
		out[i] = c.Name
	}
	return out
}

// Subcategories returns the subcategories of cat, or nil when cat is unknown.
func (t *Taxonomy) Subcategories(cat string) []string {
	idx, ok := t.byFolded[textutils.Fold(strings.TrimSpace(cat))]
	if !ok {
		return nil
	}
	out := make([]string, len(t.categories[idx].Subcategories))
	copy(out, t.categories[idx].Subcategories)
	return out
}

// HasPair reports whether (cat, sub) is a valid combination. Names must use canonical casing.
func (t *Taxonomy) HasPair(cat, sub string) bool {
	idx, ok := t.byFolded[textutils.Fold(cat)]
	if !ok || t.categories[idx].Name != cat {
		return false
	}
	for _, s := range t.categories[idx].Subcategories {
		if s == sub {
			return true
		}
	}
	return false
}

// CanonicalCategory returns the canonical spelling of label when it names a
// principal category, ignoring case and accents.
func (t *Taxonomy) CanonicalCategory(label string) (string, bool) {
	idx, ok := t.byFolded[textutils.Fold(strings.TrimSpace(label))]
	if !ok {
		return "", false
	}
	return t.categories[idx].Name, true
}

// CanonicalSubcategory returns the canonical spelling of label within cat.
func (t *Taxonomy) CanonicalSubcategory(cat, label string) (string, bool) {
	want := textutils.Fold(strings.TrimSpace(label))
	if want == "" {
		return "", false
	}
	for _, s := range t.Subcategories(cat) {
		if textutils.Fold(s) == want {
			return s, true
		}
	}
	return "", false
}

// FilenameRules returns the ordered filename keyword rules.
func (t *Taxonomy) FilenameRules() []Rule {
	return append([]Rule(nil), t.filenameRules...)
}

// LabelRules returns the ordered label synonym rules followed by one rule per subcategory name.
func (t *Taxonomy) LabelRules() []Rule {
	return append([]Rule(nil), t.labelRules...)
}

// PaymentRules returns the ordered payment keyword rules.
func (t *Taxonomy) PaymentRules() []PaymentRule {
	return append([]PaymentRule(nil), t.paymentRules...)
}

// Map returns category -> subcategories, as served by the taxonomy endpoint.
func (t *Taxonomy) Map() map[string][]string {
	out := make(map[string][]string, len(t.categories))
	for _, c := range t.categories {
		out[c.Name] = append([]string(nil), c.Subcategories...)
	}
	return out
}

// Ordered returns a copy of the categories in order.
func (t *Taxonomy) Ordered() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		out[i] = Category{Name: c.Name, Subcategories: append([]string(nil), c.Subcategories...)}
	}
	return out
}

var separators = regexp.MustCompile(`[\s_\-./\\,;:()\[\]]+`)

// MatchText prepares text for keyword matching: folded, separators collapsed
// to single spaces and padded so keywords can anchor on word boundaries.
func MatchText(text string) string {
	return " " + strings.TrimSpace(separators.ReplaceAllString(textutils.Fold(text), " ")) + " "
}

// MatchKeyword prepares a rule keyword the same way MatchText prepares the
// searched text. Leading and trailing spaces are kept as word anchors.
func MatchKeyword(kw string) string {
	return separators.ReplaceAllString(textutils.Fold(kw), " ")
}

// Contains reports whether the prepared text contains the prepared keyword.
func Contains(matchText, keyword string) bool {
	return keyword != "" && strings.Contains(matchText, keyword)
}
