package taxonomy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestorbot/gestor-receipts/internal/models"
)

func loadDefault(t *testing.T) *Taxonomy {
	t.Helper()
	tax, err := Default()
	require.NoError(t, err)
	return tax
}

func TestDefault_CategoriesInOrder(t *testing.T) {
	tax := loadDefault(t)
	assert.Equal(t, []string{
		"Insumos", "Bebidas", "Operacional", "Pessoal",
		"Infraestrutura", "Administrativo", "Marketing e Eventos", "Outros",
	}, tax.Categories())
}

func TestDefault_EveryCategoryOwnsCatchAll(t *testing.T) {
	tax := loadDefault(t)
	for _, c := range tax.Categories() {
		assert.True(t, tax.HasPair(c, models.SubcategoryOther), "category %s", c)
	}
}

func TestDefault_EveryRuleTargetsValidPair(t *testing.T) {
	tax := loadDefault(t)
	for _, r := range append(tax.FilenameRules(), tax.LabelRules()...) {
		assert.True(t, tax.HasPair(r.Pair.Category, r.Pair.Subcategory), "rule %q -> %s", r.Keyword, r.Pair)
		assert.NotEmpty(t, r.Keyword)
	}
	for _, r := range tax.PaymentRules() {
		assert.True(t, r.Type.IsValid())
	}
}

func TestSubcategoriesAndPairs(t *testing.T) {
	tax := loadDefault(t)

	assert.Contains(t, tax.Subcategories("infraestrutura"), "Energia")
	assert.Nil(t, tax.Subcategories("Nope"))

	assert.True(t, tax.HasPair("Infraestrutura", "Aluguel"))
	assert.True(t, tax.HasPair("Marketing e Eventos", "Aluguel"))
	assert.False(t, tax.HasPair("Insumos", "Energia"))
	assert.False(t, tax.HasPair("insumos", "Gelo"), "HasPair expects canonical casing")
}

func TestCanonicalLookups(t *testing.T) {
	tax := loadDefault(t)

	tests := []struct {
		label string
		want  string
		ok    bool
	}{
		{"BEBIDAS", "Bebidas", true},
		{" marketing e eventos ", "Marketing e Eventos", true},
		{"Hortifruti", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := tax.CanonicalCategory(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	sub, ok := tax.CanonicalSubcategory("Operacional", "manutencao")
	require.True(t, ok)
	assert.Equal(t, "Manutenção", sub)

	_, ok = tax.CanonicalSubcategory("Operacional", "Gelo")
	assert.False(t, ok)
}

func TestLabelRules_IncludeSubcategoryNames(t *testing.T) {
	tax := loadDefault(t)
	rules := tax.LabelRules()

	var found bool
	for _, r := range rules {
		if r.Keyword == " hortifruti " {
			found = true
			assert.Equal(t, models.CategoryPair{Category: "Insumos", Subcategory: "Hortifruti"}, r.Pair)
			break
		}
	}
	assert.True(t, found)

	text := MatchText("Gastos gerais")
	for _, r := range rules {
		assert.False(t, Contains(text, r.Keyword), "rule %q matched %q", r.Keyword, text)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	tax := loadDefault(t)

	rules := tax.FilenameRules()
	rules[0].Keyword = "mutated"
	assert.NotEqual(t, "mutated", tax.FilenameRules()[0].Keyword)

	m := tax.Map()
	m["Insumos"][0] = "mutated"
	assert.NotEqual(t, "mutated", tax.Subcategories("Insumos")[0])
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "categories: [::"},
		{"no categories", "categories: []"},
		{"missing catch-all subcategory", `
categories:
  - {name: Insumos, subcategories: [Gelo]}
  - {name: Outros, subcategories: [Outros]}`},
		{"missing catch-all category", `
categories:
  - {name: Insumos, subcategories: [Gelo, Outros]}`},
		{"duplicate category", `
categories:
  - {name: Outros, subcategories: [Outros]}
  - {name: outros, subcategories: [Outros]}`},
		{"rule with unknown pair", `
categories:
  - {name: Outros, subcategories: [Outros]}
filename_rules:
  - {keywords: [x], category: Outros, subcategory: Gelo}`},
		{"empty keyword", `
categories:
  - {name: Outros, subcategories: [Outros]}
label_synonyms:
  - {keywords: ["  "], category: Outros, subcategory: Outros}`},
		{"unknown payment type", `
categories:
  - {name: Outros, subcategories: [Outros]}
payment_rules:
  - {keywords: [boleto], type: Boleto}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTaxonomy))
		})
	}
}

func TestParse_CanonicalizesRuleCasing(t *testing.T) {
	tax, err := Parse([]byte(`
categories:
  - {name: Bebidas, subcategories: [Cervejas, Outros]}
  - {name: Outros, subcategories: [Outros]}
filename_rules:
  - {keywords: [Chopp], category: bebidas, subcategory: cervejas}
`))
	require.NoError(t, err)
	rules := tax.FilenameRules()
	require.Len(t, rules, 1)
	assert.Equal(t, "chopp", rules[0].Keyword)
	assert.Equal(t, models.CategoryPair{Category: "Bebidas", Subcategory: "Cervejas"}, rules[0].Pair)
}

func TestMatchTextAndKeyword(t *testing.T) {
	text := MatchText("Conta_Energia-Dezembro.PDF")
	assert.Equal(t, " conta energia dezembro pdf ", text)

	assert.True(t, Contains(text, MatchKeyword("energia")))
	assert.True(t, Contains(MatchText("DAS_janeiro.pdf"), MatchKeyword(" das ")))
	assert.False(t, Contains(MatchText("vendas_janeiro.pdf"), MatchKeyword(" das ")))
	assert.True(t, Contains(MatchText("Alimento (Variado)"), MatchKeyword("Alimento (Variado)")))
	assert.False(t, Contains(text, ""))
}
