package store

import (
	"gestorbot/gestor-receipts/internal/taxonomy"
)

// MockTaxonomyStore is a TaxonomySource for tests.
type MockTaxonomyStore struct {
	Taxonomy  *taxonomy.Taxonomy
	Source    string
	LoadError error
	LoadCalls int
}

// Load returns the configured taxonomy, or the embedded default when none is set.
func (m *MockTaxonomyStore) Load() (*taxonomy.Taxonomy, string, error) {
	m.LoadCalls++
	if m.LoadError != nil {
		return nil, "", m.LoadError
	}
	if m.Taxonomy == nil {
		tax, err := taxonomy.Default()
		return tax, EmbeddedSource, err
	}
	return m.Taxonomy, m.Source, nil
}
