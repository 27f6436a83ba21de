package models

// Oracle field aliases. The first key present in a record wins.
var (
	DateKeys         = []string{"data", "date"}
	AmountKeys       = []string{"valor_total", "valor", "amount"}
	CategoryKeys     = []string{"categoria", "category"}
	SubcategoryKeys  = []string{"subcategoria", "subcategory"}
	CounterpartyKeys = []string{"estabelecimento", "counterparty", "origem", "origin"}
	OriginKeys       = []string{"origem", "origin", "estabelecimento", "counterparty"}
	PaymentTypeKeys  = []string{"tipo_pagamento", "payment_type"}
	ErrorKeys        = []string{"erro", "error"}
)

// Lookup returns the value of the first alias present in raw with a non-nil value.
func Lookup(raw map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
