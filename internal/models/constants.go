package models

// Catch-all values used when a field cannot be resolved.
const (
	CategoryOther       = "Outros"
	SubcategoryOther    = "Outros"
	CounterpartyUnknown = "Não identificado"
)

// Receipt kinds.
const (
	KindExpense = "despesa"
	KindRevenue = "receita"
)

// ISODateLayout is the canonical date layout of every record.
const ISODateLayout = "2006-01-02"

// File permissions
const (
	PermissionExportFile = 0644
	PermissionDirectory  = 0750
)
