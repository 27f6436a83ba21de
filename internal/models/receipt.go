// Package models provides the data structures used throughout the application.
package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CategoryPair is a (category, subcategory) combination drawn from the taxonomy.
type CategoryPair struct {
	Category    string `json:"categoria" yaml:"category"`
	Subcategory string `json:"subcategoria" yaml:"subcategory"`
}

// OtherPair returns the catch-all pair.
func OtherPair() CategoryPair {
	return CategoryPair{Category: CategoryOther, Subcategory: SubcategoryOther}
}

// IsOther reports whether the pair is the catch-all pair.
func (p CategoryPair) IsOther() bool {
	return p.Category == CategoryOther && p.Subcategory == SubcategoryOther
}

func (p CategoryPair) String() string {
	return p.Category + "/" + p.Subcategory
}

// ExpenseRecord is a validated expense receipt, ready to be persisted by the caller.
type ExpenseRecord struct {
	Date         string          `json:"data"`
	Counterparty string          `json:"estabelecimento"`
	Amount       decimal.Decimal `json:"valor_total"`
	Category     string          `json:"categoria"`
	Subcategory  string          `json:"subcategoria"`
	Note         string          `json:"observacao,omitempty"`
	// Suspicious is set when the amount is above the configured suspicion threshold.
	Suspicious bool `json:"suspeito,omitempty"`
}

// Pair returns the record's taxonomy pair.
func (r *ExpenseRecord) Pair() CategoryPair {
	return CategoryPair{Category: r.Category, Subcategory: r.Subcategory}
}

// RevenueRecord is a validated revenue comprovante.
type RevenueRecord struct {
	Date        string          `json:"data"`
	Origin      string          `json:"origem"`
	Amount      decimal.Decimal `json:"valor"`
	PaymentType PaymentType     `json:"tipo_pagamento"`
	Suspicious  bool            `json:"suspeito,omitempty"`
}

// ExpenseView is the wire shape of an expense record shared by the upload API
// and the CLI. Amounts are JSON numbers with two decimals.
type ExpenseView struct {
	Data            string      `json:"data"`
	Estabelecimento string      `json:"estabelecimento"`
	ValorTotal      json.Number `json:"valor_total"`
	Categoria       string      `json:"categoria"`
	Subcategoria    string      `json:"subcategoria"`
	Observacao      string      `json:"observacao,omitempty"`
	Suspeito        bool        `json:"suspeito,omitempty"`
}

// View returns the wire shape of r, or nil for a nil record.
func (r *ExpenseRecord) View() *ExpenseView {
	if r == nil {
		return nil
	}
	return &ExpenseView{
		Data:            r.Date,
		Estabelecimento: r.Counterparty,
		ValorTotal:      json.Number(r.Amount.StringFixed(2)),
		Categoria:       r.Category,
		Subcategoria:    r.Subcategory,
		Observacao:      r.Note,
		Suspeito:        r.Suspicious,
	}
}

// RevenueView is the wire shape of a revenue record.
type RevenueView struct {
	Data          string      `json:"data"`
	Origem        string      `json:"origem"`
	Valor         json.Number `json:"valor"`
	TipoPagamento string      `json:"tipo_pagamento"`
	Suspeito      bool        `json:"suspeito,omitempty"`
}

// View returns the wire shape of r, or nil for a nil record.
func (r *RevenueRecord) View() *RevenueView {
	if r == nil {
		return nil
	}
	return &RevenueView{
		Data:          r.Date,
		Origem:        r.Origin,
		Valor:         json.Number(r.Amount.StringFixed(2)),
		TipoPagamento: string(r.PaymentType),
		Suspeito:      r.Suspicious,
	}
}
