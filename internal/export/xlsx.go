package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet of an XLSX export.
const SheetName = "Lancamentos"

var xlsxHeaders = []string{
	"Arquivo", "Tipo", "Status", "Data", "Estabelecimento/Origem", "Valor (R$)",
	"Categoria", "Subcategoria", "Tipo de pagamento", "Observação", "Suspeito", "Erro",
}

// BuildWorkbook renders rows into a workbook. Amounts are stored as numbers.
func (e *Exporter) BuildWorkbook(rows []Row) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(SheetName)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create amount style: %w", err)
	}

	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
		_ = f.SetCellStyle(SheetName, cell, cell, headerStyle)
	}

	for i, r := range rows {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}
		write(1, r.File)
		write(2, r.Kind)
		write(3, r.Status)
		write(4, r.Date)
		write(5, r.Counterparty)
		if amount, err := decimal.NewFromString(r.Amount); err == nil {
			write(6, amount.InexactFloat64())
			cell, _ := excelize.CoordinatesToCellName(6, row)
			_ = f.SetCellStyle(SheetName, cell, cell, moneyStyle)
		}
		write(7, r.Category)
		write(8, r.Subcategory)
		write(9, r.PaymentType)
		write(10, r.Note)
		write(11, r.Suspicious)
		write(12, r.Error)
	}

	for i := range xlsxHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(SheetName, col, col, 18)
	}
	return f, nil
}

func (e *Exporter) writeXLSXFile(path string, rows []Row) error {
	f, err := e.BuildWorkbook(rows)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}
