// Package export writes batch results as CSV, XLSX or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"gestorbot/gestor-receipts/internal/batch"
	"gestorbot/gestor-receipts/internal/logging"
	"gestorbot/gestor-receipts/internal/models"
	"gestorbot/gestor-receipts/internal/validation"
)

// Row statuses.
const (
	StatusOK    = "ok"
	StatusError = "erro"
)

// DefaultDelimiter is the CSV field separator.
const DefaultDelimiter = ','

// Row is the flat representation of one batch result.
type Row struct {
	File         string `csv:"arquivo" json:"arquivo"`
	Kind         string `csv:"tipo" json:"tipo"`
	Status       string `csv:"status" json:"status"`
	Date         string `csv:"data" json:"data,omitempty"`
	Counterparty string `csv:"estabelecimento" json:"estabelecimento,omitempty"`
	Amount       string `csv:"valor" json:"valor,omitempty"`
	Category     string `csv:"categoria" json:"categoria,omitempty"`
	Subcategory  string `csv:"subcategoria" json:"subcategoria,omitempty"`
	PaymentType  string `csv:"tipo_pagamento" json:"tipo_pagamento,omitempty"`
	Note         string `csv:"observacao" json:"observacao,omitempty"`
	Suspicious   string `csv:"suspeito" json:"suspeito,omitempty"`
	Error        string `csv:"erro" json:"erro,omitempty"`
}

// Rows flattens a summary in result order.
func Rows(summary *batch.Summary) []Row {
	if summary == nil {
		return nil
	}
	rows := make([]Row, 0, len(summary.Results))
	for _, res := range summary.Results {
		row := Row{File: res.FileName, Kind: res.Kind, Status: StatusOK}
		switch {
		case res.Err != nil:
			row.Status = StatusError
			row.Error = res.Message()
		case res.Expense != nil:
			fillExpense(&row, res.Expense)
		case res.Revenue != nil:
			fillRevenue(&row, res.Revenue)
		}
		rows = append(rows, row)
	}
	return rows
}

func fillExpense(row *Row, rec *models.ExpenseRecord) {
	row.Date = rec.Date
	row.Counterparty = rec.Counterparty
	row.Amount = rec.Amount.StringFixed(2)
	row.Category = rec.Category
	row.Subcategory = rec.Subcategory
	row.Note = rec.Note
	row.Suspicious = yesNo(rec.Suspicious)
}

func fillRevenue(row *Row, rec *models.RevenueRecord) {
	row.Date = rec.Date
	row.Counterparty = rec.Origin
	row.Amount = rec.Amount.StringFixed(2)
	row.PaymentType = string(rec.PaymentType)
	row.Suspicious = yesNo(rec.Suspicious)
}

func yesNo(b bool) string {
	if b {
		return "sim"
	}
	return "nao"
}

// Exporter writes summaries in the configured formats.
type Exporter struct {
	delimiter rune
	logger    logging.Logger
}

// NewExporter creates an Exporter. A zero delimiter means DefaultDelimiter.
func NewExporter(delimiter rune, logger logging.Logger) *Exporter {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	return &Exporter{delimiter: delimiter, logger: logger}
}

// Delimiter returns the CSV separator in use.
func (e *Exporter) Delimiter() rune {
	return e.delimiter
}

// WriteFile writes summary to path, choosing the format from its extension.
func (e *Exporter) WriteFile(path string, summary *batch.Summary) error {
	format, err := validation.OutputFormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	rows := Rows(summary)
	if format == validation.FormatXLSX {
		err = e.writeXLSXFile(path, rows)
	} else {
		err = e.writeStreamFile(path, format, rows)
	}
	if err != nil {
		e.logger.WithError(err).Error("Failed to write export",
			logging.Field{Key: logging.FieldOutputFile, Value: path})
		return err
	}

	e.logger.Info("Export written",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return nil
}

func (e *Exporter) writeStreamFile(path, format string, rows []Row) (err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionExportFile) // #nosec G304 -- output path chosen by the operator
	if err != nil {
		return fmt.Errorf("error creating %s file: %w", format, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing %s file: %w", format, cerr)
		}
	}()

	if format == validation.FormatJSON {
		return e.WriteJSON(file, rows)
	}
	return e.WriteCSV(file, rows)
}

// WriteCSV marshals rows with a header line.
func (e *Exporter) WriteCSV(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = e.delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteJSON writes rows as an indented JSON array.
func (e *Exporter) WriteJSON(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("error writing JSON data: %w", err)
	}
	return nil
}
