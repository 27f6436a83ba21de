package receipt

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"gestorbot/gestor-receipts/internal/logging"
	"gestorbot/gestor-receipts/internal/models"
	"gestorbot/gestor-receipts/internal/oracle"
	"gestorbot/gestor-receipts/internal/receipterror"
	"gestorbot/gestor-receipts/internal/textutils"
)

// Processor runs one upload through prompt, oracle and pipeline.
type Processor struct {
	oracle   oracle.Oracle
	prompts  *oracle.Prompts
	pipeline *Pipeline
	logger   logging.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(o oracle.Oracle, prompts *oracle.Prompts, pipeline *Pipeline, logger logging.Logger) *Processor {
	return &Processor{oracle: o, prompts: prompts, pipeline: pipeline, logger: logger}
}

// Pipeline returns the pipeline used to validate oracle output.
func (p *Processor) Pipeline() *Pipeline {
	return p.pipeline
}

// ProcessExpense extracts an expense record from doc. filename is used as a
// categorization hint and becomes the record's note.
func (p *Processor) ProcessExpense(ctx context.Context, doc oracle.Document, filename string) (*models.ExpenseRecord, error) {
	log := p.requestLogger(models.KindExpense, filename)

	text, err := p.extract(ctx, log, doc, p.prompts.Expense(filename))
	if err != nil {
		return nil, err
	}

	rec, err := p.pipeline.ValidateExpense(text, filename)
	if err != nil {
		log.WithError(err).Info("Expense receipt rejected")
		return nil, err
	}
	rec.Note = textutils.NoteFromFilename(filename)
	return rec, nil
}

// ProcessRevenue extracts a revenue record from doc.
func (p *Processor) ProcessRevenue(ctx context.Context, doc oracle.Document) (*models.RevenueRecord, error) {
	log := p.requestLogger(models.KindRevenue, doc.Name)

	text, err := p.extract(ctx, log, doc, p.prompts.Revenue())
	if err != nil {
		return nil, err
	}

	rec, err := p.pipeline.ValidateRevenue(text)
	if err != nil {
		log.WithError(err).Info("Revenue comprovante rejected")
		return nil, err
	}
	return rec, nil
}

func (p *Processor) requestLogger(kind, filename string) logging.Logger {
	return p.logger.WithFields(
		logging.Field{Key: logging.FieldReceiptID, Value: uuid.NewString()},
		logging.Field{Key: logging.FieldKind, Value: kind},
		logging.Field{Key: logging.FieldFileName, Value: filename},
	)
}

func (p *Processor) extract(ctx context.Context, log logging.Logger, doc oracle.Document, prompt string) (string, error) {
	start := time.Now()
	text, err := p.oracle.Extract(ctx, doc, prompt)
	if err != nil {
		var rej *receipterror.RejectionError
		if !errors.As(err, &rej) {
			err = receipterror.OracleUnavailable(receipterror.MsgOracleConnection, err)
		}
		log.WithError(err).Warn("Oracle call failed")
		return "", err
	}
	log.Debug("Oracle call finished",
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return text, nil
}
