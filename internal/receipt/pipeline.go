// Package receipt validates and sanitizes records extracted by the oracle and
// orchestrates the oracle call for single uploads.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gestorbot/gestor-receipts/internal/categorizer"
	"gestorbot/gestor-receipts/internal/currencyutils"
	"gestorbot/gestor-receipts/internal/dateutils"
	"gestorbot/gestor-receipts/internal/logging"
	"gestorbot/gestor-receipts/internal/models"
	"gestorbot/gestor-receipts/internal/receipterror"
	"gestorbot/gestor-receipts/internal/taxonomy"
	"gestorbot/gestor-receipts/internal/textutils"
	"gestorbot/gestor-receipts/internal/validation"
)

// Pipeline turns oracle text into a validated record or a rejection.
// It performs no I/O and holds no mutable state, so one Pipeline can serve
// concurrent callers.
type Pipeline struct {
	categorizer *categorizer.Categorizer
	payments    *categorizer.PaymentTypeNormalizer
	expense     *validation.PresenceChecker
	revenue     *validation.PresenceChecker
	limits      Limits
	now         func() time.Time
	logger      logging.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the clock used for "today" substitutions.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLimits overrides DefaultLimits.
func WithLimits(l Limits) Option {
	return func(p *Pipeline) {
		p.limits = l
	}
}

// WithCategorizer replaces the default filename-then-label categorizer.
func WithCategorizer(c *categorizer.Categorizer) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.categorizer = c
		}
	}
}

// NewPipeline builds a Pipeline over tax.
func NewPipeline(tax *taxonomy.Taxonomy, logger logging.Logger, opts ...Option) (*Pipeline, error) {
	expense, err := validation.NewPresenceChecker(
		validation.RequiredField{Name: "data", Aliases: models.DateKeys},
		validation.RequiredField{Name: "valor_total", Aliases: models.AmountKeys},
		validation.RequiredField{Name: "categoria", Aliases: models.CategoryKeys},
	)
	if err != nil {
		return nil, fmt.Errorf("expense presence schema: %w", err)
	}
	revenue, err := validation.NewPresenceChecker(
		validation.RequiredField{Name: "data", Aliases: models.DateKeys},
		validation.RequiredField{Name: "valor", Aliases: models.AmountKeys},
	)
	if err != nil {
		return nil, fmt.Errorf("revenue presence schema: %w", err)
	}

	p := &Pipeline{
		categorizer: categorizer.NewDefaultCategorizer(tax, logger),
		payments:    categorizer.NewPaymentTypeNormalizer(tax.PaymentRules(), logger),
		expense:     expense,
		revenue:     revenue,
		limits:      DefaultLimits(),
		now:         time.Now,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ValidateExpense validates oracle text for an expense receipt. filename may
// be empty; when it matches a filename rule it decides the category pair.
func (p *Pipeline) ValidateExpense(text, filename string) (*models.ExpenseRecord, error) {
	raw, err := p.extract(text)
	if err != nil {
		return nil, err
	}
	if field, missing := p.expense.Missing(raw); missing {
		p.logger.Warn("Required field missing",
			logging.Field{Key: logging.FieldKind, Value: models.KindExpense},
			logging.Field{Key: logging.FieldReason, Value: field})
		return nil, receipterror.Incomplete(field)
	}

	date := p.sanitizeDate(lookupString(raw, models.DateKeys))
	amountRaw, _ := models.Lookup(raw, models.AmountKeys)
	amount, suspicious, err := p.sanitizeAmount(amountRaw)
	if err != nil {
		return nil, err
	}

	pair, strategy := p.categorizer.Categorize(categorizer.Input{
		Filename:         filename,
		CategoryLabel:    lookupString(raw, models.CategoryKeys),
		SubcategoryLabel: lookupString(raw, models.SubcategoryKeys),
	})

	counterparty := lookupString(raw, models.CounterpartyKeys)
	if counterparty == "" {
		counterparty = models.CounterpartyUnknown
	}

	rec := &models.ExpenseRecord{
		Date:         date,
		Counterparty: counterparty,
		Amount:       amount,
		Category:     pair.Category,
		Subcategory:  pair.Subcategory,
		Suspicious:   suspicious,
	}

	p.logger.Info("Expense receipt accepted",
		logging.Field{Key: logging.FieldDate, Value: rec.Date},
		logging.Field{Key: logging.FieldAmount, Value: rec.Amount.StringFixed(2)},
		logging.Field{Key: logging.FieldCategory, Value: rec.Category},
		logging.Field{Key: logging.FieldSubcategory, Value: rec.Subcategory},
		logging.Field{Key: logging.FieldStrategy, Value: strategy})
	return rec, nil
}

// ValidateRevenue validates oracle text for a revenue comprovante.
func (p *Pipeline) ValidateRevenue(text string) (*models.RevenueRecord, error) {
	raw, err := p.extract(text)
	if err != nil {
		return nil, err
	}
	if field, missing := p.revenue.Missing(raw); missing {
		p.logger.Warn("Required field missing",
			logging.Field{Key: logging.FieldKind, Value: models.KindRevenue},
			logging.Field{Key: logging.FieldReason, Value: field})
		return nil, receipterror.Incomplete(field)
	}

	date := p.sanitizeDate(lookupString(raw, models.DateKeys))
	amountRaw, _ := models.Lookup(raw, models.AmountKeys)
	amount, suspicious, err := p.sanitizeAmount(amountRaw)
	if err != nil {
		return nil, err
	}

	rec := &models.RevenueRecord{
		Date:        date,
		Origin:      lookupString(raw, models.OriginKeys),
		Amount:      amount,
		PaymentType: p.payments.Normalize(lookupString(raw, models.PaymentTypeKeys)),
		Suspicious:  suspicious,
	}

	p.logger.Info("Revenue comprovante accepted",
		logging.Field{Key: logging.FieldDate, Value: rec.Date},
		logging.Field{Key: logging.FieldAmount, Value: rec.Amount.StringFixed(2)},
		logging.Field{Key: logging.FieldPaymentType, Value: string(rec.PaymentType)})
	return rec, nil
}

// extract runs the structured-text extractor and surfaces the oracle's own
// error field. Any non-null error key rejects, even an empty one.
func (p *Pipeline) extract(text string) (map[string]any, error) {
	raw, ok := textutils.ExtractJSONObject(text)
	if !ok {
		p.logger.Warn("Could not extract JSON from oracle output",
			logging.Field{Key: logging.FieldReason, Value: truncateForLog(text)})
		return nil, receipterror.Unparseable()
	}
	if v, ok := models.Lookup(raw, models.ErrorKeys); ok {
		msg := textutils.StringField(v)
		if msg == "" {
			msg = strings.TrimSpace(fmt.Sprint(v))
		}
		if msg == "" {
			msg = receipterror.MsgUnparseable
		}
		p.logger.Info("Oracle reported an unreadable document",
			logging.Field{Key: logging.FieldReason, Value: msg})
		return nil, receipterror.OracleReported(msg)
	}
	return raw, nil
}

// sanitizeDate coerces value into a YYYY-MM-DD date inside the accepted
// window, substituting today when that is impossible.
func (p *Pipeline) sanitizeDate(value string) string {
	now := p.now()
	today := dateutils.ToISODate(now)

	date := value
	if !dateutils.IsValidISODate(date) {
		converted, ok := dateutils.ConvertToISODate(date)
		if !ok {
			p.logger.Warn("Invalid date, using today",
				logging.Field{Key: logging.FieldDate, Value: value})
			return today
		}
		p.logger.Debug("Date converted",
			logging.Field{Key: logging.FieldDate, Value: value},
			logging.Field{Key: logging.FieldReason, Value: converted})
		date = converted
	}

	parsed, err := time.Parse(dateutils.DateLayoutISO, date)
	if err != nil {
		return today
	}
	if !dateutils.WithinWindow(parsed, now, p.limits.MaxAgeDays, p.limits.MaxFutureDays) {
		p.logger.Warn("Date outside accepted window, using today",
			logging.Field{Key: logging.FieldDate, Value: date})
		return today
	}
	return date
}

// sanitizeAmount normalizes value and rejects non-positive or sub-minimum amounts.
func (p *Pipeline) sanitizeAmount(value any) (decimal.Decimal, bool, error) {
	amount := currencyutils.NormalizeAmountWithLogger(value, p.logger)
	if !amount.IsPositive() {
		p.logger.Warn("Non-positive amount",
			logging.Field{Key: logging.FieldAmount, Value: amount.String()})
		return amount, false, receipterror.InvalidAmount(amount.String())
	}
	if amount.LessThan(p.limits.MinAmount) {
		p.logger.Warn("Amount below minimum",
			logging.Field{Key: logging.FieldAmount, Value: amount.String()})
		return amount, false, receipterror.InvalidAmount(amount.String())
	}
	suspicious := p.limits.SuspiciousAmount.IsPositive() && amount.GreaterThan(p.limits.SuspiciousAmount)
	if suspicious {
		p.logger.Warn("Suspicious amount accepted",
			logging.Field{Key: logging.FieldAmount, Value: currencyutils.FormatBRL(amount)})
	}
	return amount, suspicious, nil
}

func lookupString(raw map[string]any, keys []string) string {
	v, ok := models.Lookup(raw, keys)
	if !ok {
		return ""
	}
	return textutils.StringField(v)
}

func truncateForLog(s string) string {
	const limit = 200
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}
