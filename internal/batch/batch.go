// Package batch runs several receipt documents through the oracle one at a
// time, collecting per-item outcomes.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"gestorbot/gestor-receipts/internal/logging"
	"gestorbot/gestor-receipts/internal/models"
	"gestorbot/gestor-receipts/internal/oracle"
	"gestorbot/gestor-receipts/internal/receipterror"
)

const (
	// DefaultMaxItems is the largest batch accepted.
	DefaultMaxItems = 10
	// DefaultDelay is the minimum spacing between two oracle calls.
	DefaultDelay = 2 * time.Second
)

// ErrEmptyBatch is returned when a batch has no items.
var ErrEmptyBatch = errors.New("batch is empty")

// ErrTooManyItems is returned when a batch exceeds the configured maximum.
var ErrTooManyItems = errors.New("too many items in batch")

// ReceiptProcessor is the part of receipt.Processor the runner depends on.
type ReceiptProcessor interface {
	ProcessExpense(ctx context.Context, doc oracle.Document, filename string) (*models.ExpenseRecord, error)
	ProcessRevenue(ctx context.Context, doc oracle.Document) (*models.RevenueRecord, error)
}

// Item is one document of a batch. Load is deferred so that a document that
// cannot be read fails on its own without aborting the batch.
type Item struct {
	Name string
	Kind string
	Load func() (oracle.Document, error)
}

// Base64Item builds an expense Item from a base64 payload as sent by the upload form.
func Base64Item(name, encoded string, maxBytes int) Item {
	return Item{
		Name: name,
		Kind: models.KindExpense,
		Load: func() (oracle.Document, error) {
			return oracle.DecodeDocument(name, encoded, maxBytes)
		},
	}
}

// FileItem builds an Item reading path from disk.
func FileItem(path, kind string, maxBytes int) Item {
	return Item{
		Name: filepath.Base(path),
		Kind: kind,
		Load: func() (oracle.Document, error) {
			data, err := os.ReadFile(path) // #nosec G304 -- path is selected by the operator
			if err != nil {
				return oracle.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
			}
			return oracle.NewDocument(filepath.Base(path), data, maxBytes)
		},
	}
}

// Result is the outcome of one Item.
type Result struct {
	ID       string
	FileName string
	Kind     string
	Expense  *models.ExpenseRecord
	Revenue  *models.RevenueRecord
	Err      error
}

// OK reports whether the item produced a record.
func (r Result) OK() bool {
	return r.Err == nil
}

// Message returns the user-facing rejection message, or "" on success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return receipterror.UserMessage(r.Err)
}

// Summary aggregates a batch run. Results keep the input order.
type Summary struct {
	Processed int
	Failed    int
	Results   []Result
}

// Expenses returns the accepted expense records in input order.
func (s *Summary) Expenses() []models.ExpenseRecord {
	var out []models.ExpenseRecord
	for _, r := range s.Results {
		if r.Expense != nil {
			out = append(out, *r.Expense)
		}
	}
	return out
}

// Revenues returns the accepted revenue records in input order.
func (s *Summary) Revenues() []models.RevenueRecord {
	var out []models.RevenueRecord
	for _, r := range s.Results {
		if r.Revenue != nil {
			out = append(out, *r.Revenue)
		}
	}
	return out
}

// Runner processes batches sequentially, spacing oracle calls with a rate limiter.
type Runner struct {
	processor ReceiptProcessor
	limiter   *rate.Limiter
	maxItems  int
	logger    logging.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithMaxItems overrides DefaultMaxItems.
func WithMaxItems(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxItems = n
		}
	}
}

// WithDelay overrides DefaultDelay. A zero delay disables spacing.
func WithDelay(d time.Duration) Option {
	return func(r *Runner) {
		if d <= 0 {
			r.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		r.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// NewRunner creates a Runner.
func NewRunner(processor ReceiptProcessor, logger logging.Logger, opts ...Option) *Runner {
	r := &Runner{
		processor: processor,
		limiter:   rate.NewLimiter(rate.Every(DefaultDelay), 1),
		maxItems:  DefaultMaxItems,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxItems returns the largest batch the runner accepts.
func (r *Runner) MaxItems() int {
	return r.maxItems
}

// Run processes items in order. Item failures are recorded in the summary;
// the returned error is set only for an invalid batch or a cancelled context,
// in which case the summary still holds the items handled so far.
func (r *Runner) Run(ctx context.Context, items []Item) (*Summary, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(items) > r.maxItems {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyItems, len(items), r.maxItems)
	}

	start := time.Now()
	summary := &Summary{Results: make([]Result, 0, len(items))}
	r.logger.Info("Starting batch",
		logging.Field{Key: logging.FieldCount, Value: len(items)})

	for i, item := range items {
		if item.Name == "" {
			item.Name = fmt.Sprintf("arquivo_%d", i+1)
		}
		if item.Kind == "" {
			item.Kind = models.KindExpense
		}

		res := r.runItem(ctx, item)
		summary.Results = append(summary.Results, res)
		if res.OK() {
			summary.Processed++
		} else {
			summary.Failed++
		}

		if err := ctx.Err(); err != nil {
			r.logger.WithError(err).Warn("Batch cancelled",
				logging.Field{Key: logging.FieldCount, Value: len(summary.Results)})
			return summary, fmt.Errorf("batch cancelled after %d of %d items: %w", len(summary.Results), len(items), err)
		}
	}

	r.logger.Info("Batch finished",
		logging.Field{Key: logging.FieldCount, Value: len(items)},
		logging.Field{Key: "processed", Value: summary.Processed},
		logging.Field{Key: "failed", Value: summary.Failed},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return summary, nil
}

func (r *Runner) runItem(ctx context.Context, item Item) Result {
	res := Result{ID: uuid.NewString(), FileName: item.Name, Kind: item.Kind}
	log := r.logger.WithFields(
		logging.Field{Key: logging.FieldReceiptID, Value: res.ID},
		logging.Field{Key: logging.FieldFileName, Value: item.Name})

	if item.Load == nil {
		res.Err = receipterror.InvalidDocument(oracle.ErrEmptyDocument)
		return res
	}
	doc, err := item.Load()
	if err != nil {
		log.WithError(err).Warn("Failed to load batch item")
		res.Err = asRejection(err)
		return res
	}

	if err := r.limiter.Wait(ctx); err != nil {
		res.Err = receipterror.OracleUnavailable(receipterror.MsgOracleConnection, err)
		return res
	}

	switch item.Kind {
	case models.KindRevenue:
		res.Revenue, res.Err = r.processor.ProcessRevenue(ctx, doc)
	default:
		res.Expense, res.Err = r.processor.ProcessExpense(ctx, doc, item.Name)
	}
	if res.Err != nil {
		log.Info("Batch item rejected",
			logging.Field{Key: logging.FieldReason, Value: res.Message()})
	}
	return res
}

func asRejection(err error) error {
	var rej *receipterror.RejectionError
	if errors.As(err, &rej) {
		return err
	}
	return receipterror.InvalidDocument(err)
}

// DirectoryItems lists the supported documents directly inside dir, sorted by
// name, as Items of the given kind.
func DirectoryItems(dir, kind string, maxBytes int) ([]Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !IsDocumentExtension(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	items := make([]Item, 0, len(names))
	for _, name := range names {
		items = append(items, FileItem(filepath.Join(dir, name), kind, maxBytes))
	}
	return items, nil
}

// IsDocumentExtension reports whether name has an image or PDF extension.
func IsDocumentExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif", ".heic", ".heif", ".pdf":
		return true
	default:
		return false
	}
}
