package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tamo-orders/logger"
	"tamo-orders/models"

	"github.com/google/uuid"
)

// LedgerStore persists ledger records in append order. Load on a store that
// does not exist yet returns no records and no error.
type LedgerStore interface {
	Load(ctx context.Context) ([]models.LedgerRecord, error)
	// Append makes all records visible at once or none of them.
	Append(ctx context.Context, records []models.LedgerRecord) error
	DeleteAt(ctx context.Context, position int) (models.LedgerRecord, error)
	DeleteByID(ctx context.Context, id string) (models.LedgerRecord, error)
}

// Ledger is the shared store of submitted order lines.
type Ledger struct {
	store LedgerStore
	now   func() time.Time
	newID func() string
}

func NewLedger(store LedgerStore) *Ledger {
	return &Ledger{
		store: store,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Append writes one record per non-zero draft line under customerName.
// An empty draft writes nothing.
func (l *Ledger) Append(ctx context.Context, customerName string, d *Draft) ([]models.LedgerRecord, error) {
	name := strings.TrimSpace(customerName)
	if name == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	summary, err := SummarizeDraft(d)
	if err != nil {
		return nil, err
	}
	if len(summary.Lines) == 0 {
		return nil, nil
	}

	at := l.now().UTC().Truncate(time.Second)
	records := make([]models.LedgerRecord, 0, len(summary.Lines))
	for _, line := range summary.Lines {
		records = append(records, models.LedgerRecord{
			ID:           l.newID(),
			CustomerName: name,
			Item:         line.ItemName,
			UnitPrice:    line.UnitPrice,
			Quantity:     line.Quantity,
			LineTotal:    line.LineTotal,
			SubmittedAt:  at,
		})
	}
	if err := l.store.Append(ctx, records); err != nil {
		return nil, fmt.Errorf("append %d lines for %q: %w", len(records), name, err)
	}
	logger.L().Infow("order submitted", "customer", name, "lines", len(records), "total", summary.Total.StringFixed(2))
	return records, nil
}

// LoadAll returns every record in append order. When the store cannot be
// read it returns an empty slice together with an ErrStorageUnavailable
// error meant as a warning, not a failure.
func (l *Ledger) LoadAll(ctx context.Context) ([]models.LedgerRecord, error) {
	records, err := l.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrStorageUnavailable) {
			err = fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		logger.L().Warnw("ledger unreadable, showing it as empty", "error", err)
		return []models.LedgerRecord{}, err
	}
	if records == nil {
		records = []models.LedgerRecord{}
	}
	return records, nil
}

// DeleteAt removes the record at position of the current store contents.
// Positions come from an earlier LoadAll and are re-checked here.
func (l *Ledger) DeleteAt(ctx context.Context, position int) (models.LedgerRecord, error) {
	if position < 0 {
		return models.LedgerRecord{}, fmt.Errorf("%w: position %d", ErrNotFound, position)
	}
	rec, err := l.store.DeleteAt(ctx, position)
	if err != nil {
		return models.LedgerRecord{}, err
	}
	logger.L().Infow("ledger record deleted", "position", position, "customer", rec.CustomerName, "item", rec.Item)
	return rec, nil
}

// DeleteByID removes the record with the given stable id.
func (l *Ledger) DeleteByID(ctx context.Context, id string) (models.LedgerRecord, error) {
	if strings.TrimSpace(id) == "" {
		return models.LedgerRecord{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rec, err := l.store.DeleteByID(ctx, id)
	if err != nil {
		return models.LedgerRecord{}, err
	}
	logger.L().Infow("ledger record deleted", "id", id, "customer", rec.CustomerName, "item", rec.Item)
	return rec, nil
}
