package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tamo-orders/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) (*Ledger, *CSVLedgerStore) {
	t.Helper()
	store := NewCSVLedgerStore(filepath.Join(t.TempDir(), "orders.csv"))
	l := NewLedger(store)
	l.now = func() time.Time { return time.Date(2025, 12, 6, 10, 30, 15, 999, time.UTC) }
	n := 0
	l.newID = func() string {
		n++
		return fmt.Sprintf("00000000-0000-0000-0000-%012d", n)
	}
	return l, store
}

func mixedDraft(t *testing.T) *Draft {
	t.Helper()
	d := NewDraft(testKeys)
	require.NoError(t, d.SetQuantity(cappuccino, 2))
	require.NoError(t, d.SetQuantity(cornetto, 1))
	return d
}

func TestLedgerAppendWritesOneRecordPerLine(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	_, err := l.Append(ctx, "  Mario ", mixedDraft(t))
	require.NoError(t, err)

	records, err := l.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Mario", records[0].CustomerName)
	assert.Equal(t, "Cappuccino", records[0].Item)
	assert.Equal(t, "2.00", records[0].UnitPrice.StringFixed(2))
	assert.Equal(t, 2, records[0].Quantity)
	assert.Equal(t, "4.00", records[0].LineTotal.StringFixed(2))
	assert.Equal(t, "Cornetto", records[1].Item)
	assert.Equal(t, "1.50", records[1].LineTotal.StringFixed(2))
	assert.True(t, records[0].SubmittedAt.Equal(time.Date(2025, 12, 6, 10, 30, 15, 0, time.UTC)))
	assert.NotEmpty(t, records[0].ID)
	assert.NotEqual(t, records[0].ID, records[1].ID)

	s := SummarizeLedger(records)
	require.Len(t, s.PerItem, 2)
	assert.Equal(t, models.ItemTotal{Item: "Cappuccino", TotalQuantity: 2, TotalRevenue: s.PerItem[0].TotalRevenue}, s.PerItem[0])
	assert.Equal(t, "4.00", s.PerItem[0].TotalRevenue.StringFixed(2))
	assert.Equal(t, "Cornetto", s.PerItem[1].Item)
	assert.Equal(t, 1, s.PerItem[1].TotalQuantity)
	assert.Equal(t, "1.50", s.PerItem[1].TotalRevenue.StringFixed(2))
	assert.Equal(t, "5.50", s.GrandTotal.StringFixed(2))
}

func TestLedgerRoundTripMatchesDraftSummary(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	d := NewDraft(testKeys)
	require.NoError(t, d.SetQuantity(spritz, 3))
	require.NoError(t, d.SetQuantity(cornetto, 7))
	summary, err := SummarizeDraft(d)
	require.NoError(t, err)

	_, err = l.Append(ctx, "Anna", d)
	require.NoError(t, err)
	records, err := l.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, len(summary.Lines))
	for i, line := range summary.Lines {
		assert.Equal(t, line.ItemName, records[i].Item)
		assert.True(t, line.UnitPrice.Equal(records[i].UnitPrice))
		assert.Equal(t, line.Quantity, records[i].Quantity)
		assert.True(t, line.LineTotal.Equal(records[i].LineTotal))
	}
}

func TestLedgerAppendRejectsBlankName(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)
	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := l.Append(ctx, name, mixedDraft(t))
		assert.True(t, errors.Is(err, ErrValidation), "name %q: err = %v", name, err)
	}
	records, err := l.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr), "no file should be written")
}

func TestLedgerAppendEmptyDraftIsNoop(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)
	written, err := l.Append(ctx, "Mario", NewDraft(testKeys))
	require.NoError(t, err)
	assert.Empty(t, written)
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestLedgerLoadAllMissingStoreIsEmpty(t *testing.T) {
	l, _ := newTestLedger(t)
	records, err := l.LoadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestLedgerLoadAllIsIdempotent(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	_, err := l.Append(ctx, "Mario", mixedDraft(t))
	require.NoError(t, err)

	first, err := l.LoadAll(ctx)
	require.NoError(t, err)
	second, err := l.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLedgerDeleteAt(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	_, err := l.Append(ctx, "Mario", mixedDraft(t))
	require.NoError(t, err)
	_, err = l.Append(ctx, "Anna", mixedDraft(t))
	require.NoError(t, err)

	before, err := l.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, before, 4)

	removed, err := l.DeleteAt(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, before[1], removed)

	after, err := l.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, after, 3)
	assert.Equal(t, []models.LedgerRecord{before[0], before[2], before[3]}, after)
}

func TestLedgerDeleteAtOutOfRange(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	_, err := l.Append(ctx, "Mario", mixedDraft(t))
	require.NoError(t, err)
	before, err := l.LoadAll(ctx)
	require.NoError(t, err)

	for _, pos := range []int{len(before), len(before) + 5, -1} {
		_, err := l.DeleteAt(ctx, pos)
		assert.True(t, errors.Is(err, ErrNotFound), "position %d: err = %v", pos, err)
	}
	after, err := l.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLedgerDeleteUntilEmpty(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	_, err := l.Append(ctx, "Mario", mixedDraft(t))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := l.DeleteAt(ctx, 0)
		require.NoError(t, err)
	}
	records, err := l.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
	_, err = l.DeleteAt(ctx, 0)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLedgerDeleteByID(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	written, err := l.Append(ctx, "Mario", mixedDraft(t))
	require.NoError(t, err)

	removed, err := l.DeleteByID(ctx, written[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Cornetto", removed.Item)

	_, err = l.DeleteByID(ctx, written[1].ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = l.DeleteByID(ctx, " ")
	assert.True(t, errors.Is(err, ErrNotFound))

	records, err := l.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, written[0].ID, records[0].ID)
}

// A position taken before another submission still deletes within bounds but
// an id keeps addressing the same row.
func TestLedgerStaleIndexVersusID(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	_, err := l.Append(ctx, "Mario", mixedDraft(t))
	require.NoError(t, err)
	snapshot, err := l.LoadAll(ctx)
	require.NoError(t, err)

	_, err = l.DeleteAt(ctx, 0)
	require.NoError(t, err)

	_, err = l.DeleteAt(ctx, 1)
	assert.True(t, errors.Is(err, ErrNotFound), "stale position past the end must fail")

	removed, err := l.DeleteByID(ctx, snapshot[1].ID)
	require.NoError(t, err)
	assert.Equal(t, snapshot[1], removed)
}

func TestLedgerCorruptStoreDegrades(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("name,item,price,quantity,line_total,timestamp,id\nMario,Cappuccino,abc,2,4.00,2025-12-06T10:30:15Z,x\n"), 0o644))

	records, err := l.LoadAll(ctx)
	assert.True(t, errors.Is(err, ErrStorageUnavailable), "err = %v", err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	// New submissions still work; the unreadable file is kept aside.
	_, err = l.Append(ctx, "Anna", mixedDraft(t))
	require.NoError(t, err)
	records, err = l.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	aside, err := filepath.Glob(store.Path() + ".corrupt-*")
	require.NoError(t, err)
	assert.Len(t, aside, 1)
}

type failingStore struct{ err error }

func (f failingStore) Load(context.Context) ([]models.LedgerRecord, error) { return nil, f.err }
func (f failingStore) Append(context.Context, []models.LedgerRecord) error { return f.err }
func (f failingStore) DeleteAt(context.Context, int) (models.LedgerRecord, error) {
	return models.LedgerRecord{}, f.err
}
func (f failingStore) DeleteByID(context.Context, string) (models.LedgerRecord, error) {
	return models.LedgerRecord{}, f.err
}

func TestLedgerLoadAllWrapsAnyStoreError(t *testing.T) {
	l := NewLedger(failingStore{err: errors.New("connection refused")})
	records, err := l.LoadAll(context.Background())
	assert.True(t, errors.Is(err, ErrStorageUnavailable))
	assert.Empty(t, records)
}

func TestLedgerAppendPropagatesStoreError(t *testing.T) {
	boom := errors.New("disk full")
	l := NewLedger(failingStore{err: boom})
	_, err := l.Append(context.Background(), "Mario", mixedDraft(t))
	assert.True(t, errors.Is(err, boom))
}
