package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"tamo-orders/logger"
	"tamo-orders/models"

	"github.com/shopspring/decimal"
)

const timestampLayout = time.RFC3339

var csvHeader = []string{"name", "item", "price", "quantity", "line_total", "timestamp", "id"}

// CSVLedgerStore keeps the ledger in one CSV file. Every change rewrites the
// whole file through a temp file and a rename, so readers never observe a
// partially written batch.
type CSVLedgerStore struct {
	path string
	mu   sync.Mutex
}

func NewCSVLedgerStore(path string) *CSVLedgerStore {
	return &CSVLedgerStore{path: path}
}

func (s *CSVLedgerStore) Path() string {
	return s.path
}

func (s *CSVLedgerStore) Load(ctx context.Context) ([]models.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *CSVLedgerStore) Append(ctx context.Context, records []models.LedgerRecord) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.read()
	if err != nil {
		if !errors.Is(err, ErrStorageUnavailable) {
			return err
		}
		// Keep the unreadable file for inspection and start a fresh ledger.
		aside := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().Unix())
		if rerr := os.Rename(s.path, aside); rerr != nil {
			return fmt.Errorf("move corrupt ledger aside: %w", rerr)
		}
		logger.L().Warnw("corrupt ledger moved aside", "path", s.path, "moved_to", aside, "error", err)
		existing = nil
	}
	return s.write(append(existing, records...))
}

func (s *CSVLedgerStore) DeleteAt(ctx context.Context, position int) (models.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return models.LedgerRecord{}, err
	}
	if position < 0 || position >= len(records) {
		return models.LedgerRecord{}, fmt.Errorf("%w: position %d, ledger has %d records", ErrNotFound, position, len(records))
	}
	return s.removeAt(records, position)
}

func (s *CSVLedgerStore) DeleteByID(ctx context.Context, id string) (models.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return models.LedgerRecord{}, err
	}
	for i, r := range records {
		if r.ID != "" && r.ID == id {
			return s.removeAt(records, i)
		}
	}
	return models.LedgerRecord{}, fmt.Errorf("%w: id %s", ErrNotFound, id)
}

func (s *CSVLedgerStore) removeAt(records []models.LedgerRecord, i int) (models.LedgerRecord, error) {
	removed := records[i]
	rest := make([]models.LedgerRecord, 0, len(records)-1)
	rest = append(rest, records[:i]...)
	rest = append(rest, records[i+1:]...)
	if err := s.write(rest); err != nil {
		return models.LedgerRecord{}, err
	}
	return removed, nil
}

func (s *CSVLedgerStore) read() ([]models.LedgerRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	records, err := DecodeLedgerCSV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, s.path, err)
	}
	return records, nil
}

func (s *CSVLedgerStore) write(records []models.LedgerRecord) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := EncodeLedgerCSV(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}

// EncodeLedgerCSV writes the header and one row per record.
func EncodeLedgerCSV(w io.Writer, records []models.LedgerRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write ledger header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.CustomerName,
			r.Item,
			r.UnitPrice.StringFixed(2),
			strconv.Itoa(r.Quantity),
			r.LineTotal.StringFixed(2),
			r.SubmittedAt.UTC().Format(timestampLayout),
			r.ID,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write ledger row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeLedgerCSV reads rows written by EncodeLedgerCSV. Files without the
// trailing id column are accepted; their records get an empty ID.
func DecodeLedgerCSV(r io.Reader) ([]models.LedgerRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows[0]) < 6 || rows[0][0] != csvHeader[0] || rows[0][1] != csvHeader[1] {
		return nil, fmt.Errorf("missing header")
	}

	records := make([]models.LedgerRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRow(row []string) (models.LedgerRecord, error) {
	if len(row) != 6 && len(row) != 7 {
		return models.LedgerRecord{}, fmt.Errorf("expected 6 or 7 columns, got %d", len(row))
	}
	price, err := decimal.NewFromString(row[2])
	if err != nil {
		return models.LedgerRecord{}, fmt.Errorf("price %q: %w", row[2], err)
	}
	qty, err := strconv.Atoi(row[3])
	if err != nil || qty <= 0 {
		return models.LedgerRecord{}, fmt.Errorf("quantity %q must be a positive integer", row[3])
	}
	lineTotal, err := decimal.NewFromString(row[4])
	if err != nil {
		return models.LedgerRecord{}, fmt.Errorf("line_total %q: %w", row[4], err)
	}
	at, err := time.Parse(timestampLayout, row[5])
	if err != nil {
		return models.LedgerRecord{}, fmt.Errorf("timestamp %q: %w", row[5], err)
	}
	rec := models.LedgerRecord{
		CustomerName: row[0],
		Item:         row[1],
		UnitPrice:    price,
		Quantity:     qty,
		LineTotal:    lineTotal,
		SubmittedAt:  at,
	}
	if len(row) == 7 {
		rec.ID = row[6]
	}
	return rec, nil
}
