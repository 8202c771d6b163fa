package services

import (
	"context"
	"errors"
	"fmt"

	"tamo-orders/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const pgUndefinedTable = "42P01"

const selectRecordColumns = `id::text, customer_name, item, unit_price::text, quantity, line_total::text, submitted_at`

// PostgresLedgerStore keeps the ledger in the ledger_records table. Append
// order is the seq column.
type PostgresLedgerStore struct {
	pool *pgxpool.Pool
}

func NewPostgresLedgerStore(pool *pgxpool.Pool) *PostgresLedgerStore {
	return &PostgresLedgerStore{pool: pool}
}

func (s *PostgresLedgerStore) Load(ctx context.Context) ([]models.LedgerRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+selectRecordColumns+` FROM ledger_records ORDER BY seq`)
	if err != nil {
		if isUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var records []models.LedgerRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		if isUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return records, nil
}

func (s *PostgresLedgerStore) Append(ctx context.Context, records []models.LedgerRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // no-op after commit

	for _, r := range records {
		_, err := tx.Exec(ctx, `
			INSERT INTO ledger_records (id, customer_name, item, unit_price, quantity, line_total, submitted_at)
			VALUES ($1, $2, $3, $4::numeric, $5, $6::numeric, $7)`,
			r.ID, r.CustomerName, r.Item, r.UnitPrice.StringFixed(2), r.Quantity, r.LineTotal.StringFixed(2), r.SubmittedAt,
		)
		if err != nil {
			return fmt.Errorf("insert %q: %w", r.Item, err)
		}
	}
	return tx.Commit(ctx)
}

func (s *PostgresLedgerStore) DeleteAt(ctx context.Context, position int) (models.LedgerRecord, error) {
	if position < 0 {
		return models.LedgerRecord{}, fmt.Errorf("%w: position %d", ErrNotFound, position)
	}
	row := s.pool.QueryRow(ctx, `
		DELETE FROM ledger_records
		WHERE seq = (SELECT seq FROM ledger_records ORDER BY seq OFFSET $1 LIMIT 1)
		RETURNING `+selectRecordColumns,
		position,
	)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUndefinedTable(err) {
			return models.LedgerRecord{}, fmt.Errorf("%w: position %d", ErrNotFound, position)
		}
		return models.LedgerRecord{}, err
	}
	return rec, nil
}

func (s *PostgresLedgerStore) DeleteByID(ctx context.Context, id string) (models.LedgerRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.LedgerRecord{}, fmt.Errorf("%w: id %q", ErrNotFound, id)
	}
	row := s.pool.QueryRow(ctx, `DELETE FROM ledger_records WHERE id = $1 RETURNING `+selectRecordColumns, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUndefinedTable(err) {
			return models.LedgerRecord{}, fmt.Errorf("%w: id %s", ErrNotFound, id)
		}
		return models.LedgerRecord{}, err
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (models.LedgerRecord, error) {
	var rec models.LedgerRecord
	var price, lineTotal string
	if err := row.Scan(&rec.ID, &rec.CustomerName, &rec.Item, &price, &rec.Quantity, &lineTotal, &rec.SubmittedAt); err != nil {
		return models.LedgerRecord{}, err
	}
	var err error
	if rec.UnitPrice, err = decimal.NewFromString(price); err != nil {
		return models.LedgerRecord{}, fmt.Errorf("unit_price %q: %w", price, err)
	}
	if rec.LineTotal, err = decimal.NewFromString(lineTotal); err != nil {
		return models.LedgerRecord{}, fmt.Errorf("line_total %q: %w", lineTotal, err)
	}
	rec.SubmittedAt = rec.SubmittedAt.UTC()
	return rec, nil
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}
