package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportJoins = ` FROM entries e
	LEFT JOIN dimensions cat ON cat.id = e.category_id
	LEFT JOIN dimensions cp ON cp.id = e.counterparty_id
	LEFT JOIN banks b ON b.id = e.bank_id
	WHERE `

// buildFilter compiles the filter into a parameterized WHERE clause. The base
// predicate always scopes by owner, kind, and the inclusive date range; every
// further criterion is ANDed on.
func buildFilter(ownerID uuid.UUID, f domain.EntryFilter) (string, []any) {
	var sb strings.Builder
	args := []any{ownerID, f.Kind, f.Start, f.End}
	sb.WriteString("e.owner_id = $1 AND e.kind = $2 AND e.date BETWEEN $3 AND $4")

	add := func(clause string, v any) {
		args = append(args, v)
		fmt.Fprintf(&sb, clause, len(args))
	}

	if f.CategoryID != nil {
		add(" AND e.category_id = $%d", *f.CategoryID)
	}
	if f.CounterpartyID != nil {
		add(" AND e.counterparty_id = $%d", *f.CounterpartyID)
	}
	if f.BankID != nil {
		add(" AND e.bank_id = $%d", *f.BankID)
	}

	for _, kw := range f.Keywords {
		args = append(args, "%"+kw+"%")
		n := len(args)
		fmt.Fprintf(&sb,
			" AND (cat.label ILIKE $%[1]d OR cp.label ILIKE $%[1]d OR e.amount::text ILIKE $%[1]d"+
				" OR e.notes ILIKE $%[1]d OR b.name ILIKE $%[1]d)", n)
	}

	return sb.String(), args
}

func (r *ReportRepository) Search(ctx context.Context, ownerID uuid.UUID, f domain.EntryFilter) ([]domain.Entry, error) {
	where, args := buildFilter(ownerID, f)
	q := `SELECT ` + entryColumns + reportJoins + where + ` ORDER BY e.date DESC, e.input_date DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("Search: scan: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Search: rows: %w", err)
	}
	return entries, nil
}

func (r *ReportRepository) Stats(ctx context.Context, ownerID uuid.UUID, f domain.EntryFilter) (domain.Stats, error) {
	where, args := buildFilter(ownerID, f)
	q := `SELECT COUNT(*),
		COALESCE(SUM(e.amount), 0), COALESCE(AVG(e.amount), 0),
		COALESCE(MAX(e.amount), 0), COALESCE(MIN(e.amount), 0)` +
		reportJoins + where

	var s domain.Stats
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&s.Count, &s.Sum, &s.Avg, &s.Max, &s.Min)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("Stats: %w", err)
	}
	return s, nil
}

// Monthly groups the filtered entries by calendar month of receipt date and
// computes amount statistics per bucket, oldest month first.
func (r *ReportRepository) Monthly(ctx context.Context, ownerID uuid.UUID, f domain.EntryFilter) ([]domain.MonthBucket, error) {
	where, args := buildFilter(ownerID, f)
	q := `SELECT date_trunc('month', e.date)::date AS month, COUNT(*),
		SUM(e.amount), AVG(e.amount), MAX(e.amount), MIN(e.amount)` +
		reportJoins + where + ` GROUP BY month ORDER BY month`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("Monthly: %w", err)
	}
	defer rows.Close()

	var buckets []domain.MonthBucket
	for rows.Next() {
		var (
			m  domain.MonthBucket
			ts time.Time
		)
		if err := rows.Scan(&ts, &m.Count, &m.Sum, &m.Avg, &m.Max, &m.Min); err != nil {
			return nil, fmt.Errorf("Monthly: scan: %w", err)
		}
		m.Year = ts.Year()
		m.Month = ts.Month()
		buckets = append(buckets, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Monthly: rows: %w", err)
	}
	return buckets, nil
}
