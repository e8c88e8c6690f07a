package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
)

const entryColumns = `e.id, e.owner_id, e.kind, e.input_date, e.date, e.amount,
	e.category_id, e.counterparty_id, e.bank_id, e.notes, e.document_path`

type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create inserts the entry inside the caller's transaction so the row and its
// balance posting commit or roll back together.
func (r *EntryRepository) Create(ctx context.Context, tx *sql.Tx, e *domain.Entry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO entries (
			id, owner_id, kind, input_date, date, amount,
			category_id, counterparty_id, bank_id, notes, document_path
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.OwnerID, e.Kind, e.InputDate, e.Date, e.Amount,
		e.CategoryID, e.CounterpartyID, e.BankID, e.Notes, e.DocumentPath,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *EntryRepository) GetByOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries e WHERE e.id = $1 AND e.owner_id = $2`, id, ownerID,
	)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByOwner: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByOwner: %w", err)
	}
	return e, nil
}

// GetForUpdate locks the entry row so the stored amount and bank cannot change
// underneath an update or delete while its reversal is being computed.
func (r *EntryRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id, ownerID uuid.UUID) (*domain.Entry, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries e
		 WHERE e.id = $1 AND e.owner_id = $2 FOR UPDATE`, id, ownerID,
	)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return e, nil
}

// UpdateFields persists the mutable fields of an entry. input_date is
// deliberately left out: it is set once at creation.
func (r *EntryRepository) UpdateFields(ctx context.Context, tx *sql.Tx, e *domain.Entry) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE entries SET
			date = $1, amount = $2, category_id = $3, counterparty_id = $4,
			bank_id = $5, notes = $6, document_path = $7
		 WHERE id = $8 AND owner_id = $9`,
		e.Date, e.Amount, e.CategoryID, e.CounterpartyID,
		e.BankID, e.Notes, e.DocumentPath,
		e.ID, e.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("UpdateFields: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateFields: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateFields: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, tx *sql.Tx, id, ownerID uuid.UUID) error {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM entries WHERE id = $1 AND owner_id = $2`, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// ListByOwner returns the owner's entries of one kind, newest receipt date
// first. A non-empty query string narrows the list to entries where any of the
// category label, counterparty label, amount text, notes, or bank name
// contains the query, case-insensitively.
func (r *EntryRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, kind domain.EntryKind, query string) ([]domain.Entry, error) {
	q := `SELECT ` + entryColumns + ` FROM entries e
		LEFT JOIN dimensions cat ON cat.id = e.category_id
		LEFT JOIN dimensions cp ON cp.id = e.counterparty_id
		LEFT JOIN banks b ON b.id = e.bank_id
		WHERE e.owner_id = $1 AND e.kind = $2`
	args := []any{ownerID, kind}

	if query != "" {
		q += ` AND (cat.label ILIKE $3 OR cp.label ILIKE $3 OR e.amount::text ILIKE $3
			OR e.notes ILIKE $3 OR b.name ILIKE $3)`
		args = append(args, "%"+query+"%")
	}
	q += ` ORDER BY e.date DESC, e.input_date DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("ListByOwner: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByOwner: scan: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByOwner: rows: %w", err)
	}
	return entries, nil
}

func scanEntry(s scanner) (*domain.Entry, error) {
	var (
		e            domain.Entry
		category     uuid.NullUUID
		counterparty uuid.NullUUID
		bank         uuid.NullUUID
		document     sql.NullString
	)
	err := s.Scan(
		&e.ID, &e.OwnerID, &e.Kind, &e.InputDate, &e.Date, &e.Amount,
		&category, &counterparty, &bank, &e.Notes, &document,
	)
	if err != nil {
		return nil, err
	}
	if category.Valid {
		e.CategoryID = &category.UUID
	}
	if counterparty.Valid {
		e.CounterpartyID = &counterparty.UUID
	}
	if bank.Valid {
		e.BankID = &bank.UUID
	}
	if document.Valid {
		e.DocumentPath = &document.String
	}
	return &e, nil
}
