package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
)

const bankColumns = `id, owner_id, name, balance, investment, created_at`

type BankRepository struct {
	db *sql.DB
}

func NewBankRepository(db *sql.DB) *BankRepository {
	return &BankRepository{db: db}
}

func (r *BankRepository) Create(ctx context.Context, bank *domain.Bank) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO banks (id, owner_id, name, balance, investment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		bank.ID, bank.OwnerID, bank.Name, bank.Balance, bank.Investment, bank.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// GetByOwner scopes the lookup to the owner: another user's bank is reported
// as not found, never as forbidden.
func (r *BankRepository) GetByOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Bank, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bankColumns+` FROM banks WHERE id = $1 AND owner_id = $2`, id, ownerID,
	)
	b, err := scanBank(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByOwner: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByOwner: %w", err)
	}
	return b, nil
}

func (r *BankRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Bank, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bankColumns+` FROM banks WHERE owner_id = $1 ORDER BY name`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByOwner: %w", err)
	}
	defer rows.Close()

	var banks []domain.Bank
	for rows.Next() {
		b, err := scanBank(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByOwner: scan: %w", err)
		}
		banks = append(banks, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByOwner: rows: %w", err)
	}
	return banks, nil
}

// TotalsByOwner sums balance and investment across all of the owner's banks.
func (r *BankRepository) TotalsByOwner(ctx context.Context, ownerID uuid.UUID) (balance, investment decimal.Decimal, err error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(balance), 0), COALESCE(SUM(investment), 0)
		 FROM banks WHERE owner_id = $1`, ownerID,
	)
	if err := row.Scan(&balance, &investment); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("TotalsByOwner: %w", err)
	}
	return balance, investment, nil
}

// GetForUpdate locks the bank row for the remainder of the transaction.
func (r *BankRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id, ownerID uuid.UUID) (*domain.Bank, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+bankColumns+` FROM banks WHERE id = $1 AND owner_id = $2 FOR UPDATE`, id, ownerID,
	)
	b, err := scanBank(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return b, nil
}

func (r *BankRepository) UpdateBalances(ctx context.Context, tx *sql.Tx, id uuid.UUID, balance, investment decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE banks SET balance = $1, investment = $2 WHERE id = $3`,
		balance, investment, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalances: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBalances: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateBalances: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *BankRepository) UpdateName(ctx context.Context, id, ownerID uuid.UUID, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE banks SET name = $1 WHERE id = $2 AND owner_id = $3`,
		name, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("UpdateName: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateName: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateName: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes the bank; entries referencing it keep existing with a null
// bank link (ON DELETE SET NULL).
func (r *BankRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM banks WHERE id = $1 AND owner_id = $2`, id, ownerID,
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

func scanBank(s scanner) (*domain.Bank, error) {
	var b domain.Bank
	err := s.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Balance, &b.Investment, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
