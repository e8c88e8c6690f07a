package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
)

const dimensionColumns = `id, owner_id, kind, role, label, created_at`

type DimensionRepository struct {
	db *sql.DB
}

func NewDimensionRepository(db *sql.DB) *DimensionRepository {
	return &DimensionRepository{db: db}
}

func (r *DimensionRepository) Create(ctx context.Context, d *domain.Dimension) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO dimensions (id, owner_id, kind, role, label, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.OwnerID, d.Kind, d.Role, d.Label, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *DimensionRepository) GetByOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Dimension, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+dimensionColumns+` FROM dimensions WHERE id = $1 AND owner_id = $2`, id, ownerID,
	)
	d, err := scanDimension(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByOwner: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByOwner: %w", err)
	}
	return d, nil
}

func (r *DimensionRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, kind domain.EntryKind, role domain.DimensionRole) ([]domain.Dimension, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+dimensionColumns+` FROM dimensions
		 WHERE owner_id = $1 AND kind = $2 AND role = $3 ORDER BY label`,
		ownerID, kind, role,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByOwner: %w", err)
	}
	defer rows.Close()

	var dims []domain.Dimension
	for rows.Next() {
		d, err := scanDimension(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByOwner: scan: %w", err)
		}
		dims = append(dims, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByOwner: rows: %w", err)
	}
	return dims, nil
}

func (r *DimensionRepository) UpdateLabel(ctx context.Context, id, ownerID uuid.UUID, label string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE dimensions SET label = $1 WHERE id = $2 AND owner_id = $3`,
		label, id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("UpdateLabel: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateLabel: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateLabel: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *DimensionRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM dimensions WHERE id = $1 AND owner_id = $2`, id, ownerID,
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

func scanDimension(s scanner) (*domain.Dimension, error) {
	var d domain.Dimension
	err := s.Scan(&d.ID, &d.OwnerID, &d.Kind, &d.Role, &d.Label, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
