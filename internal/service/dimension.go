package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
	"github.com/mantasgo/portfolio-ledger/internal/logging"
)

type dimensionRepo interface {
	Create(ctx context.Context, d *domain.Dimension) error
	GetByOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Dimension, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, kind domain.EntryKind, role domain.DimensionRole) ([]domain.Dimension, error)
	UpdateLabel(ctx context.Context, id, ownerID uuid.UUID, label string) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

// DimensionService manages the descriptive labels entries are filtered by:
// income categories and sources, expenses categories and sellers.
type DimensionService struct {
	dimensions dimensionRepo
}

func NewDimensionService(dimensions dimensionRepo) *DimensionService {
	return &DimensionService{dimensions: dimensions}
}

func (s *DimensionService) CreateDimension(ctx context.Context, ownerID uuid.UUID, kind domain.EntryKind, role domain.DimensionRole, label string) (*domain.Dimension, error) {
	log := logging.FromContext(ctx)

	if !kind.IsValid() {
		return nil, fmt.Errorf("CreateDimension: %w", domain.ErrInvalidKind)
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("CreateDimension: %w", domain.ErrInvalidDimensionRole)
	}

	d := &domain.Dimension{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Kind:      kind,
		Role:      role,
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.dimensions.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("CreateDimension: %w", err)
	}

	log.Info("dimension created", "dimension_id", d.ID, "kind", d.Kind, "role", d.Role)
	return d, nil
}

func (s *DimensionService) ListDimensions(ctx context.Context, ownerID uuid.UUID, kind domain.EntryKind, role domain.DimensionRole) ([]domain.Dimension, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("ListDimensions: %w", domain.ErrInvalidKind)
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("ListDimensions: %w", domain.ErrInvalidDimensionRole)
	}
	dims, err := s.dimensions.ListByOwner(ctx, ownerID, kind, role)
	if err != nil {
		return nil, fmt.Errorf("ListDimensions: %w", err)
	}
	return dims, nil
}

func (s *DimensionService) RenameDimension(ctx context.Context, ownerID, id uuid.UUID, label string) (*domain.Dimension, error) {
	if err := s.dimensions.UpdateLabel(ctx, id, ownerID, label); err != nil {
		return nil, fmt.Errorf("RenameDimension: %w", err)
	}
	d, err := s.dimensions.GetByOwner(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("RenameDimension: %w", err)
	}
	return d, nil
}

// DeleteDimension removes the label; entries referencing it keep existing with
// the reference nulled.
func (s *DimensionService) DeleteDimension(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.dimensions.Delete(ctx, id, ownerID); err != nil {
		return fmt.Errorf("DeleteDimension: %w", err)
	}
	return nil
}
