package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
)

type entryRepo interface {
	Create(ctx context.Context, tx *sql.Tx, e *domain.Entry) error
	GetByOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Entry, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id, ownerID uuid.UUID) (*domain.Entry, error)
	UpdateFields(ctx context.Context, tx *sql.Tx, e *domain.Entry) error
	Delete(ctx context.Context, tx *sql.Tx, id, ownerID uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, kind domain.EntryKind, query string) ([]domain.Entry, error)
}

type bankRepo interface {
	GetByOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Bank, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id, ownerID uuid.UUID) (*domain.Bank, error)
	UpdateBalances(ctx context.Context, tx *sql.Tx, id uuid.UUID, balance, investment decimal.Decimal) error
}

type dimensionRepo interface {
	GetByOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Dimension, error)
}

// Service keeps bank balances consistent with the entry ledger: every create,
// update, and delete of an entry, and every transfer, mutates the affected
// bank rows in the same transaction under row-level locks.
type Service struct {
	entries    entryRepo
	banks      bankRepo
	dimensions dimensionRepo
	db         *sql.DB
}

func NewService(entries entryRepo, banks bankRepo, dimensions dimensionRepo, db *sql.DB) *Service {
	return &Service{
		entries:    entries,
		banks:      banks,
		dimensions: dimensions,
		db:         db,
	}
}

func (s *Service) GetEntry(ctx context.Context, ownerID, entryID uuid.UUID) (*domain.Entry, error) {
	e, err := s.entries.GetByOwner(ctx, entryID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("GetEntry: %w", err)
	}
	return e, nil
}

func (s *Service) ListEntries(ctx context.Context, ownerID uuid.UUID, kind domain.EntryKind, query string) ([]domain.Entry, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("ListEntries: %w", domain.ErrInvalidKind)
	}
	entries, err := s.entries.ListByOwner(ctx, ownerID, kind, query)
	if err != nil {
		return nil, fmt.Errorf("ListEntries: %w", err)
	}
	return entries, nil
}

// post applies a directional effect to the locked bank's balance and persists
// it. It is the only code path that moves a bank balance on behalf of entries,
// and it refuses any posting that would leave the balance negative.
func (s *Service) post(ctx context.Context, tx *sql.Tx, bank *domain.Bank, effect decimal.Decimal) error {
	newBalance := bank.Balance.Add(effect)
	if newBalance.IsNegative() {
		return fmt.Errorf("post: %w", domain.ErrInsufficientFunds)
	}
	bank.Balance = newBalance
	if err := s.banks.UpdateBalances(ctx, tx, bank.ID, bank.Balance, bank.Investment); err != nil {
		return fmt.Errorf("post: %w", err)
	}
	return nil
}

// lockBanksInOrder locks the given bank rows in deterministic UUID order so
// two operations touching the same pair cannot deadlock.
func lockBanksInOrder(ctx context.Context, tx *sql.Tx, banks bankRepo, ownerID uuid.UUID, ids ...uuid.UUID) (map[uuid.UUID]*domain.Bank, error) {
	seen := make(map[uuid.UUID]bool, len(ids))
	var sorted []uuid.UUID
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			sorted = append(sorted, id)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	result := make(map[uuid.UUID]*domain.Bank, len(sorted))
	for _, id := range sorted {
		bank, err := banks.GetForUpdate(ctx, tx, id, ownerID)
		if err != nil {
			return nil, fmt.Errorf("lockBanksInOrder: %w", err)
		}
		result[id] = bank
	}
	return result, nil
}
