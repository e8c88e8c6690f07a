package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
	"github.com/mantasgo/portfolio-ledger/internal/logging"
)

type bankRepo interface {
	Create(ctx context.Context, bank *domain.Bank) error
	GetByOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Bank, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Bank, error)
	TotalsByOwner(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, decimal.Decimal, error)
	UpdateName(ctx context.Context, id, ownerID uuid.UUID, name string) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

type BankService struct {
	banks bankRepo
}

func NewBankService(banks bankRepo) *BankService {
	return &BankService{banks: banks}
}

// BankOverview is the owner's bank list with balance and investment summed
// across all banks.
type BankOverview struct {
	Banks           []domain.Bank
	TotalBalance    decimal.Decimal
	TotalInvestment decimal.Decimal
}

func (s *BankService) CreateBank(ctx context.Context, ownerID uuid.UUID, name string, balance, investment decimal.Decimal) (*domain.Bank, error) {
	log := logging.FromContext(ctx)

	if balance.IsNegative() || investment.IsNegative() {
		return nil, fmt.Errorf("CreateBank: %w", domain.ErrInvalidAmount)
	}

	bank := &domain.Bank{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Name:       name,
		Balance:    balance,
		Investment: investment,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.banks.Create(ctx, bank); err != nil {
		return nil, fmt.Errorf("CreateBank: %w", err)
	}

	log.Info("bank created", "bank_id", bank.ID, "name", bank.Name)
	return bank, nil
}

func (s *BankService) GetBank(ctx context.Context, ownerID, bankID uuid.UUID) (*domain.Bank, error) {
	bank, err := s.banks.GetByOwner(ctx, bankID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("GetBank: %w", err)
	}
	return bank, nil
}

func (s *BankService) ListBanks(ctx context.Context, ownerID uuid.UUID) (*BankOverview, error) {
	banks, err := s.banks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ListBanks: %w", err)
	}
	balance, investment, err := s.banks.TotalsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ListBanks: %w", err)
	}
	return &BankOverview{
		Banks:           banks,
		TotalBalance:    balance.Round(2),
		TotalInvestment: investment.Round(2),
	}, nil
}

func (s *BankService) RenameBank(ctx context.Context, ownerID, bankID uuid.UUID, name string) (*domain.Bank, error) {
	if err := s.banks.UpdateName(ctx, bankID, ownerID, name); err != nil {
		return nil, fmt.Errorf("RenameBank: %w", err)
	}
	bank, err := s.banks.GetByOwner(ctx, bankID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("RenameBank: %w", err)
	}
	return bank, nil
}

// DeleteBank removes the bank. Entries referencing it survive with a dangling
// (nulled) bank link; their history is not rewritten.
func (s *BankService) DeleteBank(ctx context.Context, ownerID, bankID uuid.UUID) error {
	log := logging.FromContext(ctx)

	if err := s.banks.Delete(ctx, bankID, ownerID); err != nil {
		return fmt.Errorf("DeleteBank: %w", err)
	}

	log.Info("bank deleted", "bank_id", bankID)
	return nil
}
