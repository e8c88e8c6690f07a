package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
	"github.com/mantasgo/portfolio-ledger/internal/logging"
	"github.com/mantasgo/portfolio-ledger/internal/metrics"
)

// TransferWithinBank moves funds between the balance and investment sides of
// one bank. The debit and credit happen on a single locked row.
func (s *Service) TransferWithinBank(ctx context.Context, ownerID, bankID uuid.UUID, from, to domain.AccountSide, amount decimal.Decimal) (*domain.Bank, error) {
	log := logging.FromContext(ctx)

	if !from.IsValid() || !to.IsValid() {
		return nil, fmt.Errorf("TransferWithinBank: %w", domain.ErrInvalidAccountSide)
	}
	if from == to {
		return nil, fmt.Errorf("TransferWithinBank: %w", domain.ErrSameAccount)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("TransferWithinBank: %w", domain.ErrInvalidAmount)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("TransferWithinBank: begin tx: %w", err)
	}
	defer tx.Rollback()

	bank, err := s.banks.GetForUpdate(ctx, tx, bankID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("TransferWithinBank: %w", err)
	}

	if bank.Side(from).LessThan(amount) {
		return nil, fmt.Errorf("TransferWithinBank: %w", domain.ErrInsufficientFunds)
	}

	if from == domain.SideBalance {
		bank.Balance = bank.Balance.Sub(amount)
		bank.Investment = bank.Investment.Add(amount)
	} else {
		bank.Investment = bank.Investment.Sub(amount)
		bank.Balance = bank.Balance.Add(amount)
	}

	if err := s.banks.UpdateBalances(ctx, tx, bank.ID, bank.Balance, bank.Investment); err != nil {
		return nil, fmt.Errorf("TransferWithinBank: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("TransferWithinBank: commit: %w", err)
	}

	metrics.TransfersTotal.WithLabelValues("within_bank").Inc()
	log.Info("funds transferred within bank",
		"bank_id", bank.ID,
		"from", from,
		"to", to,
		"amount", amount,
	)
	return bank, nil
}

// TransferBetweenBanks moves funds from one bank's balance to another's. Both
// rows are locked in deterministic order and updated in the same transaction.
func (s *Service) TransferBetweenBanks(ctx context.Context, ownerID, fromBankID, toBankID uuid.UUID, amount decimal.Decimal) (*domain.Bank, *domain.Bank, error) {
	log := logging.FromContext(ctx)

	if fromBankID == toBankID {
		return nil, nil, fmt.Errorf("TransferBetweenBanks: %w", domain.ErrSameBank)
	}
	if amount.IsNegative() {
		return nil, nil, fmt.Errorf("TransferBetweenBanks: %w", domain.ErrInvalidAmount)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("TransferBetweenBanks: begin tx: %w", err)
	}
	defer tx.Rollback()

	locked, err := lockBanksInOrder(ctx, tx, s.banks, ownerID, fromBankID, toBankID)
	if err != nil {
		return nil, nil, fmt.Errorf("TransferBetweenBanks: %w", err)
	}
	from, to := locked[fromBankID], locked[toBankID]

	if from.Balance.LessThan(amount) {
		return nil, nil, fmt.Errorf("TransferBetweenBanks: %w", domain.ErrInsufficientFunds)
	}

	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)

	if err := s.banks.UpdateBalances(ctx, tx, from.ID, from.Balance, from.Investment); err != nil {
		return nil, nil, fmt.Errorf("TransferBetweenBanks: debit: %w", err)
	}
	if err := s.banks.UpdateBalances(ctx, tx, to.ID, to.Balance, to.Investment); err != nil {
		return nil, nil, fmt.Errorf("TransferBetweenBanks: credit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("TransferBetweenBanks: commit: %w", err)
	}

	metrics.TransfersTotal.WithLabelValues("between_banks").Inc()
	log.Info("funds transferred between banks",
		"from_bank", from.ID,
		"to_bank", to.ID,
		"amount", amount,
	)
	return from, to, nil
}
