package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
	"github.com/mantasgo/portfolio-ledger/internal/logging"
	"github.com/mantasgo/portfolio-ledger/internal/metrics"
)

// CreateEntry validates and persists a new entry, then applies its
// directional effect to the referenced bank. Entry row and balance change
// commit together or not at all. An entry without a bank has no balance
// effect.
func (s *Service) CreateEntry(ctx context.Context, ownerID uuid.UUID, kind domain.EntryKind, in EntryInput) (*domain.Entry, error) {
	log := logging.FromContext(ctx)

	if !kind.IsValid() {
		return nil, fmt.Errorf("CreateEntry: %w", domain.ErrInvalidKind)
	}
	if err := validateInput(in, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("CreateEntry: %w", err)
	}
	if err := s.validateReferences(ctx, ownerID, kind, in); err != nil {
		return nil, fmt.Errorf("CreateEntry: %w", err)
	}

	entry := &domain.Entry{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Kind:           kind,
		InputDate:      time.Now().UTC(),
		Date:           in.Date,
		Amount:         in.Amount,
		CategoryID:     in.CategoryID,
		CounterpartyID: in.CounterpartyID,
		BankID:         in.BankID,
		Notes:          in.Notes,
		DocumentPath:   in.DocumentPath,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("CreateEntry: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.entries.Create(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("CreateEntry: %w", err)
	}

	if entry.BankID != nil {
		bank, err := s.banks.GetForUpdate(ctx, tx, *entry.BankID, ownerID)
		if err != nil {
			return nil, fmt.Errorf("CreateEntry: bank: %w", err)
		}
		if err := s.post(ctx, tx, bank, entry.Effect()); err != nil {
			return nil, fmt.Errorf("CreateEntry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("CreateEntry: commit: %w", err)
	}

	metrics.PostingsTotal.WithLabelValues(string(kind), "create").Inc()
	log.Info("entry created",
		"entry_id", entry.ID,
		"kind", entry.Kind,
		"amount", entry.Amount,
	)
	return entry, nil
}

// UpdateEntry edits an entry and keeps the affected banks consistent: the old
// effect is reversed against the old bank before the new effect is applied to
// the new bank. The stored amount and bank are captured from the locked row
// before anything is overwritten, so the reversal can never see half-applied
// values. When old and new bank coincide the two postings run sequentially on
// the same locked row and net out to newAmount - oldAmount.
func (s *Service) UpdateEntry(ctx context.Context, ownerID, entryID uuid.UUID, in EntryInput) (*domain.Entry, error) {
	log := logging.FromContext(ctx)

	if err := validateInput(in, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("UpdateEntry: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("UpdateEntry: begin tx: %w", err)
	}
	defer tx.Rollback()

	entry, err := s.entries.GetForUpdate(ctx, tx, entryID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("UpdateEntry: %w", err)
	}

	if err := s.validateReferences(ctx, ownerID, entry.Kind, in); err != nil {
		return nil, fmt.Errorf("UpdateEntry: %w", err)
	}

	// Old effect captured before any field is touched.
	oldEffect := entry.Effect()
	oldBankID := entry.BankID

	var bankIDs []uuid.UUID
	if oldBankID != nil {
		bankIDs = append(bankIDs, *oldBankID)
	}
	if in.BankID != nil {
		bankIDs = append(bankIDs, *in.BankID)
	}
	locked, err := lockBanksInOrder(ctx, tx, s.banks, ownerID, bankIDs...)
	if err != nil {
		return nil, fmt.Errorf("UpdateEntry: %w", err)
	}

	if oldBankID != nil {
		if err := s.post(ctx, tx, locked[*oldBankID], oldEffect.Neg()); err != nil {
			return nil, fmt.Errorf("UpdateEntry: reverse old effect: %w", err)
		}
	}

	entry.Date = in.Date
	entry.Amount = in.Amount
	entry.CategoryID = in.CategoryID
	entry.CounterpartyID = in.CounterpartyID
	entry.BankID = in.BankID
	entry.Notes = in.Notes
	entry.DocumentPath = in.DocumentPath

	if in.BankID != nil {
		if err := s.post(ctx, tx, locked[*in.BankID], entry.Effect()); err != nil {
			return nil, fmt.Errorf("UpdateEntry: apply new effect: %w", err)
		}
	}

	if err := s.entries.UpdateFields(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("UpdateEntry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("UpdateEntry: commit: %w", err)
	}

	metrics.PostingsTotal.WithLabelValues(string(entry.Kind), "update").Inc()
	log.Info("entry updated",
		"entry_id", entry.ID,
		"kind", entry.Kind,
		"amount", entry.Amount,
	)
	return entry, nil
}

// DeleteEntry reverses the entry's effect on its bank and removes the row,
// both inside one transaction. A missing bank makes the reversal a no-op:
// there is nothing left to reverse against.
func (s *Service) DeleteEntry(ctx context.Context, ownerID, entryID uuid.UUID) error {
	log := logging.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("DeleteEntry: begin tx: %w", err)
	}
	defer tx.Rollback()

	entry, err := s.entries.GetForUpdate(ctx, tx, entryID, ownerID)
	if err != nil {
		return fmt.Errorf("DeleteEntry: %w", err)
	}

	if entry.BankID != nil {
		bank, err := s.banks.GetForUpdate(ctx, tx, *entry.BankID, ownerID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// Bank deleted between our entry read and the lock; the FK has
			// already nulled the reference, so skip the reversal.
		case err != nil:
			return fmt.Errorf("DeleteEntry: bank: %w", err)
		default:
			if err := s.post(ctx, tx, bank, entry.Effect().Neg()); err != nil {
				return fmt.Errorf("DeleteEntry: reverse effect: %w", err)
			}
		}
	}

	if err := s.entries.Delete(ctx, tx, entryID, ownerID); err != nil {
		return fmt.Errorf("DeleteEntry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("DeleteEntry: commit: %w", err)
	}

	metrics.PostingsTotal.WithLabelValues(string(entry.Kind), "delete").Inc()
	log.Info("entry deleted", "entry_id", entry.ID, "kind", entry.Kind)
	return nil
}
