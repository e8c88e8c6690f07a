package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
)

// EntryInput carries the user-supplied fields of an entry. The kind is fixed
// at creation; updates keep the stored kind.
type EntryInput struct {
	Date           time.Time
	Amount         decimal.Decimal
	CategoryID     *uuid.UUID
	CounterpartyID *uuid.UUID
	BankID         *uuid.UUID
	Notes          string
	DocumentPath   *string
}

// validateInput checks the field-level rules: non-negative amount and a
// receipt date no later than today. All validation runs before any write.
func validateInput(in EntryInput, now time.Time) error {
	if in.Amount.IsNegative() {
		return fmt.Errorf("validateInput: %w", domain.ErrInvalidAmount)
	}
	if afterToday(in.Date, now) {
		return fmt.Errorf("validateInput: %w", domain.ErrFutureDate)
	}
	return nil
}

// afterToday compares calendar dates, ignoring the time of day.
func afterToday(d, now time.Time) bool {
	y, m, day := now.Date()
	endOfToday := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	dy, dm, dd := d.Date()
	return time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC).After(endOfToday)
}

// validateReferences confirms that every referenced dimension belongs to the
// owner, plays the expected role, and matches the entry kind. Cross-owner
// references surface as not found. The bank reference is checked by the
// caller, which needs the bank row anyway.
func (s *Service) validateReferences(ctx context.Context, ownerID uuid.UUID, kind domain.EntryKind, in EntryInput) error {
	if in.CategoryID != nil {
		if err := s.checkDimension(ctx, ownerID, *in.CategoryID, kind, domain.RoleCategory); err != nil {
			return fmt.Errorf("validateReferences: category: %w", err)
		}
	}
	if in.CounterpartyID != nil {
		if err := s.checkDimension(ctx, ownerID, *in.CounterpartyID, kind, domain.RoleCounterparty); err != nil {
			return fmt.Errorf("validateReferences: counterparty: %w", err)
		}
	}
	return nil
}

func (s *Service) checkDimension(ctx context.Context, ownerID, id uuid.UUID, kind domain.EntryKind, role domain.DimensionRole) error {
	d, err := s.dimensions.GetByOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if d.Role != role {
		return domain.ErrInvalidDimensionRole
	}
	if d.Kind != kind {
		return domain.ErrDimensionKindMismatch
	}
	return nil
}
