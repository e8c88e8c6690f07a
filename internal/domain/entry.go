package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	KindIncome   EntryKind = "income"
	KindExpenses EntryKind = "expenses"
)

func (k EntryKind) IsValid() bool {
	return k == KindIncome || k == KindExpenses
}

// Direction is the sign an entry of this kind applies to its bank balance.
// Amounts themselves are always non-negative; only the kind carries direction.
func (k EntryKind) Direction() decimal.Decimal {
	if k == KindExpenses {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// Entry is one income or expenses ledger line. Income and expenses share one
// structure; CategoryID and CounterpartyID point at dimensions of the matching
// kind (counterparty means source for income, seller for expenses).
type Entry struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Kind           EntryKind
	InputDate      time.Time // set once at creation, never updated
	Date           time.Time // receipt date, never after today
	Amount         decimal.Decimal
	CategoryID     *uuid.UUID
	CounterpartyID *uuid.UUID
	BankID         *uuid.UUID
	Notes          string
	DocumentPath   *string
}

// Effect is the entry's directional effect on its bank balance.
func (e *Entry) Effect() decimal.Decimal {
	return e.Amount.Mul(e.Kind.Direction())
}
