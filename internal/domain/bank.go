package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountSide selects one of the two balances a bank holds.
type AccountSide string

const (
	SideBalance    AccountSide = "balance"
	SideInvestment AccountSide = "investment"
)

func (s AccountSide) IsValid() bool {
	return s == SideBalance || s == SideInvestment
}

// Bank is one bank account owned by a single user. Balance reflects the net
// directional effect of all live entries and transfers posted against it;
// neither Balance nor Investment may go negative through any committed operation.
type Bank struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Name       string
	Balance    decimal.Decimal
	Investment decimal.Decimal
	CreatedAt  time.Time
}

// Side returns the named balance of the bank.
func (b *Bank) Side(s AccountSide) decimal.Decimal {
	if s == SideInvestment {
		return b.Investment
	}
	return b.Balance
}
