package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryFilter is the compiled form of a user's search criteria. Every field
// except Kind is optional; criteria are conjoined onto the implicit owner
// scope. Start and End are inclusive receipt-date bounds.
type EntryFilter struct {
	Kind           EntryKind
	Start          time.Time
	End            time.Time
	CategoryID     *uuid.UUID
	CounterpartyID *uuid.UUID
	BankID         *uuid.UUID

	// Keywords are ANDed together; each keyword matches if any of the
	// category label, counterparty label, amount text, notes, or bank name
	// contains it, case-insensitively.
	Keywords []string
}

// Stats summarizes one filtered entry set. An empty set reports zeros for
// every field, never nulls.
type Stats struct {
	Count int64
	Sum   decimal.Decimal
	Avg   decimal.Decimal
	Max   decimal.Decimal
	Min   decimal.Decimal
}

// MonthBucket holds amount statistics for one calendar month of receipt dates.
type MonthBucket struct {
	Year  int
	Month time.Month
	Count int64
	Sum   decimal.Decimal
	Avg   decimal.Decimal
	Max   decimal.Decimal
	Min   decimal.Decimal
}
