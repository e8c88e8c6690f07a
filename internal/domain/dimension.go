package domain

import (
	"time"

	"github.com/google/uuid"
)

type DimensionRole string

const (
	RoleCategory     DimensionRole = "category"
	RoleCounterparty DimensionRole = "counterparty"
)

func (r DimensionRole) IsValid() bool {
	return r == RoleCategory || r == RoleCounterparty
}

// Dimension is a descriptive label used for filtering entries. One table covers
// the four original flavors: income categories, income sources (counterparty of
// an income entry), expenses categories and sellers (counterparty of an
// expenses entry). Dimensions carry no balance effect.
type Dimension struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Kind      EntryKind
	Role      DimensionRole
	Label     string
	CreatedAt time.Time
}
