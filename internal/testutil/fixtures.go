package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
)

func SeedUser(t *testing.T, db *sql.DB, email, name string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, email, name, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func SeedBank(t *testing.T, db *sql.DB, ownerID uuid.UUID, name string, balance, investment decimal.Decimal) *domain.Bank {
	t.Helper()

	b := &domain.Bank{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Name:       name,
		Balance:    balance,
		Investment: investment,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO banks (id, owner_id, name, balance, investment, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.OwnerID, b.Name, b.Balance, b.Investment, b.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed bank %s: %v", name, err)
	}
	return b
}

func SeedDimension(t *testing.T, db *sql.DB, ownerID uuid.UUID, kind domain.EntryKind, role domain.DimensionRole, label string) *domain.Dimension {
	t.Helper()

	d := &domain.Dimension{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Kind:      kind,
		Role:      role,
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO dimensions (id, owner_id, kind, role, label, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.OwnerID, d.Kind, d.Role, d.Label, d.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed dimension %s: %v", label, err)
	}
	return d
}

// SeedEntry inserts an entry row directly, bypassing the balance engine. Use
// it for report tests where balances do not matter.
func SeedEntry(t *testing.T, db *sql.DB, e *domain.Entry) *domain.Entry {
	t.Helper()

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.InputDate.IsZero() {
		e.InputDate = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO entries (id, owner_id, kind, input_date, date, amount, category_id, counterparty_id, bank_id, notes, document_path)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.OwnerID, e.Kind, e.InputDate, e.Date, e.Amount,
		e.CategoryID, e.CounterpartyID, e.BankID, e.Notes, e.DocumentPath,
	)
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	return e
}

func GetBankBalances(t *testing.T, db *sql.DB, bankID uuid.UUID) (decimal.Decimal, decimal.Decimal) {
	t.Helper()

	var balance, investment decimal.Decimal
	err := db.QueryRow(`SELECT balance, investment FROM banks WHERE id = $1`, bankID).
		Scan(&balance, &investment)
	if err != nil {
		t.Fatalf("get bank balances %s: %v", bankID, err)
	}
	return balance, investment
}

func CountEntries(t *testing.T, db *sql.DB, ownerID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM entries WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		t.Fatalf("count entries for owner %s: %v", ownerID, err)
	}
	return count
}
