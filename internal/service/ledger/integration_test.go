package ledger_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mantasgo/portfolio-ledger/internal/domain"
	"github.com/mantasgo/portfolio-ledger/internal/repository"
	"github.com/mantasgo/portfolio-ledger/internal/service/ledger"
	"github.com/mantasgo/portfolio-ledger/internal/testutil"
)

func setupLedgerService(t *testing.T, db *sql.DB) *ledger.Service {
	t.Helper()
	return ledger.NewService(
		repository.NewEntryRepository(db),
		repository.NewBankRepository(db),
		repository.NewDimensionRepository(db),
		db,
	)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func yesterday() time.Time {
	return time.Now().UTC().AddDate(0, 0, -1)
}

func TestEntryLifecycle_BalanceStaysConsistent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", "Owner")
	bank := testutil.SeedBank(t, db, owner.ID, "Main", dec("100"), dec("0"))

	entry, err := svc.CreateEntry(ctx, owner.ID, domain.KindIncome, ledger.EntryInput{
		Date:   yesterday(),
		Amount: dec("50"),
		BankID: &bank.ID,
	})
	require.NoError(t, err)
	balance, _ := testutil.GetBankBalances(t, db, bank.ID)
	requireAmount(t, "150", balance)

	// Shrinking the income reverses 50 and applies 20.
	_, err = svc.UpdateEntry(ctx, owner.ID, entry.ID, ledger.EntryInput{
		Date:   yesterday(),
		Amount: dec("20"),
		BankID: &bank.ID,
	})
	require.NoError(t, err)
	balance, _ = testutil.GetBankBalances(t, db, bank.ID)
	requireAmount(t, "120", balance)

	_, err = svc.UpdateEntry(ctx, owner.ID, entry.ID, ledger.EntryInput{
		Date:   yesterday(),
		Amount: dec("40"),
		BankID: &bank.ID,
	})
	require.NoError(t, err)
	balance, _ = testutil.GetBankBalances(t, db, bank.ID)
	requireAmount(t, "140", balance)

	require.NoError(t, svc.DeleteEntry(ctx, owner.ID, entry.ID))
	balance, _ = testutil.GetBankBalances(t, db, bank.ID)
	requireAmount(t, "100", balance)

	_, err = svc.CreateEntry(ctx, owner.ID, domain.KindExpenses, ledger.EntryInput{
		Date:   yesterday(),
		Amount: dec("10"),
		BankID: &bank.ID,
	})
	require.NoError(t, err)
	balance, _ = testutil.GetBankBalances(t, db, bank.ID)
	requireAmount(t, "90", balance)
}

func TestCreateEntry_ExpensesOverdraftRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", "Owner")
	bank := testutil.SeedBank(t, db, owner.ID, "Main", dec("30"), dec("0"))

	_, err := svc.CreateEntry(ctx, owner.ID, domain.KindExpenses, ledger.EntryInput{
		Date:   yesterday(),
		Amount: dec("30.01"),
		BankID: &bank.ID,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	balance, _ := testutil.GetBankBalances(t, db, bank.ID)
	requireAmount(t, "30", balance)
	assert.Equal(t, 0, testutil.CountEntries(t, db, owner.ID))
}

func TestCreateEntry_WithoutBankHasNoBalanceEffect(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", "Owner")
	bank := testutil.SeedBank(t, db, owner.ID, "Main", dec("100"), dec("0"))

	_, err := svc.CreateEntry(ctx, owner.ID, domain.KindExpenses, ledger.EntryInput{
		Date:   yesterday(),
		Amount: dec("9999"),
	})
	require.NoError(t, err)

	balance, _ := testutil.GetBankBalances(t, db, bank.ID)
	requireAmount(t, "100", balance)
}

func TestCreateEntry_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", "Owner")
	other := testutil.SeedUser(t, db, "other@test.com", "Other")
	otherBank := testutil.SeedBank(t, db, other.ID, "Theirs", dec("100"), dec("0"))
	expensesCat := testutil.SeedDimension(t, db, owner.ID, domain.KindExpenses, domain.RoleCategory, "Groceries")
	incomeSrc := testutil.SeedDimension(t, db, owner.ID, domain.KindIncome, domain.RoleCounterparty, "Employer")

	tests := []struct {
		name    string
		kind    domain.EntryKind
		in      ledger.EntryInput
		wantErr error
	}{
		{
			name:    "future date",
			kind:    domain.KindIncome,
			in:      ledger.EntryInput{Date: time.Now().UTC().AddDate(0, 0, 2), Amount: dec("10")},
			wantErr: domain.ErrFutureDate,
		},
		{
			name:    "negative amount",
			kind:    domain.KindIncome,
			in:      ledger.EntryInput{Date: yesterday(), Amount: dec("-5")},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "invalid kind",
			kind:    domain.EntryKind("savings"),
			in:      ledger.EntryInput{Date: yesterday(), Amount: dec("10")},
			wantErr: domain.ErrInvalidKind,
		},
		{
			name:    "another owner's bank reads as not found",
			kind:    domain.KindIncome,
			in:      ledger.EntryInput{Date: yesterday(), Amount: dec("10"), BankID: &otherBank.ID},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "expenses category on income entry",
			kind:    domain.KindIncome,
			in:      ledger.EntryInput{Date: yesterday(), Amount: dec("10"), CategoryID: &expensesCat.ID},
			wantErr: domain.ErrDimensionKindMismatch,
		},
		{
			name:    "counterparty used as category",
			kind:    domain.KindIncome,
			in:      ledger.EntryInput{Date: yesterday(), Amount: dec("10"), CategoryID: &incomeSrc.ID},
			wantErr: domain.ErrInvalidDimensionRole,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateEntry(ctx, owner.ID, tc.kind, tc.in)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	assert.Equal(t, 0, testutil.CountEntries(t, db, owner.ID))
}

func TestUpdateEntry_NoopLeavesBalanceUntouched(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", "Owner")
	bank := testutil.SeedBank(t, db, owner.ID, "Main", dec("100"), dec("0"))

	in := ledger.EntryInput{Date: yesterday(), Amount: dec("25"), BankID: &bank.ID, Notes: "rent"}
	entry, err := svc.CreateEntry(ctx, owner.ID, domain.KindExpenses, in)
	require.NoError(t, err)

	_, err = svc.UpdateEntry(ctx, owner.ID, entry.ID, in)
	require.NoError(t, err)

	balance, _ := testutil.GetBankBalances(t, db, bank.ID)
	requireAmount(t, "75", balance)
}

func TestUpdateEntry_MovesEffectBetweenBanks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", "Owner")
	bankA := testutil.SeedBank(t, db, owner.ID, "A", dec("100"), dec("0"))
	bankB := testutil.SeedBank(t, db, owner.ID, "B", dec("100"), dec("0"))

	entry, err := svc.CreateEntry(ctx, owner.ID, domain.KindIncome, ledger.EntryInput{
		Date:   yesterday(),
		Amount: dec("40"),
		BankID: &bankA.ID,
	})
	require.NoError(t, err)

	_, err = svc.UpdateEntry(ctx, owner.ID, entry.ID, ledger.EntryInput{
		Date:   yesterday(),
		Amount: dec("40"),
		BankID: &bankB.ID,
	})
	require.NoError(t, err)

	balanceA, _ := testutil.GetBankBalances(t, db, bankA.ID)
	balanceB, _ := testutil.GetBankBalances(t, db, bankB.ID)
	requireAmount(t, "100", balanceA)
	requireAmount(t, "140", balanceB)
}

func TestUpdateEntry_ReversalOverdraftRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", "Owner")
	bank := testutil.SeedBank(t, db, owner.ID, "Main", dec("0"), dec("0"))

	entry, err := svc.CreateEntry(ctx, owner.ID, domain.KindIncome, ledger.EntryInput{
		Date:   yesterday(),
		Amount: dec("50"),
		BankID: &bank.ID,
	})
	require.NoError(t, err)

	// The income was already spent down out of band; reversing it would go
	// negative, so the update must fail and leave everything in place.
	_, err = db.Exec(`UPDATE banks SET balance = 10 WHERE id = $1`, bank.ID)
	require.NoError(t, err)

	_, err = svc.UpdateEntry(ctx, owner.ID, entry.ID, ledger.EntryInput{
		Date:   yesterday(),
		Amount: dec("5"),
		BankID: &bank.ID,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	balance, _ := testutil.GetBankBalances(t, db, bank.ID)
	requireAmount(t, "10", balance)

	got, err := svc.GetEntry(ctx, owner.ID, entry.ID)
	require.NoError(t, err)
	requireAmount(t, "50", got.Amount)
}

func TestDeleteEntry_CrossOwnerIsNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", "Owner")
	other := testutil.SeedUser(t, db, "other@test.com", "Other")
	bank := testutil.SeedBank(t, db, owner.ID, "Main", dec("100"), dec("0"))

	entry, err := svc.CreateEntry(ctx, owner.ID, domain.KindIncome, ledger.EntryInput{
		Date:   yesterday(),
		Amount: dec("10"),
		BankID: &bank.ID,
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteEntry(ctx, other.ID, entry.ID), domain.ErrNotFound)
	assert.Equal(t, 1, testutil.CountEntries(t, db, owner.ID))
}

func TestDeleteEntry_DanglingBankSkipsReversal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", "Owner")
	bank := testutil.SeedBank(t, db, owner.ID, "Doomed", dec("100"), dec("0"))

	entry, err := svc.CreateEntry(ctx, owner.ID, domain.KindIncome, ledger.EntryInput{
		Date:   yesterday(),
		Amount: dec("10"),
		BankID: &bank.ID,
	})
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM banks WHERE id = $1`, bank.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntry(ctx, owner.ID, entry.ID))
	assert.Equal(t, 0, testutil.CountEntries(t, db, owner.ID))
}

func TestTransferWithinBank(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", "Owner")
	bank := testutil.SeedBank(t, db, owner.ID, "Main", dec("200"), dec("0"))

	got, err := svc.TransferWithinBank(ctx, owner.ID, bank.ID, domain.SideBalance, domain.SideInvestment, dec("50"))
	require.NoError(t, err)
	requireAmount(t, "150", got.Balance)
	requireAmount(t, "50", got.Investment)

	balance, investment := testutil.GetBankBalances(t, db, bank.ID)
	requireAmount(t, "150", balance)
	requireAmount(t, "50", investment)

	// Back the other way.
	got, err = svc.TransferWithinBank(ctx, owner.ID, bank.ID, domain.SideInvestment, domain.SideBalance, dec("20"))
	require.NoError(t, err)
	requireAmount(t, "170", got.Balance)
	requireAmount(t, "30", got.Investment)
}

func TestTransferWithinBank_Rejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", "Owner")
	bank := testutil.SeedBank(t, db, owner.ID, "Main", dec("200"), dec("0"))

	tests := []struct {
		name    string
		from    domain.AccountSide
		to      domain.AccountSide
		amount  decimal.Decimal
		wantErr error
	}{
		{"same side", domain.SideBalance, domain.SideBalance, dec("10"), domain.ErrSameAccount},
		{"unknown side", domain.AccountSide("savings"), domain.SideBalance, dec("10"), domain.ErrInvalidAccountSide},
		{"negative amount", domain.SideBalance, domain.SideInvestment, dec("-10"), domain.ErrInvalidAmount},
		{"insufficient funds", domain.SideBalance, domain.SideInvestment, dec("200.01"), domain.ErrInsufficientFunds},
		{"empty investment side", domain.SideInvestment, domain.SideBalance, dec("0.01"), domain.ErrInsufficientFunds},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.TransferWithinBank(ctx, owner.ID, bank.ID, tc.from, tc.to, tc.amount)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}

	balance, investment := testutil.GetBankBalances(t, db, bank.ID)
	requireAmount(t, "200", balance)
	requireAmount(t, "0", investment)
}

func TestTransferBetweenBanks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", "Owner")
	bankA := testutil.SeedBank(t, db, owner.ID, "A", dec("500"), dec("0"))
	bankB := testutil.SeedBank(t, db, owner.ID, "B", dec("100"), dec("0"))

	from, to, err := svc.TransferBetweenBanks(ctx, owner.ID, bankA.ID, bankB.ID, dec("500"))
	require.NoError(t, err)
	requireAmount(t, "0", from.Balance)
	requireAmount(t, "600", to.Balance)

	// The source is drained; even a cent more must fail and change nothing.
	_, _, err = svc.TransferBetweenBanks(ctx, owner.ID, bankA.ID, bankB.ID, dec("0.01"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	balanceA, _ := testutil.GetBankBalances(t, db, bankA.ID)
	balanceB, _ := testutil.GetBankBalances(t, db, bankB.ID)
	requireAmount(t, "0", balanceA)
	requireAmount(t, "600", balanceB)
}

func TestTransferBetweenBanks_Rejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", "Owner")
	other := testutil.SeedUser(t, db, "other@test.com", "Other")
	bankA := testutil.SeedBank(t, db, owner.ID, "A", dec("500"), dec("0"))
	otherBank := testutil.SeedBank(t, db, other.ID, "Theirs", dec("100"), dec("0"))

	_, _, err := svc.TransferBetweenBanks(ctx, owner.ID, bankA.ID, bankA.ID, dec("10"))
	require.ErrorIs(t, err, domain.ErrSameBank)

	_, _, err = svc.TransferBetweenBanks(ctx, owner.ID, bankA.ID, otherBank.ID, dec("10"))
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = svc.TransferBetweenBanks(ctx, owner.ID, bankA.ID, uuid.New(), dec("10"))
	require.ErrorIs(t, err, domain.ErrNotFound)

	balanceA, _ := testutil.GetBankBalances(t, db, bankA.ID)
	requireAmount(t, "500", balanceA)
}

func TestCreateEntry_ConcurrentOverdraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupLedgerService(t, db)
	ctx := context.Background()

	owner := testutil.SeedUser(t, db, "owner@test.com", "Owner")
	bank := testutil.SeedBank(t, db, owner.ID, "Main", dec("100"), dec("0"))

	// Ten concurrent 30-unit expenses against a 100 balance: at most three can
	// commit, and the balance must never dip below zero.
	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateEntry(ctx, owner.ID, domain.KindExpenses, ledger.EntryInput{
				Date:   yesterday(),
				Amount: dec("30"),
				BankID: &bank.ID,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, domain.ErrInsufficientFunds)
		}
	}
	assert.Equal(t, 3, succeeded)

	balance, _ := testutil.GetBankBalances(t, db, bank.ID)
	requireAmount(t, "10", balance)
	assert.Equal(t, 3, testutil.CountEntries(t, db, owner.ID))
}
