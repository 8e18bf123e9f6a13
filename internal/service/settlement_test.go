package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tabmate/tabmate/internal/models"
	"github.com/tabmate/tabmate/internal/notify"
	"github.com/tabmate/tabmate/internal/storage/sqlite"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fixture wires real services over a temp sqlite store with three users
// in one group.
type fixture struct {
	store       *sqlite.Store
	group       *models.Group
	ledger      *LedgerService
	expenses    *ExpenseService
	settlements *SettlementService
	groups      *GroupService
	budgets     *BudgetService
	hub         *notify.Hub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for _, u := range []*models.User{
		{ID: "alice", Email: "alice@example.com", Name: "Alice", PasswordHash: "x"},
		{ID: "bob", Email: "bob@example.com", Name: "Bob", PasswordHash: "x"},
		{ID: "charlie", Email: "charlie@example.com", Name: "Charlie", PasswordHash: "x"},
	} {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}

	group := &models.Group{
		Name:      "Trip",
		CreatedBy: "alice",
		Members: []models.Membership{
			{UserID: "alice", Role: models.RoleAdmin},
			{UserID: "bob", Role: models.RoleMember},
			{UserID: "charlie", Role: models.RoleMember},
		},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	hub := notify.NewHub()
	ledger := NewLedgerService(store)
	return &fixture{
		store:       store,
		group:       group,
		ledger:      ledger,
		expenses:    NewExpenseService(store, hub, nil),
		settlements: NewSettlementService(store, ledger, hub),
		groups:      NewGroupService(store),
		budgets:     NewBudgetService(store, ledger),
		hub:         hub,
	}
}

func (f *fixture) addEqualExpense(t *testing.T, payer, amount string, users ...string) {
	t.Helper()
	splits := make([]models.Split, len(users))
	for i, u := range users {
		splits[i] = models.Split{UserID: u}
	}
	_, err := f.expenses.Create(context.Background(), f.group.ID, ExpenseInput{
		Description: "test expense",
		Amount:      dec(amount),
		PayerID:     payer,
		SplitType:   models.SplitEqual,
		Splits:      splits,
	}, payer)
	if err != nil {
		t.Fatalf("failed to create expense: %v", err)
	}
}

func TestRecordFullSettlement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Alice pays 100 (50/50), Bob pays 50 unequal {alice 20, bob 30}:
	// Bob owes Alice 30.
	f.addEqualExpense(t, "alice", "100.00", "alice", "bob")
	_, err := f.expenses.Create(ctx, f.group.ID, ExpenseInput{
		Amount:    dec("50.00"),
		PayerID:   "bob",
		SplitType: models.SplitUnequal,
		Splits: []models.Split{
			{UserID: "alice", Amount: dec("20.00")},
			{UserID: "bob", Amount: dec("30.00")},
		},
	}, "bob")
	if err != nil {
		t.Fatalf("failed to create unequal expense: %v", err)
	}

	res, err := f.settlements.Record(ctx, f.group.ID, "bob", "alice", dec("30.00"), "", "bob")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if res.WasPartial {
		t.Error("exact payment classified as partial")
	}
	if !res.RemainingDebt.IsZero() {
		t.Errorf("remaining = %s, want 0", res.RemainingDebt)
	}

	balances, err := f.ledger.GroupBalances(ctx, f.group.ID)
	if err != nil {
		t.Fatalf("GroupBalances failed: %v", err)
	}
	for _, mb := range balances {
		if !mb.Balance.IsZero() {
			t.Errorf("%s = %s after full settlement, want 0", mb.UserID, mb.Balance)
		}
	}
}

func TestRecordPartialSettlement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Bob owes Alice 100.
	f.addEqualExpense(t, "alice", "200.00", "alice", "bob")

	res, err := f.settlements.Record(ctx, f.group.ID, "bob", "alice", dec("40.00"), "first installment", "bob")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if !res.WasPartial {
		t.Error("expected partial classification")
	}
	if !res.RemainingDebt.Equal(dec("60")) {
		t.Errorf("remaining = %s, want 60", res.RemainingDebt)
	}
	if !res.Settlement.IsPartial {
		t.Error("stored flag should match classification")
	}

	// The stored flag is a creation-time snapshot: settling the rest
	// does not rewrite it.
	if _, err := f.settlements.Record(ctx, f.group.ID, "bob", "alice", dec("60.00"), "", "bob"); err != nil {
		t.Fatalf("second Record failed: %v", err)
	}
	list, err := f.settlements.List(ctx, f.group.ID, "alice")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var partials int
	for _, s := range list {
		if s.IsPartial {
			partials++
		}
	}
	if partials != 1 {
		t.Errorf("got %d partial settlements, want exactly the first one", partials)
	}
}

func TestRecordOverpaymentAllowed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Bob owes Alice 50; he pays 80. Accepted by policy, not partial,
	// and the pair's position flips.
	f.addEqualExpense(t, "alice", "100.00", "alice", "bob")

	res, err := f.settlements.Record(ctx, f.group.ID, "bob", "alice", dec("80.00"), "", "bob")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if res.WasPartial {
		t.Error("overpayment classified as partial")
	}
	if !res.RemainingDebt.IsZero() {
		t.Errorf("remaining = %s, want 0", res.RemainingDebt)
	}

	reverse, err := f.ledger.DebtBetween(ctx, f.group.ID, "alice", "bob")
	if err != nil {
		t.Fatalf("DebtBetween failed: %v", err)
	}
	if !reverse.Equal(dec("30")) {
		t.Errorf("reverse debt = %s, want 30", reverse)
	}
}

func TestRecordBoundaryGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Bob owes Alice exactly 50. A payment within half a cent of the
	// outstanding amount counts as full.
	f.addEqualExpense(t, "alice", "100.00", "alice", "bob")

	res, err := f.settlements.Record(ctx, f.group.ID, "bob", "alice", dec("49.999"), "", "bob")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if res.WasPartial {
		t.Error("payment within half-cent guard classified as partial")
	}
}

func TestRecordValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name         string
		payer, payee string
		amount       string
		createdBy    string
		wantAuthErr  bool
	}{
		{name: "payer equals payee", payer: "bob", payee: "bob", amount: "10", createdBy: "bob"},
		{name: "non-positive amount", payer: "bob", payee: "alice", amount: "0", createdBy: "bob"},
		{name: "negative amount", payer: "bob", payee: "alice", amount: "-5", createdBy: "bob"},
		{name: "payer outside group", payer: "mallory", payee: "alice", amount: "10", createdBy: "alice"},
		{name: "payee outside group", payer: "bob", payee: "mallory", amount: "10", createdBy: "bob"},
		{name: "recorder outside group", payer: "bob", payee: "alice", amount: "10", createdBy: "mallory", wantAuthErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.settlements.Record(ctx, f.group.ID, tt.payer, tt.payee, dec(tt.amount), "", tt.createdBy)
			if err == nil {
				t.Fatal("expected error")
			}
			var validation *models.ValidationError
			var authz *models.AuthorizationError
			if tt.wantAuthErr {
				if !errors.As(err, &authz) {
					t.Errorf("expected AuthorizationError, got %v", err)
				}
			} else if !errors.As(err, &validation) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}

	t.Run("unknown group", func(t *testing.T) {
		_, err := f.settlements.Record(ctx, "nope", "bob", "alice", dec("10"), "", "bob")
		var notFound *models.NotFoundError
		if !errors.As(err, &notFound) {
			t.Errorf("expected NotFoundError, got %v", err)
		}
	})
}

func TestRecordEmitsEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEqualExpense(t, "alice", "100.00", "alice", "bob")

	ch, cancel := f.hub.Subscribe(f.group.ID)
	defer cancel()

	if _, err := f.settlements.Record(ctx, f.group.ID, "bob", "alice", dec("50.00"), "", "bob"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	select {
	case ev := <-ch:
		if ev.Name != notify.EventSettlementCreated {
			t.Errorf("event = %s, want %s", ev.Name, notify.EventSettlementCreated)
		}
	default:
		t.Fatal("expected settlement.created event")
	}
}

func TestDeleteSettlementRevertsBalances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEqualExpense(t, "alice", "100.00", "alice", "bob")

	res, err := f.settlements.Record(ctx, f.group.ID, "bob", "alice", dec("50.00"), "", "bob")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if err := f.settlements.Delete(ctx, res.Settlement.ID, "bob"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	outstanding, err := f.ledger.DebtBetween(ctx, f.group.ID, "bob", "alice")
	if err != nil {
		t.Fatalf("DebtBetween failed: %v", err)
	}
	if !outstanding.Equal(dec("50")) {
		t.Errorf("debt after revert = %s, want 50", outstanding)
	}
}
