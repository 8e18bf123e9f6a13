package service

import (
	"context"
	"testing"

	"github.com/tabmate/tabmate/internal/models"
)

func TestGroupBalancesThreePartyOptimization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Alice pays 300 split equally among the three.
	f.addEqualExpense(t, "alice", "300.00", "alice", "bob", "charlie")

	balances, err := f.ledger.GroupBalances(ctx, f.group.ID)
	if err != nil {
		t.Fatalf("GroupBalances failed: %v", err)
	}
	want := map[string]string{"alice": "200", "bob": "-100", "charlie": "-100"}
	if len(balances) != 3 {
		t.Fatalf("got %d balances, want 3", len(balances))
	}
	for _, mb := range balances {
		if !mb.Balance.Equal(dec(want[mb.UserID])) {
			t.Errorf("%s = %s, want %s", mb.UserID, mb.Balance, want[mb.UserID])
		}
		if mb.Name == "" {
			t.Errorf("%s missing display name", mb.UserID)
		}
	}

	suggestions, err := f.ledger.SuggestSettlements(ctx, f.group.ID)
	if err != nil {
		t.Fatalf("SuggestSettlements failed: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2: %+v", len(suggestions), suggestions)
	}
	// Bob and Charlie tie as most-negative; roster order puts Bob first.
	if suggestions[0].From != "bob" || suggestions[0].To != "alice" || !suggestions[0].Amount.Equal(dec("100")) {
		t.Errorf("first suggestion = %+v, want bob->alice 100", suggestions[0])
	}
	if suggestions[1].From != "charlie" || suggestions[1].To != "alice" || !suggestions[1].Amount.Equal(dec("100")) {
		t.Errorf("second suggestion = %+v, want charlie->alice 100", suggestions[1])
	}
}

func TestGroupBalancesIncludeFormerMembers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEqualExpense(t, "charlie", "90.00", "alice", "bob", "charlie")
	if err := f.groups.RemoveMember(ctx, f.group.ID, "charlie", "alice"); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	balances, err := f.ledger.GroupBalances(ctx, f.group.ID)
	if err != nil {
		t.Fatalf("GroupBalances failed: %v", err)
	}
	var charlie *MemberBalance
	for i := range balances {
		if balances[i].UserID == "charlie" {
			charlie = &balances[i]
		}
	}
	if charlie == nil {
		t.Fatal("former member missing from balances")
	}
	if !charlie.Balance.Equal(dec("60")) {
		t.Errorf("charlie = %s, want 60", charlie.Balance)
	}
}

func TestGroupBalancesUnknownGroup(t *testing.T) {
	f := newFixture(t)
	if _, err := f.ledger.GroupBalances(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown group")
	}
}

func TestDebtBetweenTracksLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addEqualExpense(t, "alice", "100.00", "alice", "bob")

	got, err := f.ledger.DebtBetween(ctx, f.group.ID, "bob", "alice")
	if err != nil {
		t.Fatalf("DebtBetween failed: %v", err)
	}
	if !got.Equal(dec("50")) {
		t.Errorf("debt = %s, want 50", got)
	}

	// No reduced edge in the other direction.
	got, err = f.ledger.DebtBetween(ctx, f.group.ID, "alice", "bob")
	if err != nil {
		t.Fatalf("DebtBetween failed: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("reverse debt = %s, want 0", got)
	}
}

func TestExpenseEditsFlowIntoBalances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expense, err := f.expenses.Create(ctx, f.group.ID, ExpenseInput{
		Description: "dinner",
		Amount:      dec("100.00"),
		PayerID:     "alice",
		SplitType:   models.SplitEqual,
		Splits:      []models.Split{{UserID: "alice"}, {UserID: "bob"}},
	}, "alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Shrink the expense; the next balance read reflects it with no
	// compensating writes.
	if _, err := f.expenses.Update(ctx, expense.ID, ExpenseInput{
		Description: "dinner (corrected)",
		Amount:      dec("60.00"),
		PayerID:     "alice",
		SplitType:   models.SplitEqual,
		Splits:      []models.Split{{UserID: "alice"}, {UserID: "bob"}},
	}, "alice"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	debt, err := f.ledger.DebtBetween(ctx, f.group.ID, "bob", "alice")
	if err != nil {
		t.Fatalf("DebtBetween failed: %v", err)
	}
	if !debt.Equal(dec("30")) {
		t.Errorf("debt after edit = %s, want 30", debt)
	}

	if err := f.expenses.Delete(ctx, expense.ID, "alice"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	debt, _ = f.ledger.DebtBetween(ctx, f.group.ID, "bob", "alice")
	if !debt.IsZero() {
		t.Errorf("debt after delete = %s, want 0", debt)
	}
}
