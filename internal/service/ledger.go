// Package service implements the application services: thin orchestration
// over the storage layer and the pure calculator.
package service

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tabmate/tabmate/internal/calculator"
	"github.com/tabmate/tabmate/internal/models"
	"github.com/tabmate/tabmate/internal/money"
	"github.com/tabmate/tabmate/internal/storage"
)

// LedgerService answers the derived-state queries: balances, suggested
// settlements, and pairwise outstanding debt. Every call re-reads the
// full ledger and computes from scratch; nothing is cached, so reads are
// safe under any concurrency and always reflect the latest ledger.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a LedgerService over the given store.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// snapshot is a read-only view over one group's ledger: the roster plus
// the two record streams balance math consumes.
type snapshot struct {
	group       *models.Group
	expenses    []*models.Expense
	settlements []*models.Settlement
}

func (s *LedgerService) snapshot(ctx context.Context, groupID string) (*snapshot, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return &snapshot{group: group, expenses: expenses, settlements: settlements}, nil
}

func (sn *snapshot) balances() map[string]decimal.Decimal {
	expenses := make([]models.Expense, len(sn.expenses))
	for i, e := range sn.expenses {
		expenses[i] = *e
	}
	settlements := make([]models.Settlement, len(sn.settlements))
	for i, st := range sn.settlements {
		settlements[i] = *st
	}
	return calculator.ComputeBalances(sn.group.MemberIDs(), expenses, settlements)
}

// MemberBalance is one member's net position for API consumers.
type MemberBalance struct {
	UserID  string
	Name    string
	Balance decimal.Decimal
}

// GroupBalances computes the net balance of every member (and of any
// former member still present in the history). Rounding to cents happens
// here, at the read boundary, after all accumulation.
func (s *LedgerService) GroupBalances(ctx context.Context, groupID string) ([]MemberBalance, error) {
	sn, err := s.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	balances := calculator.RoundBalances(sn.balances())

	order := sn.group.MemberIDs()
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		seen[id] = true
	}
	var extras []string
	for id := range balances {
		if !seen[id] {
			extras = append(extras, id)
		}
	}
	sort.Strings(extras)
	order = append(order, extras...)

	users, err := s.store.GetUsersByIDs(ctx, order)
	if err != nil {
		return nil, err
	}

	result := make([]MemberBalance, 0, len(order))
	for _, id := range order {
		mb := MemberBalance{UserID: id, Balance: balances[id]}
		if u, ok := users[id]; ok {
			mb.Name = u.Name
		}
		result = append(result, mb)
	}
	return result, nil
}

// SuggestSettlements reduces the group's balances to a small set of
// pairwise transfers via the greedy sweep.
func (s *LedgerService) SuggestSettlements(ctx context.Context, groupID string) ([]calculator.Suggestion, error) {
	sn, err := s.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.Optimize(sn.group.MemberIDs(), sn.balances()), nil
}

// DebtBetween reports how much payer currently owes payee, as the greedy
// reduction would route it.
func (s *LedgerService) DebtBetween(ctx context.Context, groupID, payerID, payeeID string) (decimal.Decimal, error) {
	sn, err := s.snapshot(ctx, groupID)
	if err != nil {
		return decimal.Zero, err
	}
	return calculator.DebtBetween(sn.group.MemberIDs(), sn.balances(), payerID, payeeID), nil
}

// SpentInMonth sums a group's expenses whose creation time falls in the
// given "YYYY-MM" month. Used by budget status.
func (s *LedgerService) SpentInMonth(ctx context.Context, groupID, month string) (decimal.Decimal, error) {
	start, end, err := monthBounds(month)
	if err != nil {
		return decimal.Zero, err
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return decimal.Zero, err
	}
	spent := decimal.Zero
	for _, e := range expenses {
		if e.CreatedAt >= start && e.CreatedAt < end {
			spent = spent.Add(e.Amount)
		}
	}
	return money.Round2(spent), nil
}
