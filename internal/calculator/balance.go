// Package calculator implements the pure settlement engine: net balance
// computation, greedy debt reduction, and expense split derivation.
//
// Everything here is stateless computation over caller-supplied snapshots.
// There is no caching of derived state, so any number of goroutines may
// call into this package concurrently against the same ledger.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/tabmate/tabmate/internal/models"
	"github.com/tabmate/tabmate/internal/money"
)

// ComputeBalances folds a group's ledger into a per-member net balance.
// Positive means the group owes this member money; negative means the
// member owes the group.
//
// Every roster member appears in the result even with zero activity.
// Member ids found in records but missing from the roster (e.g. someone
// removed after a historical expense) are added lazily rather than
// rejected. Addition is commutative, so the result does not depend on
// record order. Amounts accumulate at full decimal precision; rounding
// to cents is the caller's concern at display time.
func ComputeBalances(members []string, expenses []models.Expense, settlements []models.Settlement) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(members))
	for _, m := range members {
		balances[m] = decimal.Zero
	}

	for _, e := range expenses {
		// Paying raises the payer's credit; the payer's own consumed
		// share comes back out through their split entry below.
		balances[e.PayerID] = balances[e.PayerID].Add(e.Amount)
		for _, s := range e.Splits {
			balances[s.UserID] = balances[s.UserID].Sub(s.Amount)
		}
	}

	for _, s := range settlements {
		balances[s.FromUserID] = balances[s.FromUserID].Add(s.Amount)
		balances[s.ToUserID] = balances[s.ToUserID].Sub(s.Amount)
	}

	return balances
}

// RoundBalances returns a copy of balances rounded to cent precision.
// Used at the read boundary only, never between accumulation steps.
func RoundBalances(balances map[string]decimal.Decimal) map[string]decimal.Decimal {
	rounded := make(map[string]decimal.Decimal, len(balances))
	for id, b := range balances {
		rounded[id] = money.Round2(b)
	}
	return rounded
}
