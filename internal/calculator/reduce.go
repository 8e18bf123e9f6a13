package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tabmate/tabmate/internal/money"
)

// Suggestion is one proposed transfer from a debtor to a creditor.
// Suggestions are ephemeral output of the reducer, never stored.
type Suggestion struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// Optimize reduces a balance map to a small set of pairwise transfers via
// greedy debtor/creditor matching. This is the documented greedy heuristic,
// not a minimum-transfer-count solver; for typical small groups the two
// coincide, and the deterministic output order is part of the contract.
//
// order fixes iteration: debtors sort ascending by balance (most negative
// first), creditors descending, ties broken by position in order. Ids in
// balances but absent from order are appended sorted lexically. Balances
// within +-0.01 of zero are excluded as already settled.
//
// Output follows sweep emission order. After applying every suggestion,
// each member's adjusted balance lands within 0.01 of zero.
func Optimize(order []string, balances map[string]decimal.Decimal) []Suggestion {
	type entry struct {
		id  string
		bal decimal.Decimal
	}

	ordered := make([]entry, 0, len(balances))
	seen := make(map[string]bool, len(balances))
	for _, id := range order {
		if b, ok := balances[id]; ok {
			ordered = append(ordered, entry{id, b})
			seen[id] = true
		}
	}
	var extras []string
	for id := range balances {
		if !seen[id] {
			extras = append(extras, id)
		}
	}
	sort.Strings(extras)
	for _, id := range extras {
		ordered = append(ordered, entry{id, balances[id]})
	}

	var debtors, creditors []entry
	negEps := money.Epsilon.Neg()
	for _, e := range ordered {
		switch {
		case e.bal.LessThan(negEps):
			debtors = append(debtors, e)
		case e.bal.GreaterThan(money.Epsilon):
			creditors = append(creditors, e)
		}
	}

	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].bal.LessThan(debtors[j].bal)
	})
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].bal.GreaterThan(creditors[j].bal)
	})

	// Two-pointer sweep: owes/due shrink toward zero, the pointer whose
	// side is exhausted (|remaining| < 0.01) advances.
	var suggestions []Suggestion
	i, j := 0, 0
	owes := make([]decimal.Decimal, len(debtors))
	for k, d := range debtors {
		owes[k] = d.bal.Neg()
	}
	due := make([]decimal.Decimal, len(creditors))
	for k, c := range creditors {
		due[k] = c.bal
	}

	for i < len(debtors) && j < len(creditors) {
		amt := money.Min(owes[i], due[j])
		if amt.GreaterThan(money.Epsilon) {
			suggestions = append(suggestions, Suggestion{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: money.Round2(amt),
			})
		}

		owes[i] = owes[i].Sub(amt)
		due[j] = due[j].Sub(amt)

		if owes[i].LessThan(money.Epsilon) {
			i++
		}
		if due[j].LessThan(money.Epsilon) {
			j++
		}
	}

	return suggestions
}

// DebtBetween answers "how much does payer owe payee" by running the same
// greedy reduction over the whole group and summing the edges routed from
// payer to payee. Defining the pairwise debt through the reduction (rather
// than naive subtraction) resolves transitive chains: if A owes B and B
// owes C, the sweep may route A directly to C. Returns zero when the
// reduction produces no such edge, even if both parties carry nonzero
// balances against others.
func DebtBetween(order []string, balances map[string]decimal.Decimal, payerID, payeeID string) decimal.Decimal {
	total := decimal.Zero
	for _, s := range Optimize(order, balances) {
		if s.From == payerID && s.To == payeeID {
			total = total.Add(s.Amount)
		}
	}
	return total
}
