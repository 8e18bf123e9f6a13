package models

import "github.com/shopspring/decimal"

// Budget is a monthly spending limit for a group. Spending against a
// budget is derived from the expense ledger, never accumulated.
type Budget struct {
	// ID is the unique identifier for the budget (UUID format).
	ID string

	// GroupID is the group this budget applies to.
	GroupID string

	// Name is a display label (e.g., "Groceries March").
	Name string

	// Amount is the spending limit for the month.
	Amount decimal.Decimal

	// Month is the budget period in "YYYY-MM" form.
	Month string

	// CreatedAt is the Unix timestamp when the budget was created.
	CreatedAt int64
}
