package models

import "github.com/shopspring/decimal"

// SplitType determines how an expense is divided among members.
type SplitType string

const (
	// SplitEqual divides the amount evenly, with the rounding remainder
	// absorbed by the first listed member.
	SplitEqual SplitType = "EQUAL"

	// SplitUnequal uses caller-supplied per-member amounts.
	SplitUnequal SplitType = "UNEQUAL"

	// SplitPercent uses caller-supplied per-member percentages.
	SplitPercent SplitType = "PERCENT"
)

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitUnequal, SplitPercent:
		return true
	}
	return false
}

// Split is one member's share of an expense.
type Split struct {
	// UserID references the member who owes this share.
	UserID string

	// Amount is this member's share. For PERCENT splits it may carry
	// sub-cent precision; display rounding happens at the boundary.
	Amount decimal.Decimal

	// Percent is the member's percentage for PERCENT splits, zero otherwise.
	Percent decimal.Decimal
}

// Expense represents an amount paid by one member on behalf of several.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is a short human-readable label (e.g., "Groceries").
	Description string

	// Amount is the full amount paid, positive, cent precision.
	Amount decimal.Decimal

	// PayerID is the member who paid.
	PayerID string

	// SplitType records how Splits were derived.
	SplitType SplitType

	// Splits are the per-member shares. Their sum equals Amount to the
	// cent for EQUAL, within 0.01 for UNEQUAL.
	Splits []Split

	// CreatedBy is the user ID who recorded this expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was created.
	CreatedAt int64
}
