package models

import "github.com/shopspring/decimal"

// Settlement represents a payment between group members to clear debts.
// Settlements are created only through the settlement recorder and are
// immutable afterwards, except for deletion (which reverts their effect
// on balances, since balances are always derived).
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromUserID is the member who paid (debtor settling up).
	FromUserID string

	// ToUserID is the member who received payment.
	ToUserID string

	// Amount is the payment amount, positive, cent precision.
	Amount decimal.Decimal

	// IsPartial records whether the payment covered less than the
	// outstanding debt at creation time. It is a decision snapshot:
	// it is stored, not recomputed, so later activity never rewrites
	// the historical classification.
	IsPartial bool

	// Note is an optional description for the settlement.
	Note string

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
