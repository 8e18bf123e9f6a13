package models

import "github.com/shopspring/decimal"

// RecurringExpense is a template that materializes an Expense on a cron
// schedule. Generated expenses flow through the same split computation as
// directly created ones.
type RecurringExpense struct {
	// ID is the unique identifier for the template (UUID format).
	ID string

	// GroupID is the group the generated expenses belong to.
	GroupID string

	// Description is copied onto each generated expense.
	Description string

	// Amount is the amount of each generated expense.
	Amount decimal.Decimal

	// PayerID is the member who pays each generated expense.
	PayerID string

	// SplitType and Splits mirror the Expense fields. For EQUAL templates
	// Splits may be empty, meaning the full roster at generation time.
	SplitType SplitType
	Splits    []Split

	// Schedule is a standard 5-field cron expression (e.g. "0 9 1 * *").
	Schedule string

	// CreatedBy is the user ID who created the template.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the template was created.
	CreatedAt int64

	// LastRunAt is the Unix timestamp of the last generation, zero if the
	// template has never fired.
	LastRunAt int64
}
