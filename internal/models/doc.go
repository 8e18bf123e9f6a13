// Package models defines the core domain models for tabmate.
//
// # Models
//
//   - User: registered account, identified by email
//   - Group: a set of members who share expenses
//   - Membership: tagged {UserID, Role} pair; roles gate group mutations
//   - Expense: a paid amount split across members (EQUAL/UNEQUAL/PERCENT)
//   - Settlement: a payment between two members that clears debt
//   - RecurringExpense: a template that materializes expenses on a schedule
//   - Budget: a monthly spending limit for a group
//
// # Design principles
//
//  1. Balances are never stored. They are derived on demand from the full
//     expense+settlement history of a group, so edits and deletes need no
//     compensating writes.
//  2. Monetary amounts are shopspring decimals everywhere; cents rounding
//     happens only at the API boundary.
//  3. Relationships use ID strings instead of pointers to avoid circular
//     references.
//  4. Membership is a single tagged structure from the start; there is no
//     duck-typed "raw id or object" member representation.
package models
