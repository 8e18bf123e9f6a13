// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/tabmate/tabmate/internal/models"
)

// Store defines the interface for ledger persistence. The settlement
// engine only ever reads full snapshots through this interface and
// appends whole records; it keeps no derived state of its own. The
// implementation must make each insert atomic so concurrent readers
// observe either the full pre- or post-state of a write.
type Store interface {
	// CreateUser persists a new user. Populates ID and CreatedAt.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs retrieves users keyed by id; missing ids are simply
	// absent from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// CreateGroup persists a new group with its roster.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group and its roster, in insertion order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser retrieves groups where the user is a member.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// UpdateGroup renames a group.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group and all dependent records.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddGroupMember appends a membership to the roster.
	AddGroupMember(ctx context.Context, groupID string, m models.Membership) error

	// RemoveGroupMember drops a user from the roster. Historical records
	// referencing the user stay put; balance computation tolerates them.
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	// CreateExpense persists an expense with its splits.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its splits.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup retrieves a group's expenses, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// UpdateExpense replaces an expense and its splits.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and its splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreateSettlement appends a settlement record atomically.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by id.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup retrieves a group's settlements, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// DeleteSettlement removes a settlement, reverting its balance effect.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// CreateRecurringExpense persists a recurring template.
	CreateRecurringExpense(ctx context.Context, rec *models.RecurringExpense) error

	// GetRecurringExpense retrieves a template by id.
	GetRecurringExpense(ctx context.Context, recID string) (*models.RecurringExpense, error)

	// ListRecurringByGroup retrieves a group's templates.
	ListRecurringByGroup(ctx context.Context, groupID string) ([]*models.RecurringExpense, error)

	// ListRecurringExpenses retrieves every template, for the scheduler.
	ListRecurringExpenses(ctx context.Context) ([]*models.RecurringExpense, error)

	// SetRecurringLastRun records the last generation time for a template.
	SetRecurringLastRun(ctx context.Context, recID string, lastRun int64) error

	// DeleteRecurringExpense removes a template.
	DeleteRecurringExpense(ctx context.Context, recID string) error

	// CreateBudget persists a budget.
	CreateBudget(ctx context.Context, budget *models.Budget) error

	// GetBudget retrieves a budget by id.
	GetBudget(ctx context.Context, budgetID string) (*models.Budget, error)

	// ListBudgetsByGroup retrieves a group's budgets.
	ListBudgetsByGroup(ctx context.Context, groupID string) ([]*models.Budget, error)

	// UpdateBudget replaces a budget's name, amount and month.
	UpdateBudget(ctx context.Context, budget *models.Budget) error

	// DeleteBudget removes a budget.
	DeleteBudget(ctx context.Context, budgetID string) error

	// Close releases any resources held by the store.
	Close() error
}
