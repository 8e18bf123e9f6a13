package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tabmate/tabmate/internal/models"
	"github.com/tabmate/tabmate/internal/storage"
)

// monthBounds converts a "YYYY-MM" month into [start, end) unix seconds.
func monthBounds(month string) (int64, int64, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return 0, 0, models.NewValidation("month must be in YYYY-MM form, got %q", month)
	}
	return start.Unix(), start.AddDate(0, 1, 0).Unix(), nil
}

// BudgetInput carries caller-supplied budget fields.
type BudgetInput struct {
	Name   string
	Amount decimal.Decimal
	Month  string
}

// BudgetStatus reports spending against a budget, derived from the
// expense ledger on every read.
type BudgetStatus struct {
	Budget    *models.Budget
	Spent     decimal.Decimal
	Remaining decimal.Decimal
}

// BudgetService manages monthly group budgets.
type BudgetService struct {
	store  storage.Store
	ledger *LedgerService
}

// NewBudgetService creates a BudgetService.
func NewBudgetService(store storage.Store, ledger *LedgerService) *BudgetService {
	return &BudgetService{store: store, ledger: ledger}
}

func (s *BudgetService) validate(in BudgetInput) error {
	if in.Name == "" {
		return models.NewValidation("budget name is required")
	}
	if !in.Amount.IsPositive() {
		return models.NewValidation("budget amount must be positive, got %s", in.Amount)
	}
	_, _, err := monthBounds(in.Month)
	return err
}

func (s *BudgetService) memberGroup(ctx context.Context, groupID, actorID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actorID) {
		return nil, models.NewAuthorization("you must be a group member to manage budgets")
	}
	return group, nil
}

// Create validates and persists a budget.
func (s *BudgetService) Create(ctx context.Context, groupID string, in BudgetInput, actorID string) (*models.Budget, error) {
	if _, err := s.memberGroup(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		GroupID: groupID,
		Name:    in.Name,
		Amount:  in.Amount,
		Month:   in.Month,
	}
	if err := s.store.CreateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// List retrieves a group's budgets.
func (s *BudgetService) List(ctx context.Context, groupID, actorID string) ([]*models.Budget, error) {
	if _, err := s.memberGroup(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	return s.store.ListBudgetsByGroup(ctx, groupID)
}

// Update replaces a budget's fields.
func (s *BudgetService) Update(ctx context.Context, budgetID string, in BudgetInput, actorID string) (*models.Budget, error) {
	budget, err := s.store.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if _, err := s.memberGroup(ctx, budget.GroupID, actorID); err != nil {
		return nil, err
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}

	budget.Name = in.Name
	budget.Amount = in.Amount
	budget.Month = in.Month
	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}

// Delete removes a budget.
func (s *BudgetService) Delete(ctx context.Context, budgetID, actorID string) error {
	budget, err := s.store.GetBudget(ctx, budgetID)
	if err != nil {
		return err
	}
	if _, err := s.memberGroup(ctx, budget.GroupID, actorID); err != nil {
		return err
	}
	return s.store.DeleteBudget(ctx, budgetID)
}

// Status reports spending against the budget's month.
func (s *BudgetService) Status(ctx context.Context, budgetID, actorID string) (*BudgetStatus, error) {
	budget, err := s.store.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if _, err := s.memberGroup(ctx, budget.GroupID, actorID); err != nil {
		return nil, err
	}

	spent, err := s.ledger.SpentInMonth(ctx, budget.GroupID, budget.Month)
	if err != nil {
		return nil, err
	}
	return &BudgetStatus{
		Budget:    budget,
		Spent:     spent,
		Remaining: budget.Amount.Sub(spent),
	}, nil
}
