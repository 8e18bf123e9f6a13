package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tabmate/tabmate/internal/models"
)

// CreateBudget persists a new budget.
func (s *Store) CreateBudget(ctx context.Context, budget *models.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	if budget.CreatedAt == 0 {
		budget.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO budgets (id, group_id, name, amount, month, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		budget.ID, budget.GroupID, budget.Name, budget.Amount.String(), budget.Month, budget.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert budget: %w", err)
	}
	return nil
}

// GetBudget retrieves a budget by id.
func (s *Store) GetBudget(ctx context.Context, budgetID string) (*models.Budget, error) {
	budget := &models.Budget{}
	var amount string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, name, amount, month, created_at FROM budgets WHERE id = ?",
		budgetID,
	).Scan(&budget.ID, &budget.GroupID, &budget.Name, &amount, &budget.Month, &budget.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFound("budget", budgetID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	if budget.Amount, err = scanAmount(amount); err != nil {
		return nil, err
	}
	return budget, nil
}

// ListBudgetsByGroup retrieves all budgets for a group.
func (s *Store) ListBudgetsByGroup(ctx context.Context, groupID string) ([]*models.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, group_id, name, amount, month, created_at FROM budgets WHERE group_id = ? ORDER BY month DESC, created_at DESC",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*models.Budget
	for rows.Next() {
		budget := &models.Budget{}
		var amount string
		if err := rows.Scan(&budget.ID, &budget.GroupID, &budget.Name, &amount, &budget.Month, &budget.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		if budget.Amount, err = scanAmount(amount); err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}

// UpdateBudget replaces a budget's name, amount and month.
func (s *Store) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE budgets SET name = ?, amount = ?, month = ? WHERE id = ?",
		budget.Name, budget.Amount.String(), budget.Month, budget.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return models.NewNotFound("budget", budget.ID)
	}
	return nil
}

// DeleteBudget removes a budget.
func (s *Store) DeleteBudget(ctx context.Context, budgetID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return models.NewNotFound("budget", budgetID)
	}
	return nil
}
