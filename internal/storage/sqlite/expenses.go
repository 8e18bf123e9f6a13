package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tabmate/tabmate/internal/models"
)

// CreateExpense persists a new expense and its splits in one transaction.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, amount, payer_id, split_type, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, expense.Amount.String(),
		expense.PayerID, string(expense.SplitType), expense.CreatedBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertSplits(ctx, tx, "expense_splits", "expense_id", expense.ID, expense.Splits); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, table, fkColumn, id string, splits []models.Split) error {
	for _, sp := range splits {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO "+table+" ("+fkColumn+", user_id, amount, percent) VALUES (?, ?, ?, ?)",
			id, sp.UserID, sp.Amount.String(), nullablePercent(sp.Percent),
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

func (s *Store) loadSplits(ctx context.Context, table, fkColumn, id string) ([]models.Split, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, amount, percent FROM "+table+" WHERE "+fkColumn+" = ? ORDER BY rowid",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		var sp models.Split
		var amount string
		var percent sql.NullString
		if err := rows.Scan(&sp.UserID, &amount, &percent); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if sp.Amount, err = scanAmount(amount); err != nil {
			return nil, err
		}
		if percent.Valid {
			if sp.Percent, err = scanAmount(percent.String); err != nil {
				return nil, err
			}
		} else {
			sp.Percent = decimal.Zero
		}
		splits = append(splits, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return splits, nil
}

// GetExpense retrieves an expense with its splits.
func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var amount, splitType string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, description, amount, payer_id, split_type, created_by, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Description, &amount,
		&expense.PayerID, &splitType, &expense.CreatedBy, &expense.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFound("expense", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	if expense.Amount, err = scanAmount(amount); err != nil {
		return nil, err
	}
	expense.SplitType = models.SplitType(splitType)

	if expense.Splits, err = s.loadSplits(ctx, "expense_splits", "expense_id", expense.ID); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpensesByGroup retrieves all expenses for a group, newest first.
func (s *Store) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM expenses WHERE group_id = ? ORDER BY created_at DESC, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan expense id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	expenses := make([]*models.Expense, 0, len(ids))
	for _, id := range ids {
		expense, err := s.GetExpense(ctx, id)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, nil
}

// UpdateExpense replaces an expense and its splits.
func (s *Store) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET description = ?, amount = ?, payer_id = ?, split_type = ?
		 WHERE id = ?`,
		expense.Description, expense.Amount.String(), expense.PayerID,
		string(expense.SplitType), expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return models.NewNotFound("expense", expense.ID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear splits: %w", err)
	}
	if err := insertSplits(ctx, tx, "expense_splits", "expense_id", expense.ID, expense.Splits); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense; splits cascade.
func (s *Store) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return models.NewNotFound("expense", expenseID)
	}
	return nil
}
