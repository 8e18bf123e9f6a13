package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tabmate/tabmate/internal/models"
)

// CreateRecurringExpense persists a recurring template and its splits.
func (s *Store) CreateRecurringExpense(ctx context.Context, rec *models.RecurringExpense) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO recurring_expenses (id, group_id, description, amount, payer_id, split_type, schedule, created_by, created_at, last_run_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.GroupID, rec.Description, rec.Amount.String(), rec.PayerID,
		string(rec.SplitType), rec.Schedule, rec.CreatedBy, rec.CreatedAt, rec.LastRunAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recurring expense: %w", err)
	}

	if err := insertSplits(ctx, tx, "recurring_splits", "recurring_id", rec.ID, rec.Splits); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) scanRecurring(ctx context.Context, scan func(...any) error) (*models.RecurringExpense, error) {
	rec := &models.RecurringExpense{}
	var amount, splitType string
	err := scan(&rec.ID, &rec.GroupID, &rec.Description, &amount, &rec.PayerID,
		&splitType, &rec.Schedule, &rec.CreatedBy, &rec.CreatedAt, &rec.LastRunAt)
	if err != nil {
		return nil, err
	}
	if rec.Amount, err = scanAmount(amount); err != nil {
		return nil, err
	}
	rec.SplitType = models.SplitType(splitType)
	if rec.Splits, err = s.loadSplits(ctx, "recurring_splits", "recurring_id", rec.ID); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetRecurringExpense retrieves a template by id.
func (s *Store) GetRecurringExpense(ctx context.Context, recID string) (*models.RecurringExpense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, description, amount, payer_id, split_type, schedule, created_by, created_at, last_run_at
		 FROM recurring_expenses WHERE id = ?`,
		recID,
	)
	rec, err := s.scanRecurring(ctx, row.Scan)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFound("recurring expense", recID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recurring expense: %w", err)
	}
	return rec, nil
}

func (s *Store) listRecurring(ctx context.Context, where string, args ...any) ([]*models.RecurringExpense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM recurring_expenses `+where+` ORDER BY created_at, id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring expenses: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan recurring id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recurring expenses: %w", err)
	}

	recs := make([]*models.RecurringExpense, 0, len(ids))
	for _, id := range ids {
		rec, err := s.GetRecurringExpense(ctx, id)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// ListRecurringByGroup retrieves a group's templates.
func (s *Store) ListRecurringByGroup(ctx context.Context, groupID string) ([]*models.RecurringExpense, error) {
	return s.listRecurring(ctx, "WHERE group_id = ?", groupID)
}

// ListRecurringExpenses retrieves every template across all groups.
func (s *Store) ListRecurringExpenses(ctx context.Context) ([]*models.RecurringExpense, error) {
	return s.listRecurring(ctx, "")
}

// SetRecurringLastRun records the last generation timestamp.
func (s *Store) SetRecurringLastRun(ctx context.Context, recID string, lastRun int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE recurring_expenses SET last_run_at = ? WHERE id = ?",
		lastRun, recID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recurring expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return models.NewNotFound("recurring expense", recID)
	}
	return nil
}

// DeleteRecurringExpense removes a template; splits cascade.
func (s *Store) DeleteRecurringExpense(ctx context.Context, recID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM recurring_expenses WHERE id = ?", recID)
	if err != nil {
		return fmt.Errorf("failed to delete recurring expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return models.NewNotFound("recurring expense", recID)
	}
	return nil
}
