package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tabmate/tabmate/internal/models"
)

// CreateSettlement appends a settlement record. A single INSERT is atomic
// in SQLite, so readers see either the full pre- or post-state.
func (s *Store) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	var note any
	if settlement.Note != "" {
		note = settlement.Note
	}

	isPartial := 0
	if settlement.IsPartial {
		isPartial = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, group_id, from_user_id, to_user_id, amount, is_partial, note, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.FromUserID, settlement.ToUserID,
		settlement.Amount.String(), isPartial, note, settlement.CreatedBy, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

func scanSettlement(scan func(...any) error) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var amount string
	var isPartial int
	var note sql.NullString

	err := scan(&settlement.ID, &settlement.GroupID, &settlement.FromUserID, &settlement.ToUserID,
		&amount, &isPartial, &note, &settlement.CreatedBy, &settlement.CreatedAt)
	if err != nil {
		return nil, err
	}

	if settlement.Amount, err = scanAmount(amount); err != nil {
		return nil, err
	}
	settlement.IsPartial = isPartial != 0
	if note.Valid {
		settlement.Note = note.String
	}
	return settlement, nil
}

// GetSettlement retrieves a settlement by id.
func (s *Store) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, amount, is_partial, note, created_by, created_at
		 FROM settlements WHERE id = ?`,
		settlementID,
	)
	settlement, err := scanSettlement(row.Scan)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFound("settlement", settlementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return settlement, nil
}

// ListSettlementsByGroup retrieves all settlements for a group, newest first.
func (s *Store) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, amount, is_partial, note, created_by, created_at
		 FROM settlements WHERE group_id = ? ORDER BY created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// DeleteSettlement removes a settlement. Balances are derived, so the
// delete fully reverts the settlement's effect.
func (s *Store) DeleteSettlement(ctx context.Context, settlementID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM settlements WHERE id = ?", settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return models.NewNotFound("settlement", settlementID)
	}
	return nil
}
