package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/tabmate/tabmate/internal/models"
	"github.com/tabmate/tabmate/internal/money"
	"github.com/tabmate/tabmate/internal/notify"
	"github.com/tabmate/tabmate/internal/storage"
)

// SettlementService records and manages settlements. Recording is a
// read-compute-write sequence (outstanding debt before, classify, insert,
// remaining debt after); a per-group mutex serializes it within this
// process so two concurrent payments between the same pair cannot both
// classify against the same stale snapshot.
type SettlementService struct {
	store    storage.Store
	ledger   *LedgerService
	notifier notify.Notifier

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSettlementService creates a SettlementService.
func NewSettlementService(store storage.Store, ledger *LedgerService, notifier notify.Notifier) *SettlementService {
	return &SettlementService{
		store:    store,
		ledger:   ledger,
		notifier: notifier,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *SettlementService) groupLock(groupID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[groupID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[groupID] = l
	}
	return l
}

// RecordResult is the outcome of recording a settlement: the stored
// record, its classification, and the debt left between the pair for
// immediate UI feedback.
type RecordResult struct {
	Settlement    *models.Settlement
	WasPartial    bool
	RemainingDebt decimal.Decimal
}

// Record validates and appends a settlement. The IsPartial flag compares
// the payment against the outstanding debt computed before the insert:
// partial means the debt existed and the payment covers strictly less
// than it, with a half-cent guard at the boundary. Overpayment is
// accepted; the pair's position simply flips until further activity.
// Record is not idempotent: retrying after an unknown outcome may insert
// twice, so callers should confirm state first.
func (s *SettlementService) Record(ctx context.Context, groupID, payerID, payeeID string, amount decimal.Decimal, note, createdBy string) (*RecordResult, error) {
	if !amount.IsPositive() {
		return nil, models.NewValidation("amount must be positive, got %s", amount)
	}
	if payerID == payeeID {
		return nil, models.NewValidation("payer and payee must differ")
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(payerID) {
		return nil, models.NewValidation("payer %s is not a group member", payerID)
	}
	if !group.HasMember(payeeID) {
		return nil, models.NewValidation("payee %s is not a group member", payeeID)
	}
	if !group.HasMember(createdBy) {
		return nil, models.NewAuthorization("you must be a group member to record a settlement")
	}

	lock := s.groupLock(groupID)
	lock.Lock()
	defer lock.Unlock()

	outstanding, err := s.ledger.DebtBetween(ctx, groupID, payerID, payeeID)
	if err != nil {
		return nil, err
	}

	isPartial := outstanding.GreaterThan(money.Epsilon) &&
		amount.LessThan(outstanding.Sub(money.HalfCent))

	settlement := &models.Settlement{
		GroupID:    groupID,
		FromUserID: payerID,
		ToUserID:   payeeID,
		Amount:     money.Round2(amount),
		IsPartial:  isPartial,
		Note:       note,
		CreatedBy:  createdBy,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, err
	}

	remaining, err := s.ledger.DebtBetween(ctx, groupID, payerID, payeeID)
	if err != nil {
		return nil, err
	}

	slog.Info("Settlement recorded",
		"group_id", groupID,
		"settlement_id", settlement.ID,
		"from", payerID,
		"to", payeeID,
		"amount", money.Format(settlement.Amount),
		"partial", isPartial,
	)
	s.notifier.Emit(notify.EventSettlementCreated, groupID, map[string]any{
		"settlementId": settlement.ID,
		"from":         payerID,
		"to":           payeeID,
		"amount":       money.Format(settlement.Amount),
		"isPartial":    isPartial,
		"remaining":    money.Format(remaining),
	})

	return &RecordResult{
		Settlement:    settlement,
		WasPartial:    isPartial,
		RemainingDebt: remaining,
	}, nil
}

// List retrieves a group's settlements, newest first.
func (s *SettlementService) List(ctx context.Context, groupID, actorID string) ([]*models.Settlement, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actorID) {
		return nil, models.NewAuthorization("you must be a group member to view settlements")
	}
	return s.store.ListSettlementsByGroup(ctx, groupID)
}

// Delete removes a settlement, reverting its effect on balances.
func (s *SettlementService) Delete(ctx context.Context, settlementID, actorID string) error {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return err
	}
	group, err := s.store.GetGroup(ctx, settlement.GroupID)
	if err != nil {
		return err
	}
	if !group.HasMember(actorID) {
		return models.NewAuthorization("you must be a group member to delete a settlement")
	}

	if err := s.store.DeleteSettlement(ctx, settlementID); err != nil {
		return err
	}
	s.notifier.Emit(notify.EventSettlementDeleted, settlement.GroupID, map[string]any{
		"settlementId": settlementID,
	})
	return nil
}
