package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tabmate/tabmate/internal/calculator"
	"github.com/tabmate/tabmate/internal/models"
	"github.com/tabmate/tabmate/internal/money"
	"github.com/tabmate/tabmate/internal/notify"
	"github.com/tabmate/tabmate/internal/storage"
)

// Converter translates an amount between currencies. Rate lookup lives
// outside this service; the default is the identity function, which
// treats every amount as already being in the group's currency.
type Converter func(amount decimal.Decimal, from, to string) decimal.Decimal

// IdentityConverter returns the amount unchanged.
func IdentityConverter(amount decimal.Decimal, from, to string) decimal.Decimal {
	return amount
}

// BaseCurrency is the currency group ledgers are kept in.
const BaseCurrency = "USD"

// ExpenseInput carries the caller-supplied fields for creating or
// updating an expense.
type ExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	Currency    string // optional; converted to BaseCurrency when set
	PayerID     string
	SplitType   models.SplitType
	Splits      []models.Split
}

// ExpenseService validates and persists expenses. Split derivation is
// shared with the recurring generator through calculator.ComputeSplits.
type ExpenseService struct {
	store    storage.Store
	notifier notify.Notifier
	convert  Converter
}

// NewExpenseService creates an ExpenseService. convert may be nil, in
// which case amounts are taken at face value.
func NewExpenseService(store storage.Store, notifier notify.Notifier, convert Converter) *ExpenseService {
	if convert == nil {
		convert = IdentityConverter
	}
	return &ExpenseService{store: store, notifier: notifier, convert: convert}
}

// buildSplits validates the input against the roster and derives splits.
func buildSplits(group *models.Group, in ExpenseInput, amount decimal.Decimal) ([]models.Split, error) {
	if !group.HasMember(in.PayerID) {
		return nil, models.NewValidation("payer %s is not a group member", in.PayerID)
	}
	for _, sp := range in.Splits {
		if !group.HasMember(sp.UserID) {
			return nil, models.NewValidation("split member %s is not in the group", sp.UserID)
		}
	}
	return calculator.ComputeSplits(amount, in.SplitType, in.Splits, group.MemberIDs())
}

// Create validates and persists a new expense.
func (s *ExpenseService) Create(ctx context.Context, groupID string, in ExpenseInput, createdBy string) (*models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(createdBy) {
		return nil, models.NewAuthorization("you must be a group member to add an expense")
	}

	amount := in.Amount
	if in.Currency != "" && in.Currency != BaseCurrency {
		amount = money.Round2(s.convert(amount, in.Currency, BaseCurrency))
	}

	splits, err := buildSplits(group, in, amount)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     groupID,
		Description: in.Description,
		Amount:      amount,
		PayerID:     in.PayerID,
		SplitType:   in.SplitType,
		Splits:      splits,
		CreatedBy:   createdBy,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	slog.Info("Expense created",
		"group_id", groupID,
		"expense_id", expense.ID,
		"amount", money.Format(amount),
		"split_type", expense.SplitType,
	)
	s.notifier.Emit(notify.EventExpenseCreated, groupID, map[string]any{
		"expenseId": expense.ID,
		"amount":    money.Format(amount),
	})
	return expense, nil
}

// Get retrieves a single expense, enforcing group membership.
func (s *ExpenseService) Get(ctx context.Context, expenseID, actorID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actorID) {
		return nil, models.NewAuthorization("you must be a group member to view this expense")
	}
	return expense, nil
}

// List retrieves a group's expenses, newest first.
func (s *ExpenseService) List(ctx context.Context, groupID, actorID string) ([]*models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actorID) {
		return nil, models.NewAuthorization("you must be a group member to view expenses")
	}
	return s.store.ListExpensesByGroup(ctx, groupID)
}

// Update replaces an expense's editable fields and rederives its splits.
// Balances pick the change up automatically on the next read.
func (s *ExpenseService) Update(ctx context.Context, expenseID string, in ExpenseInput, actorID string) (*models.Expense, error) {
	existing, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	group, err := s.store.GetGroup(ctx, existing.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actorID) {
		return nil, models.NewAuthorization("you must be a group member to update this expense")
	}

	amount := in.Amount
	if in.Currency != "" && in.Currency != BaseCurrency {
		amount = money.Round2(s.convert(amount, in.Currency, BaseCurrency))
	}

	splits, err := buildSplits(group, in, amount)
	if err != nil {
		return nil, err
	}

	existing.Description = in.Description
	existing.Amount = amount
	existing.PayerID = in.PayerID
	existing.SplitType = in.SplitType
	existing.Splits = splits
	if err := s.store.UpdateExpense(ctx, existing); err != nil {
		return nil, err
	}

	s.notifier.Emit(notify.EventExpenseUpdated, existing.GroupID, map[string]any{
		"expenseId": existing.ID,
	})
	return existing, nil
}

// Delete removes an expense; balances revert on the next read.
func (s *ExpenseService) Delete(ctx context.Context, expenseID, actorID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return err
	}
	if !group.HasMember(actorID) {
		return models.NewAuthorization("you must be a group member to delete this expense")
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}
	s.notifier.Emit(notify.EventExpenseDeleted, expense.GroupID, map[string]any{
		"expenseId": expenseID,
	})
	return nil
}
