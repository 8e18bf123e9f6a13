package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/tabmate/tabmate/internal/calculator"
	"github.com/tabmate/tabmate/internal/models"
	"github.com/tabmate/tabmate/internal/money"
	"github.com/tabmate/tabmate/internal/service"
)

// Money crosses the wire as decimal strings ("12.34"), never floats.

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

type memberResponse struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type groupResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Members   []memberResponse `json:"members"`
	CreatedBy string           `json:"createdBy"`
	CreatedAt int64            `json:"createdAt"`
}

func toGroupResponse(g *models.Group) groupResponse {
	members := make([]memberResponse, len(g.Members))
	for i, m := range g.Members {
		members[i] = memberResponse{UserID: m.UserID, Role: m.Role}
	}
	return groupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Members:   members,
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt,
	}
}

type splitRequest struct {
	UserID  string `json:"userId"`
	Amount  string `json:"amount,omitempty"`
	Percent string `json:"percent,omitempty"`
}

type splitResponse struct {
	UserID  string `json:"userId"`
	Amount  string `json:"amount"`
	Percent string `json:"percent,omitempty"`
}

func toSplitResponses(splits []models.Split) []splitResponse {
	out := make([]splitResponse, len(splits))
	for i, sp := range splits {
		out[i] = splitResponse{UserID: sp.UserID, Amount: money.Format(sp.Amount)}
		if !sp.Percent.IsZero() {
			out[i].Percent = sp.Percent.String()
		}
	}
	return out
}

type expenseResponse struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"groupId"`
	Description string          `json:"description"`
	Amount      string          `json:"amount"`
	PayerID     string          `json:"payerId"`
	SplitType   string          `json:"splitType"`
	Splits      []splitResponse `json:"splits"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   int64           `json:"createdAt"`
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      money.Format(e.Amount),
		PayerID:     e.PayerID,
		SplitType:   string(e.SplitType),
		Splits:      toSplitResponses(e.Splits),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

type settlementResponse struct {
	ID         string `json:"id"`
	GroupID    string `json:"groupId"`
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
	Amount     string `json:"amount"`
	IsPartial  bool   `json:"isPartial"`
	Note       string `json:"note,omitempty"`
	CreatedBy  string `json:"createdBy"`
	CreatedAt  int64  `json:"createdAt"`
}

func toSettlementResponse(s *models.Settlement) settlementResponse {
	return settlementResponse{
		ID:         s.ID,
		GroupID:    s.GroupID,
		FromUserID: s.FromUserID,
		ToUserID:   s.ToUserID,
		Amount:     money.Format(s.Amount),
		IsPartial:  s.IsPartial,
		Note:       s.Note,
		CreatedBy:  s.CreatedBy,
		CreatedAt:  s.CreatedAt,
	}
}

type balanceResponse struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

func toBalanceResponses(balances []service.MemberBalance) []balanceResponse {
	out := make([]balanceResponse, len(balances))
	for i, b := range balances {
		out[i] = balanceResponse{UserID: b.UserID, Name: b.Name, Balance: money.Format(b.Balance)}
	}
	return out
}

type suggestionResponse struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func toSuggestionResponses(suggestions []calculator.Suggestion) []suggestionResponse {
	out := make([]suggestionResponse, len(suggestions))
	for i, s := range suggestions {
		out[i] = suggestionResponse{From: s.From, To: s.To, Amount: money.Format(s.Amount)}
	}
	return out
}

type budgetResponse struct {
	ID        string `json:"id"`
	GroupID   string `json:"groupId"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Month     string `json:"month"`
	CreatedAt int64  `json:"createdAt"`
}

func toBudgetResponse(b *models.Budget) budgetResponse {
	return budgetResponse{
		ID:        b.ID,
		GroupID:   b.GroupID,
		Name:      b.Name,
		Amount:    money.Format(b.Amount),
		Month:     b.Month,
		CreatedAt: b.CreatedAt,
	}
}

type recurringResponse struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"groupId"`
	Description string          `json:"description"`
	Amount      string          `json:"amount"`
	PayerID     string          `json:"payerId"`
	SplitType   string          `json:"splitType"`
	Splits      []splitResponse `json:"splits,omitempty"`
	Schedule    string          `json:"schedule"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   int64           `json:"createdAt"`
	LastRunAt   int64           `json:"lastRunAt,omitempty"`
}

func toRecurringResponse(r *models.RecurringExpense) recurringResponse {
	return recurringResponse{
		ID:          r.ID,
		GroupID:     r.GroupID,
		Description: r.Description,
		Amount:      money.Format(r.Amount),
		PayerID:     r.PayerID,
		SplitType:   string(r.SplitType),
		Splits:      toSplitResponses(r.Splits),
		Schedule:    r.Schedule,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		LastRunAt:   r.LastRunAt,
	}
}

// parseAmount parses a required positive-precision decimal string.
func parseAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Decimal{}, fiber.NewError(fiber.StatusBadRequest, field+" is required")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fiber.NewError(fiber.StatusBadRequest, field+" must be a decimal string")
	}
	return d, nil
}

// parseSplits converts the request splits, tolerating absent amounts and
// percents (EQUAL splits carry neither).
func parseSplits(reqs []splitRequest) ([]models.Split, error) {
	splits := make([]models.Split, len(reqs))
	for i, r := range reqs {
		sp := models.Split{UserID: r.UserID}
		if r.Amount != "" {
			d, err := decimal.NewFromString(r.Amount)
			if err != nil {
				return nil, fiber.NewError(fiber.StatusBadRequest, "split amount must be a decimal string")
			}
			sp.Amount = d
		}
		if r.Percent != "" {
			d, err := decimal.NewFromString(r.Percent)
			if err != nil {
				return nil, fiber.NewError(fiber.StatusBadRequest, "split percent must be a decimal string")
			}
			sp.Percent = d
		}
		splits[i] = sp
	}
	return splits, nil
}
