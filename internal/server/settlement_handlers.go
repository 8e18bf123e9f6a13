package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tabmate/tabmate/internal/money"
)

type recordSettlementRequest struct {
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
	Amount     string `json:"amount"`
	Note       string `json:"note,omitempty"`
}

type recordSettlementResponse struct {
	Settlement    settlementResponse `json:"settlement"`
	WasPartial    bool               `json:"wasPartial"`
	RemainingDebt string             `json:"remainingDebt"`
}

func (s *Server) handleRecordSettlement(c *fiber.Ctx) error {
	var body recordSettlementRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	amount, err := parseAmount("amount", body.Amount)
	if err != nil {
		return err
	}

	result, err := s.settlements.Record(c.UserContext(), c.Params("groupId"),
		body.FromUserID, body.ToUserID, amount, body.Note, userID(c))
	if err != nil {
		return err
	}

	observeSettlement(result.WasPartial)
	return c.Status(fiber.StatusCreated).JSON(recordSettlementResponse{
		Settlement:    toSettlementResponse(result.Settlement),
		WasPartial:    result.WasPartial,
		RemainingDebt: money.Format(result.RemainingDebt),
	})
}

func (s *Server) handleListSettlements(c *fiber.Ctx) error {
	settlements, err := s.settlements.List(c.UserContext(), c.Params("groupId"), userID(c))
	if err != nil {
		return err
	}
	out := make([]settlementResponse, len(settlements))
	for i, st := range settlements {
		out[i] = toSettlementResponse(st)
	}
	return c.JSON(out)
}

func (s *Server) handleDeleteSettlement(c *fiber.Ctx) error {
	if err := s.settlements.Delete(c.UserContext(), c.Params("settlementId"), userID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleGroupBalances(c *fiber.Ctx) error {
	if err := s.requireMembership(c); err != nil {
		return err
	}
	balances, err := s.ledger.GroupBalances(c.UserContext(), c.Params("groupId"))
	if err != nil {
		return err
	}
	return c.JSON(toBalanceResponses(balances))
}

func (s *Server) handleSuggestSettlements(c *fiber.Ctx) error {
	if err := s.requireMembership(c); err != nil {
		return err
	}
	suggestions, err := s.ledger.SuggestSettlements(c.UserContext(), c.Params("groupId"))
	if err != nil {
		return err
	}
	return c.JSON(toSuggestionResponses(suggestions))
}

// handleDebtBetween reports the reduced debt from payer to payee,
// e.g. GET /groups/:groupId/debt?payer=u1&payee=u2.
func (s *Server) handleDebtBetween(c *fiber.Ctx) error {
	payer := c.Query("payer")
	payee := c.Query("payee")
	if payer == "" || payee == "" {
		return fiber.NewError(fiber.StatusBadRequest, "payer and payee are required")
	}
	if err := s.requireMembership(c); err != nil {
		return err
	}

	debt, err := s.ledger.DebtBetween(c.UserContext(), c.Params("groupId"), payer, payee)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"payer": payer, "payee": payee, "outstanding": money.Format(debt)})
}

// requireMembership gates ledger reads, which go straight to services
// that do not check the caller themselves.
func (s *Server) requireMembership(c *fiber.Ctx) error {
	_, err := s.groups.Get(c.UserContext(), c.Params("groupId"), userID(c))
	return err
}
