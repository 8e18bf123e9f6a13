package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tabmate/tabmate/internal/models"
)

type recurringRequest struct {
	Description string         `json:"description"`
	Amount      string         `json:"amount"`
	PayerID     string         `json:"payerId"`
	SplitType   string         `json:"splitType"`
	Splits      []splitRequest `json:"splits,omitempty"`
	Schedule    string         `json:"schedule"`
}

func (s *Server) handleCreateRecurring(c *fiber.Ctx) error {
	var body recurringRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	amount, err := parseAmount("amount", body.Amount)
	if err != nil {
		return err
	}
	splits, err := parseSplits(body.Splits)
	if err != nil {
		return err
	}

	rec, err := s.recurring.Create(c.UserContext(), &models.RecurringExpense{
		GroupID:     c.Params("groupId"),
		Description: body.Description,
		Amount:      amount,
		PayerID:     body.PayerID,
		SplitType:   models.SplitType(body.SplitType),
		Splits:      splits,
		Schedule:    body.Schedule,
		CreatedBy:   userID(c),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toRecurringResponse(rec))
}

func (s *Server) handleListRecurring(c *fiber.Ctx) error {
	recs, err := s.recurring.List(c.UserContext(), c.Params("groupId"), userID(c))
	if err != nil {
		return err
	}
	out := make([]recurringResponse, len(recs))
	for i, r := range recs {
		out[i] = toRecurringResponse(r)
	}
	return c.JSON(out)
}

func (s *Server) handleDeleteRecurring(c *fiber.Ctx) error {
	if err := s.recurring.Delete(c.UserContext(), c.Params("recurringId"), userID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
