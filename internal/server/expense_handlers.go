package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tabmate/tabmate/internal/models"
	"github.com/tabmate/tabmate/internal/service"
)

type expenseRequest struct {
	Description string         `json:"description"`
	Amount      string         `json:"amount"`
	Currency    string         `json:"currency,omitempty"`
	PayerID     string         `json:"payerId"`
	SplitType   string         `json:"splitType"`
	Splits      []splitRequest `json:"splits"`
}

func (s *Server) expenseInput(body expenseRequest) (service.ExpenseInput, error) {
	amount, err := parseAmount("amount", body.Amount)
	if err != nil {
		return service.ExpenseInput{}, err
	}
	splits, err := parseSplits(body.Splits)
	if err != nil {
		return service.ExpenseInput{}, err
	}
	return service.ExpenseInput{
		Description: body.Description,
		Amount:      amount,
		Currency:    body.Currency,
		PayerID:     body.PayerID,
		SplitType:   models.SplitType(body.SplitType),
		Splits:      splits,
	}, nil
}

func (s *Server) handleCreateExpense(c *fiber.Ctx) error {
	var body expenseRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	in, err := s.expenseInput(body)
	if err != nil {
		return err
	}
	expense, err := s.expenses.Create(c.UserContext(), c.Params("groupId"), in, userID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toExpenseResponse(expense))
}

func (s *Server) handleListExpenses(c *fiber.Ctx) error {
	expenses, err := s.expenses.List(c.UserContext(), c.Params("groupId"), userID(c))
	if err != nil {
		return err
	}
	out := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		out[i] = toExpenseResponse(e)
	}
	return c.JSON(out)
}

func (s *Server) handleGetExpense(c *fiber.Ctx) error {
	expense, err := s.expenses.Get(c.UserContext(), c.Params("expenseId"), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(toExpenseResponse(expense))
}

func (s *Server) handleUpdateExpense(c *fiber.Ctx) error {
	var body expenseRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	in, err := s.expenseInput(body)
	if err != nil {
		return err
	}
	expense, err := s.expenses.Update(c.UserContext(), c.Params("expenseId"), in, userID(c))
	if err != nil {
		return err
	}
	return c.JSON(toExpenseResponse(expense))
}

func (s *Server) handleDeleteExpense(c *fiber.Ctx) error {
	if err := s.expenses.Delete(c.UserContext(), c.Params("expenseId"), userID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
