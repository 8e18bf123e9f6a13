package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tabmate/tabmate/internal/money"
	"github.com/tabmate/tabmate/internal/service"
)

type budgetRequest struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Month  string `json:"month"`
}

func budgetInput(body budgetRequest) (service.BudgetInput, error) {
	amount, err := parseAmount("amount", body.Amount)
	if err != nil {
		return service.BudgetInput{}, err
	}
	return service.BudgetInput{Name: body.Name, Amount: amount, Month: body.Month}, nil
}

func (s *Server) handleCreateBudget(c *fiber.Ctx) error {
	var body budgetRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	in, err := budgetInput(body)
	if err != nil {
		return err
	}
	budget, err := s.budgets.Create(c.UserContext(), c.Params("groupId"), in, userID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toBudgetResponse(budget))
}

func (s *Server) handleListBudgets(c *fiber.Ctx) error {
	budgets, err := s.budgets.List(c.UserContext(), c.Params("groupId"), userID(c))
	if err != nil {
		return err
	}
	out := make([]budgetResponse, len(budgets))
	for i, b := range budgets {
		out[i] = toBudgetResponse(b)
	}
	return c.JSON(out)
}

func (s *Server) handleUpdateBudget(c *fiber.Ctx) error {
	var body budgetRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	in, err := budgetInput(body)
	if err != nil {
		return err
	}
	budget, err := s.budgets.Update(c.UserContext(), c.Params("budgetId"), in, userID(c))
	if err != nil {
		return err
	}
	return c.JSON(toBudgetResponse(budget))
}

func (s *Server) handleDeleteBudget(c *fiber.Ctx) error {
	if err := s.budgets.Delete(c.UserContext(), c.Params("budgetId"), userID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleBudgetStatus(c *fiber.Ctx) error {
	status, err := s.budgets.Status(c.UserContext(), c.Params("budgetId"), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"budget":    toBudgetResponse(status.Budget),
		"spent":     money.Format(status.Spent),
		"remaining": money.Format(status.Remaining),
	})
}
