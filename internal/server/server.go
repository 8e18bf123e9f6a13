// Package server exposes the application over HTTP. Routes are JSON
// except the PDF statement and the SSE event stream; money is carried
// as decimal strings on the wire.
package server

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/tabmate/tabmate/internal/auth"
	"github.com/tabmate/tabmate/internal/config"
	"github.com/tabmate/tabmate/internal/models"
	"github.com/tabmate/tabmate/internal/notify"
	"github.com/tabmate/tabmate/internal/recurring"
	"github.com/tabmate/tabmate/internal/reports"
	"github.com/tabmate/tabmate/internal/service"
)

// Server wires handlers, middleware, and services into a fiber app.
type Server struct {
	cfg *config.Config

	authn       auth.Authenticator
	jwt         *auth.JWTManager
	groups      *service.GroupService
	expenses    *service.ExpenseService
	settlements *service.SettlementService
	ledger      *service.LedgerService
	budgets     *service.BudgetService
	recurring   *recurring.Service
	reports     *reports.Generator
	hub         *notify.Hub
}

// Deps carries the services the server depends on.
type Deps struct {
	Authenticator auth.Authenticator
	JWT           *auth.JWTManager
	Groups        *service.GroupService
	Expenses      *service.ExpenseService
	Settlements   *service.SettlementService
	Ledger        *service.LedgerService
	Budgets       *service.BudgetService
	Recurring     *recurring.Service
	Reports       *reports.Generator
	Hub           *notify.Hub
}

// New builds the fiber app with all routes and middleware registered.
func New(cfg *config.Config, deps Deps) (*Server, *fiber.App) {
	s := &Server{
		cfg:         cfg,
		authn:       deps.Authenticator,
		jwt:         deps.JWT,
		groups:      deps.Groups,
		expenses:    deps.Expenses,
		settlements: deps.Settlements,
		ledger:      deps.Ledger,
		budgets:     deps.Budgets,
		recurring:   deps.Recurring,
		reports:     deps.Reports,
		hub:         deps.Hub,
	}

	app := fiber.New(fiber.Config{
		AppName:      "tabmate",
		ErrorHandler: errorHandler,
	})

	app.Use(corsMiddleware(cfg.CORSOrigin))
	app.Use(requestLogger())
	app.Use(metricsMiddleware())

	s.registerRoutes(app)
	return s, app
}

func (s *Server) registerRoutes(app *fiber.App) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/metrics", metricsHandler())

	api := app.Group("/api")

	api.Post("/auth/register", rateLimitAuth(), s.handleRegister)
	api.Post("/auth/login", rateLimitAuth(), s.handleLogin)

	authed := api.Group("", s.requireAuth())
	authed.Use(rateLimitAPI(s.cfg.RateLimit))

	authed.Get("/me", s.handleMe)

	authed.Post("/groups", s.handleCreateGroup)
	authed.Get("/groups", s.handleListGroups)
	authed.Get("/groups/:groupId", s.handleGetGroup)
	authed.Put("/groups/:groupId", s.handleRenameGroup)
	authed.Delete("/groups/:groupId", s.handleDeleteGroup)
	authed.Post("/groups/:groupId/members", s.handleAddMember)
	authed.Delete("/groups/:groupId/members/:userId", s.handleRemoveMember)

	authed.Post("/groups/:groupId/expenses", s.handleCreateExpense)
	authed.Get("/groups/:groupId/expenses", s.handleListExpenses)
	authed.Get("/expenses/:expenseId", s.handleGetExpense)
	authed.Put("/expenses/:expenseId", s.handleUpdateExpense)
	authed.Delete("/expenses/:expenseId", s.handleDeleteExpense)

	authed.Post("/groups/:groupId/settlements", s.handleRecordSettlement)
	authed.Get("/groups/:groupId/settlements", s.handleListSettlements)
	authed.Get("/groups/:groupId/settlements/suggest", s.handleSuggestSettlements)
	authed.Delete("/settlements/:settlementId", s.handleDeleteSettlement)

	authed.Get("/groups/:groupId/balances", s.handleGroupBalances)
	authed.Get("/groups/:groupId/debt", s.handleDebtBetween)

	authed.Post("/groups/:groupId/budgets", s.handleCreateBudget)
	authed.Get("/groups/:groupId/budgets", s.handleListBudgets)
	authed.Put("/budgets/:budgetId", s.handleUpdateBudget)
	authed.Delete("/budgets/:budgetId", s.handleDeleteBudget)
	authed.Get("/budgets/:budgetId/status", s.handleBudgetStatus)

	authed.Post("/groups/:groupId/recurring", s.handleCreateRecurring)
	authed.Get("/groups/:groupId/recurring", s.handleListRecurring)
	authed.Delete("/recurring/:recurringId", s.handleDeleteRecurring)

	authed.Get("/groups/:groupId/statement.pdf", s.handleStatementPDF)
	authed.Get("/groups/:groupId/events", s.handleEvents)
}

// errorHandler maps domain errors onto HTTP statuses so handlers can
// return service errors directly.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var (
		fiberErr *fiber.Error
		notFound *models.NotFoundError
		invalid  *models.ValidationError
		denied   *models.AuthorizationError
	)
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	case errors.As(err, &notFound):
		code = fiber.StatusNotFound
		message = notFound.Error()
	case errors.As(err, &invalid):
		code = fiber.StatusBadRequest
		message = invalid.Error()
	case errors.As(err, &denied):
		code = fiber.StatusForbidden
		message = denied.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		code = fiber.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, auth.ErrEmailExists), errors.Is(err, auth.ErrWeakPassword):
		code = fiber.StatusBadRequest
		message = err.Error()
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		code = fiber.StatusUnauthorized
		message = err.Error()
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}

// userID returns the authenticated user id set by requireAuth.
func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// Addr is the listen address derived from config.
func (s *Server) Addr() string {
	return fmt.Sprintf(":%d", s.cfg.Port)
}
