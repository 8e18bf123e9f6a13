// Package recurring manages recurring expense templates and the scheduler
// that materializes them into regular expenses.
package recurring

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tabmate/tabmate/internal/calculator"
	"github.com/tabmate/tabmate/internal/models"
	"github.com/tabmate/tabmate/internal/service"
	"github.com/tabmate/tabmate/internal/storage"
)

// Service validates and persists recurring expense templates. Templates
// are validated up front with the same split rules as regular expenses so
// the scheduler never fires a template that cannot produce a valid
// expense (short of roster changes after creation).
type Service struct {
	store storage.Store
}

// NewService creates a template Service.
func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// Create validates and persists a new template.
func (s *Service) Create(ctx context.Context, rec *models.RecurringExpense) (*models.RecurringExpense, error) {
	group, err := s.store.GetGroup(ctx, rec.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(rec.CreatedBy) {
		return nil, models.NewAuthorization("you must be a group member to add a recurring expense")
	}
	if !group.HasMember(rec.PayerID) {
		return nil, models.NewValidation("payer %s is not a group member", rec.PayerID)
	}
	if _, err := cron.ParseStandard(rec.Schedule); err != nil {
		return nil, models.NewValidation("invalid schedule %q: %v", rec.Schedule, err)
	}
	// Dry-run the split derivation against the current roster.
	if _, err := calculator.ComputeSplits(rec.Amount, rec.SplitType, rec.Splits, group.MemberIDs()); err != nil {
		return nil, err
	}
	if err := s.store.CreateRecurringExpense(ctx, rec); err != nil {
		return nil, err
	}
	slog.Info("Recurring expense created",
		"group_id", rec.GroupID,
		"recurring_id", rec.ID,
		"schedule", rec.Schedule,
	)
	return rec, nil
}

// List retrieves a group's templates, enforcing membership.
func (s *Service) List(ctx context.Context, groupID, actorID string) ([]*models.RecurringExpense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actorID) {
		return nil, models.NewAuthorization("you must be a group member to view recurring expenses")
	}
	return s.store.ListRecurringByGroup(ctx, groupID)
}

// Delete removes a template. Allowed for the template's creator or a
// group admin.
func (s *Service) Delete(ctx context.Context, recID, actorID string) error {
	rec, err := s.store.GetRecurringExpense(ctx, recID)
	if err != nil {
		return err
	}
	group, err := s.store.GetGroup(ctx, rec.GroupID)
	if err != nil {
		return err
	}
	if rec.CreatedBy != actorID && !group.IsAdmin(actorID) {
		return models.NewAuthorization("only the creator or a group admin may delete a recurring expense")
	}
	return s.store.DeleteRecurringExpense(ctx, recID)
}

// Due reports whether a template should fire. A template is due when its
// schedule has a trigger time at or before now that is after the last
// run; createdAt anchors templates that have never fired.
func Due(schedule string, lastRunAt, createdAt int64, now time.Time) (bool, error) {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return false, err
	}
	base := lastRunAt
	if base == 0 {
		base = createdAt
	}
	next := sched.Next(time.Unix(base, 0))
	return !next.After(now), nil
}

// Generator periodically scans templates and creates expenses for the
// ones that are due. Generated expenses flow through ExpenseService, so
// they get the same validation, logging, and events as manual ones.
type Generator struct {
	store    storage.Store
	expenses *service.ExpenseService
	cron     *cron.Cron
	now      func() time.Time
}

// NewGenerator creates a Generator.
func NewGenerator(store storage.Store, expenses *service.ExpenseService) *Generator {
	return &Generator{
		store:    store,
		expenses: expenses,
		cron:     cron.New(),
		now:      time.Now,
	}
}

// Start begins the background scan, once per minute.
func (g *Generator) Start() error {
	_, err := g.cron.AddFunc("@every 1m", func() {
		g.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}
	g.cron.Start()
	return nil
}

// Stop halts the background scan and waits for an in-flight run.
func (g *Generator) Stop() {
	<-g.cron.Stop().Done()
}

// RunOnce performs a single scan. A template that fails to generate is
// logged and skipped; its last-run marker is not advanced, so it retries
// on the next scan.
func (g *Generator) RunOnce(ctx context.Context) {
	recs, err := g.store.ListRecurringExpenses(ctx)
	if err != nil {
		slog.Error("Recurring scan failed", "error", err)
		return
	}
	now := g.now()
	for _, rec := range recs {
		due, err := Due(rec.Schedule, rec.LastRunAt, rec.CreatedAt, now)
		if err != nil {
			slog.Error("Skipping recurring expense with bad schedule",
				"recurring_id", rec.ID, "schedule", rec.Schedule, "error", err)
			continue
		}
		if !due {
			continue
		}
		if err := g.fire(ctx, rec, now); err != nil {
			slog.Error("Failed to generate recurring expense",
				"recurring_id", rec.ID, "group_id", rec.GroupID, "error", err)
		}
	}
}

func (g *Generator) fire(ctx context.Context, rec *models.RecurringExpense, now time.Time) error {
	_, err := g.expenses.Create(ctx, rec.GroupID, service.ExpenseInput{
		Description: rec.Description,
		Amount:      rec.Amount,
		PayerID:     rec.PayerID,
		SplitType:   rec.SplitType,
		Splits:      rec.Splits,
	}, rec.CreatedBy)
	if err != nil {
		return err
	}
	slog.Info("Recurring expense generated", "recurring_id", rec.ID, "group_id", rec.GroupID)
	return g.store.SetRecurringLastRun(ctx, rec.ID, now.Unix())
}
