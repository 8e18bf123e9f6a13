package recurring

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tabmate/tabmate/internal/models"
	"github.com/tabmate/tabmate/internal/notify"
	"github.com/tabmate/tabmate/internal/service"
	"github.com/tabmate/tabmate/internal/storage/sqlite"
)

func TestDue(t *testing.T) {
	// 2026-03-01 00:00 UTC.
	anchor := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		schedule  string
		lastRun   int64
		createdAt int64
		now       time.Time
		want      bool
		wantErr   bool
	}{
		{
			name:      "never fired, first trigger passed",
			schedule:  "0 9 1 * *", // 09:00 on the 1st
			createdAt: anchor.Unix(),
			now:       anchor.Add(10 * time.Hour),
			want:      true,
		},
		{
			name:      "never fired, first trigger ahead",
			schedule:  "0 9 1 * *",
			createdAt: anchor.Unix(),
			now:       anchor.Add(time.Hour),
			want:      false,
		},
		{
			name:     "fired this month already",
			schedule: "0 9 1 * *",
			lastRun:  anchor.Add(9 * time.Hour).Unix(),
			now:      anchor.Add(12 * time.Hour),
			want:     false,
		},
		{
			name:     "next month rolls around",
			schedule: "0 9 1 * *",
			lastRun:  anchor.Add(9 * time.Hour).Unix(),
			now:      time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
			want:     true,
		},
		{
			name:     "exact trigger instant counts as due",
			schedule: "0 9 * * *",
			lastRun:  anchor.Unix(),
			now:      anchor.Add(9 * time.Hour),
			want:     true,
		},
		{
			name:     "garbage schedule",
			schedule: "every day at nine",
			now:      anchor,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Due(tt.schedule, tt.lastRun, tt.createdAt, tt.now)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Due failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Due = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGeneratorRunOnce(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for _, u := range []*models.User{
		{ID: "alice", Email: "alice@example.com", Name: "Alice", PasswordHash: "x"},
		{ID: "bob", Email: "bob@example.com", Name: "Bob", PasswordHash: "x"},
	} {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}
	group := &models.Group{
		Name:      "Flat",
		CreatedBy: "alice",
		Members: []models.Membership{
			{UserID: "alice", Role: models.RoleAdmin},
			{UserID: "bob", Role: models.RoleMember},
		},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	expenses := service.NewExpenseService(store, notify.LogNotifier{}, nil)
	svc := NewService(store)

	anchor := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rec, err := svc.Create(ctx, &models.RecurringExpense{
		GroupID:     group.ID,
		Description: "rent",
		Amount:      decimal.RequireFromString("1200.00"),
		PayerID:     "alice",
		SplitType:   models.SplitEqual,
		Schedule:    "0 9 1 * *",
		CreatedBy:   "alice",
	})
	if err != nil {
		t.Fatalf("failed to create template: %v", err)
	}
	// Pin CreatedAt so the due check is deterministic.
	if err := store.SetRecurringLastRun(ctx, rec.ID, anchor.Unix()); err != nil {
		t.Fatalf("failed to pin last run: %v", err)
	}

	gen := NewGenerator(store, expenses)

	// Before the trigger: nothing generated.
	gen.now = func() time.Time { return anchor.Add(time.Hour) }
	gen.RunOnce(ctx)
	got, err := store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListExpensesByGroup failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d expenses before trigger, want 0", len(got))
	}

	// Past the next monthly trigger: one expense, split across the roster.
	fire := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	gen.now = func() time.Time { return fire }
	gen.RunOnce(ctx)
	got, err = store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("ListExpensesByGroup failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d expenses after trigger, want 1", len(got))
	}
	exp := got[0]
	if exp.Description != "rent" || !exp.Amount.Equal(decimal.RequireFromString("1200.00")) {
		t.Errorf("generated expense = %q %s", exp.Description, exp.Amount)
	}
	if len(exp.Splits) != 2 {
		t.Errorf("got %d splits, want 2", len(exp.Splits))
	}

	// A second scan at the same instant must not duplicate.
	gen.RunOnce(ctx)
	got, _ = store.ListExpensesByGroup(ctx, group.ID)
	if len(got) != 1 {
		t.Errorf("got %d expenses after rescan, want 1", len(got))
	}
}
