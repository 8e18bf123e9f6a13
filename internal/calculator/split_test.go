package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tabmate/tabmate/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeSplitsEqual(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		roster  []string
		want    map[string]string
		wantErr bool
	}{
		{
			name:   "even division",
			amount: "100.00",
			roster: []string{"alice", "bob"},
			want:   map[string]string{"alice": "50", "bob": "50"},
		},
		{
			name:   "remainder goes to first member",
			amount: "100.00",
			roster: []string{"alice", "bob", "charlie"},
			want:   map[string]string{"alice": "33.34", "bob": "33.33", "charlie": "33.33"},
		},
		{
			name:   "single member takes everything",
			amount: "7.77",
			roster: []string{"alice"},
			want:   map[string]string{"alice": "7.77"},
		},
		{
			name:   "negative remainder subtracts from first member",
			amount: "0.20",
			roster: []string{"a", "b", "c"},
			want:   map[string]string{"a": "0.06", "b": "0.07", "c": "0.07"},
		},
		{
			name:    "empty roster rejected",
			amount:  "10.00",
			roster:  nil,
			wantErr: true,
		},
		{
			name:    "non-positive amount rejected",
			amount:  "0",
			roster:  []string{"alice"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := ComputeSplits(dec(tt.amount), models.SplitEqual, nil, tt.roster)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeSplits failed: %v", err)
			}

			sum := decimal.Zero
			for _, s := range splits {
				sum = sum.Add(s.Amount)
				if want, ok := tt.want[s.UserID]; ok && !s.Amount.Equal(dec(want)) {
					t.Errorf("%s share = %s, want %s", s.UserID, s.Amount, want)
				}
			}
			// Equal splits must sum to the amount exactly, to the cent.
			if !sum.Equal(dec(tt.amount)) {
				t.Errorf("shares sum to %s, want exactly %s", sum, tt.amount)
			}
		})
	}
}

func TestComputeSplitsEqualSubset(t *testing.T) {
	// An explicit split list narrows the involved members below the roster.
	requested := []models.Split{{UserID: "bob"}, {UserID: "charlie"}}
	splits, err := ComputeSplits(dec("30.00"), models.SplitEqual, requested, []string{"alice", "bob", "charlie"})
	if err != nil {
		t.Fatalf("ComputeSplits failed: %v", err)
	}
	if len(splits) != 2 {
		t.Fatalf("got %d splits, want 2", len(splits))
	}
	if splits[0].UserID != "bob" || !splits[0].Amount.Equal(dec("15")) {
		t.Errorf("first split = %s %s, want bob 15", splits[0].UserID, splits[0].Amount)
	}
}

func TestComputeSplitsUnequal(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		requested []models.Split
		wantErr   bool
	}{
		{
			name:   "amounts matching total",
			amount: "50.00",
			requested: []models.Split{
				{UserID: "alice", Amount: dec("20.00")},
				{UserID: "bob", Amount: dec("30.00")},
			},
		},
		{
			name:   "one cent drift tolerated",
			amount: "50.00",
			requested: []models.Split{
				{UserID: "alice", Amount: dec("20.00")},
				{UserID: "bob", Amount: dec("30.01")},
			},
		},
		{
			name:   "sum out of tolerance rejected",
			amount: "50.00",
			requested: []models.Split{
				{UserID: "alice", Amount: dec("20.00")},
				{UserID: "bob", Amount: dec("31.00")},
			},
			wantErr: true,
		},
		{
			name:    "missing amounts rejected",
			amount:  "50.00",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeSplits(dec(tt.amount), models.SplitUnequal, tt.requested, nil)
			if tt.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestComputeSplitsPercent(t *testing.T) {
	requested := []models.Split{
		{UserID: "alice", Percent: dec("33.33")},
		{UserID: "bob", Percent: dec("66.67")},
	}
	splits, err := ComputeSplits(dec("100.00"), models.SplitPercent, requested, nil)
	if err != nil {
		t.Fatalf("ComputeSplits failed: %v", err)
	}
	// Shares keep full precision here; display rounds later.
	if !splits[0].Amount.Equal(dec("33.33")) {
		t.Errorf("alice share = %s, want 33.33", splits[0].Amount)
	}
	if !splits[1].Amount.Equal(dec("66.67")) {
		t.Errorf("bob share = %s, want 66.67", splits[1].Amount)
	}

	bad := []models.Split{
		{UserID: "alice", Percent: dec("40")},
		{UserID: "bob", Percent: dec("70")},
	}
	if _, err := ComputeSplits(dec("100.00"), models.SplitPercent, bad, nil); err == nil {
		t.Error("expected error for percentages summing to 110")
	}
}

func TestComputeSplitsUnknownType(t *testing.T) {
	if _, err := ComputeSplits(dec("10"), models.SplitType("HALVSIES"), nil, []string{"alice"}); err == nil {
		t.Error("expected error for unknown split type")
	}
}
