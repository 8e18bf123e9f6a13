package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/tabmate/tabmate/internal/models"
	"github.com/tabmate/tabmate/internal/money"
)

var hundred = decimal.New(100, 0)

// ComputeSplits derives per-member shares for an expense. It is shared by
// the direct-create path and the recurring-generation path.
//
// EQUAL: amount/N per member, each rounded to cents, with the rounding
// remainder added to the first listed member so the shares sum to amount
// exactly. requested (if non-empty) selects the involved members,
// otherwise the full roster is used. Favoring the first member with the
// whole remainder is a known simplification.
//
// UNEQUAL: requested carries explicit amounts; their sum must match
// amount within 0.01.
//
// PERCENT: requested carries percentages summing to 100 within 0.01;
// each share is amount*percent/100, kept at full precision here —
// display rounding happens downstream.
func ComputeSplits(amount decimal.Decimal, splitType models.SplitType, requested []models.Split, roster []string) ([]models.Split, error) {
	if !amount.IsPositive() {
		return nil, models.NewValidation("amount must be positive, got %s", amount)
	}

	switch splitType {
	case models.SplitEqual:
		involved := roster
		if len(requested) > 0 {
			involved = make([]string, len(requested))
			for i, s := range requested {
				involved[i] = s.UserID
			}
		}
		if len(involved) == 0 {
			return nil, models.NewValidation("equal split needs at least one member")
		}

		share := money.Round2(amount.Div(decimal.NewFromInt(int64(len(involved)))))
		splits := make([]models.Split, len(involved))
		sum := decimal.Zero
		for i, id := range involved {
			splits[i] = models.Split{UserID: id, Amount: share}
			sum = sum.Add(share)
		}
		// First member absorbs the remainder so the sum is exact.
		splits[0].Amount = splits[0].Amount.Add(amount.Sub(sum))
		return splits, nil

	case models.SplitUnequal:
		if len(requested) == 0 {
			return nil, models.NewValidation("unequal split needs explicit amounts")
		}
		sum := decimal.Zero
		splits := make([]models.Split, len(requested))
		for i, s := range requested {
			splits[i] = models.Split{UserID: s.UserID, Amount: s.Amount}
			sum = sum.Add(s.Amount)
		}
		if sum.Sub(amount).Abs().GreaterThan(money.Epsilon) {
			return nil, models.NewValidation("split amounts sum to %s, expected %s", money.Format(sum), money.Format(amount))
		}
		return splits, nil

	case models.SplitPercent:
		if len(requested) == 0 {
			return nil, models.NewValidation("percent split needs explicit percentages")
		}
		sum := decimal.Zero
		splits := make([]models.Split, len(requested))
		for i, s := range requested {
			splits[i] = models.Split{
				UserID:  s.UserID,
				Amount:  amount.Mul(s.Percent).Div(hundred),
				Percent: s.Percent,
			}
			sum = sum.Add(s.Percent)
		}
		if sum.Sub(hundred).Abs().GreaterThan(money.Epsilon) {
			return nil, models.NewValidation("split percentages sum to %s, expected 100", sum)
		}
		return splits, nil
	}

	return nil, models.NewValidation("unknown split type %q", splitType)
}
