// Package payments talks to the card payment gateway.
package payments

import (
	"context"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MaxAmountMinor is the largest charge the gateway accepts, in minor units.
const MaxAmountMinor = 99999999

var ErrInvalidAmount = errors.New("amount must be positive and at most 999999.99")

// Gateway creates payment intents and hands back the client secret the
// browser uses to complete the charge.
type Gateway interface {
	CreateIntent(ctx context.Context, amountMinor int64) (clientSecret string, err error)
}

// MinorUnits converts a decimal price into integer minor currency units,
// e.g. 19.99 -> 1999.
func MinorUnits(price float64) (int64, error) {
	amount := decimal.NewFromFloat(price).Shift(2).Round(0)
	if !amount.IsPositive() || amount.GreaterThan(decimal.NewFromInt(MaxAmountMinor)) {
		return 0, ErrInvalidAmount
	}
	return amount.IntPart(), nil
}
