package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Balance is a snapshot of a developer's prepaid balance in one currency,
// as reported by the billing backend.
type Balance struct {
	DeveloperID  string          `json:"developer_id"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	Topups       decimal.Decimal `json:"topups"`
	CurrentUsage decimal.Decimal `json:"current_usage"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BalanceService is the contract with the external billing backend that
// owns developer prepaid balances. Credit adds funds and returns the
// updated snapshot; Get is a read-only lookup.
type BalanceService interface {
	Credit(ctx context.Context, developerID string, amount decimal.Decimal, currency string) (*Balance, error)
	Get(ctx context.Context, developerID string, currency string) (*Balance, error)
}
