package dto

import (
	"time"

	"github.com/devgate/monetize/internal/billing"
	"github.com/shopspring/decimal"
)

// BalanceResponse represents a prepaid balance snapshot in responses
type BalanceResponse struct {
	DeveloperID  string          `json:"developer_id"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	Topups       decimal.Decimal `json:"topups"`
	CurrentUsage decimal.Decimal `json:"current_usage"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewBalanceResponse creates a response from a billing balance snapshot
func NewBalanceResponse(b *billing.Balance) *BalanceResponse {
	if b == nil {
		return nil
	}

	return &BalanceResponse{
		DeveloperID:  b.DeveloperID,
		Currency:     b.Currency,
		Amount:       b.Amount,
		Topups:       b.Topups,
		CurrentUsage: b.CurrentUsage,
		UpdatedAt:    b.UpdatedAt,
	}
}
