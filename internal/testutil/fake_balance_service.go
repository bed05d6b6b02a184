package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/devgate/monetize/internal/billing"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/shopspring/decimal"
)

// FakeBalanceService implements billing.BalanceService against an
// in-memory ledger. Credit failures can be injected to exercise the
// failure handling of the top-up executor.
type FakeBalanceService struct {
	mu         sync.Mutex
	balances   map[string]*billing.Balance
	creditErr  error
	creditCnt  int
	lastAmount decimal.Decimal
}

func NewFakeBalanceService() *FakeBalanceService {
	return &FakeBalanceService{
		balances: make(map[string]*billing.Balance),
	}
}

func balanceKey(developerID, currency string) string {
	return developerID + ":" + currency
}

func (s *FakeBalanceService) Credit(ctx context.Context, developerID string, amount decimal.Decimal, currency string) (*billing.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creditCnt++
	if s.creditErr != nil {
		return nil, s.creditErr
	}

	key := balanceKey(developerID, currency)
	b, ok := s.balances[key]
	if !ok {
		b = &billing.Balance{
			DeveloperID: developerID,
			Currency:    currency,
		}
		s.balances[key] = b
	}

	b.Amount = b.Amount.Add(amount)
	b.Topups = b.Topups.Add(amount)
	b.UpdatedAt = time.Now().UTC()
	s.lastAmount = amount

	copied := *b
	return &copied, nil
}

func (s *FakeBalanceService) Get(ctx context.Context, developerID string, currency string) (*billing.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.balances[balanceKey(developerID, currency)]
	if !ok {
		return nil, ierr.NewError("balance not found").
			WithHint("No balance exists for this developer and currency").
			Mark(ierr.ErrNotFound)
	}

	copied := *b
	return &copied, nil
}

// SetCreditError injects an error returned by subsequent Credit calls
func (s *FakeBalanceService) SetCreditError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creditErr = err
}

// CreditCalls returns how many times Credit was invoked
func (s *FakeBalanceService) CreditCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creditCnt
}

// LastAmount returns the amount of the most recent successful credit
func (s *FakeBalanceService) LastAmount() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAmount
}

// Clear resets the ledger and injected errors
func (s *FakeBalanceService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances = make(map[string]*billing.Balance)
	s.creditErr = nil
	s.creditCnt = 0
	s.lastAmount = decimal.Zero
}
