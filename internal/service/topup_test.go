package service

import (
	"testing"

	"github.com/devgate/monetize/internal/api/dto"
	"github.com/devgate/monetize/internal/domain/developer"
	"github.com/devgate/monetize/internal/domain/topup"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/messenger"
	"github.com/devgate/monetize/internal/testutil"
	"github.com/devgate/monetize/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TopupServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  TopupService
	recorder *messenger.Recorder
	dev      *developer.Developer
}

func TestTopupService(t *testing.T) {
	suite.Run(t, new(TopupServiceSuite))
}

func (s *TopupServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.recorder = messenger.NewRecorder()
	s.service = NewTopupService(newTestServiceParams(&s.BaseServiceTestSuite, s.recorder))

	s.dev = &developer.Developer{
		ID:          "developer-1",
		Email:       "dev@example.com",
		DisplayName: "Dev One",
		BaseModel:   types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().DeveloperRepo.Create(s.GetContext(), s.dev))
}

func (s *TopupServiceSuite) seedTopup(id, orderID string, amount decimal.Decimal, status types.TopupStatus, scope types.AdjustmentScope) *topup.Topup {
	ctx := s.GetContext()
	t := &topup.Topup{
		ID:          id,
		DeveloperID: s.dev.ID,
		Amount:      amount,
		Currency:    "USD",
		OrderID:     orderID,
		Scope:       scope,
		TopupStatus: status,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().TopupRepo.Create(ctx, t))
	return t
}

func (s *TopupServiceSuite) TestCreateTopup() {
	resp, err := s.service.CreateTopup(s.GetContext(), &dto.CreateTopupRequest{
		DeveloperID: s.dev.ID,
		Amount:      decimal.NewFromFloat(25.00),
		Currency:    "USD",
		OrderID:     "order-1",
	})
	s.NoError(err)
	s.Require().NotNil(resp)
	s.Equal(types.TopupStatusPending, resp.TopupStatus)
	s.Equal(types.AdjustmentScopeDeveloper, resp.Scope)
	s.Equal("order-1", resp.OrderID)
	s.NotEmpty(resp.Metadata["idempotency_key"])

	s.Equal([]string{resp.ID}, s.GetPublisher().Published())

	stored, err := s.GetStores().TopupRepo.Get(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal(types.TopupStatusPending, stored.TopupStatus)
}

func (s *TopupServiceSuite) TestCreateTopupDuplicateOrder() {
	req := &dto.CreateTopupRequest{
		DeveloperID: s.dev.ID,
		Amount:      decimal.NewFromFloat(25.00),
		Currency:    "USD",
		OrderID:     "order-1",
	}

	_, err := s.service.CreateTopup(s.GetContext(), req)
	s.NoError(err)

	resp, err := s.service.CreateTopup(s.GetContext(), req)
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsAlreadyExists(err))
	s.Equal("This order has already been credited", ierr.Hint(err))

	// The duplicate never reaches the queue.
	s.Len(s.GetPublisher().Published(), 1)
}

func (s *TopupServiceSuite) TestCreateTopupUnknownDeveloper() {
	_, err := s.service.CreateTopup(s.GetContext(), &dto.CreateTopupRequest{
		DeveloperID: "developer-missing",
		Amount:      decimal.NewFromFloat(25.00),
		Currency:    "USD",
		OrderID:     "order-1",
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TopupServiceSuite) TestCreateTopupNonPositiveAmount() {
	_, err := s.service.CreateTopup(s.GetContext(), &dto.CreateTopupRequest{
		DeveloperID: s.dev.ID,
		Amount:      decimal.Zero,
		Currency:    "USD",
		OrderID:     "order-1",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TopupServiceSuite) TestCreateTopupPublishFailureLeavesPending() {
	s.GetPublisher().FailNext()

	resp, err := s.service.CreateTopup(s.GetContext(), &dto.CreateTopupRequest{
		DeveloperID: s.dev.ID,
		Amount:      decimal.NewFromFloat(25.00),
		Currency:    "USD",
		OrderID:     "order-1",
	})
	s.Error(err)
	s.Nil(resp)

	// The row survives in pending so an operator can re-enqueue it.
	stored, err := s.GetStores().TopupRepo.GetByOrderID(s.GetContext(), "order-1")
	s.NoError(err)
	s.Equal(types.TopupStatusPending, stored.TopupStatus)
}

func (s *TopupServiceSuite) TestProcessTopup() {
	t := s.seedTopup("topup-1", "order-1", decimal.NewFromFloat(25.00), types.TopupStatusPending, types.AdjustmentScopeDeveloper)

	err := s.service.ProcessTopup(s.GetContext(), t.ID)
	s.NoError(err)

	stored, err := s.GetStores().TopupRepo.Get(s.GetContext(), t.ID)
	s.NoError(err)
	s.Equal(types.TopupStatusFinished, stored.TopupStatus)
	s.NotNil(stored.StartedAt)
	s.NotNil(stored.CompletedAt)
	s.Nil(stored.FailedAt)
	s.Nil(stored.ErrorSummary)

	balance, err := s.GetBalances().Get(s.GetContext(), s.dev.ID, "USD")
	s.NoError(err)
	s.True(balance.Amount.Equal(decimal.NewFromFloat(25.00)))
	s.Equal(1, s.GetBalances().CreditCalls())

	msgs := s.recorder.Messages()
	s.Require().Len(msgs, 1)
	s.Equal(messenger.SeverityStatus, msgs[0].Severity)
	s.Equal("Successfully added $25.00 (USD) to the developer balance", msgs[0].Text)
}

func (s *TopupServiceSuite) TestProcessTopupBillingFailure() {
	t := s.seedTopup("topup-1", "order-1", decimal.NewFromFloat(25.00), types.TopupStatusPending, types.AdjustmentScopeDeveloper)

	creditErr := ierr.NewError("developer balance endpoint returned 502").
		Mark(ierr.ErrHTTPClient)
	s.GetBalances().SetCreditError(creditErr)

	err := s.service.ProcessTopup(s.GetContext(), t.ID)
	s.Error(err)

	stored, getErr := s.GetStores().TopupRepo.Get(s.GetContext(), t.ID)
	s.NoError(getErr)
	s.Equal(types.TopupStatusFailed, stored.TopupStatus)
	s.NotNil(stored.StartedAt)
	s.NotNil(stored.FailedAt)
	s.Nil(stored.CompletedAt)
	s.Require().NotNil(stored.ErrorSummary)
	s.Contains(*stored.ErrorSummary, "developer balance endpoint returned 502")

	s.Empty(s.recorder.Messages())
}

func (s *TopupServiceSuite) TestProcessTopupNonPending() {
	t := s.seedTopup("topup-1", "order-1", decimal.NewFromFloat(25.00), types.TopupStatusFinished, types.AdjustmentScopeDeveloper)

	err := s.service.ProcessTopup(s.GetContext(), t.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Equal(0, s.GetBalances().CreditCalls())

	// A finished top-up is immutable.
	stored, getErr := s.GetStores().TopupRepo.Get(s.GetContext(), t.ID)
	s.NoError(getErr)
	s.Equal(types.TopupStatusFinished, stored.TopupStatus)
}

func (s *TopupServiceSuite) TestProcessTopupUnsupportedScope() {
	t := s.seedTopup("topup-1", "order-1", decimal.NewFromFloat(25.00), types.TopupStatusPending, types.AdjustmentScopeCompany)

	err := s.service.ProcessTopup(s.GetContext(), t.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	stored, getErr := s.GetStores().TopupRepo.Get(s.GetContext(), t.ID)
	s.NoError(getErr)
	s.Equal(types.TopupStatusFailed, stored.TopupStatus)
	s.Equal(0, s.GetBalances().CreditCalls())
}

func (s *TopupServiceSuite) TestProcessTopupNotFound() {
	err := s.service.ProcessTopup(s.GetContext(), "topup-missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *TopupServiceSuite) TestGetTopup() {
	t := s.seedTopup("topup-1", "order-1", decimal.NewFromFloat(25.00), types.TopupStatusPending, types.AdjustmentScopeDeveloper)

	resp, err := s.service.GetTopup(s.GetContext(), t.ID)
	s.NoError(err)
	s.Equal(t.ID, resp.ID)
	s.True(resp.Amount.Equal(t.Amount))
}

func (s *TopupServiceSuite) TestListTopupsByStatus() {
	s.seedTopup("topup-1", "order-1", decimal.NewFromFloat(10.00), types.TopupStatusPending, types.AdjustmentScopeDeveloper)
	s.seedTopup("topup-2", "order-2", decimal.NewFromFloat(20.00), types.TopupStatusFinished, types.AdjustmentScopeDeveloper)
	s.seedTopup("topup-3", "order-3", decimal.NewFromFloat(30.00), types.TopupStatusFailed, types.AdjustmentScopeDeveloper)

	status := types.TopupStatusFinished
	resp, err := s.service.ListTopups(s.GetContext(), &types.TopupFilter{
		TopupStatus: &status,
	})
	s.NoError(err)
	s.Require().Len(resp.Items, 1)
	s.Equal("topup-2", resp.Items[0].ID)
	s.Equal(1, resp.Pagination.Total)
}

func (s *TopupServiceSuite) TestListTopupsByDeveloper() {
	s.seedTopup("topup-1", "order-1", decimal.NewFromFloat(10.00), types.TopupStatusPending, types.AdjustmentScopeDeveloper)
	s.seedTopup("topup-2", "order-2", decimal.NewFromFloat(20.00), types.TopupStatusPending, types.AdjustmentScopeDeveloper)

	resp, err := s.service.ListTopups(s.GetContext(), &types.TopupFilter{
		DeveloperID: s.dev.ID,
	})
	s.NoError(err)
	s.Len(resp.Items, 2)

	resp, err = s.service.ListTopups(s.GetContext(), &types.TopupFilter{
		DeveloperID: "developer-other",
	})
	s.NoError(err)
	s.Empty(resp.Items)
}
