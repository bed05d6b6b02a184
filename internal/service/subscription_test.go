package service

import (
	"context"
	"testing"
	"time"

	"github.com/devgate/monetize/internal/api/dto"
	"github.com/devgate/monetize/internal/cache"
	"github.com/devgate/monetize/internal/domain/developer"
	"github.com/devgate/monetize/internal/domain/rateplan"
	"github.com/devgate/monetize/internal/domain/subscription"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/idempotency"
	"github.com/devgate/monetize/internal/messenger"
	"github.com/devgate/monetize/internal/testutil"
	"github.com/devgate/monetize/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// newTestServiceParams wires ServiceParams against the suite's in-memory
// stores and collaborators, bound to the given request-scoped recorder.
func newTestServiceParams(base *testutil.BaseServiceTestSuite, rec *messenger.Recorder) ServiceParams {
	stores := base.GetStores()
	return ServiceParams{
		Logger:         base.GetLogger(),
		Config:         base.GetConfig(),
		DB:             base.GetDB(),
		DeveloperRepo:  stores.DeveloperRepo,
		RatePlanRepo:   stores.RatePlanRepo,
		SubRepo:        stores.SubRepo,
		TopupRepo:      stores.TopupRepo,
		OrderRepo:      stores.OrderRepo,
		ProductRepo:    stores.ProductRepo,
		BalanceService: base.GetBalances(),
		Messenger:      rec,
		Cache:          base.GetCache(),
		TopupPublisher: base.GetPublisher(),
		IdempGen:       idempotency.NewGenerator(),
	}
}

type SubscriptionServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  SubscriptionService
	recorder *messenger.Recorder
	dev      *developer.Developer
	plan     *rateplan.RatePlan
}

func TestSubscriptionService(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.recorder = messenger.NewRecorder()
	s.service = NewSubscriptionService(newTestServiceParams(&s.BaseServiceTestSuite, s.recorder))
	s.seedData()
}

func (s *SubscriptionServiceSuite) seedData() {
	ctx := s.GetContext()

	s.dev = &developer.Developer{
		ID:          "developer-1",
		Email:       "dev@example.com",
		DisplayName: "Dev One",
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().DeveloperRepo.Create(ctx, s.dev))

	s.plan = &rateplan.RatePlan{
		ID:           "plan-gold",
		Name:         "gold",
		DisplayName:  "Gold",
		Currency:     "USD",
		SetupFee:     decimal.NewFromInt(10),
		RecurringFee: decimal.NewFromInt(30),
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().RatePlanRepo.Create(ctx, s.plan))
}

func (s *SubscriptionServiceSuite) seedSubscription(id string, start time.Time, end *time.Time) *subscription.Subscription {
	ctx := s.GetContext()
	sub := &subscription.Subscription{
		ID:          id,
		DeveloperID: s.dev.ID,
		RatePlanID:  s.plan.ID,
		StartDate:   start,
		EndDate:     end,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().SubRepo.Create(ctx, sub))
	return sub
}

func (s *SubscriptionServiceSuite) TestSubscribeNow() {
	resp, err := s.service.Subscribe(s.GetContext(), &dto.SubscribeRequest{
		DeveloperID: s.dev.ID,
		RatePlanID:  s.plan.ID,
		StartType:   types.ScheduleTypeNow,
	})
	s.NoError(err)
	s.NotNil(resp)
	s.Equal(s.dev.ID, resp.DeveloperID)
	s.Equal(s.plan.ID, resp.RatePlanID)
	s.WithinDuration(time.Now().UTC(), resp.StartDate, 2*time.Second)
	s.Nil(resp.EndDate)

	s.Require().Len(resp.Messages, 1)
	s.Equal(messenger.SeverityStatus, resp.Messages[0].Severity)
	s.Equal("You have purchased the Gold plan", resp.Messages[0].Text)

	stored, err := s.GetStores().SubRepo.Get(s.GetContext(), resp.ID)
	s.NoError(err)
	s.Equal(resp.ID, stored.ID)
}

func (s *SubscriptionServiceSuite) TestSubscribeOnFutureDate() {
	resp, err := s.service.Subscribe(s.GetContext(), &dto.SubscribeRequest{
		DeveloperID: s.dev.ID,
		RatePlanID:  s.plan.ID,
		StartType:   types.ScheduleTypeOnDate,
		StartDate:   "2030-04-01",
	})
	s.NoError(err)
	s.NotNil(resp)
	s.True(resp.StartDate.Equal(time.Date(2030, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func (s *SubscriptionServiceSuite) TestSubscribeOnDateWithoutDate() {
	resp, err := s.service.Subscribe(s.GetContext(), &dto.SubscribeRequest{
		DeveloperID: s.dev.ID,
		RatePlanID:  s.plan.ID,
		StartType:   types.ScheduleTypeOnDate,
	})
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsValidation(err))
	s.Equal("Please make sure to specify a date", ierr.Hint(err))
}

func (s *SubscriptionServiceSuite) TestSubscribeOnPastDate() {
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(types.DateFormat)

	resp, err := s.service.Subscribe(s.GetContext(), &dto.SubscribeRequest{
		DeveloperID: s.dev.ID,
		RatePlanID:  s.plan.ID,
		StartType:   types.ScheduleTypeOnDate,
		StartDate:   yesterday,
	})
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsValidation(err))
	s.Equal("The date should be a future date", ierr.Hint(err))
}

func (s *SubscriptionServiceSuite) TestSubscribeOnCurrentDate() {
	// Midnight of today is never strictly after now, so today counts as
	// a past date.
	today := time.Now().UTC().Format(types.DateFormat)

	_, err := s.service.Subscribe(s.GetContext(), &dto.SubscribeRequest{
		DeveloperID: s.dev.ID,
		RatePlanID:  s.plan.ID,
		StartType:   types.ScheduleTypeOnDate,
		StartDate:   today,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *SubscriptionServiceSuite) TestSubscribeUnknownDeveloper() {
	_, err := s.service.Subscribe(s.GetContext(), &dto.SubscribeRequest{
		DeveloperID: "developer-missing",
		RatePlanID:  s.plan.ID,
		StartType:   types.ScheduleTypeNow,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestSubscribeUnknownRatePlan() {
	_, err := s.service.Subscribe(s.GetContext(), &dto.SubscribeRequest{
		DeveloperID: s.dev.ID,
		RatePlanID:  "plan-missing",
		StartType:   types.ScheduleTypeNow,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestSubscribeConflictReportsWarning() {
	params := newTestServiceParams(&s.BaseServiceTestSuite, s.recorder)
	params.SubRepo = &conflictingSubscriptionStore{Repository: params.SubRepo}
	svc := NewSubscriptionService(params)

	resp, err := svc.Subscribe(s.GetContext(), &dto.SubscribeRequest{
		DeveloperID: s.dev.ID,
		RatePlanID:  s.plan.ID,
		StartType:   types.ScheduleTypeNow,
	})
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsAlreadyExists(err))

	msgs := s.recorder.Messages()
	s.Require().Len(msgs, 1)
	s.Equal(messenger.SeverityWarning, msgs[0].Severity)
	s.Equal("Unable to purchase the Gold plan", msgs[0].Text)
}

func (s *SubscriptionServiceSuite) TestSubscribeInvalidatesListingCache() {
	ctx := s.GetContext()
	key := cache.SubscriptionListKey(s.dev.ID) + ":limit:10"
	s.GetCache().Set(ctx, key, "cached", 0)

	_, err := s.service.Subscribe(ctx, &dto.SubscribeRequest{
		DeveloperID: s.dev.ID,
		RatePlanID:  s.plan.ID,
		StartType:   types.ScheduleTypeNow,
	})
	s.NoError(err)

	_, found := s.GetCache().Get(ctx, key)
	s.False(found)
}

func (s *SubscriptionServiceSuite) TestUnsubscribeNow() {
	sub := s.seedSubscription("sub-1", time.Now().UTC().AddDate(0, -1, 0), nil)

	resp, err := s.service.Unsubscribe(s.GetContext(), sub.ID, &dto.UnsubscribeRequest{
		EndType: types.ScheduleTypeNow,
	})
	s.NoError(err)
	s.Require().NotNil(resp)
	s.Require().NotNil(resp.EndDate)

	// Ending now lands on 23:59:59 of the previous day.
	expected := types.EndOfPreviousDay(time.Now().UTC())
	s.True(resp.EndDate.Equal(expected), "end date %s, want %s", resp.EndDate, expected)

	s.Require().Len(resp.Messages, 1)
	s.Equal(messenger.SeverityStatus, resp.Messages[0].Severity)
	s.Equal("You have successfully cancelled the Gold plan", resp.Messages[0].Text)

	stored, err := s.GetStores().SubRepo.Get(s.GetContext(), sub.ID)
	s.NoError(err)
	s.Require().NotNil(stored.EndDate)
	s.True(stored.EndDate.Equal(expected))
}

func (s *SubscriptionServiceSuite) TestUnsubscribeOnFutureDate() {
	sub := s.seedSubscription("sub-1", time.Now().UTC().AddDate(0, -1, 0), nil)

	resp, err := s.service.Unsubscribe(s.GetContext(), sub.ID, &dto.UnsubscribeRequest{
		EndType: types.ScheduleTypeOnDate,
		EndDate: "2030-06-15",
	})
	s.NoError(err)
	s.Require().NotNil(resp.EndDate)
	s.True(resp.EndDate.Equal(time.Date(2030, 6, 15, 0, 0, 0, 0, time.UTC)))
}

func (s *SubscriptionServiceSuite) TestUnsubscribeOnPastDate() {
	sub := s.seedSubscription("sub-1", time.Now().UTC().AddDate(0, -1, 0), nil)
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(types.DateFormat)

	_, err := s.service.Unsubscribe(s.GetContext(), sub.ID, &dto.UnsubscribeRequest{
		EndType: types.ScheduleTypeOnDate,
		EndDate: yesterday,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.Equal("The date should be a future date", ierr.Hint(err))
}

func (s *SubscriptionServiceSuite) TestUnsubscribeOnDateWithoutDate() {
	sub := s.seedSubscription("sub-1", time.Now().UTC().AddDate(0, -1, 0), nil)

	_, err := s.service.Unsubscribe(s.GetContext(), sub.ID, &dto.UnsubscribeRequest{
		EndType: types.ScheduleTypeOnDate,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.Equal("Please make sure to specify a date", ierr.Hint(err))
}

func (s *SubscriptionServiceSuite) TestUnsubscribeAlreadyEnded() {
	ended := time.Now().UTC().AddDate(0, 0, -2)
	sub := s.seedSubscription("sub-1", time.Now().UTC().AddDate(0, -1, 0), &ended)

	_, err := s.service.Unsubscribe(s.GetContext(), sub.ID, &dto.UnsubscribeRequest{
		EndType: types.ScheduleTypeNow,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
	s.Equal("This plan has already been cancelled", ierr.Hint(err))
}

func (s *SubscriptionServiceSuite) TestUnsubscribeNotFound() {
	_, err := s.service.Unsubscribe(s.GetContext(), "sub-missing", &dto.UnsubscribeRequest{
		EndType: types.ScheduleTypeNow,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestGetSubscription() {
	sub := s.seedSubscription("sub-1", time.Now().UTC(), nil)

	resp, err := s.service.GetSubscription(s.GetContext(), sub.ID)
	s.NoError(err)
	s.Equal(sub.ID, resp.ID)
	s.Equal(s.dev.ID, resp.DeveloperID)
}

func (s *SubscriptionServiceSuite) TestGetSubscriptionNotFound() {
	_, err := s.service.GetSubscription(s.GetContext(), "sub-missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *SubscriptionServiceSuite) TestListSubscriptionsActiveOnly() {
	now := time.Now().UTC()
	past := now.AddDate(0, 0, -5)
	s.seedSubscription("sub-active", now.AddDate(0, -1, 0), nil)
	s.seedSubscription("sub-ended", now.AddDate(0, -2, 0), &past)
	s.seedSubscription("sub-future", now.AddDate(0, 1, 0), nil)

	resp, err := s.service.ListSubscriptions(s.GetContext(), &types.SubscriptionFilter{
		DeveloperID: s.dev.ID,
		ActiveOnly:  true,
	})
	s.NoError(err)
	s.Require().Len(resp.Items, 1)
	s.Equal("sub-active", resp.Items[0].ID)
	s.Equal(1, resp.Pagination.Total)
}

func (s *SubscriptionServiceSuite) TestListSubscriptionsByDeveloper() {
	now := time.Now().UTC()
	s.seedSubscription("sub-1", now, nil)
	s.seedSubscription("sub-2", now, nil)

	resp, err := s.service.ListSubscriptions(s.GetContext(), &types.SubscriptionFilter{
		DeveloperID: s.dev.ID,
	})
	s.NoError(err)
	s.Len(resp.Items, 2)
	s.Equal(2, resp.Pagination.Total)

	resp, err = s.service.ListSubscriptions(s.GetContext(), &types.SubscriptionFilter{
		DeveloperID: "developer-other",
	})
	s.NoError(err)
	s.Empty(resp.Items)
	s.Equal(0, resp.Pagination.Total)
}

func (s *SubscriptionServiceSuite) TestListSubscriptionsServedFromCache() {
	now := time.Now().UTC()
	s.seedSubscription("sub-1", now, nil)

	filter := &types.SubscriptionFilter{DeveloperID: s.dev.ID}

	resp, err := s.service.ListSubscriptions(s.GetContext(), filter)
	s.NoError(err)
	s.Require().Len(resp.Items, 1)

	// A write that bypasses the service leaves the cached page intact.
	s.seedSubscription("sub-2", now, nil)

	resp, err = s.service.ListSubscriptions(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 1)

	// A purchase through the service invalidates the page.
	_, err = s.service.Subscribe(s.GetContext(), &dto.SubscribeRequest{
		DeveloperID: s.dev.ID,
		RatePlanID:  s.plan.ID,
		StartType:   types.ScheduleTypeNow,
	})
	s.NoError(err)

	resp, err = s.service.ListSubscriptions(s.GetContext(), filter)
	s.NoError(err)
	s.Len(resp.Items, 3)
	s.Equal(3, resp.Pagination.Total)
}

// conflictingSubscriptionStore refuses every write with a conflict so the
// duplicate purchase path can be exercised.
type conflictingSubscriptionStore struct {
	subscription.Repository
}

func (s *conflictingSubscriptionStore) Create(ctx context.Context, sub *subscription.Subscription) error {
	return ierr.NewError("duplicate subscription").
		Mark(ierr.ErrAlreadyExists)
}
