package service

import (
	"context"
	"fmt"
	"time"

	"github.com/devgate/monetize/internal/api/dto"
	"github.com/devgate/monetize/internal/cache"
	"github.com/devgate/monetize/internal/domain/rateplan"
	"github.com/devgate/monetize/internal/domain/subscription"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/types"
	"github.com/samber/lo"
)

// SubscriptionService owns the rate plan subscription lifecycle: purchase
// with a now-or-future start, cancellation with a now-or-future end, and
// the read operations backing the "my subscriptions" listings.
type SubscriptionService interface {
	Subscribe(ctx context.Context, req *dto.SubscribeRequest) (*dto.SubscriptionResponse, error)
	Unsubscribe(ctx context.Context, id string, req *dto.UnsubscribeRequest) (*dto.SubscriptionResponse, error)
	GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	ListSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error)
}

type subscriptionService struct {
	ServiceParams
}

func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, req *dto.SubscribeRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dev, err := s.DeveloperRepo.Get(ctx, req.DeveloperID)
	if err != nil {
		return nil, err
	}

	plan, err := s.RatePlanRepo.Get(ctx, req.RatePlanID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	startDate, err := resolveScheduledDate(req.StartType, req.StartDate, now)
	if err != nil {
		return nil, err
	}

	sub := &subscription.Subscription{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		DeveloperID: dev.ID,
		RatePlanID:  plan.ID,
		StartDate:   startDate,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	if err := s.save(ctx, sub, plan, fmt.Sprintf("You have purchased the %s plan", plan.DisplayName)); err != nil {
		return nil, err
	}

	return dto.NewSubscriptionResponse(sub).WithMessages(s.Messenger.Messages()), nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, id string, req *dto.UnsubscribeRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if sub.EndDate != nil {
		return nil, ierr.NewError("subscription already ended").
			WithHint("This plan has already been cancelled").
			WithReportableDetails(map[string]any{
				"subscription_id": sub.ID,
				"end_date":        sub.EndDate,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	plan, err := s.RatePlanRepo.Get(ctx, sub.RatePlanID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var endDate time.Time
	switch req.EndType {
	case types.ScheduleTypeNow:
		// Ending at 23:59:59 of the previous day keeps the plan out of
		// today's billing day.
		endDate = types.EndOfPreviousDay(now)
	case types.ScheduleTypeOnDate:
		// The future-date rule is enforced here the same way it is on
		// subscribe, so both boundaries follow one validation policy.
		endDate, err = resolveScheduledDate(types.ScheduleTypeOnDate, req.EndDate, now)
		if err != nil {
			return nil, err
		}
	}

	sub.EndDate = &endDate
	sub.UpdatedAt = now
	sub.UpdatedBy = types.GetUserID(ctx)

	if err := s.update(ctx, sub, plan, fmt.Sprintf("You have successfully cancelled the %s plan", plan.DisplayName)); err != nil {
		return nil, err
	}

	return dto.NewSubscriptionResponse(sub).WithMessages(s.Messenger.Messages()), nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.NewSubscriptionResponse(sub), nil
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error) {
	if filter == nil {
		filter = &types.SubscriptionFilter{}
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	// Pages are cached under the developer's prefix so a purchase or
	// cancellation can drop all of them with one prefix delete.
	cacheKey := subscriptionListCacheKey(filter)
	if cacheKey != "" {
		if cached, ok := s.Cache.Get(ctx, cacheKey); ok {
			if resp, ok := cached.(*dto.ListSubscriptionsResponse); ok {
				return resp, nil
			}
		}
	}

	subs, err := s.SubRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.SubRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SubscriptionResponse, len(subs))
	for i, sub := range subs {
		items[i] = dto.NewSubscriptionResponse(sub)
	}

	resp := lo.ToPtr(types.NewListResponse(items, count, filter.GetLimit(), filter.GetOffset()))
	if cacheKey != "" {
		s.Cache.Set(ctx, cacheKey, resp, cache.DefaultListExpiration)
	}
	return resp, nil
}

// subscriptionListCacheKey keys one page of a developer's listings.
// Listings without a developer filter are not cached; no write path would
// know to invalidate them.
func subscriptionListCacheKey(filter *types.SubscriptionFilter) string {
	if filter.DeveloperID == "" {
		return ""
	}
	return cache.GenerateKey(cache.PrefixSubscription,
		filter.DeveloperID,
		filter.RatePlanID,
		filter.ActiveOnly,
		filter.GetLimit(),
		filter.GetOffset(),
	)
}

// save persists a new subscription and reports the outcome to the user.
// The listing cache is only invalidated after a successful write.
func (s *subscriptionService) save(ctx context.Context, sub *subscription.Subscription, plan *rateplan.RatePlan, successText string) error {
	if err := s.SubRepo.Create(ctx, sub); err != nil {
		s.reportSaveFailure(err, plan)
		return err
	}

	s.Messenger.AddStatus(successText)
	s.Cache.DeleteByPrefix(ctx, cache.SubscriptionListKey(sub.DeveloperID))
	return nil
}

func (s *subscriptionService) update(ctx context.Context, sub *subscription.Subscription, plan *rateplan.RatePlan, successText string) error {
	if err := s.SubRepo.Update(ctx, sub); err != nil {
		s.reportSaveFailure(err, plan)
		return err
	}

	s.Messenger.AddStatus(successText)
	s.Cache.DeleteByPrefix(ctx, cache.SubscriptionListKey(sub.DeveloperID))
	return nil
}

func (s *subscriptionService) reportSaveFailure(err error, plan *rateplan.RatePlan) {
	// Conflicts mean the write was refused, not broken; everything else
	// is surfaced as an error with the failure reason.
	if ierr.IsAlreadyExists(err) {
		s.Messenger.AddWarning(fmt.Sprintf("Unable to purchase the %s plan", plan.DisplayName))
		return
	}
	s.Messenger.AddError(err.Error())
}

// resolveScheduledDate turns a schedule choice into a concrete timestamp.
// For on_date the supplied date must be present and strictly in the future.
func resolveScheduledDate(scheduleType types.ScheduleType, value string, now time.Time) (time.Time, error) {
	if scheduleType == types.ScheduleTypeNow {
		return now, nil
	}

	if value == "" {
		return time.Time{}, ierr.NewError("date is required for on_date scheduling").
			WithHint("Please make sure to specify a date").
			Mark(ierr.ErrValidation)
	}

	date, err := types.ParseDate(value)
	if err != nil {
		return time.Time{}, err
	}

	if !date.After(now) {
		return time.Time{}, ierr.NewError("date must be in the future").
			WithHint("The date should be a future date").
			WithReportableDetails(map[string]any{
				"date": value,
				"now":  now,
			}).
			Mark(ierr.ErrValidation)
	}

	return date, nil
}
