package dto

import (
	"github.com/devgate/monetize/internal/domain/subscription"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/messenger"
	"github.com/devgate/monetize/internal/types"
	"github.com/devgate/monetize/internal/validator"
)

// SubscribeRequest represents the request to purchase a rate plan.
// StartDate is required when StartType is on_date and must be a future
// date; it is ignored for an immediate start.
type SubscribeRequest struct {
	DeveloperID string             `json:"developer_id" binding:"required"`
	RatePlanID  string             `json:"rate_plan_id" binding:"required"`
	StartType   types.ScheduleType `json:"start_type" binding:"required"`
	StartDate   string             `json:"start_date,omitempty"`
}

func (r *SubscribeRequest) Validate() error {
	if r.DeveloperID == "" {
		return ierr.NewError("developer_id cannot be empty").
			WithHint("Developer is required").
			Mark(ierr.ErrValidation)
	}
	if r.RatePlanID == "" {
		return ierr.NewError("rate_plan_id cannot be empty").
			WithHint("Rate plan is required").
			Mark(ierr.ErrValidation)
	}
	if err := r.StartType.Validate(); err != nil {
		return err
	}

	return validator.ValidateRequest(r)
}

// UnsubscribeRequest represents the request to end a subscription.
// EndDate is required when EndType is on_date and must be a future date.
type UnsubscribeRequest struct {
	EndType types.ScheduleType `json:"end_type" binding:"required"`
	EndDate string             `json:"end_date,omitempty"`
}

func (r *UnsubscribeRequest) Validate() error {
	if err := r.EndType.Validate(); err != nil {
		return err
	}

	return validator.ValidateRequest(r)
}

// SubscriptionResponse represents a subscription in responses, together
// with any user-facing messages emitted while handling the operation.
type SubscriptionResponse struct {
	subscription.Subscription
	Messages []messenger.Message `json:"messages,omitempty"`
}

// NewSubscriptionResponse creates a response from a domain subscription
func NewSubscriptionResponse(s *subscription.Subscription) *SubscriptionResponse {
	if s == nil {
		return nil
	}

	return &SubscriptionResponse{
		Subscription: *s,
	}
}

// WithMessages attaches user-facing messages to the response
func (r *SubscriptionResponse) WithMessages(msgs []messenger.Message) *SubscriptionResponse {
	if r == nil {
		return nil
	}
	r.Messages = msgs
	return r
}

// ListSubscriptionsResponse represents the response for listing subscriptions
type ListSubscriptionsResponse = types.ListResponse[*SubscriptionResponse]
