package publisher

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/logger"
	"github.com/devgate/monetize/internal/pubsub"
	"github.com/devgate/monetize/internal/types"
)

// TopicTopups carries one message per enqueued top-up. The payload is a
// TopupMessage; the consumer loads the row and executes it.
const TopicTopups = "topups"

// TopupMessage is the wire payload for a queued top-up
type TopupMessage struct {
	TopupID  string `json:"topup_id"`
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
}

// TopupPublisher enqueues top-ups for asynchronous execution
type TopupPublisher interface {
	Publish(ctx context.Context, topupID string) error
}

type topupPublisher struct {
	pubsub pubsub.Publisher
	logger *logger.Logger
}

// NewTopupPublisher creates a publisher bound to the topups topic
func NewTopupPublisher(ps pubsub.Publisher, log *logger.Logger) TopupPublisher {
	return &topupPublisher{
		pubsub: ps,
		logger: log,
	}
}

func (p *topupPublisher) Publish(ctx context.Context, topupID string) error {
	payload, err := json.Marshal(TopupMessage{
		TopupID:  topupID,
		TenantID: types.GetTenantID(ctx),
		UserID:   types.GetUserID(ctx),
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode topup message").
			Mark(ierr.ErrSystem)
	}

	msg := message.NewMessage(types.GenerateUUID(), payload)
	// Carry the originating request id as the correlation id so the
	// consumer's log lines can be tied back to the API call.
	if requestID := types.GetRequestID(ctx); requestID != "" {
		middleware.SetCorrelationID(requestID, msg)
	}
	if err := p.pubsub.Publish(ctx, TopicTopups, msg); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to enqueue topup").
			Mark(ierr.ErrSystem)
	}

	p.logger.Debugw("enqueued topup", "topup_id", topupID)
	return nil
}
