package consumer

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/logger"
	"github.com/devgate/monetize/internal/messenger"
	"github.com/devgate/monetize/internal/pubsub"
	pubsubRouter "github.com/devgate/monetize/internal/pubsub/router"
	"github.com/devgate/monetize/internal/publisher"
	"github.com/devgate/monetize/internal/service"
	"github.com/devgate/monetize/internal/types"
)

// TopupConsumer drains the topups topic and executes each queued top-up
// against the billing backend. Execution failures are recorded on the
// top-up row; only transient errors are surfaced for the router to retry.
type TopupConsumer interface {
	RegisterHandler(router *pubsubRouter.Router)
}

type topupConsumer struct {
	pubSub pubsub.PubSub
	params service.ServiceParams
	logger *logger.Logger
}

func NewTopupConsumer(
	pubSub pubsub.PubSub,
	params service.ServiceParams,
	logger *logger.Logger,
) TopupConsumer {
	return &topupConsumer{
		pubSub: pubSub,
		params: params,
		logger: logger,
	}
}

func (c *topupConsumer) RegisterHandler(router *pubsubRouter.Router) {
	router.AddNoPublishHandler(
		"topup_handler",
		publisher.TopicTopups,
		c.pubSub,
		c.processMessage,
	)
}

// processMessage executes a single queued top-up
func (c *topupConsumer) processMessage(msg *message.Message) error {
	ctx := msg.Context()

	var payload publisher.TopupMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.logger.Errorw("failed to unmarshal topup message",
			"error", err,
			"message_uuid", msg.UUID,
		)
		// Malformed payloads will never succeed, don't retry
		return nil
	}

	ctx = types.SetTenantID(ctx, payload.TenantID)
	ctx = types.SetUserID(ctx, payload.UserID)

	c.logger.Debugw("processing topup message",
		"topup_id", payload.TopupID,
		"message_uuid", msg.UUID,
	)

	// Each message gets its own recorder so status messages are scoped to
	// the delivery instead of piling up on a shared one.
	topupService := service.NewTopupService(c.params.WithMessenger(messenger.NewRecorder()))

	if err := topupService.ProcessTopup(ctx, payload.TopupID); err != nil {
		// A missing row or a row already past pending means a duplicate
		// or stale delivery; redelivering it cannot help.
		if ierr.IsNotFound(err) || ierr.IsInvalidOperation(err) {
			c.logger.Warnw("skipping topup message",
				"error", err,
				"topup_id", payload.TopupID,
				"message_uuid", msg.UUID,
			)
			return nil
		}
		return err
	}

	return nil
}
