package consumer

import (
	"encoding/json"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/devgate/monetize/internal/domain/developer"
	"github.com/devgate/monetize/internal/domain/topup"
	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/devgate/monetize/internal/idempotency"
	"github.com/devgate/monetize/internal/messenger"
	"github.com/devgate/monetize/internal/pubsub/memory"
	"github.com/devgate/monetize/internal/publisher"
	"github.com/devgate/monetize/internal/service"
	"github.com/devgate/monetize/internal/testutil"
	"github.com/devgate/monetize/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TopupConsumerSuite struct {
	testutil.BaseServiceTestSuite
	consumer *topupConsumer
	fallback *messenger.Recorder
	dev      *developer.Developer
}

func TestTopupConsumer(t *testing.T) {
	suite.Run(t, new(TopupConsumerSuite))
}

func (s *TopupConsumerSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	// The fallback recorder stands in for the process-wide messenger the
	// consumer's params carry at startup.
	s.fallback = messenger.NewRecorder()

	stores := s.GetStores()
	params := service.ServiceParams{
		Logger:         s.GetLogger(),
		Config:         s.GetConfig(),
		DB:             s.GetDB(),
		DeveloperRepo:  stores.DeveloperRepo,
		RatePlanRepo:   stores.RatePlanRepo,
		SubRepo:        stores.SubRepo,
		TopupRepo:      stores.TopupRepo,
		OrderRepo:      stores.OrderRepo,
		ProductRepo:    stores.ProductRepo,
		BalanceService: s.GetBalances(),
		Messenger:      s.fallback,
		Cache:          s.GetCache(),
		TopupPublisher: s.GetPublisher(),
		IdempGen:       idempotency.NewGenerator(),
	}

	ps := memory.NewPubSub(s.GetLogger())
	s.consumer = NewTopupConsumer(ps, params, s.GetLogger()).(*topupConsumer)

	s.seedData()
}

func (s *TopupConsumerSuite) seedData() {
	ctx := s.GetContext()

	s.dev = &developer.Developer{
		ID:          "developer-1",
		Email:       "dev@example.com",
		DisplayName: "Dev One",
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
	s.NoError(s.GetStores().DeveloperRepo.Create(ctx, s.dev))
}

func (s *TopupConsumerSuite) seedPendingTopup(id string) *topup.Topup {
	ctx := s.GetContext()
	t := &topup.Topup{
		ID:          id,
		DeveloperID: s.dev.ID,
		Amount:      decimal.NewFromFloat(25.00),
		Currency:    "USD",
		OrderID:     "order-" + id,
		Scope:       types.AdjustmentScopeDeveloper,
		TopupStatus: types.TopupStatusPending,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
	s.Require().NoError(s.GetStores().TopupRepo.Create(ctx, t))
	return t
}

func (s *TopupConsumerSuite) newMessage(payload publisher.TopupMessage) *message.Message {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)
	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.SetContext(s.GetContext())
	return msg
}

func (s *TopupConsumerSuite) TestProcessMessage() {
	t := s.seedPendingTopup("topup-1")

	err := s.consumer.processMessage(s.newMessage(publisher.TopupMessage{
		TopupID:  t.ID,
		TenantID: types.DefaultTenantID,
		UserID:   types.DefaultUserID,
	}))
	s.NoError(err)

	stored, err := s.GetStores().TopupRepo.Get(s.GetContext(), t.ID)
	s.NoError(err)
	s.Equal(types.TopupStatusFinished, stored.TopupStatus)

	balance, err := s.GetBalances().Get(s.GetContext(), s.dev.ID, "USD")
	s.NoError(err)
	s.True(balance.Amount.Equal(decimal.NewFromFloat(25.00)))
}

func (s *TopupConsumerSuite) TestProcessMessageScopesMessengerPerDelivery() {
	// Status messages belong to the delivery, not the process. After many
	// messages the consumer's own recorder must stay empty.
	const n = 100
	for i := 0; i < n; i++ {
		t := s.seedPendingTopup(types.GenerateUUID())
		err := s.consumer.processMessage(s.newMessage(publisher.TopupMessage{
			TopupID:  t.ID,
			TenantID: types.DefaultTenantID,
			UserID:   types.DefaultUserID,
		}))
		s.Require().NoError(err)
	}

	s.Equal(n, s.GetBalances().CreditCalls())
	s.Empty(s.fallback.Messages())
}

func (s *TopupConsumerSuite) TestProcessMessageMalformedPayload() {
	msg := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
	msg.SetContext(s.GetContext())

	// Malformed payloads are dropped, not retried.
	s.NoError(s.consumer.processMessage(msg))
	s.Zero(s.GetBalances().CreditCalls())
}

func (s *TopupConsumerSuite) TestProcessMessageStaleDelivery() {
	t := s.seedPendingTopup("topup-done")
	t.TopupStatus = types.TopupStatusFinished
	s.Require().NoError(s.GetStores().TopupRepo.Update(s.GetContext(), t))

	// A redelivery of an already-executed top-up is acked without
	// touching the balance.
	err := s.consumer.processMessage(s.newMessage(publisher.TopupMessage{
		TopupID:  t.ID,
		TenantID: types.DefaultTenantID,
		UserID:   types.DefaultUserID,
	}))
	s.NoError(err)
	s.Zero(s.GetBalances().CreditCalls())
}

func (s *TopupConsumerSuite) TestProcessMessageUnknownTopup() {
	err := s.consumer.processMessage(s.newMessage(publisher.TopupMessage{
		TopupID:  "topup-missing",
		TenantID: types.DefaultTenantID,
		UserID:   types.DefaultUserID,
	}))
	s.NoError(err)
}

func (s *TopupConsumerSuite) TestProcessMessageBillingFailure() {
	t := s.seedPendingTopup("topup-err")
	s.GetBalances().SetCreditError(ierr.NewError("billing unavailable").
		WithHint("Credit request failed").
		Mark(ierr.ErrHTTPClient))

	err := s.consumer.processMessage(s.newMessage(publisher.TopupMessage{
		TopupID:  t.ID,
		TenantID: types.DefaultTenantID,
		UserID:   types.DefaultUserID,
	}))
	// The failure is recorded on the row and surfaced for the router.
	s.Error(err)

	stored, err := s.GetStores().TopupRepo.Get(s.GetContext(), t.ID)
	s.NoError(err)
	s.Equal(types.TopupStatusFailed, stored.TopupStatus)
}
