package service

import (
	"github.com/devgate/monetize/internal/billing"
	"github.com/devgate/monetize/internal/cache"
	"github.com/devgate/monetize/internal/config"
	"github.com/devgate/monetize/internal/domain/developer"
	"github.com/devgate/monetize/internal/domain/order"
	"github.com/devgate/monetize/internal/domain/rateplan"
	"github.com/devgate/monetize/internal/domain/subscription"
	"github.com/devgate/monetize/internal/domain/topup"
	"github.com/devgate/monetize/internal/idempotency"
	"github.com/devgate/monetize/internal/logger"
	"github.com/devgate/monetize/internal/messenger"
	"github.com/devgate/monetize/internal/postgres"
	"github.com/devgate/monetize/internal/publisher"
)

// ServiceParams bundles the dependencies services need. Collaborators are
// injected explicitly at construction; there is no runtime service lookup.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	// Repositories
	DeveloperRepo developer.Repository
	RatePlanRepo  rateplan.Repository
	SubRepo       subscription.Repository
	TopupRepo     topup.Repository
	OrderRepo     order.Repository
	ProductRepo   order.ProductRepository

	// Collaborators
	BalanceService billing.BalanceService
	Messenger      messenger.Messenger
	Cache          cache.Cache
	TopupPublisher publisher.TopupPublisher
	IdempGen       *idempotency.Generator
}

// NewServiceParams assembles the service dependency bundle. The messenger
// here is a process-wide fallback; request handlers swap in a scoped
// recorder via WithMessenger.
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	developerRepo developer.Repository,
	ratePlanRepo rateplan.Repository,
	subRepo subscription.Repository,
	topupRepo topup.Repository,
	orderRepo order.Repository,
	productRepo order.ProductRepository,
	balanceService billing.BalanceService,
	cache cache.Cache,
	topupPublisher publisher.TopupPublisher,
) ServiceParams {
	return ServiceParams{
		Logger:         logger,
		Config:         config,
		DB:             db,
		DeveloperRepo:  developerRepo,
		RatePlanRepo:   ratePlanRepo,
		SubRepo:        subRepo,
		TopupRepo:      topupRepo,
		OrderRepo:      orderRepo,
		ProductRepo:    productRepo,
		BalanceService: balanceService,
		Messenger:      messenger.NewRecorder(),
		Cache:          cache,
		TopupPublisher: topupPublisher,
		IdempGen:       idempotency.NewGenerator(),
	}
}

// WithMessenger returns a copy of the params bound to a request-scoped
// messenger so user-facing messages can be surfaced per request.
func (p ServiceParams) WithMessenger(m messenger.Messenger) ServiceParams {
	p.Messenger = m
	return p
}
