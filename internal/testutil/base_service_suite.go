package testutil

import (
	"context"
	"time"

	"github.com/devgate/monetize/internal/cache"
	"github.com/devgate/monetize/internal/config"
	"github.com/devgate/monetize/internal/domain/developer"
	"github.com/devgate/monetize/internal/domain/order"
	"github.com/devgate/monetize/internal/domain/rateplan"
	"github.com/devgate/monetize/internal/domain/subscription"
	"github.com/devgate/monetize/internal/domain/topup"
	"github.com/devgate/monetize/internal/logger"
	"github.com/devgate/monetize/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	DeveloperRepo developer.Repository
	RatePlanRepo  rateplan.Repository
	SubRepo       subscription.Repository
	TopupRepo     topup.Repository
	OrderRepo     order.Repository
	ProductRepo   order.ProductRepository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	db        *MockPostgresClient
	stores    Stores
	balances  *FakeBalanceService
	publisher *InMemoryTopupPublisher
	cache     cache.Cache
	logger    *logger.Logger
	config    *config.Configuration
	now       time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()

	var err error
	s.logger, err = logger.NewLogger(s.config)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.db = NewMockPostgresClient()
	s.stores = Stores{
		DeveloperRepo: NewInMemoryDeveloperStore(),
		RatePlanRepo:  NewInMemoryRatePlanStore(),
		SubRepo:       NewInMemorySubscriptionStore(),
		TopupRepo:     NewInMemoryTopupStore(),
		OrderRepo:     NewInMemoryOrderStore(),
		ProductRepo:   NewInMemoryProductStore(),
	}

	s.balances = NewFakeBalanceService()
	s.publisher = NewInMemoryTopupPublisher()
	s.cache = cache.NewInMemoryCache()
	// NewInMemoryCache returns a process-wide singleton; flush it so
	// entries cached by a previous test don't leak into this one.
	s.cache.Flush(s.ctx)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.DeveloperRepo.(*InMemoryDeveloperStore).Clear()
	s.stores.RatePlanRepo.(*InMemoryRatePlanStore).Clear()
	s.stores.SubRepo.(*InMemorySubscriptionStore).Clear()
	s.stores.TopupRepo.(*InMemoryTopupStore).Clear()
	s.stores.OrderRepo.(*InMemoryOrderStore).Clear()
	s.stores.ProductRepo.(*InMemoryProductStore).Clear()
	s.balances.Clear()
	s.publisher.Clear()
}

// ClearStores resets every store mid-test
func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetDB returns the transactionless postgres client stub
func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetBalances returns the fake billing balance service
func (s *BaseServiceTestSuite) GetBalances() *FakeBalanceService {
	return s.balances
}

// GetPublisher returns the in-memory topup publisher
func (s *BaseServiceTestSuite) GetPublisher() *InMemoryTopupPublisher {
	return s.publisher
}

// GetCache returns the test cache
func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetNow returns the fixed test start time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
