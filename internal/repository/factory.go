package repository

import (
	"github.com/devgate/monetize/internal/domain/developer"
	"github.com/devgate/monetize/internal/domain/order"
	"github.com/devgate/monetize/internal/domain/rateplan"
	"github.com/devgate/monetize/internal/domain/subscription"
	"github.com/devgate/monetize/internal/domain/topup"
	"github.com/devgate/monetize/internal/logger"
	"github.com/devgate/monetize/internal/postgres"
	postgresRepo "github.com/devgate/monetize/internal/repository/postgres"
)

func NewDeveloperRepository(db *postgres.DB, logger *logger.Logger) developer.Repository {
	return postgresRepo.NewDeveloperRepository(db, logger)
}

func NewRatePlanRepository(db *postgres.DB, logger *logger.Logger) rateplan.Repository {
	return postgresRepo.NewRatePlanRepository(db, logger)
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return postgresRepo.NewSubscriptionRepository(db, logger)
}

func NewTopupRepository(db *postgres.DB, logger *logger.Logger) topup.Repository {
	return postgresRepo.NewTopupRepository(db, logger)
}

func NewOrderRepository(db *postgres.DB, logger *logger.Logger) order.Repository {
	return postgresRepo.NewOrderRepository(db, logger)
}

func NewProductRepository(db *postgres.DB, logger *logger.Logger) order.ProductRepository {
	return postgresRepo.NewProductRepository(db, logger)
}
