package main

import (
	"context"
	"time"

	"github.com/devgate/monetize/internal/api"
	v1 "github.com/devgate/monetize/internal/api/v1"
	"github.com/devgate/monetize/internal/billing"
	"github.com/devgate/monetize/internal/cache"
	"github.com/devgate/monetize/internal/config"
	"github.com/devgate/monetize/internal/consumer"
	"github.com/devgate/monetize/internal/logger"
	"github.com/devgate/monetize/internal/postgres"
	"github.com/devgate/monetize/internal/pubsub"
	"github.com/devgate/monetize/internal/pubsub/memory"
	pubsubRouter "github.com/devgate/monetize/internal/pubsub/router"
	"github.com/devgate/monetize/internal/publisher"
	"github.com/devgate/monetize/internal/repository"
	"github.com/devgate/monetize/internal/service"
	"github.com/devgate/monetize/internal/types"
	"github.com/devgate/monetize/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title Monetize API
// @version 1.0
// @description Rate plan subscriptions and prepaid balance top-ups
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	opts = append(opts,
		fx.Provide(
			validator.NewValidator,
			config.NewConfig,
			logger.NewLogger,

			provideCache,

			postgres.NewDB,
			provideDBClient,

			providePubSub,
			provideTopupPublisher,
			pubsubRouter.NewRouter,

			billing.NewClient,

			repository.NewDeveloperRepository,
			repository.NewRatePlanRepository,
			repository.NewSubscriptionRepository,
			repository.NewTopupRepository,
			repository.NewOrderRepository,
			repository.NewProductRepository,
		),
	)

	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
		),
	)

	opts = append(opts,
		fx.Provide(
			provideTopupConsumer,
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideCache(log *logger.Logger) cache.Cache {
	return cache.Initialize(log)
}

func provideDBClient(db *postgres.DB) postgres.IClient {
	return db
}

func providePubSub(log *logger.Logger) pubsub.PubSub {
	return memory.NewPubSub(log)
}

func provideTopupPublisher(ps pubsub.PubSub, log *logger.Logger) publisher.TopupPublisher {
	return publisher.NewTopupPublisher(ps, log)
}

func provideTopupConsumer(
	ps pubsub.PubSub,
	params service.ServiceParams,
	log *logger.Logger,
) consumer.TopupConsumer {
	return consumer.NewTopupConsumer(ps, params, log)
}

func provideHandlers(
	params service.ServiceParams,
	balanceService billing.BalanceService,
	log *logger.Logger,
) api.Handlers {
	return api.Handlers{
		Health:       v1.NewHealthHandler(log),
		Subscription: v1.NewSubscriptionHandler(params, log),
		Topup:        v1.NewTopupHandler(params, log),
		Balance:      v1.NewBalanceHandler(balanceService, log),
		Checkout:     v1.NewCheckoutHandler(params, log),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	router *pubsubRouter.Router,
	topupConsumer consumer.TopupConsumer,
	db *postgres.DB,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			db.Close()
			return nil
		},
	})

	switch mode {
	case types.ModeLocal:
		startAPIServer(lc, r, cfg, log)
		startMessageRouter(lc, router, topupConsumer, log)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeConsumer:
		startMessageRouter(lc, router, topupConsumer, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}

func startMessageRouter(
	lc fx.Lifecycle,
	router *pubsubRouter.Router,
	topupConsumer consumer.TopupConsumer,
	log *logger.Logger,
) {
	topupConsumer.RegisterHandler(router)

	routerCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting topup consumer...")
			go func() {
				if err := router.Run(routerCtx); err != nil {
					log.Errorw("message router stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping topup consumer...")
			cancel()
			return router.Close()
		},
	})
}
