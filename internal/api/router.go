package api

import (
	v1 "github.com/devgate/monetize/internal/api/v1"
	"github.com/devgate/monetize/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health       *v1.HealthHandler
	Subscription *v1.SubscriptionHandler
	Topup        *v1.TopupHandler
	Balance      *v1.BalanceHandler
	Checkout     *v1.CheckoutHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
		middleware.TenantMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	subscriptions := router.Group("/subscriptions")
	{
		subscriptions.POST("", handlers.Subscription.Subscribe)
		subscriptions.GET("", handlers.Subscription.ListSubscriptions)
		subscriptions.GET("/:id", handlers.Subscription.GetSubscription)
		subscriptions.POST("/:id/cancel", handlers.Subscription.Unsubscribe)
	}

	topups := router.Group("/topups")
	{
		topups.POST("", handlers.Topup.CreateTopup)
		topups.GET("", handlers.Topup.ListTopups)
		topups.GET("/:id", handlers.Topup.GetTopup)
	}

	orders := router.Group("/orders")
	{
		orders.POST("", handlers.Checkout.CreateOrder)
		orders.GET("/:id", handlers.Checkout.GetOrder)
		orders.POST("/:id/complete", handlers.Checkout.CompleteOrder)
	}

	developers := router.Group("/developers")
	{
		developers.GET("/:id/balances/:currency", handlers.Balance.GetBalance)
	}
}
