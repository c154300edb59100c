package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/vinylstore/internal/server/http/handlers"
	"github.com/polkiloo/vinylstore/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.Storefront, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID(logger))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	sessionHandler := handlers.NewSessionHandler(facade)
	cartHandler := handlers.NewCartHandler(facade, logger)
	orderHandler := handlers.NewOrderHandler(facade, logger)
	providerHandler := handlers.NewProviderHandler(facade, logger)
	notificationHandler := handlers.NewNotificationHandler(facade, logger)

	api := engine.Group("/api")
	api.GET("/health", sessionHandler.Health)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.POST("/session/logout", sessionHandler.Logout)

	cart := authed.Group("/cart")
	cart.GET("", cartHandler.Get)
	cart.DELETE("", cartHandler.Clear)
	cart.POST("/items", cartHandler.Add)
	cart.GET("/items/:productId", cartHandler.Contains)
	cart.PUT("/items/:productId", cartHandler.Update)
	cart.DELETE("/items/:productId", cartHandler.Remove)
	cart.POST("/checkout", cartHandler.Checkout)

	orders := authed.Group("/orders")
	orders.GET("", orderHandler.List)
	orders.GET("/:orderId", orderHandler.Get)
	orders.POST("/:orderId/receipt", orderHandler.ConfirmReceipt)
	orders.GET("/:orderId/review", orderHandler.Review)
	orders.POST("/:orderId/review", orderHandler.SubmitReview)

	provider := authed.Group("/provider/orders")
	provider.GET("/pending", providerHandler.Pending)
	provider.GET("/history", providerHandler.History)
	items := provider.Group("/:orderId/items/:itemId")
	items.POST("/accept", providerHandler.Accept)
	items.POST("/reject", providerHandler.Reject)
	items.POST("/ship", providerHandler.Ship)
	items.POST("/deliver", providerHandler.Deliver)

	notifications := authed.Group("/notifications")
	notifications.GET("", notificationHandler.List)
	notifications.POST("/:id/read", notificationHandler.MarkRead)
	notifications.GET("/:id/target", notificationHandler.Target)

	return engine
}
