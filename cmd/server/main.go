package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"food-ordering-api/internal/cache"
	"food-ordering-api/internal/config"
	"food-ordering-api/internal/controller"
	"food-ordering-api/internal/lifecycle"
	"food-ordering-api/internal/metrics"
	"food-ordering-api/internal/middleware"
	"food-ordering-api/internal/rabbit"
	"food-ordering-api/internal/repository"
	"food-ordering-api/internal/service"
)

func main() {
	cfg := config.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// MongoDB
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := repository.Connect(connectCtx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Error("mongo connect failed", "error", err)
		os.Exit(1)
	}
	defer db.Client().Disconnect(context.Background())

	if err := repository.EnsureIndexes(connectCtx, db); err != nil {
		log.Error("index creation failed", "error", err)
		os.Exit(1)
	}

	// Redis response cache; the API works without it.
	store, err := cache.New(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Warn("redis unavailable, response caching disabled", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	// RabbitMQ lifecycle events, optional.
	var events *rabbit.Publisher
	if cfg.RabbitURL != "" {
		conn, publisher, err := rabbit.Connect(cfg.RabbitURL, log)
		if err != nil {
			log.Warn("rabbit unavailable, lifecycle events disabled", "error", err)
		} else {
			defer conn.Close()
			events = publisher
		}
	}

	// Repositories
	users := repository.NewMongoUserRepository(db)
	products := repository.NewMongoProductRepository(db)
	orders := repository.NewMongoOrderRepository(db)
	notifications := repository.NewMongoNotificationRepository(db)
	favorites := repository.NewMongoFavoriteRepository(db)

	// Services
	m := metrics.New()
	notificationService := service.NewNotificationService(notifications, users, m, log)
	authService := service.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL)
	productService := service.NewProductService(products, notificationService, log)
	favoriteService := service.NewFavoriteService(favorites, products)
	orderService := service.NewOrderService(orders, products, notificationService, events, m, log)

	// Background order promotion
	scheduler := lifecycle.NewScheduler(orders, notificationService, events, m, lifecycle.Thresholds{
		PendingToProcessing: cfg.PendingToProcessing,
		ProcessingToShipped: cfg.ProcessingToShipped,
		ShippedToDelivered:  cfg.ShippedToDelivered,
	}, cfg.ScanInterval, log)
	scheduler.Start(ctx)

	// Controllers
	authCtl := controller.NewAuthController(authService)
	productCtl := controller.NewProductController(productService, store)
	favoriteCtl := controller.NewFavoriteController(favoriteService)
	orderCtl := controller.NewOrderController(orderService)
	notificationCtl := controller.NewNotificationController(notificationService)
	adminCtl := controller.NewAdminController(notificationService, scheduler)

	// Router
	r := gin.Default()

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Public routes
	r.POST("/api/auth/signup", authCtl.Signup)
	r.POST("/api/auth/login", authCtl.Login)

	productCache := middleware.CacheResponse(store, controller.ProductCacheKey, cfg.ProductCacheTTL)
	r.GET("/api/products", productCache, productCtl.List)
	r.GET("/api/products/:id", productCache, productCtl.Get)

	// Authenticated routes
	auth := r.Group("/api")
	auth.Use(middleware.AuthMiddleware(authService))

	auth.GET("/users/profile", authCtl.GetProfile)
	auth.PUT("/users/profile", authCtl.UpdateProfile)

	auth.GET("/favorites", favoriteCtl.List)
	auth.POST("/favorites", favoriteCtl.Add)
	auth.DELETE("/favorites/:productId", favoriteCtl.Remove)

	auth.POST("/orders", orderCtl.Create)
	auth.GET("/orders/user", middleware.Pagination(), orderCtl.ListMine)
	auth.GET("/orders/:id", orderCtl.Get)
	auth.DELETE("/orders/:id", orderCtl.Delete)

	auth.GET("/notifications", middleware.Pagination(), notificationCtl.List)
	auth.PATCH("/notifications/read-all", notificationCtl.MarkAllRead)
	auth.PATCH("/notifications/:id/read", notificationCtl.MarkRead)
	auth.DELETE("/notifications/:id", notificationCtl.Delete)
	auth.DELETE("/notifications", notificationCtl.ClearAll)

	// Admin routes
	admin := auth.Group("/")
	admin.Use(middleware.AdminOnly())

	admin.GET("/orders", middleware.Pagination(), orderCtl.ListAll)
	admin.PATCH("/orders/:id/status", orderCtl.UpdateStatus)

	admin.POST("/products", productCtl.Create)
	admin.PUT("/products/:id", productCtl.Update)
	admin.DELETE("/products/:id", productCtl.Delete)

	admin.POST("/admin/notifications/promotion", adminCtl.SendPromotion)
	admin.POST("/admin/notifications/system", adminCtl.SendSystemNotification)
	admin.GET("/admin/notifications/stats", adminCtl.NotificationStats)
	admin.POST("/admin/orders/auto-update", adminCtl.TriggerOrderScan)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("food ordering API listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
}
