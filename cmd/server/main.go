package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gandalf/internal/audit"
	"gandalf/internal/category"
	"gandalf/internal/commons"
	"gandalf/internal/infrastructure/logger"
	"gandalf/internal/infrastructure/mongodb"
	"gandalf/internal/middleware"
	"gandalf/internal/order"
	"gandalf/internal/payment"
	"gandalf/internal/product"
	"gandalf/internal/server"
	"gandalf/internal/user"
)

func main() {
	cfg, err := commons.LoadConfig("internal/config/config.yaml")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	client, err := mongodb.NewConnection(context.Background(), cfg.Database)
	if err != nil {
		// Startup is the one place a store failure is fatal; no retry loop.
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			zapLogger.Error("disconnecting from database", zap.Error(err))
		}
	}()
	zapLogger.Info("database connected", zap.String("db", cfg.Database.Name))

	recorder := audit.NewRecorder(client, cfg.Database.Name, zapLogger)
	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.Currency, zapLogger)

	productModule := product.NewModule(client, cfg, zapLogger)
	userModule := user.NewModule(client, cfg, zapLogger)
	orderCtrl := order.NewModule(client, cfg, gateway, productModule.Service, userModule.Service, recorder, zapLogger)
	categoryCtrl := category.NewController(category.NewMongoRepository(client, cfg.Database.Name), zapLogger)

	metrics := middleware.NewRequestMetrics("api")

	router := server.NewRouter(server.Controllers{
		Orders:     orderCtrl,
		Products:   productModule.Controller,
		Users:      userModule.Controller,
		Categories: categoryCtrl,
	}, client, metrics, recorder, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
