package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Shantanumtk/AWS-EKS-CloudShelf-Microservices-Project/cart-service/internal/clients"
	"github.com/Shantanumtk/AWS-EKS-CloudShelf-Microservices-Project/cart-service/internal/config"
	carthttp "github.com/Shantanumtk/AWS-EKS-CloudShelf-Microservices-Project/cart-service/internal/http"
	"github.com/Shantanumtk/AWS-EKS-CloudShelf-Microservices-Project/cart-service/internal/repository"
	"github.com/Shantanumtk/AWS-EKS-CloudShelf-Microservices-Project/cart-service/internal/service"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	repo := repository.NewRedisRepository(redisClient)
	stockClient := clients.NewStockClient(cfg.StockServiceURL, cfg.ClientTimeout)
	orderClient := clients.NewOrderClient(cfg.OrderServiceURL, cfg.ClientTimeout)
	cartService := service.NewCartService(repo, stockClient, orderClient, logger)

	handler := carthttp.NewCartHandler(cartService, logger, cfg.RequestTimeout)
	router := carthttp.NewRouter(handler, logger, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("cart service listening", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down cart service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Fatal("cart service failed", zap.Error(err))
	}
	logger.Info("cart service stopped")
}
