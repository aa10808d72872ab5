package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"storefront-service/internal/auth"
	"storefront-service/internal/config"
	"storefront-service/internal/controllers/http"
	"storefront-service/internal/infra/assets"
	mmysql "storefront-service/internal/infra/mysql"
	"storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/infra/redisx"
	mysqlrepo "storefront-service/internal/repository/mysql"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}

func run(cfg config.Config) error {
	// Prices go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	db, err := mmysql.NewMySQL(cfg.MySQL)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("mysql handle: %w", err)
	}
	defer sqlDB.Close()

	productRepo := mysqlrepo.NewProductRepository(db)
	cartRepo := mysqlrepo.NewCartRepository(db)
	orderRepo := mysqlrepo.NewOrderRepository(db)
	userRepo := mysqlrepo.NewUserRepository(db)
	tx := mysqlrepo.NewTransactor(db)

	var publisher rabbitmq.PublisherInterface = rabbitmq.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return err
		}
		defer p.Close()
		publisher = p
	} else {
		slog.Warn("RABBITMQ_URL not set, order events will be dropped")
	}

	redisClient := redisx.New(cfg.RedisAddr, cfg.RedisPassword)
	defer redisClient.Close()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return err
	}

	store, err := assets.NewLocalStore(cfg.UploadDir)
	if err != nil {
		return err
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	productCache := redisx.NewProductCache(redisClient)
	events := services.NewEventEmitter(publisher)

	products := services.NewProductService(productRepo, tx, store)
	products.SetCache(productCache)
	checkout := services.NewCheckoutService(tx, events)
	checkout.SetCache(productCache)

	handler := http.NewHandler(http.Services{
		Auth:     services.NewAuthService(userRepo, tokens, redisx.NewTokenBlacklist(redisClient)),
		Users:    services.NewUserService(userRepo, store),
		Products: products,
		Carts:    services.NewCartService(cartRepo, tx),
		Checkout: checkout,
		Orders:   services.NewOrderService(orderRepo, events),
	}, store.Root())

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	http.Setup(r, cfg.CORSOrigins)
	handler.RegisterRoutes(r)

	srv := &nethttp.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting storefront service", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		events.Wait()
		return err
	})
	return g.Wait()
}
