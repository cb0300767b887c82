package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuração inválida: %v", err)
	}

	zl := logger.NewForEnvironment(cfg.AppEnv, cfg.LogLevel)
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Gateway (REST ou Postgres)
	gateway, db, err := buildGateway(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("gateway setup failed", zap.String("driver", cfg.GatewayDriver), zap.Error(err))
	}
	if db != nil {
		defer db.Close()
	}

	// 2. Endereços (ViaCEP + cache Redis opcional)
	addresses, closeCache := buildAddressLookup(cfg, zl)
	defer closeCache()

	// 3. Eventos (RabbitMQ opcional)
	var (
		events  usecase.EventPublisher
		amqConn handlers.ConnState
	)
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			zl.Fatal("rabbitmq setup failed", zap.Error(err))
		}
		defer rabbitMQ.Close()

		events = queue.NewProducer(rabbitMQ.Ch)
		amqConn = rabbitMQ.Conn

		eventWorker := queue.NewWorker(rabbitMQ.Ch, buildEmailService(cfg), buildWhatsApp(cfg, zl), zl.Named("event-worker"))
		eventWorker.Record = middleware.RecordFunnelEvent
		go func() {
			if err := eventWorker.Start(ctx, queue.QueueName); err != nil {
				zl.Error("event worker stopped", zap.Error(err))
			}
		}()
	} else {
		zl.Info("RABBITMQ_URL not set, funnel events disabled")
	}

	// 4. Board
	board := usecase.NewBoard(gateway, addresses, events, zl.Named("board"))
	defer board.Close()

	if err := board.Load(ctx); err != nil {
		zl.Warn("initial funnel load failed, serving empty board until next refresh", zap.Error(err))
	}
	go worker.NewFunnelRefreshWorker(board, cfg.FunnelRefreshInterval, zl.Named("refresh")).Start(ctx)

	// 5. Router
	var pinger handlers.Pinger
	if db != nil {
		pinger = db
	}
	router := handlers.NewRouter(handlers.RouterConfig{
		Board:       handlers.NewBoardHandler(board, time.Local),
		Migration:   handlers.NewMigrationHandler(board),
		Health:      handlers.NewHealthHandler(pinger, amqConn, cfg.GatewayDriver, board.Store.Len),
		Logger:      zl,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("board service listening", zap.String("addr", srv.Addr), zap.String("gateway", cfg.GatewayDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
