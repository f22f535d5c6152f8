package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"

	"stockledger/internal/config"
	"stockledger/internal/events"
	"stockledger/internal/infrastructure/logger"
	"stockledger/internal/infrastructure/mysql"
	"stockledger/internal/inventory"
	"stockledger/internal/notifier"
	"stockledger/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	syncCtx, stopSync := context.WithCancel(context.Background())
	defer stopSync()

	dashboardSync := events.NewDashboardSync(pubSub, zapLogger)
	go func() {
		if err := dashboardSync.Run(syncCtx); err != nil {
			zapLogger.Error("dashboard sync stopped", zap.Error(err))
		}
	}()

	publisher := events.NewWatermillPublisher(pubSub)
	alertNotifier := notifier.NewLogNotifier(zapLogger)

	inventoryCtrl := inventory.NewModule(db, cfg, publisher, alertNotifier, zapLogger)

	router := server.NewRouter(inventoryCtrl, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

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
