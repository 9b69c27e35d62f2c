package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/user/reminder-bot/internal/bot"
	"github.com/user/reminder-bot/internal/commands"
	"github.com/user/reminder-bot/internal/config"
	"github.com/user/reminder-bot/internal/db"
	"github.com/user/reminder-bot/internal/logger"
	"github.com/user/reminder-bot/internal/scheduler"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	dbManager, err := db.NewManager(cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	defer dbManager.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := dbManager.InitSchema(ctx); err != nil {
		cancel()
		zlog.Fatal("failed to initialize database schema", zap.Error(err))
	}
	cancel()

	// Assert that our db.Manager implements the commands.Store interface
	var _ commands.Store = dbManager

	b, err := bot.New(cfg.BotToken, dbManager, zlog)
	if err != nil {
		zlog.Fatal("failed to create bot", zap.Error(err))
	}

	if err := b.Start(); err != nil {
		zlog.Fatal("failed to start bot", zap.Error(err))
	}
	zlog.Info("bot started")

	// The dispatcher is constructed and started exactly once here; a second
	// loop instance is structurally impossible.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	dispatcher := scheduler.New(dbManager, b, zlog, cfg.PollInterval)
	go dispatcher.Run(dispatchCtx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	stopDispatch()
	b.Stop()
	zlog.Info("bot stopped")
}
