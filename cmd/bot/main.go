package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dmkor/button-game-backend/internal/config"
	"github.com/dmkor/button-game-backend/internal/coordinator"
	"github.com/dmkor/button-game-backend/internal/httpapi"
	"github.com/dmkor/button-game-backend/internal/notify"
	"github.com/dmkor/button-game-backend/internal/store/mongostore"
	"github.com/dmkor/button-game-backend/internal/telegram"
)

func main() {
	logger := zap.Must(zap.NewProduction())
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if cfg.BotToken == "" {
		logger.Fatal("BOT_TOKEN is not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := mongostore.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("connect store", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	st := mongostore.New(client.Database(cfg.MongoDBName))
	if err := st.EnsureIndexes(ctx); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}
	if err := st.EnsureSeats(ctx); err != nil {
		logger.Fatal("ensure seats", zap.Error(err))
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Fatal("connect telegram", zap.Error(err))
	}

	// Build the coordinator with the store and dispatcher injected.
	dispatcher := notify.NewDispatcher(telegram.NewNotifier(bot), logger)
	co := coordinator.New(st, dispatcher, cfg.AdminRoster(), logger)
	router := telegram.NewRouter(bot, co, logger)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.SetupRoutes(st, logger),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return router.Run(ctx)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	logger.Info("bot running",
		zap.String("bot", bot.Self.UserName),
		zap.String("http_addr", cfg.HTTPAddr),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("shutdown", zap.Error(err))
	}
	dispatcher.Wait()
}
