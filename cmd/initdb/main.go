// Command initdb provisions the Mongo collections the bot depends on: the 9
// ordinary seats, the session singleton with the configured admin roster, and
// the uniqueness indexes. With --reset it also clears non-admin players and
// releases every seat.
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/dmkor/button-game-backend/internal/config"
	"github.com/dmkor/button-game-backend/internal/game"
	"github.com/dmkor/button-game-backend/internal/store/mongostore"
)

func main() {
	reset := flag.Bool("reset", false, "remove non-admin players and release every seat")
	flag.Parse()

	logger := zap.Must(zap.NewProduction())
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

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
	session, err := st.GetOrCreateSession(ctx, cfg.AdminRoster())
	if err != nil {
		logger.Fatal("ensure session", zap.Error(err))
	}

	if *reset {
		if err := st.ResetAll(ctx); err != nil {
			logger.Fatal("reset", zap.Error(err))
		}
		session.Status = game.StatusSetup
	}

	logger.Info("initialisation complete",
		zap.String("status", string(session.Status)),
		zap.Int64s("admin_ids", session.AdminIDs),
	)
}
