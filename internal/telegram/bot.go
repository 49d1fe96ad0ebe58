// Package telegram adapts Telegram bot updates into coordinator calls and
// renders the typed replies back to plain text.
package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/dmkor/button-game-backend/internal/coordinator"
	"github.com/dmkor/button-game-backend/internal/game"
)

// handleTimeout bounds one inbound command against the store and the
// Telegram API.
const handleTimeout = 10 * time.Second

type Router struct {
	bot *tgbotapi.BotAPI
	co  *coordinator.Coordinator
	log *zap.Logger
}

func NewRouter(bot *tgbotapi.BotAPI, co *coordinator.Coordinator, log *zap.Logger) *Router {
	return &Router{bot: bot, co: co, log: log}
}

// Run long-polls for updates until ctx is cancelled. Each command is handled
// in its own goroutine; ordering between concurrent actors is the store's
// problem, not the router's.
func (r *Router) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := r.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			r.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			msg := update.Message
			if msg == nil || !msg.IsCommand() || msg.From == nil {
				continue
			}
			go r.handle(ctx, msg)
		}
	}
}

func (r *Router) handle(ctx context.Context, msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	actor := game.Actor{
		ID:        msg.From.ID,
		Username:  msg.From.UserName,
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
	}

	var text string
	switch msg.Command() {
	case "start":
		reply, err := r.co.Join(ctx, actor)
		text = r.renderOutcome(renderReply(reply), err, actor.ID)
	case "game_start":
		session, err := r.co.Lifecycle(ctx, actor.ID, coordinator.CmdStart)
		text = r.renderOutcome(renderLifecycle(coordinator.CmdStart, session), err, actor.ID)
	case "game_stop":
		session, err := r.co.Lifecycle(ctx, actor.ID, coordinator.CmdStop)
		text = r.renderOutcome(renderLifecycle(coordinator.CmdStop, session), err, actor.ID)
	case "game_reset":
		session, err := r.co.Lifecycle(ctx, actor.ID, coordinator.CmdReset)
		text = r.renderOutcome(renderLifecycle(coordinator.CmdReset, session), err, actor.ID)
	default:
		return
	}

	if _, err := r.bot.Send(tgbotapi.NewMessage(msg.Chat.ID, text)); err != nil {
		r.log.Warn("send reply failed",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Error(err),
		)
	}
}

// renderOutcome picks the text for a coordinator result. Domain rejections
// get their own message and are not treated as errors; anything else is an
// infrastructure failure worth logging.
func (r *Router) renderOutcome(success string, err error, actorID int64) string {
	if err == nil {
		return success
	}
	if coordinator.IsDomainRejection(err) {
		return renderRejection(err)
	}
	r.log.Error("command failed",
		zap.Int64("actor_id", actorID),
		zap.Error(err),
	)
	return "Something went wrong, please try again."
}
