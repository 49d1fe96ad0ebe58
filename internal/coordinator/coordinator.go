// Package coordinator decides how joins and admin lifecycle commands move the
// session forward. It owns all writes to players, seats, and the session; the
// store only executes the conditional writes it is asked for.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dmkor/button-game-backend/internal/game"
	"github.com/dmkor/button-game-backend/internal/store"
)

var ErrPermissionDenied = errors.New("permission denied")
var ErrRoomFull = errors.New("room full")
var ErrGameInProgress = errors.New("game in progress")
var ErrUnsupportedCommand = errors.New("unsupported command")

// IsDomainRejection reports whether err is an expected domain outcome rather
// than an infrastructure failure. Rejections are returned to the router and
// never logged as errors.
func IsDomainRejection(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrRoomFull) ||
		errors.Is(err, ErrGameInProgress) ||
		errors.Is(err, ErrUnsupportedCommand)
}

type Command string

const (
	CmdStart Command = "start"
	CmdStop  Command = "stop"
	CmdReset Command = "reset"
)

type ReplyKind string

const (
	// ReplyMenu means the caller should be shown the full status menu.
	ReplyMenu ReplyKind = "menu"
	// ReplyNotStarted is the non-admin response while the session is not running.
	ReplyNotStarted ReplyKind = "not_started"
	// ReplyEliminated is terminal and outranks every other reply.
	ReplyEliminated ReplyKind = "eliminated"
)

type Reply struct {
	Kind    ReplyKind
	Player  game.Player
	Session game.Session
}

// Announcer receives the admin fan-out for a committed join.
type Announcer interface {
	Announce(ctx context.Context, recipientIDs []int64, text string)
}

type Coordinator struct {
	store    store.Store
	announce Announcer
	log      *zap.Logger
	adminIDs []int64

	// mu serializes lifecycle commands against in-flight joins: a reset
	// racing a seat claim could leave a claimed seat pointing at a deleted
	// player. Joins hold the read side, lifecycle commands the write side.
	mu sync.RWMutex
}

func New(st store.Store, announce Announcer, adminIDs []int64, log *zap.Logger) *Coordinator {
	return &Coordinator{
		store:    st,
		announce: announce,
		log:      log,
		adminIDs: adminIDs,
	}
}

// Join registers the actor if needed and returns the reply to show them.
// Re-joining is idempotent: an existing player record is never mutated.
func (c *Coordinator) Join(ctx context.Context, actor game.Actor) (Reply, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	session, err := c.store.GetOrCreateSession(ctx, c.adminIDs)
	if err != nil {
		return Reply{}, fmt.Errorf("load session: %w", err)
	}

	_, err = c.store.FindPlayer(ctx, actor.ID)
	switch {
	case err == nil:
		// Already registered, nothing to mutate.
	case errors.Is(err, store.ErrNotFound):
		if err := c.register(ctx, actor, session); err != nil {
			return Reply{}, err
		}
	default:
		return Reply{}, fmt.Errorf("find player: %w", err)
	}

	player, err := c.store.FindPlayer(ctx, actor.ID)
	if err != nil {
		return Reply{}, fmt.Errorf("reload player: %w", err)
	}

	// Elimination is terminal and outranks role and session status.
	if !player.Alive {
		return Reply{Kind: ReplyEliminated, Player: player, Session: session}, nil
	}
	if session.Status != game.StatusRunning {
		if game.IsAdmin(session, actor.ID) {
			return Reply{Kind: ReplyMenu, Player: player, Session: session}, nil
		}
		return Reply{Kind: ReplyNotStarted, Player: player, Session: session}, nil
	}
	return Reply{Kind: ReplyMenu, Player: player, Session: session}, nil
}

// register creates the player record for a first-time joiner. For non-admins
// the seat is claimed atomically first, so the create/bind that follow are
// already exclusive; any failure after the claim releases the seat again.
func (c *Coordinator) register(ctx context.Context, actor game.Actor, session game.Session) error {
	if game.IsAdmin(session, actor.ID) {
		_, err := c.store.CreatePlayer(ctx, game.Player{
			ActorID:   actor.ID,
			Username:  actor.Username,
			FirstName: actor.FirstName,
			LastName:  actor.LastName,
			IsAdmin:   true,
			Alive:     true,
		})
		if err != nil {
			return fmt.Errorf("create admin player: %w", err)
		}
		return nil
	}

	if session.Status == game.StatusRunning {
		return ErrGameInProgress
	}

	count, err := c.store.CountLivePlayers(ctx)
	if err != nil {
		return fmt.Errorf("count players: %w", err)
	}
	if count >= game.NumSeats {
		return ErrRoomFull
	}

	number, err := c.store.ClaimNextSeat(ctx)
	if errors.Is(err, store.ErrNoFreeSeats) {
		// The count check passed but a concurrent join took the last seat.
		return ErrRoomFull
	}
	if err != nil {
		return fmt.Errorf("claim seat: %w", err)
	}

	created, err := c.store.CreatePlayer(ctx, game.Player{
		ActorID:    actor.ID,
		Username:   actor.Username,
		FirstName:  actor.FirstName,
		LastName:   actor.LastName,
		SeatNumber: &number,
		Alive:      true,
	})
	if err != nil {
		c.release(ctx, number)
		return fmt.Errorf("create player: %w", err)
	}
	if created.SeatNumber == nil || *created.SeatNumber != number {
		// A concurrent join for the same actor won the insert; give the
		// seat claimed here back.
		c.release(ctx, number)
		return nil
	}

	if err := c.store.BindSeatOwner(ctx, number, actor.ID); err != nil {
		c.release(ctx, number)
		return fmt.Errorf("bind seat %d: %w", number, err)
	}

	recipients := make([]int64, 0, len(session.AdminIDs))
	for _, id := range session.AdminIDs {
		if id != actor.ID {
			recipients = append(recipients, id)
		}
	}
	c.announce.Announce(ctx, recipients,
		fmt.Sprintf("Player %s joined, seat %d", actor.DisplayName(), number))
	return nil
}

// release is the compensating action for a claimed but unbound seat. A seat
// must never stay taken with no bound player, so a failure here is logged
// loudly rather than swallowed.
func (c *Coordinator) release(ctx context.Context, number int) {
	if err := c.store.ReleaseSeat(ctx, number); err != nil {
		c.log.Error("failed to release claimed seat",
			zap.Int("seat", number),
			zap.Error(err),
		)
	}
}

// Lifecycle applies an admin command and returns the session as it stands
// afterwards. All three commands are idempotent.
func (c *Coordinator) Lifecycle(ctx context.Context, actorID int64, cmd Command) (game.Session, error) {
	session, err := c.store.GetOrCreateSession(ctx, c.adminIDs)
	if err != nil {
		return game.Session{}, fmt.Errorf("load session: %w", err)
	}
	if !game.IsAdmin(session, actorID) {
		return game.Session{}, ErrPermissionDenied
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch cmd {
	case CmdStart:
		if err := c.store.SetStatus(ctx, game.StatusRunning); err != nil {
			return game.Session{}, fmt.Errorf("start: %w", err)
		}
		session.Status = game.StatusRunning
	case CmdStop:
		if err := c.store.SetStatus(ctx, game.StatusFinished); err != nil {
			return game.Session{}, fmt.Errorf("stop: %w", err)
		}
		session.Status = game.StatusFinished
	case CmdReset:
		if err := c.store.ResetAll(ctx); err != nil {
			return game.Session{}, fmt.Errorf("reset: %w", err)
		}
		session.Status = game.StatusSetup
	default:
		return game.Session{}, ErrUnsupportedCommand
	}
	return session, nil
}
