// Package store defines the persistence contract for game state. Every
// operation is atomic at single-document granularity; the coordinator relies
// on these primitives instead of in-process locks for seat exclusivity.
package store

import (
	"context"
	"errors"

	"github.com/dmkor/button-game-backend/internal/game"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrNoFreeSeats indicates every ordinary seat is already claimed.
	ErrNoFreeSeats = errors.New("no free seats")
)

// Store persists players, seats, and the session singleton.
type Store interface {
	// GetOrCreateSession returns the session singleton, inserting it with
	// StatusSetup if missing. The stored admin roster is the union of the
	// recorded ids and defaultAdminIDs. Concurrent calls converge on exactly
	// one stored document; an insert race is success, not an error.
	GetOrCreateSession(ctx context.Context, defaultAdminIDs []int64) (game.Session, error)

	// FindPlayer returns ErrNotFound if no record exists for the actor.
	FindPlayer(ctx context.Context, actorID int64) (game.Player, error)

	// CountLivePlayers counts non-admin players with Alive set.
	CountLivePlayers(ctx context.Context) (int, error)

	// ClaimNextSeat atomically flips the lowest-numbered unclaimed seat to
	// taken with a placeholder owner and returns its number. Two concurrent
	// callers never receive the same number. Returns ErrNoFreeSeats when the
	// pool is exhausted.
	ClaimNextSeat(ctx context.Context) (int, error)

	// CreatePlayer inserts the record keyed by ActorID. If a record already
	// exists, the existing one is returned; join stays idempotent.
	CreatePlayer(ctx context.Context, p game.Player) (game.Player, error)

	// BindSeatOwner attaches the player to the seat claimed earlier.
	BindSeatOwner(ctx context.Context, number int, actorID int64) error

	// ReleaseSeat returns a seat to taken=false with no owner. Compensating
	// action for a failed bind after a successful claim.
	ReleaseSeat(ctx context.Context, number int) error

	SetStatus(ctx context.Context, s game.Status) error

	// ResetAll deletes all non-admin players, releases every seat, and sets
	// the status back to StatusSetup, in that order.
	ResetAll(ctx context.Context) error
}
