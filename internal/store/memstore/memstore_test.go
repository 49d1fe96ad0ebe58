package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmkor/button-game-backend/internal/game"
	"github.com/dmkor/button-game-backend/internal/store"
)

func TestClaimNextSeat_LowestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	for want := 1; want <= game.NumSeats; want++ {
		got, err := s.ClaimNextSeat(ctx)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := s.ClaimNextSeat(ctx)
	require.ErrorIs(t, err, store.ErrNoFreeSeats)
}

func TestClaimNextSeat_ConcurrentClaimsAreUnique(t *testing.T) {
	s := New()
	ctx := context.Background()

	const callers = 30
	results := make([]int, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.ClaimNextSeat(ctx)
		}(i)
	}
	wg.Wait()

	seen := map[int]bool{}
	claimed := 0
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			require.ErrorIs(t, errs[i], store.ErrNoFreeSeats)
			continue
		}
		claimed++
		require.False(t, seen[results[i]], "seat %d claimed twice", results[i])
		seen[results[i]] = true
	}
	require.Equal(t, game.NumSeats, claimed)
}

func TestClaimReleaseReclaim(t *testing.T) {
	s := New()
	ctx := context.Background()

	n, err := s.ClaimNextSeat(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// Claimed but unbound seats carry the zero placeholder owner.
	seat0, ok := s.Seat(n)
	require.True(t, ok)
	require.True(t, seat0.Taken)
	require.NotNil(t, seat0.OwnerID)
	require.EqualValues(t, 0, *seat0.OwnerID)

	require.NoError(t, s.BindSeatOwner(ctx, n, 200))
	seat, ok := s.Seat(n)
	require.True(t, ok)
	require.True(t, seat.Taken)
	require.NotNil(t, seat.OwnerID)
	require.EqualValues(t, 200, *seat.OwnerID)

	require.NoError(t, s.ReleaseSeat(ctx, n))
	seat, _ = s.Seat(n)
	require.False(t, seat.Taken)
	require.Nil(t, seat.OwnerID)

	// The released seat is the lowest free one again.
	n, err = s.ClaimNextSeat(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestBindSeatOwner_UnclaimedSeat(t *testing.T) {
	s := New()
	require.ErrorIs(t, s.BindSeatOwner(context.Background(), 3, 200), store.ErrNotFound)
}

func TestCreatePlayer_Idempotent(t *testing.T) {
	s := New()
	ctx := context.Background()
	seat := 1

	created, err := s.CreatePlayer(ctx, game.Player{ActorID: 200, SeatNumber: &seat, Alive: true})
	require.NoError(t, err)

	other := 2
	again, err := s.CreatePlayer(ctx, game.Player{ActorID: 200, SeatNumber: &other, Alive: true})
	require.NoError(t, err)
	require.Equal(t, created, again, "existing record must win")
}

func TestFindPlayer_NotFound(t *testing.T) {
	s := New()
	_, err := s.FindPlayer(context.Background(), 42)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetOrCreateSession_UnionsRoster(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.GetOrCreateSession(ctx, []int64{100})
	require.NoError(t, err)
	require.Equal(t, game.StatusSetup, first.Status)
	require.Equal(t, []int64{100}, first.AdminIDs)

	second, err := s.GetOrCreateSession(ctx, []int64{100, 101})
	require.NoError(t, err)
	require.Equal(t, []int64{100, 101}, second.AdminIDs)
}

func TestCountLivePlayers_SkipsAdminsAndDead(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.CreatePlayer(ctx, game.Player{ActorID: 100, IsAdmin: true, Alive: true})
	require.NoError(t, err)
	one := 1
	_, err = s.CreatePlayer(ctx, game.Player{ActorID: 200, SeatNumber: &one, Alive: true})
	require.NoError(t, err)
	two := 2
	_, err = s.CreatePlayer(ctx, game.Player{ActorID: 201, SeatNumber: &two, Alive: false})
	require.NoError(t, err)

	count, err := s.CountLivePlayers(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestResetAll(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.GetOrCreateSession(ctx, []int64{100})
	require.NoError(t, err)
	_, err = s.CreatePlayer(ctx, game.Player{ActorID: 100, IsAdmin: true, Alive: true})
	require.NoError(t, err)

	n, err := s.ClaimNextSeat(ctx)
	require.NoError(t, err)
	require.NoError(t, s.BindSeatOwner(ctx, n, 200))
	_, err = s.CreatePlayer(ctx, game.Player{ActorID: 200, SeatNumber: &n, Alive: true})
	require.NoError(t, err)
	require.NoError(t, s.SetStatus(ctx, game.StatusRunning))

	require.NoError(t, s.ResetAll(ctx))

	session, err := s.GetOrCreateSession(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, game.StatusSetup, session.Status)
	require.Equal(t, []int64{100}, session.AdminIDs)

	_, err = s.FindPlayer(ctx, 200)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.FindPlayer(ctx, 100)
	require.NoError(t, err)

	for i := 1; i <= game.NumSeats; i++ {
		seat, ok := s.Seat(i)
		require.True(t, ok)
		require.False(t, seat.Taken)
		require.Nil(t, seat.OwnerID)
	}
}
