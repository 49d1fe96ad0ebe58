// Package memstore is a mutex-guarded in-memory Store. It backs the
// coordinator tests and local runs without a Mongo instance; each method is
// atomic under the store mutex, matching the contract's document-level
// atomicity.
package memstore

import (
	"context"
	"sync"

	"github.com/dmkor/button-game-backend/internal/game"
	"github.com/dmkor/button-game-backend/internal/store"
)

type Store struct {
	mu      sync.Mutex
	session *game.Session
	players map[int64]game.Player
	seats   map[int]*game.Seat
}

func New() *Store {
	s := &Store{
		players: make(map[int64]game.Player),
		seats:   make(map[int]*game.Seat),
	}
	for n := 1; n <= game.NumSeats; n++ {
		s.seats[n] = &game.Seat{Number: n}
	}
	return s
}

func (s *Store) GetOrCreateSession(_ context.Context, defaultAdminIDs []int64) (game.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		s.session = &game.Session{Status: game.StatusSetup}
	}
	for _, id := range defaultAdminIDs {
		if !game.IsAdmin(*s.session, id) {
			s.session.AdminIDs = append(s.session.AdminIDs, id)
		}
	}
	return *s.session, nil
}

func (s *Store) FindPlayer(_ context.Context, actorID int64) (game.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[actorID]
	if !ok {
		return game.Player{}, store.ErrNotFound
	}
	return p, nil
}

func (s *Store) CountLivePlayers(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, p := range s.players {
		if !p.IsAdmin && p.Alive {
			count++
		}
	}
	return count, nil
}

func (s *Store) ClaimNextSeat(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for n := 1; n <= game.NumSeats; n++ {
		if seat := s.seats[n]; !seat.Taken {
			seat.Taken = true
			// Placeholder owner until BindSeatOwner attaches the player.
			placeholder := int64(0)
			seat.OwnerID = &placeholder
			return n, nil
		}
	}
	return 0, store.ErrNoFreeSeats
}

func (s *Store) CreatePlayer(_ context.Context, p game.Player) (game.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.players[p.ActorID]; ok {
		return existing, nil
	}
	s.players[p.ActorID] = p
	return p, nil
}

func (s *Store) BindSeatOwner(_ context.Context, number int, actorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seat, ok := s.seats[number]
	if !ok || !seat.Taken {
		return store.ErrNotFound
	}
	owner := actorID
	seat.OwnerID = &owner
	return nil
}

func (s *Store) ReleaseSeat(_ context.Context, number int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seat, ok := s.seats[number]
	if !ok {
		return store.ErrNotFound
	}
	seat.Taken = false
	seat.OwnerID = nil
	return nil
}

func (s *Store) SetStatus(_ context.Context, status game.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return store.ErrNotFound
	}
	s.session.Status = status
	return nil
}

func (s *Store) ResetAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.players {
		if !p.IsAdmin {
			delete(s.players, id)
		}
	}
	for _, seat := range s.seats {
		seat.Taken = false
		seat.OwnerID = nil
	}
	if s.session != nil {
		s.session.Status = game.StatusSetup
	}
	return nil
}

// Seat returns a copy of the numbered seat. Test helper.
func (s *Store) Seat(number int) (game.Seat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seat, ok := s.seats[number]
	if !ok {
		return game.Seat{}, false
	}
	return *seat, true
}

// PlayerCount returns the total number of player records. Test helper.
func (s *Store) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}
