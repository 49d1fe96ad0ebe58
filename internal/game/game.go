// Package game holds the entity records shared by the store and the
// coordinator: players, seats, and the session singleton.
package game

import (
	"strconv"
	"strings"
)

// NumSeats is the size of the ordinary seat pool. Seat numbers run 1..NumSeats.
const NumSeats = 9

type Status string

const (
	StatusSetup    Status = "setup"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
)

// Actor is an external chat-platform identity invoking a command. The display
// fields are captured on first join and are opaque to the coordinator.
type Actor struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// DisplayName returns the best human-readable name available for the actor.
func (a Actor) DisplayName() string {
	if a.Username != "" {
		return "@" + a.Username
	}
	if name := strings.TrimSpace(a.FirstName + " " + a.LastName); name != "" {
		return name
	}
	return strconv.FormatInt(a.ID, 10)
}

type Player struct {
	ActorID   int64  `bson:"actor_id" json:"actor_id"`
	Username  string `bson:"username" json:"username,omitempty"`
	FirstName string `bson:"first_name" json:"first_name,omitempty"`
	LastName  string `bson:"last_name" json:"last_name,omitempty"`
	IsAdmin   bool   `bson:"is_admin" json:"is_admin"`
	// SeatNumber is set iff the player is not an admin.
	SeatNumber *int `bson:"seat_number,omitempty" json:"seat_number,omitempty"`
	Alive      bool `bson:"alive" json:"alive"`
	// DiscoveredIDs is opaque payload owned by the elimination mechanics;
	// this core initializes it empty and never mutates it.
	DiscoveredIDs []int64 `bson:"discovered_ids" json:"discovered_ids,omitempty"`
}

// Seat is one of the NumSeats numbered slots. Taken is true iff OwnerID is
// set, except for the window between an atomic claim and the owner bind,
// during which Taken is true with a zero placeholder owner.
type Seat struct {
	Number  int    `bson:"number" json:"number"`
	Taken   bool   `bson:"taken" json:"taken"`
	OwnerID *int64 `bson:"owner_id,omitempty" json:"owner_id,omitempty"`
}

// Session is the singleton record describing the run's lifecycle stage and
// the admin roster.
type Session struct {
	Status   Status  `bson:"status" json:"status"`
	AdminIDs []int64 `bson:"admin_ids" json:"admin_ids"`
}

// IsAdmin reports whether the actor is in the session's admin roster. Role is
// resolved against the loaded session only, never against ambient state.
func IsAdmin(s Session, actorID int64) bool {
	for _, id := range s.AdminIDs {
		if id == actorID {
			return true
		}
	}
	return false
}
