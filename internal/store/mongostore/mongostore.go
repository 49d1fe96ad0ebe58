// Package mongostore implements the store contract on MongoDB. The seat claim
// is a single find-and-modify on the unclaimed filter, which is the only
// race-sensitive write in the system.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmkor/button-game-backend/internal/game"
	"github.com/dmkor/button-game-backend/internal/store"
)

const (
	playersCollection = "players"
	seatsCollection   = "buttons"
	sessionCollection = "game_session"

	// sessionID pins the session singleton to one document so concurrent
	// upserts collide on _id instead of inserting twice.
	sessionID = "singleton"

	connectTimeout = 10 * time.Second
)

// seatOwnerPlaceholder marks a seat as claimed before the owning player
// record exists. BindSeatOwner replaces it.
const seatOwnerPlaceholder = int64(0)

// Connect dials the Mongo deployment and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

type Store struct {
	players *mongo.Collection
	seats   *mongo.Collection
	session *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		players: db.Collection(playersCollection),
		seats:   db.Collection(seatsCollection),
		session: db.Collection(sessionCollection),
	}
}

// EnsureIndexes creates the uniqueness indexes the contract depends on:
// one player per actor, one seat per number.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.players.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "actor_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create players index: %w", err)
	}
	_, err = s.seats.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create buttons index: %w", err)
	}
	return nil
}

// EnsureSeats provisions the ordinary seat pool. Claiming never upserts, so
// the pool must exist before the coordinator serves joins.
func (s *Store) EnsureSeats(ctx context.Context) error {
	for n := 1; n <= game.NumSeats; n++ {
		_, err := s.seats.UpdateOne(ctx,
			bson.M{"number": n},
			bson.M{"$setOnInsert": bson.M{"taken": false}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("ensure seat %d: %w", n, err)
		}
	}
	return nil
}

func (s *Store) GetOrCreateSession(ctx context.Context, defaultAdminIDs []int64) (game.Session, error) {
	admins := defaultAdminIDs
	if admins == nil {
		admins = []int64{}
	}
	update := bson.M{
		"$setOnInsert": bson.M{"status": game.StatusSetup},
		"$addToSet":    bson.M{"admin_ids": bson.M{"$each": admins}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var session game.Session
	err := s.session.FindOneAndUpdate(ctx, bson.M{"_id": sessionID}, update, opts).Decode(&session)
	if mongo.IsDuplicateKeyError(err) {
		// Lost the insert race; the singleton exists now, so the same
		// update succeeds as a plain modification.
		err = s.session.FindOneAndUpdate(ctx, bson.M{"_id": sessionID}, update, opts).Decode(&session)
	}
	if err != nil {
		return game.Session{}, fmt.Errorf("get or create session: %w", err)
	}
	return session, nil
}

func (s *Store) FindPlayer(ctx context.Context, actorID int64) (game.Player, error) {
	var p game.Player
	err := s.players.FindOne(ctx, bson.M{"actor_id": actorID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return game.Player{}, store.ErrNotFound
	}
	if err != nil {
		return game.Player{}, fmt.Errorf("find player %d: %w", actorID, err)
	}
	return p, nil
}

func (s *Store) CountLivePlayers(ctx context.Context) (int, error) {
	count, err := s.players.CountDocuments(ctx, bson.M{"is_admin": false, "alive": true})
	if err != nil {
		return 0, fmt.Errorf("count live players: %w", err)
	}
	return int(count), nil
}

func (s *Store) ClaimNextSeat(ctx context.Context) (int, error) {
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "number", Value: 1}}).
		SetReturnDocument(options.After)

	var seat game.Seat
	err := s.seats.FindOneAndUpdate(ctx,
		bson.M{"taken": false},
		bson.M{"$set": bson.M{"taken": true, "owner_id": seatOwnerPlaceholder}},
		opts,
	).Decode(&seat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, store.ErrNoFreeSeats
	}
	if err != nil {
		return 0, fmt.Errorf("claim seat: %w", err)
	}
	return seat.Number, nil
}

func (s *Store) CreatePlayer(ctx context.Context, p game.Player) (game.Player, error) {
	if p.DiscoveredIDs == nil {
		p.DiscoveredIDs = []int64{}
	}
	_, err := s.players.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return s.FindPlayer(ctx, p.ActorID)
	}
	if err != nil {
		return game.Player{}, fmt.Errorf("create player %d: %w", p.ActorID, err)
	}
	return p, nil
}

func (s *Store) BindSeatOwner(ctx context.Context, number int, actorID int64) error {
	res, err := s.seats.UpdateOne(ctx,
		bson.M{"number": number, "taken": true},
		bson.M{"$set": bson.M{"owner_id": actorID}},
	)
	if err != nil {
		return fmt.Errorf("bind seat %d: %w", number, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ReleaseSeat(ctx context.Context, number int) error {
	res, err := s.seats.UpdateOne(ctx,
		bson.M{"number": number},
		bson.M{"$set": bson.M{"taken": false}, "$unset": bson.M{"owner_id": ""}},
	)
	if err != nil {
		return fmt.Errorf("release seat %d: %w", number, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SetStatus(ctx context.Context, status game.Status) error {
	res, err := s.session.UpdateOne(ctx,
		bson.M{"_id": sessionID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("set status %s: %w", status, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ResetAll(ctx context.Context) error {
	if _, err := s.players.DeleteMany(ctx, bson.M{"is_admin": false}); err != nil {
		return fmt.Errorf("reset players: %w", err)
	}
	_, err := s.seats.UpdateMany(ctx,
		bson.M{},
		bson.M{"$set": bson.M{"taken": false}, "$unset": bson.M{"owner_id": ""}},
	)
	if err != nil {
		return fmt.Errorf("reset buttons: %w", err)
	}
	if err := s.SetStatus(ctx, game.StatusSetup); err != nil {
		return fmt.Errorf("reset status: %w", err)
	}
	return nil
}
