// lobby/store/game_store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GameStore keeps scheduled games in MongoDB. Records are only ever inserted
// and deleted, never updated.
type GameStore struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewGameStore(collection *mongo.Collection) *GameStore {
	return &GameStore{collection: collection, now: time.Now}
}

// Insert stores game and sets its ID and timestamps.
func (gs *GameStore) Insert(ctx context.Context, game *models.GameRecord) error {
	if game.ID.IsZero() {
		game.ID = primitive.NewObjectID()
	}
	now := gs.now().UTC()
	game.CreatedAt, game.UpdatedAt = now, now

	if _, err := gs.collection.InsertOne(ctx, game); err != nil {
		return fmt.Errorf("failed to insert game %d: %w", game.GameNo, err)
	}
	return nil
}

// FindOldest returns the earliest inserted game, or nil if the collection is empty.
// ObjectIDs are time-ordered, so sorting on _id gives insertion order.
func (gs *GameStore) FindOldest(ctx context.Context) (*models.GameRecord, error) {
	var game models.GameRecord
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	err := gs.collection.FindOne(ctx, bson.M{}, opts).Decode(&game)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find oldest game: %w", err)
	}
	return &game, nil
}

// DeleteByID removes one game. Deleting a missing game is not an error.
func (gs *GameStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	if _, err := gs.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id.Hex(), err)
	}
	return nil
}

// FindAll returns every stored game in insertion order.
func (gs *GameStore) FindAll(ctx context.Context) ([]models.GameRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := gs.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer cursor.Close(ctx)

	games := []models.GameRecord{}
	if err := cursor.All(ctx, &games); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}
	return games, nil
}
