// player/store/player_store.go
package store

import (
	"context"
	"fmt"
	"log"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const rollNumberIndex = "uniq_rollNumber"

// PlayerStore is the MongoDB-backed player directory.
type PlayerStore struct {
	collection *mongo.Collection
}

func NewPlayerStore(collection *mongo.Collection) *PlayerStore {
	return &PlayerStore{collection: collection}
}

// EnsureIndexes creates the unique rollNumber index if it is missing.
func (ps *PlayerStore) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "rollNumber", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(rollNumberIndex),
	}
	if _, err := ps.collection.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create %s index: %w", rollNumberIndex, err)
	}
	return nil
}

// GetByRollNumber returns mongo.ErrNoDocuments when the roll number is unknown.
func (ps *PlayerStore) GetByRollNumber(ctx context.Context, rollNumber string) (*models.PlayerRef, error) {
	var player models.PlayerRef
	if err := ps.collection.FindOne(ctx, bson.M{"rollNumber": rollNumber}).Decode(&player); err != nil {
		return nil, err
	}
	return &player, nil
}

// List returns up to limit players in natural order.
func (ps *PlayerStore) List(ctx context.Context, limit int64) ([]models.PlayerRef, error) {
	opts := options.Find().SetLimit(limit).SetProjection(bson.M{"_id": 0})
	cursor, err := ps.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer cursor.Close(ctx)

	players := []models.PlayerRef{}
	for cursor.Next(ctx) {
		var p models.PlayerRef
		if err := cursor.Decode(&p); err != nil {
			log.Printf("WARN: Skipping undecodable player document: %v", err)
			continue
		}
		players = append(players, p)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}
	return players, nil
}

// UpsertMany writes players keyed by rollNumber in one unordered bulk write.
func (ps *PlayerStore) UpsertMany(ctx context.Context, players []models.PlayerRef) (upserted, modified int64, err error) {
	if len(players) == 0 {
		return 0, 0, nil
	}
	writes := make([]mongo.WriteModel, 0, len(players))
	for _, p := range players {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"rollNumber": p.RollNumber}).
			SetUpdate(bson.M{"$set": bson.M{
				"rollNumber": p.RollNumber,
				"name":       p.Name,
				"email":      p.Email,
				"mobile":     p.Mobile,
			}}).
			SetUpsert(true))
	}
	res, err := ps.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, 0, fmt.Errorf("bulk upsert of %d players failed: %w", len(players), err)
	}
	return res.UpsertedCount, res.ModifiedCount, nil
}
