// lobby/service/ports.go
package service

import (
	"context"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameStore is the durable home of scheduled games.
type GameStore interface {
	Insert(ctx context.Context, game *models.GameRecord) error
	// FindOldest returns the first game in insertion order, or nil if there is none.
	FindOldest(ctx context.Context) (*models.GameRecord, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	FindAll(ctx context.Context) ([]models.GameRecord, error)
}

// PlayerDirectory resolves a roll number to a profile. A miss must satisfy
// errors.Is(err, api.ErrNotFound).
type PlayerDirectory interface {
	GetPlayer(ctx context.Context, rollNumber string) (*models.PlayerRef, error)
}

// PlayerCache is a best-effort cache in front of the directory. Get returns
// nil, nil on a miss.
type PlayerCache interface {
	Get(ctx context.Context, rollNumber string) (*models.PlayerRef, error)
	Set(ctx context.Context, player *models.PlayerRef) error
}

// ScheduleCheckpoint persists the clock state of one calendar day.
type ScheduleCheckpoint interface {
	Load(ctx context.Context, day time.Time) (ScheduleState, bool, error)
	Save(ctx context.Context, day time.Time, state ScheduleState) error
}
