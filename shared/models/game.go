// shared/models/game.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameRecord is a completed, scheduled game. It is immutable once written and
// removed only when the live handoff consumes it.
type GameRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	GameNo    int                `bson:"game_no" json:"game_no"`
	TeamOne   []PlayerRef        `bson:"team_one" json:"team_one"`
	TeamTwo   []PlayerRef        `bson:"team_two" json:"team_two"`
	PlayTime  string             `bson:"play_time" json:"play_time"` // "HH:MM", may exceed 23:59
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Roster returns teamOne followed by teamTwo.
func (g GameRecord) Roster() []PlayerRef {
	roster := make([]PlayerRef, 0, len(g.TeamOne)+len(g.TeamTwo))
	roster = append(roster, g.TeamOne...)
	return append(roster, g.TeamTwo...)
}
