// shared/models/player.go
package models

// PlayerRef is a resolved or ad-hoc player as it appears on a team roster.
// RollNumber is the identity used for de-duplication across both teams.
type PlayerRef struct {
	RollNumber string `bson:"rollNumber" json:"rollNumber"`
	Name       string `bson:"name" json:"name"`
	Email      string `bson:"email" json:"email"`
	Mobile     string `bson:"mobile" json:"mobile"`
	Guest      bool   `bson:"guest,omitempty" json:"guest,omitempty"`
}

// ID returns the de-duplication key of the player.
func (p PlayerRef) ID() string {
	return p.RollNumber
}
