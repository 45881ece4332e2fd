// shared/models/live.go
package models

// PlayerStat is one row of live score data posted by the scoring display.
// ID is the 1-based position of the player in the game roster.
type PlayerStat struct {
	ID     int    `json:"id"`
	Name   string `json:"name,omitempty"`
	Kills  int    `json:"kills"`
	Deaths int    `json:"deaths"`
}

// EnrichedPlayer is a PlayerStat merged with the roster entry at its position.
type EnrichedPlayer struct {
	PlayerStat
	RollNumber string `json:"rollNumber,omitempty"`
	Email      string `json:"email,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
}

// LiveResult is the finalized game handed to the display exactly once.
type LiveResult struct {
	GameRecord
	Players      []EnrichedPlayer `json:"players"`
	Team1Score   int              `json:"team1Score"`
	Team2Score   int              `json:"team2Score"`
	GameIsActive bool             `json:"gameIsActive"`
}
