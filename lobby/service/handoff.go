// lobby/service/handoff.go
package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LiveScoreSubmission is what the scoring display posts while a game runs.
type LiveScoreSubmission struct {
	Players      []models.PlayerStat
	Team1Score   int
	Team2Score   int
	GameIsActive bool
}

// Handoff is a single-slot mailbox between the scoring display and the
// results display. Submit overwrites, Take empties and retires the game.
type Handoff struct {
	mu       sync.Mutex
	pending  *models.LiveResult
	sourceID primitive.ObjectID

	games   GameStore
	timeout time.Duration
}

func NewHandoff(games GameStore, timeout time.Duration) *Handoff {
	return &Handoff{games: games, timeout: timeout}
}

// SubmitLiveScore merges sub with the oldest stored game and parks the result.
// Players are matched by their 1-based position in teamOne followed by teamTwo.
func (h *Handoff) SubmitLiveScore(ctx context.Context, sub LiveScoreSubmission) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	game, err := h.games.FindOldest(ctx)
	if err != nil {
		return fmt.Errorf("%w: find oldest game: %v", ErrStorageUnavailable, err)
	}
	if game == nil {
		return ErrNoGames
	}

	roster := game.Roster()
	players := make([]models.EnrichedPlayer, len(sub.Players))
	for i, stat := range sub.Players {
		ep := models.EnrichedPlayer{PlayerStat: stat}
		if idx := stat.ID - 1; idx >= 0 && idx < len(roster) {
			member := roster[idx]
			if member.Name != "" {
				ep.Name = member.Name
			}
			ep.RollNumber = member.RollNumber
			ep.Email = member.Email
			ep.Mobile = member.Mobile
		}
		players[i] = ep
	}

	if h.pending != nil {
		log.Printf("INFO: Handoff: replacing unconsumed result for game %d", h.pending.GameNo)
	}
	h.pending = &models.LiveResult{
		GameRecord:   *game,
		Players:      players,
		Team1Score:   sub.Team1Score,
		Team2Score:   sub.Team2Score,
		GameIsActive: sub.GameIsActive,
	}
	h.sourceID = game.ID
	log.Printf("INFO: Handoff: live scores stored for game %d", game.GameNo)
	return nil
}

// TakeLiveResult returns the parked result and deletes its source game. It
// returns ErrNoPendingResult when nothing is parked. A failed delete is logged
// and the result is still returned.
func (h *Handoff) TakeLiveResult(ctx context.Context) (*models.LiveResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pending == nil {
		return nil, ErrNoPendingResult
	}
	result, id := h.pending, h.sourceID
	h.pending, h.sourceID = nil, primitive.NilObjectID

	if !id.IsZero() {
		ctx, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()
		if err := h.games.DeleteByID(ctx, id); err != nil {
			log.Printf("ERROR: Handoff: failed to delete game %s after handoff: %v", id.Hex(), err)
		} else {
			log.Printf("INFO: Handoff: game %d delivered and deleted", result.GameNo)
		}
	}
	return result, nil
}

// Pending reports whether a result is waiting to be taken.
func (h *Handoff) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending != nil
}
