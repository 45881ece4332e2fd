// lobby/service/assembler.go
package service

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
)

// Side identifies the team currently being filled.
type Side int

const (
	SideA Side = 1
	SideB Side = 2
)

// RejectReason says why an identity event was not added to a team.
type RejectReason string

const (
	ReasonInvalidID            RejectReason = "invalid-id"
	ReasonDuplicateInTarget    RejectReason = "already-in-target"
	ReasonDuplicateAcrossTeams RejectReason = "already-in-other"
	ReasonTeamFull             RejectReason = "team-full"
)

// Outcome is the result of one Submit. Rejections are not errors.
type Outcome struct {
	Accepted bool
	Reason   RejectReason
	Side     Side
	// Game is set when this event completed a game and it was persisted.
	Game *models.GameRecord
}

// Progress is a snapshot of the game being filled.
type Progress struct {
	TeamOne  []models.PlayerRef
	TeamTwo  []models.PlayerRef
	Filling  Side
	TeamSize int
}

// Assembler owns the in-progress game. Every Submit runs the whole
// check, append, schedule, persist and reset sequence under one lock.
type Assembler struct {
	mu      sync.Mutex
	teamOne []models.PlayerRef
	teamTwo []models.PlayerRef
	filling Side

	teamSize     int
	clock        *Clock
	games        GameStore
	checkpoint   ScheduleCheckpoint
	storeTimeout time.Duration
}

// NewAssembler creates an Assembler. checkpoint may be nil.
func NewAssembler(teamSize int, clock *Clock, games GameStore, checkpoint ScheduleCheckpoint, storeTimeout time.Duration) *Assembler {
	return &Assembler{
		filling:      SideA,
		teamSize:     teamSize,
		clock:        clock,
		games:        games,
		checkpoint:   checkpoint,
		storeTimeout: storeTimeout,
	}
}

// Submit adds player to the side being filled. When the event fills side B
// the game is scheduled and persisted before any state changes; if the
// insert fails the error wraps ErrStorageUnavailable and nothing is applied.
func (a *Assembler) Submit(ctx context.Context, player models.PlayerRef) (Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	side := a.filling
	id := player.ID()
	if id == "" {
		return a.reject(side, ReasonInvalidID, id), nil
	}

	target, other := a.teamOne, a.teamTwo
	if side == SideB {
		target, other = a.teamTwo, a.teamOne
	}
	switch {
	case containsID(target, id):
		return a.reject(side, ReasonDuplicateInTarget, id), nil
	case containsID(other, id):
		return a.reject(side, ReasonDuplicateAcrossTeams, id), nil
	case len(target) >= a.teamSize:
		return a.reject(side, ReasonTeamFull, id), nil
	}

	target = append(slices.Clip(target), player)
	outcome := Outcome{Accepted: true, Side: side}

	if side == SideA {
		a.teamOne = target
		if len(target) == a.teamSize {
			a.filling = SideB
			log.Printf("INFO: Team 1 complete: %v", rollNumbers(a.teamOne))
		}
		return outcome, nil
	}

	if len(target) < a.teamSize {
		a.teamTwo = target
		return outcome, nil
	}

	game, slot := a.clock.Schedule(slices.Clone(a.teamOne), target)
	if err := a.persist(ctx, game); err != nil {
		return Outcome{}, err
	}
	state := a.clock.Commit(slot)
	a.saveCheckpoint(state)

	a.teamOne, a.teamTwo, a.filling = nil, nil, SideA
	log.Printf("INFO: Game %d created, play time %s", game.GameNo, game.PlayTime)

	outcome.Game = game
	return outcome, nil
}

func (a *Assembler) persist(ctx context.Context, game *models.GameRecord) error {
	ctx, cancel := context.WithTimeout(ctx, a.storeTimeout)
	defer cancel()
	if err := a.games.Insert(ctx, game); err != nil {
		return fmt.Errorf("%w: insert game %d: %v", ErrStorageUnavailable, game.GameNo, err)
	}
	return nil
}

func (a *Assembler) saveCheckpoint(state ScheduleState) {
	if a.checkpoint == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.storeTimeout)
	defer cancel()
	if err := a.checkpoint.Save(ctx, a.clock.Today(), state); err != nil {
		log.Printf("WARN: Assembler: failed to checkpoint schedule state %+v: %v", state, err)
	}
}

func (a *Assembler) reject(side Side, reason RejectReason, id string) Outcome {
	log.Printf("INFO: Skip adding %q to team %d: %s", id, side, reason)
	return Outcome{Side: side, Reason: reason}
}

// Progress returns a copy of the in-progress teams.
func (a *Assembler) Progress() Progress {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Progress{
		TeamOne:  slices.Clone(a.teamOne),
		TeamTwo:  slices.Clone(a.teamTwo),
		Filling:  a.filling,
		TeamSize: a.teamSize,
	}
}

// Reset discards the game being filled. The schedule is not touched.
func (a *Assembler) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.teamOne, a.teamTwo, a.filling = nil, nil, SideA
	log.Println("INFO: In-progress game reset")
}

func containsID(team []models.PlayerRef, id string) bool {
	return slices.ContainsFunc(team, func(p models.PlayerRef) bool { return p.ID() == id })
}

func rollNumbers(team []models.PlayerRef) []string {
	ids := make([]string, len(team))
	for i, p := range team {
		ids[i] = p.ID()
	}
	return ids
}
