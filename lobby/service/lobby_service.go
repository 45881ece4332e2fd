// lobby/service/lobby_service.go
package service

import (
	"context"
	"log"
	"time"
)

// LobbyService bundles the lobby's components for the HTTP layer.
type LobbyService struct {
	Resolver  *Resolver
	Assembler *Assembler
	Clock     *Clock
	Catalog   *Catalog
	Handoff   *Handoff
}

// Register resolves reg and submits the player to the assembler.
func (ls *LobbyService) Register(ctx context.Context, reg Registration) (Outcome, error) {
	player, err := ls.Resolver.Resolve(ctx, reg)
	if err != nil {
		return Outcome{}, err
	}
	return ls.Assembler.Submit(ctx, player)
}

// RestoreSchedule resumes today's schedule from cp, if one was saved. With no
// checkpoint for today, a session from yesterday that ran past midnight is
// resumed instead.
func (ls *LobbyService) RestoreSchedule(ctx context.Context, cp ScheduleCheckpoint, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	today := ls.Clock.Today()
	state, ok, err := cp.Load(ctx, today)
	if err != nil {
		log.Printf("WARN: Could not load schedule checkpoint, starting fresh: %v", err)
		return
	}
	if !ok {
		state, ok, err = cp.Load(ctx, today.AddDate(0, 0, -1))
		if err != nil {
			log.Printf("WARN: Could not load yesterday's schedule checkpoint, starting fresh: %v", err)
			return
		}
		if !ok || !ls.Clock.Continues(state) {
			log.Println("INFO: No schedule checkpoint for today, starting fresh.")
			return
		}
		log.Println("INFO: Resuming a schedule that ran past midnight.")
	}
	ls.Clock.Restore(state)
	log.Printf("INFO: Schedule restored: %d games so far, last slot %s", state.GameCounter, FormatHHMM(state.LastSlotMinutes))
}
