package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
)

func TestRegisterResolvesThenSubmits(t *testing.T) {
	players := map[string]models.PlayerRef{}
	for i := 1; i <= 4; i++ {
		roll := fmt.Sprintf("R%d", i)
		players[roll] = models.PlayerRef{RollNumber: roll}
	}
	now, _ := fixedClock(12, 0)
	clock := NewClock(30*time.Minute, now)
	games := &memGameStore{}
	ls := &LobbyService{
		Resolver:  NewResolver(&fakeDirectory{players: players}, nil, time.Second),
		Assembler: NewAssembler(2, clock, games, nil, time.Second),
		Clock:     clock,
	}
	ctx := context.Background()

	if _, err := ls.Register(ctx, Registration{Roll: "missing"}); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("err = %v, want ErrUnknownPlayer", err)
	}
	for _, roll := range []string{"R1", "R2", "R3"} {
		if _, err := ls.Register(ctx, Registration{Roll: roll}); err != nil {
			t.Fatal(err)
		}
	}
	out, err := ls.Register(ctx, Registration{Roll: "1", Name: "Walk-in", Mobile: "999"})
	if err != nil || out.Game == nil {
		t.Fatalf("guest should complete the game: %+v, %v", out, err)
	}
	if out.Game.TeamTwo[1].RollNumber != "guest-999" || out.Game.PlayTime != "12:00" {
		t.Fatalf("game = %+v", out.Game)
	}
}

func TestRestoreSchedule(t *testing.T) {
	now, _ := fixedClock(15, 0)
	clock := NewClock(30*time.Minute, now)
	cp := &memCheckpoint{}
	_ = cp.Save(context.Background(), now(), ScheduleState{GameCounter: 6, LastSlotMinutes: 15*60 + 30})

	ls := &LobbyService{Clock: clock}
	ls.RestoreSchedule(context.Background(), cp, time.Second)

	if got := clock.Plan(); got.GameNo != 7 || got.PlayTime() != "16:00" {
		t.Fatalf("next slot after restore = %+v (%s)", got, got.PlayTime())
	}

	fresh := NewClock(30*time.Minute, func() time.Time { return now().AddDate(0, 0, 1) })
	(&LobbyService{Clock: fresh}).RestoreSchedule(context.Background(), cp, time.Second)
	if fresh.State().GameCounter != 0 {
		t.Fatal("a new day must start fresh")
	}
}

func TestRestoreScheduleAcrossMidnight(t *testing.T) {
	now, set := fixedClock(0, 5)
	yesterday := now().AddDate(0, 0, -1)
	cp := &memCheckpoint{}
	_ = cp.Save(context.Background(), yesterday, ScheduleState{GameCounter: 9, LastSlotMinutes: 23*60 + 50})

	clock := NewClock(30*time.Minute, now)
	(&LobbyService{Clock: clock}).RestoreSchedule(context.Background(), cp, time.Second)
	if got := clock.Plan(); got.GameNo != 10 || got.PlayTime() != "24:20" {
		t.Fatalf("next slot after midnight restart = %+v (%s)", got, got.PlayTime())
	}

	set(9, 0)
	morning := NewClock(30*time.Minute, now)
	(&LobbyService{Clock: morning}).RestoreSchedule(context.Background(), cp, time.Second)
	if morning.State().GameCounter != 0 {
		t.Fatalf("a session that ended last night must not carry into the morning: %+v", morning.State())
	}
}
