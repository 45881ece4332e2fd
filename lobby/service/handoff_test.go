package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
)

func seededStore(t *testing.T) *memGameStore {
	t.Helper()
	store := &memGameStore{}
	first := &models.GameRecord{
		GameNo:  1,
		TeamOne: []models.PlayerRef{{RollNumber: "r1", Name: "Asha", Email: "a@x"}, {RollNumber: "r2", Name: "Ben"}},
		TeamTwo: []models.PlayerRef{{RollNumber: "r3", Name: "Cy", Mobile: "555"}, {RollNumber: "r4"}},
	}
	if err := store.Insert(context.Background(), first); err != nil {
		t.Fatal(err)
	}
	_ = store.Insert(context.Background(), &models.GameRecord{GameNo: 2})
	return store
}

func TestHandoffSubmitAndTake(t *testing.T) {
	store := seededStore(t)
	h := NewHandoff(store, time.Second)
	ctx := context.Background()

	err := h.SubmitLiveScore(ctx, LiveScoreSubmission{
		Players: []models.PlayerStat{
			{ID: 1, Kills: 3},
			{ID: 3, Name: "ignored", Deaths: 2},
			{ID: 4, Name: "fallback"},
			{ID: 9, Name: "off roster"},
		},
		Team1Score:   10,
		Team2Score:   7,
		GameIsActive: true,
	})
	if err != nil {
		t.Fatalf("SubmitLiveScore: %v", err)
	}

	res, err := h.TakeLiveResult(ctx)
	if err != nil {
		t.Fatalf("TakeLiveResult: %v", err)
	}
	if res.GameNo != 1 || res.Team1Score != 10 || res.Team2Score != 7 || !res.GameIsActive {
		t.Fatalf("result header = %+v", res)
	}
	p := res.Players
	if p[0].Name != "Asha" || p[0].RollNumber != "r1" || p[0].Email != "a@x" || p[0].Kills != 3 {
		t.Fatalf("player 1 = %+v", p[0])
	}
	if p[1].Name != "Cy" || p[1].Mobile != "555" || p[1].Deaths != 2 {
		t.Fatalf("player 3 = %+v", p[1])
	}
	if p[2].Name != "fallback" || p[2].RollNumber != "r4" {
		t.Fatalf("player 4 = %+v", p[2])
	}
	if p[3].Name != "off roster" || p[3].RollNumber != "" {
		t.Fatalf("player 9 = %+v", p[3])
	}

	if store.count() != 1 || store.games[0].GameNo != 2 {
		t.Fatal("source game was not deleted")
	}

	if _, err := h.TakeLiveResult(ctx); !errors.Is(err, ErrNoPendingResult) {
		t.Fatalf("second take err = %v, want ErrNoPendingResult", err)
	}
}

func TestHandoffSubmitOverwrites(t *testing.T) {
	h := NewHandoff(seededStore(t), time.Second)
	ctx := context.Background()

	_ = h.SubmitLiveScore(ctx, LiveScoreSubmission{Team1Score: 1})
	_ = h.SubmitLiveScore(ctx, LiveScoreSubmission{Team1Score: 2})

	res, err := h.TakeLiveResult(ctx)
	if err != nil || res.Team1Score != 2 {
		t.Fatalf("take = %+v, %v", res, err)
	}
	if h.Pending() {
		t.Fatal("buffer should be empty after take")
	}
}

func TestHandoffNoGames(t *testing.T) {
	h := NewHandoff(&memGameStore{}, time.Second)
	if err := h.SubmitLiveScore(context.Background(), LiveScoreSubmission{}); !errors.Is(err, ErrNoGames) {
		t.Fatalf("err = %v, want ErrNoGames", err)
	}
	if h.Pending() {
		t.Fatal("nothing should be pending")
	}
}

func TestHandoffDeleteFailureStillReturnsSnapshot(t *testing.T) {
	store := seededStore(t)
	h := NewHandoff(store, time.Second)
	ctx := context.Background()

	if err := h.SubmitLiveScore(ctx, LiveScoreSubmission{Team2Score: 4}); err != nil {
		t.Fatal(err)
	}
	store.deleteErr = errStoreDown

	res, err := h.TakeLiveResult(ctx)
	if err != nil || res.Team2Score != 4 {
		t.Fatalf("take = %+v, %v", res, err)
	}
	if len(store.deleted) != 1 {
		t.Fatal("delete was not attempted")
	}
	if _, err := h.TakeLiveResult(ctx); !errors.Is(err, ErrNoPendingResult) {
		t.Fatal("failed delete must not re-queue the result")
	}
}

func TestHandoffConcurrentTakesDeliverOnce(t *testing.T) {
	h := NewHandoff(seededStore(t), time.Second)
	ctx := context.Background()
	if err := h.SubmitLiveScore(ctx, LiveScoreSubmission{}); err != nil {
		t.Fatal(err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		delivered int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.TakeLiveResult(ctx); err == nil {
				mu.Lock()
				delivered++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if delivered != 1 {
		t.Fatalf("delivered %d times, want 1", delivered)
	}
}
