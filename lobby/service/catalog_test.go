package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
)

func TestClampLimit(t *testing.T) {
	cases := map[int]int{0: 5, -3: 1, 1: 1, 7: 7, 50: 50, 51: 50, 1000: 50}
	for in, want := range cases {
		if got := ClampLimit(in); got != want {
			t.Errorf("ClampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestListUpcomingSortsByPlayTime(t *testing.T) {
	store := &memGameStore{}
	for i, pt := range []string{"09:10", "08:00", "09:00", "", "bogus"} {
		_ = store.Insert(context.Background(), &models.GameRecord{GameNo: i + 1, PlayTime: pt})
	}
	c := NewCatalog(store, time.Second)

	games, total, err := c.ListUpcoming(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 5 || len(games) != 5 {
		t.Fatalf("total=%d len=%d", total, len(games))
	}
	want := []string{"", "bogus", "08:00", "09:00", "09:10"}
	for i, g := range games {
		if g.PlayTime != want[i] {
			t.Fatalf("position %d = %q, want %q", i, g.PlayTime, want[i])
		}
	}

	games, total, _ = c.ListUpcoming(context.Background(), 2)
	if total != 5 || len(games) != 2 {
		t.Fatalf("limited: total=%d len=%d", total, len(games))
	}
}

func TestListUpcomingStorageFailure(t *testing.T) {
	c := NewCatalog(&memGameStore{findErr: errStoreDown}, time.Second)
	if _, _, err := c.ListUpcoming(context.Background(), 5); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("err = %v, want ErrStorageUnavailable", err)
	}
}
