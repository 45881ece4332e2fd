package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
)

func TestResolveFromDirectoryAndCache(t *testing.T) {
	dir := &fakeDirectory{players: map[string]models.PlayerRef{
		"21CS001": {RollNumber: "21CS001", Name: "Asha", Email: "asha@example.com"},
	}}
	cache := &memCache{}
	r := NewResolver(dir, cache, time.Second)
	ctx := context.Background()

	p, err := r.Resolve(ctx, Registration{Roll: " 21CS001 "})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if p.Name != "Asha" {
		t.Fatalf("name = %q", p.Name)
	}
	if _, ok := cache.entries["21CS001"]; !ok {
		t.Fatal("resolved player was not cached")
	}

	if _, err := r.Resolve(ctx, Registration{Roll: "21CS001"}); err != nil {
		t.Fatal(err)
	}
	if dir.calls != 1 {
		t.Fatalf("directory called %d times, want 1", dir.calls)
	}
}

func TestResolveErrors(t *testing.T) {
	dir := &fakeDirectory{players: map[string]models.PlayerRef{}}
	r := NewResolver(dir, nil, time.Second)
	ctx := context.Background()

	if _, err := r.Resolve(ctx, Registration{Roll: "nope"}); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("err = %v, want ErrUnknownPlayer", err)
	}
	if _, err := r.Resolve(ctx, Registration{}); !errors.Is(err, ErrMissingIdentifier) {
		t.Fatalf("err = %v, want ErrMissingIdentifier", err)
	}

	dir.err = errStoreDown
	if _, err := r.Resolve(ctx, Registration{Roll: "x"}); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("err = %v, want ErrStorageUnavailable", err)
	}
}

func TestResolveCacheFailureFallsThrough(t *testing.T) {
	dir := &fakeDirectory{players: map[string]models.PlayerRef{"a": {RollNumber: "a"}}}
	r := NewResolver(dir, &memCache{getErr: errStoreDown}, time.Second)

	if _, err := r.Resolve(context.Background(), Registration{Roll: "a"}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if dir.calls != 1 {
		t.Fatal("directory should be used when the cache fails")
	}
}

func TestResolveGuest(t *testing.T) {
	dir := &fakeDirectory{}
	r := NewResolver(dir, nil, time.Second)
	ctx := context.Background()

	byEmail1, _ := r.Resolve(ctx, Registration{Roll: "1", Name: "Guest", Email: "G@Example.com"})
	byEmail2, _ := r.Resolve(ctx, Registration{Roll: "1", Name: "Guest again", Email: "g@example.com"})
	if byEmail1.ID() != byEmail2.ID() || !strings.HasPrefix(byEmail1.ID(), "guest-") {
		t.Fatalf("email-derived ids differ: %q vs %q", byEmail1.ID(), byEmail2.ID())
	}
	if !byEmail1.Guest || byEmail1.Name != "Guest" {
		t.Fatalf("guest profile = %+v", byEmail1)
	}

	withRoll, _ := r.Resolve(ctx, Registration{Roll: "1", RollNumber: "EXT-9"})
	if withRoll.ID() != "EXT-9" {
		t.Fatalf("id = %q, want EXT-9", withRoll.ID())
	}

	anon1, _ := r.Resolve(ctx, Registration{Roll: "1"})
	anon2, _ := r.Resolve(ctx, Registration{Roll: "1"})
	if anon1.ID() == anon2.ID() {
		t.Fatal("anonymous guests must get distinct ids")
	}

	if dir.calls != 0 {
		t.Fatal("guests must not hit the directory")
	}
}
