// lobby/syncer/directory_syncer.go
package syncer

import (
	"context"
	"log"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
)

// WarmKey is the ownership key for cache warming across lobby instances.
const WarmKey = "directory-warm"

// maxWarmPlayers matches the player service's list cap.
const maxWarmPlayers = 1000

type PlayerLister interface {
	ListPlayers(ctx context.Context, limit int) ([]models.PlayerRef, error)
}

type BatchCache interface {
	SetMany(ctx context.Context, players []models.PlayerRef) error
}

type Gate interface {
	IsResponsible(key string) (bool, error)
}

// DirectorySyncer periodically copies the player directory into the shared
// Redis cache, so the first scan of each player is served without a
// directory round trip. Only the instance owning WarmKey does the work.
type DirectorySyncer struct {
	players  PlayerLister
	cache    BatchCache
	gate     Gate
	interval time.Duration
	timeout  time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewDirectorySyncer(players PlayerLister, cache BatchCache, gate Gate, interval, timeout time.Duration) *DirectorySyncer {
	ctx, cancel := context.WithCancel(context.Background())
	return &DirectorySyncer{
		players:  players,
		cache:    cache,
		gate:     gate,
		interval: interval,
		timeout:  timeout,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs the warm loop until Stop. Run it in a goroutine.
func (ds *DirectorySyncer) Start() {
	log.Printf("INFO: Directory syncer starting with interval %v", ds.interval)
	ticker := time.NewTicker(ds.interval)
	defer ticker.Stop()

	ds.Warm(ds.ctx)
	for {
		select {
		case <-ds.ctx.Done():
			log.Println("INFO: Directory syncer shutting down.")
			return
		case <-ticker.C:
			ds.Warm(ds.ctx)
		}
	}
}

func (ds *DirectorySyncer) Stop() {
	ds.cancel()
}

// Warm performs one pass. It returns the number of players cached.
func (ds *DirectorySyncer) Warm(ctx context.Context) int {
	if ds.gate != nil {
		owner, err := ds.gate.IsResponsible(WarmKey)
		if err != nil {
			log.Printf("WARN: Directory syncer: ownership check failed: %v", err)
			return 0
		}
		if !owner {
			return 0
		}
	}

	ctx, cancel := context.WithTimeout(ctx, ds.timeout)
	defer cancel()

	players, err := ds.players.ListPlayers(ctx, maxWarmPlayers)
	if err != nil {
		log.Printf("WARN: Directory syncer: listing players failed: %v", err)
		return 0
	}
	if err := ds.cache.SetMany(ctx, players); err != nil {
		log.Printf("WARN: Directory syncer: caching players failed: %v", err)
		return 0
	}
	log.Printf("INFO: Directory syncer cached %d players", len(players))
	return len(players)
}
