// lobby/store/player_cache.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
	redisu "github.com/Ftotnem/LASERTAG-SERVICES/shared/redis"
	"github.com/redis/go-redis/v9"
)

// PlayerCache holds directory lookups in Redis as JSON with a TTL.
type PlayerCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewPlayerCache(client redis.UniversalClient, ttl time.Duration) *PlayerCache {
	return &PlayerCache{client: client, ttl: ttl}
}

func playerKey(rollNumber string) string {
	return fmt.Sprintf(redisu.PlayerCacheKeyPrefix, rollNumber)
}

// Get returns the cached player, or nil, nil on a miss.
func (pc *PlayerCache) Get(ctx context.Context, rollNumber string) (*models.PlayerRef, error) {
	raw, err := pc.client.Get(ctx, playerKey(rollNumber)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached player %s: %w", rollNumber, err)
	}
	var player models.PlayerRef
	if err := json.Unmarshal(raw, &player); err != nil {
		return nil, fmt.Errorf("corrupt cache entry for player %s: %w", rollNumber, err)
	}
	return &player, nil
}

func (pc *PlayerCache) Set(ctx context.Context, player *models.PlayerRef) error {
	raw, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to encode player %s: %w", player.RollNumber, err)
	}
	if err := pc.client.Set(ctx, playerKey(player.RollNumber), raw, pc.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache player %s: %w", player.RollNumber, err)
	}
	return nil
}

// SetMany caches a batch of players in one pipeline.
func (pc *PlayerCache) SetMany(ctx context.Context, players []models.PlayerRef) error {
	if len(players) == 0 {
		return nil
	}
	_, err := pc.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i := range players {
			raw, err := json.Marshal(&players[i])
			if err != nil {
				return err
			}
			pipe.Set(ctx, playerKey(players[i].RollNumber), raw, pc.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to cache %d players: %w", len(players), err)
	}
	return nil
}
