// lobby/service/catalog.go
package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
)

const (
	DefaultUpcomingLimit = 5
	MaxUpcomingLimit     = 50
)

// Catalog answers "next N games" queries over the stored games.
type Catalog struct {
	games   GameStore
	timeout time.Duration
}

func NewCatalog(games GameStore, timeout time.Duration) *Catalog {
	return &Catalog{games: games, timeout: timeout}
}

// ClampLimit maps a requested limit into [1, MaxUpcomingLimit]; zero means the default.
func ClampLimit(limit int) int {
	if limit == 0 {
		return DefaultUpcomingLimit
	}
	return min(max(limit, 1), MaxUpcomingLimit)
}

// ListUpcoming returns up to limit games ordered by play time, and the total
// number of stored games. The order is recomputed on every call.
func (c *Catalog) ListUpcoming(ctx context.Context, limit int) ([]models.GameRecord, int, error) {
	limit = ClampLimit(limit)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	games, err := c.games.FindAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list games: %v", ErrStorageUnavailable, err)
	}

	slices.SortStableFunc(games, func(a, b models.GameRecord) int {
		return slotMinutes(a.PlayTime) - slotMinutes(b.PlayTime)
	})

	total := len(games)
	if total > limit {
		games = games[:limit]
	}
	return games, total, nil
}
