// lobby/store/schedule_store.go
package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/lobby/service"
	redisu "github.com/Ftotnem/LASERTAG-SERVICES/shared/redis"
	"github.com/redis/go-redis/v9"
)

const (
	fieldGameCounter = "game_counter"
	fieldLastSlot    = "last_slot_minutes"

	// Kept past the end of the day so a restart after midnight can still read
	// the previous day's checkpoint.
	scheduleTTL = 36 * time.Hour
)

// ScheduleStore checkpoints the scheduling clock in a Redis hash per calendar day.
type ScheduleStore struct {
	client redis.UniversalClient
}

func NewScheduleStore(client redis.UniversalClient) *ScheduleStore {
	return &ScheduleStore{client: client}
}

func scheduleKey(day time.Time) string {
	return fmt.Sprintf(redisu.ScheduleStateKeyPrefix, day.Format(time.DateOnly))
}

// Load returns the state saved for day. ok is false when there is none.
func (ss *ScheduleStore) Load(ctx context.Context, day time.Time) (service.ScheduleState, bool, error) {
	fields, err := ss.client.HGetAll(ctx, scheduleKey(day)).Result()
	if err != nil {
		return service.ScheduleState{}, false, fmt.Errorf("failed to load schedule for %s: %w", day.Format(time.DateOnly), err)
	}
	if len(fields) == 0 {
		return service.ScheduleState{}, false, nil
	}

	counter, err := strconv.Atoi(fields[fieldGameCounter])
	if err != nil {
		return service.ScheduleState{}, false, fmt.Errorf("bad %s in schedule checkpoint: %w", fieldGameCounter, err)
	}
	last, err := strconv.Atoi(fields[fieldLastSlot])
	if err != nil {
		return service.ScheduleState{}, false, fmt.Errorf("bad %s in schedule checkpoint: %w", fieldLastSlot, err)
	}
	return service.ScheduleState{GameCounter: counter, LastSlotMinutes: last}, true, nil
}

func (ss *ScheduleStore) Save(ctx context.Context, day time.Time, state service.ScheduleState) error {
	key := scheduleKey(day)
	_, err := ss.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldGameCounter, state.GameCounter, fieldLastSlot, state.LastSlotMinutes)
		pipe.Expire(ctx, key, scheduleTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save schedule for %s: %w", day.Format(time.DateOnly), err)
	}
	return nil
}
