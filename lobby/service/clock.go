// lobby/service/clock.go
package service

import (
	"sync"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
)

// ScheduleState is the clock's durable state. LastSlotMinutes is meaningful
// only once GameCounter > 0.
type ScheduleState struct {
	GameCounter     int `json:"game_counter"`
	LastSlotMinutes int `json:"last_slot_minutes"`
}

// Slot is a planned but not yet committed play time.
type Slot struct {
	GameNo  int
	Minutes int
}

func (s Slot) PlayTime() string { return FormatHHMM(s.Minutes) }

// Clock hands out monotonically non-decreasing play-time slots.
type Clock struct {
	mu    sync.Mutex
	state ScheduleState
	gap   int
	now   func() time.Time
}

func NewClock(gap time.Duration, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{gap: int(gap / time.Minute), now: now}
}

// Plan computes the next slot without advancing the clock.
func (c *Clock) Plan() Slot {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := MinutesSinceMidnight(c.now())
	slot := now
	if c.state.GameCounter > 0 {
		slot = max(c.state.LastSlotMinutes+c.gap, now)
	}
	return Slot{GameNo: c.state.GameCounter + 1, Minutes: slot}
}

// Schedule plans the next slot and drafts the record for the two teams.
func (c *Clock) Schedule(teamOne, teamTwo []models.PlayerRef) (*models.GameRecord, Slot) {
	slot := c.Plan()
	return &models.GameRecord{
		GameNo:   slot.GameNo,
		TeamOne:  teamOne,
		TeamTwo:  teamTwo,
		PlayTime: slot.PlayTime(),
	}, slot
}

// Commit advances the clock to a slot returned by Plan.
func (c *Clock) Commit(slot Slot) ScheduleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = ScheduleState{GameCounter: slot.GameNo, LastSlotMinutes: slot.Minutes}
	return c.state
}

func (c *Clock) State() ScheduleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Restore replaces the state, used when resuming from a checkpoint.
func (c *Clock) Restore(state ScheduleState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

// Continues reports whether prev, saved on the previous calendar day, still
// has its next slot at or after now. Such a session ran past midnight and its
// slots keep counting from 24:00 instead of restarting.
func (c *Clock) Continues(prev ScheduleState) bool {
	if prev.GameCounter == 0 {
		return false
	}
	next := prev.LastSlotMinutes + c.gap - minutesPerDay
	return next >= MinutesSinceMidnight(c.now())
}

// Today returns the clock's current time, used to key checkpoints by day.
func (c *Clock) Today() time.Time {
	return c.now()
}
