// shared/redis/constants.go
package redis

// Key formats. The braces keep all keys of one entity in the same cluster slot.
const (
	// PlayerCacheKeyPrefix holds a cached directory profile: player:{rollNumber}:
	PlayerCacheKeyPrefix = "player:{%s}:"
	// ScheduleStateKeyPrefix holds the scheduling clock checkpoint for one day: schedule:{2006-01-02}:
	ScheduleStateKeyPrefix = "schedule:{%s}:"
)
