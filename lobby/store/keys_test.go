package store

import (
	"testing"
	"time"
)

func TestKeys(t *testing.T) {
	if got := playerKey("21CS001"); got != "player:{21CS001}:" {
		t.Errorf("playerKey = %q", got)
	}
	day := time.Date(2024, 5, 10, 23, 59, 0, 0, time.Local)
	if got := scheduleKey(day); got != "schedule:{2024-05-10}:" {
		t.Errorf("scheduleKey = %q", got)
	}
}
