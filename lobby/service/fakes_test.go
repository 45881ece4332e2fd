package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/api"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("store down")

type memGameStore struct {
	mu        sync.Mutex
	games     []models.GameRecord
	insertErr error
	findErr   error
	deleteErr error
	deleted   []primitive.ObjectID
}

func (m *memGameStore) Insert(_ context.Context, g *models.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	g.ID = primitive.NewObjectID()
	m.games = append(m.games, *g)
	return nil
}

func (m *memGameStore) FindOldest(context.Context) (*models.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	if len(m.games) == 0 {
		return nil, nil
	}
	g := m.games[0]
	return &g, nil
}

func (m *memGameStore) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, g := range m.games {
		if g.ID == id {
			m.games = append(m.games[:i], m.games[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memGameStore) FindAll(context.Context) ([]models.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	return append([]models.GameRecord(nil), m.games...), nil
}

func (m *memGameStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.games)
}

type fakeDirectory struct {
	players map[string]models.PlayerRef
	err     error
	calls   int
}

func (f *fakeDirectory) GetPlayer(_ context.Context, roll string) (*models.PlayerRef, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.players[roll]
	if !ok {
		return nil, fmt.Errorf("%w: player %s", api.ErrNotFound, roll)
	}
	return &p, nil
}

type memCache struct {
	entries map[string]models.PlayerRef
	getErr  error
}

func (c *memCache) Get(_ context.Context, roll string) (*models.PlayerRef, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	p, ok := c.entries[roll]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *memCache) Set(_ context.Context, p *models.PlayerRef) error {
	if c.entries == nil {
		c.entries = map[string]models.PlayerRef{}
	}
	c.entries[p.RollNumber] = *p
	return nil
}

type memCheckpoint struct {
	saved map[string]ScheduleState
}

func (m *memCheckpoint) Load(_ context.Context, day time.Time) (ScheduleState, bool, error) {
	s, ok := m.saved[day.Format(time.DateOnly)]
	return s, ok, nil
}

func (m *memCheckpoint) Save(_ context.Context, day time.Time, s ScheduleState) error {
	if m.saved == nil {
		m.saved = map[string]ScheduleState{}
	}
	m.saved[day.Format(time.DateOnly)] = s
	return nil
}

// fixedClock returns a now func pinned to h:m today, and a setter to move it.
func fixedClock(h, m int) (func() time.Time, func(h, m int)) {
	var mu sync.Mutex
	t := time.Date(2024, 5, 10, h, m, 0, 0, time.Local)
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return t
	}
	set := func(h, m int) {
		mu.Lock()
		defer mu.Unlock()
		t = time.Date(2024, 5, 10, h, m, 0, 0, time.Local)
	}
	return now, set
}

func player(id string) models.PlayerRef {
	return models.PlayerRef{RollNumber: id, Name: "Player " + id}
}
