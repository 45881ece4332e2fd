// shared/cluster/assignment_manager.go
package cluster

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/registry"
	"github.com/stathat/consistent"
)

// MemberSource lists the live instance ids of one service type.
type MemberSource interface {
	ActiveMembers(ctx context.Context) ([]string, error)
}

// ServiceAssignmentManager decides, by consistent hashing over the live
// instances of a service type, which instance owns a given key.
type ServiceAssignmentManager struct {
	members        MemberSource
	selfID         string
	updateInterval time.Duration

	mu   sync.RWMutex
	ring *consistent.Consistent

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServiceAssignmentManager(members MemberSource, selfID string, updateInterval time.Duration) *ServiceAssignmentManager {
	ctx, cancel := context.WithCancel(context.Background())
	ring := consistent.New()
	ring.Add(selfID)
	return &ServiceAssignmentManager{
		members:        members,
		selfID:         selfID,
		updateInterval: updateInterval,
		ring:           ring,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Start refreshes the ring until Stop is called. Run it in a goroutine.
func (sam *ServiceAssignmentManager) Start() {
	ticker := time.NewTicker(sam.updateInterval)
	defer ticker.Stop()

	sam.Refresh(sam.ctx)
	for {
		select {
		case <-sam.ctx.Done():
			return
		case <-ticker.C:
			sam.Refresh(sam.ctx)
		}
	}
}

func (sam *ServiceAssignmentManager) Stop() {
	sam.cancel()
}

// Refresh rebuilds the ring when the set of live members has changed. This
// instance always stays in the ring, so a lone instance owns every key even
// before its first heartbeat is visible.
func (sam *ServiceAssignmentManager) Refresh(ctx context.Context) {
	members, err := sam.members.ActiveMembers(ctx)
	if err != nil {
		log.Printf("ERROR: ServiceAssignmentManager: failed to list members: %v", err)
		return
	}
	if !slices.Contains(members, sam.selfID) {
		members = append(members, sam.selfID)
	}
	slices.Sort(members)

	sam.mu.Lock()
	defer sam.mu.Unlock()

	current := sam.ring.Members()
	slices.Sort(current)
	if slices.Equal(members, current) {
		return
	}
	ring := consistent.New()
	ring.Set(members)
	sam.ring = ring
	log.Printf("INFO: ServiceAssignmentManager: ring updated, members: %v", members)
}

// IsResponsible reports whether this instance owns key.
func (sam *ServiceAssignmentManager) IsResponsible(key string) (bool, error) {
	sam.mu.RLock()
	defer sam.mu.RUnlock()

	owner, err := sam.ring.Get(key)
	if err != nil {
		return false, fmt.Errorf("no owner for %q: %w", key, err)
	}
	return owner == sam.selfID, nil
}

// RegistryMembers lists live instances of ServiceType from the service registry.
type RegistryMembers struct {
	Client      *registry.RegistryClient
	ServiceType string
}

func (rm RegistryMembers) ActiveMembers(ctx context.Context) ([]string, error) {
	services, err := rm.Client.GetActiveServices(ctx, rm.ServiceType)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(services))
	for id := range services {
		ids = append(ids, id)
	}
	return ids, nil
}
