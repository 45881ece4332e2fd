// shared/registry/registrar.go
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ServiceRegistrar keeps one instance's entry in the registry fresh and prunes
// entries whose heartbeat has lapsed.
type ServiceRegistrar struct {
	redisClient redis.UniversalClient
	serviceType string
	cfg         *config.CommonConfig
	serviceID   string
	stopOnce    sync.Once
	stopChan    chan struct{}
	doneChan    chan struct{}
}

func NewServiceRegistrar(redisClient redis.UniversalClient, serviceType string, cfg *config.CommonConfig) *ServiceRegistrar {
	return &ServiceRegistrar{
		redisClient: redisClient,
		serviceType: serviceType,
		cfg:         cfg,
		serviceID:   fmt.Sprintf("%s-%s", serviceType, uuid.NewString()),
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
}

// Start registers the instance immediately, then heartbeats in the background.
func (sr *ServiceRegistrar) Start() {
	log.Printf("INFO: Starting service registrar for %s (ID: %s) at %s:%d",
		sr.serviceType, sr.serviceID, sr.cfg.ServiceIP, sr.cfg.ServicePort)
	sr.heartbeat()
	go sr.run()
}

// Stop ends heartbeating and removes this instance from the registry.
func (sr *ServiceRegistrar) Stop() {
	sr.stopOnce.Do(func() {
		close(sr.stopChan)
		<-sr.doneChan

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sr.redisClient.HDel(ctx, hashKey(sr.serviceType), sr.serviceID).Err(); err != nil {
			log.Printf("ERROR: Failed to deregister %s (ID: %s): %v", sr.serviceType, sr.serviceID, err)
			return
		}
		log.Printf("INFO: Service %s (ID: %s) removed from registry.", sr.serviceType, sr.serviceID)
	})
}

func (sr *ServiceRegistrar) run() {
	defer close(sr.doneChan)

	heartbeat := time.NewTicker(sr.cfg.HeartbeatInterval)
	defer heartbeat.Stop()

	var cleanup <-chan time.Time
	if sr.cfg.RegistryCleanupInterval > 0 {
		t := time.NewTicker(sr.cfg.RegistryCleanupInterval)
		defer t.Stop()
		cleanup = t.C
	}

	for {
		select {
		case <-heartbeat.C:
			sr.heartbeat()
		case <-cleanup:
			sr.pruneStale()
		case <-sr.stopChan:
			return
		}
	}
}

func (sr *ServiceRegistrar) heartbeat() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	info := ServiceInfo{
		ServiceID:   sr.serviceID,
		ServiceType: sr.serviceType,
		IP:          sr.cfg.ServiceIP,
		Port:        sr.cfg.ServicePort,
		LastSeen:    time.Now().UnixMilli(),
	}
	infoJSON, err := json.Marshal(info)
	if err != nil {
		log.Printf("ERROR: Failed to marshal ServiceInfo for %s: %v", sr.serviceID, err)
		return
	}
	if err := sr.redisClient.HSet(ctx, hashKey(sr.serviceType), sr.serviceID, infoJSON).Err(); err != nil {
		log.Printf("ERROR: Heartbeat for %s (ID: %s) failed: %v", sr.serviceType, sr.serviceID, err)
	}
}

func (sr *ServiceRegistrar) pruneStale() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key := hashKey(sr.serviceType)
	results, err := sr.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		log.Printf("ERROR: Registry cleanup for %s failed: %v", sr.serviceType, err)
		return
	}

	now := time.Now()
	for instanceID, infoJSON := range results {
		var info ServiceInfo
		stale := json.Unmarshal([]byte(infoJSON), &info) != nil ||
			now.Sub(time.UnixMilli(info.LastSeen)) > sr.cfg.HeartbeatTTL
		if !stale {
			continue
		}
		if err := sr.redisClient.HDel(ctx, key, instanceID).Err(); err != nil {
			log.Printf("ERROR: Registry cleanup could not remove %s: %v", instanceID, err)
		} else {
			log.Printf("INFO: Registry cleanup removed stale instance %s.", instanceID)
		}
	}
}

// GetServiceID returns the unique ID assigned to this service instance.
func (sr *ServiceRegistrar) GetServiceID() string {
	return sr.serviceID
}

// GetServiceType returns the type of this service instance.
func (sr *ServiceRegistrar) GetServiceType() string {
	return sr.serviceType
}
