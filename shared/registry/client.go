// shared/registry/client.go
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RegistryClient reads the registry. Registration itself is done by ServiceRegistrar.
type RegistryClient struct {
	redisClient    redis.UniversalClient
	serviceTimeout time.Duration
	now            func() time.Time
}

func NewRegistryClient(redisClient redis.UniversalClient, serviceTimeout time.Duration) *RegistryClient {
	return &RegistryClient{
		redisClient:    redisClient,
		serviceTimeout: serviceTimeout,
		now:            time.Now,
	}
}

// GetActiveServices returns the instances of serviceType whose last heartbeat
// is within the service timeout, keyed by instance id.
func (rc *RegistryClient) GetActiveServices(ctx context.Context, serviceType string) (map[string]ServiceInfo, error) {
	results, err := rc.redisClient.HGetAll(ctx, hashKey(serviceType)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s registry: %w", serviceType, err)
	}

	active := make(map[string]ServiceInfo, len(results))
	now := rc.now()
	for instanceID, infoJSON := range results {
		var info ServiceInfo
		if err := json.Unmarshal([]byte(infoJSON), &info); err != nil {
			log.Printf("WARN: RegistryClient: malformed entry %s in %s registry: %v", instanceID, serviceType, err)
			continue
		}
		if now.Sub(time.UnixMilli(info.LastSeen)) <= rc.serviceTimeout {
			active[instanceID] = info
		}
	}
	return active, nil
}
