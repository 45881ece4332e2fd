// shared/registry/types.go
package registry

// ServiceInfo is what an instance advertises about itself in the registry hash.
type ServiceInfo struct {
	ServiceID   string            `json:"serviceId"`
	ServiceType string            `json:"serviceType"` // e.g. "lobby-service", "player-service"
	IP          string            `json:"ip"`
	Port        int               `json:"port"`
	LastSeen    int64             `json:"last_seen"` // unix milliseconds
	Metadata    map[string]string `json:"metadata,omitempty"`
}
