// shared/registry/constants.go
package registry

const (
	// RedisRegistryHashPrefix prefixes the per-type registry hash,
	// e.g. "services:lobby-service". Fields are instance ids.
	RedisRegistryHashPrefix = "services:"
)

func hashKey(serviceType string) string {
	return RedisRegistryHashPrefix + serviceType
}
