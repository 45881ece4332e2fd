// shared/config/config.go
package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// CommonConfig holds configuration fields that are shared across both services.
type CommonConfig struct {
	RedisAddrs              []string      // Redis addresses; one entry means a single node, several mean a cluster
	RedisPassword           string        // Redis password for authentication
	HeartbeatInterval       time.Duration // How often to send a heartbeat to the registry (e.g., 5s)
	HeartbeatTTL            time.Duration // How long an instance is considered alive without a heartbeat (e.g., 15s)
	RegistryCleanupInterval time.Duration // How often the registry actively cleans stale entries (e.g., 30s)
	ServiceIP               string        // The IP address this service advertises for registration
	ServicePort             int           // The port this service listens on, used for registration
	MongoDBConnStr          string        // MongoDB connection string
	MongoDBDatabase         string        // MongoDB database name (e.g., "lasertag")
	StoreTimeout            time.Duration // Upper bound for a single store call
}

// LobbyServiceConfig holds configuration specific to the lobby-service.
type LobbyServiceConfig struct {
	CommonConfig
	ListenAddr           string        // Address for the HTTP server (e.g., ":3000")
	PlayerServiceURL     string        // Base URL of the player directory (e.g., "http://player-service:8081")
	GamesCollection      string        // MongoDB collection for scheduled games
	TeamSize             int           // Players per side; the display must read the same value
	SlotGap              time.Duration // Fixed gap between consecutive play slots
	PlayerCacheTTL       time.Duration // TTL of cached directory lookups in Redis
	CacheWarmInterval    time.Duration // How often the directory is copied into the cache; 0 disables
	ReaderCommand        string        // Executable of the card reader process
	ReaderArgs           []string      // Arguments passed to the card reader process
	ReaderSerialPath     string        // SERIAL_PATH handed to the reader
	ReaderBackendURL     string        // BACKEND_URL handed to the reader (where it posts /register)
	ReaderAutoStart      bool          // Start the reader at boot if this instance owns it
	ScheduleCheckpointed bool          // Persist ScheduleState to Redis after each game
}

// PlayerServiceConfig holds configuration specific to the player-service.
type PlayerServiceConfig struct {
	CommonConfig
	ListenAddr        string // Address for the HTTP server to listen on (e.g., ":8081")
	PlayersCollection string // MongoDB collection for the player directory
	ImportPath        string // Optional JSON/YAML file imported at startup
}

// LoadCommonConfig loads common configuration from environment variables.
func LoadCommonConfig() (CommonConfig, error) {
	cfg := CommonConfig{}
	var err error

	redisAddrsStr := os.Getenv("REDIS_ADDRS")
	if redisAddrsStr == "" {
		cfg.RedisAddrs = []string{"localhost:6379"}
	} else {
		for _, addr := range strings.Split(redisAddrsStr, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				cfg.RedisAddrs = append(cfg.RedisAddrs, addr)
			}
		}
	}
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	cfg.HeartbeatInterval, err = getDuration("SERVICE_HEARTBEAT_INTERVAL", 5*time.Second)
	if err != nil {
		return cfg, err
	}
	cfg.HeartbeatTTL, err = getDuration("SERVICE_HEARTBEAT_TTL", 15*time.Second)
	if err != nil {
		return cfg, err
	}
	cfg.RegistryCleanupInterval, err = getDuration("SERVICE_REGISTRY_CLEANUP_INTERVAL", 30*time.Second)
	if err != nil {
		return cfg, err
	}
	cfg.StoreTimeout, err = getDuration("STORE_TIMEOUT", 5*time.Second)
	if err != nil {
		return cfg, err
	}

	cfg.ServiceIP = os.Getenv("POD_IP")
	if cfg.ServiceIP == "" {
		cfg.ServiceIP = "0.0.0.0"
		log.Printf("WARN: POD_IP not set, defaulting ServiceIP to %s", cfg.ServiceIP)
	}

	cfg.MongoDBConnStr = getString("MONGODB_CONN_STR", "mongodb://localhost:27017")
	cfg.MongoDBDatabase = getString("MONGODB_DATABASE", "lasertag")

	return cfg, nil
}

func getString(envKey, defaultVal string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultVal
}

// Helper function to parse duration from environment variable
func getDuration(envKey string, defaultVal time.Duration) (time.Duration, error) {
	valStr := os.Getenv(envKey)
	if valStr == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format for %s: %w", envKey, err)
	}
	return d, nil
}

// Helper function to parse int from environment variable
func getInt(envKey string, defaultVal int) (int, error) {
	valStr := os.Getenv(envKey)
	if valStr == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid integer format for %s: %w", envKey, err)
	}
	return i, nil
}

func getBool(envKey string, defaultVal bool) (bool, error) {
	valStr := os.Getenv(envKey)
	if valStr == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("invalid boolean format for %s: %w", envKey, err)
	}
	return b, nil
}

// extractPort extracts the numeric port from a listen address (e.g., ":8082" -> 8082, "0.0.0.0:8082" -> 8082)
func extractPort(listenAddr string) (int, error) {
	_, portStr, err := net.SplitHostPort(listenAddr)
	if err != nil {
		if strings.HasPrefix(listenAddr, ":") {
			portStr = strings.TrimPrefix(listenAddr, ":")
		} else {
			return 0, fmt.Errorf("invalid ListenAddr format for port extraction: %w", err)
		}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number '%s': %w", portStr, err)
	}
	return port, nil
}

// LoadLobbyServiceConfig loads configuration for the lobby-service.
func LoadLobbyServiceConfig() (*LobbyServiceConfig, error) {
	common, err := LoadCommonConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load common config for lobby-service: %w", err)
	}

	cfg := &LobbyServiceConfig{
		CommonConfig:     common,
		ListenAddr:       getString("LOBBY_SERVICE_LISTEN_ADDR", ":3000"),
		PlayerServiceURL: getString("PLAYERS_SERVICE_URL", "http://localhost:8081"),
		GamesCollection:  getString("LOBBY_GAMES_COLLECTION", "registered"),
		ReaderCommand:    getString("LOBBY_READER_COMMAND", "node"),
		ReaderSerialPath: getString("SERIAL_PATH", "COM5"),
	}
	if args := os.Getenv("LOBBY_READER_ARGS"); args != "" {
		cfg.ReaderArgs = strings.Fields(args)
	} else {
		cfg.ReaderArgs = []string{"pn532.js/examples/nfc-read-memory.js"}
	}

	cfg.ServicePort, err = extractPort(cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to extract port from LOBBY_SERVICE_LISTEN_ADDR '%s': %w", cfg.ListenAddr, err)
	}
	cfg.ReaderBackendURL = getString("BACKEND_URL", fmt.Sprintf("http://localhost:%d", cfg.ServicePort))

	cfg.TeamSize, err = getInt("LOBBY_TEAM_SIZE", 4)
	if err != nil {
		return nil, err
	}
	if cfg.TeamSize <= 0 {
		return nil, fmt.Errorf("LOBBY_TEAM_SIZE must be a positive integer (got %d)", cfg.TeamSize)
	}
	cfg.SlotGap, err = getDuration("LOBBY_SLOT_GAP", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	if cfg.SlotGap < time.Minute {
		return nil, fmt.Errorf("LOBBY_SLOT_GAP must be at least one minute (got %s)", cfg.SlotGap)
	}
	cfg.PlayerCacheTTL, err = getDuration("LOBBY_PLAYER_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.CacheWarmInterval, err = getDuration("LOBBY_CACHE_WARM_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.ReaderAutoStart, err = getBool("LOBBY_READER_AUTOSTART", false)
	if err != nil {
		return nil, err
	}
	cfg.ScheduleCheckpointed, err = getBool("LOBBY_SCHEDULE_CHECKPOINT", true)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadPlayerServiceConfig loads configuration for the player-service.
func LoadPlayerServiceConfig() (*PlayerServiceConfig, error) {
	common, err := LoadCommonConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load common config for player-service: %w", err)
	}

	cfg := &PlayerServiceConfig{
		CommonConfig:      common,
		ListenAddr:        getString("PLAYER_SERVICE_LISTEN_ADDR", ":8081"),
		PlayersCollection: getString("MONGODB_PLAYERS_COLLECTION", "students"),
		ImportPath:        os.Getenv("PLAYER_IMPORT_PATH"),
	}

	cfg.ServicePort, err = extractPort(cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to extract port from PLAYER_SERVICE_LISTEN_ADDR '%s': %w", cfg.ListenAddr, err)
	}

	return cfg, nil
}
