package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	lobbyapi "github.com/Ftotnem/LASERTAG-SERVICES/lobby/api"
	"github.com/Ftotnem/LASERTAG-SERVICES/lobby/reader"
	"github.com/Ftotnem/LASERTAG-SERVICES/lobby/service"
	"github.com/Ftotnem/LASERTAG-SERVICES/lobby/store"
	"github.com/Ftotnem/LASERTAG-SERVICES/lobby/syncer"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/api"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/cluster"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/config"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/mongodb"
	redisu "github.com/Ftotnem/LASERTAG-SERVICES/shared/redis"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/registry"
	playerserviceclient "github.com/Ftotnem/LASERTAG-SERVICES/shared/service"
)

const serviceType = "lobby-service"

func main() {
	// --- 1. Load Configuration ---
	cfg, err := config.LoadLobbyServiceConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("INFO: Configuration loaded for Lobby Service. Listening on: %s, team size %d", cfg.ListenAddr, cfg.TeamSize)

	// --- 2. Connect to MongoDB (required) ---
	mongoClient, err := mongodb.NewClient(cfg.MongoDBConnStr, cfg.MongoDBDatabase, 10*time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Printf("ERROR: Error disconnecting from MongoDB: %v", err)
		}
	}()

	// --- 3. Connect to Redis ---
	redisClient, err := redisu.NewUniversalClient(cfg.RedisAddrs, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("ERROR: Error closing Redis client: %v", err)
		}
		log.Println("INFO: Redis client closed.")
	}()

	// --- 4. Initialize Data Stores ---
	gameStore := store.NewGameStore(mongoClient.Collection(cfg.GamesCollection))
	playerCache := store.NewPlayerCache(redisClient, cfg.PlayerCacheTTL)
	playerClient := playerserviceclient.NewPlayerClient(cfg.PlayerServiceURL)

	var checkpoint service.ScheduleCheckpoint
	if cfg.ScheduleCheckpointed {
		checkpoint = store.NewScheduleStore(redisClient)
	}

	// --- 5. Initialize Business Logic ---
	clock := service.NewClock(cfg.SlotGap, time.Now)
	lobby := &service.LobbyService{
		Resolver:  service.NewResolver(playerClient, playerCache, cfg.StoreTimeout),
		Assembler: service.NewAssembler(cfg.TeamSize, clock, gameStore, checkpoint, cfg.StoreTimeout),
		Clock:     clock,
		Catalog:   service.NewCatalog(gameStore, cfg.StoreTimeout),
		Handoff:   service.NewHandoff(gameStore, cfg.StoreTimeout),
	}
	if checkpoint != nil {
		lobby.RestoreSchedule(context.Background(), checkpoint, cfg.StoreTimeout)
	}
	log.Println("INFO: Lobby Service business logic initialized.")

	// --- 6. Service Registration and Ownership ---
	registrar := registry.NewServiceRegistrar(redisClient, serviceType, &cfg.CommonConfig)
	registrar.Start()
	defer registrar.Stop()

	registryClient := registry.NewRegistryClient(redisClient, cfg.HeartbeatTTL)
	assignments := cluster.NewServiceAssignmentManager(
		cluster.RegistryMembers{Client: registryClient, ServiceType: serviceType},
		registrar.GetServiceID(),
		cfg.HeartbeatInterval,
	)
	go assignments.Start()
	defer assignments.Stop()

	if cfg.CacheWarmInterval > 0 {
		directorySyncer := syncer.NewDirectorySyncer(playerClient, playerCache, assignments, cfg.CacheWarmInterval, cfg.StoreTimeout)
		go directorySyncer.Start()
		defer directorySyncer.Stop()
	}

	// --- 7. Card Reader ---
	supervisor := reader.NewSupervisor(reader.Config{
		Command:    cfg.ReaderCommand,
		Args:       cfg.ReaderArgs,
		SerialPath: cfg.ReaderSerialPath,
		BackendURL: cfg.ReaderBackendURL,
	}, assignments)
	if cfg.ReaderAutoStart {
		assignments.Refresh(context.Background())
		if _, err := supervisor.Start(); err != nil {
			log.Printf("WARN: NFC reader not started at boot: %v", err)
		}
	}

	// --- 8. Setup HTTP Server and Register Routes ---
	baseServer := api.NewBaseServer(cfg.ListenAddr, log.Default())
	lobbyapi.NewLobbyAPIHandlers(lobby, supervisor).RegisterRoutes(baseServer.Router)
	log.Println("INFO: HTTP routes registered.")

	go func() {
		if err := baseServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed to start: %v", err)
		}
	}()

	// --- 9. Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("INFO: Shutting down Lobby Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := baseServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: HTTP server graceful shutdown failed: %v", err)
	}
	if supervisor.Status().Running {
		if err := supervisor.Stop(5 * time.Second); err != nil {
			log.Printf("ERROR: Stopping NFC reader: %v", err)
		}
	}
	log.Println("INFO: Lobby Service gracefully shut down.")
}
