package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	playerapi "github.com/Ftotnem/LASERTAG-SERVICES/player/api"
	"github.com/Ftotnem/LASERTAG-SERVICES/player/importer"
	"github.com/Ftotnem/LASERTAG-SERVICES/player/service"
	"github.com/Ftotnem/LASERTAG-SERVICES/player/store"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/api"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/config"
	mongodbu "github.com/Ftotnem/LASERTAG-SERVICES/shared/mongodb"
	redisu "github.com/Ftotnem/LASERTAG-SERVICES/shared/redis"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/registry"
)

func main() {
	// --- 1. Load Configuration ---
	cfg, err := config.LoadPlayerServiceConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- 2. Connect to MongoDB ---
	mongoClient, err := mongodbu.NewClient(cfg.MongoDBConnStr, cfg.MongoDBDatabase, 10*time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("ERROR: Failed to disconnect from MongoDB: %v", err)
		}
	}()

	// --- 3. Connect to Redis (service registry) ---
	redisClient, err := redisu.NewUniversalClient(cfg.RedisAddrs, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("ERROR: Error closing Redis client: %v", err)
		}
	}()

	// --- 4. Initialize Data Store ---
	playerStore := store.NewPlayerStore(mongoClient.Collection(cfg.PlayersCollection))
	indexCtx, indexCancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	if err := playerStore.EnsureIndexes(indexCtx); err != nil {
		log.Fatalf("Failed to ensure player indexes: %v", err)
	}
	indexCancel()

	// --- 5. Import student list at startup, if configured ---
	if cfg.ImportPath != "" {
		importCtx, importCancel := context.WithTimeout(context.Background(), time.Minute)
		if _, err := importer.ImportFile(importCtx, cfg.ImportPath, playerStore); err != nil {
			log.Printf("WARN: Data import skipped or failed at startup: %v", err)
		}
		importCancel()
	}

	// --- 6. Business Logic and API Handlers ---
	playerService := service.NewPlayerService(playerStore)
	playerAPIHandlers := playerapi.NewPlayerAPIHandlers(playerService)

	// --- 7. Service Registrar ---
	registrar := registry.NewServiceRegistrar(redisClient, "player-service", &cfg.CommonConfig)
	registrar.Start()
	defer registrar.Stop()

	// --- 8. Setup HTTP Server and Register Routes ---
	baseServer := api.NewBaseServer(cfg.ListenAddr, log.Default())
	playerAPIHandlers.RegisterRoutes(baseServer.Router)

	go func() {
		if err := baseServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed to start: %v", err)
		}
	}()

	// --- 9. Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("INFO: Shutting down Player Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := baseServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: HTTP server graceful shutdown failed: %v", err)
	}
	log.Println("INFO: Player Service gracefully stopped.")
}
