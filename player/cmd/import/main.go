// Command import loads a JSON or YAML student list into the player directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/player/importer"
	"github.com/Ftotnem/LASERTAG-SERVICES/player/store"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/config"
	mongodbu "github.com/Ftotnem/LASERTAG-SERVICES/shared/mongodb"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("Import failed: %v", err)
	}
}

func run(args []string) error {
	defaults, err := config.LoadCommonConfig()
	if err != nil {
		return err
	}

	var (
		filePath   string
		mongoURI   string
		database   string
		collection string
		timeout    time.Duration
	)
	flagSet := pflag.NewFlagSet("import", pflag.ContinueOnError)
	flagSet.StringVarP(&filePath, "file", "f", os.Getenv("PLAYER_IMPORT_PATH"), "student list to import (.json, .yaml or .yml)")
	flagSet.StringVar(&mongoURI, "mongo-uri", defaults.MongoDBConnStr, "MongoDB connection string")
	flagSet.StringVar(&database, "database", defaults.MongoDBDatabase, "MongoDB database")
	flagSet.StringVar(&collection, "collection", envOr("MONGODB_PLAYERS_COLLECTION", "students"), "player collection")
	flagSet.DurationVar(&timeout, "timeout", time.Minute, "overall time limit for the import")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if filePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: import --file students.json [flags]\n\n%s", flagSet.FlagUsages())
		return errors.New("--file is required")
	}

	client, err := mongodbu.NewClient(mongoURI, database, 10*time.Second)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	players := store.NewPlayerStore(client.Collection(collection))
	if err := players.EnsureIndexes(ctx); err != nil {
		return err
	}
	res, err := importer.ImportFile(ctx, filePath, players)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %s: read %d, upserted %d, modified %d\n", filePath, res.Read, res.Upserted, res.Modified)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
