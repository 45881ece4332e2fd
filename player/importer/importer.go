// player/importer/importer.go
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
	"gopkg.in/yaml.v3"
)

// Format of an import file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the format from a file name or a content type.
func FormatFor(name string) Format {
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"), strings.Contains(name, "yaml"):
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse reads an array of student rows and normalizes them. Rows without a
// roll number are skipped. Later rows win over earlier rows with the same roll.
func Parse(r io.Reader, format Format) ([]models.PlayerRef, error) {
	var rows []map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&rows); err != nil && err != io.EOF {
			return nil, fmt.Errorf("invalid YAML student list: %w", err)
		}
	default:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&rows); err != nil {
			return nil, fmt.Errorf("invalid JSON student list (root must be an array): %w", err)
		}
	}

	players := make([]models.PlayerRef, 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, row := range rows {
		p, ok := Normalize(row)
		if !ok {
			continue
		}
		if i, seen := index[p.RollNumber]; seen {
			players[i] = p
			continue
		}
		index[p.RollNumber] = len(players)
		players = append(players, p)
	}
	return players, nil
}

// Normalize maps {roll|rollNumber, name, email, mobile} onto a PlayerRef.
func Normalize(row map[string]any) (models.PlayerRef, bool) {
	roll := field(row, "roll")
	if roll == "" {
		roll = field(row, "rollNumber")
	}
	if roll == "" {
		return models.PlayerRef{}, false
	}
	return models.PlayerRef{
		RollNumber: roll,
		Name:       field(row, "name"),
		Email:      field(row, "email"),
		Mobile:     field(row, "mobile"),
	}, true
}

func field(row map[string]any, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Upserter stores a batch of players.
type Upserter interface {
	UpsertMany(ctx context.Context, players []models.PlayerRef) (upserted, modified int64, err error)
}

// Result summarizes one import.
type Result struct {
	Read     int
	Upserted int64
	Modified int64
}

// Import parses r and upserts the rows.
func Import(ctx context.Context, r io.Reader, format Format, dst Upserter) (Result, error) {
	players, err := Parse(r, format)
	if err != nil {
		return Result{}, err
	}
	if len(players) == 0 {
		log.Println("INFO: No valid records to import.")
		return Result{}, nil
	}
	upserted, modified, err := dst.UpsertMany(ctx, players)
	if err != nil {
		return Result{Read: len(players)}, err
	}
	log.Printf("INFO: Import complete. Read: %d, Upserted: %d, Modified: %d", len(players), upserted, modified)
	return Result{Read: len(players), Upserted: upserted, Modified: modified}, nil
}

// ImportFile imports the file at path, choosing the format by extension.
func ImportFile(ctx context.Context, path string, dst Upserter) (Result, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Result{}, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()
	return Import(ctx, f, FormatFor(path), dst)
}
