// player/service/player_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Ftotnem/LASERTAG-SERVICES/player/importer"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Custom Errors for clear communication to API layer
var (
	ErrPlayerNotFound    = fmt.Errorf("player not found")
	ErrRollNumberMissing = fmt.Errorf("roll number is required")
)

const (
	DefaultListLimit = 1000
	MaxListLimit     = 1000
)

// Directory is the storage the player service reads and writes.
type Directory interface {
	GetByRollNumber(ctx context.Context, rollNumber string) (*models.PlayerRef, error)
	List(ctx context.Context, limit int64) ([]models.PlayerRef, error)
	UpsertMany(ctx context.Context, players []models.PlayerRef) (upserted, modified int64, err error)
}

// PlayerService answers directory lookups and imports student lists.
type PlayerService struct {
	directory Directory
}

func NewPlayerService(directory Directory) *PlayerService {
	return &PlayerService{directory: directory}
}

// GetPlayer looks up one player by roll number.
func (ps *PlayerService) GetPlayer(ctx context.Context, rollNumber string) (*models.PlayerRef, error) {
	rollNumber = strings.TrimSpace(rollNumber)
	if rollNumber == "" {
		return nil, ErrRollNumberMissing
	}
	player, err := ps.directory.GetByRollNumber(ctx, rollNumber)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("service failed to get player %s: %w", rollNumber, err)
	}
	return player, nil
}

// ListPlayers returns up to limit players; limit is clamped to [1, MaxListLimit].
func (ps *PlayerService) ListPlayers(ctx context.Context, limit int) ([]models.PlayerRef, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)
	return ps.directory.List(ctx, int64(limit))
}

// Import loads a student list in the given format into the directory.
func (ps *PlayerService) Import(ctx context.Context, r io.Reader, format importer.Format) (importer.Result, error) {
	return importer.Import(ctx, r, format, ps.directory)
}
