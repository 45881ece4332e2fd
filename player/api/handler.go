// player/api/handler.go
package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/player/importer"
	"github.com/Ftotnem/LASERTAG-SERVICES/player/service"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/api"
	sharedservice "github.com/Ftotnem/LASERTAG-SERVICES/shared/service"
	"github.com/gorilla/mux"
)

const maxImportBytes = 10 << 20

// PlayerAPIHandlers serves the player directory.
type PlayerAPIHandlers struct {
	PlayerService *service.PlayerService
}

func NewPlayerAPIHandlers(ps *service.PlayerService) *PlayerAPIHandlers {
	return &PlayerAPIHandlers{PlayerService: ps}
}

type ImportResponse struct {
	Success  bool  `json:"success"`
	Read     int   `json:"read"`
	Upserted int64 `json:"upserted"`
	Modified int64 `json:"modified"`
}

// GetPlayerHandler returns one player.
// GET /players/{rollNumber}
func (pah *PlayerAPIHandlers) GetPlayerHandler(w http.ResponseWriter, r *http.Request) {
	rollNumber := mux.Vars(r)["rollNumber"]
	log.Printf("INFO: Lookup roll=%s", rollNumber)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	player, err := pah.PlayerService.GetPlayer(ctx, rollNumber)
	switch {
	case err == nil:
		api.WriteJSON(w, http.StatusOK, player)
	case errors.Is(err, service.ErrRollNumberMissing):
		api.WriteError(w, http.StatusBadRequest, "Roll number is required")
	case errors.Is(err, service.ErrPlayerNotFound):
		api.WriteError(w, http.StatusNotFound, "Student with roll number "+rollNumber+" not found")
	default:
		log.Printf("ERROR: Error fetching player %s: %v", rollNumber, err)
		api.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// ListPlayersHandler returns up to ?limit players (at most 1000).
// GET /players
func (pah *PlayerAPIHandlers) ListPlayersHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	players, err := pah.PlayerService.ListPlayers(ctx, limit)
	if err != nil {
		log.Printf("ERROR: Error listing players: %v", err)
		api.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.WriteJSON(w, http.StatusOK, sharedservice.PlayerListResponse{Players: players, Count: len(players)})
}

// ImportHandler upserts a JSON or YAML student list sent as the request body.
// POST /players/import
func (pah *PlayerAPIHandlers) ImportHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	res, err := pah.PlayerService.Import(ctx, body, importer.FormatFor(r.Header.Get("Content-Type")))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.WriteError(w, http.StatusRequestEntityTooLarge, "Import file too large")
			return
		}
		if res.Read == 0 {
			api.WriteErrorDetails(w, http.StatusBadRequest, "Invalid student list", err.Error())
			return
		}
		log.Printf("ERROR: Import failed: %v", err)
		api.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	api.WriteJSON(w, http.StatusOK, ImportResponse{Success: true, Read: res.Read, Upserted: res.Upserted, Modified: res.Modified})
}

// RegisterRoutes registers the directory endpoints. /student and /students
// are the paths the lookup API used before the move to /players.
func (pah *PlayerAPIHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/players", pah.ListPlayersHandler).Methods(http.MethodGet)
	router.HandleFunc("/players/import", pah.ImportHandler).Methods(http.MethodPost)
	router.HandleFunc("/players/{rollNumber}", pah.GetPlayerHandler).Methods(http.MethodGet)

	router.HandleFunc("/students", pah.ListPlayersHandler).Methods(http.MethodGet)
	router.HandleFunc("/student/{rollNumber}", pah.GetPlayerHandler).Methods(http.MethodGet)
}
