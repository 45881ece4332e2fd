// lobby/api/handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Ftotnem/LASERTAG-SERVICES/lobby/reader"
	"github.com/Ftotnem/LASERTAG-SERVICES/lobby/service"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/api"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
	"github.com/gorilla/mux"
)

const requestTimeout = 10 * time.Second

// ReaderControl is the part of reader.Supervisor the API drives.
type ReaderControl interface {
	Start() (int, error)
	Stop(grace time.Duration) error
	Status() reader.Status
}

// LobbyAPIHandlers serves the registration, schedule and scoring endpoints.
type LobbyAPIHandlers struct {
	Lobby  *service.LobbyService
	Reader ReaderControl
}

func NewLobbyAPIHandlers(lobby *service.LobbyService, rc ReaderControl) *LobbyAPIHandlers {
	return &LobbyAPIHandlers{Lobby: lobby, Reader: rc}
}

// --- Request/Response DTOs ---

// FlexString accepts a JSON string or number. Card readers post the roll as
// whatever type the tag decoded to.
type FlexString struct {
	Value string
	Set   bool
}

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	f.Set = true
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &f.Value)
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	f.Value = n.String()
	return nil
}

// RegisterRequest is a card scan ({"roll": "..."}) or a guest sign-up
// ({"roll": "1", "name": ..., "email": ..., "mobile": ...}).
type RegisterRequest struct {
	Roll       FlexString `json:"roll"`
	RollNumber string     `json:"rollNumber"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Mobile     FlexString `json:"mobile"`
}

type TeamsResponse struct {
	Success   bool                `json:"success"`
	Count     int                 `json:"count"`
	Total     int                 `json:"total"`
	Teams     []models.GameRecord `json:"teams"`
	Timestamp string              `json:"timestamp"`
}

type ScoresRequest struct {
	Players      []models.PlayerStat `json:"players"`
	Team1Score   int                 `json:"team1Score"`
	Team2Score   int                 `json:"team2Score"`
	GameIsActive bool                `json:"gameIsActive"`
}

type CurrentTeamsResponse struct {
	Team1    []models.PlayerRef `json:"team_1"`
	Team2    []models.PlayerRef `json:"team_2"`
	TeamNo   int                `json:"team_no"`
	TeamSize int                `json:"teamSize"`
}

type ReaderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Running *bool  `json:"running,omitempty"`
	PID     *int   `json:"pid"`
}

// --- Handlers ---

// HandleRegister processes one identity event.
// POST /register
func (lah *LobbyAPIHandlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Roll.Set {
		api.WriteError(w, http.StatusBadRequest, "Bad request: roll is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	reg := service.Registration{
		Roll:       req.Roll.Value,
		RollNumber: req.RollNumber,
		Name:       req.Name,
		Email:      req.Email,
		Mobile:     req.Mobile.Value,
	}
	_, err := lah.Lobby.Register(ctx, reg)
	switch {
	case err == nil:
		api.WriteMessage(w, http.StatusOK, "Student processed")
	case errors.Is(err, service.ErrMissingIdentifier):
		api.WriteError(w, http.StatusBadRequest, "Bad request: roll is required")
	case errors.Is(err, service.ErrUnknownPlayer):
		log.Printf("INFO: Student not found: %s", reg.Roll)
		api.WriteError(w, http.StatusNotFound, "Student not found")
	default:
		log.Printf("ERROR: Registration of %q failed: %v", reg.Roll, err)
		api.WriteErrorDetails(w, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}

// HandleTeams lists upcoming games by play time.
// GET /teams?limit=N
func (lah *LobbyAPIHandlers) HandleTeams(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	games, total, err := lah.Lobby.Catalog.ListUpcoming(ctx, limit)
	if err != nil {
		log.Printf("ERROR: Listing teams failed: %v", err)
		api.WriteErrorDetails(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	api.WriteJSON(w, http.StatusOK, TeamsResponse{
		Success:   true,
		Count:     len(games),
		Total:     total,
		Teams:     games,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// parseLimit reads a limit the way the display sends it: anything that is
// not a non-zero number means the default, fractions are floored.
func parseLimit(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return service.DefaultUpcomingLimit
	}
	f = math.Floor(f)
	if f < 1 {
		return 1
	}
	return service.ClampLimit(int(math.Min(f, service.MaxUpcomingLimit)))
}

// HandleSubmitScores attaches live scores to the oldest stored game.
// POST /scores
func (lah *LobbyAPIHandlers) HandleSubmitScores(w http.ResponseWriter, r *http.Request) {
	var req ScoresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	err := lah.Lobby.Handoff.SubmitLiveScore(ctx, service.LiveScoreSubmission{
		Players:      req.Players,
		Team1Score:   req.Team1Score,
		Team2Score:   req.Team2Score,
		GameIsActive: req.GameIsActive,
	})
	switch {
	case err == nil:
		api.WriteMessage(w, http.StatusOK, "Game data received and stored")
	case errors.Is(err, service.ErrNoGames):
		api.WriteError(w, http.StatusNotFound, "No registrations found")
	default:
		log.Printf("ERROR: Storing live scores failed: %v", err)
		api.WriteErrorDetails(w, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}

// HandleTakeScores hands the finalized game to the results display, once.
// GET /scores
func (lah *LobbyAPIHandlers) HandleTakeScores(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := lah.Lobby.Handoff.TakeLiveResult(ctx)
	if errors.Is(err, service.ErrNoPendingResult) {
		api.WriteError(w, http.StatusNotFound, "No game data available")
		return
	}
	if err != nil {
		log.Printf("ERROR: Taking live result failed: %v", err)
		api.WriteErrorDetails(w, http.StatusInternalServerError, "Internal server error", err.Error())
		return
	}
	api.WriteJSON(w, http.StatusOK, result)
}

// HandleCurrentTeams reports the game being filled.
// GET /current-teams
func (lah *LobbyAPIHandlers) HandleCurrentTeams(w http.ResponseWriter, r *http.Request) {
	p := lah.Lobby.Assembler.Progress()
	resp := CurrentTeamsResponse{
		Team1:    p.TeamOne,
		Team2:    p.TeamTwo,
		TeamNo:   int(p.Filling),
		TeamSize: p.TeamSize,
	}
	if resp.Team1 == nil {
		resp.Team1 = []models.PlayerRef{}
	}
	if resp.Team2 == nil {
		resp.Team2 = []models.PlayerRef{}
	}
	api.WriteJSON(w, http.StatusOK, resp)
}

// HandleReset discards the game being filled.
// POST /reset
func (lah *LobbyAPIHandlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	lah.Lobby.Assembler.Reset()
	api.WriteMessage(w, http.StatusOK, "Teams reset")
}

// HandleReaderStart launches the card reader.
// POST /nfc/start
func (lah *LobbyAPIHandlers) HandleReaderStart(w http.ResponseWriter, r *http.Request) {
	pid, err := lah.Reader.Start()
	switch {
	case err == nil:
		api.WriteJSON(w, http.StatusOK, ReaderResponse{Success: true, Message: "NFC reader started", PID: &pid})
	case errors.Is(err, reader.ErrAlreadyRunning):
		api.WriteJSON(w, http.StatusBadRequest, ReaderResponse{Message: err.Error(), PID: lah.readerPID()})
	case errors.Is(err, reader.ErrNotResponsible):
		api.WriteJSON(w, http.StatusConflict, ReaderResponse{Message: err.Error()})
	default:
		log.Printf("ERROR: Starting NFC reader failed: %v", err)
		api.WriteJSON(w, http.StatusInternalServerError, ReaderResponse{Message: "Failed to start NFC reader"})
	}
}

// HandleReaderStop stops the card reader.
// POST /nfc/stop
func (lah *LobbyAPIHandlers) HandleReaderStop(w http.ResponseWriter, r *http.Request) {
	err := lah.Reader.Stop(5 * time.Second)
	switch {
	case err == nil:
		api.WriteJSON(w, http.StatusOK, ReaderResponse{Success: true, Message: "NFC reader stopped"})
	case errors.Is(err, reader.ErrNotRunning):
		api.WriteJSON(w, http.StatusBadRequest, ReaderResponse{Message: err.Error()})
	default:
		log.Printf("ERROR: Stopping NFC reader failed: %v", err)
		api.WriteJSON(w, http.StatusInternalServerError, ReaderResponse{Message: "Failed to stop NFC reader"})
	}
}

// HandleReaderStatus reports whether the card reader is running.
// GET /nfc/status
func (lah *LobbyAPIHandlers) HandleReaderStatus(w http.ResponseWriter, r *http.Request) {
	st := lah.Reader.Status()
	api.WriteJSON(w, http.StatusOK, ReaderResponse{Success: true, Running: &st.Running, PID: pidOf(st)})
}

func (lah *LobbyAPIHandlers) readerPID() *int {
	return pidOf(lah.Reader.Status())
}

func pidOf(st reader.Status) *int {
	if !st.Running {
		return nil
	}
	return &st.PID
}

// RegisterRoutes registers all lobby endpoints. /retrieve is the legacy mount
// of /scores still used by the scoring display.
func (lah *LobbyAPIHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/register", lah.HandleRegister).Methods(http.MethodPost)
	router.HandleFunc("/teams", lah.HandleTeams).Methods(http.MethodGet)
	for _, path := range []string{"/scores", "/retrieve"} {
		router.HandleFunc(path, lah.HandleSubmitScores).Methods(http.MethodPost)
		router.HandleFunc(path, lah.HandleTakeScores).Methods(http.MethodGet)
	}
	router.HandleFunc("/current-teams", lah.HandleCurrentTeams).Methods(http.MethodGet)
	router.HandleFunc("/reset", lah.HandleReset).Methods(http.MethodPost)

	if lah.Reader != nil {
		router.HandleFunc("/nfc/start", lah.HandleReaderStart).Methods(http.MethodPost)
		router.HandleFunc("/nfc/stop", lah.HandleReaderStop).Methods(http.MethodPost)
		router.HandleFunc("/nfc/status", lah.HandleReaderStatus).Methods(http.MethodGet)
	}
}
