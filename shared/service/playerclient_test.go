package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/api"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
)

func TestGetPlayer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/players/21CS001":
			_ = api.WriteJSON(w, http.StatusOK, models.PlayerRef{RollNumber: "21CS001", Name: "Asha"})
		default:
			api.WriteNotFound(w, "Student not found")
		}
	}))
	defer srv.Close()

	client := NewPlayerClient(srv.URL + "/")

	p, err := client.GetPlayer(context.Background(), "21CS001")
	if err != nil {
		t.Fatalf("GetPlayer: %v", err)
	}
	if p.Name != "Asha" {
		t.Fatalf("name = %q, want Asha", p.Name)
	}

	_, err = client.GetPlayer(context.Background(), "nope")
	if !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if got := api.GetHTTPStatusCode(err); got != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", got)
	}
}

func TestGetPlayerServerErrorKeepsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.WriteError(w, http.StatusServiceUnavailable, "Database unavailable")
	}))
	defer srv.Close()

	_, err := NewPlayerClient(srv.URL).GetPlayer(context.Background(), "21CS001")
	if !errors.Is(err, api.ErrInternalError) || errors.Is(err, api.ErrNotFound) {
		t.Fatalf("err = %v, want ErrInternalError only", err)
	}
	if got := api.GetHTTPStatusCode(err); got != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", got)
	}
}

func TestListPlayers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "10" {
			t.Errorf("limit = %q", r.URL.Query().Get("limit"))
		}
		_ = api.WriteJSON(w, http.StatusOK, PlayerListResponse{
			Players: []models.PlayerRef{{RollNumber: "a"}, {RollNumber: "b"}},
			Count:   2,
		})
	}))
	defer srv.Close()

	players, err := NewPlayerClient(srv.URL).ListPlayers(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListPlayers: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("got %d players, want 2", len(players))
	}
}
