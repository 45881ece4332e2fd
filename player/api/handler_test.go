package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Ftotnem/LASERTAG-SERVICES/player/service"
	sharedapi "github.com/Ftotnem/LASERTAG-SERVICES/shared/api"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
	sharedservice "github.com/Ftotnem/LASERTAG-SERVICES/shared/service"
	"go.mongodb.org/mongo-driver/mongo"
)

type memDirectory struct {
	players   []models.PlayerRef
	lastLimit int64
}

func (m *memDirectory) GetByRollNumber(_ context.Context, roll string) (*models.PlayerRef, error) {
	for _, p := range m.players {
		if p.RollNumber == roll {
			return &p, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memDirectory) List(_ context.Context, limit int64) ([]models.PlayerRef, error) {
	m.lastLimit = limit
	if int64(len(m.players)) > limit {
		return m.players[:limit], nil
	}
	return m.players, nil
}

func (m *memDirectory) UpsertMany(_ context.Context, players []models.PlayerRef) (int64, int64, error) {
	var upserted, modified int64
	for _, p := range players {
		found := false
		for i := range m.players {
			if m.players[i].RollNumber == p.RollNumber {
				m.players[i] = p
				modified++
				found = true
			}
		}
		if !found {
			m.players = append(m.players, p)
			upserted++
		}
	}
	return upserted, modified, nil
}

func newTestRouter(dir *memDirectory) http.Handler {
	router := sharedapi.NewRouter()
	NewPlayerAPIHandlers(service.NewPlayerService(dir)).RegisterRoutes(router)
	return router
}

func serve(h http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetPlayer(t *testing.T) {
	dir := &memDirectory{players: []models.PlayerRef{{RollNumber: "21CS001", Name: "Asha"}}}
	h := newTestRouter(dir)

	rec := serve(h, http.MethodGet, "/players/21CS001", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var p models.PlayerRef
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil || p.Name != "Asha" {
		t.Fatalf("body = %s, err %v", rec.Body, err)
	}

	if rec := serve(h, http.MethodGet, "/student/21CS001", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("legacy path status = %d", rec.Code)
	}
	if rec := serve(h, http.MethodGet, "/players/nope", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing player status = %d", rec.Code)
	}
}

func TestListPlayers(t *testing.T) {
	dir := &memDirectory{players: []models.PlayerRef{{RollNumber: "a"}, {RollNumber: "b"}, {RollNumber: "c"}}}
	h := newTestRouter(dir)

	rec := serve(h, http.MethodGet, "/players?limit=2", "", "")
	var resp sharedservice.PlayerListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 2 || len(resp.Players) != 2 {
		t.Fatalf("resp = %+v", resp)
	}

	serve(h, http.MethodGet, "/players?limit=5000", "", "")
	if dir.lastLimit != service.MaxListLimit {
		t.Fatalf("limit = %d, want clamp to %d", dir.lastLimit, service.MaxListLimit)
	}
	serve(h, http.MethodGet, "/students", "", "")
	if dir.lastLimit != service.DefaultListLimit {
		t.Fatalf("default limit = %d", dir.lastLimit)
	}
}

func TestImport(t *testing.T) {
	dir := &memDirectory{players: []models.PlayerRef{{RollNumber: "A1", Name: "Old"}}}
	h := newTestRouter(dir)

	rec := serve(h, http.MethodPost, "/players/import", "application/json",
		`[{"roll":"A1","name":"New"},{"rollNumber":"A2"},{"name":"skip"}]`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp ImportResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Read != 2 || resp.Upserted != 1 || resp.Modified != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	if dir.players[0].Name != "New" {
		t.Fatal("existing player not updated")
	}

	rec = serve(h, http.MethodPost, "/players/import", "application/yaml", "- roll: A3\n")
	if rec.Code != http.StatusOK || len(dir.players) != 3 {
		t.Fatalf("yaml import: %d, %d players", rec.Code, len(dir.players))
	}

	if rec := serve(h, http.MethodPost, "/players/import", "application/json", `{"oops":1}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad body status = %d", rec.Code)
	}
}
