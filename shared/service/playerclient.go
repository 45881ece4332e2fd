// shared/service/playerclient.go
package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Ftotnem/LASERTAG-SERVICES/shared/api"
	"github.com/Ftotnem/LASERTAG-SERVICES/shared/models"
)

// PlayerServiceClient talks to the player directory service.
type PlayerServiceClient struct {
	apiClient *api.Client
}

// NewPlayerClient creates a client for the directory at baseURL.
func NewPlayerClient(baseURL string) *PlayerServiceClient {
	return &PlayerServiceClient{
		apiClient: api.NewClient(strings.TrimRight(baseURL, "/"), api.NewDefaultHTTPClient()),
	}
}

// PlayerListResponse is the body of GET /players.
type PlayerListResponse struct {
	Players []models.PlayerRef `json:"players"`
	Count   int                `json:"count"`
}

// GetPlayer fetches one directory entry by roll number. A missing entry
// matches api.ErrNotFound and keeps the underlying *api.HTTPError.
func (c *PlayerServiceClient) GetPlayer(ctx context.Context, rollNumber string) (*models.PlayerRef, error) {
	player := &models.PlayerRef{}
	err := c.apiClient.Get(ctx, "/players/"+url.PathEscape(rollNumber), player)
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s from player service: %w", rollNumber, err)
	}
	return player, nil
}

// ListPlayers returns up to limit directory entries.
func (c *PlayerServiceClient) ListPlayers(ctx context.Context, limit int) ([]models.PlayerRef, error) {
	var resp PlayerListResponse
	if err := c.apiClient.Get(ctx, fmt.Sprintf("/players?limit=%d", limit), &resp); err != nil {
		return nil, fmt.Errorf("failed to list players from player service: %w", err)
	}
	return resp.Players, nil
}
