package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the lobby REST surface: simple request/response operations
// outside the realtime core.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(httpBaseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(httpBaseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type CreateGameResponse struct {
	GameID string `json:"game_id"`
}

type JoinGameRequest struct {
	GameID   string `json:"game_id"`
	Username string `json:"username"`
}

// JoinGameResponse carries the identity pair the caller persists so the same
// seat can be resumed later.
type JoinGameResponse struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

type AddBotRequest struct {
	GameID    string `json:"game_id"`
	ModelSlug string `json:"model_slug,omitempty"`
}

type AddBotResponse struct {
	PlayerID string `json:"player_id"`
}

type RemoveBotRequest struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

type RemovePlayerRequest struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
}

// APIError is a non-2xx lobby response, body included since the server puts
// the human-readable cause there.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return fmt.Sprintf("api request failed with status %d", e.StatusCode)
}

func (c *Client) CreateGame(ctx context.Context) (*CreateGameResponse, error) {
	var resp CreateGameResponse
	if err := c.post(ctx, "games/create", struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) JoinGame(ctx context.Context, req JoinGameRequest) (*JoinGameResponse, error) {
	var resp JoinGameResponse
	if err := c.post(ctx, "games/join", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddBot(ctx context.Context, req AddBotRequest) (*AddBotResponse, error) {
	var resp AddBotResponse
	if err := c.post(ctx, "games/bots/add", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) RemoveBot(ctx context.Context, req RemoveBotRequest) error {
	return c.post(ctx, "games/bots/remove", req, nil)
}

func (c *Client) RemovePlayer(ctx context.Context, req RemovePlayerRequest) error {
	return c.post(ctx, "games/players/remove", req, nil)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := c.baseURL + "/api/v1/" + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	// Some endpoints intentionally return no body.
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
