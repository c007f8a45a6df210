package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateGame(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/games/create" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(CreateGameResponse{GameID: "g1"})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).CreateGame(context.Background())
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if resp.GameID != "g1" {
		t.Errorf("game id = %q", resp.GameID)
	}
}

func TestJoinGameSendsIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/games/join" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		var req JoinGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.GameID != "g1" || req.Username != "alice" {
			t.Errorf("request = %+v", req)
		}
		_ = json.NewEncoder(w).Encode(JoinGameResponse{GameID: "g1", PlayerID: "p1"})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).JoinGame(context.Background(), JoinGameRequest{GameID: "g1", Username: "alice"})
	if err != nil {
		t.Fatalf("JoinGame: %v", err)
	}
	if resp.PlayerID != "p1" {
		t.Errorf("player id = %q", resp.PlayerID)
	}
}

func TestErrorResponseCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "game is full", http.StatusConflict)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).JoinGame(context.Background(), JoinGameRequest{GameID: "g1", Username: "alice"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Error() != "game is full" {
		t.Errorf("message = %q", apiErr.Error())
	}
}

func TestRemoveBotAcceptsEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/games/bots/remove" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).RemoveBot(context.Background(), RemoveBotRequest{GameID: "g1", PlayerID: "b1"})
	if err != nil {
		t.Errorf("RemoveBot: %v", err)
	}
}

func TestBaseURLTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/games/create" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(CreateGameResponse{GameID: "g1"})
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL + "/").CreateGame(context.Background()); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
}
