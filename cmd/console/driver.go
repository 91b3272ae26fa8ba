package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jwebster45206/dayscene/pkg/game"
)

// Driver is how the UI reaches a game: in-process or over the HTTP API.
type Driver interface {
	View(ctx context.Context) (game.View, error)
	Dispatch(ctx context.Context, cmd game.Command) (game.View, error)
	Close() error
}

type localDriver struct {
	ctrl   *game.Controller
	closer io.Closer
}

func (d *localDriver) View(ctx context.Context) (game.View, error) {
	return d.ctrl.View(), nil
}

func (d *localDriver) Dispatch(ctx context.Context, cmd game.Command) (game.View, error) {
	return d.ctrl.Dispatch(ctx, cmd)
}

func (d *localDriver) Close() error {
	return d.closer.Close()
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type remoteDriver struct {
	client  *http.Client
	baseURL string
	gameID  uuid.UUID
	last    game.View
}

// newRemoteDriver checks the API and starts a new game on it.
func newRemoteDriver(ctx context.Context, client *http.Client, baseURL string) (*remoteDriver, error) {
	if !testConnection(ctx, client, baseURL) {
		return nil, fmt.Errorf("API health check failed")
	}
	d := &remoteDriver{client: client, baseURL: baseURL}

	view, err := d.do(ctx, http.MethodPost, "/v1/games", nil, http.StatusCreated)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	d.gameID = view.GameID
	d.last = view
	return d, nil
}

func testConnection(ctx context.Context, client *http.Client, baseURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func (d *remoteDriver) View(ctx context.Context) (game.View, error) {
	view, err := d.do(ctx, http.MethodGet, "/v1/games/"+d.gameID.String(), nil, http.StatusOK)
	if err != nil {
		return d.last, err
	}
	d.last = view
	return view, nil
}

func (d *remoteDriver) Dispatch(ctx context.Context, cmd game.Command) (game.View, error) {
	view, err := d.do(ctx, http.MethodPost, "/v1/games/"+d.gameID.String()+"/commands", cmd, http.StatusOK)
	if err != nil {
		// The API answers errors without a view; the game itself is unchanged.
		return d.last, err
	}
	d.last = view
	return view, nil
}

// Close ends the game on the server.
func (d *remoteDriver) Close() error {
	req, err := http.NewRequest(http.MethodDelete, d.baseURL+"/v1/games/"+d.gameID.String(), nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (d *remoteDriver) do(ctx context.Context, method, path string, payload any, wantStatus int) (game.View, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return game.View{}, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, body)
	if err != nil {
		return game.View{}, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return game.View{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return game.View{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var errorResp ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err != nil || errorResp.Error == "" {
			return game.View{}, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
		}
		return game.View{}, fmt.Errorf("%s", errorResp.Error)
	}

	var view game.View
	if err := json.Unmarshal(respBody, &view); err != nil {
		return game.View{}, fmt.Errorf("failed to parse game view: %w", err)
	}
	return view, nil
}
