package handlers

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/dayscene/internal/middleware"
	"github.com/jwebster45206/dayscene/pkg/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventSource replays a fixed list of events and then ends the stream.
type fakeEventSource struct {
	events []game.Event
	err    error
	gameID uuid.UUID
}

func (f *fakeEventSource) Subscribe(ctx context.Context, gameID uuid.UUID) (<-chan game.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.gameID = gameID
	ch := make(chan game.Event, len(f.events))
	for _, e := range f.events {
		ch <- e
	}
	close(ch)
	return ch, nil
}

func TestGameHandler_Events(t *testing.T) {
	sessions := newTestSessions(nil)
	src := &fakeEventSource{}
	h := NewGameHandler(sessions, testLogger()).WithEvents(src)
	created := createGame(t, h)

	src.events = []game.Event{
		{Type: game.EventSceneSubmitted, GameID: created.GameID, Scene: 1},
		{Type: game.EventGameComplete, GameID: created.GameID, Day: 1},
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/games/"+created.GameID.String()+"/events", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Equal(t, created.GameID, src.gameID)

	body := rr.Body.String()
	assert.True(t, strings.HasPrefix(body, "event: connected\ndata: {\"game_id\":\""+created.GameID.String()), body)
	assert.Contains(t, body, "event: scene.submitted\ndata: {")
	assert.Contains(t, body, "event: game.complete\n")
	assert.Equal(t, 3, strings.Count(body, "\n\n"))
}

func TestGameHandler_EventsUnavailable(t *testing.T) {
	sessions := newTestSessions(nil)

	h := NewGameHandler(sessions, testLogger())
	created := createGame(t, h)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/games/"+created.GameID.String()+"/events", nil))
	assert.Equal(t, http.StatusNotImplemented, rr.Code)

	h.WithEvents(&fakeEventSource{err: errors.New("redis down")})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/games/"+created.GameID.String()+"/events", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

// openEventSource keeps the stream open until the request ends and forwards
// whatever is sent on feed.
type openEventSource struct {
	feed chan game.Event
}

func (o *openEventSource) Subscribe(ctx context.Context, gameID uuid.UUID) (<-chan game.Event, error) {
	out := make(chan game.Event)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case e := <-o.feed:
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func TestGameHandler_EventsStreamThroughMiddleware(t *testing.T) {
	sessions := newTestSessions(nil)
	src := &openEventSource{feed: make(chan game.Event, 1)}
	h := NewGameHandler(sessions, testLogger()).WithEvents(src)
	created := createGame(t, h)

	server := httptest.NewServer(middleware.Logger(h))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/v1/games/"+created.GameID.String()+"/events", nil)
	require.NoError(t, err)
	resp, err := server.Client().Do(req)
	require.NoError(t, err, "headers must arrive while the stream is open")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)
	_, err = reader.ReadString('\n') // data
	require.NoError(t, err)
	_, err = reader.ReadString('\n') // blank separator
	require.NoError(t, err)

	src.feed <- game.Event{Type: game.EventDayAdvanced, GameID: created.GameID, Day: 1}
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: day.advanced\n", line)
}
