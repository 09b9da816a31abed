package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
)

func newTestRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bot := service.NewBotService(logger, minimax.New(), nil)

	return NewRouter(logger, NewHandlers(logger, bot))
}

func postMove(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/move", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestPingHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()

	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestMoveHandler(t *testing.T) {
	router := newTestRouter()

	t.Run("Returns the blocking move", func(t *testing.T) {
		// Given: O threatens row 1
		body := `{"board":[["X","",""],["O","O",""],["","X",""]]}`

		// When: asking for a move
		rec := postMove(t, router, body)

		// Then: the bot blocks at (1,2)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var response moveResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 1, response.Row)
		assert.Equal(t, 2, response.Col)
		assert.Equal(t, 0, response.Score)
		assert.Positive(t, response.Stats.Nodes)
	})

	t.Run("Returns the winning move with a positive score", func(t *testing.T) {
		rec := postMove(t, router, `{"board":[["X","X",""],["","",""],["","",""]]}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var response moveResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 0, response.Row)
		assert.Equal(t, 2, response.Col)
		assert.Equal(t, 1, response.Score)
	})

	t.Run("Rejects malformed JSON", func(t *testing.T) {
		rec := postMove(t, router, `{"board":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Rejects unknown marks", func(t *testing.T) {
		rec := postMove(t, router, `{"board":[["Z","",""],["","",""],["","",""]]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Rejects boards that are not 3x3", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{name: "missing board", body: `{}`},
			{name: "null board", body: `{"board":null}`},
			{name: "single cell", body: `{"board":[["X"]]}`},
			{name: "two rows", body: `{"board":[["X","",""],["","O",""]]}`},
			{name: "short row", body: `{"board":[["X","",""],["","O"],["","",""]]}`},
			{name: "four rows", body: `{"board":[["X","",""],["","O",""],["","",""],["O","O","O"]]}`},
			{name: "four columns", body: `{"board":[["X","X","X","X"],["","O","",""],["","","",""]]}`},
			{name: "not an array", body: `{"board":"XX.OO...."}`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				// When: posting a board of the wrong shape
				rec := postMove(t, router, tt.body)

				// Then: it is rejected before any search
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			})
		}
	})

	t.Run("Full board conflicts", func(t *testing.T) {
		rec := postMove(t, router, `{"board":[["X","O","X"],["O","X","O"],["O","X","O"]]}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Won board conflicts", func(t *testing.T) {
		rec := postMove(t, router, `{"board":[["O","O","O"],["X","X",""],["X","",""]]}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Only POST is routed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/move", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestStart(t *testing.T) {
	// Given: a running server
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- Start(ctx, "0", newTestRouter())
	}()

	// When: the context is cancelled
	cancel()

	// Then: the server shuts down cleanly
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

type panickingHandlers struct{}

func (panickingHandlers) PingHandler(http.ResponseWriter, *http.Request) { panic("ping") }
func (panickingHandlers) MoveHandler(http.ResponseWriter, *http.Request) { panic("move") }

func TestNewRouter_RecoversFromPanic(t *testing.T) {
	// Given: a router whose handler panics
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(logger, panickingHandlers{})

	// When: the route is hit
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Then: the client gets a 500 instead of a dropped connection
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
