package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
)

const maxBodyBytes = 1 << 10

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	MoveHandler(w http.ResponseWriter, r *http.Request)
}

type botService interface {
	BestMove(ctx context.Context, board entity.Board) (minimax.Result, error)
}

type handlers struct {
	logger     *slog.Logger
	botService botService
}

func NewHandlers(logger *slog.Logger, botService botService) Handlers {
	return &handlers{
		logger:     logger.With("component", "rest"),
		botService: botService,
	}
}

type moveRequest struct {
	Board *entity.Board `json:"board"`
}

type moveResponse struct {
	Row   int           `json:"row"`
	Col   int           `json:"col"`
	Score int           `json:"score"`
	Stats minimax.Stats `json:"stats"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// MoveHandler returns the best move for X on the posted board.
func (that *handlers) MoveHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "MoveHandler")

	var request moveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&request); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid board: " + err.Error()})
		return
	}

	if request.Board == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid board: board is required"})
		return
	}

	result, err := that.botService.BestMove(r.Context(), *request.Board)
	switch {
	case errors.Is(err, apperror.ErrGameFinished), errors.Is(err, apperror.ErrNoMovesLeft):
		that.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	case err != nil:
		log.Error("failed to find best move", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
		return
	}

	that.writeJSON(w, http.StatusOK, moveResponse{
		Row:   result.Move.Row,
		Col:   result.Move.Col,
		Score: result.Score,
		Stats: result.Stats,
	})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
