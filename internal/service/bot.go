package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
)

// BotMark is the mark the bot always plays. The search maximizes for it.
const BotMark = entity.PlayerX

type BotService interface {
	BestMove(ctx context.Context, board entity.Board) (minimax.Result, error)
	MakeTurn(ctx context.Context, game *entity.Game) (minimax.Result, error)
}

type searchEngine interface {
	FindBestMove(board entity.Board) (minimax.Result, bool)
}

type moveCache interface {
	Save(ctx context.Context, board entity.Board, result minimax.Result) error
	GetByBoard(ctx context.Context, board entity.Board) (minimax.Result, error)
	DeleteByBoard(ctx context.Context, board entity.Board) error
}

type botService struct {
	logger *slog.Logger

	engine searchEngine
	cache  moveCache
}

// NewBotService wires the search engine with an optional result cache; cache may be nil.
func NewBotService(logger *slog.Logger, engine searchEngine, cache moveCache) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
		engine: engine,
		cache:  cache,
	}
}

func (that *botService) BestMove(ctx context.Context, board entity.Board) (minimax.Result, error) {
	log := that.logger.With("method", "BestMove", "board", board.String())

	if board.HasWon(entity.PlayerX) || board.HasWon(entity.PlayerO) {
		return minimax.Result{}, apperror.ErrGameFinished
	}

	if that.cache != nil {
		cached, err := that.cache.GetByBoard(ctx, board)
		switch {
		case err == nil && isPlayable(board, cached.Move):
			log.Debug("move served from cache", "move", cached.Move.String(), "score", cached.Score)
			return cached, nil
		case err == nil:
			log.Warn("dropping unplayable cached move", "move", cached.Move.String())
			if err = that.cache.DeleteByBoard(ctx, board); err != nil {
				log.Warn("could not drop cached move", "error", err)
			}
		case !errors.Is(err, apperror.ErrNotFound):
			log.Warn("move cache lookup failed", "error", err)
		}
	}

	result, ok := that.engine.FindBestMove(board)
	if !ok {
		return minimax.Result{}, apperror.ErrNoMovesLeft
	}

	log.Debug("search finished",
		"move", result.Move.String(),
		"score", result.Score,
		"nodes", result.Stats.Nodes,
		"cutoffs", result.Stats.Cutoffs,
		"max_depth", result.Stats.MaxDepth,
		"elapsed", result.Stats.Elapsed,
	)

	if that.cache != nil {
		if err := that.cache.Save(ctx, board, result); err != nil {
			log.Warn("could not cache move", "error", err)
		}
	}

	return result, nil
}

func isPlayable(board entity.Board, move entity.Move) bool {
	return move.InBounds() && board.At(move) == entity.EmptyCell
}

func (that *botService) MakeTurn(ctx context.Context, game *entity.Game) (minimax.Result, error) {
	if err := game.ConfirmOngoingState(); err != nil {
		return minimax.Result{}, fmt.Errorf("bot cannot move: %w", err)
	}

	if game.Turn != BotMark {
		return minimax.Result{}, apperror.ErrNotYourTurn
	}

	result, err := that.BestMove(ctx, game.Board)
	if err != nil {
		return minimax.Result{}, fmt.Errorf("failed to find bot move: %w", err)
	}

	if err = game.MakeTurn(BotMark, result.Move); err != nil {
		return minimax.Result{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return result, nil
}
