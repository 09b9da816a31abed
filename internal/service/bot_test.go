package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
	mockedService "github.com/rocketscienceinc/tictactoe-minimax/mocks/service"
)

var (
	errRedisDown     = errors.New("redis down")
	errStorageIsFull = errors.New("storage is full")
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustParse(t *testing.T, rows ...string) entity.Board {
	t.Helper()

	board, err := entity.ParseBoard(rows...)
	require.NoError(t, err)

	return board
}

func TestBotService_BestMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Searches and caches on a cache miss", func(t *testing.T) {
		// Given: an empty cache
		cache := mockedService.NewMockmoveCache(t)
		bot := NewBotService(discardLogger(), minimax.New(), cache)
		board := mustParse(t, "X..", "OO.", ".X.")

		cache.EXPECT().
			GetByBoard(mock.Anything, board).
			Return(minimax.Result{}, apperror.ErrNotFound).
			Once()
		cache.EXPECT().
			Save(mock.Anything, board, mock.AnythingOfType("minimax.Result")).
			Return(nil).
			Once()

		// When: asking for the best move
		result, err := bot.BestMove(ctx, board)

		// Then: the search blocks at (1,2)
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 1, Col: 2}, result.Move)
		assert.Equal(t, 0, result.Score)
	})

	t.Run("Serves a cached result without searching", func(t *testing.T) {
		// Given: a cache holding a result for the board
		cache := mockedService.NewMockmoveCache(t)
		bot := NewBotService(discardLogger(), minimax.New(), cache)
		board := mustParse(t, "...", "...", "...")
		cached := minimax.Result{Move: entity.Move{Row: 1, Col: 1}, Score: 0}

		cache.EXPECT().
			GetByBoard(mock.Anything, board).
			Return(cached, nil).
			Once()

		// When: asking for the best move
		result, err := bot.BestMove(ctx, board)

		// Then: the cached result is returned as is
		require.NoError(t, err)
		assert.Equal(t, cached, result)
	})

	t.Run("Drops an unplayable cached move and searches again", func(t *testing.T) {
		// Given: a cache entry pointing at a cell that is already taken
		cache := mockedService.NewMockmoveCache(t)
		bot := NewBotService(discardLogger(), minimax.New(), cache)
		board := mustParse(t, "X..", "OO.", ".X.")
		stale := minimax.Result{Move: entity.Move{Row: 1, Col: 1}, Score: 1}

		cache.EXPECT().
			GetByBoard(mock.Anything, board).
			Return(stale, nil).
			Once()
		cache.EXPECT().
			DeleteByBoard(mock.Anything, board).
			Return(nil).
			Once()
		cache.EXPECT().
			Save(mock.Anything, board, mock.AnythingOfType("minimax.Result")).
			Return(nil).
			Once()

		// When: asking for the best move
		result, err := bot.BestMove(ctx, board)

		// Then: the entry is evicted and the searched block is returned
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 1, Col: 2}, result.Move)
		assert.Equal(t, 0, result.Score)
	})

	t.Run("Drops an out of range cached move even if eviction fails", func(t *testing.T) {
		cache := mockedService.NewMockmoveCache(t)
		bot := NewBotService(discardLogger(), minimax.New(), cache)
		board := mustParse(t, "XX.", "OO.", "...")

		cache.EXPECT().
			GetByBoard(mock.Anything, board).
			Return(minimax.Result{Move: entity.Move{Row: 3, Col: 0}}, nil).
			Once()
		cache.EXPECT().
			DeleteByBoard(mock.Anything, board).
			Return(errRedisDown).
			Once()
		cache.EXPECT().
			Save(mock.Anything, board, mock.AnythingOfType("minimax.Result")).
			Return(nil).
			Once()

		result, err := bot.BestMove(ctx, board)

		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 0, Col: 2}, result.Move)
	})

	t.Run("Falls back to search when the cache fails", func(t *testing.T) {
		// Given: a cache that can neither read nor write
		cache := mockedService.NewMockmoveCache(t)
		bot := NewBotService(discardLogger(), minimax.New(), cache)
		board := mustParse(t, "XX.", "OO.", "...")

		cache.EXPECT().
			GetByBoard(mock.Anything, board).
			Return(minimax.Result{}, errRedisDown).
			Once()
		cache.EXPECT().
			Save(mock.Anything, board, mock.AnythingOfType("minimax.Result")).
			Return(errStorageIsFull).
			Once()

		// When: asking for the best move
		result, err := bot.BestMove(ctx, board)

		// Then: the search result is still returned
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 0, Col: 2}, result.Move)
		assert.Equal(t, 1, result.Score)
	})

	t.Run("Works without a cache", func(t *testing.T) {
		bot := NewBotService(discardLogger(), minimax.New(minimax.WithStrictCutoff(true)), nil)

		result, err := bot.BestMove(ctx, mustParse(t, "...", "...", "..."))

		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 0, Col: 0}, result.Move)
		assert.Equal(t, 0, result.Score)
	})

	t.Run("Full board has no moves left", func(t *testing.T) {
		bot := NewBotService(discardLogger(), minimax.New(), nil)

		_, err := bot.BestMove(ctx, mustParse(t, "XOX", "OXO", "OXO"))

		assert.ErrorIs(t, err, apperror.ErrNoMovesLeft)
	})

	t.Run("Won board is already finished", func(t *testing.T) {
		bot := NewBotService(discardLogger(), minimax.New(), nil)

		_, err := bot.BestMove(ctx, mustParse(t, "OOO", "XX.", "X.."))

		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestBotService_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Plays the best move on the game board", func(t *testing.T) {
		// Given: a game where O threatens row 1 and it is X's turn
		bot := NewBotService(discardLogger(), minimax.New(), nil)
		game := entity.NewGame(entity.PlayerX)
		game.Board = mustParse(t, "X..", "OO.", ".X.")

		// When: the bot makes its turn
		result, err := bot.MakeTurn(ctx, game)

		// Then: the block is on the board and it is O's turn
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 1, Col: 2}, result.Move)
		assert.Equal(t, entity.PlayerX, game.Board[1][2])
		assert.Equal(t, entity.PlayerO, game.Turn)
	})

	t.Run("Winning move finishes the game", func(t *testing.T) {
		bot := NewBotService(discardLogger(), minimax.New(), nil)
		game := entity.NewGame(entity.PlayerX)
		game.Board = mustParse(t, "XX.", "OO.", "...")

		_, err := bot.MakeTurn(ctx, game)

		require.NoError(t, err)
		assert.True(t, game.IsFinished())
		assert.Equal(t, entity.PlayerX, game.Winner)
	})

	t.Run("Refuses to move out of turn", func(t *testing.T) {
		bot := NewBotService(discardLogger(), minimax.New(), nil)
		game := entity.NewGame(entity.PlayerO)

		_, err := bot.MakeTurn(ctx, game)

		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, entity.Board{}, game.Board)
	})

	t.Run("Refuses to move in a finished game", func(t *testing.T) {
		bot := NewBotService(discardLogger(), minimax.New(), nil)
		game := &entity.Game{Status: entity.StatusFinished}

		_, err := bot.MakeTurn(ctx, game)

		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}
