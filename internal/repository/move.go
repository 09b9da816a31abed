package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
)

var ErrMoveNotFound = fmt.Errorf("move %w", apperror.ErrNotFound)

// MoveRepository caches search results per board position.
type MoveRepository interface {
	Save(ctx context.Context, board entity.Board, result minimax.Result) error
	GetByBoard(ctx context.Context, board entity.Board) (minimax.Result, error)
	DeleteByBoard(ctx context.Context, board entity.Board) error
}

type dbMove struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMoveRepository stores entries for ttl; zero keeps them forever.
func NewMoveRepository(client *redis.Client, ttl time.Duration) MoveRepository {
	return &dbMove{
		client: client,
		ttl:    ttl,
	}
}

func moveKey(board entity.Board) string {
	return "move:" + board.Key()
}

func (that *dbMove) Save(ctx context.Context, board entity.Board, result minimax.Result) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal move: %w", err)
	}

	if err = that.client.Set(ctx, moveKey(board), resultJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set move: %w", err)
	}

	return nil
}

func (that *dbMove) GetByBoard(ctx context.Context, board entity.Board) (minimax.Result, error) {
	response, err := that.client.Get(ctx, moveKey(board)).Result()

	if errors.Is(err, redis.Nil) {
		return minimax.Result{}, ErrMoveNotFound
	}

	if err != nil {
		return minimax.Result{}, fmt.Errorf("failed to get move by board: %w", err)
	}

	var result minimax.Result
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return minimax.Result{}, fmt.Errorf("failed to unmarshal move: %w", err)
	}

	return result, nil
}

func (that *dbMove) DeleteByBoard(ctx context.Context, board entity.Board) error {
	deleted, err := that.client.Del(ctx, moveKey(board)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete move by board: %w", err)
	}

	if deleted == 0 {
		return ErrMoveNotFound
	}

	return nil
}
