package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
)

// HumanMark is the mark played by the human; the bot always plays X.
const HumanMark = entity.PlayerO

type botService interface {
	MakeTurn(ctx context.Context, game *entity.Game) (minimax.Result, error)
}

// GameManager runs one local game between a human and the bot.
type GameManager struct {
	logger     *slog.Logger
	botService botService
	humanFirst bool
}

func NewGameManager(logger *slog.Logger, botService botService, humanFirst bool) *GameManager {
	return &GameManager{
		logger:     logger.With("component", "game_manager"),
		botService: botService,
		humanFirst: humanFirst,
	}
}

func (that *GameManager) NewGame(_ context.Context) *entity.Game {
	firstTurn := entity.PlayerX
	if that.humanFirst {
		firstTurn = HumanMark
	}

	game := entity.NewGame(firstTurn)

	that.logger.Info("game started", "gameID", game.ID, "first", string(firstTurn))

	return game
}

// IsBotTurn reports whether the next move belongs to the bot.
func (that *GameManager) IsBotTurn(game *entity.Game) bool {
	return game.IsOngoing() && game.Turn == entity.PlayerX
}

func (that *GameManager) HumanTurn(_ context.Context, game *entity.Game, move entity.Move) error {
	if err := game.MakeTurn(HumanMark, move); err != nil {
		return fmt.Errorf("failed make turn: %w", err)
	}

	that.logFinished(game)

	return nil
}

func (that *GameManager) BotTurn(ctx context.Context, game *entity.Game) (entity.Move, error) {
	result, err := that.botService.MakeTurn(ctx, game)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed bot turn: %w", err)
	}

	that.logger.Debug("bot moved", "gameID", game.ID, "move", result.Move.String(), "score", result.Score)
	that.logFinished(game)

	return result.Move, nil
}

func (that *GameManager) logFinished(game *entity.Game) {
	if !game.IsFinished() {
		return
	}

	that.logger.Info("game finished", "gameID", game.ID, "winner", string(game.Winner), "moves", len(game.Moves))
}
