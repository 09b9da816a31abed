package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	msgWelcome      = "Welcome to Tic-Tac-Toe!"
	msgEnterRow     = "Enter row (0-2): "
	msgEnterCol     = "Enter column (0-2): "
	msgInvalidInput = "Invalid input. Please enter a number (0-2)."
	msgCellTaken    = "That position is already taken. Try again."
	msgDraw         = "It's a draw!"
)

// ErrInputClosed is returned when the human's input ends before the game does.
var ErrInputClosed = errors.New("input closed")

type gameManager interface {
	NewGame(ctx context.Context) *entity.Game
	IsBotTurn(game *entity.Game) bool
	HumanTurn(ctx context.Context, game *entity.Game, move entity.Move) error
	BotTurn(ctx context.Context, game *entity.Game) (entity.Move, error)
}

// CLI plays one game on a text terminal.
type CLI struct {
	logger  *slog.Logger
	manager gameManager

	in       *bufio.Scanner
	out      io.Writer
	renderer *renderer
}

func New(logger *slog.Logger, manager gameManager, in io.Reader, out io.Writer) *CLI {
	return &CLI{
		logger:   logger.With("component", "cli"),
		manager:  manager,
		in:       bufio.NewScanner(in),
		out:      out,
		renderer: newRenderer(out),
	}
}

// Play runs a game to the end and returns the finished game.
func (that *CLI) Play(ctx context.Context) (*entity.Game, error) {
	game := that.manager.NewGame(ctx)

	that.println(msgWelcome)
	that.printBoard(game)

	for !game.IsFinished() {
		if err := ctx.Err(); err != nil {
			return game, fmt.Errorf("game interrupted: %w", err)
		}

		if that.manager.IsBotTurn(game) {
			move, err := that.manager.BotTurn(ctx, game)
			if err != nil {
				return game, fmt.Errorf("bot turn failed: %w", err)
			}

			that.println(fmt.Sprintf("AI plays %s at %s", entity.PlayerX, move))
		} else if err := that.humanTurn(ctx, game); err != nil {
			return game, err
		}

		that.printBoard(game)
	}

	if game.Winner == entity.PlayerTie {
		that.println(msgDraw)
	} else {
		that.println(fmt.Sprintf("%s wins!", game.Winner))
	}

	return game, nil
}

// humanTurn keeps prompting until the human makes a legal move.
func (that *CLI) humanTurn(ctx context.Context, game *entity.Game) error {
	for {
		move, err := that.readMove()
		if err != nil {
			if errors.Is(err, errInvalidInput) {
				that.println(msgInvalidInput)
				continue
			}

			return err
		}

		err = that.manager.HumanTurn(ctx, game, move)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, apperror.ErrCellOccupied):
			that.println(msgCellTaken)
		case errors.Is(err, apperror.ErrInvalidCell):
			that.println(msgInvalidInput)
		default:
			return fmt.Errorf("human turn failed: %w", err)
		}
	}
}

var errInvalidInput = errors.New("invalid input")

func (that *CLI) readMove() (entity.Move, error) {
	row, err := that.readCoordinate(msgEnterRow)
	if err != nil {
		return entity.Move{}, err
	}

	col, err := that.readCoordinate(msgEnterCol)
	if err != nil {
		return entity.Move{}, err
	}

	return entity.Move{Row: row, Col: col}, nil
}

func (that *CLI) readCoordinate(prompt string) (int, error) {
	that.print(prompt)

	if !that.in.Scan() {
		if err := that.in.Err(); err != nil {
			return 0, fmt.Errorf("failed to read input: %w", err)
		}

		return 0, ErrInputClosed
	}

	value, err := strconv.Atoi(strings.TrimSpace(that.in.Text()))
	if err != nil || value < 0 || value >= entity.BoardSize {
		that.logger.Debug("rejected input", "input", that.in.Text())
		return 0, errInvalidInput
	}

	return value, nil
}

func (that *CLI) printBoard(game *entity.Game) {
	that.print(that.renderer.Board(game.Board))
}

func (that *CLI) print(s string) {
	if _, err := io.WriteString(that.out, s); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}

func (that *CLI) println(s string) {
	that.print(s + "\n")
}
