package entity

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

type Game struct {
	ID     string `json:"id"`
	Board  Board  `json:"board"`
	Winner Cell   `json:"winner"`
	Status string `json:"status"`
	Turn   Cell   `json:"player_turn"`
	Moves  []Move `json:"moves,omitempty"`
}

func NewGame(firstTurn Cell) *Game {
	return &Game{
		ID:     uuid.NewString(),
		Turn:   firstTurn,
		Status: StatusOngoing,
	}
}

// DetermineGameResult returns the winning mark, PlayerTie, or EmptyCell while
// the game continues.
func (that *Game) DetermineGameResult() Cell {
	return that.Board.Winner()
}

func (that *Game) UpdateGameState() {
	switch winner := that.DetermineGameResult(); winner {
	// one player wins or the board is full
	case PlayerX, PlayerO, PlayerTie:
		that.Winner = winner
		that.Status = StatusFinished
		that.Turn = EmptyCell
	// game continue
	default:
		that.Status = StatusOngoing
	}
}

func (that *Game) MakeTurn(playerMark Cell, move Move) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if !move.InBounds() {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidCell, move)
	}

	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	if that.Board.At(move) != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.Board.Set(move, playerMark)
	that.Moves = append(that.Moves, move)
	that.Turn = playerMark.Opponent()

	that.UpdateGameState()

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}
