package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// BoardSize is the side length of the board. Only 3x3 is supported.
const BoardSize = 3

// Cell is the content of a single square.
type Cell string

const (
	EmptyCell Cell = ""
	PlayerX   Cell = "X"
	PlayerO   Cell = "O"

	// PlayerTie is reported as the winner of a drawn game. It never appears on the board.
	PlayerTie Cell = "-"
)

var (
	ErrInvalidMark  = errors.New("invalid mark")
	ErrInvalidBoard = errors.New("invalid board")

	// WinLines lists the 3 rows, 3 columns and 2 diagonals.
	WinLines = [8][3]Move{
		{{0, 0}, {0, 1}, {0, 2}},
		{{1, 0}, {1, 1}, {1, 2}},
		{{2, 0}, {2, 1}, {2, 2}},
		{{0, 0}, {1, 0}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}},
		{{0, 2}, {1, 2}, {2, 2}},
		{{0, 0}, {1, 1}, {2, 2}},
		{{0, 2}, {1, 1}, {2, 0}},
	}
)

// Opponent returns the other player's mark. Empty stays empty.
func (that Cell) Opponent() Cell {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that *Cell) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("could not unmarshal cell: %w", err)
	}

	if raw == string(PlayerTie) {
		*that = PlayerTie
		return nil
	}

	cell, err := parseCell(raw)
	if err != nil {
		return err
	}

	*that = cell

	return nil
}

func parseCell(raw string) (Cell, error) {
	switch strings.ToUpper(raw) {
	case "", " ", ".":
		return EmptyCell, nil
	case "X":
		return PlayerX, nil
	case "O":
		return PlayerO, nil
	default:
		return EmptyCell, fmt.Errorf("%w: %q", ErrInvalidMark, raw)
	}
}

// Move addresses a cell by 0-indexed row and column.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) InBounds() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

func (that Move) String() string {
	return fmt.Sprintf("(%d, %d)", that.Row, that.Col)
}

// Board is a 3x3 grid indexed [row][col]. It is a value type: assigning or
// passing a Board copies it.
type Board [BoardSize][BoardSize]Cell

// ParseBoard builds a board from one string per row, e.g. "XO.". Empty cells may
// be written as '.' or ' '.
func ParseBoard(rows ...string) (Board, error) {
	var board Board

	if len(rows) != BoardSize {
		return board, fmt.Errorf("%w: want %d rows, got %d", ErrInvalidBoard, BoardSize, len(rows))
	}

	for row, line := range rows {
		if len(line) != BoardSize {
			return board, fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, row, len(line))
		}

		for col := 0; col < BoardSize; col++ {
			cell, err := parseCell(line[col : col+1])
			if err != nil {
				return board, fmt.Errorf("%w: row %d: %w", ErrInvalidBoard, row, err)
			}
			board[row][col] = cell
		}
	}

	return board, nil
}

// UnmarshalJSON accepts exactly 3 rows of 3 marks. Missing, short and long rows
// are rejected instead of being zero-filled or truncated.
func (that *Board) UnmarshalJSON(data []byte) error {
	var rows [][]Cell
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBoard, err)
	}

	if len(rows) != BoardSize {
		return fmt.Errorf("%w: want %d rows, got %d", ErrInvalidBoard, BoardSize, len(rows))
	}

	var board Board
	for row, cells := range rows {
		if len(cells) != BoardSize {
			return fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, row, len(cells))
		}

		for col, cell := range cells {
			if cell == PlayerTie {
				return fmt.Errorf("%w: row %d: %w: %q", ErrInvalidBoard, row, ErrInvalidMark, cell)
			}
			board[row][col] = cell
		}
	}

	*that = board

	return nil
}

func (that *Board) At(move Move) Cell {
	return that[move.Row][move.Col]
}

func (that *Board) Set(move Move, cell Cell) {
	that[move.Row][move.Col] = cell
}

// HasWon reports whether player owns any full row, column or diagonal.
func (that *Board) HasWon(player Cell) bool {
	if player != PlayerX && player != PlayerO {
		return false
	}

	for _, line := range WinLines {
		if that.At(line[0]) == player && that.At(line[1]) == player && that.At(line[2]) == player {
			return true
		}
	}

	return false
}

func (that *Board) IsFull() bool {
	for row := range that {
		for _, cell := range that[row] {
			if cell == EmptyCell {
				return false
			}
		}
	}

	return true
}

// Evaluate scores the board from X's side: +1 when X has a line, -1 when O has
// one, 0 otherwise. A zero on a board that is not full does not mean a draw.
func (that *Board) Evaluate() int {
	switch {
	case that.HasWon(PlayerX):
		return 1
	case that.HasWon(PlayerO):
		return -1
	default:
		return 0
	}
}

// Winner returns the mark owning a line, PlayerTie on a full board without one,
// and EmptyCell while the game is still open.
func (that *Board) Winner() Cell {
	switch {
	case that.HasWon(PlayerX):
		return PlayerX
	case that.HasWon(PlayerO):
		return PlayerO
	case that.IsFull():
		return PlayerTie
	default:
		return EmptyCell
	}
}

// EmptyCells lists the free cells in row-major order.
func (that *Board) EmptyCells() []Move {
	moves := make([]Move, 0, BoardSize*BoardSize)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if that[row][col] == EmptyCell {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

// Key encodes the board as 9 characters, row-major, '.' for empty.
func (that *Board) Key() string {
	var sb strings.Builder
	sb.Grow(BoardSize * BoardSize)

	for row := range that {
		for _, cell := range that[row] {
			if cell == EmptyCell {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(string(cell))
		}
	}

	return sb.String()
}

func (that *Board) String() string {
	key := that.Key()

	return key[0:3] + "/" + key[3:6] + "/" + key[6:9]
}
