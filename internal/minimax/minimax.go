package minimax

import (
	"math"
	"time"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// The search always plays X as the maximizing side.
const (
	scoreWin  = 1
	scoreLoss = -1
	scoreDraw = 0

	NegInf = math.MinInt
	PosInf = math.MaxInt
)

// Stats describes the work done by a single FindBestMove call.
type Stats struct {
	Nodes    int           `json:"nodes"`
	Cutoffs  int           `json:"cutoffs"`
	MaxDepth int           `json:"max_depth"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Result is the move chosen for X and its game-theoretic value.
type Result struct {
	Move  entity.Move `json:"move"`
	Score int         `json:"score"`
	Stats Stats       `json:"stats"`
}

type Option func(*Engine)

// WithStrictCutoff makes an alpha-beta cutoff abandon the whole ply. By default
// a cutoff only skips the rest of the current row and scanning resumes on the
// next one; both settings choose the same moves, the strict one visits fewer nodes.
func WithStrictCutoff(strict bool) Option {
	return func(e *Engine) {
		e.strictCutoff = strict
	}
}

// Engine holds only options and is safe for concurrent use.
type Engine struct {
	strictCutoff bool
}

func New(opts ...Option) *Engine {
	engine := &Engine{}
	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

// FindBestMove picks the move for X with the strictly greatest value, scanning
// empty cells row-major so the first of equal moves wins. It reports false when
// the board has no empty cell.
func (that *Engine) FindBestMove(board entity.Board) (Result, bool) {
	started := time.Now()
	s := &search{board: board, strictCutoff: that.strictCutoff}

	best := Result{Score: NegInf}
	found := false

	for _, move := range s.board.EmptyCells() {
		s.board.Set(move, entity.PlayerX)
		value := s.minimax(0, NegInf, PosInf, false)
		s.board.Set(move, entity.EmptyCell)

		if value > best.Score {
			best.Score = value
			best.Move = move
			found = true
		}
	}

	if !found {
		return Result{}, false
	}

	best.Stats = s.stats
	best.Stats.Elapsed = time.Since(started)

	return best, true
}

// Minimax returns the value of board with X to move when maximizing, O otherwise.
// depth is informational only; the search always runs to terminal positions.
func (that *Engine) Minimax(board entity.Board, depth, alpha, beta int, maximizing bool) int {
	s := &search{board: board, strictCutoff: that.strictCutoff}

	return s.minimax(depth, alpha, beta, maximizing)
}

// search owns a private copy of the board and mutates it in place; every
// placed mark is retracted before the call that placed it returns.
type search struct {
	board        entity.Board
	strictCutoff bool
	stats        Stats
}

func (that *search) minimax(depth, alpha, beta int, maximizing bool) int {
	that.stats.Nodes++
	that.stats.MaxDepth = max(that.stats.MaxDepth, depth)

	switch {
	case that.board.HasWon(entity.PlayerX):
		return scoreWin
	case that.board.HasWon(entity.PlayerO):
		return scoreLoss
	case that.board.IsFull():
		return scoreDraw
	}

	if maximizing {
		best := NegInf

	maxRows:
		for row := 0; row < entity.BoardSize; row++ {
			for col := 0; col < entity.BoardSize; col++ {
				move := entity.Move{Row: row, Col: col}
				if that.board.At(move) != entity.EmptyCell {
					continue
				}

				that.board.Set(move, entity.PlayerX)
				value := that.minimax(depth+1, alpha, beta, false)
				that.board.Set(move, entity.EmptyCell)

				best = max(best, value)
				alpha = max(alpha, value)
				if beta <= alpha {
					that.stats.Cutoffs++
					if that.strictCutoff {
						break maxRows
					}
					break
				}
			}
		}

		return best
	}

	best := PosInf

minRows:
	for row := 0; row < entity.BoardSize; row++ {
		for col := 0; col < entity.BoardSize; col++ {
			move := entity.Move{Row: row, Col: col}
			if that.board.At(move) != entity.EmptyCell {
				continue
			}

			that.board.Set(move, entity.PlayerO)
			value := that.minimax(depth+1, alpha, beta, true)
			that.board.Set(move, entity.EmptyCell)

			best = min(best, value)
			beta = min(beta, value)
			if beta <= alpha {
				that.stats.Cutoffs++
				if that.strictCutoff {
					break minRows
				}
				break
			}
		}
	}

	return best
}
