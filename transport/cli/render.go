package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const (
	cellSeparator = " | "
	rowSeparator  = "---------"
)

// renderer draws the board as plain rows; colours are only emitted when out
// is a terminal.
type renderer struct {
	xStyle    lipgloss.Style
	oStyle    lipgloss.Style
	lineStyle lipgloss.Style
}

func newRenderer(out io.Writer) *renderer {
	r := lipgloss.NewRenderer(out)

	return &renderer{
		xStyle:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#007e50", Dark: "#6afd76"}).Bold(true),
		oStyle:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0003ad", Dark: "#5f61fc"}).Bold(true),
		lineStyle: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#414141", Dark: "#8f8f8f"}),
	}
}

func (that *renderer) cell(cell entity.Cell) string {
	switch cell {
	case entity.PlayerX:
		return that.xStyle.Render(string(cell))
	case entity.PlayerO:
		return that.oStyle.Render(string(cell))
	default:
		return " "
	}
}

func (that *renderer) Board(board entity.Board) string {
	var sb strings.Builder

	for _, row := range board {
		cells := make([]string, 0, entity.BoardSize)
		for _, cell := range row {
			cells = append(cells, that.cell(cell))
		}

		sb.WriteString(strings.Join(cells, that.lineStyle.Render(cellSeparator)))
		sb.WriteByte('\n')
		sb.WriteString(that.lineStyle.Render(rowSeparator))
		sb.WriteByte('\n')
	}

	return sb.String()
}
