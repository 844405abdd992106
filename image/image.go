/*
Package image renders chess positions as SVG board diagrams. The renderer
draws a checkered 8x8 board with figurine glyphs and coordinate labels;
options add square highlights and move arrows (the visual form of the
[%csl] and [%cal] comment commands) and flip the point of view.
*/
package image

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/alextaconet/en-croissant/chess"
)

const (
	sqSize    = 45
	boardSide = 8 * sqSize
)

const (
	lightFill = "#f0d9b5"
	darkFill  = "#b58863"
	labelFill = "#333333"
)

// An Arrow is a move marker drawn from one square to another.
type Arrow struct {
	From  chess.Square
	To    chess.Square
	Color string
}

// An Option adjusts how the board is drawn.
type Option func(*encoder)

// Perspective puts the given side at the bottom of the board. The default
// is the white perspective.
func Perspective(c chess.Color) Option {
	return func(e *encoder) {
		e.perspective = c
	}
}

// MarkSquares overlays the given squares with a translucent color.
func MarkSquares(color string, squares ...chess.Square) Option {
	return func(e *encoder) {
		for _, sq := range squares {
			e.marks[sq] = color
		}
	}
}

// MarkArrows draws move arrows over the board.
func MarkArrows(arrows ...Arrow) Option {
	return func(e *encoder) {
		e.arrows = append(e.arrows, arrows...)
	}
}

type encoder struct {
	perspective chess.Color
	marks       map[chess.Square]string
	arrows      []Arrow
}

// glyphs maps pieces to their figurine form.
var glyphs = map[chess.Piece]string{
	chess.NewPiece(chess.King, chess.White):   "♔",
	chess.NewPiece(chess.Queen, chess.White):  "♕",
	chess.NewPiece(chess.Rook, chess.White):   "♖",
	chess.NewPiece(chess.Bishop, chess.White): "♗",
	chess.NewPiece(chess.Knight, chess.White): "♘",
	chess.NewPiece(chess.Pawn, chess.White):   "♙",
	chess.NewPiece(chess.King, chess.Black):   "♚",
	chess.NewPiece(chess.Queen, chess.Black):  "♛",
	chess.NewPiece(chess.Rook, chess.Black):   "♜",
	chess.NewPiece(chess.Bishop, chess.Black): "♝",
	chess.NewPiece(chess.Knight, chess.Black): "♞",
	chess.NewPiece(chess.Pawn, chess.Black):   "♟",
}

// SVG writes the position as a standalone SVG document.
func SVG(w io.Writer, pos *chess.Position, opts ...Option) error {
	e := &encoder{
		perspective: chess.White,
		marks:       map[chess.Square]string{},
	}
	for _, opt := range opts {
		opt(e)
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(boardSide, boardSide)

	board := pos.Board()
	for sq := chess.A1; sq <= chess.H8; sq++ {
		x, y := e.origin(sq)
		canvas.Square(x, y, sqSize, "fill:"+squareFill(sq))
		if color, ok := e.marks[sq]; ok {
			canvas.Square(x, y, sqSize, "fill:"+color+";fill-opacity:0.5")
		}
		if p := board.Piece(sq); p != chess.NoPiece {
			canvas.Text(x+sqSize/2, y+sqSize*3/4, glyphs[p],
				"font-size:32px;text-anchor:middle")
		}
	}

	e.drawCoordinates(canvas)
	for _, a := range e.arrows {
		e.drawArrow(canvas, a)
	}

	canvas.End()
	return ew.err
}

// origin returns the top-left screen coordinates of a square.
func (e *encoder) origin(sq chess.Square) (int, int) {
	col := int(sq.File())
	row := 7 - int(sq.Rank())
	if e.perspective == chess.Black {
		col = 7 - col
		row = 7 - row
	}
	return col * sqSize, row * sqSize
}

func (e *encoder) center(sq chess.Square) (int, int) {
	x, y := e.origin(sq)
	return x + sqSize/2, y + sqSize/2
}

func squareFill(sq chess.Square) string {
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return darkFill
	}
	return lightFill
}

// drawCoordinates labels the files along the bottom edge and the ranks
// along the left edge.
func (e *encoder) drawCoordinates(canvas *svg.SVG) {
	const style = "font-size:10px;fill:" + labelFill
	for i := 0; i < 8; i++ {
		file := chess.File(i)
		rank := chess.Rank(7 - i)
		if e.perspective == chess.Black {
			file = chess.File(7 - i)
			rank = chess.Rank(i)
		}
		canvas.Text(i*sqSize+sqSize-9, boardSide-4, file.String(), style)
		canvas.Text(3, i*sqSize+12, rank.String(), style)
	}
}

func (e *encoder) drawArrow(canvas *svg.SVG, a Arrow) {
	color := a.Color
	if color == "" {
		color = "#15781b"
	}
	x1, y1 := e.center(a.From)
	x2, y2 := e.center(a.To)

	dx, dy := float64(x2-x1), float64(y2-y1)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	ux, uy := dx/length, dy/length

	// Shorten the shaft so the head lands on the target center.
	const headLen, headWidth = 13.0, 7.0
	bx, by := float64(x2)-ux*headLen, float64(y2)-uy*headLen
	px, py := -uy, ux

	canvas.Line(x1, y1, int(bx), int(by),
		fmt.Sprintf("stroke:%s;stroke-width:7;stroke-opacity:0.7;stroke-linecap:round", color))
	canvas.Polygon(
		[]int{x2, int(bx + px*headWidth), int(bx - px*headWidth)},
		[]int{y2, int(by + py*headWidth), int(by - py*headWidth)},
		fmt.Sprintf("fill:%s;fill-opacity:0.7", color))
}

// errWriter latches the first write error; the svg canvas itself does not
// report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	if err != nil {
		ew.err = err
	}
	return n, err
}
