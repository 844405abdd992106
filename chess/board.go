package chess

import (
	"strconv"
	"strings"
)

// A Board holds the piece placement of a position: one Piece per square,
// indexed rank-major from A1.
type Board struct {
	pieces [64]Piece
}

// Piece returns the piece on the given square, or NoPiece if the square
// is empty or off the board.
func (b *Board) Piece(sq Square) Piece {
	if sq < A1 || sq > H8 {
		return NoPiece
	}
	return b.pieces[sq]
}

func (b *Board) setPiece(sq Square, p Piece) {
	if sq >= A1 && sq <= H8 {
		b.pieces[sq] = p
	}
}

// SquareMap returns a map of the occupied squares to their pieces.
func (b *Board) SquareMap() map[Square]Piece {
	m := make(map[Square]Piece)
	for sq := A1; sq <= H8; sq++ {
		if b.pieces[sq] != NoPiece {
			m[sq] = b.pieces[sq]
		}
	}
	return m
}

// KingSquare returns the square of the given color's king, or NoSquare
// if the board has no such king.
func (b *Board) KingSquare(c Color) Square {
	target := NewPiece(King, c)
	for sq := A1; sq <= H8; sq++ {
		if b.pieces[sq] == target {
			return sq
		}
	}
	return NoSquare
}

// HasSufficientMaterial reports whether either side can still deliver
// checkmate. King vs king, king and one minor piece vs king, and same-colored
// bishops only are the insufficient combinations.
func (b *Board) HasSufficientMaterial() bool {
	var knights, bishops int
	var bishopOnLight, bishopOnDark bool

	for sq := A1; sq <= H8; sq++ {
		switch b.pieces[sq].Type() {
		case NoPieceType, King:
		case Pawn, Rook, Queen:
			return true
		case Knight:
			knights++
		case Bishop:
			bishops++
			if isLightSquare(sq) {
				bishopOnLight = true
			} else {
				bishopOnDark = true
			}
		}
	}

	switch {
	case knights == 0 && bishops == 0:
		return false
	case knights == 1 && bishops == 0:
		return false
	case knights == 0 && bishops == 1:
		return false
	case knights == 0 && !(bishopOnLight && bishopOnDark):
		// any number of bishops confined to one square color
		return false
	}
	return true
}

func isLightSquare(sq Square) bool {
	return (int(sq.File())+int(sq.Rank()))%2 == 1
}

// String implements the fmt.Stringer interface and returns the FEN
// piece-placement field of the board.
func (b *Board) String() string {
	var sb strings.Builder
	for r := Rank8; r >= Rank1; r-- {
		empty := 0
		for f := FileA; f <= FileH; f++ {
			p := b.pieces[NewSquare(f, r)]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(p.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r > Rank1 {
			sb.WriteString("/")
		}
	}
	return sb.String()
}
