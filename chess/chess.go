/*
Package chess implements the rules layer for en croissant: board and position
representation, legal move generation, FEN encoding/decoding, and the SAN/UCI
move notations. The game tree (package game) and the PGN codec (package pgn)
consume it as their rules oracle.

Example usage:

	pos := chess.StartingPosition()

	move, err := chess.AlgebraicNotation{}.Decode(pos, "e4")
	if err != nil {
		// illegal or malformed move
	}
	next := pos.Update(move)

	fmt.Println(next.FEN())
*/
package chess

import "strings"

// A Color represents the color of a side.
type Color int8

const (
	// NoColor represents the absence of a side.
	NoColor Color = iota
	// White represents the side that moves first.
	White
	// Black represents the side that moves second.
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

// String implements the fmt.Stringer interface and returns
// the FEN side-to-move letter.
func (c Color) String() string {
	switch c {
	case White:
		return "w"
	case Black:
		return "b"
	}
	return "-"
}

// Name returns the display name of the color.
func (c Color) Name() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	}
	return "No Color"
}

// A PieceType is the type of a piece regardless of color.
type PieceType int8

const (
	// NoPieceType represents the absence of a piece.
	NoPieceType PieceType = iota
	// King represents a king.
	King
	// Queen represents a queen.
	Queen
	// Rook represents a rook.
	Rook
	// Bishop represents a bishop.
	Bishop
	// Knight represents a knight.
	Knight
	// Pawn represents a pawn.
	Pawn
)

// String implements the fmt.Stringer interface and returns the
// uppercase SAN letter of the piece type ("" for NoPieceType).
func (pt PieceType) String() string {
	switch pt {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return ""
}

// PieceTypeFromString returns the piece type for an uppercase SAN letter,
// or NoPieceType if the letter names no piece.
func PieceTypeFromString(s string) PieceType {
	switch s {
	case "K":
		return King
	case "Q":
		return Queen
	case "R":
		return Rook
	case "B":
		return Bishop
	case "N":
		return Knight
	case "P":
		return Pawn
	}
	return NoPieceType
}

// A Piece is a piece type with a color.
type Piece int8

const (
	// NoPiece represents an empty square.
	NoPiece Piece = 0
)

// NewPiece returns the piece with the given type and color.
// It returns NoPiece if either argument is the zero value.
func NewPiece(pt PieceType, c Color) Piece {
	if pt == NoPieceType || c == NoColor {
		return NoPiece
	}
	if c == White {
		return Piece(pt)
	}
	return Piece(pt) + 6
}

// Type returns the piece's type.
func (p Piece) Type() PieceType {
	if p == NoPiece {
		return NoPieceType
	}
	if p > 6 {
		return PieceType(p - 6)
	}
	return PieceType(p)
}

// Color returns the piece's color.
func (p Piece) Color() Color {
	if p == NoPiece {
		return NoColor
	}
	if p > 6 {
		return Black
	}
	return White
}

// String implements the fmt.Stringer interface and returns the FEN
// letter of the piece (uppercase for white, lowercase for black).
func (p Piece) String() string {
	s := p.Type().String()
	if p.Color() == Black {
		return strings.ToLower(s)
	}
	return s
}

// A File is a board column from FileA to FileH.
type File int8

const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

// String implements the fmt.Stringer interface and returns the
// file letter ("a" through "h").
func (f File) String() string {
	return string(rune('a' + f))
}

// A Rank is a board row from Rank1 to Rank8.
type Rank int8

const (
	Rank1 Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

// String implements the fmt.Stringer interface and returns the
// rank digit ("1" through "8").
func (r Rank) String() string {
	return string(rune('1' + r))
}

// A Square is one of the 64 board squares. Squares are numbered
// rank-major from A1 (0) to H8 (63).
type Square int8

// NoSquare represents an invalid square.
const NoSquare Square = -1

//nolint:revive // the 64 squares read best as a single block
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// NewSquare returns the square at the given file and rank, or NoSquare
// if either coordinate is off the board.
func NewSquare(f File, r Rank) Square {
	if f < FileA || f > FileH || r < Rank1 || r > Rank8 {
		return NoSquare
	}
	return Square(int8(r)*8 + int8(f))
}

// File returns the square's file.
func (sq Square) File() File {
	return File(sq % 8)
}

// Rank returns the square's rank.
func (sq Square) Rank() Rank {
	return Rank(sq / 8)
}

// String implements the fmt.Stringer interface and returns the
// square in coordinate form (e.g. "e4").
func (sq Square) String() string {
	if sq < A1 || sq > H8 {
		return "-"
	}
	return sq.File().String() + sq.Rank().String()
}

// parseSquare converts a square name (e.g. "e4") into a Square.
func parseSquare(s string) Square {
	const squareLen = 2
	if len(s) != squareLen {
		return NoSquare
	}

	file := int(s[0] - 'a')
	rank := int(s[1] - '1')

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}

	return Square(rank*8 + file)
}
