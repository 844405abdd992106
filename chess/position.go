package chess

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// CastleRights tracks which castling moves are still available.
type CastleRights uint8

const (
	// CastleWhiteKingSide allows white to castle kingside.
	CastleWhiteKingSide CastleRights = 1 << iota
	// CastleWhiteQueenSide allows white to castle queenside.
	CastleWhiteQueenSide
	// CastleBlackKingSide allows black to castle kingside.
	CastleBlackKingSide
	// CastleBlackQueenSide allows black to castle queenside.
	CastleBlackQueenSide
)

// String implements the fmt.Stringer interface and returns the FEN
// castling-availability field.
func (cr CastleRights) String() string {
	if cr == 0 {
		return "-"
	}
	var sb strings.Builder
	if cr&CastleWhiteKingSide != 0 {
		sb.WriteString("K")
	}
	if cr&CastleWhiteQueenSide != 0 {
		sb.WriteString("Q")
	}
	if cr&CastleBlackKingSide != 0 {
		sb.WriteString("k")
	}
	if cr&CastleBlackQueenSide != 0 {
		sb.WriteString("q")
	}
	return sb.String()
}

// A Status is the terminal state of a position as seen by the rules:
// the side to move has no legal continuation (Checkmate or Stalemate)
// or play continues (NoStatus).
type Status int8

const (
	// NoStatus indicates the position has legal continuations.
	NoStatus Status = iota
	// Checkmate indicates the side to move is checkmated.
	Checkmate
	// Stalemate indicates the side to move is stalemated.
	Stalemate
)

// A Position is a complete description of a board state: piece placement,
// side to move, castling rights, en passant target, and move clocks.
// Positions are immutable; Update returns a new position.
type Position struct {
	board           Board
	turn            Color
	castleRights    CastleRights
	enPassantSquare Square
	halfMoveClock   int
	fullMoves       int
}

// StartingFEN is the FEN of the standard starting position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// StartingPosition returns the standard starting position.
func StartingPosition() *Position {
	pos, _ := PositionFromFEN(StartingFEN)
	return pos
}

// Board returns the position's piece placement.
func (p *Position) Board() *Board {
	return &p.board
}

// Turn returns the side to move.
func (p *Position) Turn() Color {
	return p.turn
}

// CastleRights returns the castling availability of the position.
func (p *Position) CastleRights() CastleRights {
	return p.castleRights
}

// EnPassantSquare returns the en passant target square, or NoSquare.
func (p *Position) EnPassantSquare() Square {
	return p.enPassantSquare
}

// HalfMoveClock returns the number of half-moves since the last capture
// or pawn advance.
func (p *Position) HalfMoveClock() int {
	return p.halfMoveClock
}

// FullMoves returns the full move number, starting at 1.
func (p *Position) FullMoves() int {
	return p.fullMoves
}

// Copy returns a copy of the position.
func (p *Position) Copy() *Position {
	c := *p
	return &c
}

// String implements the fmt.Stringer interface and returns the FEN of
// the position.
func (p *Position) String() string {
	return p.FEN()
}

// FEN returns the Forsyth-Edwards Notation of the position.
func (p *Position) FEN() string {
	var sb strings.Builder
	sb.WriteString(p.board.String())
	sb.WriteString(" ")
	sb.WriteString(p.turn.String())
	sb.WriteString(" ")
	sb.WriteString(p.castleRights.String())
	sb.WriteString(" ")
	sb.WriteString(p.enPassantSquare.String())
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(p.halfMoveClock))
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(p.fullMoves))
	return sb.String()
}

// EPD returns the first four FEN fields: the canonical identity of the
// position without the move clocks.
func (p *Position) EPD() string {
	return p.board.String() + " " + p.turn.String() + " " +
		p.castleRights.String() + " " + p.enPassantSquare.String()
}

// SamePosition reports whether two positions are identical under the
// canonical comparison: same placement, side to move, castling rights,
// and en passant target. Move clocks are ignored.
func (p *Position) SamePosition(other *Position) bool {
	if other == nil {
		return false
	}
	return p.board.pieces == other.board.pieces &&
		p.turn == other.turn &&
		p.castleRights == other.castleRights &&
		p.enPassantSquare == other.enPassantSquare
}

// Hash returns a 64-bit hash of the canonical position.
func (p *Position) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(p.EPD()))
	return h.Sum64()
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	kingSq := p.board.KingSquare(p.turn)
	if kingSq == NoSquare {
		return false
	}
	return p.isSquareAttacked(kingSq, p.turn.Other())
}

// Status returns Checkmate or Stalemate if the side to move has no legal
// moves, and NoStatus otherwise.
func (p *Position) Status() Status {
	if len(p.ValidMoves()) > 0 {
		return NoStatus
	}
	if p.InCheck() {
		return Checkmate
	}
	return Stalemate
}

// Update applies the move and returns the resulting position. The move is
// not validated; callers obtain legal moves from ValidMoves or a Notation
// decoder. The original position is left unchanged.
func (p *Position) Update(m *Move) *Position {
	next := &Position{
		board:           p.board,
		turn:            p.turn.Other(),
		castleRights:    p.castleRights,
		enPassantSquare: NoSquare,
		halfMoveClock:   p.halfMoveClock + 1,
		fullMoves:       p.fullMoves,
	}
	if p.turn == Black {
		next.fullMoves++
	}

	moving := p.board.Piece(m.s1)

	if moving.Type() == Pawn || p.board.Piece(m.s2) != NoPiece {
		next.halfMoveClock = 0
	}

	// En passant capture: the captured pawn sits beside the destination.
	if moving.Type() == Pawn && m.s2 == p.enPassantSquare &&
		p.enPassantSquare != NoSquare && m.s1.File() != m.s2.File() &&
		p.board.Piece(m.s2) == NoPiece {
		next.board.setPiece(NewSquare(m.s2.File(), m.s1.Rank()), NoPiece)
		next.halfMoveClock = 0
	}

	next.board.setPiece(m.s2, moving)
	next.board.setPiece(m.s1, NoPiece)

	if m.promo != NoPieceType {
		next.board.setPiece(m.s2, NewPiece(m.promo, moving.Color()))
	}

	// Castling moves the rook as well.
	if moving.Type() == King {
		switch {
		case m.s1 == E1 && m.s2 == G1:
			next.board.setPiece(F1, next.board.Piece(H1))
			next.board.setPiece(H1, NoPiece)
		case m.s1 == E1 && m.s2 == C1:
			next.board.setPiece(D1, next.board.Piece(A1))
			next.board.setPiece(A1, NoPiece)
		case m.s1 == E8 && m.s2 == G8:
			next.board.setPiece(F8, next.board.Piece(H8))
			next.board.setPiece(H8, NoPiece)
		case m.s1 == E8 && m.s2 == C8:
			next.board.setPiece(D8, next.board.Piece(A8))
			next.board.setPiece(A8, NoPiece)
		}
	}

	// A double pawn push exposes the bypassed square to en passant.
	if moving.Type() == Pawn {
		r1, r2 := m.s1.Rank(), m.s2.Rank()
		if r1 == Rank2 && r2 == Rank4 {
			next.enPassantSquare = NewSquare(m.s1.File(), Rank3)
		} else if r1 == Rank7 && r2 == Rank5 {
			next.enPassantSquare = NewSquare(m.s1.File(), Rank6)
		}
	}

	next.castleRights = updatedCastleRights(p.castleRights, moving, m)

	return next
}

func updatedCastleRights(cr CastleRights, moving Piece, m *Move) CastleRights {
	if moving.Type() == King {
		if moving.Color() == White {
			cr &^= CastleWhiteKingSide | CastleWhiteQueenSide
		} else {
			cr &^= CastleBlackKingSide | CastleBlackQueenSide
		}
	}
	// A rook leaving its corner, or anything landing on one, voids that side.
	for _, sq := range [2]Square{m.s1, m.s2} {
		switch sq {
		case H1:
			cr &^= CastleWhiteKingSide
		case A1:
			cr &^= CastleWhiteQueenSide
		case H8:
			cr &^= CastleBlackKingSide
		case A8:
			cr &^= CastleBlackQueenSide
		}
	}
	return cr
}
