package chess

import "strings"

// A MoveTag represents a notable consequence of a move.
type MoveTag uint16

const (
	// KingSideCastle indicates that the move is a kingside castle.
	KingSideCastle MoveTag = 1 << iota
	// QueenSideCastle indicates that the move is a queenside castle.
	QueenSideCastle
	// Capture indicates that the move captures a piece.
	Capture
	// EnPassant indicates that the move captures a pawn en passant.
	EnPassant
	// Check indicates that the move puts the opposing king in check.
	Check
)

// A Move is a piece displacement from one square to another, with an
// optional promotion piece type and consequence tags.
type Move struct {
	s1    Square
	s2    Square
	promo PieceType
	tags  MoveTag
}

// S1 returns the move's origin square.
func (m *Move) S1() Square {
	return m.s1
}

// S2 returns the move's destination square.
func (m *Move) S2() Square {
	return m.s2
}

// Promo returns the piece type the move promotes to, or NoPieceType.
func (m *Move) Promo() PieceType {
	return m.promo
}

// HasTag reports whether the move has the given tag.
func (m *Move) HasTag(tag MoveTag) bool {
	return m.tags&tag > 0
}

// AddTag adds the given tag to the move.
func (m *Move) AddTag(tag MoveTag) {
	m.tags |= tag
}

// Copy returns a copy of the move.
func (m *Move) Copy() *Move {
	c := *m
	return &c
}

// String implements the fmt.Stringer interface and returns the move in
// UCI coordinate form (e.g. "e2e4", "e7e8q").
func (m *Move) String() string {
	s := m.s1.String() + m.s2.String()
	if m.promo != NoPieceType {
		s += strings.ToLower(m.promo.String())
	}
	return s
}
