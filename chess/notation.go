package chess

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Notation errors.
var (
	// ErrInvalidNotation is returned when a move string is not valid syntax.
	ErrInvalidNotation = errors.New("chess: invalid move notation")
	// ErrNoLegalMove is returned when a syntactically valid move matches no
	// legal move in the position.
	ErrNoLegalMove = errors.New("chess: no matching legal move")
)

// Notation is the interface implemented by move encodings. Decode validates
// the move against the position's legal moves.
type Notation interface {
	Encode(pos *Position, m *Move) string
	Decode(pos *Position, s string) (*Move, error)
}

// AlgebraicNotation is standard algebraic notation (SAN): "e4", "Nf3",
// "exd5", "O-O", "e8=Q#".
type AlgebraicNotation struct{}

// UCINotation is coordinate notation as used by UCI engines: "e2e4",
// "e7e8q".
type UCINotation struct{}

var sanRegexp = regexp.MustCompile(
	`^(?:(O-O-O|O-O|0-0-0|0-0)|(?:([KQRBN])?([a-h])?([1-8])?(x)?([a-h][1-8])(?:=?([QRBN]))?))([+#])?([!?]{1,2})?$`)

type sanParts struct {
	castle   string
	piece    string
	fromFile string
	fromRank string
	capture  bool
	dest     string
	promo    string
	check    string
	suffix   string
}

func algebraicNotationParts(s string) (sanParts, error) {
	groups := sanRegexp.FindStringSubmatch(s)
	if groups == nil {
		return sanParts{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}
	parts := sanParts{
		castle:   groups[1],
		piece:    groups[2],
		fromFile: groups[3],
		fromRank: groups[4],
		capture:  groups[5] == "x",
		dest:     groups[6],
		promo:    groups[7],
		check:    groups[8],
		suffix:   groups[9],
	}
	if parts.castle == "" && parts.dest == "" {
		return sanParts{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}
	return parts, nil
}

// ValidateSAN checks whether a string is valid SAN syntax. Only the syntax
// is validated, not legality in any position.
// Examples of valid SAN: "e4", "Nf3", "O-O", "Qxd2+", "e8=Q#".
func ValidateSAN(s string) error {
	_, err := algebraicNotationParts(s)
	return err
}

// Decode matches a SAN string against the position's legal moves.
func (AlgebraicNotation) Decode(pos *Position, s string) (*Move, error) {
	parts, err := algebraicNotationParts(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}

	validMoves := pos.ValidMoves()

	if parts.castle != "" {
		wantTag := KingSideCastle
		if parts.castle == "O-O-O" || parts.castle == "0-0-0" {
			wantTag = QueenSideCastle
		}
		for _, m := range validMoves {
			if m.HasTag(wantTag) {
				return m.Copy(), nil
			}
		}
		return nil, fmt.Errorf("%w for %q: castle unavailable", ErrNoLegalMove, s)
	}

	dest := parseSquare(parts.dest)
	wantType := Pawn
	if parts.piece != "" {
		wantType = PieceTypeFromString(parts.piece)
	}
	wantPromo := PieceTypeFromString(parts.promo)

	reason := ""
	for _, m := range validMoves {
		if m.S2() != dest {
			continue
		}
		if pos.board.Piece(m.S1()).Type() != wantType {
			reason = "piece type mismatch"
			continue
		}
		if parts.fromFile != "" && m.S1().File().String() != parts.fromFile {
			reason = "origin file mismatch"
			continue
		}
		if parts.fromRank != "" && m.S1().Rank().String() != parts.fromRank {
			reason = "origin rank mismatch"
			continue
		}
		if parts.capture != m.HasTag(Capture) {
			reason = "capture mismatch"
			continue
		}
		if wantPromo != m.promo {
			reason = "promotion mismatch"
			continue
		}
		return m.Copy(), nil
	}

	if reason != "" {
		return nil, fmt.Errorf("%w for %q: %s", ErrNoLegalMove, s, reason)
	}
	return nil, fmt.Errorf("%w for %q", ErrNoLegalMove, s)
}

// Encode returns the SAN of the move in the given position, with minimal
// disambiguation and a "+" or "#" suffix when the move gives check or mate.
func (an AlgebraicNotation) Encode(pos *Position, m *Move) string {
	var sb strings.Builder

	switch {
	case m.HasTag(KingSideCastle):
		sb.WriteString("O-O")
	case m.HasTag(QueenSideCastle):
		sb.WriteString("O-O-O")
	default:
		moving := pos.board.Piece(m.S1())
		if moving.Type() == Pawn {
			if m.HasTag(Capture) {
				sb.WriteString(m.S1().File().String())
				sb.WriteString("x")
			}
		} else {
			sb.WriteString(moving.Type().String())
			sb.WriteString(an.disambiguation(pos, m, moving.Type()))
			if m.HasTag(Capture) {
				sb.WriteString("x")
			}
		}
		sb.WriteString(m.S2().String())
		if m.promo != NoPieceType {
			sb.WriteString("=")
			sb.WriteString(m.promo.String())
		}
	}

	next := pos.Update(m)
	if next.Status() == Checkmate {
		sb.WriteString("#")
	} else if next.InCheck() {
		sb.WriteString("+")
	}
	return sb.String()
}

// disambiguation returns the origin file, rank, or square needed to make
// the move unique among legal moves of the same piece type to the same
// destination.
func (AlgebraicNotation) disambiguation(pos *Position, m *Move, pt PieceType) string {
	sameFile, sameRank, others := false, false, false
	for _, v := range pos.ValidMoves() {
		if v.S2() != m.S2() || v.S1() == m.S1() {
			continue
		}
		if pos.board.Piece(v.S1()).Type() != pt {
			continue
		}
		others = true
		if v.S1().File() == m.S1().File() {
			sameFile = true
		}
		if v.S1().Rank() == m.S1().Rank() {
			sameRank = true
		}
	}
	switch {
	case !others:
		return ""
	case !sameFile:
		return m.S1().File().String()
	case !sameRank:
		return m.S1().Rank().String()
	default:
		return m.S1().String()
	}
}

// Decode matches a UCI coordinate string against the position's legal moves.
func (UCINotation) Decode(pos *Position, s string) (*Move, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 5 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}

	s1 := parseSquare(s[0:2])
	s2 := parseSquare(s[2:4])
	if s1 == NoSquare || s2 == NoSquare {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}

	promo := NoPieceType
	if len(s) == 5 {
		promo = PieceTypeFromString(strings.ToUpper(s[4:5]))
		if promo == NoPieceType || promo == King || promo == Pawn {
			return nil, fmt.Errorf("%w: bad promotion in %q", ErrInvalidNotation, s)
		}
	}

	for _, m := range pos.ValidMoves() {
		if m.S1() == s1 && m.S2() == s2 && m.promo == promo {
			return m.Copy(), nil
		}
	}
	return nil, fmt.Errorf("%w for %q", ErrNoLegalMove, s)
}

// Encode returns the UCI coordinate form of the move.
func (UCINotation) Encode(_ *Position, m *Move) string {
	return m.String()
}
