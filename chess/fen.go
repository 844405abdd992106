package chess

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFEN is returned when a FEN string cannot be parsed.
var ErrInvalidFEN = errors.New("chess: invalid FEN")

// PositionFromFEN parses a FEN string into a Position. The clock fields are
// optional and default to "0 1", which accepts EPD-style four-field input.
func PositionFromFEN(fen string) (*Position, error) {
	return decodeFEN(fen)
}

func decodeFEN(fen string) (*Position, error) {
	fields := strings.Fields(strings.TrimSpace(fen))
	if len(fields) < 4 || len(fields) > 6 {
		return nil, fmt.Errorf("%w: expected 4 to 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	board, err := decodePlacement(fields[0])
	if err != nil {
		return nil, err
	}

	var turn Color
	switch fields[1] {
	case "w":
		turn = White
	case "b":
		turn = Black
	default:
		return nil, fmt.Errorf("%w: bad side to move %q", ErrInvalidFEN, fields[1])
	}

	rights, err := decodeCastleRights(fields[2])
	if err != nil {
		return nil, err
	}

	epSquare := NoSquare
	if fields[3] != "-" {
		epSquare = parseSquare(fields[3])
		if epSquare == NoSquare {
			return nil, fmt.Errorf("%w: bad en passant square %q", ErrInvalidFEN, fields[3])
		}
	}

	halfMoveClock := 0
	if len(fields) > 4 {
		halfMoveClock, err = strconv.Atoi(fields[4])
		if err != nil || halfMoveClock < 0 {
			return nil, fmt.Errorf("%w: bad half-move clock %q", ErrInvalidFEN, fields[4])
		}
	}

	fullMoves := 1
	if len(fields) > 5 {
		fullMoves, err = strconv.Atoi(fields[5])
		if err != nil || fullMoves < 1 {
			return nil, fmt.Errorf("%w: bad full-move number %q", ErrInvalidFEN, fields[5])
		}
	}

	return &Position{
		board:           *board,
		turn:            turn,
		castleRights:    rights,
		enPassantSquare: epSquare,
		halfMoveClock:   halfMoveClock,
		fullMoves:       fullMoves,
	}, nil
}

func decodePlacement(field string) (*Board, error) {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	var board Board
	for i, rankStr := range ranks {
		r := Rank(7 - i) // FEN lists rank 8 first
		f := FileA
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				f += File(ch - '0')
				continue
			}
			p := pieceFromFENChar(ch)
			if p == NoPiece {
				return nil, fmt.Errorf("%w: bad piece character %q", ErrInvalidFEN, string(ch))
			}
			if f > FileH {
				return nil, fmt.Errorf("%w: rank %s overflows", ErrInvalidFEN, r)
			}
			board.setPiece(NewSquare(f, r), p)
			f++
		}
		if f != FileH+1 {
			return nil, fmt.Errorf("%w: rank %s has %d files", ErrInvalidFEN, r, f)
		}
	}

	if board.KingSquare(White) == NoSquare || board.KingSquare(Black) == NoSquare {
		return nil, fmt.Errorf("%w: both kings required", ErrInvalidFEN)
	}
	return &board, nil
}

func pieceFromFENChar(ch rune) Piece {
	switch ch {
	case 'K':
		return NewPiece(King, White)
	case 'Q':
		return NewPiece(Queen, White)
	case 'R':
		return NewPiece(Rook, White)
	case 'B':
		return NewPiece(Bishop, White)
	case 'N':
		return NewPiece(Knight, White)
	case 'P':
		return NewPiece(Pawn, White)
	case 'k':
		return NewPiece(King, Black)
	case 'q':
		return NewPiece(Queen, Black)
	case 'r':
		return NewPiece(Rook, Black)
	case 'b':
		return NewPiece(Bishop, Black)
	case 'n':
		return NewPiece(Knight, Black)
	case 'p':
		return NewPiece(Pawn, Black)
	}
	return NoPiece
}

func decodeCastleRights(field string) (CastleRights, error) {
	if field == "-" {
		return 0, nil
	}
	var rights CastleRights
	for _, ch := range field {
		switch ch {
		case 'K':
			rights |= CastleWhiteKingSide
		case 'Q':
			rights |= CastleWhiteQueenSide
		case 'k':
			rights |= CastleBlackKingSide
		case 'q':
			rights |= CastleBlackQueenSide
		default:
			return 0, fmt.Errorf("%w: bad castling rights %q", ErrInvalidFEN, field)
		}
	}
	return rights, nil
}
