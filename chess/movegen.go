package chess

// Piece movement deltas as (file, rank) offsets. Bounds are checked in
// file/rank space, so no wrap guards are needed.
var (
	knightDeltas = [8][2]int8{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingDeltas   = [8][2]int8{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	bishopDirs   = [4][2]int8{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	rookDirs     = [4][2]int8{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

func offsetSquare(sq Square, df, dr int8) Square {
	return NewSquare(File(int8(sq.File())+df), Rank(int8(sq.Rank())+dr))
}

// ValidMoves returns all legal moves in the position. Moves that give
// check carry the Check tag; captures, en passant, and castles are
// tagged as well.
func (p *Position) ValidMoves() []Move {
	pseudo := p.pseudoMoves()
	moves := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		next := p.Update(&m)
		kingSq := next.board.KingSquare(p.turn)
		if kingSq != NoSquare && next.isSquareAttacked(kingSq, next.turn) {
			continue
		}
		if next.InCheck() {
			m.AddTag(Check)
		}
		moves = append(moves, m)
	}
	return moves
}

func (p *Position) pseudoMoves() []Move {
	moves := make([]Move, 0, 48)
	for sq := A1; sq <= H8; sq++ {
		pc := p.board.Piece(sq)
		if pc == NoPiece || pc.Color() != p.turn {
			continue
		}
		switch pc.Type() {
		case Pawn:
			p.pawnMoves(sq, &moves)
		case Knight:
			p.stepMoves(sq, knightDeltas[:], &moves)
		case Bishop:
			p.slideMoves(sq, bishopDirs[:], &moves)
		case Rook:
			p.slideMoves(sq, rookDirs[:], &moves)
		case Queen:
			p.slideMoves(sq, bishopDirs[:], &moves)
			p.slideMoves(sq, rookDirs[:], &moves)
		case King:
			p.stepMoves(sq, kingDeltas[:], &moves)
			p.castleMoves(sq, &moves)
		}
	}
	return moves
}

func (p *Position) stepMoves(sq Square, deltas [][2]int8, moves *[]Move) {
	for _, d := range deltas {
		to := offsetSquare(sq, d[0], d[1])
		if to == NoSquare {
			continue
		}
		target := p.board.Piece(to)
		switch {
		case target == NoPiece:
			*moves = append(*moves, Move{s1: sq, s2: to})
		case target.Color() != p.turn:
			*moves = append(*moves, Move{s1: sq, s2: to, tags: Capture})
		}
	}
}

func (p *Position) slideMoves(sq Square, dirs [][2]int8, moves *[]Move) {
	for _, d := range dirs {
		for step := int8(1); ; step++ {
			to := offsetSquare(sq, d[0]*step, d[1]*step)
			if to == NoSquare {
				break
			}
			target := p.board.Piece(to)
			if target == NoPiece {
				*moves = append(*moves, Move{s1: sq, s2: to})
				continue
			}
			if target.Color() != p.turn {
				*moves = append(*moves, Move{s1: sq, s2: to, tags: Capture})
			}
			break
		}
	}
}

var promotionTypes = [4]PieceType{Queen, Rook, Bishop, Knight}

func (p *Position) pawnMoves(sq Square, moves *[]Move) {
	dir := int8(1)
	startRank, promoRank := Rank2, Rank8
	if p.turn == Black {
		dir = -1
		startRank, promoRank = Rank7, Rank1
	}

	appendPawnMove := func(to Square, tags MoveTag) {
		if to.Rank() == promoRank {
			for _, pt := range promotionTypes {
				*moves = append(*moves, Move{s1: sq, s2: to, promo: pt, tags: tags})
			}
			return
		}
		*moves = append(*moves, Move{s1: sq, s2: to, tags: tags})
	}

	// Pushes.
	one := offsetSquare(sq, 0, dir)
	if one != NoSquare && p.board.Piece(one) == NoPiece {
		appendPawnMove(one, 0)
		if sq.Rank() == startRank {
			two := offsetSquare(sq, 0, 2*dir)
			if two != NoSquare && p.board.Piece(two) == NoPiece {
				*moves = append(*moves, Move{s1: sq, s2: two})
			}
		}
	}

	// Captures, including en passant.
	for _, df := range [2]int8{-1, 1} {
		to := offsetSquare(sq, df, dir)
		if to == NoSquare {
			continue
		}
		if to == p.enPassantSquare {
			*moves = append(*moves, Move{s1: sq, s2: to, tags: Capture | EnPassant})
			continue
		}
		target := p.board.Piece(to)
		if target != NoPiece && target.Color() != p.turn {
			appendPawnMove(to, Capture)
		}
	}
}

func (p *Position) castleMoves(sq Square, moves *[]Move) {
	type castle struct {
		right      CastleRights
		kingFrom   Square
		kingTo     Square
		rookFrom   Square
		empty      []Square
		unattacked []Square
		tag        MoveTag
	}

	var candidates []castle
	if p.turn == White {
		candidates = []castle{
			{CastleWhiteKingSide, E1, G1, H1, []Square{F1, G1}, []Square{E1, F1, G1}, KingSideCastle},
			{CastleWhiteQueenSide, E1, C1, A1, []Square{B1, C1, D1}, []Square{E1, D1, C1}, QueenSideCastle},
		}
	} else {
		candidates = []castle{
			{CastleBlackKingSide, E8, G8, H8, []Square{F8, G8}, []Square{E8, F8, G8}, KingSideCastle},
			{CastleBlackQueenSide, E8, C8, A8, []Square{B8, C8, D8}, []Square{E8, D8, C8}, QueenSideCastle},
		}
	}

	enemy := p.turn.Other()
castleLoop:
	for _, c := range candidates {
		if p.castleRights&c.right == 0 || sq != c.kingFrom {
			continue
		}
		if p.board.Piece(c.rookFrom) != NewPiece(Rook, p.turn) {
			continue
		}
		for _, s := range c.empty {
			if p.board.Piece(s) != NoPiece {
				continue castleLoop
			}
		}
		for _, s := range c.unattacked {
			if p.isSquareAttacked(s, enemy) {
				continue castleLoop
			}
		}
		*moves = append(*moves, Move{s1: c.kingFrom, s2: c.kingTo, tags: c.tag})
	}
}

// isSquareAttacked reports whether the given color attacks the square.
func (p *Position) isSquareAttacked(sq Square, by Color) bool {
	// Knights.
	for _, d := range knightDeltas {
		from := offsetSquare(sq, d[0], d[1])
		if from != NoSquare && p.board.Piece(from) == NewPiece(Knight, by) {
			return true
		}
	}

	// Kings.
	for _, d := range kingDeltas {
		from := offsetSquare(sq, d[0], d[1])
		if from != NoSquare && p.board.Piece(from) == NewPiece(King, by) {
			return true
		}
	}

	// Pawns attack diagonally forward, so the attacker sits one rank
	// behind the target square from its own point of view.
	pawnDir := int8(1)
	if by == Black {
		pawnDir = -1
	}
	for _, df := range [2]int8{-1, 1} {
		from := offsetSquare(sq, df, -pawnDir)
		if from != NoSquare && p.board.Piece(from) == NewPiece(Pawn, by) {
			return true
		}
	}

	// Sliding pieces.
	if p.firstPieceInDirs(sq, bishopDirs[:], NewPiece(Bishop, by), NewPiece(Queen, by)) {
		return true
	}
	return p.firstPieceInDirs(sq, rookDirs[:], NewPiece(Rook, by), NewPiece(Queen, by))
}

func (p *Position) firstPieceInDirs(sq Square, dirs [][2]int8, want1, want2 Piece) bool {
	for _, d := range dirs {
		for step := int8(1); ; step++ {
			to := offsetSquare(sq, d[0]*step, d[1]*step)
			if to == NoSquare {
				break
			}
			target := p.board.Piece(to)
			if target == NoPiece {
				continue
			}
			if target == want1 || target == want2 {
				return true
			}
			break
		}
	}
	return false
}
