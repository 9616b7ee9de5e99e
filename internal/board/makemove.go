package board

// MakeMove plays a pseudo-legal move and pushes what it destroys onto the undo
// stack. It does not verify king safety; GenerateLegalMoves does that using
// MakeMove itself.
func (p *Position) MakeMove(m Move) {
	from, to := m.From(), m.To()
	us := p.SideToMove
	them := us.Other()

	moved := p.Squares[from]
	captured := p.Squares[to]

	p.undo = append(p.undo, undoInfo{
		castlingRights: p.CastlingRights,
		enPassant:      p.EnPassant,
		captured:       captured,
		halfMoveClock:  p.HalfMoveClock,
		hash:           p.Hash,
	})

	p.Ply++
	p.HalfMoveClock++
	p.setEnPassant(NoSquare)

	rights := p.CastlingRights
	if captured != NoPiece {
		p.removePiece(to)
		p.HalfMoveClock = 0

		if captured.Type() == Rook {
			rights = rights.Unset(castlingFromRookSource(to) & ColorRights(them))
		}
	}

	newEnPassant := NoSquare
	switch moved.Type() {
	case King:
		rights = rights.UnsetColor(us)
	case Rook:
		rights = rights.Unset(castlingFromRookSource(from) & ColorRights(us))
	case Pawn:
		p.HalfMoveClock = 0
		// A target nobody can capture is never recorded.
		if abs(int(to)-int(from)) == 16 && p.enPassantPossible(to, us) {
			newEnPassant = Square(int(to) ^ 8)
		}
	}
	p.setCastlingRights(rights)

	switch m.Type() {
	case Castling:
		rookFrom, rookTo := castlingFromKingTarget(to).RookSquares()
		p.movePiece(rookFrom, rookTo)
		p.movePiece(from, to)
	case Promotion:
		p.removePiece(from)
		p.setPiece(NewPiece(m.Promotion(), us), to)
	case EnPassant:
		p.movePiece(from, to)
		p.removePiece(Square(int(to) ^ 8))
	default:
		p.movePiece(from, to)
	}

	p.setEnPassant(newEnPassant)

	p.SideToMove = them
	p.Hash ^= zobristSideToMove
}

// UnmakeMove takes back m, which must be the move most recently made.
func (p *Position) UnmakeMove(m Move) {
	n := len(p.undo) - 1
	if n < 0 {
		panic("board: UnmakeMove without a matching MakeMove")
	}
	undo := p.undo[n]
	p.undo = p.undo[:n]

	p.CastlingRights = undo.castlingRights
	p.EnPassant = undo.enPassant
	p.HalfMoveClock = undo.halfMoveClock
	p.Ply--
	p.SideToMove = p.SideToMove.Other()

	us := p.SideToMove
	from, to := m.From(), m.To()

	switch m.Type() {
	case Castling:
		rookFrom, rookTo := castlingFromKingTarget(to).RookSquares()
		p.movePiece(to, from)
		p.movePiece(rookTo, rookFrom)
	case Promotion:
		p.removePiece(to)
		p.setPiece(NewPiece(Pawn, us), from)
		p.setPiece(undo.captured, to)
	case EnPassant:
		p.movePiece(to, from)
		p.setPiece(NewPiece(Pawn, us.Other()), Square(int(to)^8))
	default:
		p.movePiece(to, from)
		p.setPiece(undo.captured, to)
	}

	p.Hash = undo.hash
}

// enPassantPossible reports whether an enemy pawn stands directly east or
// west of sq, the landing square of a double push by us.
func (p *Position) enPassantPossible(sq Square, us Color) bool {
	enemyPawn := NewPiece(Pawn, us.Other())
	return p.PieceAt(sq.Add(East)) == enemyPawn || p.PieceAt(sq.Add(West)) == enemyPawn
}

func (p *Position) setEnPassant(sq Square) {
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.EnPassant = sq
	if sq != NoSquare {
		p.Hash ^= zobristEnPassant[sq.File()]
	}
}

func (p *Position) setCastlingRights(cr CastlingRights) {
	p.Hash ^= zobristCastling[p.CastlingRights&AllCastling]
	p.CastlingRights = cr
	p.Hash ^= zobristCastling[cr&AllCastling]
}
