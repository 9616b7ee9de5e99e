package board

// GeneratePseudoLegalMoves generates all pseudo-legal moves (may leave king in check).
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	for sq := A1; sq <= H8; sq++ {
		if piece := p.Squares[sq]; piece != NoPiece && piece.Color() == p.SideToMove {
			p.addPieceMoves(ml, sq)
		}
	}
	return ml
}

// GenerateLegalMoves generates all legal moves for the position.
//
// Every pseudo-legal candidate is made, tested with IsCheck and unmade. This
// is the dominant cost of the package; it is not pin-aware.
func (p *Position) GenerateLegalMoves() *MoveList {
	pseudo := p.GeneratePseudoLegalMoves()
	legal := NewMoveList()

	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		p.MakeMove(m)
		if !p.IsCheck() {
			legal.Add(m)
		}
		p.UnmakeMove(m)
	}
	return legal
}

// IsCheck reports whether the side that is not to move has its king attacked
// by the side to move. Called right after MakeMove it answers "did the mover
// leave its own king in check", which is what the legality filter needs.
func (p *Position) IsCheck() bool {
	return p.AttackedSquares(p.SideToMove).IsSet(p.KingSquare[p.SideToMove.Other()])
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.AttackedSquares(p.SideToMove.Other()).IsSet(p.KingSquare[p.SideToMove])
}

// IsLegal reports whether m is among the legal moves of the position.
func (p *Position) IsLegal(m Move) bool {
	return p.GenerateLegalMoves().Contains(m)
}

// HasLegalMoves returns true if the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	pseudo := p.GeneratePseudoLegalMoves()
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.Get(i)
		p.MakeMove(m)
		ok := !p.IsCheck()
		p.UnmakeMove(m)
		if ok {
			return true
		}
	}
	return false
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
func (p *Position) Perft(depth int) int64 {
	if depth <= 0 {
		return 1
	}

	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return int64(moves.Len())
	}

	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		p.MakeMove(m)
		nodes += p.Perft(depth - 1)
		p.UnmakeMove(m)
	}
	return nodes
}

// Divide returns the perft count below each legal root move.
func (p *Position) Divide(depth int) map[Move]int64 {
	result := make(map[Move]int64)
	moves := p.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		p.MakeMove(m)
		result[m] = p.Perft(depth - 1)
		p.UnmakeMove(m)
	}
	return result
}
