package board

// Per-piece behavior. Each piece type contributes pseudo-legal moves and the
// squares it attacks; dispatch is a switch over the closed set of piece types.

// pawnCaptureDirections is indexed by color.
var pawnCaptureDirections = [2][2]Direction{
	{NorthEast, NorthWest},
	{SouthEast, SouthWest},
}

// pawnPushDirection is indexed by color.
var pawnPushDirection = [2]Direction{North, South}

// addPieceMoves appends the pseudo-legal moves of the piece standing on from.
func (p *Position) addPieceMoves(ml *MoveList, from Square) {
	piece := p.Squares[from]
	us := piece.Color()

	switch piece.Type() {
	case Pawn:
		p.addPawnMoves(ml, from, us)
	case Knight:
		addMoves(ml, from, p.stepTargets(from, us, knightDirections[:], true))
	case Bishop:
		addMoves(ml, from, p.slideTargets(from, us, diagonalDirections[:], true))
	case Rook:
		addMoves(ml, from, p.slideTargets(from, us, orthogonalDirections[:], true))
	case Queen:
		addMoves(ml, from, p.slideTargets(from, us, diagonalDirections[:], true)|
			p.slideTargets(from, us, orthogonalDirections[:], true))
	case King:
		addMoves(ml, from, p.stepTargets(from, us, kingDirections[:], true))
		p.addCastlingMoves(ml, from, us)
	}
}

// pieceAttacks returns the squares attacked by the piece standing on from.
// Unlike move generation, an enemy king counts as attacked.
func (p *Position) pieceAttacks(from Square) Bitboard {
	piece := p.Squares[from]
	us := piece.Color()

	switch piece.Type() {
	case Pawn:
		var attacks Bitboard
		for _, d := range pawnCaptureDirections[us] {
			if to := from.Add(d); to != NoSquare && p.isEmptyOrEnemy(to, us) {
				attacks = attacks.Set(to)
			}
		}
		return attacks
	case Knight:
		return p.stepTargets(from, us, knightDirections[:], false)
	case Bishop:
		return p.slideTargets(from, us, diagonalDirections[:], false)
	case Rook:
		return p.slideTargets(from, us, orthogonalDirections[:], false)
	case Queen:
		return p.slideTargets(from, us, diagonalDirections[:], false) |
			p.slideTargets(from, us, orthogonalDirections[:], false)
	case King:
		return p.stepTargets(from, us, kingDirections[:], false)
	}
	return Empty
}

// AttackedSquares returns every square attacked by a piece of color c.
func (p *Position) AttackedSquares(c Color) Bitboard {
	var attacked Bitboard
	for sq := A1; sq <= H8; sq++ {
		if piece := p.Squares[sq]; piece != NoPiece && piece.Color() == c {
			attacked |= p.pieceAttacks(sq)
		}
	}
	return attacked
}

// slideTargets casts a ray per direction. A ray stops before a friendly piece
// and on an enemy piece. With kingBlocks set, an enemy king stops the ray
// without being included, since kings are never captured.
func (p *Position) slideTargets(from Square, us Color, dirs []Direction, kingBlocks bool) Bitboard {
	var targets Bitboard
	for _, d := range dirs {
		for to := from.Add(d); to != NoSquare; to = to.Add(d) {
			piece := p.Squares[to]
			if piece != NoPiece && (piece.Color() == us || kingBlocks && piece.Type() == King) {
				break
			}
			targets = targets.Set(to)
			if piece != NoPiece {
				break
			}
		}
	}
	return targets
}

// stepTargets returns the empty-or-enemy squares one offset away.
func (p *Position) stepTargets(from Square, us Color, dirs []Direction, kingBlocks bool) Bitboard {
	var targets Bitboard
	for _, d := range dirs {
		to := from.Add(d)
		if to == NoSquare || !p.isEmptyOrEnemy(to, us) {
			continue
		}
		if kingBlocks && p.isKing(to) {
			continue
		}
		targets = targets.Set(to)
	}
	return targets
}

func addMoves(ml *MoveList, from Square, targets Bitboard) {
	for targets != 0 {
		ml.Add(NewMove(from, targets.PopLSB()))
	}
}

// addPawnMoves generates pushes, captures and en passant for one pawn.
// Any move onto the last rank becomes four promotions.
func (p *Position) addPawnMoves(ml *MoveList, from Square, us Color) {
	push := pawnPushDirection[us]

	if to := from.Add(push); to != NoSquare && p.IsEmpty(to) {
		if to.RelativeRank(us) == 7 {
			addPromotions(ml, from, to)
		} else {
			ml.Add(NewMove(from, to))

			if from.RelativeRank(us) == 1 {
				if double := to.Add(push); double != NoSquare && p.IsEmpty(double) {
					ml.Add(NewMove(from, double))
				}
			}
		}
	}

	for _, d := range pawnCaptureDirections[us] {
		to := from.Add(d)
		if to == NoSquare {
			continue
		}

		if to == p.EnPassant {
			ml.Add(NewEnPassant(from, to))
			continue
		}

		if p.isEnemy(to, us) && !p.isKing(to) {
			if to.RelativeRank(us) == 7 {
				addPromotions(ml, from, to)
			} else {
				ml.Add(NewMove(from, to))
			}
		}
	}
}

// addPromotions adds all four promotion moves.
func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewPromotion(from, to, Knight))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Queen))
}

// addCastlingMoves emits a castling move for every held right whose path is
// empty and whose king squares are not attacked by the opponent.
func (p *Position) addCastlingMoves(ml *MoveList, from Square, us Color) {
	if !p.CastlingRights.HasAny(us) {
		return
	}

	attacked, computed := Empty, false
	rook := NewPiece(Rook, us)

	for _, right := range colorCastling[us] {
		if !p.CastlingRights.Has(right) {
			continue
		}
		g := right.geometry()
		if from != g.kingFrom || p.Squares[g.rookFrom] != rook {
			continue
		}
		if !p.allEmpty(g.mustBeEmpty) {
			continue
		}
		if !computed {
			attacked, computed = p.AttackedSquares(us.Other()), true
		}
		if anySet(attacked, g.notAttacked) {
			continue
		}
		ml.Add(NewCastling(from, g.kingTo))
	}
}

func (p *Position) allEmpty(squares []Square) bool {
	for _, sq := range squares {
		if !p.IsEmpty(sq) {
			return false
		}
	}
	return true
}

func anySet(b Bitboard, squares []Square) bool {
	for _, sq := range squares {
		if b.IsSet(sq) {
			return true
		}
	}
	return false
}
