package board

// IsCheckmate returns true if the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the side to move has no legal move but is not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsInsufficientMaterial returns true if neither side can checkmate:
// bare kings, a single minor piece against a bare king, or bishops that all
// stand on squares of one color.
func (p *Position) IsInsufficientMaterial() bool {
	var knights, bishops [2]int
	var bishopSquares Bitboard

	for sq := A1; sq <= H8; sq++ {
		piece := p.Squares[sq]
		switch piece.Type() {
		case Pawn, Rook, Queen:
			return false
		case Knight:
			knights[piece.Color()]++
		case Bishop:
			bishops[piece.Color()]++
			bishopSquares = bishopSquares.Set(sq)
		}
	}

	minors := knights[White] + knights[Black] + bishops[White] + bishops[Black]

	// K vs K, K+minor vs K
	if minors <= 1 {
		return true
	}

	// Only bishops, all on one square color
	if knights[White]+knights[Black] == 0 {
		dark := (bishopSquares & DarkSquares).PopCount()
		return dark == 0 || dark == bishopSquares.PopCount()
	}

	return false
}
