package board

// CastlingRights represents the available castling options as a 4-bit mask.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// castlingGeometry holds everything that differs between the four castlings.
type castlingGeometry struct {
	kingFrom    Square
	kingTo      Square
	rookFrom    Square
	rookTo      Square
	mustBeEmpty []Square
	notAttacked []Square
}

// castlingTable is indexed by the bit position of a single right.
var castlingTable = [4]castlingGeometry{
	{E1, G1, H1, F1, []Square{F1, G1}, []Square{E1, F1, G1}},
	{E1, C1, A1, D1, []Square{B1, C1, D1}, []Square{E1, D1, C1}},
	{E8, G8, H8, F8, []Square{F8, G8}, []Square{E8, F8, G8}},
	{E8, C8, A8, D8, []Square{B8, C8, D8}, []Square{E8, D8, C8}},
}

// colorCastling lists each color's two rights, kingside first.
var colorCastling = [2][2]CastlingRights{
	{WhiteKingSideCastle, WhiteQueenSideCastle},
	{BlackKingSideCastle, BlackQueenSideCastle},
}

func (cr CastlingRights) geometry() *castlingGeometry {
	switch cr {
	case WhiteKingSideCastle:
		return &castlingTable[0]
	case WhiteQueenSideCastle:
		return &castlingTable[1]
	case BlackKingSideCastle:
		return &castlingTable[2]
	case BlackQueenSideCastle:
		return &castlingTable[3]
	}
	return nil
}

// ColorRights returns both rights belonging to c.
func ColorRights(c Color) CastlingRights {
	if c > Black {
		return NoCastling
	}
	return colorCastling[c][0] | colorCastling[c][1]
}

// Set returns cr with the given rights added.
func (cr CastlingRights) Set(r CastlingRights) CastlingRights {
	return cr | r
}

// Unset returns cr with the given rights removed.
func (cr CastlingRights) Unset(r CastlingRights) CastlingRights {
	return cr &^ r
}

// UnsetColor removes both of c's rights.
func (cr CastlingRights) UnsetColor(c Color) CastlingRights {
	return cr &^ ColorRights(c)
}

// Has reports whether every right in r is held.
func (cr CastlingRights) Has(r CastlingRights) bool {
	return r != NoCastling && cr&r == r
}

// HasAny reports whether c still holds at least one right.
func (cr CastlingRights) HasAny(c Color) bool {
	return cr&ColorRights(c) != 0
}

// IsEmpty reports whether no rights remain.
func (cr CastlingRights) IsEmpty() bool {
	return cr&AllCastling == 0
}

// KingTarget returns the king's destination for a single right.
func (cr CastlingRights) KingTarget() Square {
	if g := cr.geometry(); g != nil {
		return g.kingTo
	}
	return NoSquare
}

// RookSquares returns the rook's source and target for a single right.
func (cr CastlingRights) RookSquares() (from, to Square) {
	if g := cr.geometry(); g != nil {
		return g.rookFrom, g.rookTo
	}
	return NoSquare, NoSquare
}

// castlingFromKingTarget finds the right whose king lands on sq.
func castlingFromKingTarget(sq Square) CastlingRights {
	for i := range castlingTable {
		if castlingTable[i].kingTo == sq {
			return CastlingRights(1 << i)
		}
	}
	return NoCastling
}

// castlingFromRookSource finds the right whose rook starts on sq.
func castlingFromRookSource(sq Square) CastlingRights {
	for i := range castlingTable {
		if castlingTable[i].rookFrom == sq {
			return CastlingRights(1 << i)
		}
	}
	return NoCastling
}

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}
