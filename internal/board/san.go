package board

import (
	"strings"
)

// SAN converts a legal move to Standard Algebraic Notation.
func (m Move) SAN(pos *Position) string {
	if m == NoMove {
		return "-"
	}

	from := m.From()
	to := m.To()
	piece := pos.PieceAt(from)

	if piece == NoPiece {
		return m.String() // Fallback to coordinate notation
	}

	var sb strings.Builder

	switch {
	case m.IsCastling() && to > from:
		sb.WriteString("O-O")
	case m.IsCastling():
		sb.WriteString("O-O-O")
	default:
		pt := piece.Type()

		// Piece letter and disambiguation (not for pawns)
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(disambiguation(pos, m, pt))
		}

		// Capture marker
		if m.IsCapture(pos) {
			if pt == Pawn {
				// Pawn captures include the file of origin
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}

		// Destination square
		sb.WriteString(to.String())

		// Promotion
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promotion()])
		}
	}

	// Check/checkmate marker
	pos.MakeMove(m)
	if pos.IsCheckmate() {
		sb.WriteByte('#')
	} else if pos.InCheck() {
		sb.WriteByte('+')
	}
	pos.UnmakeMove(m)

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from other legal moves of the same piece type to the same square.
func disambiguation(pos *Position, m Move, pt PieceType) string {
	from := m.From()
	to := m.To()

	var candidates []Square

	allMoves := pos.GenerateLegalMoves()
	for i := 0; i < allMoves.Len(); i++ {
		move := allMoves.Get(i)
		if move.To() != to || move.From() == from {
			continue
		}
		if pos.PieceAt(move.From()).Type() == pt {
			candidates = append(candidates, move.From())
		}
	}

	// No ambiguity
	if len(candidates) == 0 {
		return ""
	}

	sameFile := false
	sameRank := false
	for _, sq := range candidates {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}

	if !sameFile {
		// File is sufficient
		return string(rune('a' + from.File()))
	}
	if !sameRank {
		// Rank is sufficient
		return string(rune('1' + from.Rank()))
	}
	// Need both file and rank
	return from.String()
}

// MovesToSAN converts a sequence of moves played from pos to SAN.
// pos is left unchanged.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, len(moves))
	p := pos.Copy()

	for i, m := range moves {
		result[i] = m.SAN(p)
		p.MakeMove(m)
	}

	return result
}
