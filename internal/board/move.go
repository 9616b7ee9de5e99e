package board

import (
	"fmt"

	"github.com/hailam/chessd/internal/errors"
)

// Move encodes a chess move in 16 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-13: promotion piece (0=Knight, 1=Bishop, 2=Rook, 3=Queen)
// bits 14-15: flags (0=normal, 1=promotion, 2=en passant, 3=castling)
//
// Two moves are equal exactly when type, squares and promotion piece agree.
type Move uint16

// MoveType is the kind of a move, stored in the flag bits.
type MoveType uint16

// Move flags
const (
	Normal    MoveType = 0 << 14
	Promotion MoveType = 1 << 14
	EnPassant MoveType = 2 << 14
	Castling  MoveType = 3 << 14
)

// String returns the move type name.
func (mt MoveType) String() string {
	switch mt {
	case Normal:
		return "Normal"
	case Promotion:
		return "Promotion"
	case EnPassant:
		return "EnPassant"
	case Castling:
		return "Castling"
	default:
		return "Unknown"
	}
}

// NoMove represents an invalid or null move.
const NoMove Move = 0

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion creates a promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	// promo: Knight=0, Bishop=1, Rook=2, Queen=3
	promoIdx := promo - Knight
	return Move(from) | Move(to)<<6 | Move(promoIdx)<<12 | Move(Promotion)
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(EnPassant)
}

// NewCastling creates a castling move (king's movement).
func NewCastling(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(Castling)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Type returns the move type.
func (m Move) Type() MoveType {
	return MoveType(m) & 0xC000
}

// Promotion returns the promotion piece type, or NoPieceType for any move
// that is not a promotion.
func (m Move) Promotion() PieceType {
	if !m.IsPromotion() {
		return NoPieceType
	}
	return PieceType((m>>12)&3) + Knight
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Type() == Promotion
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Type() == Castling
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Type() == EnPassant
}

// IsCapture returns true if this move captures a piece.
func (m Move) IsCapture(pos *Position) bool {
	if m.IsEnPassant() {
		return true
	}
	return !pos.IsEmpty(m.To())
}

// String returns the coordinate notation of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()

	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}

	return s
}

// ParseMove parses a coordinate notation move string ("e2e4", "e7e8q").
// The move type comes from the position, not the string: a pawn moving onto
// the en passant target is EnPassant, a king moving two files is Castling and
// a promotion suffix yields Promotion. The result is not checked for legality.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("unexpected length %d of move %q: %w", len(s), s, errors.ErrMalformedMove)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("from square of %q out of range: %w", s, errors.ErrMalformedMove)
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("to square of %q out of range: %w", s, errors.ErrMalformedMove)
	}

	pt := pos.PieceAt(from).Type()

	// En passant
	if pt == Pawn && to == pos.EnPassant {
		return NewEnPassant(from, to), nil
	}

	// Castling
	if pt == King && abs(to.File()-from.File()) == 2 {
		return NewCastling(from, to), nil
	}

	if len(s) == 5 {
		promo := PromotionTypeFromChar(s[4])
		if promo == NoPieceType {
			return NoMove, fmt.Errorf("invalid promotion piece %q: %w", s[4], errors.ErrMalformedMove)
		}
		return NewPromotion(from, to, promo), nil
	}

	return NewMove(from, to), nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
