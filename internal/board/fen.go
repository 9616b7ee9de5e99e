package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hailam/chessd/internal/errors"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Position.
// Only the piece placement is required; missing trailing fields default to
// "w", "-", "-", "0" and "1".
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty FEN string: %w", errors.ErrInvalidFEN)
	}
	if len(parts) > 6 {
		return nil, fmt.Errorf("need at most 6 fields, got %d: %w", len(parts), errors.ErrInvalidFEN)
	}

	defaults := []string{"", "w", "-", "-", "0", "1"}
	copy(defaults, parts)
	parts = defaults

	pos := newEmptyPosition()

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move %q: %w", parts[1], errors.ErrInvalidFEN)
	}

	// Parse castling rights (field 2)
	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	// Parse en passant square (field 3)
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square %q: %w", parts[3], errors.ErrInvalidFEN)
		}
		pos.EnPassant = sq
	}

	// Parse half-move clock (field 4)
	hmc, err := strconv.Atoi(parts[4])
	if err != nil || hmc < 0 {
		return nil, fmt.Errorf("invalid half-move clock %q: %w", parts[4], errors.ErrInvalidFEN)
	}
	pos.HalfMoveClock = hmc

	// Parse full-move number (field 5)
	fmn, err := strconv.Atoi(parts[5])
	if err != nil || fmn < 1 {
		return nil, fmt.Errorf("invalid full-move number %q: %w", parts[5], errors.ErrInvalidFEN)
	}
	pos.Ply = 2 * (fmn - 1)
	if pos.SideToMove == Black {
		pos.Ply++
	}

	// Update derived state
	pos.findKings()
	pos.Hash = pos.ComputeHash()

	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, errors.ErrInvalidFEN)
	}

	return pos, nil
}

// MustParseFEN is like ParseFEN but panics on error. Intended for tests and
// package-level constants.
func MustParseFEN(fen string) *Position {
	pos, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return pos
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("need 8 ranks, got %d: %w", len(ranks), errors.ErrInvalidFEN)
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d: %w", rank+1, errors.ErrInvalidFEN)
			}

			if c >= '1' && c <= '8' {
				// Skip empty squares
				file += int(c - '0')
			} else {
				// Place a piece
				piece := PieceFromChar(byte(c))
				if piece == NoPiece {
					return fmt.Errorf("invalid piece character %q: %w", c, errors.ErrInvalidFEN)
				}
				pos.setPiece(piece, NewSquare(file, rank))
				file++
			}
		}

		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d: %w", rank+1, file, errors.ErrInvalidFEN)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.CastlingRights = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			pos.CastlingRights = pos.CastlingRights.Set(WhiteKingSideCastle)
		case 'Q':
			pos.CastlingRights = pos.CastlingRights.Set(WhiteQueenSideCastle)
		case 'k':
			pos.CastlingRights = pos.CastlingRights.Set(BlackKingSideCastle)
		case 'q':
			pos.CastlingRights = pos.CastlingRights.Set(BlackQueenSideCastle)
		default:
			return fmt.Errorf("invalid castling character %q: %w", c, errors.ErrInvalidFEN)
		}
	}

	return nil
}

// ToFEN returns the FEN representation of the position.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	// Piece placement
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.Squares[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	side := 'w'
	if p.SideToMove == Black {
		side = 'b'
	}
	fmt.Fprintf(&sb, " %c %s %s %d %d", side, p.CastlingRights, p.EnPassant, p.HalfMoveClock, p.FullMoveNumber())

	return sb.String()
}
