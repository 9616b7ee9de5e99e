// Package board implements a mailbox chess board: move generation, reversible
// make/unmake and the FEN codec.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// Direction is a signed square-index delta in the LERF mapping.
type Direction int8

// Ray directions.
const (
	North       Direction = 8
	South       Direction = -8
	East        Direction = 1
	West        Direction = -1
	NorthEast   Direction = 9
	NorthWest   Direction = 7
	SouthEast   Direction = -7
	SouthWest   Direction = -9
	NoDirection Direction = 0
)

// Knight jumps.
const (
	KnightNorthNorthEast Direction = 17
	KnightNorthNorthWest Direction = 15
	KnightNorthEastEast  Direction = 10
	KnightNorthWestWest  Direction = 6
	KnightSouthEastEast  Direction = -6
	KnightSouthWestWest  Direction = -10
	KnightSouthSouthEast Direction = -15
	KnightSouthSouthWest Direction = -17
)

var (
	orthogonalDirections = [4]Direction{North, East, South, West}
	diagonalDirections   = [4]Direction{NorthEast, SouthEast, SouthWest, NorthWest}
	kingDirections       = [8]Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}
	knightDirections     = [8]Direction{
		KnightNorthNorthWest, KnightNorthNorthEast, KnightNorthEastEast, KnightSouthEastEast,
		KnightSouthSouthEast, KnightSouthSouthWest, KnightSouthWestWest, KnightNorthWestWest,
	}
)

// Add applies d to sq. It returns NoSquare when the result leaves the board,
// either vertically or by wrapping around to the opposite file edge.
func (sq Square) Add(d Direction) Square {
	if sq >= NoSquare || d == NoDirection {
		return NoSquare
	}
	to := int(sq) + int(d)
	if to < 0 || to > 63 {
		return NoSquare
	}
	// No ray step or knight jump moves more than two files.
	if abs(to&7-sq.File()) > 2 {
		return NoSquare
	}
	return Square(to)
}

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank returns the rank (row) of the square (0-7, where 0=1, 7=8).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// NewSquare creates a square from file and rank (0-indexed).
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	file := int(s[0] - 'a')
	rank := int(s[1] - '1')

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(file, rank), nil
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// RelativeRank returns the rank from a given color's perspective.
// For White, rank 0 is the 1st rank; for Black, rank 0 is the 8th rank.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
