package board

import "fmt"

// undoInfo stores what a move destroys so UnmakeMove can restore it.
type undoInfo struct {
	castlingRights CastlingRights
	enPassant      Square
	captured       Piece
	halfMoveClock  int
	hash           uint64
}

// Position represents a complete chess position and the undo stack of the
// moves made on it.
//
// A Position is not safe for concurrent use: MakeMove and UnmakeMove mutate
// the piece array and the undo stack in place.
type Position struct {
	// Piece on each square, NoPiece if empty.
	Squares [64]Piece

	// Game state
	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int    // Plies since last pawn move or capture (for 50-move rule)
	Ply            int    // Plies played since move 1 with White to move

	// Zobrist hash, used for repetition detection
	Hash uint64

	// King positions (cached for check detection)
	KingSquare [2]Square

	undo []undoInfo
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// newEmptyPosition returns a position with no pieces and White to move.
func newEmptyPosition() *Position {
	p := &Position{EnPassant: NoSquare}
	for sq := range p.Squares {
		p.Squares[sq] = NoPiece
	}
	p.KingSquare[White] = NoSquare
	p.KingSquare[Black] = NoSquare
	return p
}

// Copy creates a deep copy of the position, including its undo stack.
func (p *Position) Copy() *Position {
	newPos := *p
	newPos.undo = append([]undoInfo(nil), p.undo...)
	return &newPos
}

// FullMoveNumber returns the FEN full-move number, 1 + Ply/2.
func (p *Position) FullMoveNumber() int {
	return 1 + p.Ply/2
}

// Depth returns the number of moves made that have not been unmade.
func (p *Position) Depth() int {
	return len(p.undo)
}

// PieceAt returns the piece at the given square, or NoPiece if empty or off-board.
func (p *Position) PieceAt(sq Square) Piece {
	if sq >= NoSquare {
		return NoPiece
	}
	return p.Squares[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.PieceAt(sq) == NoPiece
}

// isEnemy reports whether sq holds a piece of the color opposing c.
func (p *Position) isEnemy(sq Square, c Color) bool {
	piece := p.PieceAt(sq)
	return piece != NoPiece && piece.Color() != c
}

// isEmptyOrEnemy reports whether a piece of color c may land on sq.
func (p *Position) isEmptyOrEnemy(sq Square, c Color) bool {
	piece := p.PieceAt(sq)
	return piece == NoPiece || piece.Color() != c
}

// isKing reports whether a king of either color stands on sq.
func (p *Position) isKing(sq Square) bool {
	return p.PieceAt(sq).Type() == King
}

// setPiece places a piece on an empty square and updates the hash.
func (p *Position) setPiece(piece Piece, sq Square) {
	if piece == NoPiece {
		return
	}
	p.Squares[sq] = piece
	p.Hash ^= zobristPiece[piece.Color()][piece.Type()][sq]

	if piece.Type() == King {
		p.KingSquare[piece.Color()] = sq
	}
}

// removePiece clears a square and returns what stood there.
func (p *Position) removePiece(sq Square) Piece {
	piece := p.Squares[sq]
	if piece == NoPiece {
		return NoPiece
	}
	p.Squares[sq] = NoPiece
	p.Hash ^= zobristPiece[piece.Color()][piece.Type()][sq]
	return piece
}

// movePiece moves a piece from one square to another empty square.
func (p *Position) movePiece(from, to Square) {
	p.setPiece(p.removePiece(from), to)
}

// findKings locates and caches the king positions.
func (p *Position) findKings() {
	p.KingSquare[White] = NoSquare
	p.KingSquare[Black] = NoSquare
	for sq := A1; sq <= H8; sq++ {
		if piece := p.Squares[sq]; piece.Type() == King {
			p.KingSquare[piece.Color()] = sq
		}
	}
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			piece := p.PieceAt(sq)
			if piece == NoPiece {
				s += ". "
			} else {
				s += piece.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("Side to move: %s\n", p.SideToMove)
	s += fmt.Sprintf("Castling: %s\n", p.CastlingRights)
	s += fmt.Sprintf("En passant: %s\n", p.EnPassant)
	s += fmt.Sprintf("Half-move clock: %d\n", p.HalfMoveClock)
	s += fmt.Sprintf("Full move: %d\n", p.FullMoveNumber())
	s += fmt.Sprintf("Hash: %016x\n", p.Hash)
	return s
}

// Validate checks that the position could arise in a game: one king per
// side, no pawns on the first or last rank, a consistent en passant target
// and the side that just moved not in check.
func (p *Position) Validate() error {
	var kings [2]int
	for sq := A1; sq <= H8; sq++ {
		piece := p.Squares[sq]
		switch {
		case piece.Type() == King:
			kings[piece.Color()]++
		case piece.Type() == Pawn && (sq.Rank() == 0 || sq.Rank() == 7):
			return fmt.Errorf("pawn on %s: pawns cannot be on rank 1 or 8", sq)
		}
	}

	// Check that each side has exactly one king
	if kings[White] != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if kings[Black] != 1 {
		return fmt.Errorf("black must have exactly one king")
	}

	if p.EnPassant != NoSquare {
		if err := p.validateEnPassant(); err != nil {
			return err
		}
	}

	if p.IsCheck() {
		return fmt.Errorf("%s king is in check with %s to move", p.SideToMove.Other(), p.SideToMove)
	}

	return nil
}

// validateEnPassant checks that the target lies behind a pawn of the side
// that just moved, on the rank a double push skips.
func (p *Position) validateEnPassant() error {
	ep := p.EnPassant
	if !ep.IsValid() {
		return fmt.Errorf("en passant square out of range")
	}
	if ep.RelativeRank(p.SideToMove) != 5 {
		return fmt.Errorf("en passant square %s on the wrong rank for %s to move", ep, p.SideToMove)
	}
	if !p.IsEmpty(ep) {
		return fmt.Errorf("en passant square %s is occupied", ep)
	}
	pusher := Square(int(ep) ^ 8)
	if p.PieceAt(pusher) != NewPiece(Pawn, p.SideToMove.Other()) {
		return fmt.Errorf("no %s pawn on %s behind en passant square %s", p.SideToMove.Other(), pusher, ep)
	}
	return nil
}
