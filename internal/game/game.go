// Package game wraps a board.Position with the rules of a two-player game:
// seats, lifecycle state, coordinate-notation input, move history and the
// replay check used when a game is loaded from storage.
package game

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slices"

	"github.com/hailam/chessd/internal/board"
	"github.com/hailam/chessd/internal/errors"
)

// fiftyMoveLimit is the half-move clock value at which the game is drawn.
const fiftyMoveLimit = 100

// Game is a single game between two players.
//
// A Game is not safe for concurrent use; callers serialize access per game.
type Game struct {
	ID      string
	State   State
	White   string
	Black   string
	Created time.Time

	pos    *board.Position
	moves  []string
	played []board.Move
	hashes []uint64 // position hash before the first move and after each move
}

// New creates a game waiting for an opponent, with player seated as color.
func New(id string, color board.Color, player string) (*Game, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return nil, fmt.Errorf("empty player name: %w", errors.ErrInvalidPlayer)
	}

	g := &Game{
		ID:      id,
		State:   WaitingForPlayer,
		Created: time.Now().UTC(),
		pos:     board.NewPosition(),
	}
	g.hashes = []uint64{g.pos.Hash}

	switch color {
	case board.White:
		g.White = player
	case board.Black:
		g.Black = player
	default:
		return nil, fmt.Errorf("seat %s: %w", color, errors.ErrInvalidColor)
	}

	return g, nil
}

// Join seats player in the empty seat and starts the game.
func (g *Game) Join(player string) error {
	player = strings.TrimSpace(player)
	if player == "" {
		return g.fail(fmt.Errorf("empty player name: %w", errors.ErrInvalidPlayer), "")
	}
	if g.State != WaitingForPlayer {
		return g.fail(fmt.Errorf("game is %s, not waiting for a player: %w", g.State, errors.ErrInvalidGameState), "")
	}
	if player == g.WaitingPlayer() {
		return g.fail(fmt.Errorf("%s already joined: %w", player, errors.ErrInvalidPlayer), "")
	}

	if g.White == "" {
		g.White = player
	} else {
		g.Black = player
	}
	g.State = Ongoing
	return nil
}

// WaitingPlayer returns the only seated player, or "" once both seats are taken.
func (g *Game) WaitingPlayer() string {
	switch {
	case g.White == "" && g.Black != "":
		return g.Black
	case g.Black == "" && g.White != "":
		return g.White
	}
	return ""
}

// PlayerToMove returns the player whose turn it is.
func (g *Game) PlayerToMove() string {
	if g.pos.SideToMove == board.White {
		return g.White
	}
	return g.Black
}

// SideToMove returns the color to move.
func (g *Game) SideToMove() board.Color {
	return g.pos.SideToMove
}

// ParseMove converts a coordinate-notation string into a move for the
// current position. The move is not checked for legality.
func (g *Game) ParseMove(s string) (board.Move, error) {
	return board.ParseMove(s, g.pos)
}

// PlayMove plays a coordinate-notation move and returns its canonical text.
// The game must be ongoing and the move must be legal.
func (g *Game) PlayMove(s string) (string, error) {
	if g.State != Ongoing {
		return "", g.fail(fmt.Errorf("game is %s: %w", g.State, errors.ErrInvalidGameState), s)
	}

	m, err := g.ParseMove(s)
	if err != nil {
		return "", g.fail(err, s)
	}

	if !slices.Contains(g.pos.GenerateLegalMoves().Slice(), m) {
		return "", g.fail(fmt.Errorf("%s: %w", m, errors.ErrIllegalMove), s)
	}

	g.apply(m)
	g.State = g.evaluate()
	return m.String(), nil
}

// apply makes a legal move and records it in the history.
func (g *Game) apply(m board.Move) {
	g.pos.MakeMove(m)
	g.moves = append(g.moves, m.String())
	g.played = append(g.played, m)
	g.hashes = append(g.hashes, g.pos.Hash)
}

// evaluate returns the state of an ongoing game after a move. Checkmate and
// stalemate are tested before the draw rules.
func (g *Game) evaluate() State {
	p := g.pos
	switch {
	case p.IsCheckmate():
		return winFor(p.SideToMove.Other())
	case p.IsStalemate():
		return DrawByStalemate
	case p.HalfMoveClock >= fiftyMoveLimit:
		return DrawBy50Move
	case g.repetitions() >= 3:
		return DrawByRepetition
	case p.IsInsufficientMaterial():
		return DrawByInsufficientMaterial
	}
	return Ongoing
}

// repetitions counts how often the current position has occurred.
func (g *Game) repetitions() int {
	cur := g.pos.Hash
	n := 0
	for _, h := range g.hashes {
		if h == cur {
			n++
		}
	}
	return n
}

// LegalMoves returns the legal moves of the current position in coordinate
// notation, sorted. It is empty unless the game is ongoing.
func (g *Game) LegalMoves() []string {
	if g.State != Ongoing {
		return []string{}
	}
	legal := g.pos.GenerateLegalMoves()
	out := make([]string, 0, legal.Len())
	for _, m := range legal.Slice() {
		out = append(out, m.String())
	}
	slices.Sort(out)
	return out
}

// Moves returns the move history in coordinate notation.
func (g *Game) Moves() []string {
	return slices.Clone(g.moves)
}

// LastMove returns the most recent move, or board.NoMove before the first.
func (g *Game) LastMove() board.Move {
	if len(g.played) == 0 {
		return board.NoMove
	}
	return g.played[len(g.played)-1]
}

// SAN returns the move history in Standard Algebraic Notation.
func (g *Game) SAN() []string {
	return board.MovesToSAN(board.NewPosition(), g.played)
}

// FEN returns the FEN of the current position.
func (g *Game) FEN() string {
	return g.pos.ToFEN()
}

// Position returns a copy of the current position.
func (g *Game) Position() *board.Position {
	return g.pos.Copy()
}

// InCheck reports whether the side to move is in check.
func (g *Game) InCheck() bool {
	return g.pos.InCheck()
}

// fail attaches the game context to err.
func (g *Game) fail(err error, move string) error {
	return &errors.GameError{
		Err:      err,
		GameID:   g.ID,
		Ply:      len(g.moves) + 1,
		MoveText: move,
	}
}
