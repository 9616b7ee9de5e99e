package game

import (
	"time"

	"golang.org/x/exp/slices"

	"github.com/hailam/chessd/internal/board"
	"github.com/hailam/chessd/internal/errors"
)

// Record is the persisted form of a game.
type Record struct {
	ID      string    `json:"id"`
	FEN     string    `json:"fen"`
	State   State     `json:"state"`
	White   string    `json:"playerWhite,omitempty"`
	Black   string    `json:"playerBlack,omitempty"`
	Moves   []string  `json:"moves"`
	Created time.Time `json:"created"`
}

// Record returns the persisted form of the game.
func (g *Game) Record() Record {
	return Record{
		ID:      g.ID,
		FEN:     g.FEN(),
		State:   g.State,
		White:   g.White,
		Black:   g.Black,
		Moves:   slices.Clone(g.moves),
		Created: g.Created,
	}
}

// Restore rebuilds a game from its record by replaying the move history
// from the starting position. A history that does not replay, that ends in
// a position other than the stored FEN, or whose outcome differs from the
// stored state is an integrity fault.
func Restore(r Record) (*Game, error) {
	if r.State == WaitingForPlayer && len(r.Moves) > 0 {
		return nil, errors.Integrity(r.ID, "%d moves recorded before the game started", len(r.Moves))
	}

	g, err := replay(r.ID, r.Moves)
	if err != nil {
		return nil, err
	}
	g.State = r.State
	g.White = r.White
	g.Black = r.Black
	g.Created = r.Created

	if fen := g.FEN(); fen != r.FEN {
		return nil, errors.Integrity(r.ID, "replayed position %q does not match stored %q", fen, r.FEN)
	}

	if r.State != WaitingForPlayer {
		if want := g.evaluate(); want != r.State {
			return nil, errors.Integrity(r.ID, "stored state %s but the position is %s", r.State, want)
		}
	}

	return g, nil
}

// Replay plays a coordinate-notation move list from the starting position
// and checks that it ends in expectedFEN.
func Replay(moves []string, expectedFEN string) (*board.Position, error) {
	g, err := replay("", moves)
	if err != nil {
		return nil, err
	}
	if fen := g.FEN(); fen != expectedFEN {
		return nil, errors.Integrity("", "replayed position %q does not match expected %q", fen, expectedFEN)
	}
	return g.Position(), nil
}

// replay applies moves to a fresh game. Every move must be legal and no move
// may follow a position that ended the game.
func replay(id string, moves []string) (*Game, error) {
	g := &Game{ID: id, pos: board.NewPosition()}
	g.hashes = []uint64{g.pos.Hash}

	for i, s := range moves {
		if i > 0 {
			if st := g.evaluate(); st.IsTerminal() {
				return nil, errors.Integrity(id, "move %d %q played after the game ended (%s)", i+1, s, st)
			}
		}
		m, err := board.ParseMove(s, g.pos)
		if err != nil {
			return nil, errors.Integrity(id, "move %d %q: %v", i+1, s, err)
		}
		if !g.pos.IsLegal(m) {
			return nil, errors.Integrity(id, "move %d %q is illegal in %s", i+1, s, g.pos.ToFEN())
		}
		g.apply(m)
	}
	return g, nil
}
