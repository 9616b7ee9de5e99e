package game

import (
	"fmt"

	"github.com/hailam/chessd/internal/board"
)

// State is the lifecycle state of a game.
type State uint8

const (
	WaitingForPlayer State = iota
	Ongoing
	DrawBy50Move
	DrawByRepetition
	DrawByInsufficientMaterial
	DrawByStalemate
	WinWhite
	WinBlack
)

var stateNames = [...]string{
	WaitingForPlayer:           "WAITING_FOR_PLAYER_TO_JOIN",
	Ongoing:                    "ONGOING",
	DrawBy50Move:               "DRAW_BY_50_MOVE",
	DrawByRepetition:           "DRAW_BY_REPETITION",
	DrawByInsufficientMaterial: "DRAW_BY_INSUFFICIENT_MATERIAL",
	DrawByStalemate:            "DRAW_BY_STALEMATE",
	WinWhite:                   "WIN_WHITE",
	WinBlack:                   "WIN_BLACK",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// MarshalText encodes the state by name, so JSON records stay readable.
func (s State) MarshalText() ([]byte, error) {
	if int(s) >= len(stateNames) {
		return nil, fmt.Errorf("unknown game state %d", uint8(s))
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText decodes a state name written by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown game state %q", text)
}

// IsTerminal reports whether the game is over.
func (s State) IsTerminal() bool {
	return s >= DrawBy50Move
}

// Result returns the PGN result token for the state.
func (s State) Result() string {
	switch s {
	case WinWhite:
		return "1-0"
	case WinBlack:
		return "0-1"
	case DrawBy50Move, DrawByRepetition, DrawByInsufficientMaterial, DrawByStalemate:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// winFor returns the win state for color c.
func winFor(c board.Color) State {
	if c == board.White {
		return WinWhite
	}
	return WinBlack
}
