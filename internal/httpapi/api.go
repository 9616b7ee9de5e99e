package httpapi

import (
	"strings"
	"time"

	"github.com/hailam/chessd/internal/board"
	"github.com/hailam/chessd/internal/game"
)

// Request types

type CreateGameRequest struct {
	Color      string `json:"color"` // "white" (default) or "black"
	PlayerName string `json:"playername"`
}

type JoinGameRequest struct {
	PlayerName string `json:"playername"`
}

type MoveRequest struct {
	Move string `json:"move"` // coordinate notation, e.g. "e2e4" or "e7e8q"
}

// Response types

type GameResponse struct {
	ID           string     `json:"id"`
	State        game.State `json:"state"`
	Result       string     `json:"result"` // "1-0", "0-1", "1/2-1/2" or "*"
	FEN          string     `json:"fen"`
	Turn         string     `json:"turn"` // "white" or "black"
	PlayerToMove string     `json:"playerToMove,omitempty"`
	White        string     `json:"playerWhite,omitempty"`
	Black        string     `json:"playerBlack,omitempty"`
	Moves        []string   `json:"moves"`
	SAN          []string   `json:"san"`
	LastMove     string     `json:"lastMove,omitempty"`
	InCheck      bool       `json:"inCheck"`
	Created      time.Time  `json:"created"`
}

type MovesResponse struct {
	Moves []string `json:"moves"`
}

type ErrorResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Code   string `json:"code"`
}

// Error codes
const (
	codeBadRequest   = "bad_request"
	codeMalformed    = "malformed_move"
	codeIllegal      = "illegal_move"
	codeInvalidState = "invalid_state"
	codeInvalidInput = "invalid_input"
	codeNotFound     = "not_found"
	codeTooLarge     = "request_too_large"
	codeInternal     = "internal_error"
)

func newGameResponse(g *game.Game) GameResponse {
	resp := GameResponse{
		ID:      g.ID,
		State:   g.State,
		Result:  g.State.Result(),
		FEN:     g.FEN(),
		Turn:    strings.ToLower(g.SideToMove().String()),
		White:   g.White,
		Black:   g.Black,
		Moves:   nonNil(g.Moves()),
		SAN:     nonNil(g.SAN()),
		InCheck: g.InCheck(),
		Created: g.Created,
	}
	if g.State == game.Ongoing {
		resp.PlayerToMove = g.PlayerToMove()
	}
	if m := g.LastMove(); m != board.NoMove {
		resp.LastMove = m.String()
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
