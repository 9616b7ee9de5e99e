// Package httpapi exposes the game service over HTTP: a JSON API, a
// server-sent event stream per game, PGN export and board images.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hailam/chessd/internal/errors"
	"github.com/hailam/chessd/internal/events"
	"github.com/hailam/chessd/internal/render"
	"github.com/hailam/chessd/internal/service"
)

const (
	maxJSONBodyBytes int64 = 1 << 20
	apiCSP                 = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
)

// Handler serves the game API.
type Handler struct {
	svc        *service.Service
	hub        *events.Hub
	renderSize int
	log        zerolog.Logger
}

// NewRouter creates the HTTP router. renderSize is the board image size used
// when a request does not ask for one.
func NewRouter(log zerolog.Logger, svc *service.Service, hub *events.Hub, renderSize int) http.Handler {
	if renderSize == 0 {
		renderSize = render.DefaultSize
	}
	h := &Handler{
		svc:        svc,
		hub:        hub,
		renderSize: renderSize,
		log:        log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.health)

	mux.HandleFunc("GET /api/games", withJSON(h.listGames))
	mux.HandleFunc("POST /api/games", withJSON(h.createGame))
	mux.HandleFunc("GET /api/games/{id}", withJSON(h.getGame))
	mux.HandleFunc("POST /api/games/{id}", withJSON(h.joinGame))
	mux.HandleFunc("GET /api/games/{id}/moves", withJSON(h.getMoves))
	mux.HandleFunc("PUT /api/games/{id}/moves", withJSON(h.playMove))
	mux.HandleFunc("GET /api/games/{id}/legal-moves", withJSON(h.legalMoves))
	mux.HandleFunc("GET /api/games/{id}/events", h.events)
	mux.HandleFunc("GET /api/games/{id}/pgn", h.pgn)
	mux.HandleFunc("GET /api/games/{id}/board.png", h.boardImage)

	return CORS(RequestID(AccessLog(log, mux)))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) listGames(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.Games(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if records == nil {
		writeJSON(w, []any{})
		return
	}
	writeJSON(w, records)
}

func (h *Handler) createGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.PlayerName) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "key 'playername' is required")
		return
	}

	g, err := h.svc.CreateGame(r.Context(), req.Color, req.PlayerName)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/games/"+g.ID)
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, newGameResponse(g))
}

func (h *Handler) getGame(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Game(r.Context(), r.PathValue("id"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, newGameResponse(g))
}

func (h *Handler) joinGame(w http.ResponseWriter, r *http.Request) {
	var req JoinGameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.PlayerName) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "key 'playername' is required")
		return
	}

	g, err := h.svc.JoinGame(r.Context(), r.PathValue("id"), req.PlayerName)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, newGameResponse(g))
}

func (h *Handler) playMove(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Move == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "key 'move' is required")
		return
	}

	g, _, err := h.svc.PlayMove(r.Context(), r.PathValue("id"), req.Move)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, newGameResponse(g))
}

func (h *Handler) getMoves(w http.ResponseWriter, r *http.Request) {
	moves, err := h.svc.MoveHistory(r.Context(), r.PathValue("id"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, nonNil(moves))
}

func (h *Handler) legalMoves(w http.ResponseWriter, r *http.Request) {
	moves, err := h.svc.LegalMoves(r.Context(), r.PathValue("id"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	writeJSON(w, MovesResponse{Moves: nonNil(moves)})
}

func (h *Handler) pgn(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Game(r.Context(), r.PathValue("id"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-chess-pgn")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "game-"+g.ID+".pgn"))
	g.WritePGN(w)
}

// boardImage renders the current position. Query parameters: size (pixels)
// and flip (draw from Black's side).
func (h *Handler) boardImage(w http.ResponseWriter, r *http.Request) {
	opts := render.Options{Size: h.renderSize}
	q := r.URL.Query()
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid size")
			return
		}
		opts.Size = n
	}
	if v := q.Get("flip"); v != "" {
		flip, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidInput, "invalid flip")
			return
		}
		opts.Flip = flip
	}

	g, err := h.svc.Game(r.Context(), r.PathValue("id"))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	opts.LastMove = g.LastMove()

	data, err := render.PNG(g.Position(), opts)
	if errors.Is(err, errors.ErrInvalidConfig) {
		writeError(w, http.StatusBadRequest, codeInvalidInput, err.Error())
		return
	}
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// serviceError maps a service error to a response. Errors caused by the
// request are echoed to the client; anything else is logged and hidden.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errors.ErrGameNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("game %s not found", r.PathValue("id")))
	case errors.Is(err, errors.ErrMalformedMove):
		writeError(w, http.StatusBadRequest, codeMalformed, err.Error())
	case errors.Is(err, errors.ErrIllegalMove):
		writeError(w, http.StatusBadRequest, codeIllegal, err.Error())
	case errors.Is(err, errors.ErrInvalidGameState):
		writeError(w, http.StatusBadRequest, codeInvalidState, err.Error())
	case errors.IsUserError(err):
		writeError(w, http.StatusBadRequest, codeInvalidInput, err.Error())
	case errors.Is(err, context.Canceled):
		h.log.Debug().Err(err).Str("path", r.URL.Path).Msg("request cancelled")
		writeError(w, http.StatusServiceUnavailable, codeInternal, "request cancelled")
	default:
		h.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

// ---- JSON helpers ----

func withJSON(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", apiCSP)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

// decodeJSON reads the request body into v. On failure it writes the error
// response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge, "request too large")
			return false
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "no valid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	writeJSON(w, ErrorResponse{Status: status, Error: msg, Code: code})
}
