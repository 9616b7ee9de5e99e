package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chessd/internal/events"
	"github.com/hailam/chessd/internal/game"
	"github.com/hailam/chessd/internal/service"
	"github.com/hailam/chessd/internal/storage"
)

type testAPI struct {
	srv *httptest.Server
	hub *events.Hub
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	repo, err := storage.Open(storage.Options{InMemory: true, Logger: zerolog.Nop()})
	require.NoError(t, err)
	hub := events.NewHub(8, zerolog.Nop())
	svc := service.New(repo, hub, zerolog.Nop())

	srv := httptest.NewServer(NewRouter(zerolog.Nop(), svc, hub, 0))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
		repo.Close()
	})
	return &testAPI{srv: srv, hub: hub}
}

func (a *testAPI) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// startGame creates a game for alice as White and seats bob.
func (a *testAPI) startGame(t *testing.T) string {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/games", `{"color":"white","playername":"alice"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	g := decode[GameResponse](t, resp)

	resp = a.do(t, http.MethodPost, "/api/games/"+g.ID, `{"playername":"bob"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return g.ID
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	resp := a.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ok", string(body))
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
}

func TestCreateGame(t *testing.T) {
	a := newTestAPI(t)

	resp := a.do(t, http.MethodPost, "/api/games", `{"playername":"alice"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/api/games/1", resp.Header.Get("Location"))

	g := decode[GameResponse](t, resp)
	assert.Equal(t, "1", g.ID)
	assert.Equal(t, game.WaitingForPlayer, g.State)
	assert.Equal(t, "alice", g.White)
	assert.Equal(t, "white", g.Turn)
	assert.Equal(t, "*", g.Result)
	assert.Empty(t, g.Moves)
	assert.NotNil(t, g.Moves)
}

func TestCreateGameErrors(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"bad json", `{"playername":`, http.StatusBadRequest, codeBadRequest},
		{"missing player", `{"color":"white"}`, http.StatusBadRequest, codeBadRequest},
		{"bad color", `{"color":"green","playername":"alice"}`, http.StatusBadRequest, codeInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := a.do(t, http.MethodPost, "/api/games", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			e := decode[ErrorResponse](t, resp)
			assert.Equal(t, tc.code, e.Code)
			assert.Equal(t, tc.status, e.Status)
		})
	}
}

func TestGameNotFound(t *testing.T) {
	a := newTestAPI(t)
	for _, path := range []string{
		"/api/games/42",
		"/api/games/42/moves",
		"/api/games/42/legal-moves",
		"/api/games/42/events",
		"/api/games/42/pgn",
		"/api/games/42/board.png",
	} {
		resp := a.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestJoinGame(t *testing.T) {
	a := newTestAPI(t)
	id := a.startGame(t)

	resp := a.do(t, http.MethodGet, "/api/games/"+id, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	g := decode[GameResponse](t, resp)
	assert.Equal(t, game.Ongoing, g.State)
	assert.Equal(t, "bob", g.Black)
	assert.Equal(t, "alice", g.PlayerToMove)

	resp = a.do(t, http.MethodPost, "/api/games/"+id, `{"playername":"carol"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, codeInvalidState, decode[ErrorResponse](t, resp).Code)
}

func TestPlayMoves(t *testing.T) {
	a := newTestAPI(t)
	id := a.startGame(t)

	resp := a.do(t, http.MethodPut, "/api/games/"+id+"/moves", `{"move":"e2e4"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	g := decode[GameResponse](t, resp)
	assert.Equal(t, []string{"e2e4"}, g.Moves)
	assert.Equal(t, []string{"e4"}, g.SAN)
	assert.Equal(t, "e2e4", g.LastMove)
	assert.Equal(t, "black", g.Turn)
	assert.Equal(t, "bob", g.PlayerToMove)

	tests := []struct {
		body string
		code string
	}{
		{`{"move":"e2e4"}`, codeIllegal},
		{`{"move":"e7"}`, codeMalformed},
		{`{"move":""}`, codeBadRequest},
	}
	for _, tc := range tests {
		resp := a.do(t, http.MethodPut, "/api/games/"+id+"/moves", tc.body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, tc.body)
		assert.Equal(t, tc.code, decode[ErrorResponse](t, resp).Code, tc.body)
	}

	resp = a.do(t, http.MethodGet, "/api/games/"+id+"/moves", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"e2e4"}, decode[[]string](t, resp))

	resp = a.do(t, http.MethodGet, "/api/games/"+id+"/legal-moves", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	legal := decode[MovesResponse](t, resp)
	assert.Len(t, legal.Moves, 20)
	assert.Contains(t, legal.Moves, "g8f6")
}

func TestCheckmateOverHTTP(t *testing.T) {
	a := newTestAPI(t)
	id := a.startGame(t)

	var g GameResponse
	for _, m := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		resp := a.do(t, http.MethodPut, "/api/games/"+id+"/moves", `{"move":"`+m+`"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode, m)
		g = decode[GameResponse](t, resp)
	}
	assert.Equal(t, game.WinBlack, g.State)
	assert.Equal(t, "0-1", g.Result)
	assert.True(t, g.InCheck)
	assert.Empty(t, g.PlayerToMove)

	resp := a.do(t, http.MethodGet, "/api/games/"+id+"/legal-moves", "")
	assert.Empty(t, decode[MovesResponse](t, resp).Moves)

	resp = a.do(t, http.MethodGet, "/api/games/"+id+"/pgn", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-chess-pgn", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `[Result "0-1"]`)
	assert.Contains(t, string(body), "1. f3 e5 2. g4 Qh4# 0-1")
}

func TestListGames(t *testing.T) {
	a := newTestAPI(t)

	resp := a.do(t, http.MethodGet, "/api/games", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]game.Record](t, resp))

	a.startGame(t)
	a.startGame(t)

	resp = a.do(t, http.MethodGet, "/api/games", "")
	records := decode[[]game.Record](t, resp)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, game.Ongoing, records[1].State)
}

func TestBoardImage(t *testing.T) {
	a := newTestAPI(t)
	id := a.startGame(t)

	resp := a.do(t, http.MethodGet, "/api/games/"+id+"/board.png?size=96&flip=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 96, img.Bounds().Dx())

	for _, q := range []string{"size=abc", "size=1", "flip=maybe"} {
		resp := a.do(t, http.MethodGet, "/api/games/"+id+"/board.png?"+q, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestEventStream(t *testing.T) {
	a := newTestAPI(t)
	id := a.startGame(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.srv.URL+"/api/games/"+id+"/events", nil)
	require.NoError(t, err)
	resp, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	rd := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		t.Helper()
		var name, data string
		for {
			line, err := rd.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case line == "":
				return name, data
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			}
		}
	}

	name, data := readEvent()
	assert.Equal(t, "connection", name)
	assert.Equal(t, "ok", data)

	// The subscription is registered before the first event is written.
	require.Equal(t, 1, a.hub.Subscribers(id))

	mv := a.do(t, http.MethodPut, "/api/games/"+id+"/moves", `{"move":"d2d4"}`)
	require.Equal(t, http.StatusOK, mv.StatusCode)

	name, data = readEvent()
	assert.Equal(t, events.EventMove, name)
	assert.Equal(t, "d2d4", data)
}

func TestCORSPreflight(t *testing.T) {
	a := newTestAPI(t)
	resp := a.do(t, http.MethodOptions, "/api/games", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestBodyTooLarge(t *testing.T) {
	a := newTestAPI(t)
	body := `{"playername":"` + strings.Repeat("x", int(maxJSONBodyBytes)) + `"}`
	resp := a.do(t, http.MethodPost, "/api/games", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestServerListenClose(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}), zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	url := "http://" + ln.Addr().String() + "/"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return bytes.Equal(b, []byte("ok"))
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Close(ctx))
	assert.NoError(t, <-done)
}

// A shutdown signal can arrive before the serving goroutine starts; Serve
// must then return instead of listening forever.
func TestServerCloseBeforeServe(t *testing.T) {
	s := NewServer(http.NotFoundHandler(), zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Close(ctx))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Close")
	}

	_, err = net.DialTimeout("tcp", ln.Addr().String(), 200*time.Millisecond)
	assert.Error(t, err, "listener still accepting after Close")
}

func TestServerListenBadAddr(t *testing.T) {
	s := NewServer(http.NotFoundHandler(), zerolog.Nop())
	assert.Error(t, s.Listen("127.0.0.1:-1"))
}
