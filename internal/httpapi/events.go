package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hailam/chessd/internal/events"
)

// keepAliveInterval is how often an idle event stream receives a comment
// line so proxies do not drop it.
const keepAliveInterval = 25 * time.Second

// events streams a game's events as server-sent events. The first event is
// "connection" with data "ok"; after that every accepted move ("move") and
// join ("join") is forwarded until the client goes away.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ok, err := h.svc.Exists(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("game %s not found", id))
		return
	}

	sub := h.hub.Subscribe(id)
	defer sub.Close()

	rc := http.NewResponseController(w)
	// Streams outlive the server's write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, events.Event{Name: "connection", Data: "ok"}); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		h.log.Warn().Err(err).Msg("event stream cannot flush")
		return
	}

	h.log.Debug().Str("game", id).Int("subscribers", h.hub.Subscribers(id)).Msg("event stream opened")
	defer h.log.Debug().Str("game", id).Msg("event stream closed")

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			if err := writeEvent(w, ev); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w io.Writer, ev events.Event) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data)
	return err
}
