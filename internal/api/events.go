package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gridboard/pkg/errors"
)

// handleEvents streams board events as server-sent events until the client
// disconnects or the board is deleted.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	if _, err := s.dispatcher.Get(r.Context(), boardID); err != nil {
		s.writeError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeInternal, "streaming unsupported"))
		return
	}

	// Streams outlive the server's write timeout. Not every writer supports
	// deadlines; those streams end at the timeout and the client reconnects.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	events, cancel := s.dispatcher.Subscribe(boardID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				return
			}
			fmt.Fprintf(w, "event: board\nid: %d\ndata: %s\n\n", ev.Version, data)
			flusher.Flush()
		}
	}
}
