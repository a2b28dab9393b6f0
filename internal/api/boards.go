package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/buildinfo"
	"github.com/matzehuels/gridboard/pkg/errors"
	boardio "github.com/matzehuels/gridboard/pkg/io"
	"github.com/matzehuels/gridboard/pkg/render"
)

type layoutRequest struct {
	Name        string `json:"name"`
	ColumnCount int    `json:"columnCount"`
	Breakpoint  int    `json:"breakpoint"`
}

func (l layoutRequest) validate() error {
	if err := errors.ValidateLayoutName(l.Name); err != nil {
		return err
	}
	if err := errors.ValidateColumnCount(l.ColumnCount); err != nil {
		return err
	}
	if l.Breakpoint < 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "breakpoint must not be negative")
	}
	return nil
}

type createBoardRequest struct {
	Name    string          `json:"name"`
	Layouts []layoutRequest `json:"layouts"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Current()})
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.dispatcher.Store().List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var req createBoardRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateBoardName(req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}

	layouts := []board.Layout{s.defaultLayout}
	if len(req.Layouts) > 0 {
		layouts = layouts[:0]
		for _, l := range req.Layouts {
			if err := l.validate(); err != nil {
				s.writeError(w, r, err)
				return
			}
			layouts = append(layouts, board.Layout{Name: l.Name, ColumnCount: l.ColumnCount, Breakpoint: l.Breakpoint})
		}
	}

	created, err := s.dispatcher.Create(r.Context(), board.New(s.ids, req.Name, layouts...))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/boards/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

// handleImportBoard restores an exported board. With ?newIds=true every ID
// is regenerated so the copy can live next to the original.
func (s *Server) handleImportBoard(w http.ResponseWriter, r *http.Request) {
	var opts boardio.ImportOptions
	if newIDs, _ := strconv.ParseBool(r.URL.Query().Get("newIds")); newIDs {
		opts.NewIDs = s.ids
	}

	b, err := boardio.ReadJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.dispatcher.Create(r.Context(), b)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/boards/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	b, err := s.dispatcher.Get(r.Context(), chi.URLParam(r, "boardID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	if err := s.dispatcher.Delete(r.Context(), chi.URLParam(r, "boardID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportBoard(w http.ResponseWriter, r *http.Request) {
	b, err := s.dispatcher.Get(r.Context(), chi.URLParam(r, "boardID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", b.ID+".json"))
	if err := boardio.WriteJSON(b, w); err != nil {
		s.logger.Error("export failed", "board", b.ID, "err", err)
	}
}

// handleDiagram returns the board structure as DOT, or as SVG with
// ?format=svg. ?layout selects the layout and ?detailed=true adds
// placements.
func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	b, err := s.dispatcher.Get(r.Context(), chi.URLParam(r, "boardID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	detailed, _ := strconv.ParseBool(q.Get("detailed"))
	dot, err := render.ToDOT(b, render.Options{LayoutID: q.Get("layout"), Detailed: detailed})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch format := q.Get("format"); format {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	case "svg":
		svg, err := render.RenderSVG(r.Context(), dot)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render diagram"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "unsupported diagram format %q", format))
	}
}
