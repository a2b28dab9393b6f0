package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/ops"
)

type addCategoryRequest struct {
	Name     string    `json:"name"`
	AnchorID string    `json:"anchorId"`
	Where    ops.Where `json:"where"`
}

type moveCategoryRequest struct {
	Direction ops.Direction `json:"direction"`
}

type updateCategoryRequest struct {
	Name      *string `json:"name"`
	Collapsed *bool   `json:"collapsed"`
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateCategoryName(req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	switch req.Where {
	case "", ops.Above, ops.Below:
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "where must be %q or %q", ops.Above, ops.Below))
		return
	}
	s.apply(w, r, http.StatusCreated, s.engine.AddCategory(ops.AddCategoryInput{
		Name:     req.Name,
		AnchorID: req.AnchorID,
		Where:    req.Where,
	}))
}

func (s *Server) handleMoveCategory(w http.ResponseWriter, r *http.Request) {
	var req moveCategoryRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.apply(w, r, http.StatusOK, ops.MoveCategory(ops.MoveCategoryInput{
		ID:        chi.URLParam(r, "sectionID"),
		Direction: req.Direction,
	}))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req updateCategoryRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "sectionID")
	var steps []ops.Transform
	if req.Name != nil {
		if err := errors.ValidateCategoryName(*req.Name); err != nil {
			s.writeError(w, r, err)
			return
		}
		steps = append(steps, ops.RenameCategory(ops.RenameCategoryInput{ID: id, Name: *req.Name}))
	}
	if req.Collapsed != nil {
		steps = append(steps, ops.SetCategoryCollapsed(ops.SetCategoryCollapsedInput{ID: id, Collapsed: *req.Collapsed}))
	}
	s.apply(w, r, http.StatusOK, ops.Chain(steps...))
}

func (s *Server) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, http.StatusOK, ops.RemoveCategory(ops.RemoveCategoryInput{ID: chi.URLParam(r, "sectionID")}))
}

func (s *Server) handleAddDynamicSection(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, http.StatusCreated, s.engine.AddDynamicSection())
}

func (s *Server) handleRemoveDynamicSection(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, http.StatusOK, ops.RemoveDynamicSection(ops.RemoveDynamicSectionInput{ID: chi.URLParam(r, "sectionID")}))
}

func (s *Server) handleAddLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.apply(w, r, http.StatusCreated, s.engine.AddLayout(ops.AddLayoutInput{
		Name:        req.Name,
		ColumnCount: req.ColumnCount,
		Breakpoint:  req.Breakpoint,
	}))
}

func (s *Server) handleRemoveLayout(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, http.StatusOK, ops.RemoveLayout(ops.RemoveLayoutInput{LayoutID: chi.URLParam(r, "layoutID")}))
}
