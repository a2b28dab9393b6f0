package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/ops"
)

type createItemRequest struct {
	Kind    string         `json:"kind"`
	Options map[string]any `json:"options"`
}

type moveItemRequest struct {
	LayoutID  string `json:"layoutId"`
	SectionID string `json:"sectionId"`
	XOffset   int    `json:"xOffset"`
	YOffset   int    `json:"yOffset"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// updateItemRequest replaces the fields that are present.
type updateItemRequest struct {
	Options         map[string]any         `json:"options"`
	AdvancedOptions *board.AdvancedOptions `json:"advancedOptions"`
	IntegrationIDs  *[]string              `json:"integrationIds"`
}

// apply runs t on the board named in the URL and writes the outcome.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, status int, t ops.Transform) {
	b, changed, err := s.dispatcher.Apply(r.Context(), chi.URLParam(r, "boardID"), t)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !changed {
		status = http.StatusOK
	}
	writeJSON(w, status, applyResponse{Changed: changed, Board: b})
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateWidgetKind(req.Kind); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.apply(w, r, http.StatusCreated, s.engine.CreateItem(ops.CreateItemInput{Kind: req.Kind, Options: req.Options}))
}

func (s *Server) handleDuplicateItem(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, http.StatusCreated, s.engine.DuplicateItem(ops.DuplicateItemInput{ItemID: chi.URLParam(r, "itemID")}))
}

func (s *Server) handleMoveItem(w http.ResponseWriter, r *http.Request) {
	var req moveItemRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Width < 1 || req.Height < 1 || req.XOffset < 0 || req.YOffset < 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "placement needs non-negative offsets and a size of at least 1x1"))
		return
	}
	s.apply(w, r, http.StatusOK, s.engine.MoveItemToSection(ops.MoveItemInput{
		ItemID:    chi.URLParam(r, "itemID"),
		LayoutID:  req.LayoutID,
		SectionID: req.SectionID,
		XOffset:   req.XOffset,
		YOffset:   req.YOffset,
		Width:     req.Width,
		Height:    req.Height,
	}))
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "itemID")
	var steps []ops.Transform
	if req.Options != nil {
		steps = append(steps, ops.UpdateItemOptions(ops.UpdateItemOptionsInput{ItemID: id, Options: req.Options}))
	}
	if req.AdvancedOptions != nil {
		adv := *req.AdvancedOptions
		if err := errors.ValidateBorderColor(adv.BorderColor); err != nil {
			s.writeError(w, r, err)
			return
		}
		if adv.CustomCSSClasses == nil {
			adv.CustomCSSClasses = []string{}
		}
		steps = append(steps, ops.UpdateItemAdvancedOptions(ops.UpdateItemAdvancedOptionsInput{ItemID: id, AdvancedOptions: adv}))
	}
	if req.IntegrationIDs != nil {
		steps = append(steps, ops.UpdateItemIntegrations(ops.UpdateItemIntegrationsInput{ItemID: id, IntegrationIDs: *req.IntegrationIDs}))
	}
	s.apply(w, r, http.StatusOK, ops.Chain(steps...))
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, http.StatusOK, ops.RemoveItem(ops.RemoveItemInput{ItemID: chi.URLParam(r, "itemID")}))
}
