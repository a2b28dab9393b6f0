package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/dispatch"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/ops"
	"github.com/matzehuels/gridboard/pkg/store"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	quiet := log.New(io.Discard)
	d := dispatch.NewDispatcher(store.NewMemoryStore(),
		dispatch.WithLogger(quiet),
		dispatch.WithRetry(store.WithDelay(time.Millisecond)),
	)
	s := NewServer(d,
		WithLogger(quiet),
		WithIDGenerator(board.NewSequenceGenerator("id")),
		WithDefaultLayout(board.Layout{Name: "default", ColumnCount: 4}),
	)
	return s.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code errors.Code) {
	t.Helper()
	require.Equal(t, status, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, code, decodeAs[errorResponse](t, rec).Code)
}

func createBoard(t *testing.T, h http.Handler) *board.Board {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/boards", map[string]any{"name": "Home"})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	return decodeAs[*board.Board](t, rec)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestHandler(t), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCreateAndListBoards(t *testing.T) {
	h := newTestHandler(t)

	b := createBoard(t, h)
	assert.Equal(t, "id-1", b.ID)
	assert.Equal(t, int64(1), b.Version)
	require.Len(t, b.Layouts, 1)
	assert.Equal(t, 4, b.Layouts[0].ColumnCount)

	rec := do(t, h, http.MethodPost, "/boards", map[string]any{
		"name":    "Office",
		"layouts": []map[string]any{{"name": "lg", "columnCount": 6}, {"name": "sm", "columnCount": 2, "breakpoint": 600}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	office := decodeAs[*board.Board](t, rec)
	assert.Equal(t, "/boards/"+office.ID, rec.Header().Get("Location"))
	assert.Len(t, office.Layouts, 2)

	rec = do(t, h, http.MethodGet, "/boards", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeAs[[]store.Summary](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "Home", list[0].Name)
	assert.Equal(t, "Office", list[1].Name)
}

func TestCreateBoardValidation(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		body   any
		status int
		code   errors.Code
	}{
		{"blank name", map[string]any{"name": " "}, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"malformed json", `{"name":`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"unknown field", map[string]any{"name": "x", "color": "red"}, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"zero columns", map[string]any{"name": "x", "layouts": []map[string]any{{"name": "lg"}}}, http.StatusBadRequest, errors.ErrCodeInvalidLayout},
		{"unnamed layout", map[string]any{"name": "x", "layouts": []map[string]any{{"columnCount": 3}}}, http.StatusBadRequest, errors.ErrCodeInvalidLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireError(t, do(t, h, http.MethodPost, "/boards", tt.body), tt.status, tt.code)
		})
	}
}

func TestGetAndDeleteBoard(t *testing.T) {
	h := newTestHandler(t)
	b := createBoard(t, h)

	rec := do(t, h, http.MethodGet, "/boards/"+b.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, b.ID, decodeAs[*board.Board](t, rec).ID)

	rec = do(t, h, http.MethodDelete, "/boards/"+b.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	requireError(t, do(t, h, http.MethodGet, "/boards/"+b.ID, nil), http.StatusNotFound, errors.ErrCodeBoardNotFound)
	requireError(t, do(t, h, http.MethodDelete, "/boards/"+b.ID, nil), http.StatusNotFound, errors.ErrCodeBoardNotFound)
}

func TestItemLifecycle(t *testing.T) {
	h := newTestHandler(t)
	b := createBoard(t, h)
	base := "/boards/" + b.ID + "/items"

	rec := do(t, h, http.MethodPost, base, map[string]any{"kind": "clock", "options": map[string]any{"format": "24h"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeAs[applyResponse](t, rec)
	assert.True(t, resp.Changed)
	assert.Equal(t, int64(2), resp.Board.Version)
	require.Len(t, resp.Board.Items, 1)
	item := resp.Board.Items[0]
	assert.Equal(t, "clock", item.Kind)
	assert.Equal(t, "24h", item.Options["format"])

	rec = do(t, h, http.MethodPost, base+"/"+item.ID+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, decodeAs[applyResponse](t, rec).Board.Items, 2)

	layoutID := b.Layouts[0].ID
	rec = do(t, h, http.MethodPut, base+"/"+item.ID+"/placement", map[string]any{
		"layoutId": layoutID, "sectionId": b.Sections[0].ID,
		"xOffset": 2, "yOffset": 3, "width": 2, "height": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	moved := decodeAs[applyResponse](t, rec).Board.Items[0].Placements[layoutID]
	assert.Equal(t, board.Placement{SectionID: b.Sections[0].ID, XOffset: 2, YOffset: 3, Width: 2, Height: 1}, moved)

	rec = do(t, h, http.MethodPatch, base+"/"+item.ID, map[string]any{
		"options":         map[string]any{"format": "12h"},
		"advancedOptions": map[string]any{"title": "Clock", "borderColor": "#abc"},
		"integrationIds":  []string{"int-1"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeAs[applyResponse](t, rec).Board.Items[0]
	assert.Equal(t, "12h", updated.Options["format"])
	require.NotNil(t, updated.AdvancedOptions.Title)
	assert.Equal(t, "Clock", *updated.AdvancedOptions.Title)
	assert.Equal(t, []string{}, updated.AdvancedOptions.CustomCSSClasses)
	assert.Equal(t, []string{"int-1"}, updated.IntegrationIDs)

	rec = do(t, h, http.MethodDelete, base+"/"+item.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeAs[applyResponse](t, rec)
	assert.True(t, resp.Changed)
	assert.Len(t, resp.Board.Items, 1)

	rec = do(t, h, http.MethodDelete, base+"/"+item.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeAs[applyResponse](t, rec).Changed, "removing a missing item is a no-op")
}

func TestItemValidation(t *testing.T) {
	h := newTestHandler(t)
	b := createBoard(t, h)
	base := "/boards/" + b.ID + "/items"

	requireError(t, do(t, h, http.MethodPost, base, map[string]any{"kind": "Not A Kind"}), http.StatusBadRequest, errors.ErrCodeInvalidInput)
	requireError(t, do(t, h, http.MethodPost, "/boards/missing/items", map[string]any{"kind": "clock"}), http.StatusNotFound, errors.ErrCodeBoardNotFound)

	rec := do(t, h, http.MethodPost, base, map[string]any{"kind": "clock"})
	require.Equal(t, http.StatusCreated, rec.Code)
	itemID := decodeAs[applyResponse](t, rec).Board.Items[0].ID

	requireError(t, do(t, h, http.MethodPatch, base+"/"+itemID, map[string]any{
		"advancedOptions": map[string]any{"borderColor": "red"},
	}), http.StatusBadRequest, errors.ErrCodeInvalidInput)
	requireError(t, do(t, h, http.MethodPut, base+"/"+itemID+"/placement", map[string]any{
		"layoutId": b.Layouts[0].ID, "sectionId": b.Sections[0].ID, "width": 0, "height": 1,
	}), http.StatusBadRequest, errors.ErrCodeInvalidInput)

	rec = do(t, h, http.MethodPost, base+"/missing/duplicate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeAs[applyResponse](t, rec).Changed)
}

func TestCategoryLifecycle(t *testing.T) {
	h := newTestHandler(t)
	b := createBoard(t, h)
	base := "/boards/" + b.ID + "/categories"

	rec := do(t, h, http.MethodPost, base, map[string]any{"name": "Media"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	after := decodeAs[applyResponse](t, rec).Board
	require.Len(t, after.Sections, 3)

	var catID string
	for _, s := range after.Sections {
		if s.IsCategory() {
			catID = s.ID
		}
	}
	require.NotEmpty(t, catID)

	rec = do(t, h, http.MethodPatch, base+"/"+catID, map[string]any{"name": "Movies", "collapsed": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	board := decodeAs[applyResponse](t, rec).Board
	i, ok := board.FindSection(catID)
	require.True(t, ok)
	assert.Equal(t, "Movies", board.Sections[i].Name)
	assert.True(t, board.Sections[i].Collapsed)

	rec = do(t, h, http.MethodPost, base+"/"+catID+"/move", map[string]any{"direction": "up"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeAs[applyResponse](t, rec).Changed, "only category cannot move")

	requireError(t, do(t, h, http.MethodPost, base+"/"+catID+"/move", map[string]any{"direction": "sideways"}),
		http.StatusBadRequest, errors.ErrCodeInvalidInput)
	requireError(t, do(t, h, http.MethodPost, base, map[string]any{"name": "X", "where": "inside"}),
		http.StatusBadRequest, errors.ErrCodeInvalidInput)
	requireError(t, do(t, h, http.MethodPost, base, map[string]any{"name": ""}),
		http.StatusBadRequest, errors.ErrCodeInvalidInput)

	rec = do(t, h, http.MethodDelete, base+"/"+catID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeAs[applyResponse](t, rec).Board.Sections, 1)
}

func TestDynamicSections(t *testing.T) {
	h := newTestHandler(t)
	b := createBoard(t, h)

	rec := do(t, h, http.MethodPost, "/boards/"+b.ID+"/sections/dynamic", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sections := decodeAs[applyResponse](t, rec).Board.Sections
	require.Len(t, sections, 2)
	dynamic := sections[1]
	require.True(t, dynamic.IsDynamic())

	rec = do(t, h, http.MethodDelete, "/boards/"+b.ID+"/sections/dynamic/"+dynamic.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeAs[applyResponse](t, rec).Board.Sections, 1)
}

func TestLayouts(t *testing.T) {
	h := newTestHandler(t)
	b := createBoard(t, h)
	do(t, h, http.MethodPost, "/boards/"+b.ID+"/items", map[string]any{"kind": "clock"})

	rec := do(t, h, http.MethodPost, "/boards/"+b.ID+"/layouts", map[string]any{"name": "mobile", "columnCount": 2, "breakpoint": 600})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	after := decodeAs[applyResponse](t, rec).Board
	require.Len(t, after.Layouts, 2)
	mobile := after.Layouts[1].ID
	_, placed := after.Items[0].Placements[mobile]
	assert.True(t, placed, "existing items get a placement in the new layout")

	requireError(t, do(t, h, http.MethodPost, "/boards/"+b.ID+"/layouts", map[string]any{"name": "huge", "columnCount": 1000}),
		http.StatusBadRequest, errors.ErrCodeInvalidLayout)

	rec = do(t, h, http.MethodDelete, "/boards/"+b.ID+"/layouts/"+mobile, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeAs[applyResponse](t, rec).Board.Layouts, 1)

	requireError(t, do(t, h, http.MethodDelete, "/boards/"+b.ID+"/layouts/"+b.Layouts[0].ID, nil),
		http.StatusBadRequest, errors.ErrCodeInvalidInput)
}

func TestExportImport(t *testing.T) {
	h := newTestHandler(t)
	b := createBoard(t, h)

	rec := do(t, h, http.MethodGet, "/boards/"+b.ID+"/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), b.ID+".json")
	exported := rec.Body.String()
	assert.Contains(t, exported, `"version": 1`)

	requireError(t, do(t, h, http.MethodPost, "/boards/import", exported), http.StatusBadRequest, errors.ErrCodeInvalidInput)

	rec = do(t, h, http.MethodPost, "/boards/import?newIds=true", exported)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	copied := decodeAs[*board.Board](t, rec)
	assert.NotEqual(t, b.ID, copied.ID)
	assert.Equal(t, b.Name, copied.Name)

	requireError(t, do(t, h, http.MethodPost, "/boards/import", `{"version": 99, "board": {}}`), http.StatusBadRequest, errors.ErrCodeInvalidFormat)
}

func TestDiagram(t *testing.T) {
	h := newTestHandler(t)
	b := createBoard(t, h)

	rec := do(t, h, http.MethodGet, "/boards/"+b.ID+"/diagram", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/vnd.graphviz", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "digraph G")

	requireError(t, do(t, h, http.MethodGet, "/boards/"+b.ID+"/diagram?layout=nope", nil), http.StatusBadRequest, errors.ErrCodeInvalidLayout)
	requireError(t, do(t, h, http.MethodGet, "/boards/"+b.ID+"/diagram?format=gif", nil), http.StatusNotImplemented, errors.ErrCodeUnsupported)
}

func TestEvents(t *testing.T) {
	h := newTestHandler(t)
	b := createBoard(t, h)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/boards/"+b.ID+"/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	rec := do(t, h, http.MethodPost, "/boards/"+b.ID+"/items", map[string]any{"kind": "clock"})
	require.Equal(t, http.StatusCreated, rec.Code)

	reader := bufio.NewReader(resp.Body)
	var data string
	for data == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		}
	}
	var ev dispatch.Event
	require.NoError(t, json.Unmarshal([]byte(data), &ev))
	assert.Equal(t, dispatch.Event{BoardID: b.ID, Version: 2, Changed: true}, ev)
}

func TestEventsMissingBoard(t *testing.T) {
	requireError(t, do(t, newTestHandler(t), http.MethodGet, "/boards/missing/events", nil), http.StatusNotFound, errors.ErrCodeBoardNotFound)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.Wrap(errors.ErrCodeBoardFull, ops.ErrBoardFull, "full"), http.StatusConflict},
		{store.ErrNotFound, http.StatusNotFound},
		{errors.New(errors.ErrCodeSectionNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeOverlap, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidLayout, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeStorage, "x"), http.StatusInternalServerError},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestInternalErrorsHideDetails(t *testing.T) {
	s := NewServer(dispatch.NewDispatcher(store.NewMemoryStore()), WithLogger(log.New(io.Discard)))
	rec := httptest.NewRecorder()
	s.writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("dial tcp: secret-host"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, errorResponse{Code: errors.ErrCodeInternal, Message: "internal error"}, decodeAs[errorResponse](t, rec))
}
