package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
)

// ImportOptions controls how a backup is restored.
type ImportOptions struct {
	// NewIDs, when set, replaces every identifier in the backup with one from
	// this generator.
	NewIDs board.IDGenerator
}

// ReadJSON decodes a board backup from r.
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed, the
// envelope version is unknown or the board is missing. A decoded board that
// breaks a structural invariant yields the error from [board.Validate].
// ReadJSON does not close r.
func ReadJSON(r io.Reader, opts ImportOptions) (*board.Board, error) {
	var data envelope
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode backup")
	}
	if data.Version != FormatVersion {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported backup version %d", data.Version)
	}
	if data.Board == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "backup has no board")
	}
	if err := board.Validate(data.Board); err != nil {
		return nil, err
	}

	b := data.Board
	if opts.NewIDs != nil {
		b = remapIDs(b, opts.NewIDs)
	}
	return b, nil
}

// ImportJSON reads a board backup from the file at path.
func ImportJSON(path string, opts ImportOptions) (*board.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f, opts)
}

// remapIDs returns a copy of b in which every ID comes from gen. Layout keys
// and section references follow the new IDs.
func remapIDs(b *board.Board, gen board.IDGenerator) *board.Board {
	out := b.Clone()
	out.ID = gen.NewID()

	layouts := make(map[string]string, len(out.Layouts))
	for i := range out.Layouts {
		id := gen.NewID()
		layouts[out.Layouts[i].ID] = id
		out.Layouts[i].ID = id
	}
	sections := make(map[string]string, len(out.Sections))
	for i := range out.Sections {
		id := gen.NewID()
		sections[out.Sections[i].ID] = id
		out.Sections[i].ID = id
	}

	remap := func(placements map[string]board.Placement) map[string]board.Placement {
		if placements == nil {
			return nil
		}
		res := make(map[string]board.Placement, len(placements))
		for layoutID, p := range placements {
			p.SectionID = sections[p.SectionID]
			res[layouts[layoutID]] = p
		}
		return res
	}
	for i := range out.Sections {
		out.Sections[i].Placements = remap(out.Sections[i].Placements)
	}
	for i := range out.Items {
		out.Items[i].ID = gen.NewID()
		out.Items[i].Placements = remap(out.Items[i].Placements)
	}
	return out
}
