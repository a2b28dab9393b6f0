package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/gridboard/pkg/board"
)

// FormatVersion is the envelope version written by this package.
const FormatVersion = 1

type envelope struct {
	Version int          `json:"version"`
	Board   *board.Board `json:"board"`
}

// WriteJSON encodes b in the backup envelope and writes it to w.
func WriteJSON(b *board.Board, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(envelope{Version: FormatVersion, Board: b}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a board backup to the file at path.
func ExportJSON(b *board.Board, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(b, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
