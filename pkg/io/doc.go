// Package io provides JSON backup and restore for boards.
//
// # Format
//
// A backup wraps the board in a versioned envelope:
//
//	{
//	  "version": 1,
//	  "board": {
//	    "id": "...",
//	    "name": "Home",
//	    "layouts": [{"id": "lg", "name": "large", "columnCount": 12, "breakpoint": 1400}],
//	    "sections": [{"id": "s0", "kind": "empty", "xOffset": 0, "yOffset": 0}],
//	    "items": []
//	  }
//	}
//
// The board object uses the JSON field names of the [board] package.
//
// # Import
//
// [ReadJSON] and [ImportJSON] decode a backup and run [board.Validate] on it,
// so a restored board satisfies every structural invariant. Set
// [ImportOptions].NewIDs to give the board, its layouts, sections and items
// fresh identifiers. References are rewritten to match, which lets a restored
// copy live next to the original.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write the envelope with two-space indentation.
// Export followed by import yields a board equal to the original.
package io
