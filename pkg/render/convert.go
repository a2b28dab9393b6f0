package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/matzehuels/gridboard/pkg/errors"
)

// rsvgConvert is the external rasterizer. Tests point it elsewhere.
var rsvgConvert = "rsvg-convert"

// ToPDF converts an SVG diagram to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convertSVG(ctx, svg, "pdf")
}

// ToPNG converts an SVG diagram to PNG, scaled by scale.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %g", scale)
	}
	return convertSVG(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

func convertSVG(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	path, err := exec.LookPath(rsvgConvert)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s diagrams need %s (brew install librsvg, apt install librsvg2-bin)", format, rsvgConvert)
	}

	cmd := exec.CommandContext(ctx, path, append([]string{"-f", format}, extraArgs...)...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "convert diagram to %s: %s", format, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
