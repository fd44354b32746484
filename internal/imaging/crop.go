package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/webtrail/webtrail-cli/internal/model"
)

// ErrEmptyArea is returned for a crop rectangle with zero or negative
// width or height.
var ErrEmptyArea = errors.New("crop area has no extent")

// ErrAreaOutside is returned when the requested rectangle lies entirely
// outside the source image.
var ErrAreaOutside = errors.New("crop area outside image bounds")

// Crop decodes data, extracts the requested area and re-encodes as PNG.
// The rectangle is clamped to the source bounds; a degenerate rectangle is
// rejected up front rather than silently producing an empty image.
func Crop(data []byte, area model.Area) ([]byte, error) {
	if area.Empty() {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyArea, area.W, area.H)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode source image: %w", err)
	}

	rect := image.Rect(area.X, area.Y, area.X+area.W, area.Y+area.H)
	clamped := rect.Intersect(src.Bounds())
	if clamped.Empty() {
		return nil, ErrAreaOutside
	}

	dst := image.NewRGBA(image.Rect(0, 0, clamped.Dx(), clamped.Dy()))
	draw.Copy(dst, image.Point{}, src, clamped, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode cropped image: %w", err)
	}
	return buf.Bytes(), nil
}

// FitBox shrinks (w, h) to fit inside (maxW, maxH) preserving aspect
// ratio. Used when embedding screenshots into rendered reports.
func FitBox(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	fw, fh := fitDimensions(w, h, maxW, maxH, 0)
	return fw, fh
}
