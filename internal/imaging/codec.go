// Package imaging downsamples and recompresses captured screenshots before
// they enter the gallery. Compression is a best-effort size optimization:
// any decode or encode failure falls back to the original bytes, never
// failing the capture.
package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // decode support for CDP captures
	"math"

	"golang.org/x/image/draw"

	"github.com/webtrail/webtrail-cli/internal/config"
)

// Codec applies the configured size ceilings and quality tiers.
type Codec struct {
	limits config.Limits
}

// NewCodec builds a codec from the given limits.
func NewCodec(limits config.Limits) Codec {
	return Codec{limits: limits}
}

// Compress downscales data so neither dimension nor the total pixel count
// exceeds the configured ceilings, then re-encodes as JPEG. Quality drops a
// tier when the downscaled image is still large. Images whose estimated
// decoded size exceeds MaxDecodedBytes are passed through untouched rather
// than risking an out-of-memory decode. Any failure returns data unchanged
// with reencoded=false; reencoded=true means the result is JPEG.
func (c Codec) Compress(data []byte) (out []byte, reencoded bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return data, false
	}
	// 4 bytes per pixel for the decoded RGBA raster.
	if int64(cfg.Width)*int64(cfg.Height)*4 > c.limits.MaxDecodedBytes {
		return data, false
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, false
	}

	w, h := fitDimensions(src.Bounds().Dx(), src.Bounds().Dy(),
		c.limits.MaxImageWidth, c.limits.MaxImageHeight, c.limits.MaxImagePixels)
	if w <= 0 || h <= 0 {
		return data, false
	}

	scaled := src
	if w != src.Bounds().Dx() || h != src.Bounds().Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		scaled = dst
	}

	quality := c.limits.JPEGQuality
	if w*h > c.limits.LowQualityPixels {
		quality = c.limits.LowJPEGQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: quality}); err != nil {
		return data, false
	}
	return buf.Bytes(), true
}

// fitDimensions shrinks (w, h) to fit within maxW x maxH and maxPixels,
// preserving aspect ratio. Images already within bounds are unchanged.
func fitDimensions(w, h, maxW, maxH, maxPixels int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 && h > maxH {
		scale = min(scale, float64(maxH)/float64(h))
	}
	if maxPixels > 0 {
		sw, sh := float64(w)*scale, float64(h)*scale
		if sw*sh > float64(maxPixels) {
			// Uniform shrink on both axes keeps the ratio while meeting
			// the pixel budget.
			factor := float64(maxPixels) / (sw * sh)
			scale *= math.Sqrt(factor)
		}
	}
	if scale >= 1.0 {
		return w, h
	}
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}
