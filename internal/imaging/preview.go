package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// PreviewMaxEdge bounds the longest side of history thumbnails.
const PreviewMaxEdge = 256

// Thumbnail downscales an encoded image so its longest edge fits
// PreviewMaxEdge and returns it PNG-encoded. Images already within bounds
// are re-encoded at their natural size.
func Thumbnail(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("thumbnail decode: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	tw, th := fitWithin(w, h, PreviewMaxEdge)

	out := image.NewNRGBA(image.Rect(0, 0, tw, th))
	xdraw.CatmullRom.Scale(out, out.Bounds(), src, b, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("thumbnail encode: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin scales w x h down to fit a square of the given edge, keeping
// aspect ratio. Dimensions already within the edge are returned unchanged.
func fitWithin(w, h, edge int) (int, int) {
	if w <= edge && h <= edge {
		return w, h
	}
	if w >= h {
		scaled := h * edge / w
		if scaled < 1 {
			scaled = 1
		}
		return edge, scaled
	}
	scaled := w * edge / h
	if scaled < 1 {
		scaled = 1
	}
	return scaled, edge
}
