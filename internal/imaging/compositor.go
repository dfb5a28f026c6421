// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"

	_ "image/gif"  // decode support for provider payloads
	_ "image/jpeg" // decode support for provider payloads
)

// Bake decodes an encoded image, applies the adjustment stack, and
// re-encodes the result as PNG at the source's natural dimensions. This is
// the commit step: the live preview's filter chain rendered into pixels.
func Bake(data []byte, adj Adjustments) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("compositor decode: %w", err)
	}

	out := Apply(src, adj)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("compositor encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Apply runs the filter stack over src in CSS order: brightness, contrast,
// saturate, hue-rotate, blur, sepia. A neutral set returns the pixels
// unchanged. Alpha is preserved by the color stages and blurred with the
// color channels.
func Apply(src image.Image, adj Adjustments) *image.NRGBA {
	adj = adj.Clamp()
	img := toNRGBA(src)
	if adj.IsNeutral() {
		return img
	}

	// The four leading filters are linear color transforms, folded into a
	// single matrix pass. Blur has to run on the intermediate pixels, so
	// sepia gets its own pass afterwards.
	pre := identityMatrix()
	pre = compose(brightnessMatrix(float64(adj.Brightness)/100), pre)
	pre = compose(contrastMatrix(float64(adj.Contrast)/100), pre)
	pre = compose(saturateMatrix(float64(adj.Saturation)/100), pre)
	pre = compose(hueRotateMatrix(float64(adj.Hue)), pre)
	applyMatrix(img, pre)

	if adj.Blur > 0 {
		img = gaussianBlur(img, float64(adj.Blur))
	}

	if adj.Sepia > 0 {
		applyMatrix(img, sepiaMatrix(float64(adj.Sepia)/100))
	}

	return img
}

// toNRGBA converts any image to non-premultiplied RGBA for per-channel math.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	out := image.NewNRGBA(b)
	draw.Draw(out, b, src, b.Min, draw.Src)
	return out
}

// --- color matrices ---

// colorMatrix is a 3x3 linear transform plus offset, applied to RGB values
// normalised to [0,1]. Row-major: out_r = m[0]*r + m[1]*g + m[2]*b + off[0].
type colorMatrix struct {
	m   [9]float64
	off [3]float64
}

func identityMatrix() colorMatrix {
	return colorMatrix{m: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// compose returns the matrix equivalent to applying first, then second.
func compose(second, first colorMatrix) colorMatrix {
	var out colorMatrix
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			sum := 0.0
			for k := 0; k < 3; k++ {
				sum += second.m[row*3+k] * first.m[k*3+col]
			}
			out.m[row*3+col] = sum
		}
		out.off[row] = second.off[row]
		for k := 0; k < 3; k++ {
			out.off[row] += second.m[row*3+k] * first.off[k]
		}
	}
	return out
}

// brightnessMatrix scales all channels; p=1 is neutral.
func brightnessMatrix(p float64) colorMatrix {
	return colorMatrix{m: [9]float64{p, 0, 0, 0, p, 0, 0, 0, p}}
}

// contrastMatrix scales channels around the 50% grey point; p=1 is neutral.
func contrastMatrix(p float64) colorMatrix {
	o := 0.5 * (1 - p)
	return colorMatrix{
		m:   [9]float64{p, 0, 0, 0, p, 0, 0, 0, p},
		off: [3]float64{o, o, o},
	}
}

// saturateMatrix follows the W3C filter-effects saturate matrix; s=1 is neutral.
func saturateMatrix(s float64) colorMatrix {
	return colorMatrix{m: [9]float64{
		0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s,
	}}
}

// hueRotateMatrix follows the W3C filter-effects hue rotation matrix.
func hueRotateMatrix(deg float64) colorMatrix {
	rad := deg * math.Pi / 180
	c := math.Cos(rad)
	s := math.Sin(rad)
	return colorMatrix{m: [9]float64{
		0.213 + c*0.787 - s*0.213, 0.715 - c*0.715 - s*0.715, 0.072 - c*0.072 + s*0.928,
		0.213 - c*0.213 + s*0.143, 0.715 + c*0.285 + s*0.140, 0.072 - c*0.072 - s*0.283,
		0.213 - c*0.213 - s*0.787, 0.715 - c*0.715 + s*0.715, 0.072 + c*0.928 + s*0.072,
	}}
}

// sepiaMatrix interpolates between identity and the full sepia transform;
// t in [0,1], t=0 is neutral.
func sepiaMatrix(t float64) colorMatrix {
	sepia := [9]float64{
		0.393, 0.769, 0.189,
		0.349, 0.686, 0.168,
		0.272, 0.534, 0.131,
	}
	ident := identityMatrix().m
	var out colorMatrix
	for i := 0; i < 9; i++ {
		out.m[i] = (1-t)*ident[i] + t*sepia[i]
	}
	return out
}

// applyMatrix transforms every pixel in place, clamping to [0,255].
// Alpha passes through untouched.
func applyMatrix(img *image.NRGBA, cm colorMatrix) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride : (y-b.Min.Y)*img.Stride+(b.Dx())*4]
		for x := 0; x < b.Dx(); x++ {
			i := x * 4
			r := float64(row[i]) / 255
			g := float64(row[i+1]) / 255
			bl := float64(row[i+2]) / 255

			nr := cm.m[0]*r + cm.m[1]*g + cm.m[2]*bl + cm.off[0]
			ng := cm.m[3]*r + cm.m[4]*g + cm.m[5]*bl + cm.off[1]
			nb := cm.m[6]*r + cm.m[7]*g + cm.m[8]*bl + cm.off[2]

			row[i] = clampByte(nr)
			row[i+1] = clampByte(ng)
			row[i+2] = clampByte(nb)
		}
	}
}

func clampByte(v float64) uint8 {
	v *= 255
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// --- gaussian blur ---

// gaussianBlur applies a separable Gaussian with standard deviation sigma,
// matching the CSS blur(<radius>) definition. All four channels are
// blurred so soft alpha edges behave like the browser preview.
func gaussianBlur(img *image.NRGBA, sigma float64) *image.NRGBA {
	kernel := gaussianKernel(sigma)
	horiz := convolve(img, kernel, true)
	return convolve(horiz, kernel, false)
}

// gaussianKernel builds a normalised 1D kernel with radius 3*sigma.
func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// convolve runs the 1D kernel over one axis with edge clamping.
func convolve(img *image.NRGBA, kernel []float64, horizontal bool) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(b)
	radius := len(kernel) / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, bl, a float64
			for k := -radius; k <= radius; k++ {
				sx, sy := x, y
				if horizontal {
					sx = clampInt(x+k, 0, w-1)
				} else {
					sy = clampInt(y+k, 0, h-1)
				}
				i := sy*img.Stride + sx*4
				weight := kernel[k+radius]
				r += weight * float64(img.Pix[i])
				g += weight * float64(img.Pix[i+1])
				bl += weight * float64(img.Pix[i+2])
				a += weight * float64(img.Pix[i+3])
			}
			i := y*out.Stride + x*4
			out.Pix[i] = uint8(r + 0.5)
			out.Pix[i+1] = uint8(g + 0.5)
			out.Pix[i+2] = uint8(bl + 0.5)
			out.Pix[i+3] = uint8(a + 0.5)
		}
	}
	return out
}
