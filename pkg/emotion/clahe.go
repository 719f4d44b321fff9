package emotion

import (
	"image"
	"image/color"
	"math"
)

const (
	claheClipLimit = 3.0
	claheTiles     = 8
	histBins       = 256
)

// EqualizeLightness applies contrast-limited adaptive histogram equalisation to the
// CIE-Lab lightness channel of img and returns a new RGBA image. Chroma is untouched.
func EqualizeLightness(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	lum := make([]uint8, w*h)
	as := make([]float64, w*h)
	bs := make([]float64, w*h)
	alpha := make([]uint8, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			l, a, bb := rgbToLab(c.R, c.G, c.B)
			i := y*w + x
			lum[i] = clampByte(l * 255 / 100)
			as[i], bs[i] = a, bb
			alpha[i] = c.A
		}
	}

	eq := clahe(lum, w, h, claheClipLimit, claheTiles)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			r, g, bl := labToRGB(float64(eq[i])*100/255, as[i], bs[i])
			out.Set(x, y, color.NRGBA{R: r, G: g, B: bl, A: alpha[i]})
		}
	}
	return out
}

// clahe equalises an 8-bit plane using a tiles×tiles grid and bilinear blending of
// the per-tile lookup tables.
func clahe(src []uint8, w, h int, clipLimit float64, tiles int) []uint8 {
	tw := (w + tiles - 1) / tiles
	th := (h + tiles - 1) / tiles
	gx := (w + tw - 1) / tw
	gy := (h + th - 1) / th

	luts := make([][histBins]uint8, gx*gy)
	for ty := 0; ty < gy; ty++ {
		for tx := 0; tx < gx; tx++ {
			x0, y0 := tx*tw, ty*th
			x1, y1 := minInt(x0+tw, w), minInt(y0+th, h)
			luts[ty*gx+tx] = tileLUT(src, w, x0, y0, x1, y1, clipLimit)
		}
	}

	dst := make([]uint8, len(src))
	for y := 0; y < h; y++ {
		fy := (float64(y)+0.5)/float64(th) - 0.5
		ty0 := int(math.Floor(fy))
		wy := fy - float64(ty0)
		ty1 := ty0 + 1
		ty0 = clampInt(ty0, 0, gy-1)
		ty1 = clampInt(ty1, 0, gy-1)

		for x := 0; x < w; x++ {
			fx := (float64(x)+0.5)/float64(tw) - 0.5
			tx0 := int(math.Floor(fx))
			wx := fx - float64(tx0)
			tx1 := tx0 + 1
			tx0 = clampInt(tx0, 0, gx-1)
			tx1 = clampInt(tx1, 0, gx-1)

			v := src[y*w+x]
			top := (1-wx)*float64(luts[ty0*gx+tx0][v]) + wx*float64(luts[ty0*gx+tx1][v])
			bot := (1-wx)*float64(luts[ty1*gx+tx0][v]) + wx*float64(luts[ty1*gx+tx1][v])
			dst[y*w+x] = clampByte((1-wy)*top + wy*bot)
		}
	}
	return dst
}

func tileLUT(src []uint8, stride, x0, y0, x1, y1 int, clipLimit float64) [histBins]uint8 {
	var hist [histBins]int
	area := (x1 - x0) * (y1 - y0)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[src[y*stride+x]]++
		}
	}

	limit := int(math.Max(1, clipLimit*float64(area)/histBins))
	excess := 0
	for i := range hist {
		if hist[i] > limit {
			excess += hist[i] - limit
			hist[i] = limit
		}
	}
	bonus := excess / histBins
	residual := excess - bonus*histBins
	for i := range hist {
		hist[i] += bonus
	}
	if residual > 0 {
		step := maxInt(1, histBins/residual)
		for i := 0; i < histBins && residual > 0; i += step {
			hist[i]++
			residual--
		}
	}

	var lut [histBins]uint8
	scale := 255.0 / float64(maxInt(area, 1))
	sum := 0
	for i := range hist {
		sum += hist[i]
		lut[i] = clampByte(float64(sum) * scale)
	}
	return lut
}

// sRGB (D65) <-> CIE-Lab

func rgbToLab(r, g, b uint8) (float64, float64, float64) {
	rl, gl, bl := linearize(r), linearize(g), linearize(b)
	x := (0.4124564*rl + 0.3575761*gl + 0.1804375*bl) / 0.95047
	y := 0.2126729*rl + 0.7151522*gl + 0.0721750*bl
	z := (0.0193339*rl + 0.1191920*gl + 0.9503041*bl) / 1.08883

	fx, fy, fz := labF(x), labF(y), labF(z)
	return 116*fy - 16, 500 * (fx - fy), 200 * (fy - fz)
}

func labToRGB(l, a, b float64) (uint8, uint8, uint8) {
	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200
	x := labFInv(fx) * 0.95047
	y := labFInv(fy)
	z := labFInv(fz) * 1.08883

	rl := 3.2404542*x - 1.5371385*y - 0.4985314*z
	gl := -0.9692660*x + 1.8760108*y + 0.0415560*z
	bl := 0.0556434*x - 0.2040259*y + 1.0572252*z
	return delinearize(rl), delinearize(gl), delinearize(bl)
}

func linearize(c uint8) float64 {
	v := float64(c) / 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func delinearize(v float64) uint8 {
	if v <= 0.0031308 {
		return clampByte(v * 12.92 * 255)
	}
	return clampByte((1.055*math.Pow(v, 1/2.4) - 0.055) * 255)
}

func labF(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29.0
}

func labFInv(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta {
		return t * t * t
	}
	return 3 * delta * delta * (t - 4.0/29.0)
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
