package emotion

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	analysis *FaceAnalysis
	err      error
	calls    int
	frame    []byte
}

func (f *fakeAnalyzer) AnalyzeFace(_ context.Context, frame []byte) (*FaceAnalysis, error) {
	f.calls++
	f.frame = frame
	return f.analysis, f.err
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestClassifyMalformedImageFallsBack(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	c := NewClassifier(analyzer)

	inputs := [][]byte{nil, []byte("not an image"), {0xff, 0xd8, 0xff}}
	for _, in := range inputs {
		assert.Equal(t, Fallback(), c.Classify(context.Background(), in))
	}
	assert.Equal(t, 0, analyzer.calls)

	assert.Equal(t, Reading{Label: Neutral, Confidence: 0.5}, c.ClassifyBase64(context.Background(), "%%%not-base64%%%"))
}

func TestClassifyDominantEmotion(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: &FaceAnalysis{
		FaceFound: true,
		Scores:    map[string]float64{"happy": 80, "sad": 15, "Neutral": 5},
	}}
	c := NewClassifier(analyzer)

	got := c.Classify(context.Background(), testPNG(t, 32, 24))
	assert.Equal(t, Happy, got.Label)
	assert.InDelta(t, 0.8, got.Confidence, 1e-9)
	require.Equal(t, 1, analyzer.calls)

	_, format, err := image.Decode(bytes.NewReader(analyzer.frame))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestClassifyDegradesWithoutFace(t *testing.T) {
	tests := []struct {
		name     string
		analyzer *fakeAnalyzer
	}{
		{"no face", &fakeAnalyzer{analysis: &FaceAnalysis{FaceFound: false}}},
		{"backend error", &fakeAnalyzer{err: errors.New("boom")}},
		{"nil analysis", &fakeAnalyzer{}},
		{"unknown labels only", &fakeAnalyzer{analysis: &FaceAnalysis{FaceFound: true, Scores: map[string]float64{"bored": 100}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var swallowed []error
			c := NewClassifier(tt.analyzer)
			c.OnError(func(err error) { swallowed = append(swallowed, err) })

			assert.Equal(t, Fallback(), c.Classify(context.Background(), testPNG(t, 8, 8)))
			assert.NotEmpty(t, swallowed)
		})
	}
}

func TestClassifyBase64DataURL(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: &FaceAnalysis{FaceFound: true, Scores: map[string]float64{"surprise": 60, "fear": 40}}}
	c := NewClassifier(analyzer)

	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(t, 16, 16))
	got := c.ClassifyBase64(context.Background(), payload)
	assert.Equal(t, Surprise, got.Label)
	assert.InDelta(t, 0.6, got.Confidence, 1e-9)
}

// jpegClaiming encodes a tiny JPEG and rewrites its frame header to declare w x h.
func jpegClaiming(t *testing.T, w, h uint16) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil))
	raw := buf.Bytes()

	// SOF0, length 17, precision 8, then height and width
	sof := bytes.Index(raw, []byte{0xFF, 0xC0, 0x00, 0x11, 0x08})
	require.GreaterOrEqual(t, sof, 0)
	raw[sof+5], raw[sof+6] = byte(h>>8), byte(h)
	raw[sof+7], raw[sof+8] = byte(w>>8), byte(w)
	return raw
}

func TestClassifyRejectsHugeDeclaredDimensions(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: &FaceAnalysis{FaceFound: true, Scores: map[string]float64{"happy": 90}}}
	var reported []error
	c := NewClassifier(analyzer)
	c.OnError(func(err error) { reported = append(reported, err) })

	frame := jpegClaiming(t, 0xFF00, 0xFF00)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(frame))
	require.NoError(t, err)
	require.Equal(t, 0xFF00, cfg.Width)

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	got := c.Classify(context.Background(), frame)
	runtime.ReadMemStats(&after)

	assert.Equal(t, Fallback(), got)
	assert.Zero(t, analyzer.calls)
	assert.Len(t, reported, 1)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(64<<20))
}

func lightnessSpread(img image.Image) (lo, hi float64) {
	lo, hi = 100, 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			l, _, _ := rgbToLab(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			if l < lo {
				lo = l
			}
			if l > hi {
				hi = l
			}
		}
	}
	return lo, hi
}

func TestEqualizeLightnessKeepsGeometry(t *testing.T) {
	img, _, err := image.Decode(bytes.NewReader(testPNG(t, 37, 19)))
	require.NoError(t, err)

	out := EqualizeLightness(img)
	assert.Equal(t, 37, out.Bounds().Dx())
	assert.Equal(t, 19, out.Bounds().Dy())
}

func TestEqualizeLightnessStretchesLowContrast(t *testing.T) {
	// every tile sees the same narrow band of grey levels, 100..115
	img := image.NewRGBA(image.Rect(0, 0, 256, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			v := uint8(100 + (x+y)%16)
			img.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	inLo, inHi := lightnessSpread(img)
	outLo, outHi := lightnessSpread(EqualizeLightness(img))
	assert.Greater(t, outHi-outLo, inHi-inLo)
}

func TestDownscaleBoundsLongestSide(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1000, 500))
	out := downscale(img, 100)
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())
}
