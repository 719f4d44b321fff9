package emotion

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"
	"time"

	// registered decoders
	_ "image/gif"
	_ "image/png"
)

var ErrNoFace = errors.New("no face detected")

// MaxPixels caps the declared size of an image accepted for decoding.
const MaxPixels = 4096 * 4096

// FaceAnalysis is what a detector backend reports for one image. Scores are keyed by
// emotion label and are relative weights (percentages in practice).
type FaceAnalysis struct {
	FaceFound bool
	Scores    map[string]float64
}

// FaceAnalyzer detects a face in a JPEG frame and scores its expression.
type FaceAnalyzer interface {
	AnalyzeFace(ctx context.Context, jpegFrame []byte) (*FaceAnalysis, error)
}

type ClassifierOption func(*Classifier)

func WithTimeout(d time.Duration) ClassifierOption {
	return func(c *Classifier) { c.timeout = d }
}

func WithMaxSide(px int) ClassifierOption {
	return func(c *Classifier) { c.maxSide = px }
}

// Classifier turns an encoded still image into a Reading. It never fails: every error
// path yields Fallback().
type Classifier struct {
	analyzer FaceAnalyzer
	timeout  time.Duration
	maxSide  int
	onError  func(error)
}

func NewClassifier(analyzer FaceAnalyzer, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		analyzer: analyzer,
		timeout:  30 * time.Second,
		maxSide:  640,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnError registers a hook that observes swallowed failures (for logging).
func (c *Classifier) OnError(fn func(error)) {
	c.onError = fn
}

// ClassifyBase64 decodes a base64 payload (optionally a data URL) and classifies it.
func (c *Classifier) ClassifyBase64(ctx context.Context, payload string) Reading {
	raw, err := DecodeBase64Image(payload)
	if err != nil {
		c.report(err)
		return Fallback()
	}
	return c.Classify(ctx, raw)
}

func (c *Classifier) Classify(ctx context.Context, encoded []byte) (reading Reading) {
	defer func() {
		if r := recover(); r != nil {
			c.report(fmt.Errorf("classifier panic: %v", r))
			reading = Fallback()
		}
	}()

	frame, err := c.prepare(encoded)
	if err != nil {
		c.report(err)
		return Fallback()
	}
	if c.analyzer == nil {
		c.report(errors.New("no face analyzer configured"))
		return Fallback()
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	analysis, err := c.analyzer.AnalyzeFace(ctx, frame)
	if err != nil {
		c.report(err)
		return Fallback()
	}
	if analysis == nil || !analysis.FaceFound {
		c.report(ErrNoFace)
		return Fallback()
	}

	r, ok := dominant(analysis.Scores)
	if !ok {
		c.report(errors.New("analyzer returned no usable scores"))
		return Fallback()
	}
	return r
}

// prepare decodes, bounds and contrast-normalises the image, returning a JPEG frame.
func (c *Classifier) prepare(encoded []byte) ([]byte, error) {
	if len(encoded) == 0 {
		return nil, errors.New("empty image")
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("image of %dx%d exceeds %d pixels", cfg.Width, cfg.Height, MaxPixels)
	}
	img, _, err := image.Decode(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if c.maxSide > 0 {
		img = downscale(img, c.maxSide)
	}
	enhanced := EqualizeLightness(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, enhanced, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Classifier) report(err error) {
	if c.onError != nil && err != nil {
		c.onError(err)
	}
}

// dominant picks the highest-scoring known label; confidence is its share of the total.
func dominant(scores map[string]float64) (Reading, bool) {
	total := 0.0
	best := Reading{}
	found := false
	for _, label := range Vocabulary {
		s, ok := lookupScore(scores, label)
		if !ok || s < 0 {
			continue
		}
		total += s
		if !found || s > best.Confidence {
			best = Reading{Label: label, Confidence: s}
			found = true
		}
	}
	if !found || total <= 0 {
		return Reading{}, false
	}
	best.Confidence = best.Confidence / total
	if best.Confidence > 1 {
		best.Confidence = 1
	}
	return best, true
}

func lookupScore(scores map[string]float64, label string) (float64, bool) {
	if s, ok := scores[label]; ok {
		return s, true
	}
	for k, s := range scores {
		if strings.EqualFold(strings.TrimSpace(k), label) {
			return s, true
		}
	}
	return 0, false
}

// DecodeBase64Image accepts plain base64 or a data URL ("data:image/jpeg;base64,...").
func DecodeBase64Image(payload string) ([]byte, error) {
	s := strings.TrimSpace(payload)
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 {
			return nil, errors.New("malformed data url")
		}
		s = s[idx+1:]
	}
	if s == "" {
		return nil, errors.New("empty image payload")
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(s)
	}
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return raw, nil
}

// downscale shrinks img with nearest-neighbour sampling so its longest side is maxSide.
func downscale(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := maxInt(w, h)
	if longest <= maxSide {
		return img
	}
	nw := maxInt(1, w*maxSide/longest)
	nh := maxInt(1, h*maxSide/longest)
	out := image.NewRGBA(image.Rect(0, 0, nw, nh))
	for y := 0; y < nh; y++ {
		sy := b.Min.Y + y*h/nh
		for x := 0; x < nw; x++ {
			out.Set(x, y, img.At(b.Min.X+x*w/nw, sy))
		}
	}
	return out
}
