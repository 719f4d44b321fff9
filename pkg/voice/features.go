package voice

import "math"

const (
	DefaultSampleRate = 16000
	FrameLength       = 2048
	HopLength         = 512

	minPitchHz     = 50.0
	maxPitchHz     = 500.0
	pitchWindow    = 1024
	voicingPeak    = 0.3
	voicingEnergy  = 0.01
	normalizeGuard = 1e-6
)

// Features are the clip-level statistics the tone rule is defined over.
type Features struct {
	Energy           float64 `json:"energy"`
	Pitch            float64 `json:"pitch"`
	ZeroCrossingRate float64 `json:"zero_crossing_rate"`
}

// Extract normalises samples by their peak and computes mean frame RMS, mean voiced
// pitch and mean zero-crossing rate.
func Extract(samples []float64, sampleRate int) Features {
	if len(samples) == 0 {
		return Features{}
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	norm := normalize(samples)
	frames := frame(norm, FrameLength, HopLength)

	var energy, zcr, pitchSum float64
	voiced := 0
	for _, f := range frames {
		rms := frameRMS(f)
		energy += rms
		zcr += zeroCrossingRate(f)
		if rms < voicingEnergy {
			continue
		}
		if p := framePitch(f, sampleRate); p > 0 {
			pitchSum += p
			voiced++
		}
	}

	out := Features{
		Energy:           energy / float64(len(frames)),
		ZeroCrossingRate: zcr / float64(len(frames)),
	}
	if voiced > 0 {
		out.Pitch = pitchSum / float64(voiced)
	}
	return out
}

func normalize(samples []float64) []float64 {
	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	scale := peak + normalizeGuard
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s / scale
	}
	return out
}

// frame slices x into overlapping windows; a short buffer becomes one zero-padded frame.
func frame(x []float64, length, hop int) [][]float64 {
	if len(x) <= length {
		f := make([]float64, length)
		copy(f, x)
		return [][]float64{f}
	}
	var frames [][]float64
	for start := 0; start+length <= len(x); start += hop {
		frames = append(frames, x[start:start+length])
	}
	return frames
}

func frameRMS(f []float64) float64 {
	sum := 0.0
	for _, v := range f {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(f)))
}

func zeroCrossingRate(f []float64) float64 {
	crossings := 0
	for i := 1; i < len(f); i++ {
		if (f[i-1] >= 0) != (f[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(f))
}

// framePitch estimates f0 by normalised autocorrelation; 0 means unvoiced.
func framePitch(f []float64, sampleRate int) float64 {
	n := len(f)
	if n > pitchWindow {
		n = pitchWindow
	}
	w := f[:n]

	minLag := int(float64(sampleRate) / maxPitchHz)
	maxLag := int(float64(sampleRate) / minPitchHz)
	if maxLag >= n {
		maxLag = n - 1
	}
	if minLag < 1 {
		minLag = 1
	}
	if minLag >= maxLag {
		return 0
	}

	r0 := 0.0
	for _, v := range w {
		r0 += v * v
	}
	if r0 == 0 {
		return 0
	}

	bestLag, bestR := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		r := 0.0
		for i := 0; i+lag < n; i++ {
			r += w[i] * w[i+lag]
		}
		r /= r0
		if r > bestR {
			bestR, bestLag = r, lag
		}
	}
	if bestLag == 0 || bestR < voicingPeak {
		return 0
	}
	return float64(sampleRate) / float64(bestLag)
}
