package voice

import (
	"bytes"
	"encoding/binary"
	"math"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		name string
		in   Features
		want Tone
	}{
		{"happy", Features{Energy: 0.03, Pitch: 150, ZeroCrossingRate: 0.03}, ToneHappy},
		{"sad", Features{Energy: 0.005, Pitch: 80, ZeroCrossingRate: 0.005}, ToneSad},
		{"mid range", Features{Energy: 0.015, Pitch: 110, ZeroCrossingRate: 0.015}, ToneNeutral},
		{"loud but low pitch", Features{Energy: 0.05, Pitch: 90, ZeroCrossingRate: 0.05}, ToneNeutral},
		{"boundary is not happy", Features{Energy: 0.02, Pitch: 120, ZeroCrossingRate: 0.02}, ToneNeutral},
		{"silence", Features{}, ToneSad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func sine(freq float64, amp float64, sampleRate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestExtractSine(t *testing.T) {
	f := Extract(sine(200, 0.3, DefaultSampleRate, DefaultSampleRate), DefaultSampleRate)

	// a peak-normalised sine has RMS 1/sqrt(2)
	assert.InDelta(t, 1/math.Sqrt2, f.Energy, 0.01)
	assert.InDelta(t, 200, f.Pitch, 10)
	assert.InDelta(t, 2*200.0/DefaultSampleRate, f.ZeroCrossingRate, 0.005)
	assert.Equal(t, ToneHappy, Classify(f))
}

func TestExtractSilence(t *testing.T) {
	f := Extract(make([]float64, 4000), DefaultSampleRate)
	assert.Equal(t, 0.0, f.Energy)
	assert.Equal(t, 0.0, f.Pitch)
	assert.Equal(t, ToneSad, Classify(f))
	assert.Equal(t, Features{}, Extract(nil, DefaultSampleRate))
}

func TestWAVRoundTrip(t *testing.T) {
	samples := sine(220, 0.5, 8000, 4000)
	clip, err := DecodeWAV(EncodeWAV(samples, 8000))
	require.NoError(t, err)

	assert.Equal(t, 8000, clip.SampleRate)
	require.Len(t, clip.Samples, len(samples))
	assert.InDelta(t, 0.5, clip.Duration(), 1e-9)
	for i := 0; i < len(samples); i += 97 {
		assert.InDelta(t, samples[i], clip.Samples[i], 1e-3)
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	_, err := DecodeWAV([]byte("hello world, not audio"))
	assert.ErrorIs(t, err, ErrNotWAV)

	_, err = DecodeWAV(nil)
	assert.Error(t, err)
}

// rawWAV assembles a RIFF stream with a hand-written fmt chunk header.
func rawWAV(fmtSize uint32, fmtBody, data []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, fmtSize)
	buf.Write(fmtBody)
	if data != nil {
		buf.WriteString("data")
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(data)))
		buf.Write(data)
	}
	return buf.Bytes()
}

func floatFormat() []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, wavFormat{
		AudioFormat:   wavFormatFloat,
		Channels:      1,
		SampleRate:    8000,
		ByteRate:      32000,
		BlockAlign:    4,
		BitsPerSample: 32,
	})
	return buf.Bytes()
}

func TestDecodeWAVRejectsOversizedFmtChunk(t *testing.T) {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)

	_, err := DecodeWAV(rawWAV(0xFFFFFFF0, make([]byte, 16), nil))
	require.Error(t, err)

	runtime.ReadMemStats(&after)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestDecodeWAVRejectsNonFiniteSamples(t *testing.T) {
	for _, v := range []float32{float32(math.Inf(1)), float32(math.Inf(-1)), float32(math.NaN())} {
		data := make([]byte, 8)
		binary.LittleEndian.PutUint32(data[0:], math.Float32bits(0.25))
		binary.LittleEndian.PutUint32(data[4:], math.Float32bits(v))

		_, err := DecodeWAV(rawWAV(16, floatFormat(), data))
		assert.Error(t, err, "sample %v", v)
	}

	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, math.Float32bits(0.25))
	clip, err := DecodeWAV(rawWAV(16, floatFormat(), data))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25}, clip.Samples)
}

func TestEstimate(t *testing.T) {
	tone, f := Estimate(Clip{Samples: sine(180, 0.8, DefaultSampleRate, 8000), SampleRate: DefaultSampleRate})
	assert.Equal(t, ToneHappy, tone)
	assert.Greater(t, f.Pitch, 120.0)
}

func TestNormalizeTone(t *testing.T) {
	assert.Equal(t, ToneSad, NormalizeTone("sad"))
	assert.Equal(t, ToneHappy, NormalizeTone(" Happy "))
	assert.Equal(t, ToneSad, NormalizeTone("SAD"))
	assert.Equal(t, ToneNeutral, NormalizeTone("angry"))
	assert.Equal(t, ToneNeutral, NormalizeTone(""))
}
