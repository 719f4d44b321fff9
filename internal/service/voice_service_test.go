package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"math"
	"testing"

	"moodflix-be/internal/dto"
	"moodflix-be/internal/pkg/serverutils"
	"moodflix-be/pkg/voice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tone(freq float64, seconds float64) []float64 {
	n := int(seconds * voice.DefaultSampleRate)
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.8 * math.Sin(2*math.Pi*freq*float64(i)/voice.DefaultSampleRate)
	}
	return out
}

func TestVoiceServiceWAV(t *testing.T) {
	wav := voice.EncodeWAV(tone(220, 1), voice.DefaultSampleRate)
	svc := NewVoiceService(nopLog)

	res, err := svc.Estimate(context.Background(), &dto.VoiceRequest{Audio: base64.StdEncoding.EncodeToString(wav)})
	require.NoError(t, err)
	assert.Equal(t, "happy", res.VoiceTone)
	assert.InDelta(t, 220, res.Pitch, 10)
	assert.InDelta(t, 1.0, res.Duration, 0.01)
}

func TestVoiceServiceSamples(t *testing.T) {
	res, err := NewVoiceService(nopLog).Estimate(context.Background(), &dto.VoiceRequest{
		Samples:    make([]float64, voice.DefaultSampleRate),
		SampleRate: voice.DefaultSampleRate,
	})
	require.NoError(t, err)
	assert.Equal(t, "sad", res.VoiceTone)
}

// hostileWAV declares a fmt chunk of fmtSize bytes followed by one float sample.
func hostileWAV(fmtSize uint32, sample float32) string {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(&buf, binary.LittleEndian, fmtSize)
	for _, v := range []interface{}{uint16(3), uint16(1), uint32(8000), uint32(32000), uint16(4), uint16(32)} {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(4))
	_ = binary.Write(&buf, binary.LittleEndian, math.Float32bits(sample))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestVoiceServiceBadInput(t *testing.T) {
	tests := []struct {
		name string
		req  dto.VoiceRequest
	}{
		{"empty", dto.VoiceRequest{}},
		{"not base64", dto.VoiceRequest{Audio: "%%%"}},
		{"not wav", dto.VoiceRequest{Audio: base64.StdEncoding.EncodeToString([]byte("hello world, not audio"))}},
		{"too long", dto.VoiceRequest{Samples: make([]float64, 61*1000), SampleRate: 1000}},
		{"oversized fmt chunk", dto.VoiceRequest{Audio: hostileWAV(0xFFFFFFF0, 0.1)}},
		{"infinite sample", dto.VoiceRequest{Audio: hostileWAV(16, float32(math.Inf(1)))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVoiceService(nopLog).Estimate(context.Background(), &tt.req)
			assert.ErrorIs(t, err, serverutils.ErrBadRequest)
		})
	}
}
