package voice

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	wavFormatPCM        = 1
	wavFormatFloat      = 3
	wavFormatExtensible = 0xFFFE

	// WAVE_FORMAT_EXTENSIBLE headers are 40 bytes; anything larger is not a fmt chunk.
	maxFmtChunk = 64
)

var ErrNotWAV = errors.New("not a RIFF/WAVE stream")

// Clip is a mono buffer of samples in [-1, 1].
type Clip struct {
	Samples    []float64
	SampleRate int
}

func (c Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

type wavFormat struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// DecodeWAV reads integer PCM (8/16/24/32 bit) or 32-bit float WAV data and mixes all
// channels down to mono.
func DecodeWAV(data []byte) (*Clip, error) {
	r := bytes.NewReader(data)

	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, ErrNotWAV
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, ErrNotWAV
	}

	var (
		format  *wavFormat
		payload []byte
	)
	for payload == nil {
		var id [4]byte
		var size uint32
		if _, err := io.ReadFull(r, id[:]); err != nil {
			return nil, fmt.Errorf("wav: missing data chunk: %w", err)
		}
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("wav: chunk size: %w", err)
		}

		switch string(id[:]) {
		case "fmt ":
			if size < 16 || size > maxFmtChunk || int64(size) > int64(r.Len()) {
				return nil, fmt.Errorf("wav: fmt chunk of %d bytes", size)
			}
			chunk := make([]byte, size)
			if _, err := io.ReadFull(r, chunk); err != nil {
				return nil, fmt.Errorf("wav: fmt chunk: %w", err)
			}
			f := &wavFormat{}
			if err := binary.Read(bytes.NewReader(chunk), binary.LittleEndian, f); err != nil {
				return nil, fmt.Errorf("wav: fmt chunk: %w", err)
			}
			if f.AudioFormat == wavFormatExtensible && len(chunk) >= 26 {
				f.AudioFormat = binary.LittleEndian.Uint16(chunk[24:26])
			}
			format = f
		case "data":
			if int64(size) > int64(r.Len()) {
				size = uint32(r.Len())
			}
			payload = make([]byte, size)
			if _, err := io.ReadFull(r, payload); err != nil {
				return nil, fmt.Errorf("wav: data chunk: %w", err)
			}
		default:
			if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("wav: skip chunk: %w", err)
			}
		}
		// chunks are word aligned
		if size%2 == 1 && payload == nil {
			_, _ = r.Seek(1, io.SeekCurrent)
		}
	}

	if format == nil {
		return nil, errors.New("wav: data chunk before fmt chunk")
	}
	if format.Channels == 0 || format.SampleRate == 0 {
		return nil, errors.New("wav: invalid format header")
	}

	samples, err := decodeSamples(payload, format)
	if err != nil {
		return nil, err
	}
	return &Clip{Samples: samples, SampleRate: int(format.SampleRate)}, nil
}

func decodeSamples(payload []byte, f *wavFormat) ([]float64, error) {
	width := int(f.BitsPerSample) / 8
	channels := int(f.Channels)
	if width == 0 {
		return nil, fmt.Errorf("wav: unsupported bit depth %d", f.BitsPerSample)
	}

	var read func(b []byte) float64
	switch {
	case f.AudioFormat == wavFormatFloat && width == 4:
		read = func(b []byte) float64 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		}
	case f.AudioFormat == wavFormatPCM && width == 1:
		read = func(b []byte) float64 { return (float64(b[0]) - 128) / 128 }
	case f.AudioFormat == wavFormatPCM && width == 2:
		read = func(b []byte) float64 { return float64(int16(binary.LittleEndian.Uint16(b))) / 32768 }
	case f.AudioFormat == wavFormatPCM && width == 3:
		read = func(b []byte) float64 {
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			if v&0x800000 != 0 {
				v |= ^0xFFFFFF
			}
			return float64(v) / 8388608
		}
	case f.AudioFormat == wavFormatPCM && width == 4:
		read = func(b []byte) float64 { return float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648 }
	default:
		return nil, fmt.Errorf("wav: unsupported encoding format=%d bits=%d", f.AudioFormat, f.BitsPerSample)
	}

	frame := width * channels
	n := len(payload) / frame
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			off := i*frame + ch*width
			v := read(payload[off : off+width])
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("wav: non-finite sample at frame %d", i)
			}
			sum += v
		}
		out[i] = sum / float64(channels)
	}
	return out, nil
}

// EncodeWAV writes mono 16-bit PCM. Used by tooling and tests.
func EncodeWAV(samples []float64, sampleRate int) []byte {
	var buf bytes.Buffer
	dataLen := uint32(len(samples) * 2)

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, 36+dataLen)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, wavFormat{
		AudioFormat:   wavFormatPCM,
		Channels:      1,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * 2),
		BlockAlign:    2,
		BitsPerSample: 16,
	})
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, dataLen)
	for _, s := range samples {
		s = math.Max(-1, math.Min(1, s))
		_ = binary.Write(&buf, binary.LittleEndian, int16(s*32767))
	}
	return buf.Bytes()
}
