package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"moodflix-be/internal/dto"
	"moodflix-be/internal/metrics"
	"moodflix-be/internal/pkg/logger"
	"moodflix-be/internal/pkg/serverutils"
	"moodflix-be/pkg/voice"
)

// MaxClipSeconds bounds the audio accepted by the voice endpoint.
const MaxClipSeconds = 60

type IVoiceService interface {
	Estimate(ctx context.Context, req *dto.VoiceRequest) (*dto.VoiceResponse, error)
}

type voiceService struct {
	logger logger.ILogger
}

func NewVoiceService(logger logger.ILogger) IVoiceService {
	return &voiceService{logger: logger}
}

func (s *voiceService) Estimate(ctx context.Context, req *dto.VoiceRequest) (*dto.VoiceResponse, error) {
	clip, err := s.clip(req)
	if err != nil {
		return nil, err
	}
	if clip.Duration() > MaxClipSeconds {
		return nil, fmt.Errorf("%w: audio longer than %d seconds", serverutils.ErrBadRequest, MaxClipSeconds)
	}

	tone, f := voice.Estimate(*clip)
	metrics.VoiceTones.WithLabelValues(string(tone)).Inc()

	s.logger.Debug("VoiceService", "Voice tone estimated", map[string]interface{}{
		"tone":   tone,
		"energy": f.Energy,
		"pitch":  f.Pitch,
		"zcr":    f.ZeroCrossingRate,
	})

	return &dto.VoiceResponse{
		VoiceTone:        string(tone),
		Energy:           f.Energy,
		Pitch:            f.Pitch,
		ZeroCrossingRate: f.ZeroCrossingRate,
		Duration:         clip.Duration(),
	}, nil
}

func (s *voiceService) clip(req *dto.VoiceRequest) (*voice.Clip, error) {
	if audio := strings.TrimSpace(req.Audio); audio != "" {
		if i := strings.Index(audio, ";base64,"); i >= 0 && strings.HasPrefix(audio, "data:") {
			audio = audio[i+len(";base64,"):]
		}
		raw, err := base64.StdEncoding.DecodeString(audio)
		if err != nil {
			return nil, fmt.Errorf("%w: audio is not valid base64", serverutils.ErrBadRequest)
		}
		clip, err := voice.DecodeWAV(raw)
		if errors.Is(err, voice.ErrNotWAV) {
			return nil, fmt.Errorf("%w: audio must be a WAV file", serverutils.ErrBadRequest)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", serverutils.ErrBadRequest, err)
		}
		return clip, nil
	}

	if len(req.Samples) > 0 {
		rate := req.SampleRate
		if rate <= 0 {
			rate = voice.DefaultSampleRate
		}
		return &voice.Clip{Samples: req.Samples, SampleRate: rate}, nil
	}

	return nil, fmt.Errorf("%w: audio or samples is required", serverutils.ErrBadRequest)
}
