package service

import (
	"context"
	"strings"
	"time"

	"moodflix-be/internal/dto"
	"moodflix-be/internal/metrics"
	"moodflix-be/internal/pkg/logger"
	"moodflix-be/internal/repository/contract"
	"moodflix-be/pkg/emotion"
)

type IEmotionClassifier interface {
	ClassifyBase64(ctx context.Context, payload string) emotion.Reading
}

type IEmotionService interface {
	Detect(ctx context.Context, req *dto.EmotionRequest) (*dto.EmotionResponse, error)
}

type emotionService struct {
	classifier IEmotionClassifier
	histories  contract.EmotionHistoryRepository
	logger     logger.ILogger
}

func NewEmotionService(
	classifier IEmotionClassifier,
	histories contract.EmotionHistoryRepository,
	logger logger.ILogger,
) IEmotionService {
	return &emotionService{
		classifier: classifier,
		histories:  histories,
		logger:     logger,
	}
}

func (s *emotionService) Detect(ctx context.Context, req *dto.EmotionRequest) (*dto.EmotionResponse, error) {
	reading := s.classifier.ClassifyBase64(ctx, req.Image)
	metrics.EmotionReadings.WithLabelValues(reading.Label).Inc()

	res := &dto.EmotionResponse{
		Emotion:    reading.Label,
		Confidence: reading.Confidence,
	}

	sessionId := strings.TrimSpace(req.SessionId)
	if sessionId == "" || s.histories == nil {
		return res, nil
	}

	history := s.histories.GetOrCreate(sessionId)
	res.HistorySize = history.Add(emotion.Sample{
		Label:      reading.Label,
		Confidence: reading.Confidence,
		Timestamp:  time.Now(),
	})
	res.SmoothedEmotion = history.Dominant(emotion.ConfidenceThreshold)

	s.logger.Debug("EmotionService", "Emotion sample recorded", map[string]interface{}{
		"session_id": sessionId,
		"emotion":    reading.Label,
		"confidence": reading.Confidence,
		"smoothed":   res.SmoothedEmotion,
	})
	return res, nil
}
