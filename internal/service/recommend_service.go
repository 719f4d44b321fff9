package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"moodflix-be/internal/dto"
	"moodflix-be/internal/entity"
	"moodflix-be/internal/mapper"
	"moodflix-be/internal/metrics"
	"moodflix-be/internal/pkg/logger"
	"moodflix-be/internal/repository/contract"
	"moodflix-be/internal/tracer"
	"moodflix-be/pkg/candidate"
	"moodflix-be/pkg/emotion"
	"moodflix-be/pkg/ranking"
)

// ICandidateProducer proposes candidate titles for a context.
type ICandidateProducer interface {
	Produce(ctx context.Context, req candidate.Request) candidate.Result
}

type RecommendConfig struct {
	Ranking    ranking.Config
	FitTimeout time.Duration
}

func DefaultRecommendConfig() RecommendConfig {
	return RecommendConfig{Ranking: ranking.DefaultConfig(), FitTimeout: 5 * time.Second}
}

type IRecommendService interface {
	Recommend(ctx context.Context, req *dto.RecommendRequest) (*dto.RecommendResponse, error)
}

type recommendService struct {
	contexts   IContextService
	producer   ICandidateProducer
	selections contract.SelectionRepository
	cfg        RecommendConfig
	ctxMapper  *mapper.ContextMapper
	selMapper  *mapper.SelectionMapper
	logger     logger.ILogger
}

func NewRecommendService(
	contexts IContextService,
	producer ICandidateProducer,
	selections contract.SelectionRepository,
	cfg RecommendConfig,
	logger logger.ILogger,
) IRecommendService {
	return &recommendService{
		contexts:   contexts,
		producer:   producer,
		selections: selections,
		cfg:        cfg,
		ctxMapper:  mapper.NewContextMapper(),
		selMapper:  mapper.NewSelectionMapper(),
		logger:     logger,
	}
}

func (s *recommendService) Recommend(ctx context.Context, req *dto.RecommendRequest) (*dto.RecommendResponse, error) {
	c := s.contexts.FromRecommendRequest(req)
	if req.EmotionConfidence != nil {
		c.Emotion = emotion.Gate(c.Emotion, c.EmotionConfidence, emotion.ConfidenceThreshold)
	}

	// the pipeline finishes even if the client goes away
	work := context.WithoutCancel(ctx)

	var (
		wg      sync.WaitGroup
		result  candidate.Result
		ordered []string
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		result = s.produce(work, c)
	}()
	go func() {
		defer wg.Done()
		ordered = s.rank(work, c)
	}()
	wg.Wait()

	rankingAvailable := ordered != nil
	titles := candidate.Merge(result.Candidates, ordered)

	source := "hybrid"
	switch {
	case len(titles) == 0:
		source = "empty"
	case !rankingAvailable:
		source = "candidates_only"
	}
	metrics.RecommendationsServed.WithLabelValues(source).Inc()

	rec := entity.Recommendation{
		Titles:           titles,
		Candidates:       result.Candidates,
		Emotion:          c.Emotion,
		Reasoning:        Reasoning(c),
		RankingAvailable: rankingAvailable,
	}

	s.logger.Info("RecommendService", "Recommendations served", map[string]interface{}{
		"emotion":           rec.Emotion,
		"candidates":        len(rec.Candidates),
		"recommendations":   len(rec.Titles),
		"ranking_available": rec.RankingAvailable,
	})

	return &dto.RecommendResponse{
		Recommendations:  rec.Titles,
		Emotion:          rec.Emotion,
		Weather:          c.Ambient.WeatherDescription,
		Temperature:      c.Ambient.Temperature,
		Reasoning:        rec.Reasoning,
		Candidates:       rec.Candidates,
		RankingAvailable: rec.RankingAvailable,
	}, nil
}

// Reasoning is the one-line explanation returned with every recommendation.
func Reasoning(c entity.Context) string {
	return fmt.Sprintf("Recommended for your %s mood on a %s during %s.",
		c.Emotion, c.Calendar.TodayStatus, c.Ambient.WeatherDescription)
}

func (s *recommendService) produce(ctx context.Context, c entity.Context) candidate.Result {
	ctx, span := tracer.Start(ctx, "recommend.produce")
	defer span.End()

	start := time.Now()
	res := s.producer.Produce(ctx, candidate.Request{
		Emotion:     c.Emotion,
		VoiceTone:   c.VoiceTone,
		City:        c.Location.City,
		Weather:     c.Ambient.WeatherDescription,
		Temperature: c.Ambient.Temperature,
		TodayStatus: c.Calendar.TodayStatus,
		Watched:     c.WatchedItems,
		Available:   c.AvailableItems,
	})
	metrics.RecordGeneration(time.Since(start), len(res.Candidates), res.Err)

	if res.Err != nil {
		s.logger.Warn("RecommendService", "Candidate generation failed", map[string]interface{}{"error": res.Err.Error()})
	}
	if res.Candidates == nil {
		res.Candidates = []string{}
	}
	return res
}

// rank returns labels ordered by preference, or nil when no model can score c.
func (s *recommendService) rank(ctx context.Context, c entity.Context) []string {
	ctx, span := tracer.Start(ctx, "recommend.rank")
	defer span.End()

	start := time.Now()
	ordered, err := s.fitAndPredict(ctx, c)
	outcome := "available"
	switch {
	case errors.Is(err, ranking.ErrUnseenCategory):
		outcome = "unseen"
	case err != nil:
		outcome = "unavailable"
	}
	metrics.RecordRanking(time.Since(start), outcome)

	if err != nil {
		s.logger.Debug("RecommendService", "Ranking unavailable", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return ordered
}

func (s *recommendService) fitAndPredict(ctx context.Context, c entity.Context) ([]string, error) {
	if s.selections == nil {
		return nil, ranking.ErrUnavailable
	}

	history, err := s.selections.FindRecent(ctx, s.cfg.Ranking.MaxRows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ranking.ErrUnavailable, err)
	}

	if s.cfg.FitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.FitTimeout)
		defer cancel()
	}

	model, err := ranking.Fit(ctx, s.selMapper.ToExamples(history), s.cfg.Ranking)
	if err != nil {
		return nil, err
	}
	pred, err := model.Predict(s.ctxMapper.ToQuery(c))
	if err != nil {
		return nil, err
	}
	return pred.Ordered(), nil
}
