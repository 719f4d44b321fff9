package service

import (
	"context"
	"sort"
	"sync"

	"moodflix-be/internal/dto"
	"moodflix-be/internal/mapper"
	"moodflix-be/internal/metrics"
	"moodflix-be/internal/pkg/logger"
	"moodflix-be/internal/repository/contract"
	"moodflix-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// TopMoviesLimit caps the per-mood favourites reported by Stats.
const TopMoviesLimit = 5

type IConsumerService interface {
	// Consume seeds the counters from the log and then follows new selections.
	Consume(ctx context.Context) error
	Stats() *dto.SelectionStatsResponse
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	repo       contract.SelectionRepository
	logger     logger.ILogger

	mu     sync.RWMutex
	seeded map[string]struct{}
	total  int
	byMood map[string]int
	movies map[string]map[string]int
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	repo contract.SelectionRepository,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		repo:       repo,
		logger:     logger,
		seeded:     make(map[string]struct{}),
		byMood:     make(map[string]int),
		movies:     make(map[string]map[string]int),
	}
}

// Consume subscribes before reading the log so no selection falls between the two.
// Events for rows already counted from the log are skipped by their selection key.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	if cs.repo != nil {
		history, err := cs.repo.FindRecent(ctx, 0)
		if err != nil {
			cs.logger.Warn("ConsumerService", "Could not seed selection stats", map[string]interface{}{"error": err.Error()})
		}
		for _, s := range history {
			cs.record(s.Mood, s.MovieSelected)
			cs.markSeeded(mapper.SelectionKey(s))
		}
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	evt, err := events.Decode(msg.Payload)
	if err != nil || evt.EventType() != events.SelectionLogged {
		cs.logger.Warn("ConsumerService", "Dropping unreadable event", map[string]interface{}{"message_id": msg.UUID})
		msg.Ack()
		return
	}

	if key, _ := evt.Payload()["key"].(string); cs.takeSeeded(key) {
		msg.Ack()
		return
	}

	mood, _ := evt.Payload()["mood"].(string)
	movie, _ := evt.Payload()["movie"].(string)
	cs.record(mood, movie)
	metrics.SelectionsLogged.WithLabelValues(mood).Inc()

	cs.logger.Info("ConsumerService", "Selection logged", map[string]interface{}{
		"mood":  mood,
		"movie": movie,
		"city":  evt.Payload()["city"],
	})
	msg.Ack()
}

func (cs *consumerService) markSeeded(key string) {
	cs.mu.Lock()
	cs.seeded[key] = struct{}{}
	cs.mu.Unlock()
}

// takeSeeded reports whether key was counted while seeding. Each event is delivered
// once, so the key is forgotten after the match.
func (cs *consumerService) takeSeeded(key string) bool {
	if key == "" {
		return false
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if _, ok := cs.seeded[key]; !ok {
		return false
	}
	delete(cs.seeded, key)
	return true
}

func (cs *consumerService) record(mood, movie string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.total++
	cs.byMood[mood]++
	if cs.movies[mood] == nil {
		cs.movies[mood] = make(map[string]int)
	}
	cs.movies[mood][movie]++
}

func (cs *consumerService) Stats() *dto.SelectionStatsResponse {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	res := &dto.SelectionStatsResponse{
		Total:     cs.total,
		ByMood:    make(map[string]int, len(cs.byMood)),
		TopMovies: make(map[string][]dto.MovieCount, len(cs.movies)),
	}
	for mood, n := range cs.byMood {
		res.ByMood[mood] = n
	}
	for mood, counts := range cs.movies {
		res.TopMovies[mood] = TopMovies(counts, TopMoviesLimit)
	}
	return res
}

// TopMovies orders counts descending, ties alphabetically, and keeps limit entries.
func TopMovies(counts map[string]int, limit int) []dto.MovieCount {
	out := make([]dto.MovieCount, 0, len(counts))
	for movie, n := range counts {
		out = append(out, dto.MovieCount{Movie: movie, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Movie < out[j].Movie
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
