package service

import (
	"context"
	"fmt"
	"time"

	"moodflix-be/internal/dto"
	"moodflix-be/internal/mapper"
	"moodflix-be/internal/metrics"
	"moodflix-be/internal/pkg/logger"
	"moodflix-be/internal/pkg/serverutils"
	"moodflix-be/internal/repository/contract"
	"moodflix-be/pkg/events"
)

type ISelectionService interface {
	// Log appends the selection before returning, so the next recommend call trains
	// on it.
	Log(ctx context.Context, req *dto.LogSelectionRequest) (*dto.LogSelectionResponse, error)
}

type selectionService struct {
	repo   contract.SelectionRepository
	bus    IEventPublisher
	broker IEventPublisher
	mapper *mapper.SelectionMapper
	logger logger.ILogger
}

// NewSelectionService wires the log store with the in-process bus and an optional
// external broker. Either publisher may be nil.
func NewSelectionService(
	repo contract.SelectionRepository,
	bus IEventPublisher,
	broker IEventPublisher,
	logger logger.ILogger,
) ISelectionService {
	return &selectionService{
		repo:   repo,
		bus:    bus,
		broker: broker,
		mapper: mapper.NewSelectionMapper(),
		logger: logger,
	}
}

func (s *selectionService) Log(ctx context.Context, req *dto.LogSelectionRequest) (*dto.LogSelectionResponse, error) {
	selection := s.mapper.FromRequest(req, time.Now().UTC())
	if selection.MovieSelected == "" {
		return nil, fmt.Errorf("%w: movie must not be blank", serverutils.ErrBadRequest)
	}

	if err := s.repo.Append(ctx, selection); err != nil {
		metrics.SelectionLogErrors.Inc()
		s.logger.Error("SelectionService", "Failed to append selection", map[string]interface{}{
			"error": err.Error(),
			"movie": selection.MovieSelected,
		})
		return nil, fmt.Errorf("append selection: %w", err)
	}

	evt := events.New(events.SelectionLogged, s.mapper.ToEventPayload(selection))
	s.publish(ctx, "gochannel", s.bus, evt)
	s.publish(ctx, "nats", s.broker, evt)

	return &dto.LogSelectionResponse{Status: "logged"}, nil
}

// publish failures never fail the request; the row is already stored.
func (s *selectionService) publish(ctx context.Context, transport string, p IEventPublisher, evt events.Event) {
	if p == nil {
		return
	}
	err := p.Publish(ctx, evt)
	metrics.RecordEventPublish(transport, err)
	if err != nil {
		s.logger.Warn("SelectionService", "Failed to publish SELECTION_LOGGED event", map[string]interface{}{
			"error":     err.Error(),
			"transport": transport,
		})
	}
}
