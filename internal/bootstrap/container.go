package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"moodflix-be/internal/config"
	"moodflix-be/internal/controller"
	"moodflix-be/internal/model"
	"moodflix-be/internal/pkg/logger"
	"moodflix-be/internal/repository/contract"
	"moodflix-be/internal/repository/implementation"
	"moodflix-be/internal/repository/memory"
	"moodflix-be/internal/service"
	"moodflix-be/pkg/ambient"
	"moodflix-be/pkg/cache"
	"moodflix-be/pkg/candidate"
	"moodflix-be/pkg/database"
	"moodflix-be/pkg/emotion"
	"moodflix-be/pkg/llm"
	"moodflix-be/pkg/llm/breaker"
	"moodflix-be/pkg/llm/factory"
	"moodflix-be/pkg/llm/ollama"
	pktNats "moodflix-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	HealthController    controller.IHealthController
	ContextController   controller.IContextController
	EmotionController   controller.IEmotionController
	RecommendController controller.IRecommendController
	SelectionController controller.ISelectionController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func() error
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	lookupCache := newCache(ctx, cfg, sysLogger)
	httpClient := &http.Client{Timeout: 5 * time.Second}

	// 2. Ambient context
	locator := ambient.NewLocator(cfg.Ambient.GeoURL, httpClient, lookupCache, cfg.Ambient.CacheTTL)
	weather := ambient.NewWeatherClient(cfg.Ambient.WeatherAPIKey, cfg.Ambient.WeatherURL, httpClient, lookupCache, cfg.Ambient.CacheTTL)
	calendar := ambient.NewHolidayCalendar(cfg.Ambient.CountryCode)
	contextService := service.NewContextService(locator, weather, calendar, sysLogger)

	// 3. Language model backends
	textModel, err := newTextModel(cfg, sysLogger)
	if err != nil {
		return nil, err
	}
	producer := candidate.NewProducer(textModel, cfg.Ai.Timeout)

	visionBase := cfg.Ai.OllamaBaseURL
	if visionBase == "" {
		visionBase = "http://localhost:11434"
	}
	vision := breaker.Wrap(ollama.NewOllamaProvider(visionBase, cfg.Ai.VisionModel), breakerConfig("vision", sysLogger))
	classifier := emotion.NewClassifier(emotion.NewLLMAnalyzer(vision, cfg.Ai.VisionModel), emotion.WithTimeout(cfg.Ai.Timeout))
	classifier.OnError(func(err error) {
		sysLogger.Warn("EmotionClassifier", "Falling back to neutral", map[string]interface{}{"error": err.Error()})
	})

	// 4. Selection log
	selectionRepo, err := NewSelectionRepository(cfg)
	if err != nil {
		return nil, err
	}
	historyRepo := memory.NewEmotionHistoryRepository(cfg.App.HistorySize)

	// 5. Event Bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, pubSub.Close)
	bus := service.NewPublisherService(pubSub, service.SelectionTopic)

	var broker service.IEventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS unavailable, selections stay local", map[string]interface{}{"error": err.Error()})
		} else {
			broker = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}

	// 6. Services
	emotionService := service.NewEmotionService(classifier, historyRepo, sysLogger)
	voiceService := service.NewVoiceService(sysLogger)
	selectionService := service.NewSelectionService(selectionRepo, bus, broker, sysLogger)
	consumerService := service.NewConsumerService(pubSub, service.SelectionTopic, selectionRepo, sysLogger)

	recommendCfg := service.DefaultRecommendConfig()
	recommendCfg.Ranking.MaxRows = cfg.Ranking.MaxRows
	recommendCfg.FitTimeout = cfg.Ranking.FitTimeout
	recommendService := service.NewRecommendService(contextService, producer, selectionRepo, recommendCfg, sysLogger)

	// 7. Controllers
	c.HealthController = controller.NewHealthController()
	c.ContextController = controller.NewContextController(contextService)
	c.EmotionController = controller.NewEmotionController(emotionService, voiceService)
	c.RecommendController = controller.NewRecommendController(recommendService)
	c.SelectionController = controller.NewSelectionController(selectionService, consumerService)
	c.ConsumerService = consumerService

	return c, nil
}

// Close releases brokers and flushes the logger.
func (c *Container) Close() error {
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	_ = c.Logger.Sync()
	return first
}

func newCache(ctx context.Context, cfg *config.Config, log logger.ILogger) cache.Cache {
	if cfg.App.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.App.RedisURL)
		if err == nil {
			return cache.NewRedisCache(rdb, "moodflix:")
		}
		log.Warn("Bootstrap", "Redis unavailable, using in-memory cache", map[string]interface{}{"error": err.Error()})
	}
	return cache.NewMemoryCache(cfg.Ambient.CacheTTL, 2*cfg.Ambient.CacheTTL)
}

func newTextModel(cfg *config.Config, log logger.ILogger) (llm.LLMProvider, error) {
	baseURL := cfg.Ai.OllamaBaseURL
	if cfg.Ai.LLMProvider == "cli" {
		baseURL = cfg.Ai.CLIBinary
	}
	if cfg.Ai.LLMProvider == "huggingface" {
		baseURL = ""
	}

	provider, err := factory.NewLLMProvider(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, baseURL, cfg.Ai.APIKey)
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}
	log.Info("Bootstrap", "Using LLM provider", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})
	return breaker.Wrap(provider, breakerConfig("generator", log)), nil
}

func breakerConfig(name string, log logger.ILogger) breaker.Config {
	bc := breaker.DefaultConfig(name)
	bc.OnStateChange = func(name, from, to string) {
		log.Warn("CircuitBreaker", "State changed", map[string]interface{}{
			"breaker": name,
			"from":    from,
			"to":      to,
		})
	}
	return bc
}

// NewSelectionRepository opens the selection log configured by STORE_BACKEND.
func NewSelectionRepository(cfg *config.Config) (contract.SelectionRepository, error) {
	switch cfg.Store.Backend {
	case "", "csv":
		return implementation.NewSelectionCSVRepository(cfg.Store.CSVPath), nil
	case "postgres":
		db, err := database.NewGormDBFromDSN(cfg.Store.Connection, !cfg.IsProduction(), &model.SelectionLog{})
		if err != nil {
			return nil, fmt.Errorf("connect selection store: %w", err)
		}
		return implementation.NewSelectionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}
