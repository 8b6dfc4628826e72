package bootstrap

import (
	"context"
	"fmt"

	"notealog/internal/config"
	"notealog/internal/controller"
	"notealog/internal/pkg/logger"
	"notealog/internal/repository/unitofwork"
	"notealog/internal/service"
	"notealog/pkg/cache"
	"notealog/pkg/categorizer"
	"notealog/pkg/embedding"
	"notealog/pkg/llm/factory"
	pktNats "notealog/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger *logger.ZapLogger

	FolderController     controller.IFolderController
	NoteController       controller.INoteController
	CategorizeController controller.ICategorizeController

	ConsumerService  service.IConsumerService
	SchedulerService service.ISchedulerService // nil without AUTO_CATEGORIZE_CRON

	closers []func()
}

// Close releases the connections opened by NewContainer.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c.Logger = sysLogger

	// 2. Job queue
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Events, optional
	var eventPublisher service.IEventPublisher = service.NopEventPublisher()
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS unavailable, events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 4. Categorization
	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		OpenAIKey:     cfg.Ai.OpenAIKey,
		OpenAIBaseURL: cfg.Ai.OpenAIBaseURL,
		AnthropicKey:  cfg.Ai.AnthropicKey,
	})
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "llm provider ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	engine := categorizer.NewEngine(
		service.NewCatalog(uowFactory),
		embedding.NewClient(cfg.Ai.EmbeddingServiceURL),
		llmProvider,
		categorizer.WithMemo(newMemo(cfg, sysLogger, c)),
		categorizer.WithModel(cfg.Ai.LLMModel),
		categorizer.WithMaxTokens(cfg.Ai.LLMMaxTokens),
		categorizer.WithLogger(sysLogger),
	)

	// 5. Services
	folderService := service.NewFolderService(uowFactory, eventPublisher, sysLogger)
	noteService := service.NewNoteService(uowFactory, sysLogger)
	publisherService := service.NewPublisherService(pubSub, cfg.Jobs.AutoCategorizeTopic)
	categorizeService := service.NewCategorizeService(
		uowFactory,
		engine,
		folderService,
		publisherService,
		eventPublisher,
		cfg.Ai.CategorizeLimit,
		sysLogger,
	)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.Jobs.AutoCategorizeTopic, categorizeService, sysLogger)

	if cfg.Jobs.AutoCategorizeCron != "" {
		scheduler, err := service.NewSchedulerService(cfg.Jobs.AutoCategorizeCron, categorizeService, sysLogger)
		if err != nil {
			return nil, err
		}
		c.SchedulerService = scheduler
	}

	// 6. Controllers
	c.FolderController = controller.NewFolderController(folderService)
	c.NoteController = controller.NewNoteController(noteService)
	c.CategorizeController = controller.NewCategorizeController(categorizeService)

	return c, nil
}

// newMemo picks Redis when configured and reachable, the in-process cache
// otherwise.
func newMemo(cfg *config.Config, log logger.ILogger, c *Container) cache.Memo {
	if cfg.Ai.CategorizeCacheTTL <= 0 {
		return cache.NopMemo{}
	}
	if cfg.App.RedisURL == "" {
		return cache.NewMemoryMemo(cfg.Ai.CategorizeCacheTTL)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Warn("BOOTSTRAP", "failed to parse Redis URL, using direct addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Redis unavailable, using in-process memo", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return cache.NewMemoryMemo(cfg.Ai.CategorizeCacheTTL)
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return cache.NewRedisMemo(rdb, cfg.Ai.CategorizeCacheTTL, log)
}
