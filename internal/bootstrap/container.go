package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ai-reportdraft-be/internal/config"
	"ai-reportdraft-be/internal/controller"
	"ai-reportdraft-be/internal/handler"
	"ai-reportdraft-be/internal/pkg/logger"
	memoryrepo "ai-reportdraft-be/internal/repository/memory"
	"ai-reportdraft-be/internal/repository/unitofwork"
	"ai-reportdraft-be/internal/service"
	"ai-reportdraft-be/internal/websocket"
	"ai-reportdraft-be/pkg/embedding"
	"ai-reportdraft-be/pkg/guide"
	"ai-reportdraft-be/pkg/llm/factory"
	pkgNats "ai-reportdraft-be/pkg/nats"
	"ai-reportdraft-be/pkg/search"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	ChatController    controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WorkflowHandler *handler.WorkflowHandler
	WebSocketHub    *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.Default()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		log.Printf("[INFO] Embedding disabled, semantic recall unavailable")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS is opt-in; the in-process bus alone serves single instance
	// deployments.
	var natsPub *pkgNats.Publisher
	if cfg.App.NatsEnabled {
		natsPub, err = pkgNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	// Redis for cross-instance websocket fanout, also opt-in.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/workflow.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Services
	memoryStore := memoryrepo.NewStore(db, embeddingProvider, sysLogger)
	guideParser := guide.NewParser(llmProvider, stdLogger)

	publisherService := service.NewPublisherService(pubSub, sysLogger)
	consumerService := service.NewConsumerService(
		pubSub,
		service.WorkflowEventsTopic,
		wsHub,
		natsPub,
	)

	sessionService := service.NewSessionService(
		uowFactory,
		guideParser,
		memoryStore,
		publisherService,
		sysLogger,
	)
	orchestratorService := service.NewOrchestratorService(
		uowFactory,
		memoryStore,
		llmProvider,
		search.NoopProvider{},
		publisherService,
		stdLogger,
	)

	// Handler
	workflowHandler := handler.NewWorkflowHandler(wsHub, wsLogger)

	return &Container{
		SessionController: controller.NewSessionController(sessionService, orchestratorService),
		ChatController:    controller.NewChatController(orchestratorService),

		ConsumerService: consumerService,

		WorkflowHandler: workflowHandler,
		WebSocketHub:    wsHub,
	}
}
