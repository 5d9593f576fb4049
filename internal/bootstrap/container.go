package bootstrap

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"ai-pdfstudy-be/internal/config"
	"ai-pdfstudy-be/internal/controller"
	"ai-pdfstudy-be/internal/pkg/logger"
	"ai-pdfstudy-be/internal/repository/memory"
	"ai-pdfstudy-be/internal/repository/unitofwork"
	"ai-pdfstudy-be/internal/service"
	"ai-pdfstudy-be/pkg/cache"
	"ai-pdfstudy-be/pkg/chunking"
	"ai-pdfstudy-be/pkg/conversation"
	"ai-pdfstudy-be/pkg/embedding"
	"ai-pdfstudy-be/pkg/events"
	"ai-pdfstudy-be/pkg/extraction"
	"ai-pdfstudy-be/pkg/llm/factory"
	pktNats "ai-pdfstudy-be/pkg/nats"
	"ai-pdfstudy-be/pkg/rag"
	"ai-pdfstudy-be/pkg/rag/session"
	"ai-pdfstudy-be/pkg/rag/state"
	"ai-pdfstudy-be/pkg/storage"
	"ai-pdfstudy-be/pkg/tokenizer"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	ChatbotController  controller.IChatbotController
	SummaryController  controller.ISummaryController
	QuizController     controller.IQuizController
	EmailController    controller.IEmailController
	// FileController is set only for the local object store.
	FileController controller.IFileController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	AuditService    service.IAuditService

	Logger  logger.ILogger
	closers []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c.Logger = sysLogger

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var eventPublisher events.Publisher = events.NopPublisher{}
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		c.AuditService = service.NewAuditService(natsSub, logger.NewIsolatedLogger(cfg.App.AuditLogFilePath))
		c.closers = append(c.closers, natsSub.Close)
	}

	// Redis
	var textCache *cache.DocumentCache
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, text cache disabled: %v", err)
		_ = rdb.Close()
	} else {
		textCache = cache.NewDocumentCache(rdb, cfg.Limits.DocumentCacheTTL)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// 3. Object Storage
	var objectStore storage.ObjectStore
	switch cfg.Storage.Provider {
	case "gcs":
		gcsStore, err := storage.NewGCSStore(ctx, cfg.Storage.Bucket, cfg.Storage.CredentialsFile)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize GCS storage: %v", err)
		}
		objectStore = gcsStore
		c.closers = append(c.closers, func() { _ = gcsStore.Close() })
		log.Printf("[INFO] Using Object Storage: GCS (%s)", cfg.Storage.Bucket)
	default:
		localStore, err := storage.NewLocalStore(cfg.Storage.LocalDir, cfg.App.BaseURL, cfg.Storage.SigningSecret)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize local storage: %v", err)
		}
		objectStore = localStore
		c.FileController = controller.NewFileController(localStore)
		log.Printf("[INFO] Using Object Storage: LOCAL (%s)", cfg.Storage.LocalDir)
	}
	fetcher := storage.NewFetcher(objectStore, &http.Client{Timeout: 2 * time.Minute})

	// 4. AI Providers
	embeddingProvider, err := embedding.NewProvider(embedding.Config{
		Provider:      cfg.Ai.EmbeddingProvider,
		GeminiAPIKey:  cfg.Keys.GoogleGemini,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		OllamaModel:   cfg.Ai.OllamaModel,
		JinaAPIKey:    cfg.Keys.Jina,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s", cfg.Ai.EmbeddingProvider)

	llmProvider, err := factory.NewLLMProvider(ctx, factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.LLMBaseURL,
		APIKey:   cfg.LLMAPIKey(),
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	counter, err := tokenizer.NewCounter(ctx, cfg.Ai.TokenizerProvider, cfg.Keys.GoogleGemini, cfg.Ai.LLMModel, cfg.Ai.TokenizerEncoding)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Tokenizer: %v", err)
	}
	for _, client := range []any{llmProvider, counter} {
		if closer, ok := client.(io.Closer); ok {
			c.closers = append(c.closers, func() { _ = closer.Close() })
		}
	}

	var ocr extraction.PageOCR
	if cfg.Ai.OCREnabled {
		tesseract := extraction.NewTesseractOCR(cfg.Ai.OCRLanguage)
		if tesseract.Available() {
			ocr = tesseract
		} else {
			log.Printf("[WARN] OCR enabled but pdftoppm/tesseract not found; scanned pages will be empty")
		}
	}
	extractor := extraction.NewPDFExtractor(ocr)

	// 5. Sessions & RAG
	sessionRepo := memory.NewSessionRepository(cfg.App.SessionTTL)
	publisherService := service.NewPublisherService(cfg.App.IndexTopic, pubSub)
	sessionManager := session.NewManager(sessionRepo, state.NewManager(sysLogger), publisherService, sysLogger)

	retriever := rag.NewRetriever(embeddingProvider, service.NewChunkSearcher(uowFactory), cfg.Ai.RetrievalTopK)
	chain := rag.NewChain(retriever, llmProvider)
	budget := conversation.NewManager(counter, cfg.Ai.MaxContextTokens)
	policy := chunking.NewPolicy()

	// 6. Services
	documentService := service.NewDocumentService(objectStore, fetcher, extractor, textCache, eventPublisher, sysLogger, cfg.Limits.MaxUploadPages)
	chatbotService := service.NewChatbotService(sessionManager, budget, chain, eventPublisher, sysLogger)
	summaryService := service.NewSummaryService(documentService, policy, llmProvider, cfg.Limits.GenerationConcurrency, eventPublisher, sysLogger)
	quizService := service.NewQuizService(documentService, policy, llmProvider, cfg.Limits.GenerationConcurrency, eventPublisher, sysLogger)
	emailService := service.NewEmailService(nil)

	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.App.IndexTopic,
		uowFactory,
		embeddingProvider,
		documentService,
		sessionManager,
		cfg.Limits.IndexConcurrency,
		eventPublisher,
		sysLogger,
	)

	// 7. Controllers
	c.DocumentController = controller.NewDocumentController(documentService)
	c.ChatbotController = controller.NewChatbotController(chatbotService)
	c.SummaryController = controller.NewSummaryController(summaryService)
	c.QuizController = controller.NewQuizController(quizService)
	c.EmailController = controller.NewEmailController(emailService)

	return c
}

// Close releases broker, cache and storage connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
