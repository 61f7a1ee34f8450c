package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"recruitdesk/screening-service/internal/config"
	"recruitdesk/screening-service/internal/handlers"
	"recruitdesk/screening-service/internal/mail"
	"recruitdesk/screening-service/internal/repositories"
	"recruitdesk/screening-service/internal/services"
	"recruitdesk/screening-service/internal/state"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	candidateRepo := repositories.NewCandidateRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize local state store
	stateStore, err := state.NewFileStore(cfg.State.FilePath)
	if err != nil {
		log.Fatalf("❌ Failed to initialize state store: %v", err)
	}

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	encoder := services.NewDocumentEncoder()
	pdfParser := services.NewPDFParserService()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize criteria source and audit log
	criteriaService, err := services.NewCriteriaService(ctx, cfg.Sheets)
	if err != nil {
		log.Fatalf("❌ Failed to initialize criteria source: %v", err)
	}

	auditLogger, err := services.NewSheetAuditLogger(ctx, cfg.Sheets)
	if err != nil {
		log.Fatalf("❌ Failed to initialize audit logger: %v", err)
	}

	// Initialize role index
	roleIndex, err := services.NewRoleIndexService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		geminiService,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize role index: %v", err)
	}

	if err := roleIndex.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize role collection: %v", err)
	}
	log.Println("✅ Role index initialized successfully")

	// Initialize screening pipeline
	screeningClient := services.NewScreeningClient(geminiService)
	orchestrator := services.NewOrchestrator(criteriaService, screeningClient, auditLogger, roleIndex)
	committer := services.NewCommitter(candidateRepo, activityRepo)
	log.Println("✅ Screening pipeline initialized")

	// Initialize mailbox ingestion
	tokenManager := mail.NewTokenManager(cfg.Graph, stateStore)
	graphClient := mail.NewGraphClient()
	poller := mail.NewPoller(
		orchestrator,
		committer,
		graphClient,
		tokenManager,
		stateStore,
		pdfParser,
		cfg.Poller.Interval,
		cfg.Poller.MaxMessages,
		cfg.Poller.MaxAttempts,
	)

	// Start poller
	poller.Start(ctx)
	log.Println("✅ Mailbox poller started successfully")

	// Initialize Handlers
	screenHandler := handlers.NewScreenHandler(
		orchestrator,
		committer,
		storageService,
		encoder,
		pdfParser,
		cfg.Storage.MaxFileSize,
	)
	mailboxHandler := handlers.NewMailboxHandler(poller, tokenManager, graphClient)
	roleHandler := handlers.NewRoleHandler(criteriaService, roleIndex)
	candidateHandler := handlers.NewCandidateHandler(candidateRepo, activityRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Recruit Screening API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/screen", screenHandler.HandleScreen)
	api.Get("/roles", roleHandler.HandleListRoles)
	api.Get("/roles/suggest", roleHandler.HandleSuggestRoles)
	api.Get("/candidates", candidateHandler.HandleListCandidates)
	api.Get("/candidates/:id", candidateHandler.HandleGetCandidate)
	api.Get("/mailbox/status", mailboxHandler.HandleStatus)
	api.Get("/mailbox/connect", mailboxHandler.HandleConnect)
	api.Get("/mailbox/callback", mailboxHandler.HandleCallback)
	api.Post("/mailbox/disconnect", mailboxHandler.HandleDisconnect)
	api.Post("/mailbox/monitoring", mailboxHandler.HandleMonitoring)
	api.Post("/mailbox/poll", mailboxHandler.HandlePoll)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Recruit Screening API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/screen",
				"GET /api/v1/roles",
				"GET /api/v1/candidates",
				"GET /api/v1/mailbox/status",
				"POST /api/v1/mailbox/poll",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		poller.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
