package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/dotworkers/api/internal/auth"
	"github.com/dotworkers/api/internal/client"
	"github.com/dotworkers/api/internal/config"
	"github.com/dotworkers/api/internal/filing"
	"github.com/dotworkers/api/internal/handler"
	"github.com/dotworkers/api/internal/middleware"
	"github.com/dotworkers/api/internal/service"
	"github.com/dotworkers/api/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available: %v", err)
	}

	// Initialize validator
	validate := validator.New()

	// Initialize external clients
	airtableClient := client.NewAirtableClient(&cfg.Airtable)
	anthropicClient := client.NewAnthropicClient(&cfg.Anthropic)
	connectClient := client.NewConnectClient(&cfg.Connect)
	dropboxClient := client.NewDropboxClient(&cfg.Dropbox)

	// Initialize the archive mirror (optional - filing works without it)
	var archiver client.MessageArchiver
	if cfg.Archive.AccessKeyID != "" && cfg.Archive.SecretAccessKey != "" {
		r2, err := client.NewR2Archive(&cfg.Archive)
		if err != nil {
			log.Printf("Warning: archive not initialized: %v", err)
		} else {
			archiver = r2
		}
	} else {
		log.Println("Info: message archive not configured")
	}

	filer := filing.NewFiler(dropboxClient, archiver)

	// Initialize Entra JWKS verifier (optional - falls back to shared secret)
	var verifier auth.TokenVerifier
	if cfg.Auth.EntraTenantID != "" {
		entraVerifier, err := auth.NewEntraVerifier(&cfg.Auth)
		if err != nil {
			log.Printf("Warning: JWKS verifier not initialized: %v", err)
		} else {
			verifier = entraVerifier
			defer entraVerifier.Close()
		}
	}

	linkIssuer := auth.NewLinkTokenIssuer(&cfg.Hub)

	// Initialize services
	updateService := service.NewUpdateService(airtableClient, anthropicClient, connectClient, filer)
	setupService := service.NewSetupService(airtableClient, anthropicClient, connectClient, filer, linkIssuer)
	fileService := service.NewFileService(airtableClient, connectClient, filer)
	digestService := service.NewDigestService(airtableClient, connectClient, linkIssuer, &cfg.Digest)

	// Initialize handlers
	updateHandler := handler.NewUpdateHandler(updateService, validate)
	setupHandler := handler.NewSetupHandler(setupService, validate)
	fileHandler := handler.NewFileHandler(fileService, validate)
	digestHandler := handler.NewDigestHandler(digestService, validate)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(verifier, cfg.Auth.SharedSecret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	isDebug := strings.EqualFold(cfg.Server.LogLevel, "debug")
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if isDebug {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${body}\n"
		log.Println("Debug logging enabled")
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Worker-Key",
	}))

	// Base URL - timestamp
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"timestamp": time.Now().Unix(),
		})
	})

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"airtable":  airtableClient.IsConfigured(),
				"anthropic": anthropicClient.IsConfigured(),
				"dropbox":   dropboxClient.IsConfigured(),
				"archive":   archiver != nil,
				"auth":      verifier != nil || cfg.Auth.SharedSecret != "",
			},
		})
	})

	// Worker routes
	workers := app.Group("/", authMiddleware.Authenticate())
	workers.Post("/update", rateLimiter.UpdateLimit(cfg.RateLimit.UpdatePerMin), updateHandler.Process)
	workers.Post("/setup", rateLimiter.SetupLimit(cfg.RateLimit.SetupPerMin), setupHandler.Process)
	workers.Post("/file", rateLimiter.FileLimit(cfg.RateLimit.FilePerMin), fileHandler.Process)
	workers.Get("/todo/email", digestHandler.SendTodo)
	workers.Post("/wip/email", rateLimiter.WipLimit(cfg.RateLimit.WipPerHour), digestHandler.SendWip)

	// Start the digest scheduler and worker server
	if cfg.Digest.Enabled {
		go startWorkerServer(cfg, digestService)
		go startScheduler(cfg)
	} else {
		log.Println("Info: daily digest disabled")
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func startWorkerServer(cfg *config.Config, digestService *service.DigestService) {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	digestWorker := worker.NewDigestWorker(digestService)

	mux := asynq.NewServeMux()
	mux.HandleFunc(worker.TaskTypeTodoDigest, digestWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}

func startScheduler(cfg *config.Config) {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		&asynq.SchedulerOpts{},
	)

	if _, err := scheduler.Register(cfg.Digest.DailyCron, worker.NewTodoDigestTask()); err != nil {
		log.Printf("Failed to register digest schedule: %v", err)
		return
	}

	log.Printf("Digest scheduled: %s", cfg.Digest.DailyCron)
	if err := scheduler.Run(); err != nil {
		log.Printf("Asynq scheduler error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
