package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quiz-engine/internal/adapter"
	"quiz-engine/internal/cache"
	"quiz-engine/internal/config"
	"quiz-engine/internal/database"
	"quiz-engine/internal/handler"
	"quiz-engine/internal/logger"
	"quiz-engine/internal/middleware"
	"quiz-engine/internal/repository"
	"quiz-engine/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize repositories
	questionRepository := repository.NewQuestionDatabaseAdapter(db)
	attemptRepository := repository.NewAttemptDatabaseAdapter(db)
	responseRepository := repository.NewResponseDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize Redis client
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	sessionStore := adapter.NewRedisSessionStore(redisClient, cfg.Session.TTL)

	// Initialize services
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	selector := service.NewSelector(questionRepository, cfg.Quiz, rng)
	quizSessionService := service.NewQuizSessionService(
		questionRepository,
		attemptRepository,
		responseRepository,
		sessionStore,
		selector,
		txManager,
	)
	contentService := service.NewContentService(questionRepository, cacheAdapter, txManager)
	historyService := service.NewHistoryService(attemptRepository)

	// Initialize handlers
	quizSessionHandler := handler.NewQuizSessionHandler(quizSessionService, cfg.Session)
	contentHandler := handler.NewContentHandler(contentService)
	historyHandler := handler.NewHistoryHandler(historyService)
	healthHandler := handler.NewHealthHandler(cacheAdapter)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())
	app.Use(middleware.OptionalActor(cfg.Auth.JWTSecret))

	app.Get("/health", healthHandler.Check)

	// API group
	apiGroup := app.Group("/api")

	// Quiz-taking routes; anonymous access is allowed
	apiGroup.Post("/quiz/start", quizSessionHandler.StartQuiz)
	apiGroup.Get("/quiz/question", quizSessionHandler.GetCurrentQuestion)
	apiGroup.Post("/quiz/answer", quizSessionHandler.SubmitAnswer)
	apiGroup.Get("/quiz/results/:attemptId", quizSessionHandler.GetResults)

	// Category routes
	apiGroup.Get("/categories", contentHandler.GetCategories)

	// History routes (actor required)
	apiGroup.Get("/me/attempts", middleware.RequireActor(), historyHandler.GetMyAttempts)

	// Admin content routes (actor required)
	adminGroup := apiGroup.Group("/admin", middleware.RequireActor())
	adminGroup.Post("/categories", contentHandler.CreateCategory)
	adminGroup.Post("/questions", contentHandler.CreateQuestion)
	adminGroup.Put("/questions/:id/correct-choice", contentHandler.SetCorrectChoice)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
