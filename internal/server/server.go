// Package server contains the HTTP handlers for the CodeLearn API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "codelearn/docs" // swagger docs
	"codelearn/internal/auth"
	"codelearn/internal/cache"
	"codelearn/internal/config"
	"codelearn/internal/database"
	"codelearn/internal/llm"
	"codelearn/internal/middleware"
	"codelearn/internal/repository"
	"codelearn/internal/service"
	"codelearn/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const serviceName = "codelearn-api"

// Server holds all dependencies and provides handlers
type Server struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client
	app    *fiber.App

	authService       *service.AuthService
	usageService      *service.UsageService
	projectService    *service.ProjectService
	generationService *service.GenerationService
	feedbackService   *service.FeedbackService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := database.ApplySchema(context.Background(), db, cfg); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("schema setup failed: %w", err)
	}

	redisClient := cache.Connect(context.Background(), cfg.RedisURL)

	generator := llm.New(llm.Config{
		Endpoint: cfg.LLMAPIURL,
		APIKey:   cfg.LLMAPIKey,
		Model:    cfg.LLMModel,
		Timeout:  cfg.LLMTimeout(),
	})

	return NewServerWithDeps(cfg, db, redisClient, generator)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil, in which case caching and token revocation are disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, generator llm.Generator) (*Server, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if generator == nil {
		generator = &llm.MockClient{}
	}

	var opts []auth.TokenOption
	if denylist := cache.NewTokenDenylist(redisClient); denylist != nil {
		opts = append(opts, auth.WithDenylist(denylist))
	}
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL(), opts...)

	store := cache.NewStore(redisClient)
	userRepo := repository.NewUserRepository(db, store)
	usageRepo := repository.NewUsageRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	usageService := service.NewUsageService(usageRepo, cfg.FreeTierLimit)

	return &Server{
		config:            cfg,
		db:                db,
		redis:             redisClient,
		authService:       service.NewAuthService(userRepo, auth.NewBcryptHasher(cfg.BcryptCost), tokens),
		usageService:      usageService,
		projectService:    service.NewProjectService(projectRepo),
		generationService: service.NewGenerationService(usageService, generator),
		feedbackService: service.NewFeedbackService(
			repository.NewFeedbackRepository(db),
			repository.NewEarlyAccessRepository(db),
		),
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	// Request metrics and the /metrics endpoint
	middleware.RegisterMetrics(app, serviceName)

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := strings.Join(s.config.Origins(), ",")
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	api := app.Group("/api")
	api.Get("/", s.ReadinessCheck)
	api.Get("/swagger/*", swagger.HandlerDefault)
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "CodeLearn API Metrics",
	}))

	// Auth routes exist at the top level and under /auth.
	for _, group := range []fiber.Router{api, api.Group("/auth")} {
		group.Post("/register", middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
		group.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
		group.Get("/me", s.AuthRequired(), s.Me)
		group.Post("/logout", s.Logout)
	}
	api.Post("/update-password", s.AuthRequired(),
		middleware.RateLimit(s.redis, 5, 10*time.Minute, "update_password"), s.UpdatePassword)

	// Usage metering
	api.Post("/feature-usage/:featureType", s.OptionalAuth(), s.TrackFeatureUsage)
	api.Get("/feature-usage/:featureType/count", s.OptionalAuth(), s.FeatureUsageCount)
	api.Post("/track-usage", s.OptionalAuth(), s.TrackUsage)

	// AI tools
	generateLimit := middleware.RateLimit(s.redis, 20, time.Minute, "generate")
	generate := api.Group("/generate", s.OptionalAuth(), generateLimit)
	generate.Post("/explanation", s.GenerateExplanation)
	generate.Post("/feedback", s.GenerateFeedback)
	generate.Post("/project", s.GenerateProject)

	// Saved projects
	projects := api.Group("/projects", s.AuthRequired())
	projects.Post("/", s.SaveProject)
	projects.Get("/", s.ListProjects)
	projects.Delete("/:id", s.DeleteProject)

	// Legacy paths still used by older clients.
	api.Post("/code-explanation", s.OptionalAuth(), generateLimit, s.GenerateExplanation)
	api.Post("/code-feedback", s.OptionalAuth(), generateLimit, s.GenerateFeedback)
	api.Post("/project-ideas", s.OptionalAuth(), generateLimit, s.GenerateProject)
	api.Post("/save-project", s.AuthRequired(), s.SaveProject)
	api.Get("/user", s.AuthRequired(), s.Me)

	// Feedback and early access
	api.Post("/feedback", s.OptionalAuth(),
		middleware.RateLimit(s.redis, 5, 10*time.Minute, "feedback"), s.SubmitFeedback)
	api.Post("/early-access",
		middleware.RateLimit(s.redis, 5, 10*time.Minute, "early_access"), s.JoinEarlyAccess)
	api.Get("/early-access/count", s.EarlyAccessCount)
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName:      "CodeLearn API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// errorHandler renders errors that escape handlers, keeping Fiber's own status codes.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	return models.RespondWithError(c, models.StatusFor(err), err)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional: without it the API runs with caching and revocation disabled.
	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := cache.Ping(ctx, s.redis); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "CodeLearn API",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	slog.Info("server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			slog.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := database.Close(s.db); err != nil {
		slog.Error("error closing database", slog.String("error", err.Error()))
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			slog.Error("error closing redis", slog.String("error", err.Error()))
		}
	}

	slog.Info("server shutdown complete")
	return nil
}
