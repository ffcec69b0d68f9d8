package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"shiftmate/internal/caching"
	"shiftmate/internal/config"
	"shiftmate/internal/handlers"
	"shiftmate/internal/jobs"
	"shiftmate/internal/jobs/background"
	"shiftmate/internal/middleware"
	"shiftmate/internal/repositories"
	"shiftmate/internal/services"
	"shiftmate/internal/timeutil"
	"shiftmate/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Sweep/queue configuration: TOML file when provided, defaults otherwise
	cfg := config.DefaultAppConfig()
	if cfgPath := os.Getenv("CONFIG_FILE"); cfgPath != "" {
		cfg, err = config.LoadAppConfig(cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	// Redis configuration (env overrides config file)
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = cfg.Queuing.RedisAddr
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	if redisPassword == "" {
		redisPassword = cfg.Queuing.RedisPassword
	}
	redisDB := cfg.Queuing.RedisDB
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// Create repositories
	tenantRepo := repositories.NewTenantRepo(pool)
	shiftRepo := repositories.NewShiftRepo(pool)
	settingRepo := repositories.NewSettingRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	boundary := timeutil.NewBoundary(clockwork.NewRealClock())
	settingsSvc := services.NewSettingsService(settingRepo, cacheSvc)
	autoCloseSvc := services.NewAutoCloseService(shiftRepo, tenantRepo, settingsSvc, boundary)

	// Scheduling contract for the sweep
	contract := jobs.SchedulingContract{
		Queue:            cfg.Sweep.Queue,
		MaxRetry:         cfg.Sweep.MaxRetryAttempts,
		RetryDelay:       time.Duration(cfg.Sweep.RetryDelaySeconds) * time.Second,
		UniquenessWindow: time.Duration(cfg.Sweep.UniquenessWindowMinutes) * time.Minute,
		Timeout:          time.Duration(cfg.Sweep.TimeoutSeconds) * time.Second,
	}

	// Queue client + worker
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr, Password: redisPassword, DB: redisDB}
	queueClient := asynq.NewClient(redisOpt)
	defer queueClient.Close()

	queueServer := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:    cfg.Queuing.Concurrency,
		Queues:         cfg.Queuing.QueuePriorities,
		RetryDelayFunc: contract.RetryDelayFunc,
	})
	mux := asynq.NewServeMux()
	autoCloseHandler := jobs.NewAutoCloseHandler(autoCloseSvc)
	mux.HandleFunc(jobs.TypeAutoCloseSweep, autoCloseHandler.HandleAutoCloseSweep)

	go func() {
		if err := queueServer.Run(mux); err != nil {
			log.Fatalf("Queue server failed: %v", err)
		}
	}()

	// Background scheduler
	scheduler, err := background.NewJobScheduler(
		autoCloseSvc,
		queueClient,
		contract,
		time.Duration(cfg.Sweep.IntervalMinutes)*time.Minute,
	)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create handlers
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, version)
	shiftHandlers := handlers.NewShiftHandlers(shiftRepo, boundary)
	settingsHandlers := handlers.NewSettingsHandlers(settingsSvc)
	sweepHandlers := handlers.NewSweepHandlers(scheduler)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// API routes
	v1 := e.Group("/v1")

	// Protected routes (require JWT)
	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(jwtSecret))

	// Shift routes
	protected.GET("/shifts", shiftHandlers.ListShifts)
	protected.GET("/shifts/overdue", shiftHandlers.ListOverdueShifts)
	protected.GET("/shifts/:id", shiftHandlers.GetShift)
	protected.PUT("/shifts/:id/close", shiftHandlers.CloseShift)

	// Settings routes
	protected.GET("/settings/auto-close", settingsHandlers.GetAutoCloseSetting)
	protected.PUT("/settings/auto-close", settingsHandlers.PutAutoCloseSetting)

	// Job routes
	protected.POST("/jobs/auto-close", sweepHandlers.TriggerAutoCloseSweep)
	protected.GET("/jobs/status", sweepHandlers.GetJobStatus)

	// Time utility routes
	protected.GET("/time/day-boundaries", shiftHandlers.GetDayBoundaries)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("shiftmate server v%s starting on port %d (sweep every %dm)", version, port, cfg.Sweep.IntervalMinutes)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
