package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-portal-api/internal/config"
	"github.com/noah-isme/student-portal-api/internal/database"
	"github.com/noah-isme/student-portal-api/internal/events"
	"github.com/noah-isme/student-portal-api/internal/handler"
	"github.com/noah-isme/student-portal-api/internal/middleware"
	"github.com/noah-isme/student-portal-api/internal/observability"
	"github.com/noah-isme/student-portal-api/internal/repository"
	"github.com/noah-isme/student-portal-api/internal/router"
	"github.com/noah-isme/student-portal-api/internal/service"
	cloud "github.com/noah-isme/student-portal-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()
	if cfg.AppEnv == "development" {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	var uploader service.FileUploader
	cloudCfg := cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}
	if cloudCfg.Enabled() {
		cloudinaryService, err := cloud.New(cloudCfg, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploader = cloudinaryService
	} else {
		logger.Warn().Msg("cloudinary credentials missing, file submissions are disabled")
	}

	observability.RegisterMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus(redisClient, natsConn, cfg.EventsChannel, logger)
	bus.Start(ctx)

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	resultRepo := repository.NewResultRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	authService := service.NewAuthService(studentRepo, validate, service.TokenConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.JWTAccessTTL,
	}, logger)
	studentService := service.NewStudentService(studentRepo, validate, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, studentRepo, validate, bus, logger)
	feeService := service.NewFeeService(feeRepo, studentRepo, validate, bus, cfg.LedgerMaxRetries, logger)
	libraryService := service.NewLibraryService(libraryRepo, studentRepo, validate, bus, cfg.LoanPolicy(), cfg.LedgerMaxRetries, logger)
	resultService := service.NewResultService(resultRepo, studentRepo, validate, bus, logger)
	noticeService := service.NewNoticeService(noticeRepo, studentRepo, validate, bus, redisClient, cfg.NoticesCacheTTL, logger)
	timetableService := service.NewTimetableService(timetableRepo, studentRepo, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, submissionRepo, studentRepo, validate, uploader, logger)
	dashboardService := service.NewDashboardService(service.DashboardRepositories{
		Students:    studentRepo,
		Attendance:  attendanceRepo,
		Fees:        feeRepo,
		Library:     libraryRepo,
		Results:     resultRepo,
		Assignments: assignmentRepo,
		Notices:     noticeRepo,
	}, redisClient, cfg.DashboardCacheTTL, logger)
	dashboardService.Watch(ctx, bus)

	loginLimiter := middleware.RateLimit("login", cfg.LoginRateLimitMax, cfg.LoginRateLimitWindow)
	payLimiter := middleware.RateLimit("fee-payment", cfg.LoginRateLimitMax, cfg.LoginRateLimitWindow)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    10 * 1024 * 1024,
	})

	mwConfig := middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins}
	if cfg.AppEnv == "development" {
		mwConfig.AccessLog = os.Stdout
	}
	middleware.Register(app, mwConfig)
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, studentService, loginLimiter, logger),
		StudentHandler:    handler.NewStudentHandler(studentService, logger),
		AttendanceHandler: handler.NewAttendanceHandler(attendanceService, logger),
		FeeHandler:        handler.NewFeeHandler(feeService, payLimiter, logger),
		LibraryHandler:    handler.NewLibraryHandler(libraryService, logger),
		ResultHandler:     handler.NewResultHandler(resultService, logger),
		NoticeHandler:     handler.NewNoticeHandler(noticeService, logger),
		TimetableHandler:  handler.NewTimetableHandler(timetableService, logger),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		DashboardHandler:  handler.NewDashboardHandler(dashboardService, logger),
		HealthProbes: map[string]handler.HealthProbe{
			"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
		JWTMiddleware: middleware.NewJWT(middleware.JWTConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()
	logger.Info().Str("address", cfg.HTTPAddress()).Msg("student portal api started")

	waitForShutdown(ctx, app, logger)
}

func waitForShutdown(ctx context.Context, app *fiber.App, logger zerolog.Logger) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
