package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/college-adp-api/api/swagger"
	"github.com/noah-isme/college-adp-api/internal/handler"
	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/internal/repository"
	"github.com/noah-isme/college-adp-api/internal/service"
	"github.com/noah-isme/college-adp-api/pkg/cache"
	"github.com/noah-isme/college-adp-api/pkg/config"
	"github.com/noah-isme/college-adp-api/pkg/database"
	"github.com/noah-isme/college-adp-api/pkg/export"
	"github.com/noah-isme/college-adp-api/pkg/jobs"
	"github.com/noah-isme/college-adp-api/pkg/logger"
)

// @title College ADP API
// @version 1.0.0
// @description College administration backend: academic records, exam seating and hall tickets, FAQ assistant.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	checks := map[string]handler.Pinger{"database": db}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, chatbot cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close() //nolint:errcheck
			checks["redis"] = cache.Probe{Client: redisClient}
		}
	}

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := buildApp(cfg, db, redisClient, metrics, logr)
	app.dispatcher.Start(ctx)

	router := newRouter(cfg, app, metrics, checks, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logr.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logr.Error("graceful shutdown failed", zap.Error(err))
			_ = srv.Close()
		}
	}

	app.dispatcher.Stop()
	logr.Info("server stopped")
}

type application struct {
	auth          *service.AuthService
	authH         *handler.AuthHandler
	courses       *handler.CourseHandler
	subjects      *handler.SubjectHandler
	students      *handler.StudentHandler
	staff         *handler.StaffHandler
	attendance    *handler.AttendanceHandler
	results       *handler.ResultHandler
	exams         *handler.ExamHandler
	hallTickets   *handler.HallTicketHandler
	ktApps        *handler.ApplicationHandler
	revalApps     *handler.ApplicationHandler
	notifications *handler.NotificationHandler
	leave         *handler.LeaveHandler
	library       *handler.LibraryHandler
	chatbot       *handler.ChatbotHandler
	dispatcher    *service.HallTicketDispatcher
}

func buildApp(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, metrics *service.MetricsService, logr *zap.Logger) *application {
	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	resultRepo := repository.NewResultRepository(db)
	hallRepo := repository.NewExamHallRepository(db)
	examRepo := repository.NewExamRepository(db)
	ticketRepo := repository.NewHallTicketRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	faqRepo := repository.NewFAQRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	dispatcher := service.NewHallTicketDispatcher(notificationRepo, studentRepo, jobs.Config{
		Workers:    cfg.Notify.Workers,
		MaxRetries: cfg.Notify.MaxRetries,
		RetryDelay: cfg.Notify.RetryDelay,
		Logger:     logr.Named("jobs"),
	})

	var faqCache *service.CacheService
	if redisClient != nil && cfg.Chatbot.CacheEnabled {
		faqCache = service.NewCacheService(repository.NewCacheRepository(redisClient, logr), metrics, cfg.Chatbot.CacheTTL, logr, true)
	}
	matcher := service.NewMatcher(service.MatcherConfig{Threshold: cfg.Chatbot.MatchThreshold})

	pdf := export.NewPDFExporter()
	applications := service.NewApplicationService(applicationRepo, resultRepo, subjectRepo, studentRepo, staffRepo, notificationRepo, db, validate, logr)

	return &application{
		auth:     authSvc,
		authH:    handler.NewAuthHandler(authSvc),
		courses:  handler.NewCourseHandler(service.NewCourseService(courseRepo, sessionRepo, validate, logr)),
		subjects: handler.NewSubjectHandler(service.NewSubjectService(subjectRepo, studentRepo, validate, logr)),
		students: handler.NewStudentHandler(service.NewStudentService(userRepo, studentRepo, db, validate, logr)),
		staff:    handler.NewStaffHandler(service.NewStaffService(userRepo, staffRepo, db, validate, logr)),
		attendance: handler.NewAttendanceHandler(
			service.NewAttendanceService(attendanceRepo, subjectRepo, studentRepo, staffRepo, db, validate, logr),
		),
		results: handler.NewResultHandler(
			service.NewResultService(resultRepo, subjectRepo, studentRepo, staffRepo, pdf, export.NewCSVExporter(), validate, logr),
		),
		exams: handler.NewExamHandler(service.NewExamService(hallRepo, examRepo, courseRepo, db, validate, logr)),
		hallTickets: handler.NewHallTicketHandler(service.NewHallTicketService(
			ticketRepo, examRepo, hallRepo, courseRepo, studentRepo, db,
			export.NewHallTicketRenderer(), dispatcher, metrics, logr,
			service.HallTicketConfig{Prefix: cfg.HallTickets.Prefix, Institution: cfg.HallTickets.Institution},
		)),
		ktApps:        handler.NewApplicationHandler(applications, models.ApplicationKindKT),
		revalApps:     handler.NewApplicationHandler(applications, models.ApplicationKindRevaluation),
		notifications: handler.NewNotificationHandler(service.NewNotificationService(notificationRepo, validate, logr)),
		leave:         handler.NewLeaveHandler(service.NewLeaveService(leaveRepo, studentRepo, staffRepo, validate, logr)),
		library:       handler.NewLibraryHandler(service.NewLibraryService(libraryRepo, studentRepo, validate, logr)),
		chatbot:       handler.NewChatbotHandler(service.NewChatbotService(faqRepo, db, matcher, faqCache, cfg.Chatbot.CacheTTL, metrics, validate, logr)),
		dispatcher:    dispatcher,
	}
}
