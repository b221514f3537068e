package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/college-adp-api/internal/handler"
	internalmiddleware "github.com/noah-isme/college-adp-api/internal/middleware"
	"github.com/noah-isme/college-adp-api/internal/models"
	"github.com/noah-isme/college-adp-api/internal/service"
	"github.com/noah-isme/college-adp-api/pkg/config"
	"github.com/noah-isme/college-adp-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/college-adp-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/college-adp-api/pkg/middleware/requestid"
)

func newRouter(cfg *config.Config, app *application, metrics *service.MetricsService, checks map[string]handler.Pinger, logr *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	probes := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", probes.Health)
	r.GET("/ready", probes.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", probes.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	registerRoutes(api, app)
	return r
}

func registerRoutes(api *gin.RouterGroup, app *application) {
	hod := internalmiddleware.RequireRoles(models.RoleHOD)
	staff := internalmiddleware.RequireRoles(models.RoleHOD, models.RoleStaff)
	student := internalmiddleware.RequireRoles(models.RoleStudent)
	members := internalmiddleware.RequireRoles(models.RoleStudent, models.RoleStaff)

	api.POST("/auth/login", app.authH.Login)
	api.POST("/chatbot/query", internalmiddleware.OptionalJWT(app.auth), app.chatbot.Query)

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(app.auth))

	secured.GET("/auth/me", app.authH.Me)

	courses := secured.Group("/courses")
	courses.GET("", app.courses.ListCourses)
	courses.GET("/:id", app.courses.GetCourse)
	courses.POST("", hod, app.courses.CreateCourse)
	courses.PUT("/:id", hod, app.courses.UpdateCourse)
	courses.DELETE("/:id", hod, app.courses.DeleteCourse)

	sessions := secured.Group("/sessions")
	sessions.GET("", app.courses.ListSessions)
	sessions.GET("/:id", app.courses.GetSession)
	sessions.POST("", hod, app.courses.CreateSession)
	sessions.PUT("/:id", hod, app.courses.UpdateSession)
	sessions.DELETE("/:id", hod, app.courses.DeleteSession)

	subjects := secured.Group("/subjects")
	subjects.GET("", app.subjects.List)
	subjects.GET("/:id", app.subjects.Get)
	subjects.GET("/:id/students", staff, app.subjects.Students)
	subjects.POST("", hod, app.subjects.Create)
	subjects.PUT("/:id", hod, app.subjects.Update)
	subjects.DELETE("/:id", hod, app.subjects.Delete)

	staffGroup := secured.Group("/staff")
	staffGroup.GET("/me", internalmiddleware.RequireRoles(models.RoleStaff), app.staff.Me)
	staffGroup.GET("", hod, app.staff.List)
	staffGroup.GET("/:id", hod, app.staff.Get)
	staffGroup.POST("", hod, app.staff.Create)
	staffGroup.PUT("/:id", hod, app.staff.Update)
	staffGroup.DELETE("/:id", hod, app.staff.Delete)

	students := secured.Group("/students")
	students.GET("/me", student, app.students.Me)
	students.GET("", staff, app.students.List)
	students.GET("/:id", staff, app.students.Get)
	students.POST("", hod, app.students.Create)
	students.PUT("/:id", hod, app.students.Update)
	students.DELETE("/:id", hod, app.students.Delete)

	attendance := secured.Group("/attendance", staff)
	attendance.POST("", app.attendance.Take)
	attendance.GET("", app.attendance.Dates)
	attendance.GET("/:id/students", app.attendance.Statuses)
	attendance.PUT("/:id", app.attendance.Update)

	results := secured.Group("/results")
	results.GET("/me", student, app.results.Mine)
	results.GET("/me/pdf", student, app.results.MyCard)
	results.POST("", staff, app.results.Add)
	results.PUT("", staff, app.results.Edit)
	results.GET("/lookup", staff, app.results.Lookup)
	results.GET("/sheet", staff, app.results.Sheet)
	results.GET("/sheet/pdf", staff, app.results.SheetFile)

	halls := secured.Group("/exam-halls")
	halls.GET("", staff, app.exams.ListHalls)
	halls.POST("", hod, app.exams.CreateHall)

	exams := secured.Group("/exams")
	exams.GET("", app.exams.List)
	exams.GET("/:id", app.exams.Get)
	exams.POST("", hod, app.exams.Create)
	exams.DELETE("/:id", hod, app.exams.Delete)
	exams.POST("/:id/hall-tickets", hod, app.hallTickets.Generate)
	exams.GET("/:id/hall-tickets", staff, app.hallTickets.ListByExam)

	tickets := secured.Group("/hall-tickets")
	tickets.GET("/me", student, app.hallTickets.Mine)
	tickets.GET("/:id", app.hallTickets.Get)
	tickets.GET("/:id/pdf", app.hallTickets.PDF)
	tickets.DELETE("/:id", hod, app.hallTickets.Delete)

	registerApplicationRoutes(secured.Group("/applications/kt"), app.ktApps, student, staff)
	registerApplicationRoutes(secured.Group("/applications/revaluation"), app.revalApps, student, staff)

	notifications := secured.Group("/notifications")
	notifications.GET("/me", app.notifications.Inbox)
	notifications.POST("", hod, app.notifications.Send)

	leave := secured.Group("/leave")
	leave.POST("", members, app.leave.Apply)
	leave.GET("/me", members, app.leave.Mine)
	leave.GET("", hod, app.leave.List)
	leave.PATCH("/:id/status", hod, app.leave.Decide)

	feedback := secured.Group("/feedback")
	feedback.POST("", members, app.leave.SendFeedback)
	feedback.GET("/me", members, app.leave.MyFeedback)
	feedback.GET("", hod, app.leave.ListFeedback)
	feedback.POST("/:id/reply", hod, app.leave.Reply)

	library := secured.Group("/library")
	library.GET("/books", app.library.ListBooks)
	library.POST("/books", staff, app.library.AddBook)
	library.GET("/issues/me", student, app.library.MyIssues)
	library.GET("/issues", staff, app.library.ListIssues)
	library.POST("/issues", staff, app.library.Issue)

	entries := secured.Group("/chatbot/entries", hod)
	entries.GET("", app.chatbot.ListEntries)
	entries.POST("", app.chatbot.CreateEntry)
	entries.DELETE("/:id", app.chatbot.DeleteEntry)
}

func registerApplicationRoutes(group *gin.RouterGroup, h *handler.ApplicationHandler, student, reviewer gin.HandlerFunc) {
	group.POST("", student, h.Apply)
	group.GET("/me", student, h.Mine)
	group.GET("", reviewer, h.List)
	group.PATCH("/:id/status", reviewer, h.Review)
}
