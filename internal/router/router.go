package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/student-portal-api/internal/config"
	"github.com/noah-isme/student-portal-api/internal/handler"
	"github.com/noah-isme/student-portal-api/internal/middleware"
	"github.com/noah-isme/student-portal-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	StudentHandler    *handler.StudentHandler
	AttendanceHandler *handler.AttendanceHandler
	FeeHandler        *handler.FeeHandler
	LibraryHandler    *handler.LibraryHandler
	ResultHandler     *handler.ResultHandler
	NoticeHandler     *handler.NoticeHandler
	TimetableHandler  *handler.TimetableHandler
	AssignmentHandler *handler.AssignmentHandler
	DashboardHandler  *handler.DashboardHandler
	HealthProbes      map[string]handler.HealthProbe
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	studentOnly := middleware.RequireStudent()

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"), jwtMiddleware)
	}

	student := func(prefix string) fiber.Router {
		return api.Group(prefix, jwtMiddleware, studentOnly)
	}

	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(student("/students"))
	}
	if deps.AttendanceHandler != nil {
		deps.AttendanceHandler.Register(student("/attendance"))
	}
	if deps.FeeHandler != nil {
		deps.FeeHandler.Register(student("/fees"))
	}
	if deps.LibraryHandler != nil {
		deps.LibraryHandler.Register(student("/library"))
	}
	if deps.ResultHandler != nil {
		deps.ResultHandler.Register(student("/results"))
	}
	if deps.NoticeHandler != nil {
		deps.NoticeHandler.Register(student("/notices"))
	}
	if deps.TimetableHandler != nil {
		deps.TimetableHandler.Register(student("/timetable"))
	}
	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(student("/assignments"))
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(student("/dashboard"))
	}

	// Staff maintenance
	admin := api.Group("/admin", jwtMiddleware, middleware.RequireStaff())
	if deps.AttendanceHandler != nil {
		deps.AttendanceHandler.RegisterAdmin(admin.Group("/attendance"))
	}
	if deps.FeeHandler != nil {
		deps.FeeHandler.RegisterAdmin(admin.Group("/fees"))
	}
	if deps.LibraryHandler != nil {
		deps.LibraryHandler.RegisterAdmin(admin.Group("/library"))
	}
	if deps.ResultHandler != nil {
		deps.ResultHandler.RegisterAdmin(admin.Group("/results"))
	}
	if deps.NoticeHandler != nil {
		deps.NoticeHandler.RegisterAdmin(admin.Group("/notices"))
	}
	if deps.TimetableHandler != nil {
		deps.TimetableHandler.RegisterAdmin(admin.Group("/timetable"))
	}
	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.RegisterAdmin(admin.Group("/assignments"))
	}
}
