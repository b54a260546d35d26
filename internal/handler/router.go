package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"tour-booking/internal/handler/api"
	"tour-booking/internal/handler/middleware"
	"tour-booking/internal/pkg/config"
	"tour-booking/internal/pkg/metrics"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type RouterParams struct {
	fx.In

	Config         config.Config
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	AuthMiddleware *middleware.AuthMiddleware
	Availability   *api.AvailabilityHandler
	Bookings       *api.BookingHandler
	Payments       *api.PaymentHandler
	Schedules      *api.ScheduleHandler
}

func NewRouter(engine *gin.Engine, p RouterParams) {
	setupMiddleware(engine, p.Config, p.Logger, p.Metrics)
	setupRoutes(engine, p)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger, m *metrics.Metrics) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.RequestLogger(logger, "/health", cfg.Metrics.Path))
	if cfg.Metrics.Enabled {
		engine.Use(middleware.Metrics(m))
	}
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, p RouterParams) {
	engine.GET("/health", healthCheck)

	if p.Config.Metrics.Enabled {
		engine.GET(p.Config.Metrics.Path, gin.WrapH(p.Metrics.Handler()))
	}
	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	admin := []gin.HandlerFunc{p.AuthMiddleware.RequireAdmin()}

	apiGroup := engine.Group("/api")
	{
		tours := apiGroup.Group("/tours/:tourId")
		addRoutes(tours, []route{
			{Method: http.MethodGet, Path: "/availability", Handler: p.Availability.ByDate},
			{Method: http.MethodGet, Path: "/availability/range", Handler: p.Availability.ByRange},
			{Method: http.MethodGet, Path: "/availability/next", Handler: p.Availability.NextAvailable},
			{Method: http.MethodGet, Path: "/availability/calendar", Handler: p.Availability.Calendar},
			{Method: http.MethodGet, Path: "/schedules/:scheduleId/spots-check", Handler: p.Availability.SpotsCheck},
		})
		apiGroup.GET("/availability/tours", p.Availability.ByMultipleTours)

		bookings := apiGroup.Group("/bookings")
		bookings.Use(p.AuthMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: p.Bookings.Create},
				{Method: http.MethodGet, Path: "", Handler: p.Bookings.List},
				{Method: http.MethodGet, Path: "/summary", Handler: p.Bookings.Summary},
				{Method: http.MethodGet, Path: "/:id", Handler: p.Bookings.Get},
				{Method: http.MethodPut, Path: "/:id", Handler: p.Bookings.Update},
				{Method: http.MethodPatch, Path: "/:id/confirm", Handler: p.Bookings.Confirm},
				{Method: http.MethodPatch, Path: "/:id/cancel", Handler: p.Bookings.Cancel},
				{Method: http.MethodPatch, Path: "/:id/pay", Handler: p.Bookings.Pay},
				{Method: http.MethodPatch, Path: "/:id/complete", Handler: p.Bookings.Complete, Mw: admin},
			})
		}

		payments := apiGroup.Group("/payments")
		payments.Use(p.AuthMiddleware.RequireAuth())
		{
			addRoutes(payments, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: p.Payments.Get},
				{Method: http.MethodPatch, Path: "/:id/refund", Handler: p.Payments.Refund, Mw: admin},
			})
		}

		schedules := apiGroup.Group("/schedules")
		schedules.Use(p.AuthMiddleware.RequireAuth(), p.AuthMiddleware.RequireAdmin())
		{
			addRoutes(schedules, []route{
				{Method: http.MethodPatch, Path: "/:id/complete", Handler: p.Schedules.Complete},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
