package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"booking-engine/internal/handler/api"
	"booking-engine/internal/handler/middleware"
	"booking-engine/internal/infra/metrics"
	"booking-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Booking  *api.BookingHandler
	Waitlist *api.WaitlistHandler
	Resource *api.ResourceHandler
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	bookingHandler *api.BookingHandler,
	waitlistHandler *api.WaitlistHandler,
	resourceHandler *api.ResourceHandler,
	authMiddleware *middleware.AuthMiddleware,
	m *metrics.Metrics,
) {
	setupMiddleware(engine, cfg, m)
	setupRoutes(engine, Handlers{Booking: bookingHandler, Waitlist: waitlistHandler, Resource: resourceHandler}, authMiddleware, m)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, m *metrics.Metrics) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.MetricsMiddleware(m))
	engine.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware, m *metrics.Metrics) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(m.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		addRoutes(apiGroup.Group("/bookings"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Booking.Create},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get},
			{Method: http.MethodPatch, Path: "/:id", Handler: h.Booking.Update},
			{Method: http.MethodPost, Path: "/:id/complete", Handler: h.Booking.Complete},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Booking.Cancel},
			{Method: http.MethodGet, Path: "/:id/settlement", Handler: h.Booking.GetSettlement},
		})

		addRoutes(apiGroup.Group("/waitlist"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Waitlist.Create},
			{Method: http.MethodGet, Path: "", Handler: h.Waitlist.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Waitlist.Get},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Waitlist.Cancel},
		})

		adminOnly := []gin.HandlerFunc{authMiddleware.RequireAdmin()}
		addRoutes(apiGroup.Group("/resources"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Resource.Create, Mw: adminOnly},
			{Method: http.MethodGet, Path: "", Handler: h.Resource.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Resource.Get},
			{Method: http.MethodPatch, Path: "/:id", Handler: h.Resource.Update, Mw: adminOnly},
		})

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/occupancy", Handler: h.Resource.Occupancy},
		})
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
