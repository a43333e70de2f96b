package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tablebook/internal/domain/user"
	"tablebook/internal/handler/api"
	"tablebook/internal/handler/middleware"
	"tablebook/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	reservationHandler *api.ReservationHandler,
	availabilityHandler *api.AvailabilityHandler,
	tableHandler *api.TableHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, reservationHandler, availabilityHandler, tableHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
}

func setupRoutes(
	engine *gin.Engine,
	reservationHandler *api.ReservationHandler,
	availabilityHandler *api.AvailabilityHandler,
	tableHandler *api.TableHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			staffOnly := authMiddleware.RequireRole(user.RoleAdmin, user.RoleManager)
			adminOnly := authMiddleware.RequireRole(user.RoleAdmin)

			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "/reserve", Handler: reservationHandler.Reserve},
				{Method: http.MethodPut, Path: "/edit", Handler: reservationHandler.Edit},
				{Method: http.MethodPost, Path: "/check-availability", Handler: availabilityHandler.Check},
				{Method: http.MethodGet, Path: "/my-bookings", Handler: reservationHandler.MyBookings},
				{Method: http.MethodGet, Path: "/all", Handler: reservationHandler.ListAll, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodDelete, Path: "/cancel-all", Handler: reservationHandler.CancelAll, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodGet, Path: "/:bookingId", Handler: reservationHandler.Get},
				{Method: http.MethodDelete, Path: "/:bookingId", Handler: reservationHandler.Cancel},
			})
		}

		tables := apiGroup.Group("/tables")
		tables.Use(authMiddleware.RequireAuth())
		{
			staffOnly := authMiddleware.RequireRole(user.RoleAdmin, user.RoleManager)
			adminOnly := authMiddleware.RequireRole(user.RoleAdmin)

			addRoutes(tables, []route{
				{Method: http.MethodGet, Path: "", Handler: tableHandler.List},
				{Method: http.MethodPost, Path: "", Handler: tableHandler.Create, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodGet, Path: "/:id", Handler: tableHandler.Get},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: tableHandler.SetStatus, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodDelete, Path: "/:id", Handler: tableHandler.Delete, Mw: []gin.HandlerFunc{adminOnly}},
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
