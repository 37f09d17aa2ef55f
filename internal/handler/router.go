package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"parkgate/internal/handler/api"
	"parkgate/internal/handler/middleware"
	"parkgate/internal/pkg/config"
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
	authHandler *api.AuthHandler,
	reservationHandler *api.ReservationHandler,
	ticketHandler *api.TicketHandler,
	productHandler *api.ProductHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, reservationHandler, ticketHandler, productHandler, adminHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	reservationHandler *api.ReservationHandler,
	ticketHandler *api.TicketHandler,
	productHandler *api.ProductHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})
		}

		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: reservationHandler.Reserve},
				{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.GetReservation},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: reservationHandler.ConfirmPayment},
				{Method: http.MethodDelete, Path: "/:id", Handler: reservationHandler.Cancel},
				{Method: http.MethodGet, Path: "/:id/tickets", Handler: ticketHandler.ListByReservation},
			})
		}

		tickets := apiGroup.Group("/tickets")
		tickets.Use(authMiddleware.RequireAuth())
		{
			addRoutes(tickets, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: ticketHandler.GetTicket},
				{Method: http.MethodPost, Path: "/:id/booking", Handler: ticketHandler.BookSlot},
				{Method: http.MethodPost, Path: "/:id/verify", Handler: ticketHandler.Verify},
			})
		}

		bookings := apiGroup.Group("/bookings")
		bookings.Use(authMiddleware.RequireAuth())
		{
			addRoutes(bookings, []route{
				{Method: http.MethodDelete, Path: "/:id", Handler: ticketHandler.CancelBooking},
			})
		}

		products := apiGroup.Group("/products")
		products.Use(authMiddleware.RequireAuth())
		{
			addRoutes(products, []route{
				{Method: http.MethodGet, Path: "/:id/availability", Handler: productHandler.Availability},
			})
		}

		slots := apiGroup.Group("/slots")
		slots.Use(authMiddleware.RequireAuth())
		{
			addRoutes(slots, []route{
				{Method: http.MethodGet, Path: "", Handler: productHandler.ListSlots},
				{Method: http.MethodGet, Path: "/:id", Handler: productHandler.GetSlot},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireInternal())
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/products", Handler: adminHandler.CreateProduct},
				{Method: http.MethodPut, Path: "/products/:id/caps", Handler: adminHandler.AdjustCaps},
				{Method: http.MethodPost, Path: "/slots", Handler: adminHandler.CreateSlot},
				{Method: http.MethodPost, Path: "/operators", Handler: adminHandler.CreateOperator},
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
