package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"gearlend/internal/domain/user"
	"gearlend/internal/handler/api"
	"gearlend/internal/handler/middleware"
	"gearlend/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth          *api.AuthHandler
	Equipment     *api.EquipmentHandler
	Reservation   *api.ReservationHandler
	BorrowRequest *api.BorrowRequestHandler
	Penalty       *api.PenaltyHandler
	User          *api.UserHandler
	Analytics     *api.AnalyticsHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	adminOnly := authMiddleware.RequireRoleAtLeast(user.RoleAdmin)

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
			})
		}

		equipment := apiGroup.Group("/equipment")
		{
			addRoutes(equipment, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Equipment.ListPools},
				{Method: http.MethodGet, Path: "/:name/availability", Handler: h.Equipment.Availability},
			})

			manage := equipment.Group("")
			manage.Use(authMiddleware.RequireAuth(), adminOnly)
			addRoutes(manage, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Equipment.CreatePool},
				{Method: http.MethodPut, Path: "/:name", Handler: h.Equipment.UpdatePool},
				{Method: http.MethodPut, Path: "/:name/resize", Handler: h.Equipment.ResizePool},
				{Method: http.MethodDelete, Path: "/:name", Handler: h.Equipment.DeletePool},
			})
		}

		reservations := apiGroup.Group("/reservations")
		reservations.Use(authMiddleware.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Reservation.Reserve},
				{Method: http.MethodGet, Path: "", Handler: h.Reservation.MyBorrowings},
				{Method: http.MethodPost, Path: "/:id/return", Handler: h.Reservation.Return},
				{Method: http.MethodGet, Path: "/history", Handler: h.Reservation.History, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}

		requests := apiGroup.Group("/requests")
		requests.Use(authMiddleware.RequireAuth())
		{
			addRoutes(requests, []route{
				{Method: http.MethodPost, Path: "", Handler: h.BorrowRequest.Submit},
				{Method: http.MethodGet, Path: "", Handler: h.BorrowRequest.MyRequests},
				{Method: http.MethodGet, Path: "/:id", Handler: h.BorrowRequest.Get},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.BorrowRequest.Delete},
				{Method: http.MethodGet, Path: "/open", Handler: h.BorrowRequest.ListOpen, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/:id/approve", Handler: h.BorrowRequest.ApproveAll, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/:id/items/:pool/approve", Handler: h.BorrowRequest.ApproveItem, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/:id/items/:pool/reject", Handler: h.BorrowRequest.RejectItem, Mw: []gin.HandlerFunc{adminOnly}},
			})
		}

		penalties := apiGroup.Group("/penalties")
		penalties.Use(authMiddleware.RequireAuth(), adminOnly)
		{
			addRoutes(penalties, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Penalty.Record},
				{Method: http.MethodGet, Path: "", Handler: h.Penalty.List},
				{Method: http.MethodGet, Path: "/borrower/:id", Handler: h.Penalty.ListByBorrower},
				{Method: http.MethodGet, Path: "/can-borrow/:id", Handler: h.Penalty.CanBorrow},
			})
		}

		users := apiGroup.Group("/users")
		users.Use(authMiddleware.RequireAuth(), adminOnly)
		{
			addRoutes(users, []route{
				{Method: http.MethodGet, Path: "", Handler: h.User.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.User.Get},
				{Method: http.MethodPut, Path: "/:id/role", Handler: h.User.UpdateRole},
			})
		}

		analytics := apiGroup.Group("/analytics")
		analytics.Use(authMiddleware.RequireAuth(), adminOnly)
		{
			addRoutes(analytics, []route{
				{Method: http.MethodGet, Path: "/overview", Handler: h.Analytics.Overview},
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
