package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/lanchonete-api/internal/application/analytics"
	"github.com/jhoicas/lanchonete-api/internal/application/inventory"
	"github.com/jhoicas/lanchonete-api/internal/application/ordering"
	"github.com/jhoicas/lanchonete-api/internal/application/realtime"
	"github.com/jhoicas/lanchonete-api/internal/application/usecase"
	"github.com/jhoicas/lanchonete-api/internal/interfaces/ws"
	"github.com/jhoicas/lanchonete-api/pkg/jwt"
	"github.com/jhoicas/lanchonete-api/pkg/logger"
)

// AppConfig parámetros de la app Fiber.
type AppConfig struct {
	Name           string
	AllowedOrigins string // lista separada por comas; vacío = "*"
	Log            *logger.Logger
}

// NewApp crea la app Fiber con el ErrorHandler de dominio, recover, CORS y access log.
func NewApp(cfg AppConfig) *fiber.App {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	origins := cfg.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(AccessLog(log.Named("http")))
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MenuUC      *usecase.MenuUseCase
	ReplenishUC *inventory.ReplenishUseCase
	OrderUC     *ordering.OrderUseCase
	ReceiptUC   *ordering.ReceiptUseCase
	CashflowUC  *usecase.CashflowUseCase
	DashboardUC *appanalytics.DashboardUseCase
	PublicMenu  PublicMenuSource
	WS          *ws.Handler // nil = sin WebSocket
	StoreDriver string
	Pinger      Pinger
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", NewHealthHandler(deps.StoreDriver, deps.Pinger).Health)

	api := app.Group("/api")

	// Público
	api.Get("/public/menu", NewPublicHandler(deps.PublicMenu).Menu)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(jwt.RoleAdmin)

	menuHandler := NewMenuHandler(deps.MenuUC, deps.ReplenishUC)
	menu := protected.Group("/menu-items")
	menu.Get("/", menuHandler.List)
	menu.Get("/:id", menuHandler.Get)
	menu.Post("/", adminOnly, menuHandler.Create)
	menu.Put("/:id", adminOnly, menuHandler.Update)
	menu.Patch("/:id/visibility", adminOnly, menuHandler.SetVisibility)
	menu.Delete("/:id", adminOnly, menuHandler.Delete)
	menu.Post("/:id/replenish", adminOnly, menuHandler.Replenish)
	menu.Get("/:id/stock-log", adminOnly, menuHandler.StockLog)

	orderHandler := NewOrderHandler(deps.OrderUC, deps.ReceiptUC)
	orders := protected.Group("/orders")
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Get("/:id/receipt", orderHandler.Receipt)
	orders.Patch("/:id/status", orderHandler.UpdateStatus)
	orders.Patch("/:id/payment", orderHandler.RecordPayment)

	protected.Get("/kitchen/board", orderHandler.Board)

	protected.Get("/dashboard", adminOnly, NewDashboardHandler(deps.DashboardUC).Get)

	txHandler := NewTransactionHandler(deps.CashflowUC)
	transactions := protected.Group("/transactions", adminOnly)
	transactions.Get("/summary", txHandler.Summary)
	transactions.Get("/", txHandler.List)
	transactions.Post("/", txHandler.Create)
	transactions.Delete("/:id", txHandler.Delete)

	if deps.WS != nil {
		app.Get("/ws/:topic", deps.WS.RequireUpgrade, topicAuth(deps.JWTSecret), deps.WS.Serve())
	}
}

// topicAuth los tópicos públicos no requieren token; el resto acepta ?token=.
func topicAuth(jwtSecret string) fiber.Handler {
	auth := QueryTokenMiddleware(jwtSecret)
	return func(c *fiber.Ctx) error {
		if realtime.PublicTopics[c.Params("topic")] {
			return c.Next()
		}
		return auth(c)
	}
}
