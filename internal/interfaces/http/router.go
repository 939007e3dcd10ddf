package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Clientes-api/internal/application/auth"
	"github.com/jhoicas/Clientes-api/internal/application/errlog"
	appsync "github.com/jhoicas/Clientes-api/internal/application/sync"
	"github.com/jhoicas/Clientes-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CustomerUC   *usecase.CustomerUseCase
	CompanyUC    *usecase.CompanyUseCase
	AuthUC       *auth.AuthUseCase
	Orchestrator *appsync.Orchestrator
	ErrorLogs    *errlog.Recorder
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Customers (protegido; las mutaciones propagan a Shopify)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.ErrorLogs)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Companies (protegido)
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)
	companies.Delete("/:id", companyHandler.Delete)

	// Shopify sync (protegido)
	syncHandler := NewSyncHandler(deps.Orchestrator)
	protected.Post("/shopify/customers/sync", syncHandler.Sync)
}
