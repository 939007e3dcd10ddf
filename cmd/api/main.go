package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Clientes-api/internal/application/auth"
	"github.com/jhoicas/Clientes-api/internal/application/errlog"
	appsync "github.com/jhoicas/Clientes-api/internal/application/sync"
	"github.com/jhoicas/Clientes-api/internal/application/usecase"
	"github.com/jhoicas/Clientes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Clientes-api/internal/infrastructure/shopify"
	httpRouter "github.com/jhoicas/Clientes-api/internal/interfaces/http"
	"github.com/jhoicas/Clientes-api/pkg/config"
	"github.com/jhoicas/Clientes-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	customerRepo := postgres.NewCustomerRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	syncLogRepo := postgres.NewSyncLogRepository(pool)
	errorLogRepo := postgres.NewErrorLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	errorRecorder := errlog.NewRecorder(errorLogRepo, log)

	// Gateway de Shopify: todas las lecturas/escrituras remotas pasan por aquí.
	shopifyClient := shopify.NewClient(cfg.Shopify)
	customerGateway := shopify.NewCustomerGateway(shopifyClient, companyRepo)
	pushGateway := appsync.NewPushGateway(customerGateway)

	// Pull sync: checkpoint sobre la bitácora + reconciliación transaccional.
	reconciler := appsync.NewReconciler(txRunner)
	checkpoint := appsync.NewCheckpoint(syncLogRepo)
	orchestrator := appsync.NewOrchestrator(
		customerGateway, reconciler, checkpoint, syncLogRepo,
		errorRecorder, log, cfg.Shopify.BatchSize, cfg.Shopify.DefaultCompanyID,
	)

	customerUC := usecase.NewCustomerUseCase(customerRepo, companyRepo, pushGateway)
	companyUC := usecase.NewCompanyUseCase(companyRepo, customerRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Clientes API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CustomerUC:   customerUC,
		CompanyUC:    companyUC,
		AuthUC:       authUC,
		Orchestrator: orchestrator,
		ErrorLogs:    errorRecorder,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
