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
	"github.com/tu-usuario/stockflow-pro/internal/application/approval"
	"github.com/tu-usuario/stockflow-pro/internal/application/auth"
	"github.com/tu-usuario/stockflow-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/stockflow-pro/internal/interfaces/http"
	"github.com/tu-usuario/stockflow-pro/pkg/config"
	"github.com/tu-usuario/stockflow-pro/pkg/logger"
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
		Bool("clamp_to_zero", cfg.Stock.ClampToZero).
		Bool("strict_lines", cfg.Stock.StrictLines).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.Stock.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.DB); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	requestRepo := postgres.NewMovementRequestRepository(pool)
	ledgerRepo := postgres.NewStockMovementRepository(pool)
	positionRepo := postgres.NewStockPositionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	executor := approval.NewExecutor(approval.Policy{
		ClampToZero: cfg.Stock.ClampToZero,
		StrictLines: cfg.Stock.StrictLines,
	})
	decideUC := approval.NewDecideUseCase(txRunner, userRepo, executor, log)
	requestUC := approval.NewStockRequestUseCase(requestRepo)
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
		Title:    "Stockflow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		RequestUC:    requestUC,
		DecideUC:     decideUC,
		LedgerRepo:   ledgerRepo,
		PositionRepo: positionRepo,
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
