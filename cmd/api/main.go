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

	appstock "github.com/invorya/stock-core/internal/application/stock"
	"github.com/invorya/stock-core/internal/application/usecase"
	domstock "github.com/invorya/stock-core/internal/domain/stock"
	"github.com/invorya/stock-core/internal/infrastructure/postgres"
	httpRouter "github.com/invorya/stock-core/internal/interfaces/http"
	"github.com/invorya/stock-core/pkg/config"
	"github.com/invorya/stock-core/pkg/logger"
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

	itemRepo := postgres.NewItemRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	assignRepo := postgres.NewAssignmentRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	itemUC := usecase.NewItemUseCase(txRunner, itemRepo, assignRepo)
	locationUC := usecase.NewLocationUseCase(txRunner, locationRepo, assignRepo, itemRepo)
	recordMovementUC := appstock.NewRecordMovementUseCase(txRunner, itemRepo, locationRepo)
	movementQueryUC := appstock.NewMovementQueryUseCase(itemRepo, movementRepo)
	exportUC := appstock.NewExportMovementsUseCase(movementQueryUC, locationRepo)
	analyticsUC := appstock.NewAnalyticsUseCase(itemRepo, movementRepo, domstock.AnalysisParams{
		LeadTimeDays: cfg.Stock.LeadTimeDays,
		SafetyFactor: cfg.Stock.SafetyFactor,
	})
	statsUC := appstock.NewStatsUseCase(itemRepo, analyticsUC)

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
		Title:    "Invorya Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:         itemUC,
		LocationUC:     locationUC,
		RecordMovement: recordMovementUC,
		MovementQuery:  movementQueryUC,
		ExportUC:       exportUC,
		StatsUC:        statsUC,
		AnalyticsUC:    analyticsUC,
		JWTSecret:      cfg.JWT.Secret,
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
