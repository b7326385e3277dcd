package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/agrofum/silos-api/internal/application/batch"
	"github.com/agrofum/silos-api/internal/application/history"
	"github.com/agrofum/silos-api/internal/application/ports"
	"github.com/agrofum/silos-api/internal/application/silo"
	"github.com/agrofum/silos-api/internal/application/transfer"
	"github.com/agrofum/silos-api/internal/infrastructure/postgres"
	"github.com/agrofum/silos-api/internal/infrastructure/treatment"
	httpRouter "github.com/agrofum/silos-api/internal/interfaces/http"
	"github.com/agrofum/silos-api/pkg/config"
	"github.com/agrofum/silos-api/pkg/logger"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	siloRepo := postgres.NewSiloRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	updateRepo := postgres.NewQuantityUpdateRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Feed de fumigación: opcional, el historial sale sin tratamientos si no
	// está configurado.
	var treatmentFeed ports.TreatmentFeed
	if cfg.Treatment.BaseURL != "" {
		treatmentFeed = treatment.NewClient(cfg.Treatment)
	}

	siloUC := silo.NewUseCase(siloRepo, batchRepo)
	batchUC := batch.NewUseCase(txRunner, siloRepo, batchRepo)
	transferUC := transfer.NewUseCase(txRunner, siloRepo)
	historyUC := history.NewUseCase(siloRepo, batchRepo, movementRepo, updateRepo, treatmentFeed, log)

	// Notificaciones de cambio del almacenamiento: cualquier escritura invalida
	// el cache de agregados y la próxima lectura re-agrega todo.
	listener := postgres.NewChangeListener(pool, log)
	go listener.Listen(ctx, siloUC.Invalidate)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Silos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		SiloUC:     siloUC,
		BatchUC:    batchUC,
		TransferUC: transferUC,
		HistoryUC:  historyUC,
		JWTSecret:  cfg.JWT.Secret,
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
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
