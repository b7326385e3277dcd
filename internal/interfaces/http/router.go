package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrofum/silos-api/internal/application/batch"
	"github.com/agrofum/silos-api/internal/application/history"
	"github.com/agrofum/silos-api/internal/application/silo"
	"github.com/agrofum/silos-api/internal/application/transfer"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SiloUC     *silo.UseCase
	BatchUC    *batch.UseCase
	TransferUC *transfer.UseCase
	HistoryUC  *history.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todas las rutas van protegidas: el
// token lo emite el subsistema de autenticación externo.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Silos: lectura para todos los roles, escritura solo admin
	silos := api.Group("/silos")
	siloHandler := NewSiloHandler(deps.SiloUC)
	silos.Get("/", siloHandler.List)
	silos.Get("/:id", siloHandler.GetByID)
	silos.Get("/:id/batches", siloHandler.ListBatches)
	silos.Post("/", RequireRole(RoleAdmin), siloHandler.Create)
	silos.Put("/:id", RequireRole(RoleAdmin), siloHandler.Update)
	silos.Delete("/:id", RequireRole(RoleAdmin), siloHandler.Delete)

	// Lotes dentro de un silo (escritura solo admin)
	batchHandler := NewBatchHandler(deps.BatchUC)
	silos.Post("/:id/batches", RequireRole(RoleAdmin), batchHandler.Add)
	silos.Put("/:id/batches/:batchId", RequireRole(RoleAdmin), batchHandler.Update)
	silos.Delete("/:id/batches/:batchId", RequireRole(RoleAdmin), batchHandler.Remove)

	// Lotes por ID global (incluye despachados)
	batches := api.Group("/batches")
	batches.Get("/:id", batchHandler.GetByID)

	// Traslados entre silos (solo admin)
	transfers := api.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", RequireRole(RoleAdmin), transferHandler.Create)

	// Historial (solo lectura)
	historyHandler := NewHistoryHandler(deps.HistoryUC)
	api.Get("/history", historyHandler.Feed)
	batches.Get("/:id/history", historyHandler.BatchHistory)
}
