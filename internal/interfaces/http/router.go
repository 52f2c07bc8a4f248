package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-core/internal/application/stock"
	"github.com/invorya/stock-core/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC         *usecase.ItemUseCase
	LocationUC     *usecase.LocationUseCase
	RecordMovement *stock.RecordMovementUseCase
	MovementQuery  *stock.MovementQueryUseCase
	ExportUC       *stock.ExportMovementsUseCase
	StatsUC        *stock.StatsUseCase
	AnalyticsUC    *stock.AnalyticsUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	itemHandler := NewItemHandler(deps.ItemUC)
	locationHandler := NewLocationHandler(deps.LocationUC)
	movementHandler := NewMovementHandler(deps.RecordMovement, deps.MovementQuery, deps.ExportUC)
	statsHandler := NewStatsHandler(deps.StatsUC, deps.AnalyticsUC)

	items := protected.Group("/items")

	// Sub-recursos primero: Fiber resuelve en orden de registro y
	// /items/:id taparía /items/locations, /items/transactions y
	// /items/statistics.
	items.Get("/locations", locationHandler.ListItemLocations)
	items.Post("/locations", locationHandler.Assign)
	items.Put("/locations", locationHandler.UpdateAssignment)
	items.Delete("/locations", locationHandler.RemoveAssignment)

	items.Get("/transactions/export", movementHandler.Export)
	items.Get("/transactions", movementHandler.List)
	items.Post("/transactions", movementHandler.Record)

	items.Post("/statistics/analyze", statsHandler.Analyze)
	items.Get("/statistics", statsHandler.Summary)

	items.Get("/", itemHandler.List)
	items.Post("/", itemHandler.Create)
	items.Put("/", itemHandler.Update)
	items.Delete("/", itemHandler.Delete)
	items.Get("/:id", itemHandler.GetByID)

	// Locations (protegido)
	locations := protected.Group("/locations")
	locations.Get("/", locationHandler.ListLocations)
	locations.Post("/", locationHandler.CreateLocation)
}
