package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger      *inventory.Ledger
	Checker     *inventory.AvailabilityChecker
	Lots        *inventory.LotRegistry
	Documents   *inventory.DocumentUseCase
	Stocktaking *inventory.StocktakingUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", ActorMiddleware())

	docs := api.Group("/stock-documents")
	documentHandler := NewDocumentHandler(deps.Documents)
	docs.Post("/", documentHandler.Create)
	docs.Get("/", documentHandler.List)
	docs.Get("/:id", documentHandler.GetByID)
	docs.Post("/:id/lines", documentHandler.AddLine)
	docs.Delete("/:id/lines/:lineId", documentHandler.RemoveLine)
	docs.Post("/:id/approve", documentHandler.Approve)
	docs.Post("/:id/reject", documentHandler.Reject)

	st := api.Group("/stocktaking")
	stocktakingHandler := NewStocktakingHandler(deps.Stocktaking)
	st.Post("/", stocktakingHandler.Create)
	st.Get("/", stocktakingHandler.List)
	st.Get("/:id", stocktakingHandler.GetByID)
	st.Post("/:id/start", stocktakingHandler.Start)
	st.Post("/:id/items", stocktakingHandler.AddItem)
	st.Post("/:id/confirm", stocktakingHandler.Confirm)
	st.Post("/:id/cancel", stocktakingHandler.Cancel)

	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Checker, deps.Lots)
	inv.Post("/availability", inventoryHandler.CheckAvailability)
	inv.Get("/balances", inventoryHandler.GetBalance)
	inv.Get("/lots", inventoryHandler.ListLots)
	inv.Get("/lots/:lotNumber", inventoryHandler.GetLot)
}
