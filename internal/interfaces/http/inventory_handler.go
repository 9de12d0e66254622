package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
)

// InventoryHandler consultas de solo lectura: ledger, disponibilidad y lotes.
type InventoryHandler struct {
	ledger  *inventory.Ledger
	checker *inventory.AvailabilityChecker
	lots    *inventory.LotRegistry
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.Ledger, checker *inventory.AvailabilityChecker, lots *inventory.LotRegistry) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, checker: checker, lots: lots}
}

// CheckAvailability godoc
// @Summary      Verificar disponibilidad
// @Description  Consulta orientativa sin bloqueos; la aprobación de la salida vuelve a verificar.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AvailabilityRequest  true  "bodega, ubicación opcional e ítems"
// @Success      200   {object}  dto.AvailabilityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/availability [post]
func (h *InventoryHandler) CheckAvailability(c *fiber.Ctx) error {
	var in dto.AvailabilityRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	items := make([]inventory.AvailabilityItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, inventory.AvailabilityItem{ProductUnitID: it.ProductUnitID, RequiredQuantity: it.RequiredQuantity})
	}
	res, err := h.checker.CheckAvailability(c.UserContext(), items, in.WarehouseID, in.StockLocationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AvailabilityResponse{AllAvailable: res.AllAvailable, Shortages: shortagesToDTO(res.Shortages)})
}

// GetBalance godoc
// @Summary      Saldo de un producto
// @Tags         inventory
// @Produce      json
// @Param        product_unit_id    query  string  true   "unidad de producto"
// @Param        warehouse_id       query  string  true   "bodega"
// @Param        stock_location_id  query  string  false  "ubicación; vacío = toda la bodega"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/balances [get]
func (h *InventoryHandler) GetBalance(c *fiber.Ctx) error {
	var q dto.BalanceQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	b, err := h.ledger.GetBalance(c.UserContext(), q.ProductUnitID, q.WarehouseID, q.StockLocationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(balanceToDTO(b))
}

// ListLots godoc
// @Summary      Lotes de un producto en una bodega
// @Tags         inventory
// @Produce      json
// @Param        product_unit_id  query  string  true  "unidad de producto"
// @Param        warehouse_id     query  string  true  "bodega"
// @Success      200  {array}   dto.LotResponse
// @Router       /api/inventory/lots [get]
func (h *InventoryHandler) ListLots(c *fiber.Ctx) error {
	var q dto.LotQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	lots, err := h.lots.ListLots(c.UserContext(), q.ProductUnitID, q.WarehouseID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, lotToDTO(l))
	}
	return c.JSON(out)
}

// GetLot godoc
// @Summary      Detalle de un lote
// @Tags         inventory
// @Produce      json
// @Param        lotNumber        path   string  true  "número de lote"
// @Param        product_unit_id  query  string  true  "unidad de producto"
// @Param        warehouse_id     query  string  true  "bodega"
// @Success      200  {object}  dto.LotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots/{lotNumber} [get]
func (h *InventoryHandler) GetLot(c *fiber.Ctx) error {
	var q dto.LotQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	lot, err := h.lots.GetLot(c.UserContext(), q.ProductUnitID, q.WarehouseID, c.Params("lotNumber"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lotToDTO(lot))
}
